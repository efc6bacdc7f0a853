package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"sealedchat/internal/config"
	"sealedchat/internal/domain"
	"sealedchat/internal/services/handshake"
)

// Router wraps the mux router together with the server's collaborators.
type Router struct {
	*mux.Router

	cfg       *config.Config
	users     domain.UserDirectory
	exchanges *handshake.Coordinator
	messages  domain.MessageLog
	audit     domain.AuditLog
	hub       *Hub
}

// NewRouter creates the HTTP router with all routes wired.
func NewRouter(
	cfg *config.Config,
	users domain.UserDirectory,
	exchanges *handshake.Coordinator,
	messages domain.MessageLog,
	audit domain.AuditLog,
	hub *Hub,
) *Router {
	r := &Router{
		Router:    mux.NewRouter(),
		cfg:       cfg,
		users:     users,
		exchanges: exchanges,
		messages:  messages,
		audit:     audit,
		hub:       hub,
	}

	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Public routes
	auth := r.PathPrefix("/api/auth").Subrouter()
	auth.HandleFunc("/signup", r.signup).Methods("POST")
	auth.HandleFunc("/login", r.login).Methods("POST")

	// The echo endpoint demonstrates an unvalidated key exchange. It is
	// unauthenticated, never touches the ledger, and is only mounted
	// when explicitly enabled.
	if cfg.EnableEchoDemo {
		r.HandleFunc("/api/key/request_insecure", r.echoKeyRequest).Methods("POST")
	}

	// Authenticated API
	api := r.PathPrefix("/api").Subrouter()
	api.Use(r.authMiddleware)
	api.HandleFunc("/users", r.listUsers).Methods("GET")
	api.HandleFunc("/users/{id}", r.getUser).Methods("GET")

	api.HandleFunc("/key/request", r.createKeyRequest).Methods("POST")
	api.HandleFunc("/key/requests/incoming", r.incomingKeyRequests).Methods("GET")
	api.HandleFunc("/key/requests/accepted/{peer}", r.acceptedKeyRequest).Methods("GET")
	api.HandleFunc("/key/accept", r.acceptKeyRequest).Methods("POST")
	api.HandleFunc("/key/reject", r.rejectKeyRequest).Methods("POST")

	api.HandleFunc("/messages", r.postMessage).Methods("POST")
	api.HandleFunc("/messages/file", r.postFile).Methods("POST")
	api.HandleFunc("/messages/history/{peer}", r.history).Methods("GET")

	// Live delivery
	r.HandleFunc("/ws", r.serveWS)

	// Uploaded files
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	return r
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError maps the domain error taxonomy onto status codes.
// The same failure always produces the same code.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrReplay):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

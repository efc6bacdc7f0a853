package server

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"sealedchat/internal/domain"
)

func (r *Router) listUsers(w http.ResponseWriter, req *http.Request) {
	users, err := r.users.List(req.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (r *Router) getUser(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	user, err := r.users.FindByID(req.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	user.Email = "" // directory entries don't expose email to other users
	respondJSON(w, http.StatusOK, user)
}

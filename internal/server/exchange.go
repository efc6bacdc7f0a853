package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"sealedchat/internal/jwk"
)

// KeyRequestPayload opens a key exchange toward a receiver.
type KeyRequestPayload struct {
	ReceiverID   string      `json:"receiverId"`
	AgreementKey jwk.Record  `json:"agreementKey"`
	SigningKey   *jwk.Record `json:"signingKey,omitempty"`
}

// KeyDecisionPayload accepts or rejects a pending request.
type KeyDecisionPayload struct {
	RequestID    string      `json:"requestId"`
	AgreementKey jwk.Record  `json:"agreementKey"`
	SigningKey   *jwk.Record `json:"signingKey,omitempty"`
}

func (r *Router) createKeyRequest(w http.ResponseWriter, req *http.Request) {
	me, ok := currentUser(req)
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var in KeyRequestPayload
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	id, err := r.exchanges.CreateRequest(req.Context(), me.ID, in.ReceiverID, in.AgreementKey, in.SigningKey)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (r *Router) incomingKeyRequests(w http.ResponseWriter, req *http.Request) {
	me, ok := currentUser(req)
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	incoming, err := r.exchanges.ListIncoming(req.Context(), me.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list requests")
		return
	}
	respondJSON(w, http.StatusOK, incoming)
}

func (r *Router) acceptedKeyRequest(w http.ResponseWriter, req *http.Request) {
	me, ok := currentUser(req)
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	peer := mux.Vars(req)["peer"]
	rec, found, err := r.exchanges.AcceptedWith(req.Context(), me.ID, peer)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to look up request")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "no accepted request with this peer")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (r *Router) acceptKeyRequest(w http.ResponseWriter, req *http.Request) {
	me, ok := currentUser(req)
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var in KeyDecisionPayload
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := r.exchanges.Accept(req.Context(), me.ID, in.RequestID, in.AgreementKey, in.SigningKey)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	r.audit.Event("KEY_REQUEST_ACCEPTED", map[string]any{
		"requestId": in.RequestID,
		"responder": me.ID,
	})
	respondJSON(w, http.StatusOK, result)
}

func (r *Router) rejectKeyRequest(w http.ResponseWriter, req *http.Request) {
	me, ok := currentUser(req)
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var in struct {
		RequestID string `json:"requestId"`
	}
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := r.exchanges.Reject(req.Context(), me.ID, in.RequestID); err != nil {
		respondDomainError(w, err)
		return
	}

	r.audit.Event("KEY_REQUEST_REJECTED", map[string]any{
		"requestId": in.RequestID,
		"responder": me.ID,
	})
	respondJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

// echoKeyRequest parrots any payload straight back, unauthenticated and
// without touching the ledger. It exists to demonstrate what a key
// exchange with no human approval and no server state looks like.
func (r *Router) echoKeyRequest(w http.ResponseWriter, req *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"warning": "insecure demo endpoint: nothing was verified or stored",
		"echo":    payload,
	})
}

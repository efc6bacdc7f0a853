package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"sealedchat/internal/domain"
)

// maxUploadBytes bounds file message uploads.
const maxUploadBytes = 25 << 20

func (r *Router) postMessage(w http.ResponseWriter, req *http.Request) {
	me, ok := currentUser(req)
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var msg domain.WireMessage
	if err := json.NewDecoder(req.Body).Decode(&msg); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if msg.SenderID != me.ID {
		respondError(w, http.StatusForbidden, "sender does not match authenticated user")
		return
	}
	if msg.ReceiverID == "" {
		respondError(w, http.StatusBadRequest, "receiver is required")
		return
	}
	if msg.Kind != domain.KindSealed {
		respondError(w, http.StatusBadRequest, "only sealed messages are accepted here")
		return
	}
	if msg.Ciphertext == "" || msg.Nonce == "" || msg.Salt == "" {
		respondError(w, http.StatusBadRequest, "sealed message is missing envelope fields")
		return
	}
	if msg.Counter == 0 || msg.Counter > math.MaxInt64 {
		respondError(w, http.StatusBadRequest, "counter out of range")
		return
	}

	stored, err := r.messages.Insert(req.Context(), msg)
	if err != nil {
		if errors.Is(err, domain.ErrReplay) {
			r.audit.Event("REPLAY_REJECTED", map[string]any{
				"sender":   msg.SenderID,
				"receiver": msg.ReceiverID,
				"counter":  msg.Counter,
			})
		}
		respondDomainError(w, err)
		return
	}

	r.audit.Event("MESSAGE_STORED", map[string]any{
		"sender":   stored.SenderID,
		"receiver": stored.ReceiverID,
		"counter":  stored.Counter,
	})
	r.hub.Notify(stored.ReceiverID, wsEvent{Type: "message", Message: stored})
	respondJSON(w, http.StatusCreated, stored)
}

func (r *Router) postFile(w http.ResponseWriter, req *http.Request) {
	me, ok := currentUser(req)
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	req.Body = http.MaxBytesReader(w, req.Body, maxUploadBytes)
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}
	receiverID := req.FormValue("to")
	if receiverID == "" {
		respondError(w, http.StatusBadRequest, "receiver is required")
		return
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if err := os.MkdirAll(r.cfg.UploadDir, 0o750); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store file")
		return
	}
	name := fmt.Sprintf("%s%s", uuid.NewString(), filepath.Ext(header.Filename))
	dst, err := os.Create(filepath.Join(r.cfg.UploadDir, name))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store file")
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	msg := domain.WireMessage{
		Kind:       domain.KindFile,
		SenderID:   me.ID,
		ReceiverID: receiverID,
		FileURL:    "/uploads/" + name,
		FileName:   header.Filename,
	}
	stored, err := r.messages.Insert(req.Context(), msg)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	r.audit.Event("FILE_STORED", map[string]any{
		"sender":   stored.SenderID,
		"receiver": stored.ReceiverID,
		"fileName": stored.FileName,
	})
	r.hub.Notify(stored.ReceiverID, wsEvent{Type: "message", Message: stored})
	respondJSON(w, http.StatusCreated, stored)
}

func (r *Router) history(w http.ResponseWriter, req *http.Request) {
	me, ok := currentUser(req)
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	peer := mux.Vars(req)["peer"]
	messages, err := r.messages.History(req.Context(), me.ID, peer)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch history")
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sealedchat/internal/domain"
	"sealedchat/internal/jwk"
)

// SignupRequest is the registration payload. Both public key records
// are published at signup and are immutable afterwards.
type SignupRequest struct {
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Password     string     `json:"password"`
	SigningKey   jwk.Record `json:"signingKey"`
	AgreementKey jwk.Record `json:"agreementKey"`
}

// LoginRequest is the login payload. Username also matches email.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *Router) signup(w http.ResponseWriter, req *http.Request) {
	var in SignupRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if in.Username == "" || in.Email == "" || in.Password == "" {
		respondError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}
	if err := in.SigningKey.Validate(jwk.KindSigningPublic); err != nil {
		respondError(w, http.StatusBadRequest, "signing key: "+err.Error())
		return
	}
	if err := in.AgreementKey.Validate(jwk.KindAgreementPublic); err != nil {
		respondError(w, http.StatusBadRequest, "agreement key: "+err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		SigningKey:   &in.SigningKey,
		AgreementKey: &in.AgreementKey,
	}
	if err := r.users.Insert(req.Context(), user, string(hash)); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			respondError(w, http.StatusConflict, "username or email already taken")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	r.audit.Event("SIGNUP", map[string]any{"userId": user.ID, "username": user.Username})
	respondJSON(w, http.StatusCreated, map[string]string{
		"id":       user.ID,
		"username": user.Username,
	})
}

func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var in LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, hash, err := r.users.FindByLogin(req.Context(), in.Username)
	if err != nil {
		r.audit.Event("LOGIN_FAIL", map[string]any{"username": in.Username})
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(in.Password)) != nil {
		r.audit.Event("LOGIN_FAIL", map[string]any{"username": in.Username})
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := newToken(r.cfg.JWTSecret, user.ID, user.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	r.audit.Event("LOGIN_OK", map[string]any{"userId": user.ID, "username": user.Username})
	respondJSON(w, http.StatusOK, domain.Credentials{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
	})
}

package server

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const userContextKey contextKey = "user"

type authedUser struct {
	ID       string
	Username string
}

// authMiddleware verifies the bearer token and attaches the
// authenticated user to the request context.
func (r *Router) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		authHeader := req.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(w, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		userID, username, err := parseToken(r.cfg.JWTSecret, parts[1])
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(req.Context(), userContextKey, authedUser{ID: userID, Username: username})
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// currentUser retrieves the authenticated user from the request context.
func currentUser(req *http.Request) (authedUser, bool) {
	u, ok := req.Context().Value(userContextKey).(authedUser)
	return u, ok
}

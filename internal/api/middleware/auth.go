// Package middleware provides HTTP middleware for tracing and token
// authentication.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/filedepot/filedepot-api/internal/api/shared"
)

// SessionResolver maps a token to its owning user, if any.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (userID string, ok bool, err error)
}

// TokenHeader carries the session token on authenticated requests.
const TokenHeader = "X-Token"

// AuthMiddleware authenticates requests by resolving the X-Token header
// against the session store.
type AuthMiddleware struct {
	sessions SessionResolver
}

// NewAuthMiddleware creates an AuthMiddleware backed by the given resolver.
func NewAuthMiddleware(sessions SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Authenticate resolves the request's token and adds the user ID to the
// context. Missing, unknown, and expired tokens all produce 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(TokenHeader)
		if token == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}

		userID, ok, err := m.sessions.Resolve(r.Context(), token)
		if err != nil {
			slog.Error("failed to resolve session", "error", err)
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := shared.SetUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ResolveOptional resolves the token when present but lets unauthenticated
// requests through; used by the public file data endpoint, where access
// control happens against the file's visibility instead.
func (m *AuthMiddleware) ResolveOptional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(TokenHeader)
		if token != "" {
			userID, ok, err := m.sessions.Resolve(r.Context(), token)
			if err != nil {
				slog.Error("failed to resolve session", "error", err)
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Internal server error")
				return
			}
			if ok {
				r = r.WithContext(shared.SetUserID(r.Context(), userID))
			}
		}
		next.ServeHTTP(w, r)
	})
}

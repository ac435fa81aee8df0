package api

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/filedepot/filedepot-api/internal/api/middleware"
	"github.com/filedepot/filedepot-api/internal/api/shared"
	"github.com/filedepot/filedepot-api/internal/domain"
	"github.com/filedepot/filedepot-api/internal/task"
)

// SessionIssuer creates a session token for a user.
type SessionIssuer interface {
	Issue(ctx context.Context, userID string) (string, error)
}

// AuthHandler handles sign-in and sign-out.
type AuthHandler struct {
	userLane Submitter
	sessions SessionIssuer
}

// NewAuthHandler creates an AuthHandler with the given dependencies.
func NewAuthHandler(userLane Submitter, sessions SessionIssuer) *AuthHandler {
	return &AuthHandler{
		userLane: userLane,
		sessions: sessions,
	}
}

// parseBasicAuth extracts the email and password from a Basic
// Authorization header. Returns false if the header is missing or
// malformed.
func parseBasicAuth(header string) (email, password string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}

	email, password, found := strings.Cut(string(decoded), ":")
	if !found {
		return "", "", false
	}
	return email, password, true
}

// Connect handles GET /connect: Basic credentials are checked by the user
// lane's signInUser processor, and a successful match is exchanged for a
// session token. "No user" is a normal task outcome and maps to 401.
func (h *AuthHandler) Connect(w http.ResponseWriter, r *http.Request) {
	email, password, ok := parseBasicAuth(r.Header.Get("Authorization"))
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	handle, err := h.userLane.Submit(task.SignInPayload{
		Email:    email,
		Password: password,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Internal server error", err)
		return
	}

	value, err := handle.Await(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	user, _ := value.(*domain.User)
	if user == nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	token, err := h.sessions.Issue(r.Context(), user.ID.Hex())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Internal server error", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ConnectResponse{Token: token})
}

// Disconnect handles GET /disconnect. Revocation is idempotent; the
// request succeeds with 204 whether or not the token was live.
func (h *AuthHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(middleware.TokenHeader)
	if token == "" {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	handle, err := h.userLane.Submit(task.SignOutPayload{Token: token})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Internal server error", err)
		return
	}

	if _, err := handle.Await(r.Context()); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/filedepot/filedepot-api/internal/api/shared"
	"github.com/filedepot/filedepot-api/internal/domain"
	"github.com/filedepot/filedepot-api/internal/store"
	"github.com/filedepot/filedepot-api/internal/task"
)

// Submitter enqueues a task and returns its handle.
type Submitter interface {
	Submit(payload task.Payload) (*task.Handle, error)
}

// UsersHandler handles account creation and the current-user endpoint.
type UsersHandler struct {
	userLane  Submitter
	users     store.UserStore
	validator *validator.Validate
}

// NewUsersHandler creates a UsersHandler with the given dependencies.
func NewUsersHandler(userLane Submitter, users store.UserStore) *UsersHandler {
	return &UsersHandler{
		userLane:  userLane,
		users:     users,
		validator: validator.New(),
	}
}

// Create handles POST /users. The account is created by the user lane's
// createUser processor; the request blocks only on the task's outcome, not
// on the hashing or store write itself.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.Email == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing email")
		return
	}
	if req.Password == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing password")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid email")
		return
	}

	handle, err := h.userLane.Submit(task.CreateUserPayload{
		Email:    req.Email,
		Password: req.Password,
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

	user := value.(*domain.User)
	shared.RespondWithJSON(w, r, http.StatusCreated, user.Public())
}

// Me handles GET /users/me.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Internal server error", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user.Public())
}

package store

import (
	"context"

	"github.com/filedepot/filedepot-api/internal/domain"
)

// UserStore defines the interface for user persistence.
//
// The create-then-check uniqueness guarantee is best effort: two concurrent
// Create calls for the same email may both pass the caller's existence
// check. This race is accepted and documented rather than locked against.
type UserStore interface {
	// Create saves a new user to the store and fills in its generated ID.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their hex ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByCredentials retrieves the user matching both email and password
	// digest. Returns ErrUserNotFound when no such user exists; callers
	// treat that as a normal "no user" outcome, not a failure.
	GetByCredentials(ctx context.Context, email, passwordDigest string) (*domain.User, error)

	// Count returns the total number of users, used for stats reporting.
	Count(ctx context.Context) (int64, error)
}

package domain

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Common user validation errors
var (
	ErrEmptyEmail    = errors.New("email cannot be empty")
	ErrEmptyPassword = errors.New("password cannot be empty")
)

// User represents a registered account. Only the one-way digest of the
// password is ever stored or compared; the plaintext never leaves the
// request path.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Email          string             `bson:"email"`
	PasswordDigest string             `bson:"password"`
}

// PublicUser is the client-facing view of a User. The store's raw `_id`
// field is remapped to `id` and the password digest is never included.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Public returns the client-facing view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID.Hex(),
		Email: u.Email,
	}
}

// ValidateNewUser checks the inputs for account creation.
func ValidateNewUser(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmptyEmail
	}
	if password == "" {
		return ErrEmptyPassword
	}
	return nil
}

package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is the generic version of the entity-specific not found
	// errors (ErrUserNotFound, ErrFileNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a user with the same email).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidID is returned when an identifier cannot be parsed into the
	// store's native ID format.
	ErrInvalidID = errors.New("invalid id")

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrFileNotFound indicates that the requested file does not exist or is
	// not visible to the requesting owner.
	ErrFileNotFound = fmt.Errorf("%w: file", ErrNotFound)

	// ErrEmailExists indicates that a user with the given email already
	// exists. Returned when attempting to create a user with an email
	// that's already in use.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when input is missing or malformed.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized is returned for a missing, invalid, or expired token,
	// or for bad credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when a resource is missing or access to it is
	// denied. The two cases are deliberately conflated so that the existence
	// of another user's resource is never revealed.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when an operation would duplicate a
	// unique key, such as a user email.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidParent is returned when a file references a parent that does
	// not exist or is not a folder.
	ErrInvalidParent = errors.New("invalid parent")

	// ErrNotAFile is returned when raw content is requested for a folder.
	ErrNotAFile = errors.New("a folder has no content")

	// ErrInternal is returned when a collaborator (store, cache, or
	// filesystem) fails. The underlying cause is wrapped but never exposed
	// to clients.
	ErrInternal = errors.New("internal error")
)

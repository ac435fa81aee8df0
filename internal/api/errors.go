package api

import (
	"errors"
	"net/http"

	"github.com/filedepot/filedepot-api/internal/domain"
	"github.com/filedepot/filedepot-api/internal/platform/ready"
	"github.com/filedepot/filedepot-api/internal/task"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidParent),
		errors.Is(err, domain.ErrNotAFile),
		errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound

	// Configuration defects and collaborator failures
	case errors.Is(err, task.ErrUnknownTaskKind),
		errors.Is(err, ready.ErrDependencyUnavailable),
		errors.Is(err, domain.ErrInternal):
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		// Validation messages name the offending field and are written for
		// clients; the wrapped sentinel prefix is stripped off.
		return validationMessage(err)

	case errors.Is(err, domain.ErrAlreadyExists):
		return "Already exists"

	case errors.Is(err, domain.ErrInvalidParent):
		return invalidParentMessage(err)

	case errors.Is(err, domain.ErrNotAFile):
		return "A folder doesn't have content"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case errors.Is(err, domain.ErrNotFound):
		return "Not found"

	default:
		return "Internal server error"
	}
}

// validationMessage extracts the client-facing detail from a wrapped
// validation error, e.g. "validation failed: missing name" -> "Missing name".
func validationMessage(err error) string {
	detail := trimSentinel(err.Error(), domain.ErrValidation.Error())
	if detail == "" {
		return "Invalid request"
	}
	return capitalize(detail)
}

func invalidParentMessage(err error) string {
	detail := trimSentinel(err.Error(), domain.ErrInvalidParent.Error())
	if detail == "" {
		return "Invalid parent"
	}
	return capitalize(detail)
}

func trimSentinel(msg, sentinel string) string {
	if len(msg) > len(sentinel)+2 && msg[:len(sentinel)] == sentinel {
		return msg[len(sentinel)+2:]
	}
	return ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

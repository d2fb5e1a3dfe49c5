package api

import (
	"errors"
	"net/http"

	"github.com/avbelov/taskman-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
//
// A duplicate username maps to 400 Bad Request, matching the service's
// public contract for the create-user endpoint.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusBadRequest

	case errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrUserNotFound):
		return "User was not found"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task was not found"

	case errors.Is(err, store.ErrNotFound):
		return "Entity was not found"

	case errors.Is(err, store.ErrUsernameExists):
		return "User with this username already exists"

	case errors.Is(err, store.ErrDuplicate):
		return "Entity already exists"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

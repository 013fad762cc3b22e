package utils

import (
	"errors"
	"net/http"
)

// Error taxonomy shared by stores, services and handlers. Concrete errors wrap one of these
// with fmt.Errorf("%w: ...") so handlers can map them with errors.Is.
var (
	ErrValidation     = errors.New("validation error")
	ErrDuplicate      = errors.New("duplicate")
	ErrAuthentication = errors.New("authentication error")
	ErrAuthorization  = errors.New("unauthorized")
	ErrNotFound       = errors.New("not found")
	ErrPersistence    = errors.New("persistence error")
	ErrTooLarge       = errors.New("payload too large")
)

// StatusOf maps an error to the HTTP status of its taxonomy class; unknown errors are 500.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrDuplicate):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

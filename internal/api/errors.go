package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx backend response. The backend reports failures as
// {"detail": "..."}; Detail carries that text when present.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *Error) Forbidden() bool    { return e.StatusCode == http.StatusForbidden }
func (e *Error) Unauthorized() bool { return e.StatusCode == http.StatusUnauthorized }
func (e *Error) NotFound() bool     { return e.StatusCode == http.StatusNotFound }

// IsForbidden reports whether err is a 403 backend response.
func IsForbidden(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Forbidden()
}

func IsUnauthorized(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Unauthorized()
}

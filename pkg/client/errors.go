package client

import (
	"errors"
	"fmt"
)

// ErrHandlerRegistered is returned when a second 401 observer is registered.
var ErrHandlerRegistered = errors.New("unauthorized handler already registered")

// ErrNoCredential is returned when a login succeeds without handing back a credential.
var ErrNoCredential = errors.New("login response carried no credential")

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

package api

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthorized matches any 401 answer. Callers drop the session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnavailable matches network failures and 503 answers.
	ErrUnavailable = errors.New("server unavailable")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-2xx answer of the server.
type APIError struct {
	Status  int
	Message string
	Errors  []FieldError
}

// Error returns the first field error when there is one, the server's
// message otherwise.
func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return e.Errors[0].Message
	}
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrUnavailable:
		return e.Status == http.StatusServiceUnavailable
	}
	return false
}

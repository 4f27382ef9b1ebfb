package connection

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels matched against *APIError with errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New("server error")
)

// ErrMalformedResponse is returned when a success response does not carry
// the expected envelope.
var ErrMalformedResponse = errors.New("malformed response")

// APIError is a non-2xx backend response.
type APIError struct {
	// Status is the HTTP status code.
	Status int
	// Message is the message field of the error payload, if any.
	Message string
	// RequestID is the X-Request-ID the request was sent with.
	RequestID string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// ServerMessage returns the backend-supplied message.
func (e *APIError) ServerMessage() string {
	return e.Message
}

// Is maps status codes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict
	case ErrServer:
		return e.Status >= http.StatusInternalServerError
	default:
		return false
	}
}

package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound matches any 404 response
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized matches any 401 response that survived a refresh attempt
	ErrUnauthorized = errors.New("unauthorized")
	// ErrCircuitOpen is returned while the breaker rejects calls
	ErrCircuitOpen = errors.New("server temporarily unavailable")
)

// APIError is a non-2xx response decoded from the server's error body
type APIError struct {
	StatusCode int    `json:"-"`
	Type       string `json:"error"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"requestId"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, msg)
}

// Is lets callers use errors.Is(err, ErrNotFound)
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

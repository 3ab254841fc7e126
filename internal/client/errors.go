package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport marks failures where no HTTP response was received.
	ErrTransport = errors.New("transport failure")
	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = fmt.Errorf("%w: api temporarily unavailable", ErrTransport)
)

// StatusError is a non-2xx response from the API.
type StatusError struct {
	Code   int
	Status string
	Detail string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("HTTP status %d %s", e.Code, e.Status)
	if e.Detail != "" {
		msg += " - " + e.Detail
	}
	return msg
}

// ClientSide reports whether the status is a 4xx.
func (e *StatusError) ClientSide() bool {
	return e.Code >= 400 && e.Code < 500
}

func newStatusError(code int, body []byte) *StatusError {
	return &StatusError{
		Code:   code,
		Status: http.StatusText(code),
		Detail: errorDetail(body),
	}
}

// errorDetail extracts a human readable message from an error body:
// a JSON message field, then a JSON error field, then the raw text.
func errorDetail(body []byte) string {
	text := string(body)
	if text == "" {
		return ""
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return text
	}
	for _, key := range []string{"message", "error"} {
		if s, ok := payload[key].(string); ok && s != "" {
			return s
		}
	}
	return text
}

// IsStatus reports whether err carries a StatusError and returns it.
func IsStatus(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnavailable marks transport-level failures: no response was received
	// (offline, DNS failure, timeout). Consumers use it to show connectivity
	// guidance instead of a server message.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized marks a terminal 401, i.e. one that survived the
	// refresh protocol.
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is the normalized server-returned error: a human-readable message,
// the HTTP status, and the raw response payload.
type Error struct {
	Message string
	Status  int
	Body    []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match a terminal 401.
func (e *Error) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// fieldError is one element of a structured validation failure (422).
type fieldError struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// newError builds the normalized error for a non-2xx response. The message
// prefers the server-supplied detail field, then falls back to the standard
// status text.
func newError(status int, body []byte) *Error {
	e := &Error{Status: status, Body: body, Message: http.StatusText(status)}
	if e.Message == "" {
		e.Message = "an unexpected error occurred"
	}

	var probe struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &probe); err != nil || len(probe.Detail) == 0 {
		return e
	}

	var msg string
	if err := json.Unmarshal(probe.Detail, &msg); err == nil && msg != "" {
		e.Message = msg
		return e
	}

	// validation errors arrive as a list of {loc, msg}
	var fields []fieldError
	if err := json.Unmarshal(probe.Detail, &fields); err == nil && len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			if len(f.Loc) > 0 {
				parts = append(parts, fmt.Sprintf("%v: %s", f.Loc[len(f.Loc)-1], f.Msg))
			} else {
				parts = append(parts, f.Msg)
			}
		}
		e.Message = strings.Join(parts, "; ")
	}

	return e
}

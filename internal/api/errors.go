package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Sentinel errors for statuses the UI treats specially. A 401 means the
// session cannot be recovered client-side and forces a login redirect.
var (
	ErrUnauthorized = errors.New("api: not authenticated")
	ErrNotFound     = errors.New("api: not found")
)

// genericMessage replaces server messages that cannot be parsed.
const genericMessage = "something went wrong"

// Error is a non-2xx response carrying the server's JSON error string.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// decodeError maps a failed response to an error. Every endpoint shares
// this: the API promises a JSON body with an "error" string on failure,
// and anything else degrades to a generic message.
func decodeError(resp *http.Response) error {
	defer func() { _, _ = io.Copy(io.Discard, resp.Body) }()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var payload struct {
		Error string `json:"error"`
	}
	msg := genericMessage
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		msg = payload.Error
	}
	return &Error{Status: resp.StatusCode, Message: msg}
}

// Message extracts the user-facing text for any error produced by this
// package. Server-supplied validation messages pass through verbatim.
func Message(err error) string {
	var apiErr *Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, ErrUnauthorized):
		return "session expired, please log in again"
	case errors.Is(err, ErrNotFound):
		return "not found"
	default:
		return genericMessage
	}
}

// IsTransient reports whether a failed call is worth retrying: transport
// failures and 5xx responses. Auth and validation failures are permanent.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status >= http.StatusInternalServerError
	}
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotFound) {
		return false
	}
	return true
}

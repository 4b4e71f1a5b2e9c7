package api

import (
	"errors"
	"fmt"
)

// Failure taxonomy for API calls. Callers branch with errors.Is; the
// concrete *APIError / *TransientError carry the detail.
var (
	// ErrAuthorizationExpired — the request's credential was rejected and the
	// pipeline's silent recovery did not save it. The session has already
	// been cleared by the time a caller sees this.
	ErrAuthorizationExpired = errors.New("authorization expired")

	// ErrRateLimited — the server throttled the call. Never retried
	// automatically; the advisory notice carries the countdown.
	ErrRateLimited = errors.New("rate limited")

	// ErrNotFound — the resource does not exist; views render an absent state.
	ErrNotFound = errors.New("not found")

	// ErrValidationRejected — a server-side business rule failed (e.g.
	// insufficient stock). The server's message is surfaced verbatim.
	ErrValidationRejected = errors.New("validation rejected")

	// ErrTransientNetwork — the call never produced a usable response.
	ErrTransientNetwork = errors.New("transient network failure")
)

// APIError is a non-2xx response translated into the taxonomy above.
type APIError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d): %s", e.kind, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// TransientError wraps a transport-level failure (connection refused, reset,
// timeout) so callers can match ErrTransientNetwork while keeping the cause.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("api: %s: %s", ErrTransientNetwork, e.Err)
}

func (e *TransientError) Unwrap() []error {
	return []error{ErrTransientNetwork, e.Err}
}

// newStatusError maps an HTTP status to its taxonomy bucket.
func newStatusError(statusCode int, message string) error {
	kind := ErrValidationRejected
	switch {
	case statusCode == 401 || statusCode == 403:
		kind = ErrAuthorizationExpired
	case statusCode == 404:
		kind = ErrNotFound
	case statusCode == 429:
		kind = ErrRateLimited
	case statusCode >= 500:
		kind = ErrTransientNetwork
	}
	if message == "" {
		message = "request failed"
	}
	return &APIError{StatusCode: statusCode, Message: message, kind: kind}
}

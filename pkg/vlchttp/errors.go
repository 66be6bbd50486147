package vlchttp

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a non-2xx response from the VLC HTTP interface.
type Error struct {
	StatusCode int    // HTTP status code
	Status     string // HTTP status line, e.g. "401 Unauthorized"
}

// Error returns the error message.
func (e *Error) Error() string {
	return fmt.Sprintf("vlchttp: unexpected response: %s", e.Status)
}

// Is checks if the target error is an *Error with the same status code.
//
// This allows errors.Is(err, ErrUnauthorized) to match any 401 response.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode
}

// Predefined errors for common cases.
var (
	// ErrNoPassword is returned by NewClient when no password is configured.
	ErrNoPassword = errors.New("vlchttp: password is required")

	// ErrUnauthorized matches responses rejected because of a wrong password.
	ErrUnauthorized = &Error{StatusCode: http.StatusUnauthorized, Status: "401 Unauthorized"}

	// ErrMalformedStatus is returned when the status body is not a JSON
	// object carrying a "state" field.
	ErrMalformedStatus = errors.New("vlchttp: malformed status response")
)

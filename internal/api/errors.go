package api

import (
	"errors"
	"fmt"
)

// Error categories. The sync orchestrator treats transport and decode failures
// identically (both collapse to "fetch failed"); they are distinguished here
// only for logging and tests.
var (
	// ErrTransport marks connection failures and timeouts.
	ErrTransport = errors.New("transport error")

	// ErrDecode marks malformed or schema-incompatible response bodies.
	ErrDecode = errors.New("decode error")

	// ErrRemote marks non-2xx responses from the backend.
	ErrRemote = errors.New("remote error")
)

// APIError carries the status code and message of a non-2xx backend response.
//
//nolint:revive // APIError is the canonical name for this exported type.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// Is reports that APIError matches ErrRemote for errors.Is chains.
func (e *APIError) Is(target error) bool {
	return target == ErrRemote
}

// Package clients provides the instrumented HTTP transport shared by the
// Readwise and completion provider adapters.
package clients

import (
	"errors"
	"fmt"
)

// Client errors represent failures in the HTTP client layer.
// The acl adapters translate them into domain errors.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded is returned after all attempts have been exhausted.
	// The last attempt's error is wrapped alongside it.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// StatusError reports a 5xx response that exhausted the retry budget.
// The response body has already been closed.
type StatusError struct {
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("server error: %d", e.StatusCode)
}

// StatusCodeOf extracts the HTTP status from a client error, or 0 when the
// failure happened before a response was received.
func StatusCodeOf(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}

	return 0
}

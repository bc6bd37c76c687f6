package acl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/jsamuelsen/vows/internal/adapters/clients"
	"github.com/jsamuelsen/vows/internal/domain"
)

const maxErrorBody = 64 << 10

// providerMessage pulls a human-readable message out of an error body. The
// completion API nests it under error.message (or sends error as a plain
// string), Readwise uses detail, and anything else may use message.
func providerMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}

	if e := gjson.GetBytes(body, "error"); e.Type == gjson.String {
		return e.Str
	}

	for _, path := range []string{"error.message", "detail", "message"} {
		if r := gjson.GetBytes(body, path); r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}

	return ""
}

// MapHTTPError turns the outcome of a provider call into a domain error, or
// nil for a 2xx response. Context errors stay wrapped rather than
// translated so callers can tell an abandoned request from a provider
// failure.
func MapHTTPError(resp *http.Response, clientErr error, service, operation string) error {
	if clientErr != nil {
		return mapClientError(clientErr, service, operation)
	}

	if resp == nil {
		return domain.NewRemoteFetchError(service, "no response received during "+operation)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var msg string
	if resp.Body != nil {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg = providerMessage(body)
	}

	return mapStatusCode(resp.StatusCode, msg, service, operation)
}

func mapClientError(err error, service, operation string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", operation, err)
	}

	if errors.Is(err, clients.ErrCircuitOpen) {
		return domain.NewRemoteFetchError(service, "circuit breaker open during "+operation)
	}

	// Retries that ended on a 5xx keep that status.
	if status := clients.StatusCodeOf(err); status != 0 {
		return mapStatusCode(status, "", service, operation)
	}

	return domain.NewRemoteFetchError(service, fmt.Sprintf("%s failed: %v", operation, err))
}

// mapStatusCode treats 401 and 403 as a rejected credential and every other
// status as a remote failure carrying msg, or a stock message when the
// provider gave none.
func mapStatusCode(status int, msg, service, operation string) error {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return domain.NewInvalidCredentialError(service, status)
	}

	if msg == "" {
		msg = stockMessages[status]
	}

	if msg == "" {
		msg = fmt.Sprintf("%s failed with status %d", operation, status)
	}

	return domain.NewRemoteStatusError(service, status, msg)
}

var stockMessages = map[int]string{
	http.StatusBadRequest:         "invalid request",
	http.StatusNotFound:           "endpoint not found",
	http.StatusTooManyRequests:    "rate limit exceeded",
	http.StatusServiceUnavailable: "service temporarily unavailable",
}

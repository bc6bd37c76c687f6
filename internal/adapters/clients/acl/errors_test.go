package acl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/vows/internal/adapters/clients"
	"github.com/jsamuelsen/vows/internal/domain"
)

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestMapHTTPError_Unauthorized(t *testing.T) {
	resp := jsonResponse(http.StatusUnauthorized, `{"detail":"Invalid token."}`)

	err := MapHTTPError(resp, nil, "readwise", "fetch export page")

	require.Error(t, err)
	assert.True(t, domain.IsInvalidCredential(err), "expected invalid credential")
	assert.True(t, domain.IsRemoteFetch(err))

	var remote *domain.RemoteFetchError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusUnauthorized, remote.StatusCode)
	assert.Equal(t, "readwise", remote.Service)
}

func TestMapHTTPError_Forbidden(t *testing.T) {
	resp := jsonResponse(http.StatusForbidden, `{}`)

	err := MapHTTPError(resp, nil, "readwise", "fetch export page")

	assert.True(t, domain.IsInvalidCredential(err), "expected invalid credential for 403")
}

func TestMapHTTPError_StatusFailures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "detail body",
			status:      http.StatusBadRequest,
			body:        `{"detail":"pageCursor is malformed"}`,
			wantMessage: "pageCursor is malformed",
		},
		{
			name:        "nested error body",
			status:      http.StatusInternalServerError,
			body:        `{"error":{"type":"server_error","message":"internal error"}}`,
			wantMessage: "internal error",
		},
		{
			name:        "string error body",
			status:      http.StatusBadGateway,
			body:        `{"error":"upstream down"}`,
			wantMessage: "upstream down",
		},
		{
			name:        "rate limited",
			status:      http.StatusTooManyRequests,
			body:        `{}`,
			wantMessage: "rate limit",
		},
		{
			name:        "unparseable body",
			status:      http.StatusTeapot,
			body:        `<html>`,
			wantMessage: "failed with status 418",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapHTTPError(jsonResponse(tt.status, tt.body), nil, "readwise", "fetch export page")

			require.Error(t, err)
			assert.True(t, domain.IsRemoteFetch(err))
			assert.False(t, domain.IsInvalidCredential(err))
			assert.Contains(t, err.Error(), tt.wantMessage)

			var remote *domain.RemoteFetchError
			require.ErrorAs(t, err, &remote)
			assert.Equal(t, tt.status, remote.StatusCode)
		})
	}
}

func TestMapHTTPError_CircuitOpen(t *testing.T) {
	err := MapHTTPError(nil, clients.ErrCircuitOpen, "readwise", "fetch export page")

	require.Error(t, err)
	assert.True(t, domain.IsRemoteFetch(err))
	assert.Contains(t, err.Error(), "circuit breaker open")
}

func TestMapHTTPError_MaxRetriesWithStatus(t *testing.T) {
	clientErr := fmt.Errorf("%w: %w", clients.ErrMaxRetriesExceeded, &clients.StatusError{StatusCode: http.StatusServiceUnavailable})

	err := MapHTTPError(nil, clientErr, "readwise", "fetch export page")

	var remote *domain.RemoteFetchError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusServiceUnavailable, remote.StatusCode)
	assert.Contains(t, err.Error(), "temporarily unavailable")
}

func TestMapHTTPError_TransportFailure(t *testing.T) {
	clientErr := fmt.Errorf("%w: %w", clients.ErrMaxRetriesExceeded, errors.New("connection refused"))

	err := MapHTTPError(nil, clientErr, "readwise", "fetch export page")

	var remote *domain.RemoteFetchError
	require.ErrorAs(t, err, &remote)
	assert.Zero(t, remote.StatusCode)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestMapHTTPError_ContextErrorsPassThrough(t *testing.T) {
	err := MapHTTPError(nil, context.Canceled, "readwise", "fetch export page")

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, domain.IsRemoteFetch(err))
}

func TestMapHTTPError_SuccessReturnsNil(t *testing.T) {
	err := MapHTTPError(jsonResponse(http.StatusOK, `{}`), nil, "readwise", "fetch export page")

	assert.NoError(t, err)
}

func TestMapHTTPError_NilResponse(t *testing.T) {
	err := MapHTTPError(nil, nil, "readwise", "fetch export page")

	require.Error(t, err)
	assert.True(t, domain.IsRemoteFetch(err))
	assert.Contains(t, err.Error(), "no response received")
}

func TestProviderMessage(t *testing.T) {
	tests := []struct{ body, want string }{
		{``, ""},
		{`not json`, ""},
		{`{}`, ""},
		{`{"message":"flat"}`, "flat"},
		{`{"detail":"pageCursor is malformed"}`, "pageCursor is malformed"},
		{`{"error":"upstream down"}`, "upstream down"},
		{`{"error":{"message":"nested","code":"x"}}`, "nested"},
		{`{"error":{"code":"x"},"detail":"fallback"}`, "fallback"},
		{`{"message":42}`, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, providerMessage([]byte(tt.body)), tt.body)
	}
}

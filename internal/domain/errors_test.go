package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrValidation,
		ErrConfiguration,
		ErrRemoteFetch,
		ErrInvalidCredential,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b,
					"sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name        string
		entity      string
		id          string
		expectedMsg string
	}{
		{
			name:        "with entity and ID",
			entity:      "quote",
			id:          "7",
			expectedMsg: `quote with id "7" not found`,
		},
		{
			name:        "with entity only",
			entity:      "quote",
			expectedMsg: "quote not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewNotFoundError(tt.entity, tt.id)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrNotFound)

			var notFound *NotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, tt.entity, notFound.Entity)
			assert.Equal(t, tt.id, notFound.ID)
		})
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		message     string
		expectedMsg string
	}{
		{
			name:        "with field",
			field:       "personName",
			message:     "is required",
			expectedMsg: "validation failed for personName: is required",
		},
		{
			name:        "without field",
			message:     "bad input",
			expectedMsg: "validation failed: bad input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrValidation)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("OPENAI_API_KEY", "")
	assert.Equal(t, `configuration "OPENAI_API_KEY" missing`, err.Error())
	assert.True(t, IsConfiguration(err))
	assert.False(t, IsRemoteFetch(err))

	err = NewConfigurationError("services.completion.model", "must not be empty")
	assert.Equal(t, `configuration "services.completion.model": must not be empty`, err.Error())
}

func TestRemoteFetchError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedMsg  string
		invalidCred  bool
		expectedCode int
	}{
		{
			name:        "transport failure",
			err:         NewRemoteFetchError("readwise", "connection refused"),
			expectedMsg: `service "readwise" fetch failed: connection refused`,
		},
		{
			name:         "status failure",
			err:          NewRemoteStatusError("readwise", 502, "bad gateway"),
			expectedMsg:  `service "readwise" fetch failed (HTTP 502): bad gateway`,
			expectedCode: 502,
		},
		{
			name:         "invalid credential",
			err:          NewInvalidCredentialError("readwise", 401),
			expectedMsg:  `service "readwise" fetch failed (HTTP 401): credential rejected`,
			invalidCred:  true,
			expectedCode: 401,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
			assert.True(t, IsRemoteFetch(tt.err))
			assert.Equal(t, tt.invalidCred, IsInvalidCredential(tt.err))

			var remote *RemoteFetchError
			require.ErrorAs(t, tt.err, &remote)
			assert.Equal(t, tt.expectedCode, remote.StatusCode)
		})
	}
}

func TestErrorWrappingChain(t *testing.T) {
	base := NewInvalidCredentialError("readwise", 403)
	wrapped := fmt.Errorf("fetching page 2: %w", base)
	doubleWrapped := fmt.Errorf("ingesting highlights: %w", wrapped)

	assert.True(t, IsRemoteFetch(doubleWrapped))
	assert.True(t, IsInvalidCredential(doubleWrapped))
	assert.False(t, IsValidation(doubleWrapped))

	var remote *RemoteFetchError
	require.ErrorAs(t, doubleWrapped, &remote)
	assert.Equal(t, "readwise", remote.Service)
}

package app

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/vows/internal/domain"
	"github.com/jsamuelsen/vows/internal/mocks"
	"github.com/jsamuelsen/vows/internal/platform/metrics"
	"github.com/jsamuelsen/vows/internal/ports"
)

func validRequest() domain.GenerationRequest {
	return domain.GenerationRequest{
		Quote:        seed,
		PersonName:   "Sam",
		Relationship: "spouse",
	}
}

func TestGenerationService_Generate(t *testing.T) {
	tests := []struct {
		name      string
		req       domain.GenerationRequest
		setupMock func(*mocks.MockTextGenerator)
		expected  string
		errCheck  func(error) bool
	}{
		{
			name: "success trims whitespace",
			req:  validRequest(),
			setupMock: func(m *mocks.MockTextGenerator) {
				m.EXPECT().Complete(mock.Anything, mock.MatchedBy(func(p ports.CompletionPrompt) bool {
					return p.System == SystemPrompt &&
						p.Model == DefaultModel &&
						p.Temperature == DefaultTemperature &&
						p.MaxTokens == DefaultMaxTokens
				})).Return("  Dear Sam,\n", nil)
			},
			expected: "Dear Sam,",
		},
		{
			name: "empty completion is not an error",
			req:  validRequest(),
			setupMock: func(m *mocks.MockTextGenerator) {
				m.EXPECT().Complete(mock.Anything, mock.Anything).Return("", nil)
			},
			expected: "",
		},
		{
			name: "missing person name",
			req: domain.GenerationRequest{
				Quote:        seed,
				Relationship: "spouse",
			},
			errCheck: domain.IsValidation,
		},
		{
			name:     "missing relationship for vows",
			req:      domain.GenerationRequest{Quote: seed, PersonName: "Sam"},
			errCheck: domain.IsValidation,
		},
		{
			name: "eulogy without relationship",
			req:  domain.GenerationRequest{Quote: seed, PersonName: "Pat", Mode: domain.ModeEulogy},
			setupMock: func(m *mocks.MockTextGenerator) {
				m.EXPECT().Complete(mock.Anything, mock.Anything).Return("In memory of Pat.", nil)
			},
			expected: "In memory of Pat.",
		},
		{
			name: "provider key missing",
			req:  validRequest(),
			setupMock: func(m *mocks.MockTextGenerator) {
				m.EXPECT().Complete(mock.Anything, mock.Anything).
					Return("", domain.NewConfigurationError("OPENAI_API_KEY", ""))
			},
			errCheck: domain.IsConfiguration,
		},
		{
			name: "provider failure",
			req:  validRequest(),
			setupMock: func(m *mocks.MockTextGenerator) {
				m.EXPECT().Complete(mock.Anything, mock.Anything).
					Return("", domain.NewRemoteStatusError("openai", 500, "boom"))
			},
			errCheck: domain.IsRemoteFetch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := mocks.NewMockTextGenerator(t)
			if tt.setupMock != nil {
				tt.setupMock(gen)
			}

			svc := NewGenerationService(GenerationServiceConfig{
				Generator: gen,
				Logger:    discardLogger(),
			})

			text, err := svc.Generate(context.Background(), tt.req)

			if tt.errCheck != nil {
				require.Error(t, err)
				assert.True(t, tt.errCheck(err), "unexpected error: %v", err)
				assert.Empty(t, text)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, text)
		})
	}
}

func TestGenerationService_UsesSettings(t *testing.T) {
	gen := mocks.NewMockTextGenerator(t)
	gen.EXPECT().Complete(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, p ports.CompletionPrompt) (string, error) {
			assert.Equal(t, "gpt-4o", p.Model)
			assert.InDelta(t, 0.5, p.Temperature, 0.001)
			assert.Equal(t, 200, p.MaxTokens)
			assert.Contains(t, p.User, "Sam")
			return "ok", nil
		})

	svc := NewGenerationService(GenerationServiceConfig{
		Generator: gen,
		Settings:  GenerationSettings{Model: "gpt-4o", Temperature: 0.5, MaxTokens: 200},
	})

	_, err := svc.Generate(context.Background(), validRequest())
	require.NoError(t, err)
}

func TestGenerationService_RecordsMetrics(t *testing.T) {
	counter := metrics.GenerationRequests.WithLabelValues(string(domain.ModeVows), metrics.ResultFailed)
	before := testutil.ToFloat64(counter)

	gen := mocks.NewMockTextGenerator(t)
	gen.EXPECT().Complete(mock.Anything, mock.Anything).Return("", errors.New("network down"))

	svc := NewGenerationService(GenerationServiceConfig{Generator: gen, Logger: discardLogger()})

	_, err := svc.Generate(context.Background(), validRequest())
	require.Error(t, err)

	assert.InDelta(t, before+1, testutil.ToFloat64(counter), 0.001)
}

func TestGenerationResult(t *testing.T) {
	assert.Equal(t, metrics.ResultSuccess, generationResult("x", nil))
	assert.Equal(t, metrics.ResultEmpty, generationResult("", nil))
	assert.Equal(t, metrics.ResultInvalid, generationResult("", domain.NewValidationError("quote", "is required")))
	assert.Equal(t, metrics.ResultMisconfigured, generationResult("", domain.NewConfigurationError("k", "")))
	assert.Equal(t, metrics.ResultFailed, generationResult("", errors.New("x")))
}

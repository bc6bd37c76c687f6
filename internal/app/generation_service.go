package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/vows/internal/domain"
	"github.com/jsamuelsen/vows/internal/platform/metrics"
	"github.com/jsamuelsen/vows/internal/ports"
)

// Completion defaults used when GenerationSettings leaves a field zero.
const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = float32(0.9)
	DefaultMaxTokens   = 1000
)

// GenerationSettings tunes the completion request.
type GenerationSettings struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

func (s GenerationSettings) withDefaults() GenerationSettings {
	if s.Model == "" {
		s.Model = DefaultModel
	}

	if s.Temperature == 0 {
		s.Temperature = DefaultTemperature
	}

	if s.MaxTokens <= 0 {
		s.MaxTokens = DefaultMaxTokens
	}

	return s
}

// GenerationServiceConfig contains configuration for the generation service.
type GenerationServiceConfig struct {
	Generator ports.TextGenerator
	Settings  GenerationSettings
	Logger    *slog.Logger
}

// GenerationService drafts vows and eulogies from a seed quote.
type GenerationService struct {
	generator ports.TextGenerator
	settings  GenerationSettings
	exec      *Executor
	op        Operation[domain.GenerationRequest, string, string, string]
}

// NewGenerationService creates a new generation service.
func NewGenerationService(cfg GenerationServiceConfig) *GenerationService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &GenerationService{
		generator: cfg.Generator,
		settings:  cfg.Settings.withDefaults(),
		exec:      NewExecutor(logger.With(slog.String("component", "app.GenerationService"))),
	}

	s.op = Operation[domain.GenerationRequest, string, string, string]{
		Name: "generate",
		Validate: func(_ context.Context, req domain.GenerationRequest) error {
			return req.Validate()
		},
		Perform: s.complete,
		Verify: func(_ context.Context, _ domain.GenerationRequest, text string) (string, error) {
			return strings.TrimSpace(text), nil
		},
		Respond: func(_ context.Context, _ domain.GenerationRequest, text string) (string, error) {
			return text, nil
		},
	}

	return s
}

// Generate drafts one text for req. An empty completion is returned as ""
// without an error.
//
// Returns domain.ValidationError for incomplete requests,
// domain.ConfigurationError when no provider key is set, and
// domain.RemoteFetchError when the provider call fails.
func (s *GenerationService) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if req.Mode == "" {
		req.Mode = domain.ModeVows
	}

	text, err := Execute(ctx, s.exec, s.op, req)

	metrics.GenerationRequests.WithLabelValues(string(req.Mode), generationResult(text, err)).Inc()

	return text, err
}

func (s *GenerationService) complete(ctx context.Context, req domain.GenerationRequest) (string, error) {
	return s.generator.Complete(ctx, ports.CompletionPrompt{
		System:      SystemPrompt,
		User:        BuildPrompt(req),
		Model:       s.settings.Model,
		Temperature: s.settings.Temperature,
		MaxTokens:   s.settings.MaxTokens,
	})
}

func generationResult(text string, err error) string {
	switch {
	case err == nil && text == "":
		return metrics.ResultEmpty
	case err == nil:
		return metrics.ResultSuccess
	case domain.IsValidation(err):
		return metrics.ResultInvalid
	case domain.IsConfiguration(err):
		return metrics.ResultMisconfigured
	default:
		return metrics.ResultFailed
	}
}

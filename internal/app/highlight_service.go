package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/vows/internal/domain"
	"github.com/jsamuelsen/vows/internal/ports"
)

// HighlightServiceConfig contains configuration for the highlight service.
type HighlightServiceConfig struct {
	Source ports.HighlightSource
	Logger *slog.Logger
}

// HighlightService loads a user's highlights on demand. Nothing is cached
// between calls.
type HighlightService struct {
	source ports.HighlightSource
	exec   *Executor
	op     Operation[string, []domain.Highlight, []domain.Highlight, []domain.Highlight]
}

// NewHighlightService creates a new highlight service.
func NewHighlightService(cfg HighlightServiceConfig) *HighlightService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &HighlightService{
		source: cfg.Source,
		exec:   NewExecutor(logger.With(slog.String("component", "app.HighlightService"))),
	}

	s.op = Operation[string, []domain.Highlight, []domain.Highlight, []domain.Highlight]{
		Name: "fetch_highlights",
		Validate: func(_ context.Context, credential string) error {
			if strings.TrimSpace(credential) == "" {
				return domain.NewValidationError("apiKey", "is required")
			}

			return nil
		},
		Perform: s.source.FetchAllHighlights,
		Verify: func(_ context.Context, _ string, highlights []domain.Highlight) ([]domain.Highlight, error) {
			if highlights == nil {
				return []domain.Highlight{}, nil
			}

			return highlights, nil
		},
		Respond: func(_ context.Context, _ string, highlights []domain.Highlight) ([]domain.Highlight, error) {
			return highlights, nil
		},
	}

	return s
}

// FetchAll returns every highlight for credential, or nil and an error.
func (s *HighlightService) FetchAll(ctx context.Context, credential string) ([]domain.Highlight, error) {
	highlights, err := Execute(ctx, s.exec, s.op, credential)
	if err != nil {
		return nil, err
	}

	return highlights, nil
}

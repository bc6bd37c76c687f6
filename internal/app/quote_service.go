// Package app contains application services that orchestrate use cases.
// Services depend on port interfaces, never on concrete adapters.
package app

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen/vows/internal/catalog"
	"github.com/jsamuelsen/vows/internal/domain"
)

// QuoteFilter narrows a catalog listing. Empty or "all" matches everything.
type QuoteFilter struct {
	Author   string
	Category string
}

// QuoteService serves the bundled quote catalog.
type QuoteService struct {
	logger *slog.Logger
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	Logger *slog.Logger
}

// NewQuoteService creates a new quote service.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteService{logger: logger}
}

// List returns up to limit quotes matching filter, in catalog order,
// starting after the quote with ID after. An empty after starts at the
// beginning; an unknown one is a validation error.
func (s *QuoteService) List(ctx context.Context, filter QuoteFilter, after string, limit int) ([]domain.Quote, error) {
	quotes := catalog.Filter(filter.Author, filter.Category)

	start := 0
	if after != "" {
		start = -1
		for i, q := range quotes {
			if q.ID == after {
				start = i + 1
				break
			}
		}

		if start < 0 {
			return nil, domain.NewValidationError("cursor", "does not match a quote in this listing")
		}
	}

	end := min(start+max(limit, 0), len(quotes))

	s.logger.DebugContext(ctx, "listing quotes",
		slog.String("author", filter.Author),
		slog.String("category", filter.Category),
		slog.Int("matched", len(quotes)),
		slog.Int("returned", end-start))

	return quotes[start:end], nil
}

// GetQuoteByID returns the catalog quote with id.
func (s *QuoteService) GetQuoteByID(ctx context.Context, id string) (domain.Quote, error) {
	quote, ok := catalog.ByID(id)
	if !ok {
		s.logger.DebugContext(ctx, "quote not found", slog.String("quote_id", id))
		return domain.Quote{}, domain.NewNotFoundError("quote", id)
	}

	return quote, nil
}

// Authors returns the distinct catalog authors, sorted.
func (s *QuoteService) Authors() []string {
	return catalog.Authors()
}

// Categories returns the distinct catalog categories in first-seen order.
func (s *QuoteService) Categories() []string {
	return catalog.Categories()
}

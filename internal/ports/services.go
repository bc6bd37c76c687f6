// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrRemoteFetch, ErrConfiguration, etc.)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"

	"github.com/jsamuelsen/vows/internal/domain"
)

// HighlightSource retrieves every highlight saved in a user's account.
//
// Implementations fetch all pages before returning. A failure at any point
// returns nil highlights and an error; partial results are never returned.
type HighlightSource interface {
	// FetchAllHighlights returns every highlight visible to credential, in
	// provider order. An account with no highlights yields an empty slice.
	// Returns a domain.RemoteFetchError on transport or status failures;
	// a rejected credential additionally matches domain.ErrInvalidCredential.
	FetchAllHighlights(ctx context.Context, credential string) ([]domain.Highlight, error)
}

// CompletionPrompt is a single-turn chat completion request.
type CompletionPrompt struct {
	System      string
	User        string
	Model       string
	Temperature float32
	MaxTokens   int
}

// TextGenerator produces text from a prompt using an LLM provider.
type TextGenerator interface {
	// Complete returns the first completion choice, or "" when the provider
	// returned no content.
	// Returns domain.ConfigurationError when the provider key is absent and
	// domain.RemoteFetchError when the provider call fails.
	Complete(ctx context.Context, prompt CompletionPrompt) (string, error)
}

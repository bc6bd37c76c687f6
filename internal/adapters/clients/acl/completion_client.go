package acl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jsamuelsen/vows/internal/adapters/clients"
	"github.com/jsamuelsen/vows/internal/domain"
	"github.com/jsamuelsen/vows/internal/platform/config"
	"github.com/jsamuelsen/vows/internal/platform/logging"
	"github.com/jsamuelsen/vows/internal/ports"
)

const opChatCompletion = "create chat completion"

// CompletionClientConfig contains configuration for the completion client.
type CompletionClientConfig struct {
	// Client carries every provider request, so completions get the same
	// tracing, metrics and circuit breaker as the other providers.
	// Its BaseURL should point at the API root (e.g. "https://api.openai.com/v1").
	Client *clients.Client

	// APIKey is the provider key. Empty means generation is not configured.
	APIKey string

	// Logger is the structured logger.
	Logger *slog.Logger
}

// CompletionClient implements ports.TextGenerator with go-openai.
type CompletionClient struct {
	provider

	api        *openai.Client
	configured bool
	logger     *slog.Logger
}

// doerFunc adapts the resilient client to openai.HTTPDoer.
type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// NewCompletionClient creates a new completion adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewCompletionClient(cfg CompletionClientConfig) *CompletionClient {
	if cfg.Client == nil {
		panic("CompletionClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if base := cfg.Client.BaseURL(); base != "" {
		oc.BaseURL = base
	}

	oc.HTTPClient = doerFunc(func(req *http.Request) (*http.Response, error) {
		return cfg.Client.Do(req.Context(), req)
	})

	return &CompletionClient{
		provider:   provider{http: cfg.Client},
		api:        openai.NewClientWithConfig(oc),
		configured: cfg.APIKey != "",
		logger:     logger,
	}
}

// Complete sends a system and user message and returns the first choice.
// Implements ports.TextGenerator.
func (c *CompletionClient) Complete(ctx context.Context, prompt ports.CompletionPrompt) (string, error) {
	if !c.configured {
		return "", domain.NewConfigurationError(config.OpenAIKeyEnv, "")
	}

	c.logger.Log(ctx, logging.LevelTrace, "starting completion",
		slog.String("model", prompt.Model),
		slog.Int("max_tokens", prompt.MaxTokens))

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: prompt.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.System},
			{Role: openai.ChatMessageRoleUser, Content: prompt.User},
		},
		Temperature: prompt.Temperature,
		MaxTokens:   prompt.MaxTokens,
	})
	if err != nil {
		return "", c.mapError(err)
	}

	c.logger.Log(ctx, logging.LevelTrace, "completion received",
		slog.Int("choices", len(resp.Choices)),
		slog.Int("total_tokens", resp.Usage.TotalTokens))

	if len(resp.Choices) == 0 {
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}

// mapError translates go-openai errors to domain errors.
func (c *CompletionClient) mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return mapStatusCode(apiErr.HTTPStatusCode, apiErr.Message, c.ServiceName(), opChatCompletion)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return mapStatusCode(reqErr.HTTPStatusCode, "", c.ServiceName(), opChatCompletion)
	}

	return MapHTTPError(nil, err, c.ServiceName(), opChatCompletion)
}

// Check fails when no key is configured or the circuit is open.
// Completions are billed, so the provider is never called from a probe.
func (c *CompletionClient) Check(_ context.Context) error {
	if !c.configured {
		return fmt.Errorf("%s: %w", c.ServiceName(), domain.NewConfigurationError(config.OpenAIKeyEnv, ""))
	}

	return c.circuitErr()
}

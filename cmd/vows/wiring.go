package main

import (
	"fmt"
	"io"
	"log/slog"
	"maps"

	"github.com/jsamuelsen/vows/internal/adapters/clients"
	"github.com/jsamuelsen/vows/internal/adapters/clients/acl"
	"github.com/jsamuelsen/vows/internal/app"
	"github.com/jsamuelsen/vows/internal/platform/config"
	"github.com/jsamuelsen/vows/internal/platform/logging"
)

// loadConfig loads and validates the configuration for profile. The binary's
// version and any command-line overrides, keyed like "server.port", take
// precedence over files and environment.
func loadConfig(profile string, overrides map[string]any) (*config.Config, error) {
	layered := map[string]any{"app.version": Version}
	maps.Copy(layered, overrides)

	cfg, err := config.Load(profile, layered)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// newLogger builds the process logger from cfg, writing to w.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, w)
}

// provider is the per-provider part of a client's settings.
type provider struct {
	name     string
	baseURL  string
	attempts int
	breaker  bool
}

// providerClientConfig derives the HTTP client settings for one provider.
// The provider's own attempt budget replaces the shared retry count. The
// breaker runs only when both the shared and the provider switch are on;
// off is expressed as MaxFailures 0.
func providerClientConfig(cfg *config.ClientConfig, p provider, logger *slog.Logger) *clients.Config {
	retry := cfg.Retry
	if p.attempts > 0 {
		retry.MaxAttempts = p.attempts
	}

	circuit := cfg.CircuitBreaker
	if !circuit.Enabled || !p.breaker {
		circuit.MaxFailures = 0
	}

	return &clients.Config{
		BaseURL:     p.baseURL,
		ServiceName: p.name,
		Timeout:     cfg.Timeout,
		Retry:       retry,
		Circuit:     circuit,
		Transport:   cfg.Transport,
		Logger:      logger,
	}
}

// newReadwiseClient creates the highlight export client.
func newReadwiseClient(cfg *config.Config, logger *slog.Logger) (*acl.ReadwiseClient, error) {
	rw := cfg.Services.Readwise

	httpClient, err := clients.New(providerClientConfig(&cfg.Client, provider{
		name:     rw.Name,
		baseURL:  rw.BaseURL,
		attempts: rw.RetryAttempts,
		breaker:  rw.CircuitBreaker,
	}, logger))
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", rw.Name, err)
	}

	return acl.NewReadwiseClient(acl.ReadwiseClientConfig{
		Client: httpClient,
		Logger: logger,
	}), nil
}

// newCompletionClient creates the chat completion client. A missing API
// key is not an error here; generation reports it per request.
func newCompletionClient(cfg *config.Config, logger *slog.Logger) (*acl.CompletionClient, error) {
	cc := cfg.Services.Completion

	httpClient, err := clients.New(providerClientConfig(&cfg.Client, provider{
		name:     cc.Name,
		baseURL:  cc.BaseURL,
		attempts: cc.RetryAttempts,
		breaker:  cc.CircuitBreaker,
	}, logger))
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", cc.Name, err)
	}

	return acl.NewCompletionClient(acl.CompletionClientConfig{
		Client: httpClient,
		APIKey: cc.APIKey,
		Logger: logger,
	}), nil
}

// services bundles the application services and the provider clients
// behind them.
type services struct {
	readwise   *acl.ReadwiseClient
	completion *acl.CompletionClient
	quotes     *app.QuoteService
	highlights *app.HighlightService
	generation *app.GenerationService
}

// newServices wires the provider clients into the application services.
func newServices(cfg *config.Config, logger *slog.Logger) (*services, error) {
	readwise, err := newReadwiseClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	completion, err := newCompletionClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	cc := cfg.Services.Completion

	return &services{
		readwise:   readwise,
		completion: completion,
		quotes:     app.NewQuoteService(app.QuoteServiceConfig{Logger: logger}),
		highlights: app.NewHighlightService(app.HighlightServiceConfig{
			Source: readwise,
			Logger: logger,
		}),
		generation: app.NewGenerationService(app.GenerationServiceConfig{
			Generator: completion,
			Settings: app.GenerationSettings{
				Model:       cc.Model,
				Temperature: cc.Temperature,
				MaxTokens:   cc.MaxTokens,
			},
			Logger: logger,
		}),
	}, nil
}

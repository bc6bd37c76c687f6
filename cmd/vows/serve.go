package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/vows/internal/adapters/http"
	"github.com/jsamuelsen/vows/internal/adapters/http/handlers"
	"github.com/jsamuelsen/vows/internal/platform/logging"
	"github.com/jsamuelsen/vows/internal/platform/telemetry"
	"github.com/jsamuelsen/vows/internal/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	Long: `Run the HTTP service: POST /generate, POST /readwise, the quote
catalog under /api/v1 and the health endpoints under /-/.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveFlags struct {
	host string
	port int
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.host, "host", "", "listen host (default from server.host)")
	f.IntVar(&serveFlags.port, "port", 0, "listen port (default from server.port)")

	rootCmd.AddCommand(serveCmd)
}

// serveOverrides collects the flags the user actually set.
func serveOverrides(cmd *cobra.Command) map[string]any {
	overrides := map[string]any{}
	if cmd.Flags().Changed("host") {
		overrides["server.host"] = serveFlags.host
	}

	if cmd.Flags().Changed("port") {
		overrides["server.port"] = serveFlags.port
	}

	return overrides
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// 1. Load and validate configuration (fail fast)
	cfg, err := loadConfig(profile, serveOverrides(cmd))
	if err != nil {
		return err
	}

	// 2. Initialize logging
	logger := newLogger(cfg, os.Stdout)
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 3. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 4. Create provider clients and application services
	svc, err := newServices(cfg, logger)
	if err != nil {
		return err
	}

	if cfg.Services.Completion.APIKey == "" {
		logger.Warn("completion API key not set; generation requests will fail",
			slog.String("env", "OPENAI_API_KEY"))
	}

	// 5. Register health checks. Generation is optional: without it the
	// service still serves highlights and the catalog.
	healthRegistry := ports.NewHealthRegistry()

	if err := healthRegistry.Register(svc.readwise); err != nil {
		return fmt.Errorf("registering readwise health check: %w", err)
	}

	if err := healthRegistry.RegisterOptional(svc.completion); err != nil {
		return fmt.Errorf("registering completion health check: %w", err)
	}

	// 6. Create HTTP server and routes
	server := http.New(&cfg.Server, logger)

	routerCfg := http.NewDefaultRouterConfig(logger, &cfg.App,
		handlers.NewHealthHandler(healthRegistry, handlers.NewBuildInfo(Version, Commit, BuildTime)))
	routerCfg.Timeout = cfg.Server.RequestTimeout
	routerCfg.DraftingTimeout = cfg.Server.DraftingTimeout
	routerCfg.QuoteHandler = handlers.NewQuoteHandler(svc.quotes)
	routerCfg.GenerateHandler = handlers.NewGenerateHandler(svc.generation)
	routerCfg.ReadwiseHandler = handlers.NewReadwiseHandler(svc.highlights)
	http.SetupRouter(server.Engine(), routerCfg)

	// 7. Start server (non-blocking)
	serverErr, err := server.Start()
	if err != nil {
		return err
	}

	logger.Info("listening", slog.String("addr", server.Addr()))

	// 8. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until ctx is canceled by a signal or the server
// fails, then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}

package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/vows/internal/adapters/http/handlers"
	"github.com/jsamuelsen/vows/internal/adapters/http/middleware"
	"github.com/jsamuelsen/vows/internal/platform/config"
	"github.com/jsamuelsen/vows/internal/platform/telemetry"
)

const (
	// DefaultRequestTimeout is the default timeout for catalog API requests.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultDraftingTimeout bounds /generate and /readwise, which wait on
	// a provider (and, for large accounts, many export pages).
	DefaultDraftingTimeout = 2 * time.Minute
)

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// QuoteHandler serves the quote catalog API.
	QuoteHandler *handlers.QuoteHandler

	// GenerateHandler serves POST /generate.
	GenerateHandler *handlers.GenerateHandler

	// ReadwiseHandler serves POST /readwise.
	ReadwiseHandler *handlers.ReadwiseHandler

	// Timeout is the default request timeout for /api/v1.
	Timeout time.Duration

	// DraftingTimeout is the request timeout for the drafting routes.
	DraftingTimeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - handle distributed tracing correlation
//  4. OpenTelemetry - tracing and metrics
//  5. Logging - request logging (skips health endpoints)
//  6. Deadline - request context deadline (per route group)
//
// The drafting routes additionally answer panics with the flat
// {"error": "..."} body their handlers use.
//
// Route groups:
//   - /-/ (internal): Health endpoints
//   - /generate, /readwise and their /api/ aliases: drafting endpoints
//   - /api/v1/ (public API): Quote catalog
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.AppConfig.Name),
		telemetry.Middleware(),
		middleware.Logging(cfg.Logger),
	)

	// Register health endpoints (no timeout for probes)
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	setupDraftingRoutes(engine.Group(""), cfg)
	setupDraftingRoutes(engine.Group("/api"), cfg)

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Deadline(cfg.Timeout))
	}

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(apiV1)
	}
}

// setupDraftingRoutes registers POST /generate and POST /readwise on rg.
func setupDraftingRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	chain := []gin.HandlerFunc{middleware.FlatErrors()}
	if cfg.DraftingTimeout > 0 {
		chain = append(chain, middleware.Deadline(cfg.DraftingTimeout))
	}

	if cfg.GenerateHandler != nil {
		rg.POST("/generate", append(chain, cfg.GenerateHandler.Generate)...)
	}

	if cfg.ReadwiseHandler != nil {
		rg.POST("/readwise", append(chain, cfg.ReadwiseHandler.FetchHighlights)...)
	}
}

// NewDefaultRouterConfig creates a RouterConfig with the default deadlines.
// Feature handlers are attached by the caller, and serve overrides the
// deadlines from config.ServerConfig.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	healthHandler *handlers.HealthHandler,
) RouterConfig {
	return RouterConfig{
		Logger:          logger,
		AppConfig:       appCfg,
		HealthHandler:   healthHandler,
		Timeout:         DefaultRequestTimeout,
		DraftingTimeout: DefaultDraftingTimeout,
	}
}

package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/vows/internal/adapters/http/dto"
	"github.com/jsamuelsen/vows/internal/adapters/http/handlers"
	"github.com/jsamuelsen/vows/internal/app"
	"github.com/jsamuelsen/vows/internal/domain"
	"github.com/jsamuelsen/vows/internal/mocks"
	"github.com/jsamuelsen/vows/internal/platform/config"
	"github.com/jsamuelsen/vows/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fullRouterConfig wires every handler to real services backed by mocks.
func fullRouterConfig(t *testing.T, generator *mocks.MockTextGenerator, source *mocks.MockHighlightSource) RouterConfig {
	t.Helper()

	cfg := NewDefaultRouterConfig(discardLogger(), &config.AppConfig{
		Name:        "test-service",
		Environment: "test",
		Version:     "1.0.0",
	}, handlers.NewHealthHandler(nil, handlers.BuildInfo{}))

	cfg.QuoteHandler = handlers.NewQuoteHandler(app.NewQuoteService(app.QuoteServiceConfig{Logger: discardLogger()}))
	cfg.GenerateHandler = handlers.NewGenerateHandler(app.NewGenerationService(app.GenerationServiceConfig{
		Generator: generator,
		Logger:    discardLogger(),
	}))
	cfg.ReadwiseHandler = handlers.NewReadwiseHandler(app.NewHighlightService(app.HighlightServiceConfig{
		Source: source,
		Logger: discardLogger(),
	}))

	return cfg
}

// TestNewDefaultRouterConfig tests creating a default router configuration.
func TestNewDefaultRouterConfig(t *testing.T) {
	logger := discardLogger()
	appCfg := &config.AppConfig{
		Name:        "test-app",
		Environment: "test",
		Version:     "1.0.0",
	}
	healthHandler := handlers.NewHealthHandler(nil, handlers.BuildInfo{})

	cfg := NewDefaultRouterConfig(logger, appCfg, healthHandler)

	assert.Equal(t, logger, cfg.Logger)
	assert.Equal(t, appCfg, cfg.AppConfig)
	assert.Equal(t, healthHandler, cfg.HealthHandler)
	assert.Equal(t, DefaultRequestTimeout, cfg.Timeout)
	assert.Equal(t, DefaultDraftingTimeout, cfg.DraftingTimeout)
	assert.Nil(t, cfg.QuoteHandler)
	assert.Nil(t, cfg.GenerateHandler)
	assert.Nil(t, cfg.ReadwiseHandler)
}

// TestSetupRouter verifies every route is registered once the handlers are attached.
func TestSetupRouter(t *testing.T) {
	engine := gin.New()
	cfg := fullRouterConfig(t, mocks.NewMockTextGenerator(t), mocks.NewMockHighlightSource(t))

	require.NotPanics(t, func() {
		SetupRouter(engine, cfg)
	})

	routeMap := make(map[string]bool)
	for _, r := range engine.Routes() {
		routeMap[r.Method+" "+r.Path] = true
	}

	for _, expected := range []string{
		"GET /-/live",
		"GET /-/ready",
		"POST /generate",
		"POST /readwise",
		"POST /api/generate",
		"POST /api/readwise",
		"GET /api/v1/quotes",
		"GET /api/v1/quotes/:id",
		"GET /api/v1/quotes/authors",
		"GET /api/v1/quotes/categories",
	} {
		assert.True(t, routeMap[expected], "missing route: %s", expected)
	}
}

// TestSetupRouter_DraftingAliases checks both paths reach the same handlers.
func TestSetupRouter_DraftingAliases(t *testing.T) {
	generator := mocks.NewMockTextGenerator(t)
	generator.EXPECT().Complete(mock.Anything, mock.Anything).Return("Dear Sam,", nil).Times(2)

	source := mocks.NewMockHighlightSource(t)
	source.EXPECT().FetchAllHighlights(mock.Anything, "tok").
		Return([]domain.Highlight{{ID: 1, Text: "a", Tags: []domain.Tag{}}}, nil).Times(2)

	engine := gin.New()
	SetupRouter(engine, fullRouterConfig(t, generator, source))

	generateBody := `{"quote":{"id":"1","text":"Know thyself.","author":"Socrates"},` +
		`"personName":"Sam","relationship":"spouse"}`

	for _, prefix := range []string{"", "/api"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, prefix+"/generate", strings.NewReader(generateBody))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, prefix)
		assert.JSONEq(t, `{"vows":"Dear Sam,"}`, w.Body.String())
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, prefix+"/readwise", strings.NewReader(`{"apiKey":"tok"}`))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, prefix)

		var resp handlers.ReadwiseResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Highlights, 1)
	}
}

// TestSetupRouter_CatalogErrorsUseEnvelope checks catalog errors keep the
// structured envelope.
func TestSetupRouter_CatalogErrorsUseEnvelope(t *testing.T) {
	engine := gin.New()
	SetupRouter(engine, fullRouterConfig(t, mocks.NewMockTextGenerator(t), mocks.NewMockHighlightSource(t)))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quotes/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeNotFound, resp.Error.Code)
	assert.NotEmpty(t, resp.TraceID)
}

// TestSetupRouterWithoutTimeout tests router setup with zero timeouts.
func TestSetupRouterWithoutTimeout(t *testing.T) {
	engine := gin.New()
	cfg := fullRouterConfig(t, mocks.NewMockTextGenerator(t), mocks.NewMockHighlightSource(t))
	cfg.Timeout = 0
	cfg.DraftingTimeout = 0

	require.NotPanics(t, func() {
		SetupRouter(engine, cfg)
	})
}

// TestSetupRouterWithNilHandlers tests router setup with no handlers attached.
func TestSetupRouterWithNilHandlers(t *testing.T) {
	engine := gin.New()

	cfg := RouterConfig{
		Logger: discardLogger(),
		AppConfig: &config.AppConfig{
			Name:        "test-service",
			Environment: "test",
			Version:     "1.0.0",
		},
		Timeout: 30 * time.Second,
	}

	require.NotPanics(t, func() {
		SetupRouter(engine, cfg)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/generate", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestSetupRouter_DraftingPanicIsFlat checks a panic on a drafting route is
// answered in the drafting error shape.
func TestSetupRouter_DraftingPanicIsFlat(t *testing.T) {
	generator := mocks.NewMockTextGenerator(t)
	generator.EXPECT().Complete(mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, ports.CompletionPrompt) (string, error) { panic("provider bug") })

	engine := gin.New()
	SetupRouter(engine, fullRouterConfig(t, generator, mocks.NewMockHighlightSource(t)))

	body := `{"quote":{"id":"1","text":"Know thyself.","author":"Socrates"},"personName":"Sam","relationship":"spouse"}`
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

// TestSetupRouter_DraftingDeadline checks the drafting deadline reaches the provider.
func TestSetupRouter_DraftingDeadline(t *testing.T) {
	var deadline time.Time

	generator := mocks.NewMockTextGenerator(t)
	generator.EXPECT().Complete(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _ ports.CompletionPrompt) (string, error) {
			deadline, _ = ctx.Deadline()
			return "ok", nil
		})

	cfg := fullRouterConfig(t, generator, mocks.NewMockHighlightSource(t))
	cfg.DraftingTimeout = 45 * time.Second

	engine := gin.New()
	SetupRouter(engine, cfg)

	body := `{"quote":{"id":"1","text":"Know thyself.","author":"Socrates"},"personName":"Sam","relationship":"spouse"}`
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.WithinDuration(t, start.Add(45*time.Second), deadline, 5*time.Second)
}

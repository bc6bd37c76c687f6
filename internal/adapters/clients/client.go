package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/vows/internal/adapters/http/middleware"
	"github.com/jsamuelsen/vows/internal/platform/config"
	"github.com/jsamuelsen/vows/internal/platform/logging"
	"github.com/jsamuelsen/vows/internal/platform/metrics"
)

const (
	instrumentationName = "github.com/jsamuelsen/vows/internal/adapters/clients"

	defaultTimeout = 30 * time.Second
)

// Outcome labels on the request metrics.
const (
	outcomeOK          = "ok"
	outcomeError       = "error"
	outcomeCircuitOpen = "circuit_open"
)

// Config configures one provider's Client.
type Config struct {
	// BaseURL prefixes every path, e.g. "https://readwise.io".
	BaseURL string

	// ServiceName labels logs, spans and metrics.
	ServiceName string

	// Timeout bounds a single attempt. Retries and backoff come on top.
	Timeout time.Duration

	Retry   config.RetryConfig
	Circuit config.CircuitBreakerConfig

	// Transport sizes the connection pool; zero fields use config defaults.
	Transport config.TransportConfig

	// AuthFunc, when set, decorates every attempt.
	AuthFunc func(*http.Request)

	Logger *slog.Logger
}

// Client is the instrumented HTTP client behind every provider adapter.
// Do retries transient failures, guards the provider with a circuit
// breaker, traces the call and forwards the request and correlation IDs.
// Callers build requests and interpret statuses themselves.
type Client struct {
	http    *http.Client
	baseURL string
	name    string
	retry   config.RetryConfig
	auth    func(*http.Request)
	logger  *slog.Logger
	breaker *CircuitBreaker

	tracer   trace.Tracer
	duration metric.Float64Histogram
	total    metric.Int64Counter
}

// New builds a Client. ServiceName is required; a non-positive timeout or
// attempt count falls back to a single 30s attempt.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	retry := cfg.Retry
	retry.MaxAttempts = max(retry.MaxAttempts, 1)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "clients.Client"), slog.String("downstream", cfg.ServiceName))

	meter := otel.Meter(instrumentationName)

	duration, err := meter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("Duration of provider requests including retries"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	total, err := meter.Int64Counter("http.client.request.total",
		metric.WithDescription("Provider requests by outcome"))
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	breaker := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:   cfg.Circuit.MaxFailures,
		Timeout:       cfg.Circuit.Timeout,
		HalfOpenLimit: cfg.Circuit.HalfOpenLimit,
	})

	gauge := metrics.CircuitState.WithLabelValues(cfg.ServiceName)
	gauge.Set(float64(StateClosed))
	breaker.OnStateChange(func(from, to State) {
		gauge.Set(float64(to))
		logger.Warn("circuit breaker state changed", slog.String("from", from.String()), slog.String("to", to.String()))
	})

	return &Client{
		http:     &http.Client{Timeout: timeout, Transport: newTransport(cfg.Transport)},
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		name:     cfg.ServiceName,
		retry:    retry,
		auth:     cfg.AuthFunc,
		logger:   logger,
		breaker:  breaker,
		tracer:   otel.Tracer(instrumentationName),
		duration: duration,
		total:    total,
	}, nil
}

// Do sends req. Transport errors and 5xx responses are retried within the
// attempt budget; any other response is returned as is, whatever its
// status. A body is only resent when req.GetBody is set.
//
// Exhausted retries are reported as ErrMaxRetriesExceeded wrapping the last
// failure, which is a *StatusError for a 5xx. When ctx itself ends, its
// error is returned unwrapped.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	logger := c.logger
	if reqLogger, ok := logging.Lookup(ctx); ok {
		logger = reqLogger.With(slog.String("downstream", c.name))
	}

	logger = logger.With(slog.String("method", req.Method), slog.String("path", req.URL.Path))

	if !c.breaker.Allow() {
		c.observe(ctx, req.Method, 0, 0, outcomeCircuitOpen)
		logger.WarnContext(ctx, "request blocked by circuit breaker")

		return nil, ErrCircuitOpen
	}

	c.decorate(ctx, req)

	ctx, span := c.tracer.Start(ctx, "HTTP "+req.Method+" "+c.name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", c.name),
		))
	defer span.End()

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.attempt(ctx, req, logger)
	elapsed := time.Since(start)

	if err != nil {
		c.breaker.RecordFailure()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.observe(ctx, req.Method, StatusCodeOf(err), elapsed, outcomeError)
		logger.ErrorContext(ctx, "request failed", slog.Duration("duration", elapsed), slog.Any("error", err))

		if ctx.Err() != nil {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, err)
	}

	c.breaker.RecordSuccess()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, resp.Status)
	}

	c.observe(ctx, req.Method, resp.StatusCode, elapsed, outcomeOK)
	logger.DebugContext(ctx, "request completed", slog.Int("status", resp.StatusCode), slog.Duration("duration", elapsed))

	return resp, nil
}

// attempt runs the retry loop.
func (c *Client) attempt(ctx context.Context, req *http.Request, logger *slog.Logger) (*http.Response, error) {
	for n := 1; ; n++ {
		resp, err := c.http.Do(req.WithContext(ctx))
		if err == nil && resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}

		retryable := ctx.Err() == nil && (err == nil || isRetryableError(err))
		if err == nil {
			_ = resp.Body.Close()
			err = &StatusError{StatusCode: resp.StatusCode}
		}

		if !retryable || n >= c.retry.MaxAttempts {
			return nil, err
		}

		wait := c.backoff(n)
		logger.DebugContext(ctx, "retrying request",
			slog.Int("attempt", n+1), slog.Duration("backoff", wait), slog.Any("error", err))

		if err := c.rewind(ctx, req, wait); err != nil {
			return nil, err
		}
	}
}

// rewind sleeps for wait and prepares req to be sent again.
func (c *Client) rewind(ctx context.Context, req *http.Request, wait time.Duration) error {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return fmt.Errorf("rewinding request body: %w", err)
		}

		req.Body = body
	}

	if c.auth != nil {
		c.auth(req)
	}

	return nil
}

// backoff is InitialInterval * Multiplier^(n-1), capped at MaxInterval and
// spread by ±JitterFactor.
func (c *Client) backoff(n int) time.Duration {
	d := float64(c.retry.InitialInterval) * math.Pow(c.retry.Multiplier, float64(n-1))
	d = math.Min(d, float64(c.retry.MaxInterval))

	if j := c.retry.JitterFactor; j > 0 {
		d += d * j * (2*rand.Float64() - 1) //nolint:gosec // jitter only
	}

	return time.Duration(d)
}

// decorate forwards the tracking IDs and applies the auth hook.
func (c *Client) decorate(ctx context.Context, req *http.Request) {
	if id := middleware.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderRequestID, id)
	}

	if id := middleware.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderCorrelationID, id)
	}

	if c.auth != nil {
		c.auth(req)
	}
}

func (c *Client) observe(ctx context.Context, method string, status int, elapsed time.Duration, outcome string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", c.name),
		attribute.String("outcome", outcome),
	}

	if status > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", status))
	}

	set := metric.WithAttributes(attrs...)
	c.duration.Record(ctx, elapsed.Seconds(), set)
	c.total.Add(ctx, 1, set)
}

// RequestOption adjusts a request built by Get or Post.
type RequestOption func(*http.Request)

// WithQuery replaces the request's query string.
func WithQuery(query url.Values) RequestOption {
	return func(r *http.Request) { r.URL.RawQuery = query.Encode() }
}

// WithHeader sets one request header.
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

// Get sends a GET to path under the base URL.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*http.Response, error) {
	return c.send(ctx, http.MethodGet, path, http.NoBody, opts)
}

// Post sends body as JSON to path under the base URL.
func (c *Client) Post(ctx context.Context, path string, body io.Reader, opts ...RequestOption) (*http.Response, error) {
	return c.send(ctx, http.MethodPost, path, body, opts)
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, opts []RequestOption) (*http.Response, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if body != http.NoBody {
		req.Header.Set("Content-Type", "application/json")
	}

	for _, opt := range opts {
		opt(req)
	}

	return c.Do(ctx, req)
}

func (c *Client) ServiceName() string { return c.name }

// BaseURL is the configured base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// CircuitState reports the provider's breaker position.
func (c *Client) CircuitState() State { return c.breaker.State() }

func newTransport(cfg config.TransportConfig) *http.Transport {
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = config.DefaultTransportMaxIdleConns
	}

	if cfg.MaxIdleConnsPerHost <= 0 {
		cfg.MaxIdleConnsPerHost = config.DefaultTransportMaxIdleConnsPerHost
	}

	if cfg.IdleConnTimeout <= 0 {
		cfg.IdleConnTimeout = config.DefaultTransportIdleConnTimeout
	}

	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
	}
}

// isRetryableError accepts network timeouts, including the per-attempt
// timeout, and connection failures. The caller's own context is checked
// separately.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}

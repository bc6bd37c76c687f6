package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type loggerKey struct{}

var fallback atomic.Pointer[slog.Logger]

func init() {
	fallback.Store(slog.Default())
}

// SetDefault installs logger as the process default, both for slog and for
// contexts that carry no logger.
func SetDefault(logger *slog.Logger) {
	fallback.Store(logger)
	slog.SetDefault(logger)
}

// Lookup returns the logger attached to ctx, if any.
func Lookup(ctx context.Context) (*slog.Logger, bool) {
	if ctx == nil {
		return nil, false
	}

	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)

	return logger, ok && logger != nil
}

// FromContext is Lookup with the default logger as fallback.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := Lookup(ctx); ok {
		return logger
	}

	return fallback.Load()
}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// WithRequestID tags every later log line from ctx with request_id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withAttr(ctx, "request_id", id)
}

// WithCorrelationID tags every later log line from ctx with correlation_id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return withAttr(ctx, "correlation_id", id)
}

func withAttr(ctx context.Context, key, value string) context.Context {
	return WithContext(ctx, FromContext(ctx).With(slog.String(key, value)))
}

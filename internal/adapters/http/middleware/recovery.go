package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/vows/internal/adapters/http/dto"
	"github.com/jsamuelsen/vows/internal/platform/logging"
)

// Recovery turns a panic in any later handler into a logged 500. It must be
// first in the chain.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			requestLogger(c, logger).ErrorContext(c.Request.Context(), "panic recovered",
				slog.Any("error", r),
				slog.String("stack", string(debug.Stack())),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("trace_id", dto.GetTraceID(c)),
			)

			abortInternal(c)
		}()

		c.Next()
	}
}

// requestLogger prefers the request-scoped logger, which carries the
// tracking IDs, over fallback.
func requestLogger(c *gin.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := logging.Lookup(c.Request.Context()); ok {
		return l
	}

	if fallback != nil {
		return fallback
	}

	return logging.FromContext(c.Request.Context())
}

package telemetry

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	meterName = "github.com/jsamuelsen/vows/internal/platform/telemetry"

	// Routes under this prefix are neither traced nor measured.
	probePrefix = "/-/"

	// TraceHeader echoes the server span's trace id to the caller.
	TraceHeader = "X-Trace-ID"
)

func isProbe(path string) bool {
	return strings.HasPrefix(path, probePrefix)
}

// TracingMiddleware opens a server span per request with otelgin.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName, otelgin.WithGinFilter(func(c *gin.Context) bool {
		return !isProbe(c.Request.URL.Path)
	}))
}

type instruments struct {
	duration metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
}

func newInstruments(meter metric.Meter) (*instruments, error) {
	duration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Duration of HTTP server requests."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	inFlight, err := meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Requests currently being served."))
	if err != nil {
		return nil, err
	}

	return &instruments{duration: duration, inFlight: inFlight}, nil
}

// Middleware records OTel request metrics and sets TraceHeader. It must run
// after TracingMiddleware. The histogram's count doubles as the request
// total.
func Middleware() gin.HandlerFunc {
	inst, err := newInstruments(otel.Meter(meterName))
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		if isProbe(c.Request.URL.Path) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			c.Header(TraceHeader, sc.TraceID().String())
		}

		if inst == nil {
			c.Next()
			return
		}

		route := metric.WithAttributes(
			attribute.String("http.request.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
		)

		start := time.Now()
		inst.inFlight.Add(ctx, 1, route)

		c.Next()

		inst.inFlight.Add(ctx, -1, route)
		inst.duration.Record(ctx, time.Since(start).Seconds(), route,
			metric.WithAttributes(attribute.Int("http.response.status_code", c.Writer.Status())))
	}
}

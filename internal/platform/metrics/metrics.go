// Package metrics defines the Prometheus counters exposed on /-/metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vows"

// Failure reasons recorded by IngestionFailures.
const (
	ReasonInvalidCredential = "invalid_credential"
	ReasonStatus            = "status"
	ReasonTransport         = "transport"
	ReasonDecode            = "decode"
	ReasonCanceled          = "canceled"
)

// Generation results recorded by GenerationRequests.
const (
	ResultSuccess       = "success"
	ResultEmpty         = "empty"
	ResultInvalid       = "invalid"
	ResultMisconfigured = "misconfigured"
	ResultFailed        = "failed"
)

var (
	// PagesFetched counts export pages successfully decoded.
	PagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "readwise",
		Name:      "pages_fetched_total",
		Help:      "Export pages fetched from Readwise.",
	})

	// HighlightsIngested counts highlights returned by completed ingestions.
	HighlightsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "readwise",
		Name:      "highlights_ingested_total",
		Help:      "Highlights returned by completed ingestions.",
	})

	// IngestionFailures counts aborted ingestions by reason.
	IngestionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "readwise",
		Name:      "ingestion_failures_total",
		Help:      "Aborted highlight ingestions by reason.",
	}, []string{"reason"})

	// GenerationRequests counts generation attempts by mode and result.
	GenerationRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "generation",
		Name:      "requests_total",
		Help:      "Generation requests by mode and result.",
	}, []string{"mode", "result"})
)

// CircuitState exposes each provider's breaker: 0 closed, 1 open, 2 half-open.
var CircuitState = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "provider",
	Name:      "circuit_state",
	Help:      "Circuit breaker state per provider (0 closed, 1 open, 2 half-open).",
}, []string{"service"})

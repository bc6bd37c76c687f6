// Package acl translates between the external providers' wire models and
// the domain. Provider DTOs never leave this package.
package acl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/jsamuelsen/vows/internal/adapters/clients"
	"github.com/jsamuelsen/vows/internal/domain"
	"github.com/jsamuelsen/vows/internal/platform/logging"
	"github.com/jsamuelsen/vows/internal/platform/metrics"
)

const (
	// DefaultExportPath is the Readwise grouped export endpoint.
	DefaultExportPath = "/api/v2/export/"

	pageCursorParam = "pageCursor"
	opFetchPage     = "fetch export page"
)

// ReadwiseClientConfig contains configuration for the Readwise client.
type ReadwiseClientConfig struct {
	// Client is the HTTP client to use for requests.
	// Its BaseURL should point at the Readwise host.
	Client *clients.Client

	// ExportPath overrides DefaultExportPath.
	ExportPath string

	// Logger is the structured logger.
	Logger *slog.Logger
}

// ReadwiseClient implements ports.HighlightSource against the Readwise
// export API. It holds no per-call state and is safe for concurrent use.
type ReadwiseClient struct {
	provider

	exportPath string
	logger     *slog.Logger
}

// NewReadwiseClient creates a new Readwise adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewReadwiseClient(cfg ReadwiseClientConfig) *ReadwiseClient {
	if cfg.Client == nil {
		panic("ReadwiseClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	exportPath := cfg.ExportPath
	if exportPath == "" {
		exportPath = DefaultExportPath
	}

	return &ReadwiseClient{
		provider:   provider{http: cfg.Client},
		exportPath: exportPath,
		logger:     logger,
	}
}

// FetchAllHighlights walks every export page for the account behind
// credential and returns the flattened highlights in provider order.
//
// Pages are requested one at a time. Any failure discards what was
// collected so far; callers never see a partial result.
func (c *ReadwiseClient) FetchAllHighlights(ctx context.Context, credential string) ([]domain.Highlight, error) {
	if err := requireValue(credential, "credential"); err != nil {
		return nil, err
	}

	highlights := make([]domain.Highlight, 0)
	seen := make(map[string]struct{})
	cursor := ""

	for page := 1; ; page++ {
		p, err := c.fetchPage(ctx, credential, cursor, page)
		if err != nil {
			metrics.IngestionFailures.WithLabelValues(failureReason(err)).Inc()
			c.logger.WarnContext(ctx, "highlight ingestion aborted",
				slog.Int("page", page),
				slog.String("error", err.Error()))

			return nil, fmt.Errorf("fetching export page %d: %w", page, err)
		}

		metrics.PagesFetched.Inc()

		before := len(highlights)
		for i := range p.Results {
			highlights = append(highlights, translateExportGroup(&p.Results[i])...)
		}

		c.logger.Log(ctx, logging.LevelTrace, "export page translated",
			slog.Int("page", page),
			slog.Int("groups", len(p.Results)),
			slog.Int("highlights", len(highlights)-before))

		next, ok := p.nextCursor()
		if !ok {
			break
		}

		if _, dup := seen[next]; dup {
			c.logger.WarnContext(ctx, "export cursor repeated, stopping pagination",
				slog.Int("page", page))
			break
		}

		seen[next] = struct{}{}
		cursor = next
	}

	metrics.HighlightsIngested.Add(float64(len(highlights)))
	c.logger.DebugContext(ctx, "highlight ingestion complete",
		slog.Int("highlights", len(highlights)))

	return highlights, nil
}

// fetchPage requests and decodes one export page.
func (c *ReadwiseClient) fetchPage(ctx context.Context, credential, cursor string, page int) (*exportPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := []clients.RequestOption{clients.WithHeader("Authorization", "Token "+credential)}
	if cursor != "" {
		opts = append(opts, clients.WithQuery(url.Values{pageCursorParam: {cursor}}))
	}

	c.logger.Log(ctx, logging.LevelTrace, "starting request",
		slog.String("path", c.exportPath),
		slog.Int("page", page),
		slog.Bool("has_cursor", cursor != ""))

	body, err := c.get(ctx, c.exportPath, opFetchPage, opts...)
	if err != nil {
		return nil, err
	}

	p, err := decodeJSON[exportPage](body)
	if err != nil {
		return nil, &decodeError{domain.NewRemoteFetchError(c.ServiceName(), err.Error())}
	}

	return p, nil
}

// decodeError marks a malformed page body so it can be counted separately.
type decodeError struct{ error }

func (e *decodeError) Unwrap() error { return e.error }

func failureReason(err error) string {
	var decodeErr *decodeError

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.ReasonCanceled
	case domain.IsInvalidCredential(err):
		return metrics.ReasonInvalidCredential
	case errors.As(err, &decodeErr):
		return metrics.ReasonDecode
	default:
		var remote *domain.RemoteFetchError
		if errors.As(err, &remote) && remote.StatusCode != 0 {
			return metrics.ReasonStatus
		}

		return metrics.ReasonTransport
	}
}

// Check reports the circuit breaker state. The service holds no Readwise
// credential of its own, so the provider itself is not probed.
func (c *ReadwiseClient) Check(_ context.Context) error {
	return c.circuitErr()
}

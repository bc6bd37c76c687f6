package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jsamuelsen/vows/internal/adapters/clients"
	"github.com/jsamuelsen/vows/internal/domain"
)

// provider is the part every provider client shares: the resilient HTTP
// client and the name errors and health checks are reported under.
type provider struct {
	http *clients.Client
}

func (p provider) ServiceName() string {
	return p.http.ServiceName()
}

// Name identifies the provider to the health registry.
func (p provider) Name() string {
	return p.ServiceName()
}

// circuitErr reports an open circuit. Readiness uses it instead of calling
// the provider.
func (p provider) circuitErr() error {
	if p.http.CircuitState() == clients.StateOpen {
		return fmt.Errorf("%s: %w", p.ServiceName(), clients.ErrCircuitOpen)
	}

	return nil
}

// get fetches path and hands back the body of a 2xx response. Anything else
// comes back as a domain error.
func (p provider) get(ctx context.Context, path, operation string, opts ...clients.RequestOption) (io.ReadCloser, error) {
	resp, err := p.http.Get(ctx, path, opts...)
	if err != nil {
		return nil, MapHTTPError(nil, err, p.ServiceName(), operation)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()

		return nil, MapHTTPError(resp, nil, p.ServiceName(), operation)
	}

	return resp.Body, nil
}

// decodeJSON reads body into a new T and closes it.
func decodeJSON[T any](body io.ReadCloser) (*T, error) {
	defer body.Close()

	var v T
	if err := json.NewDecoder(body).Decode(&v); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &v, nil
}

func requireValue(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewValidationError(field, "is required")
	}

	return nil
}

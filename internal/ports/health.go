package ports

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

var ErrDuplicateChecker = errors.New("duplicate health checker")

// HealthChecker is a dependency the readiness probe asks about. The provider
// clients implement it: Readwise reports its circuit, the completion client
// also reports a missing key.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthRegistry collects checkers at startup and evaluates them per probe.
type HealthRegistry interface {
	Register(checker HealthChecker) error
	CheckAll(ctx context.Context) *HealthResult
}

type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded" // an optional dependency failed
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

func (s HealthStatus) severity() int {
	switch s {
	case HealthStatusDegraded:
		return 1
	case HealthStatusUnhealthy:
		return 2
	}

	return 0
}

type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

type CheckResult struct {
	Status   HealthStatus  `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

type registered struct {
	checker  HealthChecker
	optional bool
}

// DefaultHealthRegistry runs its checks concurrently. It is safe to register
// while probes are being served.
type DefaultHealthRegistry struct {
	mu      sync.RWMutex
	entries []registered
}

func NewHealthRegistry() *DefaultHealthRegistry {
	return &DefaultHealthRegistry{}
}

// Register adds a checker whose failure makes the service unhealthy.
func (r *DefaultHealthRegistry) Register(checker HealthChecker) error {
	return r.add(registered{checker: checker})
}

// RegisterOptional adds a checker whose failure only degrades the service.
// Generation is optional this way: without a completion key the service
// still serves the catalog and highlights.
func (r *DefaultHealthRegistry) RegisterOptional(checker HealthChecker) error {
	return r.add(registered{checker: checker, optional: true})
}

func (r *DefaultHealthRegistry) add(e registered) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.entries {
		if existing.checker.Name() == e.checker.Name() {
			return fmt.Errorf("%w: %s", ErrDuplicateChecker, e.checker.Name())
		}
	}

	r.entries = append(r.entries, e)

	return nil
}

// CheckAll runs every checker under ctx and reports the worst status.
func (r *DefaultHealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	entries := append([]registered(nil), r.entries...)
	r.mu.RUnlock()

	result := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(entries)),
		Timestamp: time.Now(),
	}

	var (
		g  errgroup.Group
		mu sync.Mutex
	)

	for _, e := range entries {
		g.Go(func() error {
			check := run(ctx, e)

			mu.Lock()
			defer mu.Unlock()

			result.Checks[e.checker.Name()] = check
			if check.Status.severity() > result.Status.severity() {
				result.Status = check.Status
			}

			return nil
		})
	}

	_ = g.Wait()

	return result
}

func run(ctx context.Context, e registered) *CheckResult {
	start := time.Now()
	err := e.checker.Check(ctx)
	res := &CheckResult{Status: HealthStatusHealthy, Duration: time.Since(start)}

	switch {
	case err == nil:
	case e.optional:
		res.Status, res.Message = HealthStatusDegraded, err.Error()
	default:
		res.Status, res.Message = HealthStatusUnhealthy, err.Error()
	}

	return res
}

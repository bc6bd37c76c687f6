package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/vows/internal/platform/logging"
)

// Every use case runs as Validate, Perform, Verify, Respond. Validation
// happens before any provider is called, and nothing reaches the caller
// until the provider's answer has been verified. Nothing is persisted.

// ExecutionStep names one phase of an Operation.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError records the step an Operation failed in. It unwraps to the
// step's error so domain.Is* helpers still classify it.
type ExecutionError struct {
	Step  ExecutionStep
	Cause error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// GetExecutionStep returns the step err failed in, if err came from Execute.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}

// Executor carries the logger used when the request context has none.
type Executor struct {
	logger *slog.Logger
}

func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

// Operation is a use case split into its steps. I is the input, P what
// Perform produces, V the verified value and O the response. A nil step is
// skipped and yields the zero value.
type Operation[I, P, V, O any] struct {
	Name string

	Validate func(ctx context.Context, input I) error
	Perform  func(ctx context.Context, input I) (P, error)
	Verify   func(ctx context.Context, input I, performed P) (V, error)
	Respond  func(ctx context.Context, input I, verified V) (O, error)
}

// Execute runs op on input, stopping at the first failing step.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (O, error) {
	var zero O

	logger, ok := logging.Lookup(ctx)
	if !ok {
		logger = exec.logger
	}

	logger = logger.With(slog.String("operation", op.Name))
	start := time.Now()

	_, err := optionalStep(ctx, logger, StepValidate, slog.LevelWarn, op.Validate != nil, func() (struct{}, error) {
		return struct{}{}, op.Validate(ctx, input)
	})
	if err != nil {
		return zero, err
	}

	performed, err := optionalStep(ctx, logger, StepPerform, slog.LevelError, op.Perform != nil, func() (P, error) {
		return op.Perform(ctx, input)
	})
	if err != nil {
		return zero, err
	}

	verified, err := optionalStep(ctx, logger, StepVerify, slog.LevelError, op.Verify != nil, func() (V, error) {
		return op.Verify(ctx, input, performed)
	})
	if err != nil {
		return zero, err
	}

	out, err := optionalStep(ctx, logger, StepRespond, slog.LevelWarn, op.Respond != nil, func() (O, error) {
		return op.Respond(ctx, input, verified)
	})
	if err != nil {
		return zero, err
	}

	logger.InfoContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return out, nil
}

func optionalStep[T any](
	ctx context.Context, logger *slog.Logger, name ExecutionStep, failLevel slog.Level, present bool, fn func() (T, error),
) (T, error) {
	if !present {
		var zero T
		return zero, nil
	}

	return step(ctx, logger, name, failLevel, fn)
}

// step runs fn, logging its outcome at debug and failures at failLevel.
func step[T any](
	ctx context.Context, logger *slog.Logger, name ExecutionStep, failLevel slog.Level, fn func() (T, error),
) (T, error) {
	logger.DebugContext(ctx, "step started", slog.String("step", string(name)))

	v, err := fn()
	if err != nil {
		logger.Log(ctx, failLevel, "step failed", slog.String("step", string(name)), slog.Any("error", err))

		var zero T

		return zero, &ExecutionError{Step: name, Cause: err}
	}

	return v, nil
}

package guarded

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/challenge-league/internal/domain/team"
	"github.com/riskibarqy/challenge-league/internal/domain/user"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
	"github.com/riskibarqy/challenge-league/internal/platform/metrics"
	"github.com/riskibarqy/challenge-league/internal/platform/resilience"
	"github.com/riskibarqy/challenge-league/internal/usecase"
)

// DefaultTimeout bounds a single store call when none is configured.
const DefaultTimeout = 3 * time.Second

// Guard bounds store calls with a timeout and an optional circuit breaker
// and reports backend failures as usecase.ErrStoreUnavailable.
type Guard struct {
	timeout time.Duration
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

func NewGuard(timeout time.Duration, breaker *resilience.CircuitBreaker, logger *logging.Logger) *Guard {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Guard{timeout: timeout, breaker: breaker, logger: logger}
}

func (g *Guard) do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	start := time.Now()

	err := g.breaker.ExecuteContext(ctx, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()
		return fn(callCtx)
	}, isStoreFailure)

	metrics.RecordStoreCall(operation, outcome(ctx, err), time.Since(start))
	if err == nil || isPassthrough(err) {
		return err
	}
	if ctx.Err() != nil {
		// The caller went away; the store did not fail.
		return err
	}

	g.logger.WarnContext(ctx, "record store call failed",
		"operation", operation,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err,
	)
	return fmt.Errorf("%w: %s: %w", usecase.ErrStoreUnavailable, operation, err)
}

// validate rejects a record before it reaches the store.
func validate(operation string, check func() error) error {
	if err := check(); err != nil {
		return fmt.Errorf("%w: %s: %w", usecase.ErrInvalidInput, operation, err)
	}
	return nil
}

// isPassthrough reports errors that describe the data rather than the store.
func isPassthrough(err error) bool {
	return errors.Is(err, user.ErrVersionConflict) ||
		errors.Is(err, team.ErrVersionConflict) ||
		errors.Is(err, usecase.ErrInvalidInput) ||
		errors.Is(err, usecase.ErrStoreUnavailable)
}

func isStoreFailure(err error) bool {
	return !isPassthrough(err)
}

func outcome(ctx context.Context, err error) string {
	switch {
	case err == nil:
		return "ok"
	case ctx.Err() != nil:
		return "canceled"
	case errors.Is(err, user.ErrVersionConflict), errors.Is(err, team.ErrVersionConflict):
		return "conflict"
	case errors.Is(err, resilience.ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

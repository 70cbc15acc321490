package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/challenge-league/internal/domain/team"
	"github.com/riskibarqy/challenge-league/internal/domain/user"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
	"github.com/riskibarqy/challenge-league/internal/platform/metrics"
)

// DefaultMaxAttempts bounds read-validate-write cycles per mutation.
const DefaultMaxAttempts = 5

func isVersionConflict(err error) bool {
	return errors.Is(err, user.ErrVersionConflict) || errors.Is(err, team.ErrVersionConflict)
}

// retryOnConflict reruns cycle until it succeeds, fails with a non-conflict
// error, or maxAttempts cycles lost their conditional write.
func retryOnConflict(ctx context.Context, logger *logging.Logger, operation string, maxAttempts int, cycle func(ctx context.Context) error) error {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, operation, err)
		}

		err := cycle(ctx)
		if err == nil {
			return nil
		}
		if !isVersionConflict(err) {
			return err
		}

		metrics.RecordMutationConflict(operation)
		if attempt >= maxAttempts {
			logger.WarnContext(ctx, "conditional write retries exhausted",
				"operation", operation,
				"attempts", attempt,
			)
			return fmt.Errorf("%w: %s gave up after %d attempts", ErrConflict, operation, attempt)
		}
		logger.DebugContext(ctx, "conditional write conflict, retrying",
			"operation", operation,
			"attempt", attempt,
		)
	}
}

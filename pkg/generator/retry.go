package generator

import (
	"context"
	"time"

	"github.com/odvcencio/svgfoundry/pkg/logging"
)

// SleepFunc suspends the caller for d, returning early with the context's
// error if it is cancelled. Injected so tests can count suspensions.
type SleepFunc func(ctx context.Context, d time.Duration) error

// SleepContext is the default SleepFunc.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// CallWithRetry invokes op up to attempts times, sleeping a fixed delay
// between attempts. The delay never grows and no jitter is applied; every
// failure category is retried identically. Each attempt is independent: op is
// re-invoked from scratch, so any partial state from a failed attempt is
// discarded. On exhaustion the zero value and false are returned; exhaustion
// is a skippable condition for the caller, never a hard failure.
func CallWithRetry[T any](ctx context.Context, logger *logging.Logger, label string, attempts int, delay time.Duration, sleep SleepFunc, op func(ctx context.Context) (T, error)) (T, bool) {
	var zero T
	if sleep == nil {
		sleep = SleepContext
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, true
		}

		if logger != nil {
			logger.Warn(logging.CategoryRetry, "attempt_failed", "model call failed", map[string]any{
				"call":         label,
				"attempt":      attempt,
				"max_attempts": attempts,
				"error":        err.Error(),
			})
		}

		if attempt < attempts {
			if sleepErr := sleep(ctx, delay); sleepErr != nil {
				return zero, false
			}
		}
	}

	if logger != nil {
		logger.Warn(logging.CategoryRetry, "attempts_exhausted", "giving up on call", map[string]any{
			"call":         label,
			"max_attempts": attempts,
		})
	}
	return zero, false
}

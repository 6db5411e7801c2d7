package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/svgfoundry/pkg/logging"
)

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()

	logger, err := logging.NewLogger(t.TempDir(), "test-run")
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })
	return logger
}

// sleepRecorder counts suspensions instead of sleeping.
type sleepRecorder struct {
	delays []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return ctx.Err()
}

func TestCallWithRetry_SucceedsFirstAttempt(t *testing.T) {
	sleeper := &sleepRecorder{}
	calls := 0

	result, ok := CallWithRetry(context.Background(), testLogger(t), "idea", 3, time.Second, sleeper.sleep, func(ctx context.Context) (string, error) {
		calls++
		return "hello", nil
	})

	require.True(t, ok)
	assert.Equal(t, "hello", result)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeper.delays, "no suspension on immediate success")
}

func TestCallWithRetry_FailsThenSucceeds(t *testing.T) {
	const failures = 2
	sleeper := &sleepRecorder{}
	calls := 0

	result, ok := CallWithRetry(context.Background(), testLogger(t), "idea", failures+1, 250*time.Millisecond, sleeper.sleep, func(ctx context.Context) (string, error) {
		calls++
		if calls <= failures {
			return "", errors.New("transient")
		}
		return "finally", nil
	})

	require.True(t, ok)
	assert.Equal(t, "finally", result)
	assert.Equal(t, failures+1, calls)

	// Exactly k suspensions of the configured delay between k+1 attempts
	require.Len(t, sleeper.delays, failures)
	for _, d := range sleeper.delays {
		assert.Equal(t, 250*time.Millisecond, d, "delay must stay fixed, no growth or jitter")
	}
}

func TestCallWithRetry_ExhaustsAttempts(t *testing.T) {
	const attempts = 4
	sleeper := &sleepRecorder{}
	calls := 0

	result, ok := CallWithRetry(context.Background(), testLogger(t), "artifact", attempts, 10*time.Millisecond, sleeper.sleep, func(ctx context.Context) (string, error) {
		calls++
		return "", errors.New("always fails")
	})

	assert.False(t, ok)
	assert.Empty(t, result)
	assert.Equal(t, attempts, calls, "op invoked exactly maxAttempts times")
	assert.Len(t, sleeper.delays, attempts-1, "no suspension after the final attempt")
}

func TestCallWithRetry_SingleAttempt(t *testing.T) {
	sleeper := &sleepRecorder{}
	calls := 0

	_, ok := CallWithRetry(context.Background(), testLogger(t), "idea", 1, time.Second, sleeper.sleep, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("nope")
	})

	assert.False(t, ok)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeper.delays)
}

func TestCallWithRetry_CancelledDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	_, ok := CallWithRetry(ctx, testLogger(t), "idea", 3, time.Second, func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}, func(ctx context.Context) (string, error) {
		calls++
		return "", errors.New("fail")
	})

	assert.False(t, ok)
	assert.Equal(t, 1, calls, "cancellation during the delay stops further attempts")
}

func TestSleepContext(t *testing.T) {
	start := time.Now()
	err := SleepContext(context.Background(), 10*time.Millisecond)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, SleepContext(ctx, time.Hour))
}

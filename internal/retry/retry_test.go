package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/at"
)

// recordSleep captures requested delays without actually sleeping.
func recordSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestQuadraticBackoffSchedule(t *testing.T) {
	p := Policy{MaxAttempts: 4, BackoffBase: 1000 * time.Millisecond}

	var delays []time.Duration
	attempts := 0
	err := do(context.Background(), p, func(context.Context) error {
		attempts++
		return fmt.Errorf("%w: attempt %d", at.ErrCommunication, attempts)
	}, recordSleep(&delays))

	require.Error(t, err)
	assert.ErrorIs(t, err, at.ErrCommunication)
	assert.Equal(t, 4, attempts)
	assert.Equal(t, []time.Duration{0, 4000 * time.Millisecond, 9000 * time.Millisecond}, delays)
	assert.Contains(t, err.Error(), "attempt 4", "last observed error is returned")
}

func TestStopsAtFirstSuccess(t *testing.T) {
	p := Policy{MaxAttempts: 5, BackoffBase: time.Second}

	var delays []time.Duration
	attempts := 0
	err := do(context.Background(), p, func(context.Context) error {
		attempts++
		if attempts < 2 {
			return at.ErrCommunication
		}
		return nil
	}, recordSleep(&delays))

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, []time.Duration{0}, delays)
}

func TestNonRetryableReturnsImmediately(t *testing.T) {
	p := Policy{MaxAttempts: 4, BackoffBase: time.Second}

	attempts := 0
	err := Do(context.Background(), p, func(context.Context) error {
		attempts++
		return at.ErrBadParameter
	})

	assert.ErrorIs(t, err, at.ErrBadParameter)
	assert.Equal(t, 1, attempts)
}

func TestParseFailuresConsumeBudget(t *testing.T) {
	p := Policy{MaxAttempts: 3}

	attempts := 0
	err := Do(context.Background(), p, func(context.Context) error {
		attempts++
		return at.ErrParse
	})

	assert.ErrorIs(t, err, at.ErrParse)
	assert.Equal(t, 3, attempts)
}

func TestInvalidPolicy(t *testing.T) {
	err := Do(context.Background(), Policy{MaxAttempts: 0}, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, at.ErrBadParameter)

	err = Do(context.Background(), Policy{MaxAttempts: 1}, nil)
	assert.ErrorIs(t, err, at.ErrBadParameter)
}

func TestAttemptTimeoutAppliesPerAttempt(t *testing.T) {
	p := Policy{MaxAttempts: 2, AttemptTimeout: 10 * time.Millisecond}

	var deadlines []bool
	err := do(context.Background(), p, func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		deadlines = append(deadlines, ok)
		return at.ErrCommunication
	}, recordSleep(&[]time.Duration{}))

	require.Error(t, err)
	assert.Equal(t, []bool{true, true}, deadlines)
}

func TestBackoffSleepHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)

	// Zero delay returns without consulting the context.
	assert.NoError(t, sleep(ctx, 0))
}

func TestCancelledDuringBackoffStopsRetrying(t *testing.T) {
	p := Policy{MaxAttempts: 4, BackoffBase: time.Second}

	attempts := 0
	err := do(context.Background(), p, func(context.Context) error {
		attempts++
		return at.ErrCommunication
	}, func(context.Context, time.Duration) error {
		return context.Canceled
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestBackoffDelayValues(t *testing.T) {
	p := Policy{BackoffBase: 100 * time.Millisecond}
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 0},
		{1, 0},
		{2, 400 * time.Millisecond},
		{3, 900 * time.Millisecond},
		{4, 1600 * time.Millisecond},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.backoffDelay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestLastErrorSurvivesWrapping(t *testing.T) {
	inner := errors.New("line noise")
	p := Policy{MaxAttempts: 2}

	err := Do(context.Background(), p, func(context.Context) error {
		return fmt.Errorf("%w: %v", at.ErrParse, inner)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, at.ErrParse)
}

// Package retry wraps a single command, read or write operation in a
// bounded retry loop with quadratically increasing inter-attempt delay.
// Policy is identical for all three shapes of operation; only the
// wrapped closure differs.
package retry

import (
	"context"
	"time"

	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/at"
)

// Policy is the retry budget for one logical operation. Budgets are
// never shared or accumulated across operations.
type Policy struct {
	// MaxAttempts is the attempt ceiling, including the first try.
	MaxAttempts int

	// AttemptTimeout bounds each individual attempt. Zero disables the
	// per-attempt deadline.
	AttemptTimeout time.Duration

	// BackoffBase scales the quadratic inter-attempt delay.
	BackoffBase time.Duration
}

// Op is one retryable operation. The context carries the per-attempt
// deadline.
type Op func(ctx context.Context) error

// Do invokes op up to the policy's attempt ceiling, stopping at the
// first success or the first non-retryable error. The delay before
// attempt index i (0-based) is BackoffBase*i*i, except that the first
// retry goes out immediately; so with a 1s base the sleeps are 0s, 4s
// and 9s before attempts 2, 3 and 4. Returns the last observed error
// once the budget is exhausted.
func Do(ctx context.Context, p Policy, op Op) error {
	return do(ctx, p, op, sleep)
}

func do(ctx context.Context, p Policy, op Op, sleepFn func(context.Context, time.Duration) error) error {
	if p.MaxAttempts < 1 || op == nil {
		return at.ErrBadParameter
	}

	var last error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepFn(ctx, p.backoffDelay(attempt)); err != nil {
				return err
			}
		}

		actx := ctx
		cancel := context.CancelFunc(nil)
		if p.AttemptTimeout > 0 {
			actx, cancel = context.WithTimeout(ctx, p.AttemptTimeout)
		}
		err := op(actx)
		if cancel != nil {
			cancel()
		}

		if err == nil {
			return nil
		}
		if !at.Retryable(err) {
			return err
		}
		last = err
	}
	return last
}

// backoffDelay is the wait before the attempt with the given 0-based
// index. The first retry is immediate; later retries wait the square of
// the attempt index times the base.
func (p Policy) backoffDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	return p.BackoffBase * time.Duration(attempt*attempt)
}

// sleep is an explicit suspension point rather than a bare blocking
// call, so the loop stays usable from both dedicated-goroutine and
// cooperative hosts.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

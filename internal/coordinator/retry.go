package coordinator

import (
	"context"
	"fmt"
	"time"

	"github.com/simonvc/tradebook/internal/ledger"
)

// RetryPolicy bounds how often a unit of work is re-run after a transient
// storage failure. The delay doubles after every attempt.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, BaseDelay: time.Second}
}

// Do runs fn until it succeeds, fails with a non-transient error, or the
// retries are spent. onRetry, if set, is called before each wait.
func (p RetryPolicy) Do(ctx context.Context, fn func() error, onRetry func(attempt int, delay time.Duration, err error)) error {
	delay := p.BaseDelay
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || !ledger.IsTransient(err) {
			return err
		}
		if attempt >= p.MaxRetries {
			if attempt == 0 {
				return err
			}
			return fmt.Errorf("gave up after %d retries: %w", attempt, err)
		}

		if onRetry != nil {
			onRetry(attempt+1, delay, err)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w (last error: %v)", ctx.Err(), err)
		case <-time.After(delay):
		}
		delay *= 2
	}
}

package pipeline

import (
	"context"
	"time"
)

// RetryPolicy bounds retries of a failing sink write. Delays double after
// every attempt.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

func withRetry(ctx context.Context, policy RetryPolicy, onRetry func(attempt int, err error), fn func(context.Context) error) error {
	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	delay := policy.BaseDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}

	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries {
			return err
		}
		if onRetry != nil {
			onRetry(attempt+1, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}

package service

import (
	"context"
	"math/rand"
	"time"

	"wolfpack-be/internal/pkg/apperr"
)

const retryBaseDelay = 100 * time.Millisecond

// withRetry re-runs fn on retryable failures, up to attempts total runs,
// with jittered exponential backoff. Callers only pass idempotent
// operations; validation and permission failures return immediately.
func withRetry(ctx context.Context, attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !apperr.IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}

		delay := retryBaseDelay << i
		delay += time.Duration(rand.Int63n(int64(delay)/2 + 1))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return apperr.Unavailable("operation cancelled while retrying", ctx.Err())
		}
	}
	return err
}

// Package retry provides a bounded retry policy for calls to external
// collaborators (SMTP, storage). Core database mutations are never
// retried through it; they are atomic at the persistence layer.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy retries an operation a fixed number of times with a fixed
// delay between attempts.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultPolicy mirrors the boundary behavior the clients expect:
// 3 attempts, 2 seconds apart.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, Delay: 2 * time.Second}
}

// Do runs fn until it succeeds, attempts are exhausted, or ctx is
// cancelled between attempts. The last error is returned wrapped with
// the attempt count.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}

		if attempt < attempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.Delay):
			}
		}
	}

	return fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

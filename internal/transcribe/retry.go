// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transcribe

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// Policy bounds retries around the vision-model call with randomized
// exponential backoff. The model API is the system's only unreliable external
// dependency, so this is the only place retry logic lives.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// MinWait is the lower bound of every backoff wait.
	MinWait time.Duration

	// MaxWait caps the exponential upper bound.
	MaxWait time.Duration
}

// DefaultPolicy returns the standard policy: 3 attempts, waits drawn between
// 200µs and 5s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		MinWait:     200 * time.Microsecond,
		MaxWait:     5 * time.Second,
	}
}

// wait returns the backoff before try number attempt (1-based): a random
// duration between MinWait and an exponential bound that doubles per attempt,
// capped at MaxWait.
func (p Policy) wait(attempt int) time.Duration {
	bound := p.MinWait
	for i := 0; i < attempt && bound < p.MaxWait; i++ {
		bound *= 2
	}
	if bound > p.MaxWait {
		bound = p.MaxWait
	}
	if bound <= p.MinWait {
		return p.MinWait
	}
	return p.MinWait + time.Duration(rand.Int64N(int64(bound-p.MinWait)))
}

// Do runs op until it succeeds or attempts are exhausted, sleeping between
// tries. A cancelled context interrupts the wait. Exhaustion wraps the last
// error from op; no fallback result is synthesized.
func (p Policy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultPolicy().MaxAttempts
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.wait(attempt)):
			}
		}
		if lastErr = op(); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

package graph

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy configures retry behavior for node execution.
type RetryPolicy struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	Retryable     func(error) bool // Determines if an error should trigger retry
}

// DefaultRetryPolicy returns a policy with three attempts and exponential
// backoff, retrying every error.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		Retryable:     func(error) bool { return true },
	}
}

// executeWithRetry runs a node, applying the graph retry policy if set.
func (r *Runnable[S]) executeWithRetry(ctx context.Context, node Node[S], state S) (S, error) {
	policy := r.graph.retryPolicy
	if policy == nil {
		return node.Function(ctx, state)
	}

	var lastErr error
	var zero S
	delay := policy.InitialDelay

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		result, err := node.Function(ctx, state)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if policy.Retryable != nil && !policy.Retryable(err) {
			return zero, fmt.Errorf("non-retryable error in %s: %w", node.Name, err)
		}

		if attempt < policy.MaxAttempts {
			select {
			case <-time.After(delay):
				delay = min(time.Duration(float64(delay)*policy.BackoffFactor), policy.MaxDelay)
			case <-ctx.Done():
				return zero, fmt.Errorf("retry cancelled during backoff: %w", ctx.Err())
			}
		}
	}

	return zero, fmt.Errorf("max retries (%d) exceeded for %s: %w",
		policy.MaxAttempts, node.Name, lastErr)
}

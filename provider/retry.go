package provider

import (
	"context"
	"time"
)

// RetryOptions tune WithRetry. Defaults: three attempts, 500ms base delay
// doubling per attempt.
type RetryOptions struct {
	// MaxAttempts is the total number of tries including the first.
	MaxAttempts int
	// BaseDelay is the backoff before the second attempt; it doubles for
	// each attempt after that.
	BaseDelay time.Duration
}

// DefaultRetryOptions returns the baseline retry configuration shared by the
// bundled adapters.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond}
}

// WithRetry runs fn with bounded retry and exponential backoff for transient
// failures (rate limits, 5xx class, connection errors). Structural failures
// and timeouts return immediately: a malformed request will not get better
// and an expired deadline has no budget left to retry with.
//
// The context bounds the total time including backoff sleeps. If the
// deadline expires while waiting, the error is classified as a timeout for
// providerID.
func WithRetry(ctx context.Context, providerID string, opts RetryOptions, fn func(ctx context.Context) (*Result, error)) (*Result, error) {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultRetryOptions().MaxAttempts
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultRetryOptions().BaseDelay
	}

	var lastErr error
	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			backoff := opts.BaseDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, classifyContextErr(ctx.Err(), providerID)
			case <-time.After(backoff):
			}
		}

		res, err := fn(ctx)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, classifyContextErr(ctx.Err(), providerID)
		}
		if !KindOf(err).Transient() {
			return nil, err
		}
	}
	return nil, lastErr
}

// classifyContextErr turns a context error into the taxonomy: an expired
// deadline is a provider timeout, caller cancellation passes through
// unclassified so it is never mistaken for a provider failure.
func classifyContextErr(err error, providerID string) error {
	if err == context.DeadlineExceeded {
		return NewError(KindTimeout, providerID, err)
	}
	return err
}

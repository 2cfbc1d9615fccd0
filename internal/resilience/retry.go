package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryPolicy bounds exponential-backoff retries of an upstream call.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// Notify, if set, is called before each wait with the failed attempt's error.
	Notify func(err error, wait time.Duration)
}

// Retry runs op until it succeeds, returns an error for which retryable
// reports false, the attempt budget is spent, or ctx is done. An open
// circuit is never retried.
func Retry[T any](ctx context.Context, p RetryPolicy, retryable func(error) bool, op func(context.Context) (T, error)) (T, error) {
	eb := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		eb.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		eb.MaxInterval = p.MaxInterval
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(eb),
		backoff.WithMaxTries(uint(attempts)),
	}
	if p.Notify != nil {
		opts = append(opts, backoff.WithNotify(p.Notify))
	}

	return backoff.Retry(ctx, func() (T, error) {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		if errors.Is(err, ErrCircuitOpen) || !retryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, opts...)
}

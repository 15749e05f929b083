// Package retrier implements bounded exponential backoff with jitter.
package retrier

import (
	"context"
	"math/rand"
	"time"
)

const (
	defaultBaseInterval = 500 * time.Millisecond
	defaultMaxInterval  = 10 * time.Second
	defaultMultiplier   = 2.0
	defaultAttempts     = 3
	defaultJitter       = 0.2
)

// Retrier retries failed calls with exponentially growing delays.
type Retrier struct {
	baseInterval time.Duration
	maxInterval  time.Duration
	multiplier   float64
	attempts     int
	jitter       float64
	retryIf      func(error) bool
}

// Option configures a Retrier.
type Option func(*Retrier)

// WithAttempts sets the maximum number of attempts (including the first).
func WithAttempts(n int) Option {
	return func(r *Retrier) {
		if n > 0 {
			r.attempts = n
		}
	}
}

// WithBaseInterval sets the delay before the first retry.
func WithBaseInterval(d time.Duration) Option {
	return func(r *Retrier) {
		r.baseInterval = d
	}
}

// WithMaxInterval caps the delay between retries.
func WithMaxInterval(d time.Duration) Option {
	return func(r *Retrier) {
		r.maxInterval = d
	}
}

// WithRetryIf restricts retries to errors the predicate accepts.
// Non-retryable errors are returned immediately.
func WithRetryIf(pred func(error) bool) Option {
	return func(r *Retrier) {
		r.retryIf = pred
	}
}

// New creates a Retrier with defaults overridden by the given options.
func New(opts ...Option) *Retrier {
	r := &Retrier{
		baseInterval: defaultBaseInterval,
		maxInterval:  defaultMaxInterval,
		multiplier:   defaultMultiplier,
		attempts:     defaultAttempts,
		jitter:       defaultJitter,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do runs fn until it succeeds, the attempt budget is exhausted, the
// error is rejected by the retry predicate, or ctx is cancelled.
func (r *Retrier) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	interval := r.baseInterval

	var err error
	for attempt := 1; ; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= r.attempts {
			return err
		}
		if r.retryIf != nil && !r.retryIf(err) {
			return err
		}

		sleep := interval
		if r.jitter > 0 {
			shift := (rand.Float64()*2 - 1) * r.jitter * float64(interval)
			sleep = time.Duration(float64(interval) + shift)
			if sleep < 0 {
				sleep = 0
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}

		interval = time.Duration(float64(interval) * r.multiplier)
		if interval > r.maxInterval {
			interval = r.maxInterval
		}
	}
}

// DoWithData runs fn with retries and returns its value.
func DoWithData[T any](r *Retrier, ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := r.Do(ctx, func(ctx context.Context) error {
		var e error
		result, e = fn(ctx)
		return e
	})
	return result, err
}

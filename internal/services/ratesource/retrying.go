package ratesource

import (
	"context"

	"github.com/pkg/errors"

	"github.com/bitinch/bitinch/internal/domain"
	"github.com/bitinch/bitinch/pkg/retrier"
)

// RetryingSource retries transport-level failures of an inner source.
// Unsupported pairs are final and returned immediately.
type RetryingSource struct {
	inner Source
	retry *retrier.Retrier
}

// NewRetryingSource wraps a source with bounded backoff. A nil retrier
// means sane defaults.
func NewRetryingSource(inner Source, r *retrier.Retrier) *RetryingSource {
	if r == nil {
		r = retrier.New(retrier.WithRetryIf(isTransient))
	}
	return &RetryingSource{inner: inner, retry: r}
}

func isTransient(err error) bool {
	if errors.Is(err, domain.ErrRateUnavailable) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// GetRate delegates to the inner source with retries.
func (s *RetryingSource) GetRate(ctx context.Context, pair domain.Pair) (Rate, error) {
	return retrier.DoWithData(s.retry, ctx, func(ctx context.Context) (Rate, error) {
		return s.inner.GetRate(ctx, pair)
	})
}

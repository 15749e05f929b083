package ratesource

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bitinch/bitinch/internal/domain"
	"github.com/bitinch/bitinch/pkg/retrier"
)

type flakySource struct {
	calls    int32
	failures int32
	err      error
}

func (f *flakySource) GetRate(ctx context.Context, pair domain.Pair) (Rate, error) {
	n := atomic.AddInt32(&f.calls, 1)
	if n <= f.failures {
		return Rate{}, f.err
	}
	return Rate{Price: decimal.NewFromInt(42)}, nil
}

func fastRetrier() *retrier.Retrier {
	return retrier.New(
		retrier.WithAttempts(3),
		retrier.WithBaseInterval(time.Millisecond),
		retrier.WithRetryIf(isTransient),
	)
}

func TestRetryingSourceRecoversFromTransientFailure(t *testing.T) {
	inner := &flakySource{failures: 2, err: errors.New("connection reset")}
	src := NewRetryingSource(inner, fastRetrier())

	rate, err := src.GetRate(context.Background(), pairOf("BTC", "ETH"))
	require.NoError(t, err)
	require.True(t, rate.Price.Equal(decimal.NewFromInt(42)))
	require.EqualValues(t, 3, atomic.LoadInt32(&inner.calls))
}

func TestRetryingSourceDoesNotRetryUnsupportedPair(t *testing.T) {
	inner := &flakySource{failures: 10, err: errors.Wrap(domain.ErrRateUnavailable, "pair BTC-DOGE")}
	src := NewRetryingSource(inner, fastRetrier())

	_, err := src.GetRate(context.Background(), pairOf("BTC", "DOGE"))
	require.ErrorIs(t, err, domain.ErrRateUnavailable)
	require.EqualValues(t, 1, atomic.LoadInt32(&inner.calls))
}

func TestRetryingSourceGivesUpAfterAttempts(t *testing.T) {
	inner := &flakySource{failures: 10, err: errors.New("connection reset")}
	src := NewRetryingSource(inner, fastRetrier())

	_, err := src.GetRate(context.Background(), pairOf("BTC", "ETH"))
	require.Error(t, err)
	require.EqualValues(t, 3, atomic.LoadInt32(&inner.calls))
}

func TestIsTransient(t *testing.T) {
	require.False(t, isTransient(errors.Wrap(domain.ErrRateUnavailable, "pair")))
	require.False(t, isTransient(context.Canceled))
	require.False(t, isTransient(context.DeadlineExceeded))
	require.True(t, isTransient(errors.New("dial tcp: i/o timeout")))
}

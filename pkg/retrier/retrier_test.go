package retrier

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestDoSucceedsAfterRetries(t *testing.T) {
	r := New(WithAttempts(3), WithBaseInterval(time.Millisecond))

	calls := 0
	err := r.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	r := New(WithAttempts(4), WithBaseInterval(time.Millisecond))

	calls := 0
	err := r.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("always fails")
	})
	require.Error(t, err)
	require.Equal(t, 4, calls)
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	final := errors.New("final")
	r := New(
		WithAttempts(5),
		WithBaseInterval(time.Millisecond),
		WithRetryIf(func(err error) bool { return !errors.Is(err, final) }),
	)

	calls := 0
	err := r.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return final
	})
	require.ErrorIs(t, err, final)
	require.Equal(t, 1, calls)
}

func TestDoHonorsContext(t *testing.T) {
	r := New(WithAttempts(10), WithBaseInterval(time.Second))

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	errCh := make(chan error, 1)
	go func() {
		errCh <- r.Do(ctx, func(ctx context.Context) error {
			calls++
			return errors.New("transient")
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Do did not return after cancellation")
	}
	require.Equal(t, 1, calls)
}

func TestDoWithData(t *testing.T) {
	r := New(WithAttempts(2), WithBaseInterval(time.Millisecond))

	calls := 0
	value, err := DoWithData(r, context.Background(), func(ctx context.Context) (int, error) {
		calls++
		if calls < 2 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	require.NoError(t, err)
	require.Equal(t, 42, value)
}

package retrier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoStopsOnSuccess(t *testing.T) {
	r := New(WithMaxRetries(4), WithInitialInterval(time.Millisecond))

	calls := 0
	err := r.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsBudget(t *testing.T) {
	r := New(WithMaxRetries(2), WithInitialInterval(time.Millisecond))

	calls := 0
	wantErr := errors.New("down")
	err := r.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return wantErr
	})

	assert.Equal(t, wantErr, err)
	assert.Equal(t, 3, calls, "initial attempt plus two retries")
}

func TestDoRespectsContextCancellation(t *testing.T) {
	r := New(WithMaxRetries(10), WithInitialInterval(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := r.Do(ctx, func(ctx context.Context) error {
		calls++
		if calls == 2 {
			cancel()
		}
		return errors.New("transient")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, calls)
}

func TestDoWithData(t *testing.T) {
	r := New(WithMaxRetries(3), WithInitialInterval(time.Millisecond))

	calls := 0
	got, err := DoWithData(r, context.Background(), func(ctx context.Context) (int, error) {
		calls++
		if calls < 2 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestPauseGrowsAndCaps(t *testing.T) {
	r := New(
		WithInitialInterval(10*time.Millisecond),
		WithMaxInterval(40*time.Millisecond),
		WithMultiplier(2),
		WithJitter(0),
	)

	assert.Equal(t, 10*time.Millisecond, r.pause(1))
	assert.Equal(t, 20*time.Millisecond, r.pause(2))
	assert.Equal(t, 40*time.Millisecond, r.pause(3))
	assert.Equal(t, 40*time.Millisecond, r.pause(6))
}

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestBackoff(attempts int) (*ExponentialBackoff, *[]time.Duration) {
	var delays []time.Duration
	eb := NewExponentialBackoff(&Config{
		MaxAttempts: attempts,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    250 * time.Millisecond,
		Multiplier:  2,
	})
	eb.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return eb, &delays
}

func TestExponentialBackoff_RetriesTransientErrors(t *testing.T) {
	eb, delays := newTestBackoff(4)

	calls := 0
	err := eb.Execute(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, *delays)
}

func TestExponentialBackoff_StopsOnPermanentError(t *testing.T) {
	eb, delays := newTestBackoff(4)
	permanent := errors.New("password authentication failed")

	calls := 0
	err := eb.Execute(context.Background(), func(context.Context) error {
		calls++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.False(t, IsMaxRetriesExceeded(err))
	assert.Equal(t, 1, calls)
	assert.Empty(t, *delays)
}

func TestExponentialBackoff_CapsDelayAndReportsExhaustion(t *testing.T) {
	eb, delays := newTestBackoff(4)

	err := eb.Execute(context.Background(), func(context.Context) error {
		return errors.New("i/o timeout")
	})

	assert.True(t, IsMaxRetriesExceeded(err))
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 250 * time.Millisecond}, *delays)
}

func TestExponentialBackoff_HonoursCancellation(t *testing.T) {
	eb := NewExponentialBackoff(&Config{MaxAttempts: 3, BaseDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := eb.Execute(ctx, func(context.Context) error {
		return errors.New("connection refused")
	})

	assert.ErrorIs(t, err, context.Canceled)
}

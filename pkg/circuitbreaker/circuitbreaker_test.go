package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errStore = errors.New("server selection error: context deadline exceeded")

func fail(context.Context) error    { return errStore }
func succeed(context.Context) error { return nil }

func newTestBreaker() (*circuitBreaker, *time.Time) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(&Config{FailureThreshold: 2, RecoveryTimeout: time.Minute, SuccessThreshold: 1}).(*circuitBreaker)
	cb.now = func() time.Time { return clock }
	return cb, &clock
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb, _ := newTestBreaker()
	ctx := context.Background()

	assert.ErrorIs(t, cb.Execute(ctx, fail), errStore)
	assert.Equal(t, Closed, cb.State())

	assert.ErrorIs(t, cb.Execute(ctx, fail), errStore)
	assert.Equal(t, Open, cb.State())

	called := false
	err := cb.Execute(ctx, func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_HalfOpenProbe(t *testing.T) {
	cb, clock := newTestBreaker()
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	_ = cb.Execute(ctx, fail)
	assert.Equal(t, Open, cb.State())

	*clock = clock.Add(2 * time.Minute)

	assert.NoError(t, cb.Execute(ctx, succeed))
	assert.Equal(t, Closed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb, clock := newTestBreaker()
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	_ = cb.Execute(ctx, fail)
	*clock = clock.Add(2 * time.Minute)

	assert.ErrorIs(t, cb.Execute(ctx, fail), errStore)
	assert.Equal(t, Open, cb.State())
}

func TestCircuitBreaker_IgnoresCallerCancellation(t *testing.T) {
	cb, _ := newTestBreaker()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = cb.Execute(ctx, func(context.Context) error { return context.Canceled })
	}

	assert.Equal(t, Closed, cb.State())
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb, _ := newTestBreaker()
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	_ = cb.Execute(ctx, fail)
	cb.Reset()

	assert.Equal(t, Closed, cb.State())
	assert.Equal(t, "closed", cb.State().String())
}

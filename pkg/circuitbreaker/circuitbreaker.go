package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// CircuitState is the current circuit breaker state.
type CircuitState int

const (
	// Closed allows requests to pass through
	Closed CircuitState = iota
	// Open blocks all requests
	Open
	// HalfOpen allows limited requests to test recovery
	HalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker guards calls to a backing store and opens after repeated failures.
type CircuitBreaker interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	State() CircuitState
	Reset()
}

type Config struct {
	FailureThreshold int           // consecutive failures before opening
	RecoveryTimeout  time.Duration // time spent open before probing
	SuccessThreshold int           // probe successes needed to close again
}

func DefaultConfig() *Config {
	return &Config{
		FailureThreshold: 5,
		RecoveryTimeout:  30 * time.Second,
		SuccessThreshold: 2,
	}
}

type circuitBreaker struct {
	config      *Config
	now         func() time.Time
	mu          sync.Mutex
	state       CircuitState
	failures    int
	successes   int
	nextAttempt time.Time
}

// NewCircuitBreaker returns a circuit breaker and applies defaults when config is nil.
func NewCircuitBreaker(config *Config) CircuitBreaker {
	if config == nil {
		config = DefaultConfig()
	}

	return &circuitBreaker{
		config: config,
		now:    time.Now,
		state:  Closed,
	}
}

func (cb *circuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if !cb.allow() {
		return ErrCircuitOpen
	}

	// fn runs without the lock held.
	err := fn(ctx)

	cb.mu.Lock()
	defer cb.mu.Unlock()

	// A caller giving up is not a signal about the store.
	if err != nil && !errors.Is(err, context.Canceled) {
		cb.recordFailure()
	} else if err == nil {
		cb.recordSuccess()
	}

	return err
}

func (cb *circuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == Open && cb.now().After(cb.nextAttempt) {
		cb.state = HalfOpen
		cb.successes = 0
	}

	return cb.state != Open
}

func (cb *circuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *circuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = Closed
	cb.failures = 0
	cb.successes = 0
}

func (cb *circuitBreaker) recordFailure() {
	cb.failures++

	switch cb.state {
	case Closed:
		if cb.failures >= cb.config.FailureThreshold {
			cb.trip()
		}
	case HalfOpen:
		cb.trip()
	}
}

func (cb *circuitBreaker) trip() {
	cb.state = Open
	cb.nextAttempt = cb.now().Add(cb.config.RecoveryTimeout)
}

func (cb *circuitBreaker) recordSuccess() {
	cb.failures = 0

	if cb.state == HalfOpen {
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			cb.state = Closed
			cb.successes = 0
		}
	}
}

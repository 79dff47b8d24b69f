package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreakerConfig is loaded from the PCS_CIRCUIT_* variables.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

// withDefaults fills every non-positive limit from DefaultCircuitBreakerConfig.
// Enabled is left as given.
func (c CircuitBreakerConfig) withDefaults() CircuitBreakerConfig {
	d := DefaultCircuitBreakerConfig()
	if c.FailureThreshold < 1 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = d.OpenTimeout
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = d.HalfOpenMaxReq
	}
	return c
}

type BreakerOption func(*CircuitBreaker)

// WithStateChange registers a callback fired on every transition. It runs
// with the breaker lock held and must not call back into the breaker.
func WithStateChange(fn func(from, to CircuitState)) BreakerOption {
	return func(b *CircuitBreaker) { b.onChange = fn }
}

func withClock(now func() time.Time) BreakerOption {
	return func(b *CircuitBreaker) { b.now = now }
}

// CircuitBreaker guards calls to the rider data provider. A disabled breaker
// lets every call through and never changes state.
type CircuitBreaker struct {
	mu  sync.Mutex
	cfg CircuitBreakerConfig

	state    CircuitState
	failures int
	openedAt time.Time
	probes   int
	passed   int

	onChange func(from, to CircuitState)
	now      func() time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig, opts ...BreakerOption) *CircuitBreaker {
	b := &CircuitBreaker{
		cfg:   cfg.withDefaults(),
		state: CircuitStateClosed,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Execute runs fn when the breaker admits it. Errors for which countsAsFailure
// returns true trip the breaker; any other outcome counts as healthy. A nil
// countsAsFailure treats every error as a failure.
func (b *CircuitBreaker) Execute(fn func() error, countsAsFailure func(error) bool) error {
	if !b.cfg.Enabled {
		return fn()
	}
	if err := b.admit(); err != nil {
		return err
	}

	err := fn()
	b.record(err != nil && (countsAsFailure == nil || countsAsFailure(err)))
	return err
}

// State reports the current state. An open breaker whose timeout elapsed
// reports half_open even before the next probe arrives.
func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.cooledDown() {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen {
		if !b.cooledDown() {
			return ErrCircuitOpen
		}
		b.moveTo(CircuitStateHalfOpen)
	}
	if b.state == CircuitStateHalfOpen {
		if b.probes >= b.cfg.HalfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.probes++
	}
	return nil
}

func (b *CircuitBreaker) record(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		if !failed {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.moveTo(CircuitStateOpen)
		}
	case CircuitStateHalfOpen:
		b.probes = max(b.probes-1, 0)
		if failed {
			b.moveTo(CircuitStateOpen)
			return
		}
		b.passed++
		if b.passed >= b.cfg.HalfOpenMaxReq && b.probes == 0 {
			b.moveTo(CircuitStateClosed)
		}
	case CircuitStateOpen:
		if failed {
			b.openedAt = b.now()
		}
	}
}

func (b *CircuitBreaker) cooledDown() bool {
	return b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout
}

func (b *CircuitBreaker) moveTo(next CircuitState) {
	prev := b.state
	b.state = next
	b.failures = 0
	b.probes = 0
	b.passed = 0
	if next == CircuitStateOpen {
		b.openedAt = b.now()
	}
	if b.onChange != nil && prev != next {
		b.onChange(prev, next)
	}
}

package resilience

import (
	"errors"
	"testing"
	"time"
)

var errTimeout = errors.New("procyclingstats timeout")

func fail() error { return errTimeout }
func pass() error { return nil }

func TestCircuitBreaker_OpensAndRecovers(t *testing.T) {
	now := time.Date(2025, 7, 26, 12, 0, 0, 0, time.UTC)
	var transitions []string
	b := NewCircuitBreaker(
		CircuitBreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: 5 * time.Second, HalfOpenMaxReq: 1},
		withClock(func() time.Time { return now }),
		WithStateChange(func(from, to CircuitState) { transitions = append(transitions, string(from)+">"+string(to)) }),
	)

	_ = b.Execute(fail, nil)
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}
	_ = b.Execute(fail, nil)
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}
	if err := b.Execute(pass, nil); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open breaker to reject, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half_open after timeout, got %s", state)
	}
	if err := b.Execute(pass, nil); err != nil {
		t.Fatalf("expected probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful probe, got %s", state)
	}

	want := []string{"closed>open", "open>half_open", "half_open>closed"}
	if len(transitions) != len(want) {
		t.Fatalf("expected transitions %v, got %v", want, transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("expected transitions %v, got %v", want, transitions)
		}
	}
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	now := time.Date(2025, 7, 26, 12, 0, 0, 0, time.UTC)
	b := NewCircuitBreaker(
		CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Second, HalfOpenMaxReq: 1},
		withClock(func() time.Time { return now }),
	)

	_ = b.Execute(fail, nil)
	now = now.Add(2 * time.Second)
	if err := b.Execute(fail, nil); !errors.Is(err, errTimeout) {
		t.Fatalf("expected probe error, got %v", err)
	}
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected reopened breaker, got %s", state)
	}
}

func TestCircuitBreaker_ExecuteIgnoresNonFailures(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute})
	notFound := errors.New("rider page not found")

	err := b.Execute(func() error { return notFound }, func(err error) bool { return !errors.Is(err, notFound) })
	if !errors.Is(err, notFound) {
		t.Fatalf("expected fn error to be returned, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed breaker, got %s", state)
	}

	_ = b.Execute(fail, nil)
	if err := b.Execute(pass, nil); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open breaker to reject, got %v", err)
	}
}

func TestCircuitBreaker_DisabledPassesThrough(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: false, FailureThreshold: 1})
	for range 3 {
		if err := b.Execute(fail, nil); !errors.Is(err, errTimeout) {
			t.Fatalf("expected fn error, got %v", err)
		}
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected disabled breaker to stay closed, got %s", state)
	}
}

func TestCircuitBreakerConfig_Defaults(t *testing.T) {
	got := CircuitBreakerConfig{Enabled: true, FailureThreshold: 0, OpenTimeout: -1}.withDefaults()
	want := DefaultCircuitBreakerConfig()
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

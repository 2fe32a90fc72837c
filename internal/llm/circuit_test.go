package llm

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3})

	for range 2 {
		cb.Failure()
	}
	if got := cb.State(); got != CircuitClosed {
		t.Fatalf("state after 2 failures = %v, want closed", got)
	}
	if err := cb.Allow(); err != nil {
		t.Fatalf("Allow() while closed = %v, want nil", err)
	}

	cb.Failure()
	if got := cb.State(); got != CircuitOpen {
		t.Fatalf("state after 3 failures = %v, want open", got)
	}
	if err := cb.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("Allow() while open = %v, want ErrCircuitOpen", err)
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		SuccessThreshold: 2,
		Timeout:          10 * time.Millisecond,
	})

	cb.Failure()
	if got := cb.State(); got != CircuitOpen {
		t.Fatalf("state = %v, want open", got)
	}

	time.Sleep(20 * time.Millisecond)

	if err := cb.Allow(); err != nil {
		t.Fatalf("Allow() after timeout = %v, want nil", err)
	}
	if got := cb.State(); got != CircuitHalfOpen {
		t.Fatalf("state = %v, want half-open", got)
	}

	cb.Success()
	if got := cb.State(); got != CircuitHalfOpen {
		t.Fatalf("state after 1 success = %v, want half-open", got)
	}
	cb.Success()
	if got := cb.State(); got != CircuitClosed {
		t.Fatalf("state after 2 successes = %v, want closed", got)
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		Timeout:          10 * time.Millisecond,
	})

	cb.Failure()
	time.Sleep(20 * time.Millisecond)
	if err := cb.Allow(); err != nil {
		t.Fatalf("Allow() = %v, want nil", err)
	}

	cb.Failure()
	if got := cb.State(); got != CircuitOpen {
		t.Fatalf("state after half-open failure = %v, want open", got)
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3})

	cb.Failure()
	cb.Failure()
	cb.Success()
	cb.Failure()
	cb.Failure()

	if got := cb.State(); got != CircuitClosed {
		t.Fatalf("state = %v, want closed (success should reset the count)", got)
	}
}

func TestCircuitState_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state CircuitState
		want  string
	}{
		{CircuitClosed, "closed"},
		{CircuitOpen, "open"},
		{CircuitHalfOpen, "half-open"},
		{CircuitState(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("CircuitState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

package policy

import (
	"testing"

	"blesync/internal/domain"
)

func TestDefaultBreakerPolicyFullCycle(t *testing.T) {
	p := NewDefaultBreakerPolicy(1, 500)
	state := domain.NewBreakerState()

	if !p.IsCallAllowed(0, state) {
		t.Fatalf("a fresh Closed breaker must allow calls")
	}

	err := domain.TransportError("gatt timeout", nil)
	state = p.OnFailure(1000, state, err)
	if state.Phase != domain.BreakerOpen {
		t.Fatalf("expected Open after one failure with failuresToOpen=1, got %v", state.Phase)
	}

	if p.IsCallAllowed(1200, state) {
		t.Fatalf("calls must be denied during cool-down")
	}

	if !p.IsCallAllowed(1500, state) {
		t.Fatalf("calls must be allowed once the cool-down has elapsed")
	}

	state = p.MoveToHalfOpenIfCooled(1500, state)
	if state.Phase != domain.BreakerHalfOpen {
		t.Fatalf("expected HalfOpen after cool-down, got %v", state.Phase)
	}

	state = p.OnFailure(1600, state, err)
	if state.Phase != domain.BreakerOpen {
		t.Fatalf("a half-open failure must reopen the breaker, got %v", state.Phase)
	}
}

func TestDefaultBreakerPolicyOnSuccessResets(t *testing.T) {
	p := NewDefaultBreakerPolicy(1, 500)
	state := domain.NewBreakerState()
	state = p.OnFailure(0, state, domain.TransportError("x", nil))
	state = p.MoveToHalfOpenIfCooled(500, state)
	state = p.OnSuccess(500, state)

	if state.Phase != domain.BreakerClosed || state.OpenedAt != nil || state.LastFailure != nil {
		t.Fatalf("expected a fully reset Closed state, got %+v", state)
	}
}

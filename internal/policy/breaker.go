package policy

import "blesync/internal/domain"

// BreakerPolicy implements the three-phase circuit breaker gate (§4.3). All
// methods are pure: they take a BreakerState and return the next one.
type BreakerPolicy interface {
	IsCallAllowed(now domain.TimestampMs, state domain.BreakerState) bool
	OnSuccess(now domain.TimestampMs, state domain.BreakerState) domain.BreakerState
	OnFailure(now domain.TimestampMs, state domain.BreakerState, err domain.DomainError) domain.BreakerState
}

// DefaultBreakerPolicy is the reference implementation (§4.3).
type DefaultBreakerPolicy struct {
	FailuresToOpen int
	CoolDownMs     int64
}

func NewDefaultBreakerPolicy(failuresToOpen int, coolDownMs int64) DefaultBreakerPolicy {
	if failuresToOpen < 1 {
		failuresToOpen = 1
	}
	return DefaultBreakerPolicy{FailuresToOpen: failuresToOpen, CoolDownMs: coolDownMs}
}

// MoveToHalfOpenIfCooled transitions Open -> HalfOpen once the cool-down has
// elapsed; all other phases pass through unchanged.
func (p DefaultBreakerPolicy) MoveToHalfOpenIfCooled(now domain.TimestampMs, state domain.BreakerState) domain.BreakerState {
	if state.Phase != domain.BreakerOpen {
		return state
	}
	if state.OpenedAt == nil {
		return state
	}
	if now-*state.OpenedAt >= domain.TimestampMs(p.CoolDownMs) {
		state.Phase = domain.BreakerHalfOpen
	}
	return state
}

func (p DefaultBreakerPolicy) IsCallAllowed(now domain.TimestampMs, state domain.BreakerState) bool {
	state = p.MoveToHalfOpenIfCooled(now, state)
	switch state.Phase {
	case domain.BreakerClosed, domain.BreakerHalfOpen:
		return true
	default:
		return false
	}
}

func (p DefaultBreakerPolicy) OnSuccess(_ domain.TimestampMs, state domain.BreakerState) domain.BreakerState {
	state.Phase = domain.BreakerClosed
	state.OpenedAt = nil
	state.LastFailure = nil
	return state
}

func (p DefaultBreakerPolicy) OnFailure(now domain.TimestampMs, state domain.BreakerState, err domain.DomainError) domain.BreakerState {
	state = p.MoveToHalfOpenIfCooled(now, state)
	failure := err
	switch state.Phase {
	case domain.BreakerClosed:
		if p.FailuresToOpen <= 1 {
			at := now
			state.Phase = domain.BreakerOpen
			state.OpenedAt = &at
			state.LastFailure = &failure
		} else {
			state.LastFailure = &failure
		}
	case domain.BreakerOpen:
		at := now
		state.OpenedAt = &at
		state.LastFailure = &failure
	case domain.BreakerHalfOpen:
		at := now
		state.Phase = domain.BreakerOpen
		state.OpenedAt = &at
		state.LastFailure = &failure
	}
	return state
}

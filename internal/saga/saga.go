// Package saga implements the pure decision function that maps an
// aggregate, the last applied event, and the current time to the ordered
// list of commands the actor runtime should execute next (§4.5). The saga
// never performs I/O; it only consults the injected policies.
package saga

import (
	"blesync/internal/domain"
	"blesync/internal/policy"
)

// Policies bundles the three pluggable policies the saga consults.
type Policies struct {
	Retry     policy.RetryPolicy
	Breaker   policy.BreakerPolicy
	PageSizing policy.PageSizingPolicy
}

// Decide is the saga's single entry point (§4.5). lastEvent is nil at
// bootstrap (Start, before any event has been processed).
func Decide(a domain.SyncAggregate, lastEvent *domain.Event, now domain.TimestampMs, pol Policies) []domain.Command {
	dev := a.DeviceId

	// 1. Bonding takes precedence over everything else.
	if a.BondStatus != domain.BondBonded {
		return []domain.Command{domain.BondDevice(dev)}
	}

	// 2. Connection takes precedence over paging. A Disconnected last event
	// retries with TemporaryGattError (the step-4 Disconnected clause);
	// every other path retries with BackoffAfterFailure.
	if a.ConnectionStatus != domain.ConnectionConnected {
		reason := domain.RetryReason{Kind: domain.RetryBackoffAfterFailure}
		if lastEvent != nil && lastEvent.Kind == domain.EventDisconnected {
			reason = domain.RetryReason{Kind: domain.RetryTemporaryGattError}
		}
		return connectOrRetry(a, now, pol, reason)
	}

	// 3. Initial bootstrap: nothing observed yet.
	if a.TotalOnDevice == 0 && a.LastAckedExclusive == 0 {
		return []domain.Command{domain.ReadEventCount(dev)}
	}

	// 4. Dispatch on the last event.
	if lastEvent == nil {
		return []domain.Command{domain.ReadEventCount(dev)}
	}

	switch lastEvent.Kind {
	case domain.EventDeviceBonded:
		return []domain.Command{domain.ConnectGatt(dev)}

	case domain.EventDeviceConnected:
		return []domain.Command{domain.ReadEventCount(dev)}

	case domain.EventCountLoaded:
		if a.IsFullyAcked() {
			return []domain.Command{domain.ReadEventCount(dev)}
		}
		return []domain.Command{domain.ReadEvents(dev, a.LastAckedExclusive, a.PageSize)}

	case domain.EventsReadKind:
		return []domain.Command{domain.DeliverToApp(dev, lastEvent.Range)}

	case domain.EventsDeliveredKind:
		return []domain.Command{domain.Acknowledge(dev, lastEvent.Range.End)}

	case domain.EventsAckedKind:
		if a.LastAckedExclusive < domain.EventOffset(a.TotalOnDevice) {
			outcome := policy.OutcomeStable
			if a.LastError != nil {
				outcome = policy.OutcomeMostlyStable
			}
			nextPage := tunePageSize(a, pol, outcome)
			return []domain.Command{domain.ReadEvents(dev, a.LastAckedExclusive, nextPage)}
		}
		return []domain.Command{domain.ReadEventCount(dev)}

	case domain.EventDisconnected:
		return connectOrRetry(a, now, pol, domain.RetryReason{Kind: domain.RetryTemporaryGattError})

	default:
		return nil
	}
}

// connectOrRetry implements the shared step-2-style decision: attempt a
// connect if the breaker allows it, otherwise retry-or-give-up.
func connectOrRetry(a domain.SyncAggregate, now domain.TimestampMs, pol Policies, reason domain.RetryReason) []domain.Command {
	if pol.Breaker.IsCallAllowed(now, a.ConnectBreaker) {
		return []domain.Command{domain.ConnectGatt(a.DeviceId)}
	}
	return retryOrGiveUp(a, now, pol, domain.AttemptConnectGatt, reason)
}

// retryOrGiveUp is the shared helper named in §4.5: it asks the retry
// policy whether to schedule a retry or give up.
func retryOrGiveUp(a domain.SyncAggregate, now domain.TimestampMs, pol Policies, key domain.AttemptKey, reason domain.RetryReason) []domain.Command {
	decision := pol.Retry.Decide(now, a.AttemptsFor(key), reason)
	if !decision.ShouldSchedule {
		return nil
	}
	return []domain.Command{domain.ScheduleRetry(a.DeviceId, decision.At, reason)}
}

// tunePageSize consults the PageSizingPolicy with the outcome classification
// described in §4.5's EventsAcked clause.
func tunePageSize(a domain.SyncAggregate, pol Policies, outcome policy.Outcome) domain.PageSize {
	return pol.PageSizing.Next(a.PageSize, outcome)
}

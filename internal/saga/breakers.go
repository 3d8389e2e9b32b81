package saga

import "blesync/internal/domain"

// UpdateBreakers folds the outcome of the most recently applied event into
// the five per-stage circuit breakers. It runs after domain.Apply and
// before the next Decide call, since breaker transitions are pure but
// policy-dependent and the domain package must stay policy-agnostic.
func UpdateBreakers(a domain.SyncAggregate, e domain.Event, now domain.TimestampMs, pol Policies) domain.SyncAggregate {
	switch e.Kind {
	case domain.EventDeviceBonded:
		a.BondBreaker = pol.Breaker.OnSuccess(now, a.BondBreaker)
	case domain.EventDeviceConnected:
		a.ConnectBreaker = pol.Breaker.OnSuccess(now, a.ConnectBreaker)
	case domain.EventsReadKind:
		a.ReadBreaker = pol.Breaker.OnSuccess(now, a.ReadBreaker)
	case domain.EventsDeliveredKind:
		a.DeliverBreaker = pol.Breaker.OnSuccess(now, a.DeliverBreaker)
	case domain.EventsAckedKind:
		a.AckBreaker = pol.Breaker.OnSuccess(now, a.AckBreaker)
	case domain.EventDisconnected:
		err := domain.TransportError(e.DisconnectReason.String(), e.GattCode)
		a.ConnectBreaker = pol.Breaker.OnFailure(now, a.ConnectBreaker, err)
	}
	return a
}

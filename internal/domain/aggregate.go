package domain

// SyncAggregate is the authoritative, immutable per-device state value.
// Reducers never mutate an existing aggregate; they build and return a new
// one (§3). The zero value is not meaningful; use NewAggregate.
type SyncAggregate struct {
	DeviceId DeviceId

	BondStatus       BondStatus
	ConnectionStatus ConnectionStatus

	// LastAckedExclusive is the exactly-once high-water mark: all offsets
	// below it are durably delivered. Monotonic non-decreasing.
	LastAckedExclusive EventOffset

	// InFlightOffset is the start of the currently-read page, or nil when
	// there is no page outstanding.
	InFlightOffset *EventOffset

	// InFlightCount is the page size of the currently-read page, needed to
	// know when an ack has caught up with it (§9 Open Question (a)).
	InFlightCount EventCount

	TotalOnDevice EventCount
	PageSize      PageSize

	Attempts map[AttemptKey]int

	BondBreaker    BreakerState
	ConnectBreaker BreakerState
	ReadBreaker    BreakerState
	DeliverBreaker BreakerState
	AckBreaker     BreakerState

	LastError *DomainError

	SagaCursor string
}

// NewAggregate constructs the initial state for a device that has never
// synced: unbonded, disconnected, nothing acked, default page size.
func NewAggregate(dev DeviceId, defaultPageSize PageSize) SyncAggregate {
	return SyncAggregate{
		DeviceId:         dev,
		BondStatus:       BondUnknown,
		ConnectionStatus: ConnectionDisconnected,
		PageSize:         defaultPageSize,
		Attempts:         map[AttemptKey]int{},
		BondBreaker:      NewBreakerState(),
		ConnectBreaker:   NewBreakerState(),
		ReadBreaker:      NewBreakerState(),
		DeliverBreaker:   NewBreakerState(),
		AckBreaker:       NewBreakerState(),
		SagaCursor:       "Init",
	}
}

// RestoreFromSnapshot overlays the three persisted fields onto a fresh
// aggregate, exactly as §4.6.1 specifies: LastAckedExclusive, PageSize, and
// SagaCursor, and nothing else.
func (a SyncAggregate) RestoreFromSnapshot(s SyncSnapshot) SyncAggregate {
	a.LastAckedExclusive = s.LastAckedExclusive
	a.PageSize = s.PageSize
	a.SagaCursor = s.SagaCursor
	return a
}

// Snapshot extracts the minimal durable record for this aggregate.
func (a SyncAggregate) Snapshot() SyncSnapshot {
	return SyncSnapshot{
		DeviceId:           a.DeviceId,
		LastAckedExclusive: a.LastAckedExclusive,
		PageSize:           a.PageSize,
		SagaCursor:         a.SagaCursor,
	}
}

// IsFullyAcked reports whether every offset observed on the device has been
// durably delivered.
func (a SyncAggregate) IsFullyAcked() bool {
	return a.LastAckedExclusive >= EventOffset(a.TotalOnDevice)
}

// HasInFlight reports whether a page read is outstanding.
func (a SyncAggregate) HasInFlight() bool {
	return a.InFlightOffset != nil
}

// AttemptsFor returns the recorded attempt count for an operation family,
// defaulting to zero when the key has never been touched.
func (a SyncAggregate) AttemptsFor(key AttemptKey) int {
	return a.Attempts[key]
}

// withAttemptIncremented returns a copy of the aggregate with attempts[key]
// incremented by one. The map is copied defensively since the aggregate is
// otherwise treated as immutable.
func (a SyncAggregate) withAttemptIncremented(key AttemptKey) SyncAggregate {
	next := make(map[AttemptKey]int, len(a.Attempts)+1)
	for k, v := range a.Attempts {
		next[k] = v
	}
	next[key] = next[key] + 1
	a.Attempts = next
	return a
}

// withAttemptReset returns a copy of the aggregate with attempts[key]
// cleared, used after a successful call breaks a failure streak.
func (a SyncAggregate) withAttemptReset(key AttemptKey) SyncAggregate {
	if _, ok := a.Attempts[key]; !ok {
		return a
	}
	next := make(map[AttemptKey]int, len(a.Attempts))
	for k, v := range a.Attempts {
		if k == key {
			continue
		}
		next[k] = v
	}
	a.Attempts = next
	return a
}

// Package domain holds the pure, I/O-free data model of the sync engine:
// identifiers, the per-device aggregate, events, commands, and the reducer
// that applies events to the aggregate. Nothing in this package blocks,
// allocates goroutines, or touches the clock.
package domain

import "fmt"

// DeviceId identifies a peripheral. It is opaque to the engine and used as
// the storage key for snapshots.
type DeviceId string

// EventOffset is a position in a device's append-only event log.
type EventOffset uint64

// EventCount is a non-negative count of events.
type EventCount uint64

// PageSize is a strictly positive page size used for paged reads.
type PageSize uint32

// TimestampMs is milliseconds since the Unix epoch, as produced by a
// ClockPort. The domain layer never reads the wall clock itself.
type TimestampMs int64

// AttemptKey buckets retry attempt counters by operation family, e.g.
// "ConnectGatt" or "ReadEvents".
type AttemptKey string

const (
	AttemptConnectGatt  AttemptKey = "ConnectGatt"
	AttemptBondDevice   AttemptKey = "BondDevice"
	AttemptReadEvents   AttemptKey = "ReadEvents"
	AttemptReadCount    AttemptKey = "ReadEventCount"
	AttemptDeliverToApp AttemptKey = "DeliverToApp"
	AttemptAcknowledge  AttemptKey = "Acknowledge"
)

// EventRange is the half-open interval [Start, End).
type EventRange struct {
	Start EventOffset
	End   EventOffset
}

// NewEventRange builds a range and panics if End < Start, since a backwards
// range can never arise from a well-formed page read and signals a bug at
// the call site rather than a recoverable condition.
func NewEventRange(start, end EventOffset) EventRange {
	if end < start {
		panic(fmt.Sprintf("domain: invalid range [%d, %d)", start, end))
	}
	return EventRange{Start: start, End: end}
}

// Count returns End - Start.
func (r EventRange) Count() EventCount {
	return EventCount(r.End - r.Start)
}

func (r EventRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Add returns the offset advanced by count.
func (o EventOffset) Add(count EventCount) EventOffset {
	return o + EventOffset(count)
}

package domain

import "fmt"

// Apply is the reducer (§4.1): a total, deterministic, I/O-free function
// from (aggregate, event) to the next aggregate. One clause per event kind;
// unrecognized kinds are a no-op.
func Apply(a SyncAggregate, e Event) SyncAggregate {
	switch e.Kind {
	case EventDeviceBonded:
		a.BondStatus = BondBonded
		a.SagaCursor = "Bonded"

	case EventDeviceConnected:
		a.ConnectionStatus = ConnectionConnected
		a = a.withAttemptReset(AttemptConnectGatt)
		a.SagaCursor = "Connected"

	case EventCountLoaded:
		// Open Question (b): totals are treated as monotonic non-decreasing.
		// A shrinking total is rejected rather than silently applied.
		if e.Total < a.TotalOnDevice {
			shrink := ProtocolError(fmt.Sprintf("device total shrank from %d to %d", a.TotalOnDevice, e.Total))
			a.LastError = &shrink
			a.SagaCursor = "Failed"
			break
		}
		a.TotalOnDevice = e.Total
		a.SagaCursor = "CountLoaded"

	case EventsReadKind:
		start := e.Range.Start
		a.InFlightOffset = &start
		a.InFlightCount = e.Range.Count()
		// The page actually read becomes the current adaptive page size; the
		// saga tunes the *next* request's count from this value (§4.4, §4.5).
		if e.Range.Count() > 0 {
			a.PageSize = PageSize(e.Range.Count())
		}
		a.SagaCursor = fmt.Sprintf("Read:%d-%d", e.Range.Start, e.Range.End)

	case EventsDeliveredKind:
		// Cursor only; does not advance the high-water mark.
		a.SagaCursor = fmt.Sprintf("Delivered:%d-%d", e.Range.Start, e.Range.End)

	case EventsAckedKind:
		newAck := a.LastAckedExclusive
		if e.UpTo > newAck {
			newAck = e.UpTo
		}
		a.LastAckedExclusive = newAck
		// Open Question (a): clear whenever the ack has reached the end of
		// the in-flight page (offset + count), not via a redundant
		// self-comparison.
		if a.InFlightOffset != nil && a.LastAckedExclusive >= *a.InFlightOffset+EventOffset(a.InFlightCount) {
			a.InFlightOffset = nil
			a.InFlightCount = 0
		}
		a.SagaCursor = fmt.Sprintf("Acked:%d", newAck)

	case EventDisconnected:
		a.ConnectionStatus = ConnectionDisconnected
		code := -1
		if e.GattCode != nil {
			code = *e.GattCode
		}
		var err DomainError
		if e.GattCode != nil {
			err = TransportError(e.DisconnectReason.String(), &code)
		} else {
			err = TransportError(e.DisconnectReason.String(), nil)
		}
		a.LastError = &err
		a = a.withAttemptIncremented(AttemptConnectGatt)
		a.SagaCursor = "Disconnected"

	case EventRetryScheduled:
		a.SagaCursor = fmt.Sprintf("RetryScheduled@%d", e.RetryAfter)

	case EventSyncCompleted:
		a.SagaCursor = "Completed"

	case EventSyncFailed:
		err := e.Err
		a.LastError = &err
		a.SagaCursor = "Failed"

	default:
		// Unknown or absent events are no-ops, not faults (§7).
	}

	return a
}

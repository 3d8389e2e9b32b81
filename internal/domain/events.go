package domain

// EventKind is the closed sum of facts the reducer can apply (§3).
type EventKind int

const (
	EventUnknown EventKind = iota
	EventDeviceBonded
	EventDeviceConnected
	EventCountLoaded
	EventsReadKind
	EventsDeliveredKind
	EventsAckedKind
	EventDisconnected
	EventRetryScheduled
	EventSyncCompleted
	EventSyncFailed
)

func (k EventKind) String() string {
	switch k {
	case EventDeviceBonded:
		return "DeviceBonded"
	case EventDeviceConnected:
		return "DeviceConnected"
	case EventCountLoaded:
		return "EventCountLoaded"
	case EventsReadKind:
		return "EventsRead"
	case EventsDeliveredKind:
		return "EventsDelivered"
	case EventsAckedKind:
		return "EventsAcked"
	case EventDisconnected:
		return "Disconnected"
	case EventRetryScheduled:
		return "RetryScheduled"
	case EventSyncCompleted:
		return "SyncCompleted"
	case EventSyncFailed:
		return "SyncFailed"
	default:
		return "Unknown"
	}
}

// Event is a tagged union over the ten event variants in §3. Every event
// carries DeviceId and At; the remaining fields are populated only for the
// variant named by Kind.
type Event struct {
	Kind     EventKind
	DeviceId DeviceId
	At       TimestampMs

	// EventCountLoaded
	Total EventCount

	// EventsRead / EventsDelivered
	Range EventRange

	// EventsAcked
	UpTo EventOffset

	// Disconnected
	DisconnectReason DisconnectReason
	GattCode         *int

	// RetryScheduled
	RetryAfter TimestampMs

	// SyncFailed
	Err DomainError
}

func DeviceBonded(dev DeviceId, at TimestampMs) Event {
	return Event{Kind: EventDeviceBonded, DeviceId: dev, At: at}
}

func DeviceConnected(dev DeviceId, at TimestampMs) Event {
	return Event{Kind: EventDeviceConnected, DeviceId: dev, At: at}
}

func EventCountLoadedEvent(dev DeviceId, at TimestampMs, total EventCount) Event {
	return Event{Kind: EventCountLoaded, DeviceId: dev, At: at, Total: total}
}

func EventsRead(dev DeviceId, at TimestampMs, r EventRange) Event {
	return Event{Kind: EventsReadKind, DeviceId: dev, At: at, Range: r}
}

func EventsDelivered(dev DeviceId, at TimestampMs, r EventRange) Event {
	return Event{Kind: EventsDeliveredKind, DeviceId: dev, At: at, Range: r}
}

func EventsAcked(dev DeviceId, at TimestampMs, upTo EventOffset) Event {
	return Event{Kind: EventsAckedKind, DeviceId: dev, At: at, UpTo: upTo}
}

func Disconnected(dev DeviceId, at TimestampMs, reason DisconnectReason, gattCode *int) Event {
	return Event{Kind: EventDisconnected, DeviceId: dev, At: at, DisconnectReason: reason, GattCode: gattCode}
}

func RetryScheduled(dev DeviceId, at TimestampMs, after TimestampMs) Event {
	return Event{Kind: EventRetryScheduled, DeviceId: dev, At: at, RetryAfter: after}
}

func SyncCompleted(dev DeviceId, at TimestampMs) Event {
	return Event{Kind: EventSyncCompleted, DeviceId: dev, At: at}
}

func SyncFailed(dev DeviceId, at TimestampMs, err DomainError) Event {
	return Event{Kind: EventSyncFailed, DeviceId: dev, At: at, Err: err}
}

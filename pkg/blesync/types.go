package blesync

import (
	"blesync/internal/domain"
	"blesync/internal/ports"
)

// DeviceId identifies a peripheral across every port and the snapshot store.
type DeviceId = domain.DeviceId

// EventOffset is a position in a device's append-only event log.
type EventOffset = domain.EventOffset

// EventRange is the half-open interval [Start, End) handed to a DeliveryPort.
type EventRange = domain.EventRange

// SyncAggregate is the per-device state snapshot exposed for introspection.
type SyncAggregate = domain.SyncAggregate

// SyncSnapshot is the minimal crash-safe persistence record (§6.1 of the
// engine's design: deviceId, lastAckedExclusive, pageSize, sagaCursor).
type SyncSnapshot = domain.SyncSnapshot

// BlePort is the transport collaborator: bonding, connecting, and the three
// characteristic operations a real or simulated GATT stack must provide.
type BlePort = ports.BlePort

// DeliveryPort hands a freshly-read page to the host application.
type DeliveryPort = ports.DeliveryPort

// StateStorePort persists and restores the per-device snapshot.
type StateStorePort = ports.StateStorePort

// TelemetryPort receives fire-and-forget observability events.
type TelemetryPort = ports.TelemetryPort

// TelemetryEvent is the wire-agnostic telemetry record observability
// backends receive.
type TelemetryEvent = ports.TelemetryEvent

// ClockPort abstracts wall-clock reads and timer scheduling.
type ClockPort = ports.ClockPort

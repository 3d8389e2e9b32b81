package runtime

import (
	"blesync/internal/domain"
	"blesync/internal/ports"
	"blesync/internal/saga"
)

// DeviceActor is the single-threaded mailbox consumer for one device
// (§4.6). Exactly one goroutine must call Start; any goroutine, including a
// ClockPort timer callback, may call Post.
type DeviceActor struct {
	deviceId domain.DeviceId
	ports    Ports
	policies saga.Policies

	mailbox *Mailbox

	aggregate   domain.SyncAggregate
	retryToken  ports.TimerToken
	readInFlight bool

	stopped chan struct{}
}

// NewDeviceActor constructs an actor for dev with the given ports and
// policies. defaultPageSize seeds the aggregate before any snapshot
// restore happens.
func NewDeviceActor(dev domain.DeviceId, p Ports, pol saga.Policies, defaultPageSize domain.PageSize) *DeviceActor {
	p.validate()
	return &DeviceActor{
		deviceId: dev,
		ports:    p,
		policies: pol,
		mailbox:  NewMailbox(),
		aggregate: domain.NewAggregate(dev, defaultPageSize),
		stopped:  make(chan struct{}),
	}
}

// Mailbox exposes the actor's mailbox so external event sources (the real
// BLE adapter's notification callback, tests) can post events.
func (a *DeviceActor) Mailbox() *Mailbox { return a.mailbox }

// Aggregate returns a copy of the current aggregate. Safe to call only
// from the consumer goroutine, or after Stop has returned, since the
// aggregate is otherwise owned exclusively by the mailbox loop.
func (a *DeviceActor) Aggregate() domain.SyncAggregate { return a.aggregate }

// Start performs the bootstrap sequence (§4.6.1) and then runs the mailbox
// loop until Stop is posted. It blocks; callers that want a background
// actor should invoke Start in its own goroutine.
func (a *DeviceActor) Start() {
	defer close(a.stopped)

	if snap, ok, err := a.ports.Store.Read(a.deviceId); err == nil && ok {
		a.aggregate = a.aggregate.RestoreFromSnapshot(snap)
		a.emitTelemetry(ports.TelemetrySnapshotRestored, map[string]string{
			"lastAckedExclusive": formatOffset(snap.LastAckedExclusive),
			"pageSize":           formatPageSize(snap.PageSize),
			"cursor":             snap.SagaCursor,
		})
	}

	a.decideAndExecute(nil)
	a.loop()
}

// Stop posts a Stop message and blocks until the mailbox loop has exited.
func (a *DeviceActor) Stop() {
	a.mailbox.Post(StopMessage())
	<-a.stopped
}

func (a *DeviceActor) loop() {
	for {
		msg, ok := a.mailbox.Next()
		if !ok {
			return
		}
		switch msg.Kind {
		case MsgDomainEvent:
			a.handleEvent(msg.Event)
		case MsgTimerFired:
			a.handleTimerFired()
		case MsgStop:
			a.cancelPendingRetry()
			return
		}
	}
}

func (a *DeviceActor) handleEvent(e domain.Event) {
	a.aggregate = domain.Apply(a.aggregate, e)
	now := a.ports.Clock.Now()
	a.aggregate = saga.UpdateBreakers(a.aggregate, e, now, a.policies)

	switch e.Kind {
	case domain.EventsReadKind:
		a.readInFlight = true
	case domain.EventsAckedKind:
		if !a.aggregate.HasInFlight() {
			a.readInFlight = false
		}
		a.snapshot("acked")
	case domain.EventDisconnected:
		a.snapshot("disconnected")
	}

	a.decideAndExecute(&e)
}

func (a *DeviceActor) handleTimerFired() {
	a.retryToken = nil
	now := a.ports.Clock.Now()
	synthetic := domain.RetryScheduled(a.deviceId, now, now)
	a.aggregate = domain.Apply(a.aggregate, synthetic)
	a.decideAndExecute(&synthetic)
}

func (a *DeviceActor) cancelPendingRetry() {
	if a.retryToken != nil {
		a.ports.Clock.Cancel(a.retryToken)
		a.retryToken = nil
	}
}

func (a *DeviceActor) decideAndExecute(lastEvent *domain.Event) {
	now := a.ports.Clock.Now()
	cmds := saga.Decide(a.aggregate, lastEvent, now, a.policies)
	for _, cmd := range cmds {
		a.execute(cmd)
	}
}

// execute runs one command in-line on the consumer goroutine, preserving
// strict serialization (§4.6.3). Every port result is posted back to the
// mailbox as a DomainEvent — never applied directly.
func (a *DeviceActor) execute(cmd domain.Command) {
	switch cmd.Kind {
	case domain.CommandBondDevice:
		a.postEvent(a.ports.Ble.Bond(a.deviceId))

	case domain.CommandConnectGatt:
		a.postEvent(a.ports.Ble.Connect(a.deviceId))

	case domain.CommandReadEventCount:
		a.postEvent(a.ports.Ble.ReadCount(a.deviceId))

	case domain.CommandReadEvents:
		if a.readInFlight {
			a.emitTelemetry(ports.TelemetryReadSkippedBackpressure, map[string]string{
				"offset": formatOffset(cmd.Offset),
				"count":  formatPageSize(cmd.Count),
			})
			return
		}
		a.readInFlight = true
		a.postEvent(a.ports.Ble.ReadPage(a.deviceId, cmd.Offset, cmd.Count))

	case domain.CommandDeliverToApp:
		a.postEvent(a.ports.Delivery.Deliver(a.deviceId, cmd.Range))

	case domain.CommandAcknowledge:
		a.postEvent(a.ports.Ble.Ack(a.deviceId, cmd.UpTo))

	case domain.CommandScheduleRetry:
		a.cancelPendingRetry()
		a.retryToken = a.ports.Clock.Schedule(cmd.After, func() {
			a.mailbox.Post(TimerFiredMessage())
		})
		a.emitTelemetry(ports.TelemetryRetryScheduled, map[string]string{
			"after":  formatTimestamp(cmd.After),
			"reason": cmd.Reason.String(),
		})

	case domain.CommandStop:
		a.mailbox.Post(StopMessage())

	default:
		a.emitTelemetry(ports.TelemetryUnknownCommandIgnored, map[string]string{
			"kind": cmd.Kind.String(),
		})
	}
}

func (a *DeviceActor) postEvent(e domain.Event) {
	a.mailbox.Post(DomainEventMessage(e))
}

func (a *DeviceActor) snapshot(reason string) {
	snap := a.aggregate.Snapshot()
	_ = a.ports.Store.Write(snap)
	a.emitTelemetry(ports.TelemetrySnapshotSaved, map[string]string{
		"reason":             reason,
		"lastAckedExclusive": formatOffset(snap.LastAckedExclusive),
		"pageSize":           formatPageSize(snap.PageSize),
		"cursor":             snap.SagaCursor,
	})
}

func (a *DeviceActor) emitTelemetry(name string, data map[string]string) {
	a.ports.Telemetry.Emit(ports.TelemetryEvent{
		Name:     name,
		At:       a.ports.Clock.Now(),
		DeviceId: a.deviceId,
		Data:     data,
	})
}

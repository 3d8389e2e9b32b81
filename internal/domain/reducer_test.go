package domain

import "testing"

func TestApplyMonotonicAck(t *testing.T) {
	a := NewAggregate("dev-1", 50)

	a = Apply(a, EventsAcked("dev-1", 0, 50))
	if a.LastAckedExclusive != 50 {
		t.Fatalf("expected 50, got %d", a.LastAckedExclusive)
	}

	a = Apply(a, EventsAcked("dev-1", 0, 40))
	if a.LastAckedExclusive != 50 {
		t.Fatalf("ack below high-water should be a no-op, got %d", a.LastAckedExclusive)
	}

	a = Apply(a, EventsAcked("dev-1", 0, 50))
	if a.LastAckedExclusive != 50 {
		t.Fatalf("repeat ack at high-water should be a no-op, got %d", a.LastAckedExclusive)
	}

	a = Apply(a, EventsAcked("dev-1", 0, 80))
	if a.LastAckedExclusive != 80 {
		t.Fatalf("expected 80, got %d", a.LastAckedExclusive)
	}
}

func TestApplyInFlightClearsAtHighWater(t *testing.T) {
	a := NewAggregate("dev-1", 50)
	a = Apply(a, EventsRead("dev-1", 0, NewEventRange(0, 50)))
	if !a.HasInFlight() {
		t.Fatalf("expected an in-flight page after EventsRead")
	}

	a = Apply(a, EventsAcked("dev-1", 0, 50))
	if a.HasInFlight() {
		t.Fatalf("expected in-flight to clear once ack reaches the page end")
	}
}

func TestApplyInFlightStaysUntilPageEnd(t *testing.T) {
	a := NewAggregate("dev-1", 50)
	a = Apply(a, EventsRead("dev-1", 0, NewEventRange(50, 100)))
	if !a.HasInFlight() {
		t.Fatalf("expected an in-flight page after EventsRead")
	}

	a = Apply(a, EventsAcked("dev-1", 0, 50))
	if !a.HasInFlight() {
		t.Fatalf("ack reaching only the page start must not clear in-flight, offset+count is 100")
	}

	a = Apply(a, EventsAcked("dev-1", 0, 100))
	if a.HasInFlight() {
		t.Fatalf("expected in-flight to clear once ack reaches the page end")
	}
}

func TestApplyRejectsShrinkingTotal(t *testing.T) {
	a := NewAggregate("dev-1", 50)
	a = Apply(a, EventCountLoadedEvent("dev-1", 0, 120))
	if a.TotalOnDevice != 120 {
		t.Fatalf("expected total 120, got %d", a.TotalOnDevice)
	}

	a = Apply(a, EventCountLoadedEvent("dev-1", 0, 80))
	if a.TotalOnDevice != 120 {
		t.Fatalf("shrinking total must be rejected, still expected 120, got %d", a.TotalOnDevice)
	}
	if a.LastError == nil || a.LastError.Kind != ErrorKindProtocol {
		t.Fatalf("expected a retained Protocol error, got %v", a.LastError)
	}
}

func TestApplyDisconnectedThenConnectedResetsAttempts(t *testing.T) {
	a := NewAggregate("dev-1", 50)
	a = Apply(a, Disconnected("dev-1", 0, DisconnectReason{Kind: DisconnectGattError}, nil))
	if a.AttemptsFor(AttemptConnectGatt) != 1 {
		t.Fatalf("expected one connect attempt recorded, got %d", a.AttemptsFor(AttemptConnectGatt))
	}

	a = Apply(a, DeviceConnected("dev-1", 0))
	if a.AttemptsFor(AttemptConnectGatt) != 0 {
		t.Fatalf("expected connect attempts reset after a successful connect, got %d", a.AttemptsFor(AttemptConnectGatt))
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	a := NewAggregate("dev-1", 50)
	a = Apply(a, EventsAcked("dev-1", 0, 50))
	a = Apply(a, EventCountLoadedEvent("dev-1", 0, 120))

	snap := a.Snapshot()
	restored := NewAggregate("dev-1", 10).RestoreFromSnapshot(snap)

	if restored.LastAckedExclusive != a.LastAckedExclusive {
		t.Fatalf("expected lastAckedExclusive %d, got %d", a.LastAckedExclusive, restored.LastAckedExclusive)
	}
	if restored.PageSize != a.PageSize {
		t.Fatalf("expected pageSize %d, got %d", a.PageSize, restored.PageSize)
	}
	if restored.SagaCursor != a.SagaCursor {
		t.Fatalf("expected cursor %q, got %q", a.SagaCursor, restored.SagaCursor)
	}
}

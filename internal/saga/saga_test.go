package saga

import (
	"testing"

	"blesync/internal/domain"
	"blesync/internal/policy"
)

func defaultPolicies() Policies {
	return Policies{
		Retry:      policy.NewExponentialRetryPolicy(1, 500, 10_000, 0, policy.FixedSampler{Value: 1}),
		Breaker:    policy.NewDefaultBreakerPolicy(1, 500),
		PageSizing: policy.NewDefaultPageSizingPolicy(20, 200, 20, 10),
	}
}

func requireSingleCommand(t *testing.T, cmds []domain.Command, kind domain.CommandKind) domain.Command {
	t.Helper()
	if len(cmds) != 1 {
		t.Fatalf("expected exactly one command, got %d: %+v", len(cmds), cmds)
	}
	if cmds[0].Kind != kind {
		t.Fatalf("expected %v, got %v", kind, cmds[0].Kind)
	}
	return cmds[0]
}

func TestSagaHappyPath(t *testing.T) {
	pol := defaultPolicies()
	a := domain.NewAggregate("dev-1", 50)

	requireSingleCommand(t, Decide(a, nil, 0, pol), domain.CommandBondDevice)

	bonded := domain.DeviceBonded("dev-1", 0)
	a = domain.Apply(a, bonded)
	requireSingleCommand(t, Decide(a, &bonded, 0, pol), domain.CommandConnectGatt)

	connected := domain.DeviceConnected("dev-1", 0)
	a = domain.Apply(a, connected)
	requireSingleCommand(t, Decide(a, &connected, 0, pol), domain.CommandReadEventCount)

	counted := domain.EventCountLoadedEvent("dev-1", 0, 120)
	a = domain.Apply(a, counted)
	cmd := requireSingleCommand(t, Decide(a, &counted, 0, pol), domain.CommandReadEvents)
	if cmd.Offset != 0 || cmd.Count != 50 {
		t.Fatalf("expected ReadEvents(offset=0, count=50), got %+v", cmd)
	}

	read := domain.EventsRead("dev-1", 0, domain.NewEventRange(0, 50))
	a = domain.Apply(a, read)
	cmd = requireSingleCommand(t, Decide(a, &read, 0, pol), domain.CommandDeliverToApp)
	if cmd.Range.Start != 0 || cmd.Range.End != 50 {
		t.Fatalf("expected DeliverToApp([0,50)), got %+v", cmd)
	}

	delivered := domain.EventsDelivered("dev-1", 0, domain.NewEventRange(0, 50))
	a = domain.Apply(a, delivered)
	cmd = requireSingleCommand(t, Decide(a, &delivered, 0, pol), domain.CommandAcknowledge)
	if cmd.UpTo != 50 {
		t.Fatalf("expected Acknowledge(upTo=50), got %+v", cmd)
	}

	acked := domain.EventsAcked("dev-1", 0, 50)
	a = domain.Apply(a, acked)
	cmd = requireSingleCommand(t, Decide(a, &acked, 0, pol), domain.CommandReadEvents)
	if cmd.Offset != 50 || cmd.Count != 70 {
		t.Fatalf("expected ReadEvents(offset=50, count=70) after a Stable ack, got %+v", cmd)
	}

	a.LastAckedExclusive = 120
	fullyAcked := domain.EventsAcked("dev-1", 0, 120)
	requireSingleCommand(t, Decide(a, &fullyAcked, 0, pol), domain.CommandReadEventCount)
}

func TestSagaDisconnectResumesAtHighWater(t *testing.T) {
	pol := defaultPolicies()
	a := domain.SyncAggregate{
		DeviceId:           "dev-1",
		BondStatus:         domain.BondBonded,
		ConnectionStatus:   domain.ConnectionDisconnected,
		LastAckedExclusive: 50,
		TotalOnDevice:      120,
		PageSize:           50,
		Attempts:           map[domain.AttemptKey]int{},
		ConnectBreaker:     domain.NewBreakerState(),
	}

	disc := domain.Disconnected("dev-1", 0, domain.DisconnectReason{Kind: domain.DisconnectGattError}, nil)
	requireSingleCommand(t, Decide(a, &disc, 0, pol), domain.CommandConnectGatt)

	connected := domain.DeviceConnected("dev-1", 0)
	a.ConnectionStatus = domain.ConnectionConnected
	requireSingleCommand(t, Decide(a, &connected, 0, pol), domain.CommandReadEventCount)

	counted := domain.EventCountLoadedEvent("dev-1", 0, 120)
	cmd := requireSingleCommand(t, Decide(a, &counted, 0, pol), domain.CommandReadEvents)
	if cmd.Offset != 50 || cmd.Count != 50 {
		t.Fatalf("expected ReadEvents(offset=50, count=50) resuming at the high-water mark, got %+v", cmd)
	}
}

func TestSagaBreakerGating(t *testing.T) {
	pol := defaultPolicies()
	openedAt := domain.TimestampMs(5000)
	a := domain.SyncAggregate{
		DeviceId:         "dev-1",
		BondStatus:       domain.BondBonded,
		ConnectionStatus: domain.ConnectionDisconnected,
		Attempts:         map[domain.AttemptKey]int{},
		ConnectBreaker:   domain.BreakerState{Phase: domain.BreakerOpen, OpenedAt: &openedAt},
	}

	disc := domain.Disconnected("dev-1", 5000, domain.DisconnectReason{Kind: domain.DisconnectGattError}, nil)

	cmd := requireSingleCommand(t, Decide(a, &disc, 5000, pol), domain.CommandScheduleRetry)
	if cmd.After != 5500 {
		t.Fatalf("expected a retry scheduled for t=5500, got %+v", cmd)
	}

	requireSingleCommand(t, Decide(a, &disc, 6000, pol), domain.CommandConnectGatt)
}

func TestSagaRetryCapGivesUp(t *testing.T) {
	pol := defaultPolicies()
	openedAt := domain.TimestampMs(0)
	a := domain.SyncAggregate{
		DeviceId:         "dev-1",
		BondStatus:       domain.BondBonded,
		ConnectionStatus: domain.ConnectionDisconnected,
		Attempts:         map[domain.AttemptKey]int{domain.AttemptConnectGatt: 1},
		ConnectBreaker:   domain.BreakerState{Phase: domain.BreakerOpen, OpenedAt: &openedAt},
	}

	disc := domain.Disconnected("dev-1", 0, domain.DisconnectReason{Kind: domain.DisconnectGattError}, nil)
	cmds := Decide(a, &disc, 0, pol)
	if len(cmds) != 0 {
		t.Fatalf("expected no commands once the retry cap is reached, got %+v", cmds)
	}
}

package fakes

import (
	"sync"

	"blesync/internal/domain"
	"blesync/internal/ports"
)

// Script is a per-operation queue of canned results. An empty queue falls
// through to FakeBle's default success behaviour.
type Script struct {
	Bond    []domain.Event
	Connect []domain.Event
	Read    []domain.Event
	Ack     []domain.Event
}

// FakeBle is an in-memory BlePort for unit tests: each device has a
// virtual total event count and an optional Script of canned responses,
// consumed in order.
type FakeBle struct {
	mu      sync.Mutex
	clock   ports.ClockPort
	totals  map[domain.DeviceId]domain.EventCount
	scripts map[domain.DeviceId]*Script
	calls   []string
}

func NewFakeBle(clock ports.ClockPort) *FakeBle {
	return &FakeBle{
		clock:   clock,
		totals:  make(map[domain.DeviceId]domain.EventCount),
		scripts: make(map[domain.DeviceId]*Script),
	}
}

func (f *FakeBle) SetTotal(dev domain.DeviceId, total domain.EventCount) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.totals[dev] = total
}

func (f *FakeBle) SetScript(dev domain.DeviceId, s *Script) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[dev] = s
}

// Calls returns the ordered list of method names invoked so far, for
// assertions on call sequencing.
func (f *FakeBle) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *FakeBle) record(name string) {
	f.calls = append(f.calls, name)
}

func popEvent(queue *[]domain.Event) (domain.Event, bool) {
	if len(*queue) == 0 {
		return domain.Event{}, false
	}
	e := (*queue)[0]
	*queue = (*queue)[1:]
	return e, true
}

func (f *FakeBle) Bond(dev domain.DeviceId) domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Bond")
	if s, ok := f.scripts[dev]; ok {
		if e, ok := popEvent(&s.Bond); ok {
			return e
		}
	}
	return domain.DeviceBonded(dev, f.clock.Now())
}

func (f *FakeBle) Connect(dev domain.DeviceId) domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Connect")
	if s, ok := f.scripts[dev]; ok {
		if e, ok := popEvent(&s.Connect); ok {
			return e
		}
	}
	return domain.DeviceConnected(dev, f.clock.Now())
}

func (f *FakeBle) Disconnect(dev domain.DeviceId) domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Disconnect")
	return domain.Disconnected(dev, f.clock.Now(), domain.DisconnectReason{Kind: domain.DisconnectPeerClosed}, nil)
}

func (f *FakeBle) ReadCount(dev domain.DeviceId) domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ReadCount")
	if s, ok := f.scripts[dev]; ok {
		if e, ok := popEvent(&s.Read); ok {
			return e
		}
	}
	return domain.EventCountLoadedEvent(dev, f.clock.Now(), f.totals[dev])
}

func (f *FakeBle) ReadPage(dev domain.DeviceId, offset domain.EventOffset, count domain.PageSize) domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ReadPage")
	if s, ok := f.scripts[dev]; ok {
		if e, ok := popEvent(&s.Read); ok {
			return e
		}
	}
	end := offset.Add(domain.EventCount(count))
	total := f.totals[dev]
	if end > domain.EventOffset(total) {
		end = domain.EventOffset(total)
	}
	return domain.EventsRead(dev, f.clock.Now(), domain.NewEventRange(offset, end))
}

func (f *FakeBle) Ack(dev domain.DeviceId, upTo domain.EventOffset) domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Ack")
	if s, ok := f.scripts[dev]; ok {
		if e, ok := popEvent(&s.Ack); ok {
			return e
		}
	}
	return domain.EventsAcked(dev, f.clock.Now(), upTo)
}

var _ ports.BlePort = (*FakeBle)(nil)

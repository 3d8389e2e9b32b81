package fakes

import (
	"sync"

	"blesync/internal/domain"
	"blesync/internal/ports"
)

// FakeDelivery is an in-memory DeliveryPort that records every delivered
// range and can be scripted to fail the next N deliveries.
type FakeDelivery struct {
	mu        sync.Mutex
	clock     ports.ClockPort
	delivered []domain.EventRange
	failNext  []domain.DomainError
}

func NewFakeDelivery(clock ports.ClockPort) *FakeDelivery {
	return &FakeDelivery{clock: clock}
}

// FailNext queues an error to return on the next Deliver call instead of
// succeeding, consumed in order.
func (f *FakeDelivery) FailNext(err domain.DomainError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext = append(f.failNext, err)
}

func (f *FakeDelivery) Delivered() []domain.EventRange {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.EventRange, len(f.delivered))
	copy(out, f.delivered)
	return out
}

func (f *FakeDelivery) Deliver(dev domain.DeviceId, r domain.EventRange) domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.failNext) > 0 {
		err := f.failNext[0]
		f.failNext = f.failNext[1:]
		return domain.SyncFailed(dev, f.clock.Now(), err)
	}

	f.delivered = append(f.delivered, r)
	return domain.EventsDelivered(dev, f.clock.Now(), r)
}

var _ ports.DeliveryPort = (*FakeDelivery)(nil)

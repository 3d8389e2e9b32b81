package blesync

import (
	"errors"
	"sync"

	"blesync/internal/domain"
)

// ErrChannelDeliveryClosed describes a delivery to a channel delivery sink
// after it was closed; its message is the one carried by the resulting
// SyncFailed event.
var ErrChannelDeliveryClosed = errors.New("blesync: channel delivery closed")

// DeliveredRange is what a channel-based DeliveryPort hands to its fanout
// channel: the device the range came from and the range itself.
type DeliveredRange struct {
	DeviceId DeviceId
	Range    EventRange
}

// DeliveryFunc is invoked with every range a device actor hands off for
// delivery. Returning an error turns the outcome into SyncFailed instead of
// EventsDelivered.
type DeliveryFunc func(dev DeviceId, r EventRange) error

// NewCallbackDelivery adapts a DeliveryFunc into a full DeliveryPort so
// callers can plug in arbitrary functions without defining a struct. clock
// timestamps the resulting events the same way the SQL delivery sink does.
func NewCallbackDelivery(clock ClockPort, fn DeliveryFunc) DeliveryPort {
	return &callbackDelivery{clock: clock, fn: fn}
}

// NewChannelDelivery exposes delivered ranges via a channel; it returns the
// port, the read-only channel, and a close function the caller should
// invoke during shutdown.
func NewChannelDelivery(clock ClockPort, buffer int) (DeliveryPort, <-chan DeliveredRange, func()) {
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan DeliveredRange, buffer)
	s := &channelDelivery{clock: clock, ch: ch, closed: make(chan struct{})}
	return s, ch, func() { s.close() }
}

type callbackDelivery struct {
	clock ClockPort
	fn    DeliveryFunc
}

func (s *callbackDelivery) Deliver(dev domain.DeviceId, r domain.EventRange) domain.Event {
	now := s.clock.Now()
	if s.fn == nil {
		return domain.SyncFailed(dev, now, domain.ProtocolError("callback delivery: nil handler"))
	}
	if err := s.fn(dev, r); err != nil {
		return domain.SyncFailed(dev, now, domain.TransportError(err.Error(), nil))
	}
	return domain.EventsDelivered(dev, now, r)
}

type channelDelivery struct {
	clock  ClockPort
	ch     chan DeliveredRange
	closed chan struct{}
	once   sync.Once
}

func (s *channelDelivery) Deliver(dev domain.DeviceId, r domain.EventRange) domain.Event {
	now := s.clock.Now()

	select {
	case <-s.closed:
		return domain.SyncFailed(dev, now, domain.TransportError(ErrChannelDeliveryClosed.Error(), nil))
	default:
	}

	select {
	case <-s.closed:
		return domain.SyncFailed(dev, now, domain.TransportError(ErrChannelDeliveryClosed.Error(), nil))
	case s.ch <- DeliveredRange{DeviceId: dev, Range: r}:
		return domain.EventsDelivered(dev, now, r)
	}
}

func (s *channelDelivery) close() {
	s.once.Do(func() {
		close(s.closed)
		close(s.ch)
	})
}

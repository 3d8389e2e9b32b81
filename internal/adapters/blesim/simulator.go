package blesim

import (
	"sync"
	"time"

	"blesync/internal/domain"
	"blesync/internal/ports"
)

// Simulator is a deterministic, in-process stand-in for a real GATT radio.
// It keeps a per-device virtual event log and an optional fault-injection
// Script, and implements ports.BlePort end-to-end using the wire encoding
// in the protocol section: every characteristic operation (count read, page
// request, ack write) round-trips through encode/decode even though the
// bytes never leave the process, so the codec itself is exercised the same
// way it would be against real hardware. Bond, Connect and Disconnect carry
// no payload and use no codec.
type Simulator struct {
	cfg   Config
	clock ports.ClockPort

	mu      sync.Mutex
	devices map[domain.DeviceId]*virtualDevice
}

type virtualDevice struct {
	bonded    bool
	connected bool
	total     uint32
	acked     uint32
	script    *Script
}

// NewSimulator constructs a Simulator. clock is used only to stamp
// returned events; the simulator never schedules anything itself.
func NewSimulator(cfg Config, clock ports.ClockPort) (*Simulator, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{
		cfg:     cfg,
		clock:   clock,
		devices: make(map[domain.DeviceId]*virtualDevice),
	}, nil
}

// Seed installs a virtual device with the given total event count and an
// optional fault script (nil means "always succeed"). Call before the
// actor starts; Seed is not safe to call concurrently with port methods
// for the same device.
func (s *Simulator) Seed(dev domain.DeviceId, totalEvents uint32, script *Script) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[dev] = &virtualDevice{total: totalEvents, script: script}
}

func (s *Simulator) device(dev domain.DeviceId) *virtualDevice {
	s.mu.Lock()
	defer s.mu.Unlock()
	vd, ok := s.devices[dev]
	if !ok {
		vd = &virtualDevice{total: s.cfg.DefaultEventCount}
		s.devices[dev] = vd
	}
	return vd
}

func (s *Simulator) sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

func (s *Simulator) now() domain.TimestampMs { return s.clock.Now() }

func (s *Simulator) Bond(dev domain.DeviceId) domain.Event {
	vd := s.device(dev)
	s.sleep(s.cfg.BondDelay)

	s.mu.Lock()
	var fault GattFault
	var hasFault bool
	if vd.script != nil {
		fault, hasFault = vd.script.nextBond()
	}
	if !hasFault {
		vd.bonded = true
	}
	s.mu.Unlock()

	if hasFault {
		return s.faultEvent(dev, fault)
	}
	return domain.DeviceBonded(dev, s.now())
}

func (s *Simulator) Connect(dev domain.DeviceId) domain.Event {
	vd := s.device(dev)
	s.sleep(s.cfg.ConnectDelay)

	s.mu.Lock()
	var fault GattFault
	var hasFault bool
	if vd.script != nil {
		fault, hasFault = vd.script.nextConnect()
	}
	if !hasFault {
		vd.connected = true
	}
	s.mu.Unlock()

	if hasFault {
		return s.connectedFaultEvent(dev, fault)
	}
	return domain.DeviceConnected(dev, s.now())
}

func (s *Simulator) Disconnect(dev domain.DeviceId) domain.Event {
	s.mu.Lock()
	if vd, ok := s.devices[dev]; ok {
		vd.connected = false
	}
	s.mu.Unlock()
	return domain.Disconnected(dev, s.now(), domain.DisconnectReason{Kind: domain.DisconnectPeerClosed}, nil)
}

func (s *Simulator) ReadCount(dev domain.DeviceId) domain.Event {
	vd := s.device(dev)
	s.sleep(s.cfg.IoDelay)

	s.mu.Lock()
	var fault GattFault
	var hasFault bool
	if vd.script != nil {
		fault, hasFault = vd.script.nextRead()
	}
	total := vd.total
	s.mu.Unlock()

	if hasFault {
		return s.connectedFaultEvent(dev, fault)
	}

	payload := encodeCountPayload(total)
	decoded, err := decodeCountPayload(payload)
	if err != nil {
		return domain.SyncFailed(dev, s.now(), domain.ProtocolError(err.Error()))
	}
	return domain.EventCountLoadedEvent(dev, s.now(), domain.EventCount(decoded))
}

func (s *Simulator) ReadPage(dev domain.DeviceId, offset domain.EventOffset, count domain.PageSize) domain.Event {
	vd := s.device(dev)
	s.sleep(s.cfg.IoDelay)

	req := encodePageRequest(uint32(offset), uint32(count))
	reqOffset, reqCount, err := decodePageRequest(req)
	if err != nil {
		return domain.SyncFailed(dev, s.now(), domain.ProtocolError(err.Error()))
	}

	s.mu.Lock()
	var fault GattFault
	var hasFault bool
	if vd.script != nil {
		fault, hasFault = vd.script.nextRead()
	}
	s.mu.Unlock()

	if hasFault {
		return s.connectedFaultEvent(dev, fault)
	}

	r := domain.NewEventRange(domain.EventOffset(reqOffset), domain.EventOffset(reqOffset+reqCount))
	return domain.EventsRead(dev, s.now(), r)
}

func (s *Simulator) Ack(dev domain.DeviceId, upTo domain.EventOffset) domain.Event {
	vd := s.device(dev)
	s.sleep(s.cfg.IoDelay)

	payload := encodeAckPayload(uint32(upTo))
	decoded, err := decodeAckPayload(payload)
	if err != nil {
		return domain.SyncFailed(dev, s.now(), domain.ProtocolError(err.Error()))
	}

	s.mu.Lock()
	var fault GattFault
	var hasFault bool
	if vd.script != nil {
		fault, hasFault = vd.script.nextAck()
	}
	if !hasFault {
		vd.acked = decoded
	}
	s.mu.Unlock()

	if hasFault {
		return s.connectedFaultEvent(dev, fault)
	}
	return domain.EventsAcked(dev, s.now(), domain.EventOffset(decoded))
}

func (s *Simulator) faultEvent(dev domain.DeviceId, fault GattFault) domain.Event {
	kind := mapGattCode(fault.Code)
	code := fault.Code
	switch kind {
	case domain.ErrorKindUnexpected:
		return domain.SyncFailed(dev, s.now(), domain.UnexpectedError("platform unavailable"))
	case domain.ErrorKindTransport:
		return domain.SyncFailed(dev, s.now(), domain.TransportError("gatt error", &code))
	default:
		return domain.SyncFailed(dev, s.now(), domain.ProtocolError("gatt error"))
	}
}

// connectedFaultEvent is the post-bond counterpart of faultEvent: a fault hit
// while already connected to the radio (connect, read, or ack) only drops
// the link when it is transport-class, since that is the one kind a retry
// loop can plausibly recover from. Protocol and Unexpected faults surface
// as SyncFailed instead of being folded into a connection drop, matching
// the error taxonomy's retry/breaker table.
func (s *Simulator) connectedFaultEvent(dev domain.DeviceId, fault GattFault) domain.Event {
	kind := mapGattCode(fault.Code)
	code := fault.Code
	switch kind {
	case domain.ErrorKindUnexpected:
		return domain.SyncFailed(dev, s.now(), domain.UnexpectedError("platform unavailable"))
	case domain.ErrorKindTransport:
		reason := domain.DisconnectReason{Kind: domain.DisconnectGattError}
		return domain.Disconnected(dev, s.now(), reason, &code)
	default:
		return domain.SyncFailed(dev, s.now(), domain.ProtocolError("gatt error"))
	}
}

var _ ports.BlePort = (*Simulator)(nil)

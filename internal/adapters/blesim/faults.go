package blesim

import "blesync/internal/domain"

// GattFault is a scripted failure: a non-zero GATT status code to return
// in place of a successful response. mapGattCode implements the reference
// adapter's table in §6.2.
type GattFault struct {
	Code int
}

func mapGattCode(code int) domain.ErrorKind {
	switch code {
	case 8, 19:
		return domain.ErrorKindTransport
	case 133:
		return domain.ErrorKindUnexpected
	default:
		return domain.ErrorKindProtocol
	}
}

// Script is an injectable per-device sequence of faults, consumed in
// order, one per matching operation. An empty script means "always
// succeed". Scripts are consumed destructively so a test can assert a
// device recovers after N injected failures.
type Script struct {
	Bond    []GattFault
	Connect []GattFault
	Read    []GattFault
	Ack     []GattFault
}

func (s *Script) nextBond() (GattFault, bool)    { return popFault(&s.Bond) }
func (s *Script) nextConnect() (GattFault, bool) { return popFault(&s.Connect) }
func (s *Script) nextRead() (GattFault, bool)    { return popFault(&s.Read) }
func (s *Script) nextAck() (GattFault, bool)     { return popFault(&s.Ack) }

func popFault(faults *[]GattFault) (GattFault, bool) {
	if len(*faults) == 0 {
		return GattFault{}, false
	}
	f := (*faults)[0]
	*faults = (*faults)[1:]
	return f, true
}

package domain

// BondStatus tracks the device's pairing state.
type BondStatus int

const (
	BondUnknown BondStatus = iota
	BondNotBonded
	BondBonding
	BondBonded
)

func (s BondStatus) String() string {
	switch s {
	case BondNotBonded:
		return "NotBonded"
	case BondBonding:
		return "Bonding"
	case BondBonded:
		return "Bonded"
	default:
		return "Unknown"
	}
}

// ConnectionStatus tracks the GATT connection state.
type ConnectionStatus int

const (
	ConnectionDisconnected ConnectionStatus = iota
	ConnectionConnecting
	ConnectionConnected
)

func (s ConnectionStatus) String() string {
	switch s {
	case ConnectionConnecting:
		return "Connecting"
	case ConnectionConnected:
		return "Connected"
	default:
		return "Disconnected"
	}
}

// BreakerPhase is one of the three circuit-breaker phases (§4.3).
type BreakerPhase int

const (
	BreakerClosed BreakerPhase = iota
	BreakerOpen
	BreakerHalfOpen
)

func (p BreakerPhase) String() string {
	switch p {
	case BreakerOpen:
		return "Open"
	case BreakerHalfOpen:
		return "HalfOpen"
	default:
		return "Closed"
	}
}

// RetryReasonKind is the closed sum of reasons a retry was scheduled.
type RetryReasonKind int

const (
	RetryTemporaryGattError RetryReasonKind = iota
	RetryRadioBusy
	RetryBackoffAfterFailure
	RetryCustom
)

// RetryReason carries a RetryReasonKind and, for RetryCustom, a free-form
// message.
type RetryReason struct {
	Kind RetryReasonKind
	Msg  string
}

func (r RetryReason) String() string {
	switch r.Kind {
	case RetryTemporaryGattError:
		return "TemporaryGattError"
	case RetryRadioBusy:
		return "RadioBusy"
	case RetryBackoffAfterFailure:
		return "BackoffAfterFailure"
	default:
		return "Custom(" + r.Msg + ")"
	}
}

// DisconnectReasonKind is the closed sum of reasons the device disconnected.
type DisconnectReasonKind int

const (
	DisconnectPeerClosed DisconnectReasonKind = iota
	DisconnectTimeout
	DisconnectGattError
	DisconnectCustom
)

// DisconnectReason carries a DisconnectReasonKind and, for DisconnectCustom,
// a free-form message.
type DisconnectReason struct {
	Kind DisconnectReasonKind
	Msg  string
}

func (r DisconnectReason) String() string {
	switch r.Kind {
	case DisconnectPeerClosed:
		return "PeerClosed"
	case DisconnectTimeout:
		return "Timeout"
	case DisconnectGattError:
		return "GattError"
	default:
		return "Custom(" + r.Msg + ")"
	}
}

// BreakerState is one circuit breaker's persisted phase. The engine keeps
// five instances per aggregate, one per gated stage (bond, connect, read,
// deliver, ack).
type BreakerState struct {
	Phase      BreakerPhase
	OpenedAt   *TimestampMs
	LastFailure *DomainError
}

// NewBreakerState returns a breaker starting Closed.
func NewBreakerState() BreakerState {
	return BreakerState{Phase: BreakerClosed}
}

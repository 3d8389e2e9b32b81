package runtime

import "blesync/internal/ports"

// Ports bundles the five abstract collaborators the actor consumes (§4.7).
// Every field is required; NewDeviceActor panics if any is nil, since a
// missing port is a wiring bug, not a runtime condition to recover from.
type Ports struct {
	Ble       ports.BlePort
	Delivery  ports.DeliveryPort
	Clock     ports.ClockPort
	Store     ports.StateStorePort
	Telemetry ports.TelemetryPort
}

func (p Ports) validate() {
	switch {
	case p.Ble == nil:
		panic("runtime: BlePort is required")
	case p.Delivery == nil:
		panic("runtime: DeliveryPort is required")
	case p.Clock == nil:
		panic("runtime: ClockPort is required")
	case p.Store == nil:
		panic("runtime: StateStorePort is required")
	case p.Telemetry == nil:
		panic("runtime: TelemetryPort is required")
	}
}

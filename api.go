// Package blesync re-exports the pkg/blesync public facade at the module
// root so consumers can import "blesync" directly instead of the nested
// package path.
package blesync

import (
	base "blesync/pkg/blesync"
)

// Re-exported errors for convenience.
var (
	ErrChannelDeliveryClosed = base.ErrChannelDeliveryClosed
)

// Type aliases so consumers can import the module root directly.
type (
	Config          = base.Config
	PolicyConfig    = base.PolicyConfig
	BleConfig       = base.BleConfig
	StoreConfig     = base.StoreConfig
	DeliveryConfig  = base.DeliveryConfig
	MetricsConfig   = base.MetricsConfig
	Flow            = base.Flow
	FlowOption      = base.FlowOption
	Runtime         = base.Runtime
	RuntimeOption   = base.RuntimeOption
	DeviceId        = base.DeviceId
	EventOffset     = base.EventOffset
	EventRange      = base.EventRange
	SyncAggregate   = base.SyncAggregate
	SyncSnapshot    = base.SyncSnapshot
	BlePort         = base.BlePort
	DeliveryPort    = base.DeliveryPort
	StateStorePort  = base.StateStorePort
	TelemetryPort   = base.TelemetryPort
	TelemetryEvent  = base.TelemetryEvent
	ClockPort       = base.ClockPort
	DeliveredRange  = base.DeliveredRange
	DeliveryFunc    = base.DeliveryFunc
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

// Flow builder helpers.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	return base.ConfFromConfig(cfg, opts...)
}

func WithFlowOptions(opts ...RuntimeOption) FlowOption {
	return base.WithFlowOptions(opts...)
}

// Runtime and its options.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithBle(b BlePort) RuntimeOption {
	return base.WithBle(b)
}

func WithDelivery(d DeliveryPort) RuntimeOption {
	return base.WithDelivery(d)
}

func WithStore(s StateStorePort) RuntimeOption {
	return base.WithStore(s)
}

func WithTelemetry(t TelemetryPort) RuntimeOption {
	return base.WithTelemetry(t)
}

func WithClock(c ClockPort) RuntimeOption {
	return base.WithClock(c)
}

// Delivery adapters.
func NewCallbackDelivery(clock ClockPort, fn DeliveryFunc) DeliveryPort {
	return base.NewCallbackDelivery(clock, fn)
}

func NewChannelDelivery(clock ClockPort, buffer int) (DeliveryPort, <-chan DeliveredRange, func()) {
	return base.NewChannelDelivery(clock, buffer)
}

package blesync

import (
	"blesync/internal/adapters/blesim"
	"blesync/internal/app/config"
)

// Config re-exports the root configuration struct so downstream projects
// can construct or modify it programmatically.
type Config = config.Config

type (
	// PolicyConfig tunes retry, breaker, and page-sizing bounds.
	PolicyConfig = config.PolicyConfig
	// BleConfig tunes the BLE simulator's timing and fault behavior.
	BleConfig = blesim.Config
	// StoreConfig points the file snapshot store at a directory.
	StoreConfig = config.StoreConfig
	// DeliveryConfig points the SQL delivery sink at a DSN and table.
	DeliveryConfig = config.DeliveryConfig
	// MetricsConfig configures the Prometheus HTTP listener.
	MetricsConfig = config.MetricsConfig
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// Package config loads the process-wide configuration for the
// command-line harness, grounded on the teacher's Load/applyDefaults/
// validate pipeline.
package config

import (
	"fmt"
	"os"

	"blesync/internal/adapters/blesim"
	"blesync/internal/domain"
	"gopkg.in/yaml.v3"
)

// Config is the top-level process configuration: policy tuning, the BLE
// simulator, the snapshot store, the SQL delivery sink, and the metrics
// listener.
type Config struct {
	Devices  []string       `yaml:"devices"`
	Policy   PolicyConfig   `yaml:"policy"`
	Ble      blesim.Config  `yaml:"ble"`
	Store    StoreConfig    `yaml:"store"`
	Delivery DeliveryConfig `yaml:"delivery"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// PolicyConfig tunes the retry, breaker, and page-sizing policies.
type PolicyConfig struct {
	MaxAttempts    int             `yaml:"max_attempts"`
	MinBackoffMs   int64           `yaml:"min_backoff_ms"`
	MaxBackoffMs   int64           `yaml:"max_backoff_ms"`
	JitterRatio    float64         `yaml:"jitter_ratio"`
	FailuresToOpen int             `yaml:"failures_to_open"`
	CoolDownMs     int64           `yaml:"cool_down_ms"`
	MinPage        domain.PageSize `yaml:"min_page"`
	MaxPage        domain.PageSize `yaml:"max_page"`
	GrowStep       domain.PageSize `yaml:"grow_step"`
	ShrinkStep     domain.PageSize `yaml:"shrink_step"`
	DefaultPage    domain.PageSize `yaml:"default_page"`
}

// StoreConfig points at the file snapshot store's directory.
type StoreConfig struct {
	Dir string `yaml:"dir"`
}

// DeliveryConfig points at the SQL delivery sink.
type DeliveryConfig struct {
	Dsn   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

// MetricsConfig is the address the Prometheus /metrics endpoint listens on.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads and parses path, applies defaults, and validates the result.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Policy.MaxAttempts == 0 {
		c.Policy.MaxAttempts = 5
	}
	if c.Policy.MinBackoffMs == 0 {
		c.Policy.MinBackoffMs = 200
	}
	if c.Policy.MaxBackoffMs == 0 {
		c.Policy.MaxBackoffMs = 30_000
	}
	if c.Policy.JitterRatio == 0 {
		c.Policy.JitterRatio = 0.2
	}
	if c.Policy.FailuresToOpen == 0 {
		c.Policy.FailuresToOpen = 3
	}
	if c.Policy.CoolDownMs == 0 {
		c.Policy.CoolDownMs = 5_000
	}
	if c.Policy.MinPage == 0 {
		c.Policy.MinPage = 20
	}
	if c.Policy.MaxPage == 0 {
		c.Policy.MaxPage = 500
	}
	if c.Policy.GrowStep == 0 {
		c.Policy.GrowStep = 20
	}
	if c.Policy.ShrinkStep == 0 {
		c.Policy.ShrinkStep = 10
	}
	if c.Policy.DefaultPage == 0 {
		c.Policy.DefaultPage = 50
	}
	if c.Store.Dir == "" {
		c.Store.Dir = "./data/snapshots"
	}
	if c.Delivery.Table == "" {
		c.Delivery.Table = "delivered_events"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}

	c.Ble.ApplyDefaults()
}

func (c *Config) validate() error {
	if len(c.Devices) == 0 {
		return fmt.Errorf("at least one device must be configured")
	}
	if err := c.Ble.Validate(); err != nil {
		return fmt.Errorf("ble config: %w", err)
	}
	if c.Delivery.Dsn == "" {
		return fmt.Errorf("delivery.dsn is required")
	}
	if c.Store.Dir == "" {
		return fmt.Errorf("store.dir is required")
	}
	if c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required")
	}
	return nil
}

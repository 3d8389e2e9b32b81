package blesim

import (
	"errors"
	"time"
)

// Config captures the tunables for the in-process simulator, following
// the same ApplyDefaults/Validate two-step the OPC UA collector uses for
// its own Config.
type Config struct {
	BondDelay    time.Duration `yaml:"bond_delay"`
	ConnectDelay time.Duration `yaml:"connect_delay"`
	IoDelay      time.Duration `yaml:"io_delay"`
	// DefaultEventCount seeds a device's virtual log when no script has
	// been attached for it, so a bare Simulator is usable in examples
	// without any setup.
	DefaultEventCount uint32 `yaml:"default_event_count"`
}

func (c *Config) ApplyDefaults() {
	if c.BondDelay <= 0 {
		c.BondDelay = 0
	}
	if c.ConnectDelay <= 0 {
		c.ConnectDelay = 0
	}
	if c.IoDelay <= 0 {
		c.IoDelay = 0
	}
}

func (c *Config) Validate() error {
	if c.BondDelay < 0 || c.ConnectDelay < 0 || c.IoDelay < 0 {
		return errors.New("blesim: delays must be non-negative")
	}
	return nil
}

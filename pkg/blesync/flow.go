package blesync

import (
	"context"
	"fmt"
)

// Flow is a convenience builder that lets callers say Conf → Build → Run
// without touching the underlying hexagonal wiring directly.
type Flow struct {
	cfg  *Config
	opts []RuntimeOption
}

// FlowOption mutates the Flow after configuration is loaded.
type FlowOption func(*Flow)

// Conf loads YAML from disk, applies FlowOption values, and returns a Flow
// builder.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return ConfFromConfig(cfg, opts...)
}

// ConfFromConfig bootstraps a Flow from an in-memory Config.
func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	f := &Flow{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

// Config returns the underlying configuration so callers can tweak it
// before building a runtime.
func (f *Flow) Config() *Config {
	if f == nil {
		return nil
	}
	return f.cfg
}

// Options appends raw RuntimeOption values to the builder.
func (f *Flow) Options(opts ...RuntimeOption) *Flow {
	if f == nil {
		return nil
	}
	f.appendOptions(opts...)
	return f
}

// Build finalizes overrides and constructs a Runtime.
func (f *Flow) Build(opts ...RuntimeOption) (*Runtime, error) {
	if f == nil {
		return nil, fmt.Errorf("flow is nil")
	}
	f.appendOptions(opts...)
	return NewRuntime(f.cfg, f.opts...)
}

// Run is a shortcut for Build + Runtime.Run.
func (f *Flow) Run(ctx context.Context, opts ...RuntimeOption) error {
	rt, err := f.Build(opts...)
	if err != nil {
		return err
	}
	return rt.Run(ctx)
}

// WithFlowOptions appends RuntimeOption values during Conf.
func WithFlowOptions(opts ...RuntimeOption) FlowOption {
	return func(f *Flow) {
		if f != nil {
			f.appendOptions(opts...)
		}
	}
}

func (f *Flow) appendOptions(opts ...RuntimeOption) {
	for _, opt := range opts {
		if opt != nil {
			f.opts = append(f.opts, opt)
		}
	}
}

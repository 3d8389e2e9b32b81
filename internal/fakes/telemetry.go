package fakes

import (
	"sync"

	"blesync/internal/ports"
)

// FakeTelemetry is an in-memory TelemetryPort that records every event
// emitted, for assertions on telemetry call sequencing.
type FakeTelemetry struct {
	mu     sync.Mutex
	events []ports.TelemetryEvent
}

func NewFakeTelemetry() *FakeTelemetry { return &FakeTelemetry{} }

func (f *FakeTelemetry) Emit(e ports.TelemetryEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

func (f *FakeTelemetry) Events() []ports.TelemetryEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ports.TelemetryEvent, len(f.events))
	copy(out, f.events)
	return out
}

// Names returns just the names, in order, for terse assertions.
func (f *FakeTelemetry) Names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.Name
	}
	return out
}

// CountByName returns how many events with the given name were emitted.
func (f *FakeTelemetry) CountByName(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e.Name == name {
			n++
		}
	}
	return n
}

var _ ports.TelemetryPort = (*FakeTelemetry)(nil)

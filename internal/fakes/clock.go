// Package fakes provides in-memory, deterministic implementations of
// every port, for use in tests that need to drive a DeviceActor without
// real time, disk, or network.
package fakes

import (
	"sort"
	"sync"

	"blesync/internal/domain"
	"blesync/internal/ports"
)

// VirtualClock is a ClockPort with no relation to wall time: Now returns
// whatever was last set, and Advance fires any due timers in order,
// synchronously, on the calling goroutine.
type VirtualClock struct {
	mu      sync.Mutex
	now     domain.TimestampMs
	timers  map[int]*timerEntry
	nextId  int
}

type timerEntry struct {
	at     domain.TimestampMs
	onFire func()
	fired  bool
}

// NewVirtualClock returns a clock starting at the given time.
func NewVirtualClock(start domain.TimestampMs) *VirtualClock {
	return &VirtualClock{now: start, timers: make(map[int]*timerEntry)}
}

func (c *VirtualClock) Now() domain.TimestampMs {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *VirtualClock) Schedule(at domain.TimestampMs, onFire func()) ports.TimerToken {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextId
	c.nextId++
	c.timers[id] = &timerEntry{at: at, onFire: onFire}
	return id
}

func (c *VirtualClock) Cancel(token ports.TimerToken) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := token.(int)
	if !ok {
		return
	}
	delete(c.timers, id)
}

// Advance moves the clock forward by delta and fires, in timestamp order,
// every timer now due. Firing happens after the clock's own mutex is
// released so a fired callback may safely call back into the clock (e.g.
// to schedule a new timer).
func (c *VirtualClock) Advance(delta domain.TimestampMs) {
	c.mu.Lock()
	c.now += delta
	due := c.dueLocked()
	c.mu.Unlock()

	for _, entry := range due {
		entry.onFire()
	}
}

// SetNow jumps directly to t and fires any newly-due timers, the same way
// Advance does.
func (c *VirtualClock) SetNow(t domain.TimestampMs) {
	c.mu.Lock()
	c.now = t
	due := c.dueLocked()
	c.mu.Unlock()

	for _, entry := range due {
		entry.onFire()
	}
}

func (c *VirtualClock) dueLocked() []*timerEntry {
	type idEntry struct {
		id int
		e  *timerEntry
	}
	var candidates []idEntry
	for id, e := range c.timers {
		if !e.fired && e.at <= c.now {
			candidates = append(candidates, idEntry{id, e})
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].e.at < candidates[j].e.at })

	due := make([]*timerEntry, 0, len(candidates))
	for _, c2 := range candidates {
		c2.e.fired = true
		delete(c.timers, c2.id)
		due = append(due, c2.e)
	}
	return due
}

var _ ports.ClockPort = (*VirtualClock)(nil)

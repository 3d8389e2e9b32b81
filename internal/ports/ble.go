// Package ports declares the abstract interfaces the actor runtime
// consumes (§4.7). Concrete implementations — a real GATT stack, a file
// store, a SQL sink — live under internal/adapters and never appear in
// this package's imports, keeping the runtime decoupled from any one
// transport or storage technology.
package ports

import "blesync/internal/domain"

// BlePort is the transport port: bonding, connecting, and the three
// characteristic operations (count read, paged read, ack write). Each
// method blocks until it has an answer and returns exactly one event drawn
// from the documented subset for that method; it never returns a raw Go
// error, since a failure is itself a domain fact the reducer must see.
type BlePort interface {
	Bond(dev domain.DeviceId) domain.Event
	Connect(dev domain.DeviceId) domain.Event
	Disconnect(dev domain.DeviceId) domain.Event
	ReadCount(dev domain.DeviceId) domain.Event
	ReadPage(dev domain.DeviceId, offset domain.EventOffset, count domain.PageSize) domain.Event
	Ack(dev domain.DeviceId, upTo domain.EventOffset) domain.Event
}

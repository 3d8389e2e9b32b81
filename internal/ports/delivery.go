package ports

import "blesync/internal/domain"

// DeliveryPort hands a freshly-read page to the host application. It
// returns EventsDelivered on success, or SyncFailed/Disconnected on
// failure.
type DeliveryPort interface {
	Deliver(dev domain.DeviceId, r domain.EventRange) domain.Event
}

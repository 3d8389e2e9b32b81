package ports

import "blesync/internal/domain"

// StateStorePort persists and restores the minimal crash-safe snapshot
// (§6.1), keyed by DeviceId. A corrupted or missing record must be treated
// as absent rather than returned as an error.
type StateStorePort interface {
	Read(dev domain.DeviceId) (domain.SyncSnapshot, bool, error)
	Write(snapshot domain.SyncSnapshot) error
}

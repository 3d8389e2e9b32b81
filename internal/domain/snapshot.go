package domain

// SyncSnapshot is the minimal durable record written by the actor so a
// crashed process can resume without loss or duplication (§3, §6.1).
// Deliberately minimal: no payloads, no breaker state, no attempt counters.
type SyncSnapshot struct {
	DeviceId           DeviceId
	LastAckedExclusive EventOffset
	PageSize           PageSize
	SagaCursor         string
}

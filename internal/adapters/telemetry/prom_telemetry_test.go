package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"blesync/internal/ports"
)

func TestPromTelemetryEmitBumpsEventCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	pt := NewPromTelemetry(reg)

	pt.Emit(ports.TelemetryEvent{Name: ports.TelemetryBonded, At: 100, DeviceId: "dev-1", Data: nil})
	pt.Emit(ports.TelemetryEvent{Name: ports.TelemetryBonded, At: 200, DeviceId: "dev-1", Data: nil})

	got := testutil.ToFloat64(pt.eventCounters.WithLabelValues(ports.TelemetryBonded))
	if got != 2 {
		t.Fatalf("expected the bonded counter at 2, got %v", got)
	}
}

func TestPromTelemetrySnapshotSavedSetsGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	pt := NewPromTelemetry(reg)

	pt.Emit(ports.TelemetryEvent{
		Name:     ports.TelemetrySnapshotSaved,
		At:       500,
		DeviceId: "dev-1",
		Data: map[string]string{
			"lastAckedExclusive": "120",
			"pageSize":           "50",
		},
	})

	if got := testutil.ToFloat64(pt.lastAcked.WithLabelValues("dev-1")); got != 120 {
		t.Fatalf("expected lastAcked gauge at 120, got %v", got)
	}
	if got := testutil.ToFloat64(pt.pageSize.WithLabelValues("dev-1")); got != 50 {
		t.Fatalf("expected pageSize gauge at 50, got %v", got)
	}
}

func TestPromTelemetryObservesRetryToConnectLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	pt := NewPromTelemetry(reg)

	pt.Emit(ports.TelemetryEvent{Name: ports.TelemetryRetryScheduled, At: 1000, DeviceId: "dev-1"})
	pt.Emit(ports.TelemetryEvent{Name: ports.TelemetryGattConnected, At: 1500, DeviceId: "dev-1"})

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var samples uint64
	for _, mf := range mfs {
		if mf.GetName() == "blesync_retry_to_connect_seconds" {
			samples = mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	if samples != 1 {
		t.Fatalf("expected one observation recorded, got %d", samples)
	}
}

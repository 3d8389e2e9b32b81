// Package telemetry implements a Prometheus-backed TelemetryPort,
// grounded on the teacher's PromObs: one counter per vocabulary name,
// gauges for per-device high-water state, and histograms for the two
// latencies the vocabulary makes observable. Every event is also logged
// via the standard library log package the same way the teacher logs
// errors and DLQ entries, so a human-readable trail exists alongside the
// metrics.
package telemetry

import (
	"log"
	"strconv"
	"sync"

	"blesync/internal/domain"
	"blesync/internal/ports"

	"github.com/prometheus/client_golang/prometheus"
)

// PromTelemetry is a TelemetryPort backed by Prometheus counters, gauges,
// and histograms.
type PromTelemetry struct {
	mu sync.Mutex

	eventCounters *prometheus.CounterVec
	lastAcked     *prometheus.GaugeVec
	pageSize      *prometheus.GaugeVec
	retryToConn   prometheus.Histogram
	readToAck     prometheus.Histogram

	retryScheduledAt map[domain.DeviceId]int64
	pageReadAt       map[domain.DeviceId]int64
}

// NewPromTelemetry registers its collectors against reg and returns the
// ready-to-use port. Pass prometheus.DefaultRegisterer unless the caller
// wants an isolated registry (tests typically do).
func NewPromTelemetry(reg prometheus.Registerer) *PromTelemetry {
	eventCounters := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "blesync_telemetry_events_total",
		Help: "Total telemetry events emitted by the sync engine, by name.",
	}, []string{"name"})
	lastAcked := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "blesync_last_acked_exclusive",
		Help: "Most recent lastAckedExclusive high-water mark, per device.",
	}, []string{"device_id"})
	pageSize := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "blesync_page_size",
		Help: "Current adaptive page size, per device.",
	}, []string{"device_id"})
	retryToConn := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "blesync_retry_to_connect_seconds",
		Help:    "Latency from a retry being scheduled to the next successful connect.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})
	readToAck := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "blesync_read_to_ack_seconds",
		Help:    "Latency from a page read to its acknowledgement.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	})

	reg.MustRegister(eventCounters, lastAcked, pageSize, retryToConn, readToAck)

	return &PromTelemetry{
		eventCounters:    eventCounters,
		lastAcked:        lastAcked,
		pageSize:         pageSize,
		retryToConn:      retryToConn,
		readToAck:        readToAck,
		retryScheduledAt: make(map[domain.DeviceId]int64),
		pageReadAt:       make(map[domain.DeviceId]int64),
	}
}

// Emit records e against the counters/gauges/histograms and logs it.
func (p *PromTelemetry) Emit(e ports.TelemetryEvent) {
	p.eventCounters.WithLabelValues(e.Name).Inc()
	log.Printf("telemetry device=%s name=%s at=%d data=%v", e.DeviceId, e.Name, e.At, e.Data)

	p.mu.Lock()
	defer p.mu.Unlock()

	switch e.Name {
	case ports.TelemetrySnapshotSaved:
		if v, ok := e.Data["lastAckedExclusive"]; ok {
			setGaugeFromDecimal(p.lastAcked, string(e.DeviceId), v)
		}
		if v, ok := e.Data["pageSize"]; ok {
			setGaugeFromDecimal(p.pageSize, string(e.DeviceId), v)
		}
	case ports.TelemetryRetryScheduled:
		p.retryScheduledAt[e.DeviceId] = int64(e.At)
	case ports.TelemetryGattConnected:
		if scheduledAt, ok := p.retryScheduledAt[e.DeviceId]; ok {
			p.retryToConn.Observe(secondsBetween(scheduledAt, int64(e.At)))
			delete(p.retryScheduledAt, e.DeviceId)
		}
	case ports.TelemetryPageRead:
		p.pageReadAt[e.DeviceId] = int64(e.At)
	case ports.TelemetryAckSent:
		if readAt, ok := p.pageReadAt[e.DeviceId]; ok {
			p.readToAck.Observe(secondsBetween(readAt, int64(e.At)))
			delete(p.pageReadAt, e.DeviceId)
		}
	}
}

func secondsBetween(startMs, endMs int64) float64 {
	if endMs < startMs {
		return 0
	}
	return float64(endMs-startMs) / 1000.0
}

func setGaugeFromDecimal(gv *prometheus.GaugeVec, deviceId, decimal string) {
	v, err := strconv.ParseFloat(decimal, 64)
	if err != nil {
		return
	}
	gv.WithLabelValues(deviceId).Set(v)
}

var _ ports.TelemetryPort = (*PromTelemetry)(nil)

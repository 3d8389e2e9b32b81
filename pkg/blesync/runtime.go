package blesync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blesync/internal/adapters/blesim"
	"blesync/internal/adapters/filestore"
	"blesync/internal/adapters/sqldelivery"
	"blesync/internal/adapters/sysclock"
	"blesync/internal/adapters/telemetry"
	"blesync/internal/domain"
	"blesync/internal/policy"
	"blesync/internal/runtime"
	"blesync/internal/saga"
)

// RuntimeOption customizes the dependencies NewRuntime wires in place of the
// default adapter set.
type RuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	ble       BlePort
	delivery  DeliveryPort
	store     StateStorePort
	telemetry TelemetryPort
	clock     ClockPort
	registry  prometheus.Registerer
}

// WithBle injects a custom transport implementation in place of the BLE
// simulator.
func WithBle(b BlePort) RuntimeOption {
	return func(o *runtimeOverrides) { o.ble = b }
}

// WithDelivery injects a custom delivery sink in place of the SQL sink.
func WithDelivery(d DeliveryPort) RuntimeOption {
	return func(o *runtimeOverrides) { o.delivery = d }
}

// WithStore injects a custom snapshot store in place of the file store.
func WithStore(s StateStorePort) RuntimeOption {
	return func(o *runtimeOverrides) { o.store = s }
}

// WithTelemetry injects a custom telemetry sink in place of the Prometheus
// exporter.
func WithTelemetry(t TelemetryPort) RuntimeOption {
	return func(o *runtimeOverrides) { o.telemetry = t }
}

// WithClock injects a custom clock, e.g. a virtual clock under test.
func WithClock(c ClockPort) RuntimeOption {
	return func(o *runtimeOverrides) { o.clock = c }
}

// WithMetricsRegistry points the default Prometheus telemetry adapter at a
// caller-provided registry instead of the global default.
func WithMetricsRegistry(r prometheus.Registerer) RuntimeOption {
	return func(o *runtimeOverrides) { o.registry = r }
}

// Runtime owns one actor per configured device plus the metrics HTTP
// listener. It is the multi-device counterpart of a single DeviceActor:
// the engine's own Non-goals rule out one actor juggling many devices, so a
// Runtime is simply a map of independent actors sharing adapters.
type Runtime struct {
	cfg        *Config
	actors     map[DeviceId]*runtime.DeviceActor
	metricsSrv *http.Server
	closers    []func() error
}

// NewRuntime bootstraps the default adapters (BLE simulator, file store,
// SQL delivery sink, Prometheus telemetry, wall clock) for every device
// named in cfg.Devices. Callers can use RuntimeOption values to override
// any dependency.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if len(cfg.Devices) == 0 {
		return nil, fmt.Errorf("at least one device must be configured")
	}

	var ov runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&ov)
		}
	}

	rt := &Runtime{cfg: cfg, actors: make(map[DeviceId]*runtime.DeviceActor, len(cfg.Devices))}

	clk := ov.clock
	if clk == nil {
		clk = sysclock.New()
	}

	ble := ov.ble
	if ble == nil {
		sim, err := blesim.NewSimulator(cfg.Ble, clk)
		if err != nil {
			return nil, err
		}
		for _, dev := range cfg.Devices {
			sim.Seed(DeviceId(dev), cfg.Ble.DefaultEventCount, nil)
		}
		ble = sim
	}

	store := ov.store
	if store == nil {
		fs, err := filestore.NewFileStore(cfg.Store.Dir)
		if err != nil {
			return nil, err
		}
		store = fs
		rt.closers = append(rt.closers, fs.Close)
	}

	delivery := ov.delivery
	if delivery == nil {
		sink, err := sqldelivery.NewSqlSink(cfg.Delivery.Dsn, cfg.Delivery.Table, clk)
		if err != nil {
			return nil, err
		}
		delivery = sink
		rt.closers = append(rt.closers, sink.Close)
	}

	tel := ov.telemetry
	if tel == nil {
		reg := ov.registry
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		tel = telemetry.NewPromTelemetry(reg)
	}

	pol := saga.Policies{
		Retry: policy.NewExponentialRetryPolicy(
			cfg.Policy.MaxAttempts, cfg.Policy.MinBackoffMs, cfg.Policy.MaxBackoffMs,
			cfg.Policy.JitterRatio, policy.RandomSampler{},
		),
		Breaker: policy.NewDefaultBreakerPolicy(cfg.Policy.FailuresToOpen, cfg.Policy.CoolDownMs),
		PageSizing: policy.NewDefaultPageSizingPolicy(
			cfg.Policy.MinPage, cfg.Policy.MaxPage, cfg.Policy.GrowStep, cfg.Policy.ShrinkStep,
		),
	}

	wiring := runtime.Ports{Ble: ble, Delivery: delivery, Clock: clk, Store: store, Telemetry: tel}
	for _, dev := range cfg.Devices {
		id := DeviceId(dev)
		rt.actors[id] = runtime.NewDeviceActor(id, wiring, pol, cfg.Policy.DefaultPage)
	}

	return rt, nil
}

// Start launches one goroutine per actor plus the metrics HTTP listener. It
// returns immediately; call Run to block on a context instead.
func (r *Runtime) Start() {
	for _, a := range r.actors {
		go a.Start()
	}
	r.startMetrics()
}

// Run starts the runtime and blocks until ctx is cancelled, then performs a
// graceful shutdown.
func (r *Runtime) Run(ctx context.Context) error {
	r.Start()
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.Shutdown(shutdownCtx)
}

// Shutdown stops every actor, the metrics server, and any adapters with a
// Close method.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error

	for _, a := range r.actors {
		a.Stop()
	}

	if r.metricsSrv != nil {
		if err := r.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}

	for _, closer := range r.closers {
		if err := closer(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Aggregate returns the current in-memory state for a configured device.
func (r *Runtime) Aggregate(dev DeviceId) (SyncAggregate, bool) {
	a, ok := r.actors[dev]
	if !ok {
		return domain.SyncAggregate{}, false
	}
	return a.Aggregate(), true
}

// Devices returns the configured device identifiers.
func (r *Runtime) Devices() []DeviceId {
	out := make([]DeviceId, 0, len(r.actors))
	for dev := range r.actors {
		out = append(out, dev)
	}
	return out
}

func (r *Runtime) startMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.metricsSrv = &http.Server{
		Addr:    r.cfg.Metrics.Addr,
		Handler: mux,
	}

	go func() {
		if err := r.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server exited: %v", err)
		}
	}()
}

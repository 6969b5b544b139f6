// Package metrics exports observability hooks as Prometheus collectors.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/etchgrid/pkg/observability"
)

const namespace = "etchgrid"

// Metrics holds every collector and implements the observability hook
// interfaces.
type Metrics struct {
	fills       *prometheus.CounterVec
	clears      prometheus.Counter
	clearedCell prometheus.Counter
	resizes     *prometheus.CounterVec
	modeChanges *prometheus.CounterVec

	storeOps *prometheus.CounterVec

	cacheOps *prometheus.CounterVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		fills: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "grid",
			Name:      "fills_total",
			Help:      "Number of cell fills by mode.",
		}, []string{"mode"}),
		clears: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "grid",
			Name:      "clears_total",
			Help:      "Number of grid clears.",
		}),
		clearedCell: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "grid",
			Name:      "cleared_cells_total",
			Help:      "Number of cells whitened by clears.",
		}),
		resizes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "grid",
			Name:      "resizes_total",
			Help:      "Number of grid rebuilds by target size.",
		}, []string{"size"}),
		modeChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "grid",
			Name:      "mode_changes_total",
			Help:      "Number of mode switches by target mode.",
		}, []string{"mode"}),
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Sketch store operations by backend, operation and result.",
		}, []string{"backend", "op", "result"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Export cache lookups and writes.",
		}, []string{"kind", "result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"route"}),
	}

	for _, c := range []prometheus.Collector{
		m.fills, m.clears, m.clearedCell, m.resizes, m.modeChanges,
		m.storeOps, m.cacheOps, m.requests, m.requestDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Install registers m as the process-wide observability hooks.
func (m *Metrics) Install() {
	observability.SetSketchHooks(m)
	observability.SetStoreHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func (m *Metrics) OnFill(mode string) { m.fills.WithLabelValues(mode).Inc() }

func (m *Metrics) OnClear(cells int) {
	m.clears.Inc()
	m.clearedCell.Add(float64(cells))
}

func (m *Metrics) OnResize(_, to int) { m.resizes.WithLabelValues(strconv.Itoa(to)).Inc() }

func (m *Metrics) OnModeChange(_, to string) { m.modeChanges.WithLabelValues(to).Inc() }

func (m *Metrics) OnSave(_ context.Context, backend string, _ int, err error) {
	m.storeOps.WithLabelValues(backend, "save", result(err)).Inc()
}

func (m *Metrics) OnLoad(_ context.Context, backend string, hit bool, err error) {
	r := result(err)
	if err == nil && !hit {
		r = "miss"
	}
	m.storeOps.WithLabelValues(backend, "load", r).Inc()
}

func (m *Metrics) OnDelete(_ context.Context, backend string, err error) {
	m.storeOps.WithLabelValues(backend, "delete", result(err)).Inc()
}

func (m *Metrics) OnCacheHit(_ context.Context, kind string) {
	m.cacheOps.WithLabelValues(kind, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, kind string) {
	m.cacheOps.WithLabelValues(kind, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, kind string, _ int) {
	m.cacheOps.WithLabelValues(kind, "set").Inc()
}

func (m *Metrics) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ observability.SketchHooks = (*Metrics)(nil)
	_ observability.StoreHooks  = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)

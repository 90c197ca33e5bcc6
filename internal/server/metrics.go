package server

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/jeweler/pkg/observability"
)

const namespace = "jeweler"

// Metrics implements the observability hooks on Prometheus collectors.
type Metrics struct {
	enumerations     *prometheus.CounterVec
	enumerateSeconds *prometheus.HistogramVec
	enumerateResults *prometheus.HistogramVec
	searchSeconds    *prometheus.HistogramVec
	searchCandidates *prometheus.CounterVec
	exports          *prometheus.CounterVec
	catalogOps       *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpSeconds      *prometheus.HistogramVec
	httpErrors       *prometheus.CounterVec
	httpInFlight     prometheus.Gauge
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CatalogHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		enumerations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enumerations_total",
			Help:      "Enumeration runs by mode and outcome",
		}, []string{"mode", "status"}),
		enumerateSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "enumeration_duration_seconds",
			Help:      "Enumeration wall time",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"mode"}),
		enumerateResults: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "enumeration_results",
			Help:      "Representatives produced per run",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 8),
		}, []string{"mode"}),
		searchSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_length_duration_seconds",
			Help:      "Time to score every candidate of one code length",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"objective"}),
		searchCandidates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_candidates_total",
			Help:      "Codes scored by search",
		}, []string{"objective"}),
		exports: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Exports and renders by format and outcome",
		}, []string{"format", "status"}),
		catalogOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_operations_total",
			Help:      "Catalog lookups and writes",
		}, []string{"backend", "op"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP responses by route and status",
		}, []string{"method", "route", "status"}),
		httpSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Requests that ended in an error response",
		}, []string{"method", "route"}),
		httpInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests being served",
		}),
	}
}

// Register installs m as the process-wide observability hooks.
func (m *Metrics) Register() {
	observability.SetPipelineHooks(m)
	observability.SetCatalogHooks(m)
	observability.SetHTTPHooks(m)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnEnumerateStart(context.Context, string, int) {}

func (m *Metrics) OnEnumerateComplete(_ context.Context, mode string, results int, d time.Duration, err error) {
	m.enumerations.WithLabelValues(mode, status(err)).Inc()
	m.enumerateSeconds.WithLabelValues(mode).Observe(d.Seconds())
	if err == nil {
		m.enumerateResults.WithLabelValues(mode).Observe(float64(results))
	}
}

func (m *Metrics) OnSearchStart(context.Context, int, string) {}

func (m *Metrics) OnSearchComplete(_ context.Context, _ int, objective string, candidates int, d time.Duration, _ error) {
	m.searchSeconds.WithLabelValues(objective).Observe(d.Seconds())
	m.searchCandidates.WithLabelValues(objective).Add(float64(candidates))
}

func (m *Metrics) OnExportComplete(_ context.Context, format string, _ time.Duration, err error) {
	m.exports.WithLabelValues(format, status(err)).Inc()
}

func (m *Metrics) OnCatalogHit(_ context.Context, backend string) {
	m.catalogOps.WithLabelValues(backend, "hit").Inc()
}

func (m *Metrics) OnCatalogMiss(_ context.Context, backend string) {
	m.catalogOps.WithLabelValues(backend, "miss").Inc()
}

func (m *Metrics) OnCatalogPut(_ context.Context, backend string, improved bool) {
	op := "put"
	if improved {
		op = "improved"
	}
	m.catalogOps.WithLabelValues(backend, op).Inc()
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.httpInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.httpInFlight.Dec()
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpSeconds.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, method, route string, _ error) {
	m.httpErrors.WithLabelValues(method, route).Inc()
}

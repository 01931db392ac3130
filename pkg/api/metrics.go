package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of the scoring service.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ComparisonsTotal    *prometheus.CounterVec
	ComparedNodes       prometheus.Histogram
	UndefinedMetrics    *prometheus.CounterVec
	LFRSkipsTotal       prometheus.Counter
}

// NewMetrics registers every collector on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{registry: reg}

	m.HTTPRequestsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "lfrtools_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	m.HTTPRequestDuration = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lfrtools_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	m.ComparisonsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "lfrtools_comparisons_total",
			Help: "Clustering comparisons scored, by reconciliation policy",
		},
		[]string{"policy"},
	)
	m.ComparedNodes = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lfrtools_compared_nodes",
			Help:    "Number of aligned nodes per comparison",
			Buckets: prometheus.ExponentialBuckets(10, 10, 6),
		},
	)
	m.UndefinedMetrics = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "lfrtools_undefined_metrics_total",
			Help: "Metrics reported as undefined because of a zero denominator",
		},
		[]string{"metric"},
	)
	m.LFRSkipsTotal = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "lfrtools_lfr_skipped_total",
			Help: "LFR parameter requests skipped because cmin exceeds the largest cluster",
		},
	)

	m.registry.MustRegister(collectors.NewGoCollector())
	return m
}

// RecordHTTPRequest records an HTTP request with its duration
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

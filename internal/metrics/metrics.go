// Package metrics exposes classifier and API metrics to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aegis-aio/shellder/internal/classifier"
	"github.com/aegis-aio/shellder/internal/models"
)

const namespace = "shellder"

// Metrics owns a registry and the collectors registered on it.
type Metrics struct {
	registry *prometheus.Registry

	snapshots      *prometheus.CounterVec
	snapshotLines  *prometheus.HistogramVec
	categoryLines  *prometheus.GaugeVec
	entries        *prometheus.GaugeVec
	sessions       prometheus.Gauge
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		snapshots: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshots_total",
				Help:      "Log snapshots taken, by service and availability",
			},
			[]string{"service", "available"},
		),
		snapshotLines: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "snapshot_lines",
				Help:      "Number of log lines per snapshot",
				Buckets:   prometheus.ExponentialBuckets(100, 4, 8),
			},
			[]string{"service"},
		),
		categoryLines: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "category_lines",
				Help:      "Lines per category in the latest snapshot of a service",
			},
			[]string{"service", "category"},
		),
		entries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "entries",
				Help:      "Browser entries per tag in the latest snapshot of a service",
			},
			[]string{"service", "tag"},
		),
		sessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sessions_active",
				Help:      "Browsing sessions currently held by the API",
			},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests handled, by route and status",
			},
			[]string{"method", "route", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.snapshots,
		m.snapshotLines,
		m.categoryLines,
		m.entries,
		m.sessions,
		m.requests,
		m.requestLatency,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSnapshot records a snapshot of service.
func (m *Metrics) ObserveSnapshot(service string, available bool, lines int) {
	m.snapshots.WithLabelValues(service, strconv.FormatBool(available)).Inc()
	if available {
		m.snapshotLines.WithLabelValues(service).Observe(float64(lines))
	}
}

// ObserveCounts records the latest category counts of service.
func (m *Metrics) ObserveCounts(service string, counts []classifier.CategoryCount) {
	for _, c := range counts {
		m.categoryLines.WithLabelValues(service, c.Name).Set(float64(c.Count))
	}
}

// ObserveEntries records the latest per-tag entry counts of service.
func (m *Metrics) ObserveEntries(service string, tags map[models.Tag]int) {
	for _, tag := range []models.Tag{models.TagError, models.TagStartup} {
		m.entries.WithLabelValues(service, string(tag)).Set(float64(tags[tag]))
	}
}

// SetSessions records the number of live browsing sessions.
func (m *Metrics) SetSessions(n int) {
	m.sessions.Set(float64(n))
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(route).Observe(elapsed.Seconds())
}

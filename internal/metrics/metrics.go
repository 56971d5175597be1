// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GraphQL outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomePartial  = "partial"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
)

// Metrics holds all collectors for one server instance.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// GraphQL metrics
	GraphQLRequestsTotal   *prometheus.CounterVec
	GraphQLRequestDuration *prometheus.HistogramVec

	// Catalog metrics
	CatalogWritesTotal *prometheus.CounterVec
}

// New creates a fresh registry and registers every collector on it.
// The Go runtime and process collectors are included.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "moviegraph"
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being processed",
			},
		),

		GraphQLRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "graphql_requests_total",
				Help:      "Total number of GraphQL requests by outcome",
			},
			[]string{"outcome"},
		),

		GraphQLRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "graphql_execution_duration_seconds",
				Help:      "GraphQL execution time in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"outcome"},
		),

		CatalogWritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_writes_total",
				Help:      "Total number of catalog rows created",
			},
			[]string{"entity", "status"},
		),
	}
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the exposition handler for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordGraphQL records one executed (or rejected) GraphQL request.
func (m *Metrics) RecordGraphQL(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.GraphQLRequestsTotal.WithLabelValues(outcome).Inc()
	if outcome != OutcomeRejected {
		m.GraphQLRequestDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	}
}

// RecordWrite records a create operation against the catalog.
func (m *Metrics) RecordWrite(entity string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.CatalogWritesTotal.WithLabelValues(entity, status).Inc()
}

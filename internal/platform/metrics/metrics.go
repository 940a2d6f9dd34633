package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RegistrationLoads    *prometheus.CounterVec
	RegistrationLoadTime prometheus.Histogram
	Mutations            *prometheus.CounterVec
	CacheLookups         *prometheus.CounterVec
	BackendRequests      *prometheus.HistogramVec
	HTTPRequestDuration  *prometheus.HistogramVec
	RateLimitDecisions   *prometheus.CounterVec
}

var latencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// New creates and registers all Prometheus metrics with the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics with reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration panics.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RegistrationLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventreg_registration_loads_total",
			Help: "Registration loads by outcome (found, missing, error)",
		}, []string{"outcome"}),
		RegistrationLoadTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "eventreg_registration_load_duration_seconds",
			Help:    "Duration of registration loads including the backend fetch",
			Buckets: latencyBuckets,
		}),
		Mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventreg_registration_mutations_total",
			Help: "Status-changing calls by operation, status model and outcome",
		}, []string{"op", "kind", "outcome"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventreg_registration_cache_lookups_total",
			Help: "Registration cache lookups by result (hit, miss, error)",
		}, []string{"result"}),
		BackendRequests: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "eventreg_backend_request_duration_seconds",
			Help:    "Duration of registration backend calls",
			Buckets: latencyBuckets,
		}, []string{"method", "endpoint", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "eventreg_http_request_duration_seconds",
			Help:    "Duration of inbound HTTP requests",
			Buckets: latencyBuckets,
		}, []string{"method", "route", "status"}),
		RateLimitDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventreg_rate_limit_decisions_total",
			Help: "Mutation rate limit decisions (allowed, rejected, error)",
		}, []string{"decision"}),
	}
}

// ObserveLoad records a registration load. outcome is found, missing or error.
func (m *Metrics) ObserveLoad(outcome string, start time.Time) {
	m.RegistrationLoads.WithLabelValues(outcome).Inc()
	m.RegistrationLoadTime.Observe(time.Since(start).Seconds())
}

// IncrementMutation records a status-changing call.
func (m *Metrics) IncrementMutation(op, kind, outcome string) {
	m.Mutations.WithLabelValues(op, kind, outcome).Inc()
}

// RecordCacheLookup records a registration cache lookup.
func (m *Metrics) RecordCacheLookup(result string) {
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveBackendRequest records one backend round trip.
func (m *Metrics) ObserveBackendRequest(method, endpoint, status string, d time.Duration) {
	m.BackendRequests.WithLabelValues(method, endpoint, status).Observe(d.Seconds())
}

// ObserveHTTPRequest records one inbound request.
func (m *Metrics) ObserveHTTPRequest(method, route, status string, d time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

// RecordRateLimit counts one limiter decision.
func (m *Metrics) RecordRateLimit(decision string) {
	m.RateLimitDecisions.WithLabelValues(decision).Inc()
}

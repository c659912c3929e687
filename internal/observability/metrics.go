package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for the service.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	httpErrors        *prometheus.CounterVec
	statusTransitions *prometheus.CounterVec
	chatFailures      prometheus.Counter
}

// NewMetrics registers and returns the service collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_request_errors_total",
			Help: "Request errors by route, method and error code.",
		}, []string{"route", "method", "code"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "complaint_status_transitions_total",
			Help: "Successful complaint status transitions by target status.",
		}, []string{"to"}),
		chatFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chat_upstream_failures_total",
			Help: "Failed calls to the chat completion upstream.",
		}),
	}

	registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.httpErrors,
		m.statusTransitions,
		m.chatFailures,
	)
	return m
}

// Registry returns the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

// RecordRequest observes a completed HTTP request.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError counts a request that ended in a domain error.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.httpErrors.WithLabelValues(route, method, code).Inc()
}

// RecordStatusTransition counts a successful lifecycle transition.
func (m *Metrics) RecordStatusTransition(to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(to).Inc()
}

// RecordChatFailure counts a failed chat upstream call.
func (m *Metrics) RecordChatFailure() {
	if m == nil {
		return
	}
	m.chatFailures.Inc()
}

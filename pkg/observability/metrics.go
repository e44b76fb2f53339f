// Package observability exposes application metrics in Prometheus format.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments the server records into.
type Metrics struct {
	registry *prometheus.Registry

	// RequestsTotal counts HTTP requests by method, route pattern and status.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration observes HTTP request latency by method and route pattern.
	RequestDuration *prometheus.HistogramVec

	// QuestionsCreated counts questions successfully answered and persisted.
	QuestionsCreated prometheus.Counter

	// AIFailures counts upstream AI requests that failed after retries.
	AIFailures prometheus.Counter

	// RateLimited counts requests rejected by the rate limiter.
	RateLimited prometheus.Counter
}

// NewMetrics creates all instruments on a private registry so tests can hold
// independent instances.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		QuestionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "questions_created_total",
			Help: "Total questions answered and stored",
		}),
		AIFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "ai_failures_total",
			Help: "Total failed AI completion requests",
		}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "rate_limited_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}

// Handler returns the scrape endpoint for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

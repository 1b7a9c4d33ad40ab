// Package metrics registers the process-wide Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the shared HTTP-level Prometheus metrics. Feature packages
// register their own metrics next to their services.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
}

// New creates and registers all shared Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_api_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_api_requests_total",
			Help: "Total HTTP requests by route and status.",
		}, []string{"route", "status"}),
	}
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(route, status string, elapsed time.Duration) {
	m.RequestDuration.WithLabelValues(route, status).Observe(elapsed.Seconds())
	m.RequestsTotal.WithLabelValues(route, status).Inc()
}

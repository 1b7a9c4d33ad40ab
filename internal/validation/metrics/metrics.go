// Package metrics registers the Prometheus metrics of the validation engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the validation engine's Prometheus metrics.
type Metrics struct {
	Runs         *prometheus.CounterVec
	RunDuration  *prometheus.HistogramVec
	RuleFailures *prometheus.CounterVec
}

// New creates and registers all validation metrics.
func New() *Metrics {
	return &Metrics{
		Runs: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_validation_runs_total",
			Help: "Validation runs by operation and outcome (valid, invalid, error).",
		}, []string{"operation", "outcome"}),
		RunDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_validation_run_duration_seconds",
			Help:    "End-to-end latency of one validation run.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		RuleFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_validation_rule_failures_total",
			Help: "Rule verdicts with valid=false, by rule name.",
		}, []string{"rule"}),
	}
}

// ObserveRun records one completed validation run.
func (m *Metrics) ObserveRun(operation, outcome string, elapsed time.Duration) {
	m.Runs.WithLabelValues(operation, outcome).Inc()
	m.RunDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// IncRuleFailure counts one failed rule verdict.
func (m *Metrics) IncRuleFailure(rule string) {
	m.RuleFailures.WithLabelValues(rule).Inc()
}

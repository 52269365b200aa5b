// Package metrics exposes Prometheus instrumentation for analysis runs.
//
// All observation methods are nil-safe so callers can wire metrics
// optionally: a nil *Metrics records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the orchestration pipeline.
type Metrics struct {
	// RunsTotal counts orchestration runs by outcome (completed, cancelled,
	// timed_out).
	RunsTotal *prometheus.CounterVec

	// UnitResultsTotal counts per-unit outcomes by kind and status
	// (success, failure, cancelled).
	UnitResultsTotal *prometheus.CounterVec

	// CancellationsTotal counts cancellation requests observed by the
	// collection loop.
	CancellationsTotal prometheus.Counter

	// LLMCallsTotal counts model invocations by outcome (success, failure).
	LLMCallsTotal *prometheus.CounterVec

	// UnitDurationSeconds measures wall-clock duration per unit kind.
	UnitDurationSeconds *prometheus.HistogramVec

	// RunDurationSeconds measures total orchestration duration.
	RunDurationSeconds prometheus.Histogram
}

// New creates metrics registered with the default Prometheus registerer.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates metrics registered with the given registerer. Tests pass a
// fresh prometheus.NewRegistry to avoid duplicate-registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "repolens",
				Subsystem: "orchestrator",
				Name:      "runs_total",
				Help:      "Total orchestration runs by outcome",
			},
			[]string{"outcome"},
		),

		UnitResultsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "repolens",
				Subsystem: "orchestrator",
				Name:      "unit_results_total",
				Help:      "Per-unit results by kind and status",
			},
			[]string{"kind", "status"},
		),

		CancellationsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "repolens",
				Subsystem: "orchestrator",
				Name:      "cancellations_total",
				Help:      "Cancellation requests observed during collection",
			},
		),

		LLMCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "repolens",
				Subsystem: "model",
				Name:      "llm_calls_total",
				Help:      "Model invocations by outcome",
			},
			[]string{"outcome"},
		),

		UnitDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "repolens",
				Subsystem: "orchestrator",
				Name:      "unit_duration_seconds",
				Help:      "Wall-clock duration per analyzer unit",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
			},
			[]string{"kind"},
		),

		RunDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "repolens",
				Subsystem: "orchestrator",
				Name:      "run_duration_seconds",
				Help:      "Total orchestration run duration",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14),
			},
		),
	}
}

// ObserveRun records one finished orchestration run.
func (m *Metrics) ObserveRun(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(outcome).Inc()
	m.RunDurationSeconds.Observe(d.Seconds())
}

// ObserveUnit records one unit result.
func (m *Metrics) ObserveUnit(kind, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.UnitResultsTotal.WithLabelValues(kind, status).Inc()
	m.UnitDurationSeconds.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveCancellation records one observed cancellation request.
func (m *Metrics) ObserveCancellation() {
	if m == nil {
		return
	}
	m.CancellationsTotal.Inc()
}

// ObserveLLMCall records one model invocation.
func (m *Metrics) ObserveLLMCall(success bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.LLMCallsTotal.WithLabelValues(outcome).Inc()
}

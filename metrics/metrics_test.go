package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObservations(t *testing.T) {
	m := NewWith(prometheus.NewRegistry())

	m.ObserveRun("completed", 2*time.Second)
	m.ObserveUnit("expertise", "success", time.Second)
	m.ObserveUnit("timeline", "cancelled", time.Millisecond)
	m.ObserveCancellation()
	m.ObserveLLMCall(true)
	m.ObserveLLMCall(false)

	assert.Equal(t, 1.0, promtest.ToFloat64(m.RunsTotal.WithLabelValues("completed")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.UnitResultsTotal.WithLabelValues("expertise", "success")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.UnitResultsTotal.WithLabelValues("timeline", "cancelled")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.CancellationsTotal))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.LLMCallsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.LLMCallsTotal.WithLabelValues("failure")))
}

func TestNilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRun("completed", time.Second)
		m.ObserveUnit("expertise", "success", time.Second)
		m.ObserveCancellation()
		m.ObserveLLMCall(true)
	})
}

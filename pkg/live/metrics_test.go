package live

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func resetGlobalMetricsForTest() {
	globalMetricsMu.Lock()
	globalMetrics = nil
	globalMetricsMu.Unlock()
}

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func TestMetricsRecording(t *testing.T) {
	resetGlobalMetricsForTest()
	RegisterMetrics(prometheus.NewRegistry())
	m := activeMetrics()

	recordSessionOpen()
	recordSessionOpen()
	recordSessionClose()
	if got := metricGaugeValue(t, m.activeSessions); got != 1 {
		t.Errorf("active_sessions = %v, want 1", got)
	}

	recordEvent("click", "ok", 5*time.Millisecond)
	recordEvent("click", "ok", 3*time.Millisecond)
	recordEvent("input", "error", time.Millisecond)
	if got := metricCounterValue(t, m.eventsTotal.WithLabelValues("click", "ok")); got != 2 {
		t.Errorf("events_total(click, ok) = %v, want 2", got)
	}
	if got := metricCounterValue(t, m.eventsTotal.WithLabelValues("input", "error")); got != 1 {
		t.Errorf("events_total(input, error) = %v, want 1", got)
	}

	recordPatches(3)
	recordPatches(0) // empty flushes are not counted
	if got := metricCounterValue(t, m.patchesSent); got != 3 {
		t.Errorf("patches_sent_total = %v, want 3", got)
	}

	recordError("bad_frame")
	if got := metricCounterValue(t, m.errorsTotal.WithLabelValues("bad_frame")); got != 1 {
		t.Errorf("session_errors_total(bad_frame) = %v, want 1", got)
	}
}

func TestRegisterMetricsFirstWins(t *testing.T) {
	resetGlobalMetricsForTest()
	first := prometheus.NewRegistry()
	second := prometheus.NewRegistry()

	RegisterMetrics(first)
	RegisterMetrics(second)
	recordSessionOpen()

	families, err := first.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "knobs_active_sessions" {
			found = true
		}
	}
	if !found {
		t.Error("metrics not registered on the first registry")
	}

	families, err = second.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	if len(families) != 0 {
		t.Errorf("second registry has %d families, want 0", len(families))
	}
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveMessage(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewIntakeMetrics(reg)

	m.ObserveMessage("greeting", "awaiting_role")
	m.ObserveMessage("greeting", "awaiting_role")
	m.ObserveMessage("affirmative", "confirmed")

	if got := testutil.ToFloat64(m.messagesTotal.WithLabelValues("greeting", "awaiting_role")); got != 2 {
		t.Errorf("expected 2 greeting messages, got %v", got)
	}
	if got := testutil.ToFloat64(m.messagesTotal.WithLabelValues("affirmative", "confirmed")); got != 1 {
		t.Errorf("expected 1 affirmative message, got %v", got)
	}
}

func TestObserveNarration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewIntakeMetrics(reg)

	m.ObserveNarration("polly", false)
	m.ObserveNarration("polly", true)

	if got := testutil.ToFloat64(m.narrationTotal.WithLabelValues("polly", "audio")); got != 1 {
		t.Errorf("expected 1 audio outcome, got %v", got)
	}
	if got := testutil.ToFloat64(m.narrationTotal.WithLabelValues("polly", "fallback")); got != 1 {
		t.Errorf("expected 1 fallback outcome, got %v", got)
	}
}

func TestNilMetricsSafe(t *testing.T) {
	var m *IntakeMetrics
	m.ObserveMessage("x", "y")
	m.ObserveConfirmed()
	m.ObserveNarration("polly", false)
	m.ObserveTurnLatency(0.1)
}

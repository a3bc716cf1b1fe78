package metrics

import "github.com/prometheus/client_golang/prometheus"

// IntakeMetrics exposes counters/histograms for the intake conversation flow.
type IntakeMetrics struct {
	messagesTotal  *prometheus.CounterVec
	confirmedTotal prometheus.Counter
	narrationTotal *prometheus.CounterVec
	turnLatency    prometheus.Histogram
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Subsystem: "dialogue",
			Name:      "messages_total",
			Help:      "Total processed messages by classified intent and resulting stage",
		}, []string{"intent", "stage"}),
		confirmedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "intake",
			Subsystem: "dialogue",
			Name:      "appointments_confirmed_total",
			Help:      "Total appointments confirmed",
		}),
		narrationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Subsystem: "narration",
			Name:      "requests_total",
			Help:      "Total narration requests by engine and outcome",
		}, []string{"engine", "outcome"}),
		turnLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "intake",
			Subsystem: "dialogue",
			Name:      "turn_latency_seconds",
			Help:      "Latency of one dialogue turn end to end",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.messagesTotal, m.confirmedTotal, m.narrationTotal, m.turnLatency)
	return m
}

func (m *IntakeMetrics) ObserveMessage(intent, stage string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(intent, stage).Inc()
}

func (m *IntakeMetrics) ObserveConfirmed() {
	if m == nil {
		return
	}
	m.confirmedTotal.Inc()
}

func (m *IntakeMetrics) ObserveNarration(engine string, fallback bool) {
	if m == nil {
		return
	}
	outcome := "audio"
	if fallback {
		outcome = "fallback"
	}
	m.narrationTotal.WithLabelValues(engine, outcome).Inc()
}

func (m *IntakeMetrics) ObserveTurnLatency(seconds float64) {
	if m == nil {
		return
	}
	m.turnLatency.Observe(seconds)
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/histograms for the chat pipeline.
type ConversationMetrics struct {
	turnsTotal        *prometheus.CounterVec
	turnLatency       *prometheus.HistogramVec
	statusChanges     *prometheus.CounterVec
	bookingDispatches *prometheus.CounterVec
	kbFactsServed     prometheus.Counter
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "argaman",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Total chat turns processed",
		}, []string{"outcome"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "argaman",
			Subsystem: "conversation",
			Name:      "turn_latency_seconds",
			Help:      "End-to-end latency of one chat turn including the remote run",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30},
		}, []string{"outcome"}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "argaman",
			Subsystem: "conversation",
			Name:      "status_changes_total",
			Help:      "Pipeline status transitions",
		}, []string{"status"}),
		bookingDispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "argaman",
			Subsystem: "booking",
			Name:      "dispatch_total",
			Help:      "Calendar booking dispatch attempts",
		}, []string{"result"}),
		kbFactsServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "argaman",
			Subsystem: "knowledge",
			Name:      "facts_served_total",
			Help:      "Knowledge base facts attached to outbound prompts",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.turnLatency, m.statusChanges, m.bookingDispatches, m.kbFactsServed)
	return m
}

func (m *ConversationMetrics) ObserveTurn(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(outcome).Inc()
	m.turnLatency.WithLabelValues(outcome).Observe(seconds)
}

func (m *ConversationMetrics) ObserveStatusChange(status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(status).Inc()
}

func (m *ConversationMetrics) ObserveBookingDispatch(result string) {
	if m == nil {
		return
	}
	m.bookingDispatches.WithLabelValues(result).Inc()
}

func (m *ConversationMetrics) AddKBFacts(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.kbFactsServed.Add(float64(n))
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/SuryanshuBanerjee/tempmitra/internal/triage"
)

// Metrics exposes Prometheus collectors for triage activity.
type Metrics struct {
	messages    *prometheus.CounterVec
	crisis      prometheus.Counter
	escalations prometheus.Counter
	screenings  *prometheus.CounterVec
}

// New builds the collectors and registers them on reg unless reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mitra",
			Subsystem: "triage",
			Name:      "messages_classified_total",
			Help:      "Chat messages classified, by topic and sentiment.",
		}, []string{"topic", "sentiment"}),
		crisis: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mitra",
			Subsystem: "triage",
			Name:      "crisis_messages_total",
			Help:      "Chat messages that matched the crisis lexicon.",
		}),
		escalations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mitra",
			Subsystem: "triage",
			Name:      "session_escalations_total",
			Help:      "Chat sessions moved from active to escalated.",
		}),
		screenings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mitra",
			Subsystem: "screening",
			Name:      "scored_total",
			Help:      "Screening submissions scored, by instrument and risk tier.",
		}, []string{"instrument", "tier"}),
	}
	if reg != nil {
		reg.MustRegister(m.messages, m.crisis, m.escalations, m.screenings)
	}
	return m
}

// ObserveClassification counts one classified message
func (m *Metrics) ObserveClassification(r triage.ClassificationResult) {
	m.messages.WithLabelValues(string(r.Topic), string(r.Sentiment)).Inc()
	if r.Crisis {
		m.crisis.Inc()
	}
}

// ObserveEscalation counts one active -> escalated transition
func (m *Metrics) ObserveEscalation() {
	m.escalations.Inc()
}

// ObserveScreening counts one scored submission
func (m *Metrics) ObserveScreening(r triage.ScreeningResult) {
	m.screenings.WithLabelValues(string(r.Instrument), string(r.RiskTier)).Inc()
}

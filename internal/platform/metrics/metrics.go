package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the intake service counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	SubmissionsTotal      *prometheus.CounterVec
	VerificationAttempts  *prometheus.CounterVec
	NationalIDValidations *prometheus.CounterVec
	AnalyticsEvents       *prometheus.CounterVec
}

// New registers the metrics with the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer lets tests use a private registry so repeated construction does not panic.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SubmissionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_submissions_total",
			Help: "Submissions received, by result (created, rejected, failed)",
		}, []string{"result"}),
		VerificationAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_verification_attempts_total",
			Help: "Verification steps submitted, by step and outcome",
		}, []string{"step", "outcome"}),
		NationalIDValidations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_national_id_validations_total",
			Help: "Standalone national ID checks, by validity",
		}, []string{"valid"}),
		AnalyticsEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_analytics_events_total",
			Help: "Analytics events stored, by origin (client, server)",
		}, []string{"origin"}),
	}
}

func (m *Metrics) IncrementSubmissions(result string) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementVerificationAttempts(step, outcome string) {
	if m == nil {
		return
	}
	m.VerificationAttempts.WithLabelValues(step, outcome).Inc()
}

func (m *Metrics) IncrementNationalIDValidations(valid bool) {
	if m == nil {
		return
	}
	label := "false"
	if valid {
		label = "true"
	}
	m.NationalIDValidations.WithLabelValues(label).Inc()
}

func (m *Metrics) IncrementAnalyticsEvents(origin string) {
	if m == nil {
		return
	}
	m.AnalyticsEvents.WithLabelValues(origin).Inc()
}

package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "coaching"
	subsystem = "intake"
)

// Advance outcomes.
const (
	OutcomeBlocked      = "blocked"
	OutcomeAdvanced     = "advanced"
	OutcomeSubmitted    = "submitted"
	OutcomeSubmitFailed = "submit_failed"
)

// Submission statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// IntakeMetrics exposes counters/histograms for the intake funnel.
type IntakeMetrics struct {
	fieldUpdates      *prometheus.CounterVec
	advanceTotal      *prometheus.CounterVec
	submissionsTotal  *prometheus.CounterVec
	submissionLatency *prometheus.HistogramVec
	activeSessions    prometheus.Gauge
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		fieldUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "field_updates_total",
			Help:      "Total field updates by page",
		}, []string{"page"}),
		advanceTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "advance_total",
			Help:      "Total advance attempts by page and outcome",
		}, []string{"page", "outcome"}),
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "submissions_total",
			Help:      "Total submissions to the spreadsheet endpoint",
		}, []string{"status"}),
		submissionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "submission_latency_seconds",
			Help:      "Latency of submissions to the spreadsheet endpoint",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "active_sessions",
			Help:      "Forms currently held in memory",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.fieldUpdates, m.advanceTotal, m.submissionsTotal, m.submissionLatency, m.activeSessions)
	return m
}

func (m *IntakeMetrics) ObserveFieldUpdate(page int) {
	if m == nil {
		return
	}
	m.fieldUpdates.WithLabelValues(strconv.Itoa(page)).Inc()
}

func (m *IntakeMetrics) ObserveAdvance(page int, outcome string) {
	if m == nil {
		return
	}
	m.advanceTotal.WithLabelValues(strconv.Itoa(page), outcome).Inc()
}

func (m *IntakeMetrics) ObserveSubmission(status string, seconds float64) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(status).Inc()
	m.submissionLatency.WithLabelValues(status).Observe(seconds)
}

func (m *IntakeMetrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters for the lead capture flow. All methods are
// nil-safe so callers can run without metrics wired.
type LeadMetrics struct {
	submissionsTotal *prometheus.CounterVec
	syncTotal        *prometheus.CounterVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "socialboost",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Lead submissions by outcome",
		}, []string{"status"}),
		syncTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "socialboost",
			Subsystem: "leads",
			Name:      "sync_total",
			Help:      "Background CRM sync attempts by adapter and outcome",
		}, []string{"adapter", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.syncTotal)
	return m
}

// ObserveSubmission counts one submission with the given outcome
// (created, invalid, duplicate, error).
func (m *LeadMetrics) ObserveSubmission(status string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(status).Inc()
}

// ObserveSync counts one background sync attempt for an adapter.
func (m *LeadMetrics) ObserveSync(adapter, outcome string) {
	if m == nil {
		return
	}
	m.syncTotal.WithLabelValues(adapter, outcome).Inc()
}

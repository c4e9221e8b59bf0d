package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the KYC module.
type Metrics struct {
	// Verification attempts by final result
	VerificationsTotal *prometheus.CounterVec

	// Remote verifier outcomes (valid, invalid, service_error)
	VerifierOutcomes *prometheus.CounterVec

	// Remote verifier call latency
	VerifierLatency prometheus.Histogram

	// Status cache reads by result (hit, miss, stale)
	CacheReads *prometheus.CounterVec

	// Purchase gate verdicts
	GateDecisions *prometheus.CounterVec
}

// New creates a new Metrics instance with all KYC module metrics registered.
func New() *Metrics {
	return &Metrics{
		VerificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vaultly_kyc_verifications_total",
			Help: "Total verification attempts by result",
		}, []string{"result"}), // result: "verified", "format_rejected", "duplicate", "provider_rejected", "provider_error", "persistence_error"

		VerifierOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vaultly_kyc_verifier_outcomes_total",
			Help: "Remote PAN verifier outcomes",
		}, []string{"outcome"}),

		VerifierLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vaultly_kyc_verifier_duration_seconds",
			Help:    "Duration of remote PAN validation calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		CacheReads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vaultly_kyc_status_cache_reads_total",
			Help: "Status cache reads by result",
		}, []string{"result"}), // result: "hit", "miss", "stale"

		GateDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vaultly_kyc_gate_decisions_total",
			Help: "Purchase gate verdicts",
		}, []string{"verdict"}), // verdict: "allowed", "requires_kyc"
	}
}

// RecordVerification records the final result of a verification attempt.
func (m *Metrics) RecordVerification(result string) {
	if m != nil {
		m.VerificationsTotal.WithLabelValues(result).Inc()
	}
}

// RecordVerifierOutcome records one remote verifier outcome.
func (m *Metrics) RecordVerifierOutcome(outcome string) {
	if m != nil {
		m.VerifierOutcomes.WithLabelValues(outcome).Inc()
	}
}

// ObserveVerifierLatency records the duration of a remote validation call.
func (m *Metrics) ObserveVerifierLatency(d time.Duration) {
	if m != nil {
		m.VerifierLatency.Observe(d.Seconds())
	}
}

// RecordCacheRead records a status cache read result.
func (m *Metrics) RecordCacheRead(result string) {
	if m != nil {
		m.CacheReads.WithLabelValues(result).Inc()
	}
}

// RecordGateDecision records a purchase gate verdict.
func (m *Metrics) RecordGateDecision(verdict string) {
	if m != nil {
		m.GateDecisions.WithLabelValues(verdict).Inc()
	}
}

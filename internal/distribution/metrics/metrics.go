package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the distribution engine.
// Tracks value flow, governance activity and critical path durations.
type Metrics struct {
	DepositsTotal      prometheus.Counter
	DistributionsTotal prometheus.Counter
	DistributedAmount  *prometheus.CounterVec
	Phase              *prometheus.GaugeVec
	DistributeDuration prometheus.Histogram
	GovernanceActions  *prometheus.CounterVec
}

// New creates a new Metrics instance with all engine metrics registered.
func New() *Metrics {
	return &Metrics{
		DepositsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "treasury_deposits_total",
			Help: "Total number of accepted deposits",
		}),
		DistributionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "treasury_distributions_total",
			Help: "Total number of executed distributions",
		}),
		DistributedAmount: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "treasury_distributed_amount_total",
			Help: "Total value distributed, in minor units, by beneficiary",
		}, []string{"beneficiary"}),
		Phase: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "treasury_phase",
			Help: "Current lifecycle phase (1 for the active phase, 0 otherwise)",
		}, []string{"phase"}),
		DistributeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "treasury_distribute_duration_seconds",
			Help:    "Duration of distribute operations (payout critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		GovernanceActions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "treasury_governance_actions_total",
			Help: "Total number of successful governance actions, by action",
		}, []string{"action"}),
	}
}

// IncrementDeposits records an accepted deposit.
func (m *Metrics) IncrementDeposits() {
	m.DepositsTotal.Inc()
}

// ObserveDistribution records one executed distribution and its payouts.
func (m *Metrics) ObserveDistribution(start time.Time, founder, dao, charity int64) {
	m.DistributionsTotal.Inc()
	m.DistributedAmount.WithLabelValues("founder").Add(float64(founder))
	m.DistributedAmount.WithLabelValues("dao").Add(float64(dao))
	m.DistributedAmount.WithLabelValues("charity").Add(float64(charity))
	m.DistributeDuration.Observe(time.Since(start).Seconds())
}

// IncrementGovernance records a successful governance action.
func (m *Metrics) IncrementGovernance(action string) {
	m.GovernanceActions.WithLabelValues(action).Inc()
}

// SetPhase marks the active lifecycle phase.
func (m *Metrics) SetPhase(phase string) {
	for _, p := range []string{"survival", "transition", "permanent"} {
		value := 0.0
		if p == phase {
			value = 1.0
		}
		m.Phase.WithLabelValues(p).Set(value)
	}
}

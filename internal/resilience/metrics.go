package resilience

import "github.com/prometheus/client_golang/prometheus"

// The shop runs a single breaker around the payment gateway; the target
// label leaves room for further wrapped dependencies.
var (
	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "choco",
			Name:      "breaker_state",
			Help:      "Breaker state per target (0 closed, 1 open, 2 half-open).",
		},
		[]string{"target"},
	)
	BreakerTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "choco",
			Name:      "breaker_transitions_total",
			Help:      "Breaker state transitions per target.",
		},
		[]string{"target", "from", "to"},
	)
	BreakerOpenedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "choco",
			Name:      "breaker_opened_total",
			Help:      "Times a breaker tripped open and charges started failing fast.",
		},
		[]string{"target"},
	)
)

func init() {
	prometheus.MustRegister(BreakerState, BreakerTransitions, BreakerOpenedTotal)
}

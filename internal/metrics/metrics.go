package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RoundsArbitrated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jokenpo_rounds_arbitrated_total",
			Help: "Rounds resolved by the arbitration service",
		},
		[]string{"verdict"},
	)
	RoundsCommitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jokenpo_rounds_committed_total",
			Help: "Rounds committed into a match session",
		},
		[]string{"verdict"},
	)
	RoundsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jokenpo_rounds_failed_total",
			Help: "Rounds abandoned after an arbitration failure",
		},
		[]string{"reason"},
	)
	ArbiterRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jokenpo_arbiter_retries_total",
			Help: "Arbitration attempts retried after a transient failure",
		},
	)
	MatchesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jokenpo_matches_finished_total",
			Help: "Finished matches by outcome",
		},
		[]string{"outcome"},
	)
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "jokenpo_active_sessions",
			Help: "Match sessions currently attached to a websocket",
		},
	)
)

func init() {
	prometheus.MustRegister(RoundsArbitrated)
	prometheus.MustRegister(RoundsCommitted)
	prometheus.MustRegister(RoundsFailed)
	prometheus.MustRegister(ArbiterRetries)
	prometheus.MustRegister(MatchesFinished)
	prometheus.MustRegister(ActiveSessions)
}

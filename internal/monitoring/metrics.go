package monitoring

import "github.com/prometheus/client_golang/prometheus"

var (
	RoundsRevealed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fairdice_rounds_revealed_total",
			Help: "Completed commit-reveal rounds by purpose",
		},
		[]string{"purpose"},
	)

	Verifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fairdice_verifications_total",
			Help: "Commitment verification requests by result",
		},
		[]string{"result"},
	)

	MatchesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fairdice_matches_finished_total",
			Help: "Finished matches by last winner",
		},
		[]string{"winner"},
	)
)

func Init() {
	prometheus.MustRegister(RoundsRevealed)
	prometheus.MustRegister(Verifications)
	prometheus.MustRegister(MatchesFinished)
}

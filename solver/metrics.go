package solver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// climbIterations counts hill climbing iterations by cipher type
	climbIterations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quagmire_climb_iterations_total",
		Help: "Total hill climbing iterations by cipher type",
	}, []string{"type"})

	// climbMoves counts accepted and rejected moves by kind
	climbMoves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quagmire_climb_moves_total",
		Help: "Hill climbing events by cipher type and kind",
	}, []string{"type", "kind"})

	// combinationsTotal counts combinations by outcome
	combinationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quagmire_combinations_total",
		Help: "Length combinations by outcome",
	}, []string{"type", "outcome"})

	// combinationDuration tracks how long one combination takes to climb
	combinationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quagmire_combination_duration_seconds",
		Help:    "Hill climb duration per combination in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4min
	}, []string{"type"})

	// bestScore is the best score of the most recent run
	bestScore = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "quagmire_best_score",
		Help: "Best score of the most recent run by cipher type",
	}, []string{"type"})
)

func recordOutcome(typ string, o Outcome) {
	climbIterations.WithLabelValues(typ).Add(float64(o.Stats.Iterations))
	climbMoves.WithLabelValues(typ, "improvement").Add(float64(o.Stats.Improvements))
	climbMoves.WithLabelValues(typ, "slip").Add(float64(o.Stats.Slips))
	climbMoves.WithLabelValues(typ, "backtrack").Add(float64(o.Stats.Backtracks))
	climbMoves.WithLabelValues(typ, "contradiction").Add(float64(o.Stats.Contradictions))
	combinationDuration.WithLabelValues(typ).Observe(o.Stats.Elapsed.Seconds())
}

// WriteMetrics writes every registered metric to path in the text
// exposition format.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

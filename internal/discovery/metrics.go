package discovery

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	discoveryRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_requests_total",
			Help: "Total number of discovery requests",
		},
		[]string{"outcome"},
	)

	candidatesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discovery_candidates_returned",
			Help:    "Eligible candidates per discovery request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discovery_compatibility_scores",
			Help:    "Distribution of compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	interactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_interactions_total",
			Help: "Total number of recorded interactions",
		},
		[]string{"action"},
	)

	matchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_matches_total",
			Help: "Total number of matches created",
		},
	)

	discoveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "discovery_duration_seconds",
			Help: "Time spent serving discovery operations",
		},
		[]string{"operation"},
	)
)

func RecordDiscovery(outcome string, eligible int) {
	discoveryRequestsTotal.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		candidatesReturned.Observe(float64(eligible))
	}
}

func RecordCompatibilityScore(score int) {
	compatibilityScores.Observe(float64(score))
}

func RecordInteraction(action Action) {
	interactionsTotal.WithLabelValues(string(action)).Inc()
}

func RecordMatch() {
	matchesTotal.Inc()
}

func RecordDuration(operation string, since time.Time) {
	discoveryDuration.WithLabelValues(operation).Observe(time.Since(since).Seconds())
}

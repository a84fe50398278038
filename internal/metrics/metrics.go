package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScoreQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "score_queries_total",
			Help: "Total number of score queries by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	ScoreValueHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "score_query_value",
			Help:    "Distribution of scores returned by queries",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"kind"},
	)

	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)

// Query outcomes.
const (
	OutcomeFound    = "found"
	OutcomeEmpty    = "empty"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval Prometheus metrics.
var (
	// RetrievalCandidatesTotal counts every vector match the pipeline looked at,
	// labelled with what happened to it.
	RetrievalCandidatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "retrieval_candidates_total",
			Help:      "Vector matches examined by the retrieval pipeline, by outcome",
		},
		[]string{"source", "outcome"},
	)

	RetrievalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "retrieval_duration_seconds",
			Help:      "End-to-end retrieval duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)

	RetrievalResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "retrieval_results",
			Help:      "Number of results returned per retrieval",
			Buckets:   []float64{0, 1, 5, 10, 20, 50},
		},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers the retrieval pipeline metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalCandidatesTotal)
	prometheus.MustRegister(RetrievalDuration)
	prometheus.MustRegister(RetrievalResults)
	retrievalMetricsRegistered = true
}

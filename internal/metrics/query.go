package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query pipeline Prometheus metrics.
var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wellspring",
			Name:      "queries_total",
			Help:      "Total queries processed, by response source and query type",
		},
		[]string{"source", "query_type"},
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wellspring",
			Name:      "query_duration_seconds",
			Help:      "End-to-end query processing duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	QueryConfidence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "wellspring",
			Name:      "query_confidence",
			Help:      "Confidence score distribution of composed responses",
			Buckets:   []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
	)

	ExternalFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wellspring",
			Name:      "external_fallbacks_total",
			Help:      "External provider attempts that fell back to internal search",
		},
		[]string{"query_type", "reason"}, // reason: "empty" / "error" / "timeout"
	)
)

var queryMetricsRegistered bool

// RegisterQueryMetrics registers Prometheus query metrics. Must be called once from main.
func RegisterQueryMetrics() {
	if queryMetricsRegistered {
		return
	}
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(QueryConfidence)
	prometheus.MustRegister(ExternalFallbacksTotal)
	queryMetricsRegistered = true
}

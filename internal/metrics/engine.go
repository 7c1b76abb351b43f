package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search engine Prometheus metrics.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gijidex",
			Name:      "upstream_requests_total",
			Help:      "Total number of minutes API page requests",
		},
		[]string{"status"}, // "success" / "remote_error" / "transport_error"
	)

	UpstreamRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "gijidex",
			Name:      "upstream_request_duration_seconds",
			Help:      "Minutes API page request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	UpstreamRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gijidex",
			Name:      "upstream_retries_total",
			Help:      "Total number of retried minutes API requests",
		},
	)

	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gijidex",
			Name:      "searches_total",
			Help:      "Total number of search pipeline runs",
		},
		[]string{"status"}, // "success" / "error"
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "gijidex",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search pipeline duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	SkippedRecordsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gijidex",
			Name:      "skipped_records_total",
			Help:      "Total raw items dropped during normalization",
		},
	)

	HistoryWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gijidex",
			Name:      "history_writes_total",
			Help:      "Total history store writes",
		},
		[]string{"status"}, // "success" / "error"
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers Prometheus engine metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(UpstreamRetriesTotal)
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SkippedRecordsTotal)
	prometheus.MustRegister(HistoryWritesTotal)
	engineMetricsRegistered = true
}

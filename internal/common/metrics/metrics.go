// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipl_searches_completed_total",
			Help: "Total number of searches answered by the API",
		},
		[]string{"outcome"},
	)

	SearchesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipl_searches_failed_total",
			Help: "Total number of searches that failed",
		},
		[]string{"error_code"},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipl_search_duration_seconds",
			Help: "Duration of search requests in seconds",
		},
		[]string{"outcome"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipl_cache_lookups_total",
			Help: "Response cache lookups by result",
		},
		[]string{"result"},
	)

	BatchRecordsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pipl_batch_records_active",
			Help: "Number of batch records currently in flight",
		},
		[]string{"stage"},
	)

	SinkWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipl_sink_writes_total",
			Help: "Batch result writes per sink and status",
		},
		[]string{"sink", "status"},
	)

	APIQuota = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pipl_api_quota",
			Help: "API key rate and quota counters from the latest response headers",
		},
		[]string{"counter"},
	)
)

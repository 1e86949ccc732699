package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 搜索与同步相关指标
var (
	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nearshelf",
			Name:      "search_duration_seconds",
			Help:      "Search executor duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	SearchCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nearshelf",
			Name:      "search_candidates",
			Help:      "Candidates fetched from the catalog per search",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 9),
		},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nearshelf",
			Name:      "search_results",
			Help:      "Products returned per search",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		},
	)

	SearchLogFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nearshelf",
			Name:      "search_log_failures_total",
			Help:      "Search log writes that failed and were dropped",
		},
		[]string{"stage"}, // "enqueue" / "persist"
	)

	InventoryCountsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nearshelf",
			Name:      "pos_inventory_counts_total",
			Help:      "Inventory counts received from the POS platform",
		},
		[]string{"result"}, // "applied" / "skipped"
	)
)

func init() {
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchCandidates)
	prometheus.MustRegister(SearchResults)
	prometheus.MustRegister(SearchLogFailuresTotal)
	prometheus.MustRegister(InventoryCountsTotal)
}

// ObserveSearch 记录一次搜索
func ObserveSearch(elapsed time.Duration, candidates, results int) {
	SearchDuration.Observe(elapsed.Seconds())
	SearchCandidates.Observe(float64(candidates))
	SearchResults.Observe(float64(results))
}

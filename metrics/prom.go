package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SharesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seeshare_shares_total",
			Help: "no. of completed shares by kind",
		},
		[]string{"kind"},
	)
	ShareFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seeshare_share_failures_total",
			Help: "no. of failed share attempts by stage",
		},
		[]string{"stage"},
	)
	HistoryWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seeshare_history_write_failures_total",
		Help: "no. of post-share history writes that failed",
	})
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seeshare_cache_hits_total",
		Help: "no. of metadata cache hits",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seeshare_cache_misses_total",
		Help: "no. of metadata cache misses",
	})
	MockRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seeshare_mock_requests_total",
			Help: "no. of requests served by the mock API",
		},
		[]string{"method", "endpoint", "status"},
	)
)

func Init() {
}

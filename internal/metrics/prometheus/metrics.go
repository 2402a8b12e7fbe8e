package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MediaInsertionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_insertions_total",
			Help: "Total number of media insertion requests processed",
		},
		[]string{"origin", "success"},
	)

	UpdateEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "update_events_total",
			Help: "Total number of update events emitted to the editor",
		},
		[]string{"state"},
	)

	DroppedEventsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dropped_events_total",
			Help: "Total number of update events dropped while the editor was not ready",
		},
	)

	ResolutionOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolution_operations_total",
			Help: "Total number of playable URL resolution attempts",
		},
		[]string{"success"},
	)

	ResolutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resolution_duration_seconds",
			Help:    "Duration of playable URL resolution attempts in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ThumbnailExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumbnail_extractions_total",
			Help: "Total number of thumbnail extraction attempts",
		},
		[]string{"success"},
	)

	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries executed",
		},
		[]string{"query_type", "success"},
	)

	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query_type"},
	)

	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_operation_duration_seconds",
			Help:    "Duration of cache operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	ActiveSubscriptions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_subscriptions",
			Help: "Number of active upload subscriptions",
		},
	)

	ServiceHealth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "service_health",
			Help: "Service health status (1 = healthy, 0 = unhealthy)",
		},
	)
)

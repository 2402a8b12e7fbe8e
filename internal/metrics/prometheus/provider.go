package prometheus

import (
	"strconv"
	"time"

	"editor-media-sync/internal/metrics"
)

type PrometheusMetricsProvider struct{}

func NewPrometheusMetricsProvider() metrics.Provider {
	return &PrometheusMetricsProvider{}
}

func (p *PrometheusMetricsProvider) IncrementInsertions(origin string, success bool) {
	MediaInsertionsTotal.WithLabelValues(origin, strconv.FormatBool(success)).Inc()
}

func (p *PrometheusMetricsProvider) IncrementUpdateEvents(state string) {
	UpdateEventsTotal.WithLabelValues(state).Inc()
}

func (p *PrometheusMetricsProvider) IncrementDroppedEvents() {
	DroppedEventsTotal.Inc()
}

func (p *PrometheusMetricsProvider) IncrementResolutionOps(success bool) {
	ResolutionOpsTotal.WithLabelValues(strconv.FormatBool(success)).Inc()
}

func (p *PrometheusMetricsProvider) RecordResolutionDuration(duration time.Duration) {
	ResolutionDuration.Observe(duration.Seconds())
}

func (p *PrometheusMetricsProvider) IncrementThumbnailExtractions(success bool) {
	ThumbnailExtractionsTotal.WithLabelValues(strconv.FormatBool(success)).Inc()
}

func (p *PrometheusMetricsProvider) IncrementDatabaseQueries(queryType string, success bool) {
	DatabaseQueriesTotal.WithLabelValues(queryType, strconv.FormatBool(success)).Inc()
}

func (p *PrometheusMetricsProvider) RecordDatabaseQueryDuration(queryType string, duration time.Duration) {
	DatabaseQueryDuration.WithLabelValues(queryType).Observe(duration.Seconds())
}

func (p *PrometheusMetricsProvider) IncrementCacheHits() {
	CacheHitsTotal.Inc()
}

func (p *PrometheusMetricsProvider) IncrementCacheMisses() {
	CacheMissesTotal.Inc()
}

func (p *PrometheusMetricsProvider) RecordCacheOperationDuration(operation string, duration time.Duration) {
	CacheOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (p *PrometheusMetricsProvider) SetActiveSubscriptions(count int) {
	ActiveSubscriptions.Set(float64(count))
}

func (p *PrometheusMetricsProvider) SetServiceHealth(healthy bool) {
	if healthy {
		ServiceHealth.Set(1)
	} else {
		ServiceHealth.Set(0)
	}
}

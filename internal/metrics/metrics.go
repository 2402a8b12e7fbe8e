package metrics

import "time"

type Provider interface {
	IncrementInsertions(origin string, success bool)
	IncrementUpdateEvents(state string)
	IncrementDroppedEvents()
	IncrementResolutionOps(success bool)
	RecordResolutionDuration(duration time.Duration)
	IncrementThumbnailExtractions(success bool)

	IncrementDatabaseQueries(queryType string, success bool)
	RecordDatabaseQueryDuration(queryType string, duration time.Duration)

	IncrementCacheHits()
	IncrementCacheMisses()
	RecordCacheOperationDuration(operation string, duration time.Duration)

	SetActiveSubscriptions(count int)
	SetServiceHealth(healthy bool)
}

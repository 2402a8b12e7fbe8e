package resolution

import (
	"context"
	"errors"
	"log/slog"
	"time"

	redis_cache "editor-media-sync/internal/cache/redis"
	"editor-media-sync/internal/custom_errors"
	"editor-media-sync/internal/logger"
	"editor-media-sync/internal/metrics"
)

const resolutionCacheKeyPrefix = "resolution:"

// CachedResolver caches successful resolutions by token. Resolved playable
// URLs are stable for a given transcoding token, so a hit skips the network
// round trip entirely. Cache failures degrade to direct resolution.
type CachedResolver struct {
	inner   Resolver
	cache   *redis_cache.Client
	ttl     time.Duration
	log     *logger.Logger
	metrics metrics.Provider
}

func NewCachedResolver(
	inner Resolver,
	cache *redis_cache.Client,
	ttl time.Duration,
	log *logger.Logger,
	metricsProvider metrics.Provider,
) *CachedResolver {
	return &CachedResolver{
		inner:   inner,
		cache:   cache,
		ttl:     ttl,
		log:     log,
		metrics: metricsProvider,
	}
}

func (r *CachedResolver) ResolvePlayableURL(ctx context.Context, token string) (*PlaybackInfo, error) {
	key := resolutionCacheKeyPrefix + token

	start := time.Now()
	var cached PlaybackInfo
	err := r.cache.Get(ctx, key, &cached)
	if err == nil {
		r.metrics.IncrementCacheHits()
		r.metrics.RecordCacheOperationDuration("resolution_get", time.Since(start))
		r.log.Debug("Resolution cache hit", slog.String("token", token))
		return &cached, nil
	}
	if errors.Is(err, custom_errors.ErrCacheMiss) {
		r.metrics.IncrementCacheMisses()
	} else {
		r.log.Warn("Resolution cache lookup failed",
			slog.String("token", token),
			slog.String("error", err.Error()))
	}
	r.metrics.RecordCacheOperationDuration("resolution_get", time.Since(start))

	info, err := r.inner.ResolvePlayableURL(ctx, token)
	if err != nil {
		return nil, err
	}

	setStart := time.Now()
	if err := r.cache.Set(ctx, key, info, r.ttl); err != nil {
		r.log.Warn("Failed to cache resolution result",
			slog.String("token", token),
			slog.String("error", err.Error()))
	}
	r.metrics.RecordCacheOperationDuration("resolution_set", time.Since(setStart))

	return info, nil
}

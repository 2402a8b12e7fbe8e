package mediasync

import (
	"github.com/go-playground/validator/v10"

	"editor-media-sync/internal/logger"
	"editor-media-sync/internal/metrics"
	media_repository "editor-media-sync/internal/repository/media"
	"editor-media-sync/internal/resolution"
	"editor-media-sync/internal/thumbnail"
	"editor-media-sync/internal/uploadmanager"
)

// Service bundles the insertion gateway with a session factory. An embedding
// front-end opens one session per post it is actively editing.
type Service struct {
	gateway  *Gateway
	manager  uploadmanager.Manager
	resolver resolution.Resolver
	log      *logger.Logger
	metrics  metrics.Provider
}

func NewService(
	store media_repository.Repository,
	manager uploadmanager.Manager,
	resolver resolution.Resolver,
	thumbnails *thumbnail.Extractor,
	validate *validator.Validate,
	log *logger.Logger,
	metricsProvider metrics.Provider,
) *Service {
	return &Service{
		gateway:  NewGateway(store, manager, thumbnails, validate, log, metricsProvider),
		manager:  manager,
		resolver: resolver,
		log:      log,
		metrics:  metricsProvider,
	}
}

func (s *Service) Gateway() *Gateway {
	return s.gateway
}

// OpenSession subscribes a new editing session for the given post. The
// caller owns the returned session and must Close it when editing ends.
func (s *Service) OpenSession(postID int64, sink Sink) (*Session, error) {
	return NewSession(postID, s.manager, s.resolver, sink, s.log, s.metrics)
}

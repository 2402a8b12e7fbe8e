package mediasync

import (
	"context"
	"io"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"editor-media-sync/internal/custom_errors"
	"editor-media-sync/internal/logger"
	"editor-media-sync/internal/metrics"
	"editor-media-sync/internal/model"
	media_repository "editor-media-sync/internal/repository/media"
	"editor-media-sync/internal/thumbnail"
	"editor-media-sync/internal/uploadid"
	"editor-media-sync/internal/uploadmanager"
)

const localKeyScheme = "media-local://"

// InsertionResult is handed back to the editor in response to an insertion
// request. URL is a best-effort preview or remote reference and may be
// empty, which tells the caller to treat the item as already uploading.
type InsertionResult struct {
	UploadID int32
	URL      string
}

// DeviceAsset is a freshly picked device asset awaiting upload.
type DeviceAsset struct {
	Filename string          `validate:"required"`
	Kind     model.MediaKind `validate:"required"`
	Content  io.Reader       `validate:"required"`
}

// Gateway accepts newly chosen assets, creates tracked upload items, and
// answers with an upload identifier plus a best-effort preview reference
// without ever waiting for the upload itself.
type Gateway struct {
	store      media_repository.Repository
	manager    uploadmanager.Manager
	thumbnails *thumbnail.Extractor
	validate   *validator.Validate
	log        *logger.Logger
	metrics    metrics.Provider
}

func NewGateway(
	store media_repository.Repository,
	manager uploadmanager.Manager,
	thumbnails *thumbnail.Extractor,
	validate *validator.Validate,
	log *logger.Logger,
	metricsProvider metrics.Provider,
) *Gateway {
	return &Gateway{
		store:      store,
		manager:    manager,
		thumbnails: thumbnails,
		validate:   validate,
		log:        log,
		metrics:    metricsProvider,
	}
}

// InsertFromLibrary re-inserts an item that already exists in the media
// library. Returns synchronously with whatever remote data the item has.
func (g *Gateway) InsertFromLibrary(ctx context.Context, item *model.MediaItem, provenance model.Provenance) (InsertionResult, error) {
	if item == nil || item.LocalKey == "" {
		g.metrics.IncrementInsertions(provenance.Origin, false)
		return InsertionResult{}, custom_errors.ErrMediaValidation
	}

	if _, err := g.manager.AddItem(ctx, item, provenance); err != nil {
		g.metrics.IncrementInsertions(provenance.Origin, false)
		g.log.Error("Failed to register library item with upload manager",
			slog.String("local_key", item.LocalKey),
			slog.String("error", err.Error()))
		return InsertionResult{}, err
	}

	g.metrics.IncrementInsertions(provenance.Origin, true)
	return InsertionResult{
		UploadID: itemUploadID(item),
		URL:      item.RemoteURL,
	}, nil
}

// InsertFromDeviceAsset creates a tracked item for a newly picked device
// asset and starts thumbnail extraction off the caller's execution path.
// The callback fires exactly once: with a file-backed preview URL when
// extraction succeeds, or with an empty URL when it fails. Extraction
// failure never fails the insertion.
func (g *Gateway) InsertFromDeviceAsset(ctx context.Context, postID int64, asset DeviceAsset, provenance model.Provenance, callback func(InsertionResult)) error {
	if err := g.validate.Struct(&asset); err != nil {
		g.metrics.IncrementInsertions(provenance.Origin, false)
		g.log.Debug("Device asset validation failed", slog.String("error", err.Error()))
		return custom_errors.ErrMediaValidation
	}
	if err := asset.Kind.IsValid(); err != nil {
		g.metrics.IncrementInsertions(provenance.Origin, false)
		return custom_errors.ErrMediaValidation
	}

	item := &model.MediaItem{
		LocalKey: localKeyScheme + uuid.NewString(),
		PostID:   postID,
		Kind:     asset.Kind,
		Status:   model.UploadStatusQueued,
	}
	item.UploadID = uploadid.Derive(item.LocalKey)

	created, err := g.store.Create(ctx, item)
	if err != nil {
		g.metrics.IncrementInsertions(provenance.Origin, false)
		g.log.Error("Failed to create media record",
			slog.String("local_key", item.LocalKey),
			slog.String("error", err.Error()))
		return err
	}

	if _, err := g.manager.AddItem(ctx, created, provenance); err != nil {
		g.metrics.IncrementInsertions(provenance.Origin, false)
		g.log.Error("Failed to register device asset with upload manager",
			slog.String("local_key", created.LocalKey),
			slog.String("error", err.Error()))
		return err
	}

	g.metrics.IncrementInsertions(provenance.Origin, true)

	go func() {
		result := InsertionResult{UploadID: created.UploadID}

		previewURL, extractErr := g.thumbnails.Extract(asset.Content)
		if extractErr != nil {
			g.log.Warn("Preview extraction failed, inserting without preview",
				slog.String("local_key", created.LocalKey),
				slog.String("error", extractErr.Error()))
			callback(result)
			return
		}

		if err := g.store.UpdateThumbnail(context.WithoutCancel(ctx), created.LocalKey, previewURL); err != nil {
			g.log.Warn("Failed to persist preview URL",
				slog.String("local_key", created.LocalKey),
				slog.String("error", err.Error()))
		}

		result.URL = previewURL
		callback(result)
	}()

	return nil
}

// ExternalURLRequest is an externally supplied resource, e.g. a file handed
// over from another application.
type ExternalURLRequest struct {
	URL  string          `validate:"required,url"`
	Kind model.MediaKind `validate:"required"`
}

// InsertFromExternalURL creates a tracked item pointing at an externally
// supplied resource. Returns immediately.
func (g *Gateway) InsertFromExternalURL(ctx context.Context, postID int64, req ExternalURLRequest, provenance model.Provenance) (InsertionResult, error) {
	if err := g.validate.Struct(&req); err != nil {
		g.metrics.IncrementInsertions(provenance.Origin, false)
		g.log.Debug("External URL validation failed",
			slog.String("url", req.URL),
			slog.String("error", err.Error()))
		return InsertionResult{}, custom_errors.ErrMediaValidation
	}
	if err := req.Kind.IsValid(); err != nil {
		g.metrics.IncrementInsertions(provenance.Origin, false)
		return InsertionResult{}, custom_errors.ErrMediaValidation
	}

	item := &model.MediaItem{
		LocalKey:          localKeyScheme + uuid.NewString(),
		PostID:            postID,
		Kind:              req.Kind,
		Status:            model.UploadStatusQueued,
		LocalThumbnailURL: req.URL,
	}
	item.UploadID = uploadid.Derive(item.LocalKey)

	created, err := g.store.Create(ctx, item)
	if err != nil {
		g.metrics.IncrementInsertions(provenance.Origin, false)
		g.log.Error("Failed to create media record",
			slog.String("local_key", item.LocalKey),
			slog.String("error", err.Error()))
		return InsertionResult{}, err
	}

	if _, err := g.manager.AddItem(ctx, created, provenance); err != nil {
		g.metrics.IncrementInsertions(provenance.Origin, false)
		g.log.Error("Failed to register external item with upload manager",
			slog.String("local_key", created.LocalKey),
			slog.String("error", err.Error()))
		return InsertionResult{}, err
	}

	g.metrics.IncrementInsertions(provenance.Origin, true)
	return InsertionResult{
		UploadID: created.UploadID,
		URL:      req.URL,
	}, nil
}

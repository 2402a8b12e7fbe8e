package media_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"editor-media-sync/internal/custom_errors"
	"editor-media-sync/internal/logger"
	"editor-media-sync/internal/metrics"
	"editor-media-sync/internal/model"
)

// PgDB matches both *pgxpool.Pool and pgx.Tx.
type PgDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type MediaRepository struct {
	log     *logger.Logger
	db      PgDB
	metrics metrics.Provider
}

func NewMediaRepository(db PgDB, log *logger.Logger, metricsProvider metrics.Provider) *MediaRepository {
	return &MediaRepository{db: db, log: log, metrics: metricsProvider}
}

const mediaColumns = `local_key, post_id, upload_id, remote_id, remote_url,
		local_thumbnail_url, resolution_token, kind, status, origin, selection_method, created_at`

func (r *MediaRepository) scanItem(row pgx.Row) (*model.MediaItem, error) {
	var item model.MediaItem
	err := row.Scan(
		&item.LocalKey,
		&item.PostID,
		&item.UploadID,
		&item.RemoteID,
		&item.RemoteURL,
		&item.LocalThumbnailURL,
		&item.ResolutionToken,
		&item.Kind,
		&item.Status,
		&item.Origin,
		&item.SelectionMethod,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *MediaRepository) Create(ctx context.Context, item *model.MediaItem) (*model.MediaItem, error) {
	start := time.Now()
	r.log.Debug("Creating media item",
		slog.String("local_key", item.LocalKey),
		slog.Int64("post_id", item.PostID),
		slog.String("kind", string(item.Kind)))

	now := pgtype.Timestamptz{Time: time.Now(), Valid: true}

	args := pgx.NamedArgs{
		"local_key":           item.LocalKey,
		"post_id":             item.PostID,
		"upload_id":           item.UploadID,
		"remote_id":           item.RemoteID,
		"remote_url":          item.RemoteURL,
		"local_thumbnail_url": item.LocalThumbnailURL,
		"resolution_token":    item.ResolutionToken,
		"kind":                item.Kind,
		"status":              item.Status,
		"origin":              item.Origin,
		"selection_method":    item.SelectionMethod,
		"created_at":          now,
	}

	query := `
		INSERT INTO media_items (local_key, post_id, upload_id, remote_id, remote_url,
			local_thumbnail_url, resolution_token, kind, status, origin, selection_method, created_at)
		VALUES (@local_key, @post_id, @upload_id, @remote_id, @remote_url,
			@local_thumbnail_url, @resolution_token, @kind, @status, @origin, @selection_method, @created_at)
		RETURNING ` + mediaColumns

	created, err := r.scanItem(r.db.QueryRow(ctx, query, args))
	if err != nil {
		r.metrics.IncrementDatabaseQueries("media_create", false)
		r.metrics.RecordDatabaseQueryDuration("media_create", time.Since(start))
		r.log.Error("Error creating media item", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.metrics.IncrementDatabaseQueries("media_create", true)
	r.metrics.RecordDatabaseQueryDuration("media_create", time.Since(start))
	return created, nil
}

func (r *MediaRepository) GetByLocalKey(ctx context.Context, localKey string) (*model.MediaItem, error) {
	start := time.Now()

	args := pgx.NamedArgs{"local_key": localKey}
	query := `SELECT ` + mediaColumns + ` FROM media_items WHERE local_key = @local_key`

	item, err := r.scanItem(r.db.QueryRow(ctx, query, args))
	if err != nil {
		r.metrics.IncrementDatabaseQueries("media_get", false)
		r.metrics.RecordDatabaseQueryDuration("media_get", time.Since(start))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_errors.ErrMediaNotFound
		}
		r.log.Error("Error getting media item",
			slog.String("local_key", localKey),
			slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.metrics.IncrementDatabaseQueries("media_get", true)
	r.metrics.RecordDatabaseQueryDuration("media_get", time.Since(start))
	return item, nil
}

func (r *MediaRepository) GetByPost(ctx context.Context, postID int64) ([]*model.MediaItem, error) {
	args := pgx.NamedArgs{"post_id": postID}
	query := `SELECT ` + mediaColumns + ` FROM media_items WHERE post_id = @post_id ORDER BY created_at`
	return r.queryItems(ctx, "media_list", query, args)
}

func (r *MediaRepository) ListByStatus(ctx context.Context, postID int64, status model.UploadStatus) ([]*model.MediaItem, error) {
	args := pgx.NamedArgs{"post_id": postID, "status": status}
	query := `SELECT ` + mediaColumns + ` FROM media_items
		WHERE post_id = @post_id AND status = @status ORDER BY created_at`
	return r.queryItems(ctx, "media_list_status", query, args)
}

func (r *MediaRepository) queryItems(ctx context.Context, queryType, query string, args pgx.NamedArgs) ([]*model.MediaItem, error) {
	start := time.Now()

	rows, err := r.db.Query(ctx, query, args)
	if err != nil {
		r.metrics.IncrementDatabaseQueries(queryType, false)
		r.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
		r.log.Error("Error querying media items", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	defer rows.Close()

	result := make([]*model.MediaItem, 0)
	for rows.Next() {
		item, scanErr := r.scanItem(rows)
		if scanErr != nil {
			r.metrics.IncrementDatabaseQueries(queryType, false)
			r.log.Error("Error scanning media item", slog.String("error", scanErr.Error()))
			return nil, custom_errors.ErrDatabaseQuery
		}
		result = append(result, item)
	}
	if rows.Err() != nil {
		r.metrics.IncrementDatabaseQueries(queryType, false)
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.metrics.IncrementDatabaseQueries(queryType, true)
	r.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
	return result, nil
}

func (r *MediaRepository) UpdateRemote(ctx context.Context, localKey string, remoteID int64, remoteURL string) error {
	args := pgx.NamedArgs{"local_key": localKey, "remote_id": remoteID, "remote_url": remoteURL}
	query := `UPDATE media_items SET remote_id = @remote_id, remote_url = @remote_url
		WHERE local_key = @local_key RETURNING local_key`
	return r.execUpdate(ctx, "media_update_remote", query, args)
}

func (r *MediaRepository) UpdateThumbnail(ctx context.Context, localKey string, thumbnailURL string) error {
	args := pgx.NamedArgs{"local_key": localKey, "local_thumbnail_url": thumbnailURL}
	query := `UPDATE media_items SET local_thumbnail_url = @local_thumbnail_url
		WHERE local_key = @local_key RETURNING local_key`
	return r.execUpdate(ctx, "media_update_thumbnail", query, args)
}

func (r *MediaRepository) UpdateStatus(ctx context.Context, localKey string, status model.UploadStatus) error {
	if err := status.IsValid(); err != nil {
		return custom_errors.ErrMediaValidation
	}
	args := pgx.NamedArgs{"local_key": localKey, "status": status}
	query := `UPDATE media_items SET status = @status WHERE local_key = @local_key RETURNING local_key`
	return r.execUpdate(ctx, "media_update_status", query, args)
}

func (r *MediaRepository) Delete(ctx context.Context, localKey string) error {
	args := pgx.NamedArgs{"local_key": localKey}
	query := `DELETE FROM media_items WHERE local_key = @local_key RETURNING local_key`
	return r.execUpdate(ctx, "media_delete", query, args)
}

func (r *MediaRepository) execUpdate(ctx context.Context, queryType, query string, args pgx.NamedArgs) error {
	start := time.Now()

	var key string
	err := r.db.QueryRow(ctx, query, args).Scan(&key)
	if err != nil {
		r.metrics.IncrementDatabaseQueries(queryType, false)
		r.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
		if errors.Is(err, pgx.ErrNoRows) {
			return custom_errors.ErrMediaNotFound
		}
		r.log.Error("Error updating media item",
			slog.String("query_type", queryType),
			slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}

	r.metrics.IncrementDatabaseQueries(queryType, true)
	r.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
	return nil
}

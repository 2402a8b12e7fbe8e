package media_repository

import (
	"context"

	"editor-media-sync/internal/model"
)

type Repository interface {
	Create(ctx context.Context, item *model.MediaItem) (*model.MediaItem, error)
	GetByLocalKey(ctx context.Context, localKey string) (*model.MediaItem, error)
	GetByPost(ctx context.Context, postID int64) ([]*model.MediaItem, error)
	ListByStatus(ctx context.Context, postID int64, status model.UploadStatus) ([]*model.MediaItem, error)
	UpdateRemote(ctx context.Context, localKey string, remoteID int64, remoteURL string) error
	UpdateThumbnail(ctx context.Context, localKey string, thumbnailURL string) error
	UpdateStatus(ctx context.Context, localKey string, status model.UploadStatus) error
	Delete(ctx context.Context, localKey string) error
}

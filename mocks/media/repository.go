package media_repository_mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"editor-media-sync/internal/model"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Create(ctx context.Context, item *model.MediaItem) (*model.MediaItem, error) {
	ret := m.Called(ctx, item)

	var r0 *model.MediaItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.MediaItem)
	}
	return r0, ret.Error(1)
}

func (m *Repository) GetByLocalKey(ctx context.Context, localKey string) (*model.MediaItem, error) {
	ret := m.Called(ctx, localKey)

	var r0 *model.MediaItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.MediaItem)
	}
	return r0, ret.Error(1)
}

func (m *Repository) GetByPost(ctx context.Context, postID int64) ([]*model.MediaItem, error) {
	ret := m.Called(ctx, postID)

	var r0 []*model.MediaItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*model.MediaItem)
	}
	return r0, ret.Error(1)
}

func (m *Repository) ListByStatus(ctx context.Context, postID int64, status model.UploadStatus) ([]*model.MediaItem, error) {
	ret := m.Called(ctx, postID, status)

	var r0 []*model.MediaItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*model.MediaItem)
	}
	return r0, ret.Error(1)
}

func (m *Repository) UpdateRemote(ctx context.Context, localKey string, remoteID int64, remoteURL string) error {
	ret := m.Called(ctx, localKey, remoteID, remoteURL)
	return ret.Error(0)
}

func (m *Repository) UpdateThumbnail(ctx context.Context, localKey string, thumbnailURL string) error {
	ret := m.Called(ctx, localKey, thumbnailURL)
	return ret.Error(0)
}

func (m *Repository) UpdateStatus(ctx context.Context, localKey string, status model.UploadStatus) error {
	ret := m.Called(ctx, localKey, status)
	return ret.Error(0)
}

func (m *Repository) Delete(ctx context.Context, localKey string) error {
	ret := m.Called(ctx, localKey)
	return ret.Error(0)
}

package uploadmanager_mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"editor-media-sync/internal/model"
	"editor-media-sync/internal/uploadmanager"
)

type Manager struct {
	mock.Mock
}

func (m *Manager) AddItem(ctx context.Context, item *model.MediaItem, provenance model.Provenance) (*model.MediaItem, error) {
	ret := m.Called(ctx, item, provenance)

	var r0 *model.MediaItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.MediaItem)
	}
	return r0, ret.Error(1)
}

func (m *Manager) Subscribe(postID int64, cb uploadmanager.Callback) (uploadmanager.Receipt, error) {
	ret := m.Called(postID, cb)
	return ret.Get(0).(uploadmanager.Receipt), ret.Error(1)
}

func (m *Manager) Unsubscribe(receipt uploadmanager.Receipt) {
	m.Called(receipt)
}

func (m *Manager) CancelAll(ctx context.Context, postID int64) error {
	ret := m.Called(ctx, postID)
	return ret.Error(0)
}

func (m *Manager) CancelAndDelete(ctx context.Context, item *model.MediaItem) error {
	ret := m.Called(ctx, item)
	return ret.Error(0)
}

func (m *Manager) Retry(ctx context.Context, item *model.MediaItem) error {
	ret := m.Called(ctx, item)
	return ret.Error(0)
}

func (m *Manager) IsUploading(postID int64) bool {
	ret := m.Called(postID)
	return ret.Bool(0)
}

func (m *Manager) HasFailed(postID int64) bool {
	ret := m.Called(postID)
	return ret.Bool(0)
}

func (m *Manager) FailedItems(postID int64) []*model.MediaItem {
	ret := m.Called(postID)

	var r0 []*model.MediaItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*model.MediaItem)
	}
	return r0
}

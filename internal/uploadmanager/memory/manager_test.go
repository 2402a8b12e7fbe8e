package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"editor-media-sync/internal/custom_errors"
	"editor-media-sync/internal/logger"
	"editor-media-sync/internal/model"
	"editor-media-sync/internal/uploadmanager"
)

type deliveredState struct {
	localKey string
	state    model.TransferState
}

type recorder struct {
	mu     sync.Mutex
	states []deliveredState
}

func (r *recorder) callback(item *model.MediaItem, state model.TransferState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, deliveredState{localKey: item.LocalKey, state: state})
}

func (r *recorder) recorded() []deliveredState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]deliveredState(nil), r.states...)
}

func newItem(localKey string, postID int64, kind model.MediaKind) *model.MediaItem {
	return &model.MediaItem{LocalKey: localKey, PostID: postID, Kind: kind}
}

func TestManager_AddItem(t *testing.T) {
	manager := NewManager(logger.New("test"))

	created, err := manager.AddItem(context.Background(), newItem("k1", 1, model.MediaKindImage),
		model.Provenance{Origin: "device_media", SelectionMethod: "full_screen_picker"})
	require.NoError(t, err)
	assert.Equal(t, model.UploadStatusQueued, created.Status)
	assert.Equal(t, "device_media", created.Origin)
	assert.True(t, manager.IsUploading(1))

	t.Run("invalid kind is rejected", func(t *testing.T) {
		_, err := manager.AddItem(context.Background(), newItem("k2", 1, "document"), model.Provenance{})
		assert.ErrorIs(t, err, custom_errors.ErrMediaValidation)
	})

	t.Run("re-adding keeps transfer state", func(t *testing.T) {
		require.NoError(t, manager.Deliver("k1", model.Uploading(0.5)))

		again, err := manager.AddItem(context.Background(), newItem("k1", 1, model.MediaKindImage),
			model.Provenance{Origin: "wp_media_library"})
		require.NoError(t, err)
		assert.Equal(t, model.UploadStatusUploading, again.Status)
		assert.Equal(t, "wp_media_library", again.Origin)
	})
}

func TestManager_DeliverFansOutToPostSubscriptions(t *testing.T) {
	manager := NewManager(logger.New("test"))

	_, err := manager.AddItem(context.Background(), newItem("k1", 1, model.MediaKindImage), model.Provenance{})
	require.NoError(t, err)
	_, err = manager.AddItem(context.Background(), newItem("other", 2, model.MediaKindImage), model.Provenance{})
	require.NoError(t, err)

	var sub1, sub2 recorder
	_, err = manager.Subscribe(1, sub1.callback)
	require.NoError(t, err)
	_, err = manager.Subscribe(2, sub2.callback)
	require.NoError(t, err)

	require.NoError(t, manager.Deliver("k1", model.Uploading(0.4)))

	states := sub1.recorded()
	require.Len(t, states, 1)
	assert.Equal(t, "k1", states[0].localKey)
	assert.Equal(t, model.TransferPhaseUploading, states[0].state.Phase)
	assert.Empty(t, sub2.recorded(), "subscription scoped to another post must not fire")

	t.Run("unknown key", func(t *testing.T) {
		assert.ErrorIs(t, manager.Deliver("missing", model.Processing()), custom_errors.ErrMediaNotFound)
	})
}

func TestManager_Unsubscribe(t *testing.T) {
	manager := NewManager(logger.New("test"))

	_, err := manager.AddItem(context.Background(), newItem("k1", 1, model.MediaKindImage), model.Provenance{})
	require.NoError(t, err)

	var rec recorder
	receipt, err := manager.Subscribe(1, rec.callback)
	require.NoError(t, err)
	require.Equal(t, 1, manager.SubscriptionCount())

	manager.Unsubscribe(receipt)
	assert.Zero(t, manager.SubscriptionCount())

	require.NoError(t, manager.Deliver("k1", model.Uploading(0.1)))
	assert.Empty(t, rec.recorded())

	// Unknown receipts are ignored.
	manager.Unsubscribe(uploadmanager.Receipt("no-such-receipt"))
}

func TestManager_StatusTracking(t *testing.T) {
	manager := NewManager(logger.New("test"))

	_, err := manager.AddItem(context.Background(), newItem("k1", 1, model.MediaKindVideo), model.Provenance{})
	require.NoError(t, err)

	assert.True(t, manager.IsUploading(1))
	assert.False(t, manager.HasFailed(1))

	require.NoError(t, manager.Deliver("k1", model.Failed(assert.AnError)))
	assert.False(t, manager.IsUploading(1))
	assert.True(t, manager.HasFailed(1))

	failed := manager.FailedItems(1)
	require.Len(t, failed, 1)
	assert.Equal(t, "k1", failed[0].LocalKey)

	require.NoError(t, manager.Retry(context.Background(), failed[0]))
	assert.True(t, manager.IsUploading(1))
	assert.False(t, manager.HasFailed(1))
	assert.Empty(t, manager.FailedItems(1))

	require.NoError(t, manager.Deliver("k1", model.Ended()))
	assert.False(t, manager.IsUploading(1))
}

func TestManager_CancelAll(t *testing.T) {
	manager := NewManager(logger.New("test"))

	for _, key := range []string{"k1", "k2"} {
		_, err := manager.AddItem(context.Background(), newItem(key, 1, model.MediaKindImage), model.Provenance{})
		require.NoError(t, err)
	}
	_, err := manager.AddItem(context.Background(), newItem("done", 1, model.MediaKindImage), model.Provenance{})
	require.NoError(t, err)
	require.NoError(t, manager.Deliver("done", model.Ended()))

	var rec recorder
	_, err = manager.Subscribe(1, rec.callback)
	require.NoError(t, err)

	require.NoError(t, manager.CancelAll(context.Background(), 1))
	assert.False(t, manager.IsUploading(1))

	// Only the two active items get a cancellation, each marked as such.
	states := rec.recorded()
	require.Len(t, states, 2)
	for _, delivered := range states {
		assert.Equal(t, model.TransferPhaseFailed, delivered.state.Phase)
		assert.ErrorIs(t, delivered.state.Err, custom_errors.ErrUploadCancelled)
	}
}

func TestManager_CancelAndDelete(t *testing.T) {
	manager := NewManager(logger.New("test"))

	created, err := manager.AddItem(context.Background(), newItem("k1", 1, model.MediaKindImage), model.Provenance{})
	require.NoError(t, err)

	var rec recorder
	_, err = manager.Subscribe(1, rec.callback)
	require.NoError(t, err)

	require.NoError(t, manager.CancelAndDelete(context.Background(), created))

	states := rec.recorded()
	require.Len(t, states, 1)
	assert.ErrorIs(t, states[0].state.Err, custom_errors.ErrUploadCancelled)

	assert.False(t, manager.IsUploading(1))
	assert.ErrorIs(t, manager.Deliver("k1", model.Uploading(0.5)), custom_errors.ErrMediaNotFound)
	assert.ErrorIs(t, manager.CancelAndDelete(context.Background(), created), custom_errors.ErrMediaNotFound)
}

func TestManager_SetRemoteIdentity(t *testing.T) {
	manager := NewManager(logger.New("test"))

	_, err := manager.AddItem(context.Background(), newItem("k1", 1, model.MediaKindImage), model.Provenance{})
	require.NoError(t, err)

	var rec recorder
	_, err = manager.Subscribe(1, rec.callback)
	require.NoError(t, err)

	require.NoError(t, manager.SetRemoteIdentity("k1", 42, "https://cdn.example.com/k1.jpg"))
	require.NoError(t, manager.Deliver("k1", model.Ended()))

	states := rec.recorded()
	require.Len(t, states, 1)
	assert.Equal(t, "k1", states[0].localKey)

	assert.ErrorIs(t, manager.SetRemoteIdentity("missing", 1, "url"), custom_errors.ErrMediaNotFound)
}

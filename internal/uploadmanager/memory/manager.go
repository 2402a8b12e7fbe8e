package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"editor-media-sync/internal/custom_errors"
	"editor-media-sync/internal/logger"
	"editor-media-sync/internal/model"
	"editor-media-sync/internal/uploadmanager"
)

type subscription struct {
	postID int64
	cb     uploadmanager.Callback
}

// Manager is an in-memory upload coordinator. It tracks items and
// subscriptions per post and lets callers drive transfer transitions through
// Deliver. Used by tests and the dev composition; production wires the real
// coordinator behind the same interface.
type Manager struct {
	log         *logger.Logger
	mu          sync.RWMutex
	itemsByKey  map[string]*model.MediaItem
	itemsByPost map[int64][]*model.MediaItem
	subs        map[uploadmanager.Receipt]subscription
}

func NewManager(log *logger.Logger) *Manager {
	return &Manager{
		log:         log,
		itemsByKey:  make(map[string]*model.MediaItem),
		itemsByPost: make(map[int64][]*model.MediaItem),
		subs:        make(map[uploadmanager.Receipt]subscription),
	}
}

func (m *Manager) AddItem(ctx context.Context, item *model.MediaItem, provenance model.Provenance) (*model.MediaItem, error) {
	if err := item.Kind.IsValid(); err != nil {
		return nil, custom_errors.ErrMediaValidation
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Re-registering a known key keeps the existing transfer state and only
	// refreshes provenance.
	if existing, ok := m.itemsByKey[item.LocalKey]; ok {
		existing.Origin = provenance.Origin
		existing.SelectionMethod = provenance.SelectionMethod
		copy := *existing
		return &copy, nil
	}

	stored := *item
	stored.Status = model.UploadStatusQueued
	stored.Origin = provenance.Origin
	stored.SelectionMethod = provenance.SelectionMethod
	stored.CreatedAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}

	m.itemsByKey[stored.LocalKey] = &stored
	m.itemsByPost[stored.PostID] = append(m.itemsByPost[stored.PostID], &stored)

	m.log.Debug("Upload item registered",
		slog.String("local_key", stored.LocalKey),
		slog.Int64("post_id", stored.PostID),
		slog.String("origin", provenance.Origin))

	copy := stored
	return &copy, nil
}

func (m *Manager) Subscribe(postID int64, cb uploadmanager.Callback) (uploadmanager.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	receipt := uploadmanager.Receipt(uuid.NewString())
	m.subs[receipt] = subscription{postID: postID, cb: cb}

	m.log.Debug("Subscription registered",
		slog.Int64("post_id", postID),
		slog.String("receipt", string(receipt)))
	return receipt, nil
}

func (m *Manager) Unsubscribe(receipt uploadmanager.Receipt) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.subs[receipt]; !exists {
		m.log.Debug("Receipt not found for unsubscribe", slog.String("receipt", string(receipt)))
		return
	}
	delete(m.subs, receipt)
}

// Deliver applies a transfer transition to the stored item and fans it out to
// every subscription scoped to the item's post.
func (m *Manager) Deliver(localKey string, state model.TransferState) error {
	m.mu.Lock()
	item, exists := m.itemsByKey[localKey]
	if !exists {
		m.mu.Unlock()
		return custom_errors.ErrMediaNotFound
	}

	switch state.Phase {
	case model.TransferPhaseProcessing, model.TransferPhaseThumbnailReady, model.TransferPhaseUploading:
		item.Status = model.UploadStatusUploading
	case model.TransferPhaseEnded:
		item.Status = model.UploadStatusSucceeded
	case model.TransferPhaseFailed:
		item.Status = model.UploadStatusFailed
	}
	if state.Phase == model.TransferPhaseThumbnailReady {
		item.LocalThumbnailURL = state.ThumbnailURL
	}

	snapshot := *item
	cbs := make([]uploadmanager.Callback, 0, len(m.subs))
	for _, sub := range m.subs {
		if sub.postID == snapshot.PostID {
			cbs = append(cbs, sub.cb)
		}
	}
	m.mu.Unlock()

	for _, cb := range cbs {
		cb(&snapshot, state)
	}
	return nil
}

// SetRemoteIdentity records the server-assigned identity ahead of an ended
// transition.
func (m *Manager) SetRemoteIdentity(localKey string, remoteID int64, remoteURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, exists := m.itemsByKey[localKey]
	if !exists {
		return custom_errors.ErrMediaNotFound
	}
	item.RemoteID = remoteID
	item.RemoteURL = remoteURL
	return nil
}

func (m *Manager) CancelAll(ctx context.Context, postID int64) error {
	m.mu.RLock()
	keys := make([]string, 0)
	for _, item := range m.itemsByPost[postID] {
		if item.Status == model.UploadStatusQueued || item.Status == model.UploadStatusUploading {
			keys = append(keys, item.LocalKey)
		}
	}
	m.mu.RUnlock()

	for _, key := range keys {
		if err := m.Deliver(key, model.Failed(custom_errors.ErrUploadCancelled)); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) CancelAndDelete(ctx context.Context, item *model.MediaItem) error {
	if err := m.Deliver(item.LocalKey, model.Failed(custom_errors.ErrUploadCancelled)); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, exists := m.itemsByKey[item.LocalKey]
	if !exists {
		return custom_errors.ErrMediaNotFound
	}
	delete(m.itemsByKey, item.LocalKey)

	postItems := m.itemsByPost[stored.PostID]
	filtered := postItems[:0]
	for _, it := range postItems {
		if it.LocalKey != item.LocalKey {
			filtered = append(filtered, it)
		}
	}
	m.itemsByPost[stored.PostID] = filtered
	return nil
}

// Retry re-queues a failed item and restarts its event sequence with a
// processing transition. A fresh transfer instance means the waiting period
// for any secondary resolution is reallocated as well.
func (m *Manager) Retry(ctx context.Context, item *model.MediaItem) error {
	m.mu.Lock()
	stored, exists := m.itemsByKey[item.LocalKey]
	if !exists {
		m.mu.Unlock()
		return custom_errors.ErrMediaNotFound
	}
	stored.Status = model.UploadStatusQueued
	m.mu.Unlock()

	return m.Deliver(item.LocalKey, model.Processing())
}

func (m *Manager) IsUploading(postID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, item := range m.itemsByPost[postID] {
		if item.Status == model.UploadStatusQueued || item.Status == model.UploadStatusUploading {
			return true
		}
	}
	return false
}

func (m *Manager) HasFailed(postID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, item := range m.itemsByPost[postID] {
		if item.Status == model.UploadStatusFailed {
			return true
		}
	}
	return false
}

func (m *Manager) FailedItems(postID int64) []*model.MediaItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*model.MediaItem, 0)
	for _, item := range m.itemsByPost[postID] {
		if item.Status == model.UploadStatusFailed {
			copy := *item
			result = append(result, &copy)
		}
	}
	return result
}

// SubscriptionCount reports the number of live subscriptions. Test helper.
func (m *Manager) SubscriptionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs)
}

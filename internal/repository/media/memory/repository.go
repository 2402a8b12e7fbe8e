package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"editor-media-sync/internal/custom_errors"
	"editor-media-sync/internal/logger"
	"editor-media-sync/internal/model"
)

type MediaRepository struct {
	log        *logger.Logger
	mu         sync.RWMutex
	itemsByKey map[string]*model.MediaItem
	keysByPost map[int64][]string
}

func NewMediaRepository(log *logger.Logger) *MediaRepository {
	return &MediaRepository{
		log:        log,
		itemsByKey: make(map[string]*model.MediaItem),
		keysByPost: make(map[int64][]string),
	}
}

func (m *MediaRepository) Create(ctx context.Context, item *model.MediaItem) (*model.MediaItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.itemsByKey[item.LocalKey]; exists {
		m.log.Warn("Duplicate local key on media create", slog.String("local_key", item.LocalKey))
		return nil, custom_errors.ErrMediaCreateFailed
	}

	stored := *item
	stored.CreatedAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}

	m.itemsByKey[stored.LocalKey] = &stored
	m.keysByPost[stored.PostID] = append(m.keysByPost[stored.PostID], stored.LocalKey)

	copy := stored
	return &copy, nil
}

func (m *MediaRepository) GetByLocalKey(ctx context.Context, localKey string) (*model.MediaItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, exists := m.itemsByKey[localKey]
	if !exists {
		return nil, custom_errors.ErrMediaNotFound
	}
	copy := *item
	return &copy, nil
}

func (m *MediaRepository) GetByPost(ctx context.Context, postID int64) ([]*model.MediaItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := m.keysByPost[postID]
	result := make([]*model.MediaItem, 0, len(keys))
	for _, key := range keys {
		if item, exists := m.itemsByKey[key]; exists {
			copy := *item
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Time.Before(result[j].CreatedAt.Time)
	})
	return result, nil
}

func (m *MediaRepository) ListByStatus(ctx context.Context, postID int64, status model.UploadStatus) ([]*model.MediaItem, error) {
	items, err := m.GetByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	filtered := make([]*model.MediaItem, 0, len(items))
	for _, item := range items {
		if item.Status == status {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func (m *MediaRepository) UpdateRemote(ctx context.Context, localKey string, remoteID int64, remoteURL string) error {
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

func (m *MediaRepository) UpdateThumbnail(ctx context.Context, localKey string, thumbnailURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, exists := m.itemsByKey[localKey]
	if !exists {
		return custom_errors.ErrMediaNotFound
	}
	item.LocalThumbnailURL = thumbnailURL
	return nil
}

func (m *MediaRepository) UpdateStatus(ctx context.Context, localKey string, status model.UploadStatus) error {
	if err := status.IsValid(); err != nil {
		return custom_errors.ErrMediaValidation
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item, exists := m.itemsByKey[localKey]
	if !exists {
		return custom_errors.ErrMediaNotFound
	}
	item.Status = status
	return nil
}

func (m *MediaRepository) Delete(ctx context.Context, localKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, exists := m.itemsByKey[localKey]
	if !exists {
		return custom_errors.ErrMediaNotFound
	}
	delete(m.itemsByKey, localKey)

	keys := m.keysByPost[item.PostID]
	filtered := keys[:0]
	for _, key := range keys {
		if key != localKey {
			filtered = append(filtered, key)
		}
	}
	m.keysByPost[item.PostID] = filtered
	return nil
}

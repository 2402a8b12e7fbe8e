// Package uploadmanager defines the contract of the external upload
// coordinator that performs the actual network transfer. This core never
// drives transfers itself; it only registers items and observes state.
package uploadmanager

import (
	"context"

	"editor-media-sync/internal/model"
)

// Receipt identifies one live subscription. It is opaque to callers.
type Receipt string

// Callback delivers one transfer state transition for one item. The manager
// may invoke it from any goroutine; ordering per item follows the order in
// which the transitions were generated.
type Callback func(item *model.MediaItem, state model.TransferState)

type Manager interface {
	// AddItem registers a new tracked upload item and returns the stored
	// record. Provenance is an opaque analytics payload.
	AddItem(ctx context.Context, item *model.MediaItem, provenance model.Provenance) (*model.MediaItem, error)

	// Subscribe registers cb for every transfer transition of the given
	// post's items until Unsubscribe is called with the returned receipt.
	Subscribe(postID int64, cb Callback) (Receipt, error)
	Unsubscribe(receipt Receipt)

	CancelAll(ctx context.Context, postID int64) error
	CancelAndDelete(ctx context.Context, item *model.MediaItem) error
	Retry(ctx context.Context, item *model.MediaItem) error

	IsUploading(postID int64) bool
	HasFailed(postID int64) bool
	FailedItems(postID int64) []*model.MediaItem
}

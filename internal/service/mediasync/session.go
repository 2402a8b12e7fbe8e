package mediasync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"editor-media-sync/internal/custom_errors"
	"editor-media-sync/internal/logger"
	"editor-media-sync/internal/metrics"
	"editor-media-sync/internal/model"
	"editor-media-sync/internal/resolution"
	"editor-media-sync/internal/uploadmanager"
)

// Session owns the single upload subscription for one post's editing
// session. It is the only entity allowed to create or destroy that
// subscription; nothing else may hold the observer callback beyond the
// subscription's lifetime.
type Session struct {
	postID   int64
	manager  uploadmanager.Manager
	resolver resolution.Resolver
	sink     Sink
	log      *logger.Logger
	metrics  metrics.Provider

	ctx    context.Context
	cancel context.CancelFunc

	dispatch *dispatcher
	wg       sync.WaitGroup

	mu         sync.Mutex
	receipt    uploadmanager.Receipt
	hasReceipt bool
	closed     bool
	// terminal latches uploadIDs whose event sequence has ended; only a
	// retry (fresh processing transition) reopens a latched sequence.
	terminal map[int32]bool
	// resurfaced tracks failed items already re-surfaced by Resync, so a
	// second resync with no intervening state change stays quiet.
	resurfaced map[int32]bool
}

func NewSession(
	postID int64,
	manager uploadmanager.Manager,
	resolver resolution.Resolver,
	sink Sink,
	log *logger.Logger,
	metricsProvider metrics.Provider,
) (*Session, error) {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		postID:     postID,
		manager:    manager,
		resolver:   resolver,
		sink:       sink,
		log:        log,
		metrics:    metricsProvider,
		ctx:        ctx,
		cancel:     cancel,
		terminal:   make(map[int32]bool),
		resurfaced: make(map[int32]bool),
	}
	s.dispatch = newDispatcher(s.deliver)

	receipt, err := manager.Subscribe(postID, s.handleTransfer)
	if err != nil {
		cancel()
		s.dispatch.close()
		return nil, fmt.Errorf("failed to subscribe to upload manager: %w", err)
	}

	s.mu.Lock()
	s.receipt = receipt
	s.hasReceipt = true
	s.mu.Unlock()

	metricsProvider.SetActiveSubscriptions(1)
	log.Debug("Media sync session started", slog.Int64("post_id", postID))
	return s, nil
}

// Close tears down the subscription and stops event delivery. Queued events
// are drained first; resolution attempts in flight are cancelled.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	receipt := s.receipt
	hadReceipt := s.hasReceipt
	s.hasReceipt = false
	s.mu.Unlock()

	if hadReceipt {
		s.manager.Unsubscribe(receipt)
	}
	s.cancel()
	s.wg.Wait()
	s.dispatch.close()

	s.metrics.SetActiveSubscriptions(0)
	s.log.Debug("Media sync session closed", slog.Int64("post_id", s.postID))
}

func (s *Session) deliver(event model.UpdateEvent) {
	if !s.sink.Ready() {
		s.metrics.IncrementDroppedEvents()
		s.log.Debug("Editor not ready, dropping update event",
			slog.Int64("upload_id", int64(event.UploadID)),
			slog.String("state", string(event.State)))
		return
	}
	s.sink.EmitUpdate(event)
	s.metrics.IncrementUpdateEvents(string(event.State))
}

func (s *Session) emit(event model.UpdateEvent) {
	s.dispatch.enqueue(event)
}

// emitTerminal emits event only if the item's sequence has not already
// ended. This is what makes cancellation race-safe: whichever of the
// immediate reset or the manager's own failed(cancelled) notification gets
// here first wins, the other is suppressed.
func (s *Session) emitTerminal(event model.UpdateEvent) {
	s.mu.Lock()
	if s.terminal[event.UploadID] {
		s.mu.Unlock()
		s.log.Debug("Suppressing duplicate terminal event",
			slog.Int64("upload_id", int64(event.UploadID)),
			slog.String("state", string(event.State)))
		return
	}
	s.terminal[event.UploadID] = true
	s.mu.Unlock()

	s.emit(event)
}

// Resync re-establishes the subscription defensively and re-surfaces every
// currently-failed item as uploading(0) followed by failed, so the editor
// can redraw failed placeholders lost across a reload. No upload is actually
// retried.
func (s *Session) Resync() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("%w: post %d", custom_errors.ErrSessionClosed, s.postID)
	}
	if s.hasReceipt {
		s.manager.Unsubscribe(s.receipt)
		s.hasReceipt = false
	}
	s.mu.Unlock()

	receipt, err := s.manager.Subscribe(s.postID, s.handleTransfer)
	if err != nil {
		return fmt.Errorf("failed to resubscribe to upload manager: %w", err)
	}

	s.mu.Lock()
	s.receipt = receipt
	s.hasReceipt = true
	s.mu.Unlock()

	for _, item := range s.manager.FailedItems(s.postID) {
		id := itemUploadID(item)

		s.mu.Lock()
		if s.resurfaced[id] {
			s.mu.Unlock()
			continue
		}
		s.resurfaced[id] = true
		delete(s.terminal, id)
		s.mu.Unlock()

		s.emit(model.UpdateEvent{
			UploadID: id,
			State:    model.UpdateStateUploading,
			Progress: 0,
		})
		s.emitTerminal(model.UpdateEvent{
			UploadID: id,
			State:    model.UpdateStateFailed,
			Progress: 0,
		})
	}

	s.log.Debug("Media sync session resynced", slog.Int64("post_id", s.postID))
	return nil
}

func (s *Session) IsUploading() bool {
	return s.manager.IsUploading(s.postID)
}

func (s *Session) HasFailedItems() bool {
	return s.manager.HasFailed(s.postID)
}

func (s *Session) CancelAll(ctx context.Context) error {
	return s.manager.CancelAll(ctx, s.postID)
}

// CancelOne cancels and deletes one item's transfer. The reset event is
// emitted up front so the editor clears the placeholder even if the
// manager's own cancellation notification races or never arrives.
func (s *Session) CancelOne(ctx context.Context, item *model.MediaItem) error {
	s.emitTerminal(model.UpdateEvent{
		UploadID: itemUploadID(item),
		State:    model.UpdateStateReset,
		Progress: 0,
	})

	if err := s.manager.CancelAndDelete(ctx, item); err != nil {
		s.log.Error("Failed to cancel upload",
			slog.String("local_key", item.LocalKey),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

func (s *Session) RetryOne(ctx context.Context, item *model.MediaItem) error {
	return s.manager.Retry(ctx, item)
}

package mediasync

import (
	"errors"
	"log/slog"

	"editor-media-sync/internal/custom_errors"
	"editor-media-sync/internal/model"
	"editor-media-sync/internal/uploadid"
)

// Progress reported once the upload manager has produced a server-side
// thumbnail but before byte transfer has advanced.
const thumbnailReadyProgress = 0.20

type translateAction int

const (
	// actionEmit delivers the translated event.
	actionEmit translateAction = iota
	// actionDrop emits nothing for this transition.
	actionDrop
	// actionResolve defers the terminal event to the resolution adapter.
	actionResolve
)

func itemUploadID(item *model.MediaItem) int32 {
	if item.UploadID != 0 {
		return item.UploadID
	}
	return uploadid.Derive(item.LocalKey)
}

func clampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// translate maps one upload-manager transition onto the editor's normalized
// update vocabulary. Pure except for the returned action; terminal
// bookkeeping is the session's job.
func translate(item *model.MediaItem, state model.TransferState) (model.UpdateEvent, translateAction) {
	id := itemUploadID(item)

	switch state.Phase {
	case model.TransferPhaseProcessing:
		return model.UpdateEvent{
			UploadID: id,
			State:    model.UpdateStateUploading,
			Progress: 0,
		}, actionEmit

	case model.TransferPhaseThumbnailReady:
		return model.UpdateEvent{
			UploadID:   id,
			State:      model.UpdateStateUploading,
			Progress:   thumbnailReadyProgress,
			PreviewURL: state.ThumbnailURL,
		}, actionEmit

	case model.TransferPhaseUploading:
		return model.UpdateEvent{
			UploadID: id,
			State:    model.UpdateStateUploading,
			Progress: clampProgress(state.Progress),
		}, actionEmit

	case model.TransferPhaseEnded:
		switch item.Kind {
		case model.MediaKindVideo:
			// The playable URL needs a secondary lookup first.
			return model.UpdateEvent{UploadID: id}, actionResolve
		case model.MediaKindImage, model.MediaKindOther:
			if !item.HasRemoteIdentity() {
				return model.UpdateEvent{UploadID: id}, actionDrop
			}
			return model.UpdateEvent{
				UploadID:   id,
				State:      model.UpdateStateSucceeded,
				Progress:   1,
				PreviewURL: item.RemoteURL,
				ServerID:   item.RemoteID,
			}, actionEmit
		}
		return model.UpdateEvent{UploadID: id}, actionDrop

	case model.TransferPhaseFailed:
		if errors.Is(state.Err, custom_errors.ErrUploadCancelled) {
			return model.UpdateEvent{
				UploadID: id,
				State:    model.UpdateStateReset,
				Progress: 0,
			}, actionEmit
		}
		return model.UpdateEvent{
			UploadID: id,
			State:    model.UpdateStateFailed,
			Progress: 0,
		}, actionEmit
	}

	return model.UpdateEvent{UploadID: id}, actionDrop
}

// handleTransfer is the subscription callback registered with the upload
// manager. It applies the per-item sequence rules: a terminal event latches
// the sequence shut, and only a fresh processing transition (retry) reopens
// it.
func (s *Session) handleTransfer(item *model.MediaItem, state model.TransferState) {
	event, action := translate(item, state)
	id := event.UploadID

	s.mu.Lock()
	delete(s.resurfaced, id)
	if state.Phase == model.TransferPhaseProcessing {
		delete(s.terminal, id)
	}
	latched := s.terminal[id]
	if action == actionEmit && event.State.IsTerminal() && !latched {
		s.terminal[id] = true
	}
	s.mu.Unlock()

	if latched {
		s.log.Debug("Dropping transition after terminal event",
			slog.Int64("upload_id", int64(id)),
			slog.String("phase", string(state.Phase)))
		return
	}

	switch action {
	case actionEmit:
		s.emit(event)
	case actionResolve:
		s.resolveVideo(item)
	case actionDrop:
		if state.Phase == model.TransferPhaseEnded {
			s.log.Error("Upload ended without remote identity",
				slog.Int64("upload_id", int64(id)),
				slog.String("local_key", item.LocalKey),
				slog.String("error", custom_errors.ErrInconsistentUploadState.Error()))
		}
	}
}

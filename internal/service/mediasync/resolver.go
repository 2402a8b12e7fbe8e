package mediasync

import (
	"context"
	"log/slog"

	"editor-media-sync/internal/custom_errors"
	"editor-media-sync/internal/model"
	"editor-media-sync/internal/resolution"
)

// resolveVideo performs the secondary resolution step for a finished video
// upload and emits the deferred terminal event. Each item resolves on its
// own goroutine; a failure degrades to a single failed event and never
// affects other items.
func (s *Session) resolveVideo(item *model.MediaItem) {
	snapshot := *item

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		id := itemUploadID(&snapshot)
		info, err := s.resolveFinalURL(s.ctx, &snapshot)
		if err != nil {
			s.log.Error("Failed to resolve playable URL",
				slog.Int64("upload_id", int64(id)),
				slog.String("resolution_token", snapshot.ResolutionToken),
				slog.String("error", err.Error()))
			s.emitTerminal(model.UpdateEvent{
				UploadID: id,
				State:    model.UpdateStateFailed,
				Progress: 0,
			})
			return
		}

		s.emitTerminal(model.UpdateEvent{
			UploadID:   id,
			State:      model.UpdateStateSucceeded,
			Progress:   1,
			PreviewURL: info.VideoURL,
			ServerID:   snapshot.RemoteID,
		})
	}()
}

// resolveFinalURL decides how the final playable URL is obtained. Items with
// a resolution token need the remote transcoding lookup; items without one
// are self-hosted and their primary URL is already final.
func (s *Session) resolveFinalURL(ctx context.Context, item *model.MediaItem) (*resolution.PlaybackInfo, error) {
	if item.ResolutionToken != "" {
		return s.resolver.ResolvePlayableURL(ctx, item.ResolutionToken)
	}
	if item.RemoteURL != "" {
		return &resolution.PlaybackInfo{VideoURL: item.RemoteURL}, nil
	}
	return nil, custom_errors.ErrMissingRemoteURL
}

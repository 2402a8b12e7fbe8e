package mediasync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"editor-media-sync/internal/custom_errors"
	"editor-media-sync/internal/logger"
	prometheus_metrics "editor-media-sync/internal/metrics/prometheus"
	"editor-media-sync/internal/model"
	"editor-media-sync/internal/resolution"
	uploadmanager_memory "editor-media-sync/internal/uploadmanager/memory"
	resolution_mock "editor-media-sync/mocks/resolution"
)

type recordingSink struct {
	mu     sync.Mutex
	ready  bool
	events []model.UpdateEvent
}

func newRecordingSink() *recordingSink {
	return &recordingSink{ready: true}
}

func (s *recordingSink) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

func (s *recordingSink) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

func (s *recordingSink) EmitUpdate(event model.UpdateEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) Events() []model.UpdateEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]model.UpdateEvent, len(s.events))
	copy(result, s.events)
	return result
}

func waitForEvents(t *testing.T, sink *recordingSink, count int) []model.UpdateEvent {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(sink.Events()) >= count
	}, 2*time.Second, 5*time.Millisecond)
	return sink.Events()
}

// settle gives the dispatch goroutine a moment to surface anything that
// should not have been emitted.
func settle() {
	time.Sleep(50 * time.Millisecond)
}

func newTestSession(t *testing.T, postID int64, resolver resolution.Resolver) (*Session, *uploadmanager_memory.Manager, *recordingSink) {
	t.Helper()
	log := logger.New("test")
	manager := uploadmanager_memory.NewManager(log)
	sink := newRecordingSink()

	session, err := NewSession(postID, manager, resolver, sink, log, prometheus_metrics.NewPrometheusMetricsProvider())
	require.NoError(t, err)
	t.Cleanup(session.Close)
	return session, manager, sink
}

func addItem(t *testing.T, manager *uploadmanager_memory.Manager, item *model.MediaItem) *model.MediaItem {
	t.Helper()
	created, err := manager.AddItem(context.Background(), item, model.Provenance{Origin: "test"})
	require.NoError(t, err)
	return created
}

func TestSession_ImageHappyPath(t *testing.T) {
	_, manager, sink := newTestSession(t, 1, &resolution_mock.Resolver{})

	item := addItem(t, manager, &model.MediaItem{
		LocalKey: "media-local://happy-image",
		PostID:   1,
		Kind:     model.MediaKindImage,
	})
	id := itemUploadID(item)

	require.NoError(t, manager.Deliver(item.LocalKey, model.Processing()))
	require.NoError(t, manager.Deliver(item.LocalKey, model.ThumbnailReady("file:///tmp/p.jpg")))
	require.NoError(t, manager.Deliver(item.LocalKey, model.Uploading(0.5)))
	require.NoError(t, manager.SetRemoteIdentity(item.LocalKey, 101, "https://cdn.example.com/happy.jpg"))
	require.NoError(t, manager.Deliver(item.LocalKey, model.Ended()))

	events := waitForEvents(t, sink, 4)
	require.Len(t, events, 4)
	assert.Equal(t, model.UpdateEvent{UploadID: id, State: model.UpdateStateUploading, Progress: 0}, events[0])
	assert.Equal(t, model.UpdateEvent{UploadID: id, State: model.UpdateStateUploading, Progress: thumbnailReadyProgress, PreviewURL: "file:///tmp/p.jpg"}, events[1])
	assert.Equal(t, model.UpdateEvent{UploadID: id, State: model.UpdateStateUploading, Progress: 0.5}, events[2])
	assert.Equal(t, model.UpdateEvent{UploadID: id, State: model.UpdateStateSucceeded, Progress: 1, PreviewURL: "https://cdn.example.com/happy.jpg", ServerID: 101}, events[3])
}

func TestSession_MissingIdentityGuard(t *testing.T) {
	_, manager, sink := newTestSession(t, 1, &resolution_mock.Resolver{})

	item := addItem(t, manager, &model.MediaItem{
		LocalKey: "media-local://no-identity",
		PostID:   1,
		Kind:     model.MediaKindImage,
	})

	require.NoError(t, manager.Deliver(item.LocalKey, model.Processing()))
	require.NoError(t, manager.Deliver(item.LocalKey, model.Ended()))

	events := waitForEvents(t, sink, 1)
	settle()
	events = sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.UpdateStateUploading, events[0].State)
}

func TestSession_CancelOneEmitsSingleReset(t *testing.T) {
	session, manager, sink := newTestSession(t, 1, &resolution_mock.Resolver{})

	item := addItem(t, manager, &model.MediaItem{
		LocalKey: "media-local://cancel-me",
		PostID:   1,
		Kind:     model.MediaKindImage,
	})
	require.NoError(t, manager.Deliver(item.LocalKey, model.Uploading(0.3)))

	// CancelAndDelete makes the manager deliver failed(cancelled) as well;
	// only one reset may reach the sink.
	require.NoError(t, session.CancelOne(context.Background(), item))

	waitForEvents(t, sink, 2)
	settle()

	events := sink.Events()
	resets := 0
	for _, event := range events {
		if event.State == model.UpdateStateReset {
			resets++
		}
	}
	assert.Equal(t, 1, resets)
	assert.Len(t, events, 2)
}

func TestSession_ManagerCancellationMapsToReset(t *testing.T) {
	_, manager, sink := newTestSession(t, 1, &resolution_mock.Resolver{})

	item := addItem(t, manager, &model.MediaItem{
		LocalKey: "media-local://cancel-all",
		PostID:   1,
		Kind:     model.MediaKindImage,
	})
	require.NoError(t, manager.Deliver(item.LocalKey, model.Uploading(0.1)))
	require.NoError(t, manager.CancelAll(context.Background(), 1))

	events := waitForEvents(t, sink, 2)
	assert.Equal(t, model.UpdateStateReset, events[1].State)
	assert.Equal(t, float64(0), events[1].Progress)
}

func TestSession_FailureMapsToFailed(t *testing.T) {
	_, manager, sink := newTestSession(t, 1, &resolution_mock.Resolver{})

	item := addItem(t, manager, &model.MediaItem{
		LocalKey: "media-local://doomed",
		PostID:   1,
		Kind:     model.MediaKindImage,
	})
	require.NoError(t, manager.Deliver(item.LocalKey, model.Failed(errors.New("connection reset"))))

	events := waitForEvents(t, sink, 1)
	assert.Equal(t, model.UpdateStateFailed, events[0].State)
}

func TestSession_RetryRestartsSequence(t *testing.T) {
	_, manager, sink := newTestSession(t, 1, &resolution_mock.Resolver{})

	item := addItem(t, manager, &model.MediaItem{
		LocalKey: "media-local://retry-me",
		PostID:   1,
		Kind:     model.MediaKindImage,
	})
	require.NoError(t, manager.Deliver(item.LocalKey, model.Failed(errors.New("timeout"))))
	waitForEvents(t, sink, 1)

	// A stale progress report after the terminal event is suppressed.
	require.NoError(t, manager.Deliver(item.LocalKey, model.Uploading(0.9)))
	settle()
	require.Len(t, sink.Events(), 1)

	// Retry restarts the sequence with a fresh processing transition.
	require.NoError(t, manager.Retry(context.Background(), item))
	require.NoError(t, manager.Deliver(item.LocalKey, model.Uploading(0.2)))

	events := waitForEvents(t, sink, 3)
	assert.Equal(t, model.UpdateStateUploading, events[1].State)
	assert.Equal(t, float64(0), events[1].Progress)
	assert.Equal(t, 0.2, events[2].Progress)
}

func TestSession_VideoResolutionSuccess(t *testing.T) {
	resolver := &resolution_mock.Resolver{}
	resolver.On("ResolvePlayableURL", mock.Anything, "token-1").
		Return(&resolution.PlaybackInfo{VideoURL: "https://videos.example.com/v.mp4", PosterURL: "https://videos.example.com/v.jpg"}, nil)

	_, manager, sink := newTestSession(t, 1, resolver)

	item := addItem(t, manager, &model.MediaItem{
		LocalKey:        "media-local://video-ok",
		PostID:          1,
		Kind:            model.MediaKindVideo,
		RemoteID:        55,
		ResolutionToken: "token-1",
	})
	id := itemUploadID(item)

	require.NoError(t, manager.Deliver(item.LocalKey, model.Ended()))

	events := waitForEvents(t, sink, 1)
	settle()
	events = sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.UpdateEvent{
		UploadID:   id,
		State:      model.UpdateStateSucceeded,
		Progress:   1,
		PreviewURL: "https://videos.example.com/v.mp4",
		ServerID:   55,
	}, events[0])
	resolver.AssertExpectations(t)
}

func TestSession_VideoResolutionFailure(t *testing.T) {
	resolver := &resolution_mock.Resolver{}
	resolver.On("ResolvePlayableURL", mock.Anything, "token-2").
		Return(nil, custom_errors.ErrResolutionFailed)

	_, manager, sink := newTestSession(t, 1, resolver)

	item := addItem(t, manager, &model.MediaItem{
		LocalKey:        "media-local://video-bad",
		PostID:          1,
		Kind:            model.MediaKindVideo,
		ResolutionToken: "token-2",
	})

	require.NoError(t, manager.Deliver(item.LocalKey, model.Ended()))

	events := waitForEvents(t, sink, 1)
	settle()
	events = sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.UpdateStateFailed, events[0].State)
}

func TestSession_SelfHostedVideoSkipsResolution(t *testing.T) {
	resolver := &resolution_mock.Resolver{}

	_, manager, sink := newTestSession(t, 1, resolver)

	item := addItem(t, manager, &model.MediaItem{
		LocalKey:  "media-local://video-selfhosted",
		PostID:    1,
		Kind:      model.MediaKindVideo,
		RemoteID:  77,
		RemoteURL: "https://blog.example.com/v.mp4",
	})

	require.NoError(t, manager.Deliver(item.LocalKey, model.Ended()))

	events := waitForEvents(t, sink, 1)
	assert.Equal(t, model.UpdateStateSucceeded, events[0].State)
	assert.Equal(t, "https://blog.example.com/v.mp4", events[0].PreviewURL)
	resolver.AssertNotCalled(t, "ResolvePlayableURL", mock.Anything, mock.Anything)
}

func TestSession_VideoWithoutURLFails(t *testing.T) {
	_, manager, sink := newTestSession(t, 1, &resolution_mock.Resolver{})

	item := addItem(t, manager, &model.MediaItem{
		LocalKey: "media-local://video-empty",
		PostID:   1,
		Kind:     model.MediaKindVideo,
	})

	require.NoError(t, manager.Deliver(item.LocalKey, model.Ended()))

	events := waitForEvents(t, sink, 1)
	assert.Equal(t, model.UpdateStateFailed, events[0].State)
}

func TestSession_NotReadySinkDropsEvents(t *testing.T) {
	_, manager, sink := newTestSession(t, 1, &resolution_mock.Resolver{})
	sink.SetReady(false)

	item := addItem(t, manager, &model.MediaItem{
		LocalKey: "media-local://early",
		PostID:   1,
		Kind:     model.MediaKindImage,
	})
	require.NoError(t, manager.Deliver(item.LocalKey, model.Processing()))

	settle()
	assert.Empty(t, sink.Events())
}

func TestSession_Resync(t *testing.T) {
	session, manager, sink := newTestSession(t, 1, &resolution_mock.Resolver{})

	item := addItem(t, manager, &model.MediaItem{
		LocalKey: "media-local://failed-item",
		PostID:   1,
		Kind:     model.MediaKindImage,
	})
	require.NoError(t, manager.Deliver(item.LocalKey, model.Failed(errors.New("timeout"))))
	waitForEvents(t, sink, 1)
	id := itemUploadID(item)

	require.NoError(t, session.Resync())

	events := waitForEvents(t, sink, 3)
	assert.Equal(t, model.UpdateEvent{UploadID: id, State: model.UpdateStateUploading, Progress: 0}, events[1])
	assert.Equal(t, model.UpdateEvent{UploadID: id, State: model.UpdateStateFailed, Progress: 0}, events[2])
	assert.Equal(t, 1, manager.SubscriptionCount())

	// A second resync with no intervening state change stays quiet and
	// still leaves exactly one live subscription.
	require.NoError(t, session.Resync())
	settle()
	assert.Len(t, sink.Events(), 3)
	assert.Equal(t, 1, manager.SubscriptionCount())

	// A retry is an intervening change; the next failure surfaces again and
	// so does the next resync.
	require.NoError(t, manager.Retry(context.Background(), item))
	require.NoError(t, manager.Deliver(item.LocalKey, model.Failed(errors.New("timeout"))))
	waitForEvents(t, sink, 5)

	require.NoError(t, session.Resync())
	events = waitForEvents(t, sink, 7)
	assert.Equal(t, model.UpdateStateFailed, events[6].State)
}

func TestSession_CloseUnsubscribes(t *testing.T) {
	log := logger.New("test")
	manager := uploadmanager_memory.NewManager(log)
	sink := newRecordingSink()

	session, err := NewSession(1, manager, &resolution_mock.Resolver{}, sink, log, prometheus_metrics.NewPrometheusMetricsProvider())
	require.NoError(t, err)
	require.Equal(t, 1, manager.SubscriptionCount())

	session.Close()
	assert.Equal(t, 0, manager.SubscriptionCount())

	// Close is idempotent.
	session.Close()
	assert.Equal(t, 0, manager.SubscriptionCount())

	assert.ErrorIs(t, session.Resync(), custom_errors.ErrSessionClosed)
}

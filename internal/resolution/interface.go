// Package resolution covers the secondary lookup needed for media kinds
// whose final playable URL is not known when the upload itself completes.
package resolution

import "context"

// PlaybackInfo is the result of a successful secondary resolution.
// PosterURL may be empty.
type PlaybackInfo struct {
	VideoURL  string `json:"video_url"`
	PosterURL string `json:"poster_url,omitempty"`
}

// Resolver performs one resolution attempt per call. No internal retry; a
// user-initiated retry re-enters the whole upload pipeline.
type Resolver interface {
	ResolvePlayableURL(ctx context.Context, token string) (*PlaybackInfo, error)
}

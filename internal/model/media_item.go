package model

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
)

// MediaItem is the durable record tracking one attachment through its upload
// lifecycle. LocalKey exists before any network identity and never changes;
// UploadID is recomputed from it and stays stable while RemoteID/RemoteURL
// are populated later.
type MediaItem struct {
	LocalKey          string             `json:"local_key"`
	PostID            int64              `json:"post_id"`
	UploadID          int32              `json:"upload_id"`
	RemoteID          int64              `json:"remote_id,omitempty"`
	RemoteURL         string             `json:"remote_url,omitempty"`
	LocalThumbnailURL string             `json:"local_thumbnail_url,omitempty"`
	ResolutionToken   string             `json:"resolution_token,omitempty"`
	Kind              MediaKind          `json:"kind"`
	Status            UploadStatus       `json:"status"`
	Origin            string             `json:"origin,omitempty"`
	SelectionMethod   string             `json:"selection_method,omitempty"`
	CreatedAt         pgtype.Timestamptz `json:"created_at"`
}

// HasRemoteIdentity reports whether the upload manager has assigned both the
// server identifier and the remote URL.
func (m *MediaItem) HasRemoteIdentity() bool {
	return m.RemoteID != 0 && m.RemoteURL != ""
}

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
	MediaKindOther MediaKind = "other"
)

func (k MediaKind) IsValid() error {
	switch k {
	case MediaKindImage, MediaKindVideo, MediaKindOther:
		return nil
	}
	return fmt.Errorf("invalid media kind: %s", k)
}

func (k *MediaKind) UnmarshalText(text []byte) error {
	mk := MediaKind(text)
	if err := mk.IsValid(); err != nil {
		return err
	}
	*k = mk
	return nil
}

type UploadStatus string

const (
	UploadStatusNone      UploadStatus = "none"
	UploadStatusQueued    UploadStatus = "queued"
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusFailed    UploadStatus = "failed"
	UploadStatusSucceeded UploadStatus = "succeeded"
)

func (s UploadStatus) IsValid() error {
	switch s {
	case UploadStatusNone, UploadStatusQueued, UploadStatusUploading, UploadStatusFailed, UploadStatusSucceeded:
		return nil
	}
	return fmt.Errorf("invalid upload status: %s", s)
}

// Provenance tags a new upload item with where it came from. It is an opaque
// analytics side payload and never affects upload behavior.
type Provenance struct {
	Origin          string `json:"origin"`
	SelectionMethod string `json:"selection_method"`
}

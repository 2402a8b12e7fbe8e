package model

import "fmt"

// UpdateState is the normalized vocabulary the editor front-end understands.
type UpdateState string

const (
	UpdateStateUploading UpdateState = "uploading"
	UpdateStateFailed    UpdateState = "failed"
	UpdateStateSucceeded UpdateState = "succeeded"
	UpdateStateReset     UpdateState = "reset"
)

func (s UpdateState) IsValid() error {
	switch s {
	case UpdateStateUploading, UpdateStateFailed, UpdateStateSucceeded, UpdateStateReset:
		return nil
	}
	return fmt.Errorf("invalid update state: %s", s)
}

// IsTerminal reports whether the state ends an item's event sequence until a
// retry restarts it.
func (s UpdateState) IsTerminal() bool {
	return s == UpdateStateSucceeded || s == UpdateStateFailed || s == UpdateStateReset
}

// UpdateEvent is the ephemeral per-item progress event emitted to the editor.
// PreviewURL and ServerID are optional; the zero value means absent.
type UpdateEvent struct {
	UploadID   int32       `json:"upload_id"`
	State      UpdateState `json:"state"`
	Progress   float64     `json:"progress"`
	PreviewURL string      `json:"preview_url,omitempty"`
	ServerID   int64       `json:"server_id,omitempty"`
}

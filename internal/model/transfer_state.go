package model

import "fmt"

// TransferPhase enumerates the upload manager's per-item transfer states.
type TransferPhase string

const (
	TransferPhaseProcessing     TransferPhase = "processing"
	TransferPhaseThumbnailReady TransferPhase = "thumbnail_ready"
	TransferPhaseUploading      TransferPhase = "uploading"
	TransferPhaseEnded          TransferPhase = "ended"
	TransferPhaseFailed         TransferPhase = "failed"
)

func (p TransferPhase) IsValid() error {
	switch p {
	case TransferPhaseProcessing, TransferPhaseThumbnailReady, TransferPhaseUploading, TransferPhaseEnded, TransferPhaseFailed:
		return nil
	}
	return fmt.Errorf("invalid transfer phase: %s", p)
}

// TransferState is a tagged variant of the upload manager's callback payload.
// ThumbnailURL is set for thumbnail_ready, Progress for uploading, Err for
// failed; the remaining fields are zero.
type TransferState struct {
	Phase        TransferPhase
	ThumbnailURL string
	Progress     float64
	Err          error
}

func Processing() TransferState {
	return TransferState{Phase: TransferPhaseProcessing}
}

func ThumbnailReady(url string) TransferState {
	return TransferState{Phase: TransferPhaseThumbnailReady, ThumbnailURL: url}
}

func Uploading(progress float64) TransferState {
	return TransferState{Phase: TransferPhaseUploading, Progress: progress}
}

func Ended() TransferState {
	return TransferState{Phase: TransferPhaseEnded}
}

func Failed(err error) TransferState {
	return TransferState{Phase: TransferPhaseFailed, Err: err}
}

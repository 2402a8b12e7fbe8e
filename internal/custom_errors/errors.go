package custom_errors

import "errors"

var (
	ErrMediaNotFound        = errors.New("media item not found")
	ErrMediaValidation      = errors.New("media validation failed")
	ErrMediaCreateFailed    = errors.New("failed to create media item")
	ErrDatabaseQuery        = errors.New("database query error")
	ErrCacheMiss            = errors.New("cache miss")
	ErrCacheQuery           = errors.New("cache query error")
	ErrExternalServiceError = errors.New("external service error")

	// ErrUploadCancelled marks a transfer failure caused by user cancellation.
	// The observer maps it to a reset event instead of a failed event.
	ErrUploadCancelled = errors.New("upload cancelled")

	ErrMissingRemoteURL        = errors.New("missing remote URL")
	ErrResolutionFailed        = errors.New("playable URL resolution failed")
	ErrInconsistentUploadState = errors.New("upload ended without remote identity")
	ErrThumbnailExtraction     = errors.New("thumbnail extraction failed")
	ErrSubscriptionNotFound    = errors.New("subscription not found")
	ErrSessionClosed           = errors.New("session closed")
)

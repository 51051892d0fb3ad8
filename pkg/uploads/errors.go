package uploads

import "errors"

var (
	// ErrQuotaExceeded is returned by Accept when the session already holds
	// MaxImages descriptors.
	ErrQuotaExceeded = errors.New("the limit of 5 images has been reached")

	ErrEmptySessionID = errors.New("session id is empty")

	ErrFailedToLoadState = errors.New("failed to load upload state")
	ErrFailedToSaveState = errors.New("failed to save upload state")
)

package imagestore

import (
	"context"
	"mime/multipart"
)

// MaxFileSize is the largest upload accepted by any Store backend.
const MaxFileSize = 5 * 1024 * 1024

// Thumbnail dimensions shared by all backends.
const (
	ThumbWidth  = 300
	ThumbHeight = 200
)

// ThumbPrefix derives the thumbnail artifact name from an image id.
const ThumbPrefix = "thumb_"

// Descriptor identifies one accepted upload. ID doubles as the stored
// filename of the original; Path and Thumb are the externally servable
// locations of the two artifacts. The JSON field names are part of the
// upload API response format.
type Descriptor struct {
	ID    string `json:"id"`
	Path  string `json:"path"`
	Thumb string `json:"thumb"`
}

// Store persists validated uploads as original+thumbnail pairs.
//
// Persist validates the upload (size bounds, content sniffing), writes the
// original, derives the thumbnail and returns a descriptor for which both
// artifacts exist. On any failure after the original is written, the original
// is removed before the error is returned.
//
// Remove deletes both artifacts of an id. Ids that do not match the expected
// shape fail with ErrInvalidID without touching the backend; artifacts that
// are already absent are not an error.
type Store interface {
	Persist(ctx context.Context, fh *multipart.FileHeader) (Descriptor, error)
	Remove(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) bool
}

func validateUpload(fh *multipart.FileHeader) error {
	if fh == nil {
		return ErrNilFileHeader
	}
	if fh.Size <= 0 {
		return ErrEmptyFile
	}
	if fh.Size > MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

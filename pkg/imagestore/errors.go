package imagestore

import "errors"

var (
	// Validation errors, always raised before any artifact is written.
	ErrNilFileHeader = errors.New("file header is nil")
	ErrEmptyFile     = errors.New("file is damaged or empty")
	ErrFileTooLarge  = errors.New("file exceeds the 5 MB size limit")
	ErrInvalidID     = errors.New("invalid image id") // Rejects path traversal via crafted ids

	// Transport errors.
	ErrShortUpload      = errors.New("upload was only partially transferred")
	ErrFailedToOpenFile = errors.New("failed to open uploaded file")
	ErrFailedToReadFile = errors.New("failed to read uploaded file")

	// Filesystem errors.
	ErrFailedToCreateDirectory = errors.New("failed to prepare upload directory")
	ErrFailedToWriteFile       = errors.New("failed to write file")
	ErrFailedToDeleteFile      = errors.New("failed to delete file")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid storage configuration")
)

package sniff

import "errors"

var (
	// ErrUnsupportedFormat is returned for any content that is not a real JPEG or PNG.
	ErrUnsupportedFormat = errors.New("only JPEG and PNG images are supported")
	ErrEmptyContent      = errors.New("content is empty")

	ErrNilFileHeader    = errors.New("file header is nil")
	ErrFailedToOpenFile = errors.New("failed to open file")
	ErrFailedToReadFile = errors.New("failed to read file")
)

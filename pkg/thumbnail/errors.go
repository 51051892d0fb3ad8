package thumbnail

import "errors"

var (
	ErrDecode   = errors.New("failed to decode image")
	ErrResample = errors.New("failed to resample image")
	ErrCrop     = errors.New("failed to crop image")
	ErrEncode   = errors.New("failed to encode thumbnail")

	ErrInvalidTarget      = errors.New("target dimensions must be positive")
	ErrUnsupportedEncoder = errors.New("no encoder for media type")
)

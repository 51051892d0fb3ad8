// Package thumbnail produces fixed-size cover-crop thumbnails from JPEG and
// PNG sources.
//
// The pipeline decodes the source, resamples it onto a canvas that covers the
// target box (see package geometry), crops the centered window and re-encodes
// in the source format: JPEG at quality 85, PNG at the default zlib
// compression level with alpha preserved. Each stage fails with its own
// sentinel error (ErrDecode, ErrResample, ErrCrop, ErrEncode) so callers can
// tell a corrupt upload from an internal fault, and no stage ever passes a
// partial result forward.
package thumbnail

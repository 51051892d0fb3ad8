// Package geometry computes cover-fit scaling and center-crop placement for
// thumbnail generation.
//
// Cover-fit scales a source image so it fully covers a target box in both
// dimensions (as opposed to letterboxing, which would pad), then the excess
// is cropped symmetrically from the center. The package is purely numeric:
// no image data is touched and no state is kept between calls.
package geometry

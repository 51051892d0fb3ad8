package thumbnail

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/disintegration/imaging"

	"github.com/kadrportal/media/pkg/geometry"
	"github.com/kadrportal/media/pkg/sniff"
)

const (
	// JPEGQuality matches the quality level the rest of the system was built
	// around; changing it would alter the bytes of every regenerated thumbnail.
	JPEGQuality = 85

	// PNGCompression is the encoder setting for PNG thumbnails. The default
	// level corresponds to zlib level 6.
	PNGCompression = png.DefaultCompression
)

// Generate decodes the source image, scales it to cover width×height, crops
// the centered window and re-encodes it in the source format. The source is
// read fully from r; media must be the sniffed type of the same bytes.
//
// Malformed or truncated sources fail with ErrDecode. Intermediate images are
// plain Go values scoped to this call, so nothing is retained on either the
// success or the failure path.
func Generate(r io.Reader, media sniff.MediaType, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidTarget
	}

	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW <= 0 || srcH <= 0 {
		return nil, fmt.Errorf("%w: image has no pixels", ErrDecode)
	}

	plan := geometry.PlanCoverCrop(srcW, srcH, width, height)

	// imaging operates on NRGBA, so PNG alpha stays non-premultiplied through
	// both the resample and the crop.
	scaled := imaging.Resize(src, plan.ScaledW, plan.ScaledH, imaging.Lanczos)
	if scaled.Bounds().Dx() < width || scaled.Bounds().Dy() < height {
		return nil, fmt.Errorf("%w: scaled canvas %dx%d does not cover %dx%d",
			ErrResample, scaled.Bounds().Dx(), scaled.Bounds().Dy(), width, height)
	}

	window := image.Rect(plan.OffsetX, plan.OffsetY, plan.OffsetX+width, plan.OffsetY+height)
	cropped := imaging.Crop(scaled, window)
	if cropped.Bounds().Dx() != width || cropped.Bounds().Dy() != height {
		return nil, fmt.Errorf("%w: got %dx%d, want %dx%d",
			ErrCrop, cropped.Bounds().Dx(), cropped.Bounds().Dy(), width, height)
	}

	buf := new(bytes.Buffer)
	if err := encode(buf, cropped, media); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// encode writes img in the output codec of the given media type. The switch
// is exhaustive over accepted types; extending the accepted set requires an
// explicit decision here.
func encode(w io.Writer, img image.Image, media sniff.MediaType) error {
	switch media {
	case sniff.JPEG:
		if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
			return fmt.Errorf("%w: %v", ErrEncode, err)
		}
	case sniff.PNG:
		if err := imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(PNGCompression)); err != nil {
			return fmt.Errorf("%w: %v", ErrEncode, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedEncoder, media)
	}
	return nil
}

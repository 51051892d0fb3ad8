package geometry

import "math"

// Plan describes how to scale a source image and where to place the crop
// window so it covers a target box without letterboxing.
type Plan struct {
	ScaledW int
	ScaledH int
	OffsetX int
	OffsetY int
}

// PlanCoverCrop returns the scaled dimensions and center-crop offsets for
// fitting a srcW×srcH image onto a dstW×dstH box.
//
// The relatively longer source axis is scaled past the box and cropped:
// a source wider than the target ratio is pinned to the target height, a
// taller one to the target width. Offsets center the crop window and are
// floored, so an odd excess leaves the extra pixel on the right/bottom edge.
//
// All inputs must be strictly positive; callers validate dimensions before
// planning (decoded images always have non-zero bounds). The resulting plan
// guarantees ScaledW >= dstW, ScaledH >= dstH and that the window
// [OffsetX, OffsetX+dstW) × [OffsetY, OffsetY+dstH) lies within the scaled
// image.
func PlanCoverCrop(srcW, srcH, dstW, dstH int) Plan {
	srcRatio := float64(srcW) / float64(srcH)
	dstRatio := float64(dstW) / float64(dstH)

	var scaledW, scaledH int
	if srcRatio > dstRatio {
		scaledH = dstH
		scaledW = int(math.Round(float64(dstH) * srcRatio))
	} else {
		scaledW = dstW
		scaledH = int(math.Round(float64(dstW) / srcRatio))
	}

	return Plan{
		ScaledW: scaledW,
		ScaledH: scaledH,
		OffsetX: max(0, (scaledW-dstW)/2),
		OffsetY: max(0, (scaledH-dstH)/2),
	}
}

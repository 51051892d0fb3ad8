package geometry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kadrportal/media/pkg/geometry"
)

func TestPlanCoverCrop(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                   string
		srcW, srcH, dstW, dstH int
		want                   geometry.Plan
	}{
		{
			name: "wider than target pins height",
			srcW: 1200, srcH: 400, dstW: 300, dstH: 200,
			// ratio 3.0 > 1.5: scaledW = round(200*3) = 600
			want: geometry.Plan{ScaledW: 600, ScaledH: 200, OffsetX: 150, OffsetY: 0},
		},
		{
			name: "taller than target pins width",
			srcW: 400, srcH: 1200, dstW: 300, dstH: 200,
			// ratio 1/3 <= 1.5: scaledH = round(300/(1/3)) = 900
			want: geometry.Plan{ScaledW: 300, ScaledH: 900, OffsetX: 0, OffsetY: 350},
		},
		{
			name: "equal ratios need no crop",
			srcW: 600, srcH: 400, dstW: 300, dstH: 200,
			want: geometry.Plan{ScaledW: 300, ScaledH: 200, OffsetX: 0, OffsetY: 0},
		},
		{
			name: "square source on landscape target",
			srcW: 500, srcH: 500, dstW: 300, dstH: 200,
			// ratio 1.0 <= 1.5: scaledH = 300, offsetY = floor(100/2)
			want: geometry.Plan{ScaledW: 300, ScaledH: 300, OffsetX: 0, OffsetY: 50},
		},
		{
			name: "odd excess floors the offset",
			srcW: 301, srcH: 200, dstW: 300, dstH: 200,
			// scaledW = round(200*1.505) = 301, offsetX = floor(1/2) = 0
			want: geometry.Plan{ScaledW: 301, ScaledH: 200, OffsetX: 0, OffsetY: 0},
		},
		{
			name: "upscales a tiny source",
			srcW: 10, srcH: 10, dstW: 300, dstH: 200,
			want: geometry.Plan{ScaledW: 300, ScaledH: 300, OffsetX: 0, OffsetY: 50},
		},
		{
			name: "identity when source equals target",
			srcW: 300, srcH: 200, dstW: 300, dstH: 200,
			want: geometry.Plan{ScaledW: 300, ScaledH: 200, OffsetX: 0, OffsetY: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, geometry.PlanCoverCrop(tt.srcW, tt.srcH, tt.dstW, tt.dstH))
		})
	}
}

func TestPlanCoverCropInvariants(t *testing.T) {
	t.Parallel()

	const dstW, dstH = 300, 200

	// Sweep a range of aspect ratios including extreme slivers; the scaled
	// image must always cover the box and contain the crop window.
	for srcW := 1; srcW <= 2000; srcW += 37 {
		for srcH := 1; srcH <= 2000; srcH += 41 {
			plan := geometry.PlanCoverCrop(srcW, srcH, dstW, dstH)

			assert.GreaterOrEqual(t, plan.ScaledW, dstW, "src %dx%d", srcW, srcH)
			assert.GreaterOrEqual(t, plan.ScaledH, dstH, "src %dx%d", srcW, srcH)
			assert.GreaterOrEqual(t, plan.OffsetX, 0, "src %dx%d", srcW, srcH)
			assert.GreaterOrEqual(t, plan.OffsetY, 0, "src %dx%d", srcW, srcH)
			assert.LessOrEqual(t, plan.OffsetX+dstW, plan.ScaledW, "src %dx%d", srcW, srcH)
			assert.LessOrEqual(t, plan.OffsetY+dstH, plan.ScaledH, "src %dx%d", srcW, srcH)
		}
	}
}

package metrics

import (
	"math"

	"github.com/vqmetrics/mclgo/primitives"
	"github.com/vqmetrics/mclgo/video"
)

// ComputeDistortionMap scores the luma plane pair block-by-block with the
// same DCT/DC-compensation/MPEG-quant pipeline as computePlaneMWDVQM, but
// keeps the per-block score instead of reducing it to bmean/bmax, and
// broadcasts it across the block's 64 pixels so the result is a full
// width*height distortion map suitable for output.HeatmapWriter. Trailing
// rows/columns that don't fill a full 8x8 block are left at zero.
func ComputeDistortionMap(a, b video.PlaneView) []float32 {
	w, h := a.Width, a.Height
	out := make([]float32, w*h)

	bw, bh := w/8, h/8
	var blockA, blockB [64]float32
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			for y := 0; y < 8; y++ {
				rowA := a.Row(by*8 + y)
				rowB := b.Row(by*8 + y)
				for x := 0; x < 8; x++ {
					blockA[y*8+x] = sampleF32(rowA, a.SampleBytes, bx*8+x)
					blockB[y*8+x] = sampleF32(rowB, b.SampleBytes, bx*8+x)
				}
			}
			dctA := primitives.DCT8x8(blockA)
			dctB := primitives.DCT8x8(blockB)
			f1 := dcCompensation(dctA[0])
			f2 := dcCompensation(dctB[0])

			var sum float64
			for i := 0; i < 64; i++ {
				sum += math.Abs(float64(dctA[i])*f1-float64(dctB[i])*f2) / mpegLumaQuant[i]
			}
			score := float32(sum / 64.0)

			for y := 0; y < 8; y++ {
				base := (by*8+y)*w + bx*8
				for x := 0; x < 8; x++ {
					out[base+x] = score
				}
			}
		}
	}
	return out
}

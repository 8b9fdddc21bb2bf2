package metrics

import (
	"math"

	"github.com/vqmetrics/mclgo/pixfmt"
	"github.com/vqmetrics/mclgo/primitives"
	"github.com/vqmetrics/mclgo/video"
)

var mwdvqmMetrics = []metricDef{{name: "MWDVQM", bit: video.BitMWDVQM}}

// mpegLumaQuant is the MPEG-1 luma quantization matrix, row-major, used
// as an inverse weighting on DCT-domain coefficient differences.
var mpegLumaQuant = [64]float64{
	8, 16, 19, 22, 26, 27, 29, 34,
	16, 16, 22, 21, 27, 29, 34, 37,
	19, 22, 26, 27, 29, 31, 34, 38,
	22, 22, 26, 27, 29, 34, 37, 40,
	22, 26, 27, 29, 32, 35, 40, 48,
	26, 27, 29, 32, 35, 40, 48, 58,
	26, 27, 29, 34, 38, 46, 56, 69,
	27, 29, 35, 38, 46, 56, 69, 83,
}

// mwdvqmEvaluator computes the DCT-domain perceptual distortion score the
// way CMWDVQMEvaluator does in metrics_calc_lite.cpp: forward DCT,
// adaptive DC compensation, MPEG-quant-weighted absolute difference, per
// 8x8 block.
type mwdvqmEvaluator struct {
	tag       pixfmt.Tag
	src1      video.Source
	slots     []outputSlot
	numPlanes int
	chroma    pixfmt.ChromaClass
}

// NewMWDVQM constructs the MWDVQM evaluator for the given sequence tag.
func NewMWDVQM(tag pixfmt.Tag) video.Metric {
	return &mwdvqmEvaluator{tag: tag}
}

func (e *mwdvqmEvaluator) BindFrames(a, b video.Source) { e.src1 = a }

func (e *mwdvqmEvaluator) BindSelection(sel video.Selection) ([]string, []bool) {
	names, flags, slots := buildSelection(e.tag, sel, mwdvqmMetrics)
	e.slots = slots
	e.numPlanes = sel.NumPlanes
	return names, flags
}

func (e *mwdvqmEvaluator) Allocate() error {
	e.chroma = e.src1.ChromaClass()
	return nil
}

// dcCompensation returns the adaptive DC compensation factor f =
// (DC/1024)^0.65 / DC for DC>0, else 1, mirroring CMWDVQMEvaluator's
// per-block DC weighting step in metrics_calc_lite.cpp.
func dcCompensation(dc float32) float64 {
	if dc <= 0 {
		return 1.0
	}
	d := float64(dc)
	return math.Pow(d/1024.0, 0.65) / d
}

// computePlaneMWDVQM scores one plane pair, tiling it into 8x8 blocks and
// accumulating block-mean and block-max of the MPEG-weighted DCT
// coefficient difference.
func computePlaneMWDVQM(a, b video.PlaneView) float64 {
	w, h := a.Width, a.Height
	bw, bh := w/8, h/8
	var bmean, bmax float64

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

			var sum, mx float64
			for i := 0; i < 64; i++ {
				diff := math.Abs(float64(dctA[i])*f1-float64(dctB[i])*f2) / mpegLumaQuant[i]
				sum += diff
				if diff > mx {
					mx = diff
				}
			}
			bmean += sum / 64.0
			if mx > bmax {
				bmax = mx
			}
		}
	}
	if bw == 0 || bh == 0 {
		return 0
	}
	bmean /= float64(bw * bh)
	return 50 * (12800*bmean/float64(w*h) + bmax)
}

// sampleF32 decodes one sample at column x of row (already sliced to the
// plane width), little-endian for 2-byte containers.
func sampleF32(row []byte, sampleBytes, x int) float32 {
	if sampleBytes == 1 {
		return float32(row[x])
	}
	return float32(uint16(row[2*x]) | uint16(row[2*x+1])<<8)
}

func (e *mwdvqmEvaluator) Compute(a, b *video.Frame, out, avg []float64) error {
	var sum [5]float64
	for p := 0; p < e.numPlanes; p++ {
		sum[p] = computePlaneMWDVQM(a.Plane(video.PlaneIndex(p)), b.Plane(video.PlaneIndex(p)))
	}
	sum[video.OverallSlot] = aggregateOverall(e.chroma, sum[:e.numPlanes])

	for i, s := range e.slots {
		idx := s.plane
		if idx < 0 {
			idx = video.OverallSlot
		}
		out[i] = sum[idx]
		avg[i] += sum[idx]
	}
	return nil
}

func (e *mwdvqmEvaluator) Close() {}

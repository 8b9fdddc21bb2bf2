package metrics

import (
	"github.com/vqmetrics/mclgo/pixfmt"
	"github.com/vqmetrics/mclgo/video"
)

var uqiMetrics = []metricDef{{name: "UQI", bit: video.BitUQI}}

// uqiWindow is the sliding window side the classic Wang-Bovik 1997
// Universal Quality Index uses.
const uqiWindow = 8

// uqiEvaluator computes the Universal Quality Index: an 8x8 windowed
// correlation-coefficient-weighted luminance/contrast distortion measure,
// averaged over every window position in the plane.
type uqiEvaluator struct {
	tag       pixfmt.Tag
	src1      video.Source
	slots     []outputSlot
	numPlanes int
	chroma    pixfmt.ChromaClass
}

// NewUQI constructs the UQI evaluator for the given sequence tag.
func NewUQI(tag pixfmt.Tag) video.Metric {
	return &uqiEvaluator{tag: tag}
}

func (e *uqiEvaluator) BindFrames(a, b video.Source) { e.src1 = a }

func (e *uqiEvaluator) BindSelection(sel video.Selection) ([]string, []bool) {
	names, flags, slots := buildSelection(e.tag, sel, uqiMetrics)
	e.slots = slots
	e.numPlanes = sel.NumPlanes
	return names, flags
}

func (e *uqiEvaluator) Allocate() error {
	e.chroma = e.src1.ChromaClass()
	return nil
}

// computePlaneUQI slides an 8x8 window one sample at a time over the
// plane pair (reference implementation's convention: windows step by 1,
// not tiled), averaging the per-window index.
//
// Q = (4*sxy*mx*my) / ((sx2+sy2)*(mx2+my2)), where m, s2, sxy are the
// window mean, variance, and covariance of x and y. A window with zero
// combined variance and zero mean difference scores 1 (identical,
// constant content); zero combined variance with differing means scores
// 0 (a uniform-to-uniform level shift, maximally distorted by this
// index's definition).
func computePlaneUQI(a, b video.PlaneView) float64 {
	w, h := a.Width, a.Height
	if w < uqiWindow || h < uqiWindow {
		return 1.0
	}

	var total float64
	var count int
	for y := 0; y+uqiWindow <= h; y++ {
		for x := 0; x+uqiWindow <= w; x++ {
			total += uqiWindowIndex(a, b, x, y)
			count++
		}
	}
	if count == 0 {
		return 1.0
	}
	return total / float64(count)
}

func uqiWindowIndex(a, b video.PlaneView, x0, y0 int) float64 {
	n := float64(uqiWindow * uqiWindow)
	var sx, sy float64
	for dy := 0; dy < uqiWindow; dy++ {
		rowA := a.Row(y0 + dy)
		rowB := b.Row(y0 + dy)
		for dx := 0; dx < uqiWindow; dx++ {
			sx += float64(sampleF32(rowA, a.SampleBytes, x0+dx))
			sy += float64(sampleF32(rowB, b.SampleBytes, x0+dx))
		}
	}
	mx, my := sx/n, sy/n

	var sx2, sy2, sxy float64
	for dy := 0; dy < uqiWindow; dy++ {
		rowA := a.Row(y0 + dy)
		rowB := b.Row(y0 + dy)
		for dx := 0; dx < uqiWindow; dx++ {
			vx := float64(sampleF32(rowA, a.SampleBytes, x0+dx)) - mx
			vy := float64(sampleF32(rowB, b.SampleBytes, x0+dx)) - my
			sx2 += vx * vx
			sy2 += vy * vy
			sxy += vx * vy
		}
	}
	sx2 /= n - 1
	sy2 /= n - 1
	sxy /= n - 1

	denom := (sx2 + sy2) * (mx*mx + my*my)
	if denom == 0 {
		if mx == my {
			return 1.0
		}
		return 0.0
	}
	return (4 * sxy * mx * my) / denom
}

func (e *uqiEvaluator) Compute(a, b *video.Frame, out, avg []float64) error {
	var sum [5]float64
	for p := 0; p < e.numPlanes; p++ {
		sum[p] = computePlaneUQI(a.Plane(video.PlaneIndex(p)), b.Plane(video.PlaneIndex(p)))
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

func (e *uqiEvaluator) Close() {}

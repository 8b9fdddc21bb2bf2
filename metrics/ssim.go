package metrics

import (
	"github.com/vqmetrics/mclgo/pixfmt"
	"github.com/vqmetrics/mclgo/primitives"
	"github.com/vqmetrics/mclgo/video"
)

// ssimMetrics is a one-entry metricDef list: SSIM is this evaluator's only
// output bit. Kept as a slice (not a bare constant) so it threads through
// buildSelection the same way every other evaluator family does.
var ssimMetrics = []metricDef{{name: "SSIM", bit: video.BitSSIM}}

const (
	ssimK1 = 0.01
	ssimK2 = 0.03
)

// gaussianKernels holds the three precomputed 1-D kernels {11/σ1.5,
// 7/σ0.75, 5/σ0.375} that kernelIndices walks across, mirroring
// CSSIMEvaluator's chroma/field kernel-selection table in
// metrics_calc_lite.cpp.
var gaussianKernels = [3][]float32{
	primitives.GaussianKernel(11, 1.5),
	primitives.GaussianKernel(7, 0.75),
	primitives.GaussianKernel(5, 0.375),
}

// kernelIndices returns the {horizontal, vertical} index into
// gaussianKernels for plane p: horizontal advances on C422/C420 chroma
// subsampling, vertical advances on C420 chroma or an interlaced source,
// each compensating for that axis's halved resolution relative to luma.
func kernelIndices(chroma pixfmt.ChromaClass, interlaced bool, planeIsChroma bool) (h, v int) {
	if planeIsChroma && (chroma == pixfmt.C420 || chroma == pixfmt.C422) {
		h = 1
	}
	if planeIsChroma && chroma == pixfmt.C420 {
		v++
	}
	if interlaced {
		v++
	}
	if v > 2 {
		v = 2
	}
	return h, v
}

// ssimEvaluator is the portable single-scale SSIM path: full-buffer f32
// conversion and separable-Gaussian smoothing with no streaming or
// tiling, used when the accelerated MS-SSIM evaluator is not requested.
type ssimEvaluator struct {
	tag       pixfmt.Tag
	src1      video.Source
	slots     []outputSlot
	numPlanes int
	chroma    pixfmt.ChromaClass
	interlace bool
	maxErr    float64

	buf ssimBuffers
}

// ssimBuffers holds the working buffers reused frame-to-frame, grown by
// ensureCapacity to the largest plane computePlaneSSIM has seen.
type ssimBuffers struct {
	mu1, mu2, mu1mu1, mu2mu2, mu1mu2 []float32
	smu1, smu2, smu1mu1, smu2mu2, smu1mu2 []float32
}

// NewSSIM constructs the single-scale SSIM evaluator for the given
// sequence tag.
func NewSSIM(tag pixfmt.Tag) video.Metric {
	return &ssimEvaluator{tag: tag}
}

func (e *ssimEvaluator) BindFrames(a, b video.Source) { e.src1 = a }

func (e *ssimEvaluator) BindSelection(sel video.Selection) ([]string, []bool) {
	names, flags, slots := buildSelection(e.tag, sel, ssimMetrics)
	e.slots = slots
	e.numPlanes = sel.NumPlanes
	return names, flags
}

func (e *ssimEvaluator) Allocate() error {
	e.chroma = e.src1.ChromaClass()
	e.interlace = e.src1.IsInterlaced()
	e.maxErr = e.src1.BitDepth().MaxError()
	return nil
}

// ensureCapacity grows the working buffers to fit a w×h plane, reused
// across planes and frames to avoid per-call allocation.
func (b *ssimBuffers) ensureCapacity(n int) {
	grow := func(s *[]float32) {
		if cap(*s) < n {
			*s = make([]float32, n)
		} else {
			*s = (*s)[:n]
		}
	}
	grow(&b.mu1)
	grow(&b.mu2)
	grow(&b.mu1mu1)
	grow(&b.mu2mu2)
	grow(&b.mu1mu2)
	grow(&b.smu1)
	grow(&b.smu2)
	grow(&b.smu1mu1)
	grow(&b.smu2mu2)
	grow(&b.smu1mu2)
}

// computePlaneSSIM runs the portable SSIM pipeline over one plane pair and
// returns the mean SSIM of the valid (border-trimmed) region, mirroring
// CSSIMEvaluator's non-accelerated path in metrics_calc_lite.cpp.
func computePlaneSSIM(a, b video.PlaneView, hk, vk int, maxErr float64, buf *ssimBuffers) (float64, error) {
	w, h := a.Width, a.Height
	n := w * h
	buf.ensureCapacity(n)

	for y := 0; y < h; y++ {
		decodeRowF32(a, y, buf.mu1[y*w:y*w+w])
		decodeRowF32(b, y, buf.mu2[y*w:y*w+w])
	}
	if err := primitives.SquareF32(buf.mu1, w, buf.mu1mu1, w, w, h); err != nil {
		return 0, err
	}
	if err := primitives.SquareF32(buf.mu2, w, buf.mu2mu2, w, w, h); err != nil {
		return 0, err
	}
	if err := primitives.MulF32(buf.mu1, w, buf.mu2, w, buf.mu1mu2, w, w, h); err != nil {
		return 0, err
	}

	hker, vker := gaussianKernels[hk], gaussianKernels[vk]
	vw, vh := w-len(hker)+1, h-len(vker)+1
	if vw < 1 || vh < 1 {
		return 1.0, nil
	}

	row := make([]float32, h*w)
	smooth := func(src, dst []float32) error {
		if err := primitives.FilterRowF32(src, w, row, w, vw, h, hker); err != nil {
			return err
		}
		return primitives.FilterColF32(row, w, dst, vw, vw, vh, vker)
	}
	if err := smooth(buf.mu1, buf.smu1); err != nil {
		return 0, err
	}
	if err := smooth(buf.mu2, buf.smu2); err != nil {
		return 0, err
	}
	if err := smooth(buf.mu1mu1, buf.smu1mu1); err != nil {
		return 0, err
	}
	if err := smooth(buf.mu2mu2, buf.smu2mu2); err != nil {
		return 0, err
	}
	if err := smooth(buf.mu1mu2, buf.smu1mu2); err != nil {
		return 0, err
	}

	c1 := (ssimK1 * maxErr) * (ssimK1 * maxErr)
	c2 := (ssimK2 * maxErr) * (ssimK2 * maxErr)

	var sum float64
	for i := 0; i < vw*vh; i++ {
		sum += ssimAt(
			float64(buf.smu1[i]), float64(buf.smu2[i]),
			float64(buf.smu1mu1[i]), float64(buf.smu2mu2[i]), float64(buf.smu1mu2[i]),
			c1, c2)
	}
	return sum / float64(vw*vh), nil
}

// ssimAt evaluates the SSIM formula at one already-smoothed pixel.
func ssimAt(em1, em2, em1sq, em2sq, em1m2, c1, c2 float64) float64 {
	t1 := 2*em1*em2 + c1
	t2 := 2*em1m2 - t1 + (c1 + c2)
	t3 := em1*em1 + em2*em2 + c1
	t4 := em1sq + em2sq - t3 + (c1 + c2)

	const eps = 1.1920929e-7 // FLT_EPSILON
	switch {
	case t3*t4 >= eps:
		return (t1 * t2) / (t3 * t4)
	case t3 >= eps:
		return t1 / t3
	default:
		return 1.0
	}
}

// decodeRowF32 widens one plane row into dst, branching once on sample
// width rather than per-sample through PlaneView.Sample.
func decodeRowF32(p video.PlaneView, y int, dst []float32) {
	row := p.Row(y)
	if p.SampleBytes == 1 {
		for x, v := range row {
			dst[x] = float32(v)
		}
		return
	}
	for x := 0; x < p.Width; x++ {
		dst[x] = float32(uint16(row[2*x]) | uint16(row[2*x+1])<<8)
	}
}

func (e *ssimEvaluator) Compute(a, b *video.Frame, out, avg []float64) error {
	var sum [5]float64
	for p := 0; p < e.numPlanes; p++ {
		hk, vk := kernelIndices(e.chroma, e.interlace, p > 0 && p < 3)
		v, err := computePlaneSSIM(a.Plane(video.PlaneIndex(p)), b.Plane(video.PlaneIndex(p)), hk, vk, e.maxErr, &e.buf)
		if err != nil {
			return err
		}
		sum[p] = v
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

func (e *ssimEvaluator) Close() {}

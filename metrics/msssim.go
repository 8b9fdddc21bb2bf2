package metrics

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/vqmetrics/mclgo/blockingpool"
	"github.com/vqmetrics/mclgo/pixfmt"
	"github.com/vqmetrics/mclgo/primitives"
	"github.com/vqmetrics/mclgo/status"
	"github.com/vqmetrics/mclgo/video"
)

// errUnsupportedSize reports a plane too small for MS-SSIM/SSIM/artifacts,
// mirroring CMSSIMEvaluator's minimum-size rejection in
// metrics_calc_lite.cpp.
func errUnsupportedSize(w, h int) error {
	return status.New(status.CodeCompatibility, "plane %dx%d below minimum size for MS-SSIM/SSIM/artifacts", w, h)
}

// msssimScales is the pyramid depth: one direct scale plus four 2x area
// averaged downsamplings.
const msssimScales = 5

// msssimWeights are the per-scale structure/contrast weights applied to
// scales 0..3; scale 4's mean-SSIM term uses the 0.1333 exponent directly.
var msssimWeights = [msssimScales]float64{0.0448, 0.2856, 0.3001, 0.2363, 0.1333}

// minFrameSide is the smallest luma-plane side MS-SSIM/SSIM/artifacts
// tolerate, scaled per chroma class for chroma planes.
const minFrameSide = 176

var msssimMetrics = []metricDef{
	{name: "SSIM", bit: video.BitSSIM},
	{name: "MSSIM", bit: video.BitMSSIM},
	{name: "ARTIFACTS", bit: video.BitArtifacts},
}

// ssimContext is one band's private streaming workspace, pooled across
// frames the way CMSSIMEvaluator keeps pool handles private to the
// evaluator instance. Mirrors ssim_context from the accelerated reference
// path, minus the row-ring-buffer machinery: this implementation smooths a
// scale's full plane once and hands each context only the reduction over
// its own band of the already-smoothed valid region — an embarrassingly
// parallel reduction with no ordering requirement.
type ssimContext struct {
	buf ssimBuffers
}

// msssimEvaluator computes single-scale SSIM (scale 0, undownsampled),
// 5-scale MS-SSIM, and the SSIM-derived artifact fraction from one shared
// Gaussian-pyramid pipeline.
type msssimEvaluator struct {
	tag       pixfmt.Tag
	src1      video.Source
	slots     []outputSlot
	numPlanes int
	chroma    pixfmt.ChromaClass
	interlace bool
	maxErr    float64

	ctxPool  blockingpool.BlockingPool[*ssimContext]
	maxBands int
}

// NewMSSIM constructs the MS-SSIM/SSIM/artifacts evaluator for the given
// sequence tag, with up to maxParallelism concurrent reduction bands
// (further capped at 8, matching the accelerated reference path's band
// cap).
func NewMSSIM(tag pixfmt.Tag, maxParallelism int) video.Metric {
	ctxCount := maxParallelism
	if ctxCount > 8 {
		ctxCount = 8
	}
	if ctxCount < 1 {
		ctxCount = 1
	}
	e := &msssimEvaluator{tag: tag, maxBands: ctxCount}
	e.ctxPool = blockingpool.NewBlockingPool[*ssimContext](ctxCount)
	for i := 0; i < ctxCount; i++ {
		e.ctxPool.Put(&ssimContext{})
	}
	return e
}

func (e *msssimEvaluator) BindFrames(a, b video.Source) { e.src1 = a }

func (e *msssimEvaluator) BindSelection(sel video.Selection) ([]string, []bool) {
	names, flags, slots := buildSelection(e.tag, sel, msssimMetrics)
	e.slots = slots
	e.numPlanes = sel.NumPlanes
	return names, flags
}

func (e *msssimEvaluator) Allocate() error {
	e.chroma = e.src1.ChromaClass()
	e.interlace = e.src1.IsInterlaced()
	e.maxErr = e.src1.BitDepth().MaxError()
	return nil
}

// minSideFor returns the minimum tolerated plane side for p, doubling the
// width requirement for C422 and both dimensions for C444, mirroring
// CMSSIMEvaluator's per-chroma-class minimum-size table in
// metrics_calc_lite.cpp.
func minSideFor(chroma pixfmt.ChromaClass, planeIsChroma bool) (minW, minH int) {
	minW, minH = minFrameSide, minFrameSide
	if !planeIsChroma {
		return minW, minH
	}
	switch chroma {
	case pixfmt.C422:
		minW *= 2
	case pixfmt.C444:
		minW *= 2
		minH *= 2
	}
	return minW, minH
}

// downsampleF32 area-averages src 2x in each dimension, discarding a
// trailing odd row/column first (the reference's "&~1" masking).
func downsampleF32(src []float32, step, w, h int) (dst []float32, dw, dh int) {
	w, h = w&^1, h&^1
	dw, dh = w/2, h/2
	dst = make([]float32, dw*dh)
	for y := 0; y < dh; y++ {
		r0 := src[(2*y)*step : (2*y)*step+w]
		r1 := src[(2*y+1)*step : (2*y+1)*step+w]
		drow := dst[y*dw : y*dw+dw]
		for x := 0; x < dw; x++ {
			drow[x] = (r0[2*x] + r0[2*x+1] + r1[2*x] + r1[2*x+1]) * 0.25
		}
	}
	return dst, dw, dh
}

// scaleMaps holds one scale's smoothed quantities over its valid region,
// ready for band-parallel reduction.
type scaleMaps struct {
	w, h                                   int
	smu1, smu2, smu1mu1, smu2mu2, smu1mu2 []float32
}

// smoothScale runs the separable-Gaussian pipeline over one scale's f32
// planes, returning the smoothed valid-region maps at the kernel-reduced
// dimensions.
func smoothScale(mu1, mu2 []float32, w, h, hk, vk int) (*scaleMaps, error) {
	mu1mu1 := make([]float32, w*h)
	mu2mu2 := make([]float32, w*h)
	mu1mu2 := make([]float32, w*h)
	if err := primitives.SquareF32(mu1, w, mu1mu1, w, w, h); err != nil {
		return nil, err
	}
	if err := primitives.SquareF32(mu2, w, mu2mu2, w, w, h); err != nil {
		return nil, err
	}
	if err := primitives.MulF32(mu1, w, mu2, w, mu1mu2, w, w, h); err != nil {
		return nil, err
	}

	hker, vker := gaussianKernels[hk], gaussianKernels[vk]
	vw, vh := w-len(hker)+1, h-len(vker)+1
	m := &scaleMaps{w: vw, h: vh}
	if vw < 1 || vh < 1 {
		return m, nil
	}

	row := make([]float32, h*w)
	smooth := func(src []float32) ([]float32, error) {
		if err := primitives.FilterRowF32(src, w, row, w, vw, h, hker); err != nil {
			return nil, err
		}
		dst := make([]float32, vw*vh)
		if err := primitives.FilterColF32(row, w, dst, vw, vw, vh, vker); err != nil {
			return nil, err
		}
		return dst, nil
	}
	var err error
	if m.smu1, err = smooth(mu1); err != nil {
		return nil, err
	}
	if m.smu2, err = smooth(mu2); err != nil {
		return nil, err
	}
	if m.smu1mu1, err = smooth(mu1mu1); err != nil {
		return nil, err
	}
	if m.smu2mu2, err = smooth(mu2mu2); err != nil {
		return nil, err
	}
	if m.smu1mu2, err = smooth(mu1mu2); err != nil {
		return nil, err
	}
	return m, nil
}

// bandResult is one band's partial reduction.
type bandResult struct {
	ssimSum, csSum float64
	artCount       int
	n              int
}

// reduceBands splits m's valid region into >=64-row horizontal bands (the
// last band absorbing the remainder) and reduces ssim/cs/artifact counts
// concurrently, capped at min(maxBands, GOMAXPROCS).
func (e *msssimEvaluator) reduceBands(m *scaleMaps, c1, c2 float64) (bandResult, error) {
	if m.w < 1 || m.h < 1 {
		return bandResult{}, nil
	}
	const minRows = 64
	bands := m.h / minRows
	if bands < 1 {
		bands = 1
	}
	if bands > e.maxBands {
		bands = e.maxBands
	}
	rowsPerBand := m.h / bands

	results := make([]bandResult, bands)
	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < bands; i++ {
		i := i
		start := i * rowsPerBand
		end := start + rowsPerBand
		if i == bands-1 {
			end = m.h
		}
		g.Go(func() error {
			ctx := e.ctxPool.Get()
			defer e.ctxPool.Put(ctx)
			results[i] = reduceRows(m, start, end, c1, c2)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return bandResult{}, err
	}

	var total bandResult
	for _, r := range results {
		total.ssimSum += r.ssimSum
		total.csSum += r.csSum
		total.artCount += r.artCount
		total.n += r.n
	}
	return total, nil
}

// reduceRows sums ssim/cs/artifact indicator over rows [start,end) of m.
// The pool's capacity-limited acquire/release stays in the hot path even
// though the smoothing pass itself is shared across bands, bounding
// concurrent band workers the same way the accelerated reference path
// bounds its worker pool.
func reduceRows(m *scaleMaps, start, end int, c1, c2 float64) bandResult {
	var r bandResult
	for y := start; y < end; y++ {
		off := y * m.w
		for x := 0; x < m.w; x++ {
			i := off + x
			em1, em2 := float64(m.smu1[i]), float64(m.smu2[i])
			em1sq, em2sq, em1m2 := float64(m.smu1mu1[i]), float64(m.smu2mu2[i]), float64(m.smu1mu2[i])

			t1 := 2*em1*em2 + c1
			t2 := 2*em1m2 - t1 + (c1 + c2)
			t3 := em1*em1 + em2*em2 + c1
			t4 := em1sq + em2sq - t3 + (c1 + c2)

			const eps = 1.1920929e-7
			var ssim, cs float64
			switch {
			case t3*t4 >= eps:
				ssim = (t1 * t2) / (t3 * t4)
				cs = t2 / t4
			case t3 >= eps:
				ssim = t1 / t3
				cs = 1.0
			default:
				ssim, cs = 1.0, 1.0
			}
			r.ssimSum += ssim
			r.csSum += cs
			if cs < 0.3 {
				r.artCount++
			}
			r.n++
		}
	}
	return r
}

// computePlaneMSSIM runs the full 5-scale pyramid for one plane pair and
// returns (ssimScale0, msssim, artifacts).
func (e *msssimEvaluator) computePlaneMSSIM(a, b video.PlaneView, hk, vk int) (float64, float64, float64, error) {
	w, h := a.Width, a.Height
	mu1 := make([]float32, w*h)
	mu2 := make([]float32, w*h)
	for y := 0; y < h; y++ {
		decodeRowF32(a, y, mu1[y*w:y*w+w])
		decodeRowF32(b, y, mu2[y*w:y*w+w])
	}

	c1 := (ssimK1 * e.maxErr) * (ssimK1 * e.maxErr)
	c2 := (ssimK2 * e.maxErr) * (ssimK2 * e.maxErr)

	var mssimS, mcs [msssimScales]float64
	var artcnt [msssimScales]float64
	var ssim0 float64

	cw, ch := w, h
	for k := 0; k < msssimScales; k++ {
		if k > 0 {
			pw, ph := cw, ch
			mu1, cw, ch = downsampleF32(mu1, w, pw, ph)
			mu2, _, _ = downsampleF32(mu2, w, pw, ph)
			w = cw
		}
		m, err := smoothScale(mu1, mu2, cw, ch, hk, vk)
		if err != nil {
			return 0, 0, 0, err
		}
		res, err := e.reduceBands(m, c1, c2)
		if err != nil {
			return 0, 0, 0, err
		}
		if res.n == 0 {
			mssimS[k], mcs[k] = 1.0, 1.0
			continue
		}
		mssimS[k] = res.ssimSum / float64(res.n)
		mcs[k] = res.csSum / float64(res.n)
		if mssimS[k] < 0 {
			mssimS[k] = 0
		}
		if mcs[k] < 0 {
			mcs[k] = 0
		}
		artcnt[k] = float64(res.artCount) / float64(res.n)
		if k == 0 {
			ssim0 = mssimS[0]
		}
	}

	msssim := math.Pow(mssimS[4], msssimWeights[4])
	for k := 0; k < 4; k++ {
		msssim *= math.Pow(mcs[k], msssimWeights[k])
	}
	artifacts := 0.5 * (artcnt[3] + artcnt[4])

	return ssim0, msssim, artifacts, nil
}

func (e *msssimEvaluator) Compute(a, b *video.Frame, out, avg []float64) error {
	var ssimSum, msssimSum, artSum [5]float64
	for p := 0; p < e.numPlanes; p++ {
		pa := a.Plane(video.PlaneIndex(p))
		planeIsChroma := p > 0 && p < 3
		minW, minH := minSideFor(e.chroma, planeIsChroma)
		if pa.Width < minW || pa.Height < minH {
			return errUnsupportedSize(pa.Width, pa.Height)
		}
		hk, vk := kernelIndices(e.chroma, e.interlace, planeIsChroma)
		s, ms, art, err := e.computePlaneMSSIM(pa, b.Plane(video.PlaneIndex(p)), hk, vk)
		if err != nil {
			return err
		}
		ssimSum[p], msssimSum[p], artSum[p] = s, ms, art
	}
	ssimSum[video.OverallSlot] = aggregateOverall(e.chroma, ssimSum[:e.numPlanes])
	msssimSum[video.OverallSlot] = aggregateOverall(e.chroma, msssimSum[:e.numPlanes])
	artSum[video.OverallSlot] = aggregateOverall(e.chroma, artSum[:e.numPlanes])

	for i, s := range e.slots {
		idx := s.plane
		if idx < 0 {
			idx = video.OverallSlot
		}
		var v float64
		switch s.bit {
		case video.BitSSIM:
			v = ssimSum[idx]
		case video.BitMSSIM:
			v = msssimSum[idx]
		case video.BitArtifacts:
			v = artSum[idx]
		}
		out[i] = v
		avg[i] += v
	}
	return nil
}

func (e *msssimEvaluator) Close() {}

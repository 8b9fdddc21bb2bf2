package metrics

import (
	"github.com/vqmetrics/mclgo/pixfmt"
	"github.com/vqmetrics/mclgo/primitives"
	"github.com/vqmetrics/mclgo/video"
)

// psnrMetrics fixes the emission order CPSNREvaluator's constructor built
// its metrics vector in: MSE first (every PSNR/APSNR value is derived from
// it), then PSNR, then APSNR.
var psnrMetrics = []metricDef{
	{name: "MSE", bit: video.BitMSE},
	{name: "PSNR", bit: video.BitPSNR},
	{name: "APSNR", bit: video.BitAPSNR},
}

// psnrEvaluator computes per-plane and overall MSE, PSNR and APSNR.
// PSNR's running average accumulates raw per-frame MSE (converted to PSNR
// once, at sequence end, by the driver); APSNR's accumulates per-frame
// PSNR directly. This asymmetry is load-bearing, not an oversight — it is
// what makes APSNR differ from PSNR at all — and is carried over exactly
// from CPSNREvaluator::ComputeMetrics.
type psnrEvaluator struct {
	tag       pixfmt.Tag
	src1      video.Source
	slots     []outputSlot
	numPlanes int
	chroma    pixfmt.ChromaClass
	maxErr    float64
}

// NewPSNR constructs the MSE/PSNR/APSNR evaluator family for the given
// sequence tag.
func NewPSNR(tag pixfmt.Tag) video.Metric {
	return &psnrEvaluator{tag: tag}
}

func (e *psnrEvaluator) BindFrames(a, b video.Source) { e.src1 = a }

func (e *psnrEvaluator) BindSelection(sel video.Selection) ([]string, []bool) {
	names, flags, slots := buildSelection(e.tag, sel, psnrMetrics)
	e.slots = slots
	e.numPlanes = sel.NumPlanes
	return names, flags
}

func (e *psnrEvaluator) Allocate() error {
	e.chroma = e.src1.ChromaClass()
	e.maxErr = e.src1.BitDepth().MaxError()
	return nil
}

func (e *psnrEvaluator) Compute(a, b *video.Frame, out, avg []float64) error {
	var sum [5]float64
	for p := 0; p < e.numPlanes; p++ {
		pa, pb := a.Plane(video.PlaneIndex(p)), b.Plane(video.PlaneIndex(p))
		l2, err := primitives.L2NormDiffBytes(pa.Data, pa.Step, pb.Data, pb.Step, pa.Width, pa.Height, pa.SampleBytes)
		if err != nil {
			return err
		}
		sum[p] = l2 * l2 / float64(pa.Width*pa.Height)
	}
	sum[video.OverallSlot] = aggregateOverall(e.chroma, sum[:e.numPlanes])

	for i, s := range e.slots {
		idx := s.plane
		if idx < 0 {
			idx = video.OverallSlot
		}
		switch s.bit {
		case video.BitMSE:
			out[i] = sum[idx]
			avg[i] += sum[idx]
		case video.BitPSNR:
			out[i] = MSEToPSNR(sum[idx], e.maxErr)
			avg[i] += sum[idx]
		case video.BitAPSNR:
			v := MSEToPSNR(sum[idx], e.maxErr)
			out[i] = v
			avg[i] += v
		}
	}
	return nil
}

func (e *psnrEvaluator) Close() {}

// Package metrics implements the five evaluator families: PSNR/MSE/APSNR,
// single-scale SSIM, MS-SSIM (with artifact count), MWDVQM, and UQI. Each
// evaluator satisfies video.Metric and shares the component-selection and
// per-plane-to-overall aggregation logic defined here.
//
// Grounded on CMetricEvaluator::InitComputationParams in
// metrics_calc_lite.cpp, generalized from its three-array (names,
// out_flags, avg) output convention into a single ordered []outputSlot.
package metrics

import (
	"math"
	"strings"

	"github.com/vqmetrics/mclgo/pixfmt"
	"github.com/vqmetrics/mclgo/video"
)

// metricDef names one metric this evaluator family can produce and the
// bit that activates it, in the fixed emission order used by
// buildSelection (mirroring CMetricEvaluator's metrics vector construction
// order: MSE, then PSNR, then APSNR, etc., per evaluator).
type metricDef struct {
	name string
	bit  video.MetricBit
}

// outputSlot pairs one entry of the names/outputFlags result with the
// plane it was computed for (-1 for the overall row) and the metric bit
// it answers, so Compute can walk the same order without re-deriving it.
type outputSlot struct {
	bit   video.MetricBit
	plane int
}

// buildSelection implements CMetricEvaluator::InitComputationParams: for
// each metric definition, walk the real planes in order emitting
// "<PlaneChar>-<name>" wherever the plane's unioned mask (CMask, which
// folds in the overall row) requests this bit, then emit the bare metric
// name once more if the overall row itself requested it. A plane entry's
// output flag reflects only the plane's own explicit selection, not the
// union — so a metric pulled in purely to satisfy "overall" is computed
// and accumulated but not printed per-plane.
func buildSelection(tag pixfmt.Tag, sel video.Selection, defs []metricDef) ([]string, []bool, []outputSlot) {
	var names []string
	var flags []bool
	var slots []outputSlot

	for _, d := range defs {
		for p := 0; p < sel.NumPlanes; p++ {
			if !sel.CMask(p).Has(d.bit) {
				continue
			}
			names = append(names, tag.PlaneChar(p)+"-"+d.name)
			flags = append(flags, sel.PlaneMask[p].Has(d.bit))
			slots = append(slots, outputSlot{bit: d.bit, plane: p})
		}
		if sel.PlaneMask[video.OverallSlot].Has(d.bit) {
			names = append(names, d.name)
			flags = append(flags, true)
			slots = append(slots, outputSlot{bit: d.bit, plane: -1})
		}
	}

	// MSE is always computed and accumulated (other metrics derive from
	// it, e.g. PSNR at finalize time) but never printed by default; the
	// override is unconditional and name-based, matching
	// metrics_calc_lite.cpp's main() pass over metric_names before either
	// print loop.
	for i, name := range names {
		if name == "MSE" || strings.HasSuffix(name, "-MSE") {
			flags[i] = false
		}
	}

	return names, flags, slots
}

// aggregateOverall combines per-plane values into the "overall" row with
// chroma-class-dependent weighting, mirroring CMetricEvaluator's
// overall-row accumulation in metrics_calc_lite.cpp. vals holds the first
// sel.NumPlanes planes (3, or 4 when the alpha plane is included), each
// computed whether or not it is requested on its own, so the C444 divisor
// is len(vals) and an alpha plane outside NumPlanes adds no zero entry,
// side-stepping the original's m_num_planes-vs-unused-alpha
// under-weighting documented in DESIGN.md's Open Question decision 1.
func aggregateOverall(chroma pixfmt.ChromaClass, vals []float64) float64 {
	switch chroma {
	case pixfmt.C420:
		return (4*vals[0] + vals[1] + vals[2]) / 6
	case pixfmt.C422:
		return (2*vals[0] + vals[1] + vals[2]) / 4
	default:
		var sum float64
		for _, v := range vals {
			sum += v
		}
		return sum / float64(len(vals))
	}
}

// MSEToPSNR converts an MSE value to PSNR the way CPSNREvaluator does:
// capped at 1000 for a perfect match, -1 for a negative (invalid) MSE.
func MSEToPSNR(mse, maxErr float64) float64 {
	switch {
	case mse == 0:
		return 1000.0
	case mse < 0:
		return -1.0
	}
	db := 10 * math.Log10(maxErr*maxErr/mse)
	if db > 1000.0 {
		return 1000.0
	}
	return db
}

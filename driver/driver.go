package driver

import (
	"io"

	"github.com/vqmetrics/mclgo/metrics"
	"github.com/vqmetrics/mclgo/output"
	"github.com/vqmetrics/mclgo/pixfmt"
	"github.com/vqmetrics/mclgo/status"
	"github.com/vqmetrics/mclgo/video"
)

// Config bundles everything the driver needs to validate sources, build
// the schedule, and run the comparison, mirroring the inputs main()
// assembles before entering its frame loop in metrics_calc_lite.cpp.
type Config struct {
	Src1, Src2  video.Source
	Selection   video.Selection
	Metrics     []video.Metric
	Schedule1   SourceSchedule
	Schedule2   SourceSchedule
	SuppressPFM bool

	// DistMapPath, when non-empty, streams a per-frame luma distortion
	// heatmap to ffmpeg at that path (the -distmap flag).
	DistMapPath      string
	DistMapFrameRate float32
	DistMapMaxValue  float32
}

// Result holds the resolved output names/flags and the final
// per-sequence averages, ready for an output writer.
type Result struct {
	Names       []string
	OutputFlags []bool
	Averages    []float64
	FramesRun   int
}

// Validate checks the cross-source compatibility rules main() enforces
// before opening either file in metrics_calc_lite.cpp.
func Validate(src1, src2 video.Source, sel video.Selection) error {
	if src1.IsRGB() != src2.IsRGB() {
		return status.Fail(status.ReasonFamilyMismatch, "source 1 and source 2 differ in RGB/YUV family")
	}
	if src1.IsInterlaced() != src2.IsInterlaced() {
		return status.Fail(status.ReasonInterlaceMismatch, "source 1 and source 2 differ in interlaced/progressive scan")
	}
	chromaMismatch := src1.ChromaClass() != src2.ChromaClass()
	if chromaMismatch {
		for p := 1; p < 3; p++ {
			if sel.PlaneMask[p] != 0 || sel.CMask(p) != 0 {
				return status.Fail(status.ReasonChromaMismatch, "chroma-plane metrics requested but sources differ in chroma class")
			}
		}
	}
	return nil
}

// Run validates, schedules, and executes the full comparison, writing
// per-frame lines to w as it goes (unless SuppressPFM) and returning the
// final per-sequence averages.
func Run(cfg Config, tag pixfmt.Tag, bitDepth pixfmt.BitDepth, w io.Writer) (Result, error) {
	if err := Validate(cfg.Src1, cfg.Src2, cfg.Selection); err != nil {
		return Result{}, err
	}

	idx1, err := BuildIndices(cfg.Schedule1, cfg.Src1.NumFields())
	if err != nil {
		return Result{}, err
	}
	idx2, err := BuildIndices(cfg.Schedule2, cfg.Src2.NumFields())
	if err != nil {
		return Result{}, err
	}
	pairs := AlignSchedules(idx1, idx2)

	var names []string
	var flags []bool
	for _, m := range cfg.Metrics {
		m.BindFrames(cfg.Src1, cfg.Src2)
		n, f := m.BindSelection(cfg.Selection)
		names = append(names, n...)
		flags = append(flags, f...)
		if err := m.Allocate(); err != nil {
			return Result{}, status.Fail(status.ReasonAllocFailure, "evaluator allocation failed: %v", err)
		}
	}

	avg := make([]float64, len(names))
	out := make([]float64, len(names))

	var heatmap *output.HeatmapWriter
	if cfg.DistMapPath != "" {
		defer func() {
			if heatmap != nil {
				heatmap.Close()
			}
		}()
	}

	for _, pair := range pairs {
		ok1, err := cfg.Src1.Read(pair.I1)
		if err != nil {
			return Result{}, err
		}
		ok2, err := cfg.Src2.Read(pair.I2)
		if err != nil {
			return Result{}, err
		}
		if !ok1 || !ok2 {
			break
		}

		f1, f2 := cfg.Src1.Frame(), cfg.Src2.Frame()

		if cfg.DistMapPath != "" {
			luma1, luma2 := f1.Plane(video.Plane0), f2.Plane(video.Plane0)
			if heatmap == nil {
				frameRate := cfg.DistMapFrameRate
				if frameRate <= 0 {
					frameRate = 25
				}
				maxValue := cfg.DistMapMaxValue
				if maxValue <= 0 {
					maxValue = 1
				}
				heatmap, err = output.NewHeatmapWriter(luma1.Width, luma1.Height, frameRate, nil, cfg.DistMapPath, maxValue)
				if err != nil {
					return Result{}, status.Fail(status.ReasonAllocFailure, "distortion map writer: %v", err)
				}
			}
			if err := heatmap.WriteDistortion(metrics.ComputeDistortionMap(luma1, luma2)); err != nil {
				return Result{}, status.New(status.CodeInternal, "distortion map write: %v", err)
			}
		}

		offset := 0
		for _, m := range cfg.Metrics {
			n, _ := m.BindSelection(cfg.Selection)
			slice := out[offset : offset+len(n)]
			avgSlice := avg[offset : offset+len(n)]
			if err := m.Compute(f1, f2, slice, avgSlice); err != nil {
				return Result{}, err
			}
			offset += len(n)
		}

		if !cfg.SuppressPFM {
			if err := output.WriteFrame(w, names, flags, out); err != nil {
				return Result{}, err
			}
		}
	}

	maxErr := bitDepth.MaxError()
	output.FinalizeAverages(names, avg, len(pairs), func(mse float64) float64 {
		return metrics.MSEToPSNR(mse, maxErr)
	})

	for _, m := range cfg.Metrics {
		m.Close()
	}

	return Result{Names: names, OutputFlags: flags, Averages: avg, FramesRun: len(pairs)}, nil
}

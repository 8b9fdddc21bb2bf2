package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/pflag"

	"github.com/vqmetrics/mclgo/driver"
	"github.com/vqmetrics/mclgo/internal/logging"
	"github.com/vqmetrics/mclgo/metrics"
	"github.com/vqmetrics/mclgo/output"
	"github.com/vqmetrics/mclgo/pixfmt"
	"github.com/vqmetrics/mclgo/status"
	"github.com/vqmetrics/mclgo/video"
	"github.com/vqmetrics/mclgo/video/sources"
)

func main() {
	os.Exit(run())
}

// run implements main()'s argument loop from metrics_calc_lite.cpp: parse
// flags and positional metric/plane tokens, open both sources, validate
// compatibility, build the schedule, dispatch to the driver, and print
// per-sequence averages. It returns the process exit code rather than
// calling os.Exit directly so tests can exercise it.
func run() int {
	fs := pflag.NewFlagSet("mclgo", pflag.ContinueOnError)
	fs.Usage = func() {}
	settings := registerFlags(fs)

	remaining, err := parseTriples(os.Args[1:], settings)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		printUsage(fs)
		return status.ExitCode(status.Fail(status.ReasonTokenParse, "%v", err))
	}
	// pflag reads a single leading dash as a run of shorthand letters, so
	// each "-name" that names a registered flag (-i1, -w, -nopfm, ...) is
	// rewritten to pflag's "--name" form before parsing.
	for i, a := range remaining {
		if len(a) > 1 && a[0] == '-' && a[1] != '-' && fs.Lookup(a[1:]) != nil {
			remaining[i] = "-" + a
		}
	}
	if err := fs.Parse(remaining); err != nil {
		printUsage(fs)
		return status.ExitCode(status.Fail(status.ReasonTokenParse, "%v", err))
	}
	if settings.help {
		printUsage(fs)
		return 0
	}

	tokens := fs.Args()

	if settings.input1 == "" || settings.input2 == "" || settings.width <= 0 || settings.height <= 0 {
		printUsage(fs)
		return status.ExitCode(status.Fail(status.ReasonTokenParse, "missing required -i1/-i2/-w/-h"))
	}

	tag1, tag2, bd, err := resolveSequenceTypes(settings)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		var re *status.ReasonedError
		if errors.As(err, &re) {
			return status.ExitCode(re)
		}
		return status.ExitCode(status.Fail(status.ReasonTokenParse, "%v", err))
	}

	numPlanes := 3
	if settings.alpha && tag1.NumChannels() == 4 {
		numPlanes = 4
	}
	sel, err := parseMetricPlaneTokens(tokens, tag1.IsRGB(), numPlanes)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		printUsage(fs)
		return status.ExitCode(status.Fail(status.ReasonTokenParse, "%v", err))
	}
	if !anyBitSet(sel) {
		fmt.Fprintln(os.Stderr, "no metrics selected")
		return status.ExitCode(status.Fail(status.ReasonEmptyMask, "empty metric mask"))
	}

	src1, err := sources.Open(video.SequenceParams{
		Path: settings.input1, Width: settings.width, Height: settings.height,
		Tag: tag1, BitDepth: bd, RShift: settings.rshift1,
		BottomFirst: settings.btmFirst || settings.btmFirst1, Alpha: settings.alpha,
	})
	if err != nil {
		logging.Global().Error("failed to open first source", "path", settings.input1, "err", err)
		var re *status.ReasonedError
		if errors.As(err, &re) {
			return status.ExitCode(re)
		}
		return status.ExitCode(status.Fail(status.ReasonOpenSource1, "%v", err))
	}
	defer src1.Close()

	src2, err := sources.Open(video.SequenceParams{
		Path: settings.input2, Width: settings.width, Height: settings.height,
		Tag: tag2, BitDepth: bd, RShift: settings.rshift2,
		BottomFirst: settings.btmFirst || settings.btmFirst2, Alpha: settings.alpha,
	})
	if err != nil {
		logging.Global().Error("failed to open second source", "path", settings.input2, "err", err)
		var re *status.ReasonedError
		if errors.As(err, &re) {
			return status.ExitCode(re)
		}
		return status.ExitCode(status.Fail(status.ReasonOpenSource2, "%v", err))
	}
	defer src2.Close()

	sched1, sched2, err := buildSchedules(settings)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return status.ExitCode(status.Fail(status.ReasonScheduleConflict, "%v", err))
	}

	evaluators := buildEvaluators(tag1, sel)

	cfg := driver.Config{
		Src1: src1, Src2: src2, Selection: sel, Metrics: evaluators,
		Schedule1: sched1, Schedule2: sched2, SuppressPFM: settings.nopfm,
		DistMapPath: settings.distMapPath,
	}
	result, err := driver.Run(cfg, tag1, bd, os.Stdout)
	if err != nil {
		logging.Global().Error("run failed", "err", err)
		return status.ExitCode(err)
	}

	if err := output.WriteSequence(os.Stdout, result.Names, result.OutputFlags, result.Averages); err != nil {
		logging.Global().Error("failed to write output", "err", err)
		return -1
	}
	return 0
}

// resolveSequenceTypes parses -st's one-or-two tokens into tag1/tag2
// (tag2 falls back to tag1 when only one token is given), applies the
// -bd flag, and then lets any tag-specific ForcedBitDepth override it,
// mirroring parse_fourcc's bd-by-reference side effect.
func resolveSequenceTypes(s *cliSettings) (tag1, tag2 pixfmt.Tag, bd pixfmt.BitDepth, err error) {
	tag1, tag2 = pixfmt.I420P, pixfmt.I420P
	if len(s.seqTypes) >= 1 {
		tag1, err = pixfmt.ParseTag(s.seqTypes[0])
		if err != nil {
			return 0, 0, 0, err
		}
		tag2 = tag1
	}
	if len(s.seqTypes) >= 2 {
		if t2, err2 := pixfmt.ParseTag(s.seqTypes[1]); err2 == nil {
			tag2 = t2
		}
	}
	if tag1.IsInterlaced() != tag2.IsInterlaced() {
		return 0, 0, 0, status.Fail(status.ReasonInterlaceMismatch, "sequence types %v and %v disagree on interlacing", tag1, tag2)
	}

	switch s.bitDepth {
	case 8:
		bd = pixfmt.D008
	case 10:
		bd = pixfmt.D010
	case 12:
		bd = pixfmt.D012
	case 16:
		bd = pixfmt.D016
	default:
		return 0, 0, 0, fmt.Errorf("unsupported -bd value %d", s.bitDepth)
	}
	if forced, ok := tag1.ForcedBitDepth(); ok {
		bd = forced
	}
	return tag1, tag2, bd, nil
}

// buildEvaluators dispatches metric families by the bits actually
// requested anywhere in sel, mirroring main()'s "all_metrics &
// (MASK_...)" guards: MSSIM/ARTIFACTS pull in the accelerated shared
// pipeline (which also covers SSIM as its scale-0 byproduct); a
// plain SSIM request with neither of those uses the portable
// single-scale path instead.
func buildEvaluators(tag pixfmt.Tag, sel video.Selection) []video.Metric {
	all := sel.PlaneMask[0] | sel.PlaneMask[1] | sel.PlaneMask[2] | sel.PlaneMask[3] | sel.PlaneMask[video.OverallSlot]

	var evs []video.Metric
	if all&(video.BitPSNR|video.BitAPSNR|video.BitMSE) != 0 {
		evs = append(evs, metrics.NewPSNR(tag))
	}
	switch {
	case all&(video.BitMSSIM|video.BitArtifacts) != 0:
		evs = append(evs, metrics.NewMSSIM(tag, runtime.GOMAXPROCS(0)))
	case all&video.BitSSIM != 0:
		evs = append(evs, metrics.NewSSIM(tag))
	}
	if all&video.BitMWDVQM != 0 {
		evs = append(evs, metrics.NewMWDVQM(tag))
	}
	if all&video.BitUQI != 0 {
		evs = append(evs, metrics.NewUQI(tag))
	}
	return evs
}

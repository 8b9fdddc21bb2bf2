package video

import "github.com/vqmetrics/mclgo/pixfmt"

// Source is the frame-source contract: open a raw file, advertise geometry
// and interlacing, and on demand materialize a requested field as a Frame
// of plane views — the Go counterpart to CReader/CYUVReader/CRGBReader in
// metrics_calc_lite.cpp.
//
// Adapted from gometrics/video/video_interfaces.go's Source interface,
// which advertised ffms2-backed stream properties; this Source instead
// advertises the raw-file properties a CLI geometry/format flag group
// supplies directly — this engine never demuxes a container.
type Source interface {
	// Read materializes the frame backing fieldIndex. If that frame
	// (fieldIndex/2 for an interlaced source, fieldIndex itself for a
	// progressive one) is the cached frame, this is a no-op. Returns
	// ok=false at EOF.
	Read(fieldIndex int) (ok bool, err error)

	// Frame returns the most recently Read frame, with the field-view
	// transform already applied if the source is interlaced.
	Frame() *Frame

	// NumFields is the frame count, doubled when interlaced (each field
	// counts as one schedulable unit to the driver).
	NumFields() int

	IsInterlaced() bool
	IsRGB() bool
	ChromaClass() pixfmt.ChromaClass
	BitDepth() pixfmt.BitDepth

	Close() error
}

// Metric is the evaluator contract: bind frame sources, resolve the
// plane/metric selection into named output slots, prepare once before the
// first frame, and compute per-frame values while
// accumulating running averages — the interface every CMetricEvaluator
// subclass in metrics_calc_lite.cpp satisfies implicitly.
type Metric interface {
	// BindFrames attaches the two frame sources this evaluator compares.
	BindFrames(src1, src2 Source)

	// BindSelection resolves components into metric_names/output_flags,
	// mirroring CMetricEvaluator::InitComputationParams.
	BindSelection(components Selection) (names []string, outputFlags []bool)

	// Allocate runs once before the first frame; the evaluators in this
	// module read the bound sources' properties (chroma class, bit depth,
	// interlacing) here and size their working buffers inside Compute.
	Allocate() error

	// Compute appends one value per name (same order as BindSelection's
	// names) into out, and accumulates into avg.
	Compute(a, b *Frame, out []float64, avg []float64) error

	Close()
}

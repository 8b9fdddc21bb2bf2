// Package driver implements the single-threaded cooperative frame loop:
// validate the two sources, compute the frame schedule, allocate
// evaluators, and walk scheduled index pairs in order, mirroring main()'s
// argument-driven frame loop in metrics_calc_lite.cpp.
package driver

import (
	"github.com/vqmetrics/mclgo/internal/logging"
	"github.com/vqmetrics/mclgo/status"
)

// ScheduleMode selects between the two mutually exclusive ways a source's
// read order can be specified.
type ScheduleMode int

const (
	ModeStrided ScheduleMode = iota
	ModeSeek
)

// StridedSpec reads count frames starting at first, step fields apart.
type StridedSpec struct {
	Count, First, Step int
}

// SeekSpec simulates seek-stress access: step forward from To through
// From-1, then jump back to To, repeating Iterations+1 laps.
type SeekSpec struct {
	From, To, Iterations int
}

// SourceSchedule is one source's read-order specification.
type SourceSchedule struct {
	Mode    ScheduleMode
	Strided StridedSpec
	Seek    SeekSpec
}

// BuildIndices resolves spec into the concrete field-index sequence the
// driver will feed to Source.Read, clamped against numFields.
func BuildIndices(spec SourceSchedule, numFields int) ([]int, error) {
	switch spec.Mode {
	case ModeStrided:
		return buildStrided(spec.Strided, numFields)
	case ModeSeek:
		return buildSeek(spec.Seek)
	default:
		return nil, status.Fail(status.ReasonScheduleConflict, "unknown schedule mode %d", spec.Mode)
	}
}

// buildStrided clamps count by source length: a first index already past
// EOF is a benign ScheduleWarning (logged, empty schedule, exit 0, not an
// error);
// a step of 0 with count>1 is rejected as a malformed schedule.
func buildStrided(s StridedSpec, numFields int) ([]int, error) {
	if s.First >= numFields {
		logging.Warn("first frame offset is past the end of the source", "first", s.First, "frames", numFields)
		return nil, nil
	}
	if s.Step <= 0 {
		if s.Count > 1 {
			return nil, status.Fail(status.ReasonScheduleConflict, "strided schedule needs step>0 for count=%d", s.Count)
		}
		s.Step = 1
	}
	count := s.Count
	maxCount := (numFields-1-s.First)/s.Step + 1
	if count > maxCount {
		count = maxCount
	}
	indices := make([]int, count)
	for i := range indices {
		indices[i] = s.First + i*s.Step
	}
	return indices, nil
}

// buildSeek produces (From-To)*(Iterations+1) reads: each of the
// Iterations+1 laps walks To, To+1, ..., From-1 and then "seeks back" to
// To for the next lap, matching main()'s seek-stress branch in
// metrics_calc_lite.cpp, where hitting index From triggers the jump back
// to To — From itself is never read, it is only the trigger.
func buildSeek(s SeekSpec) ([]int, error) {
	if s.From <= s.To {
		return nil, status.Fail(status.ReasonScheduleConflict, "seek schedule needs from(%d) > to(%d)", s.From, s.To)
	}
	if s.Iterations < 0 {
		return nil, status.Fail(status.ReasonScheduleConflict, "seek schedule needs iterations>=0, got %d", s.Iterations)
	}
	lapLen := s.From - s.To
	indices := make([]int, 0, lapLen*(s.Iterations+1))
	for lap := 0; lap <= s.Iterations; lap++ {
		for i := 0; i < lapLen; i++ {
			indices = append(indices, s.To+i)
		}
	}
	return indices, nil
}

// AlignSchedules zips two per-source index sequences into the aligned
// (index1, index2) pairs the driver reads, truncating to the shorter.
func AlignSchedules(idx1, idx2 []int) []IndexPair {
	n := len(idx1)
	if len(idx2) < n {
		n = len(idx2)
	}
	pairs := make([]IndexPair, n)
	for i := 0; i < n; i++ {
		pairs[i] = IndexPair{I1: idx1[i], I2: idx2[i]}
	}
	return pairs
}

// IndexPair is one scheduled (source1, source2) field-index pair.
type IndexPair struct {
	I1, I2 int
}

package driver

import "testing"

func TestBuildStridedClamp(t *testing.T) {
	// "-fs 1000 0 1" on a 100-frame file processes exactly 100 frames,
	// clamped the same way main()'s frame-count loop clamps in
	// metrics_calc_lite.cpp.
	idx, err := buildStrided(StridedSpec{Count: 1000, First: 0, Step: 1}, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(idx) != 100 {
		t.Errorf("len(idx) = %d, want 100", len(idx))
	}
	for i, v := range idx {
		if v != i {
			t.Errorf("idx[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestBuildStridedFirstPastEOF(t *testing.T) {
	idx, err := buildStrided(StridedSpec{Count: 10, First: 200, Step: 1}, 100)
	if err != nil {
		t.Fatal(err)
	}
	if idx != nil {
		t.Errorf("idx = %v, want nil (benign empty schedule)", idx)
	}
}

func TestBuildStridedZeroStepRejected(t *testing.T) {
	if _, err := buildStrided(StridedSpec{Count: 5, First: 0, Step: 0}, 100); err == nil {
		t.Error("expected error for step=0 with count>1")
	}
}

func TestBuildStridedZeroStepSingleCountIsNoop(t *testing.T) {
	idx, err := buildStrided(StridedSpec{Count: 1, First: 3, Step: 0}, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(idx) != 1 || idx[0] != 3 {
		t.Errorf("idx = %v, want [3]", idx)
	}
}

func TestBuildStridedStep(t *testing.T) {
	idx, err := buildStrided(StridedSpec{Count: 3, First: 2, Step: 4}, 100)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{2, 6, 10}
	if len(idx) != len(want) {
		t.Fatalf("len(idx) = %d, want %d", len(idx), len(want))
	}
	for i := range want {
		if idx[i] != want[i] {
			t.Errorf("idx[%d] = %d, want %d", i, idx[i], want[i])
		}
	}
}

func TestBuildSeek(t *testing.T) {
	idx, err := buildSeek(SeekSpec{From: 5, To: 2, Iterations: 1})
	if err != nil {
		t.Fatal(err)
	}
	want := []int{2, 3, 4, 2, 3, 4}
	if len(idx) != len(want) {
		t.Fatalf("len(idx) = %d, want %d", len(idx), len(want))
	}
	for i := range want {
		if idx[i] != want[i] {
			t.Errorf("idx[%d] = %d, want %d", i, idx[i], want[i])
		}
	}
}

func TestBuildSeekRejectsFromNotGreaterThanTo(t *testing.T) {
	if _, err := buildSeek(SeekSpec{From: 2, To: 5, Iterations: 0}); err == nil {
		t.Error("expected error when from <= to")
	}
}

func TestBuildSeekRejectsNegativeIterations(t *testing.T) {
	if _, err := buildSeek(SeekSpec{From: 5, To: 2, Iterations: -1}); err == nil {
		t.Error("expected error for negative iterations")
	}
}

func TestAlignSchedulesTruncatesToShorter(t *testing.T) {
	pairs := AlignSchedules([]int{0, 1, 2, 3}, []int{10, 11})
	if len(pairs) != 2 {
		t.Fatalf("len(pairs) = %d, want 2", len(pairs))
	}
	if pairs[0] != (IndexPair{I1: 0, I2: 10}) || pairs[1] != (IndexPair{I1: 1, I2: 11}) {
		t.Errorf("pairs = %v, want [{0 10} {1 11}]", pairs)
	}
}

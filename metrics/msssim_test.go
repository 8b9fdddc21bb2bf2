package metrics

import (
	"math"
	"testing"

	"github.com/vqmetrics/mclgo/pixfmt"
)

func newTestMSSIM(t *testing.T) *msssimEvaluator {
	t.Helper()
	m := NewMSSIM(pixfmt.I420P, 2)
	ev, ok := m.(*msssimEvaluator)
	if !ok {
		t.Fatal("NewMSSIM did not return *msssimEvaluator")
	}
	src := &fakeSource{chroma: pixfmt.C420, bd: pixfmt.D008}
	ev.BindFrames(src, src)
	if err := ev.Allocate(); err != nil {
		t.Fatal(err)
	}
	return ev
}

// TestMSSSIMIdentity checks that MS-SSIM on identical planes at the
// minimum tolerated size is 1.0 with zero artifacts.
func TestMSSSIMIdentity(t *testing.T) {
	ev := newTestMSSIM(t)
	buf := make([]byte, minFrameSide*minFrameSide)
	for i := range buf {
		buf[i] = byte(i % 251)
	}
	p := mkPlane8(buf, minFrameSide, minFrameSide)

	ssim0, msssim, artifacts, err := ev.computePlaneMSSIM(p, p, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(ssim0-1.0) > 1e-6 {
		t.Errorf("scale-0 SSIM = %v, want 1.0", ssim0)
	}
	if math.Abs(msssim-1.0) > 1e-6 {
		t.Errorf("MS-SSIM = %v, want 1.0", msssim)
	}
	if artifacts != 0 {
		t.Errorf("artifacts = %v, want 0", artifacts)
	}
}

func TestMinSideForChromaClasses(t *testing.T) {
	if w, h := minSideFor(pixfmt.C420, false); w != minFrameSide || h != minFrameSide {
		t.Errorf("luma minSideFor(C420) = (%d,%d), want (%d,%d)", w, h, minFrameSide, minFrameSide)
	}
	if w, h := minSideFor(pixfmt.C420, true); w != minFrameSide || h != minFrameSide {
		t.Errorf("chroma minSideFor(C420) = (%d,%d), want (%d,%d)", w, h, minFrameSide, minFrameSide)
	}
	if w, h := minSideFor(pixfmt.C422, true); w != minFrameSide*2 || h != minFrameSide {
		t.Errorf("chroma minSideFor(C422) = (%d,%d), want (%d,%d)", w, h, minFrameSide*2, minFrameSide)
	}
	if w, h := minSideFor(pixfmt.C444, true); w != minFrameSide*2 || h != minFrameSide*2 {
		t.Errorf("chroma minSideFor(C444) = (%d,%d), want (%d,%d)", w, h, minFrameSide*2, minFrameSide*2)
	}
}

func TestDownsampleF32AreaAverage(t *testing.T) {
	src := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	dst, dw, dh := downsampleF32(src, 4, 4, 2)
	if dw != 2 || dh != 1 {
		t.Fatalf("dims = (%d,%d), want (2,1)", dw, dh)
	}
	want := []float32{(1 + 2 + 5 + 6) / 4.0, (3 + 4 + 7 + 8) / 4.0}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestDownsampleF32DiscardsOddTrailing(t *testing.T) {
	// 3x3 input: odd row/col discarded before averaging (the "&~1" mask).
	src := []float32{
		1, 2, 99,
		3, 4, 99,
		99, 99, 99,
	}
	dst, dw, dh := downsampleF32(src, 3, 3, 3)
	if dw != 1 || dh != 1 {
		t.Fatalf("dims = (%d,%d), want (1,1)", dw, dh)
	}
	if dst[0] != 2.5 {
		t.Errorf("dst[0] = %v, want 2.5", dst[0])
	}
}

package metrics

import (
	"math"
	"testing"

	"github.com/vqmetrics/mclgo/pixfmt"
)

func TestComputePlaneSSIMIdentity(t *testing.T) {
	buf := make([]byte, 16*16)
	for i := range buf {
		buf[i] = byte(i % 251)
	}
	p := mkPlane8(buf, 16, 16)
	var sb ssimBuffers
	got, err := computePlaneSSIM(p, p, 0, 0, 255, &sb)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-1.0) > 1e-6 {
		t.Errorf("SSIM identity = %v, want 1.0", got)
	}
}

func TestComputePlaneSSIMSymmetric(t *testing.T) {
	ref := make([]byte, 16*16)
	test := make([]byte, 16*16)
	for i := range ref {
		ref[i] = byte(i % 200)
		test[i] = byte((i * 3) % 200)
	}
	a := mkPlane8(ref, 16, 16)
	b := mkPlane8(test, 16, 16)
	var sbAB, sbBA ssimBuffers
	ab, err := computePlaneSSIM(a, b, 0, 0, 255, &sbAB)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := computePlaneSSIM(b, a, 0, 0, 255, &sbBA)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("SSIM(a,b) = %v, SSIM(b,a) = %v, want symmetric", ab, ba)
	}
}

func TestKernelIndicesChromaAndInterlace(t *testing.T) {
	// Luma is never downsampled regardless of chroma class or interlacing.
	if h, v := kernelIndices(pixfmt.C420, false, false); h != 0 || v != 0 {
		t.Errorf("luma kernelIndices(C420, false) = (%d,%d), want (0,0)", h, v)
	}
	if h, v := kernelIndices(pixfmt.C420, false, true); h != 1 || v != 1 {
		t.Errorf("chroma kernelIndices(C420, false) = (%d,%d), want (1,1)", h, v)
	}
	if h, v := kernelIndices(pixfmt.C420, true, false); h != 0 || v != 1 {
		t.Errorf("luma kernelIndices(C420, interlaced) = (%d,%d), want (0,1)", h, v)
	}
}

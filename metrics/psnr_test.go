package metrics

import (
	"math"
	"strings"
	"testing"

	"github.com/vqmetrics/mclgo/pixfmt"
	"github.com/vqmetrics/mclgo/video"
)

// fakeSource is a minimal video.Source stub exposing only the geometry
// evaluators actually read at Allocate time (ChromaClass, BitDepth); the
// remaining methods are never called by an evaluator under test.
type fakeSource struct {
	chroma pixfmt.ChromaClass
	bd     pixfmt.BitDepth
	rgb    bool
	interl bool
}

func (f *fakeSource) Read(int) (bool, error)      { return false, nil }
func (f *fakeSource) Frame() *video.Frame         { return nil }
func (f *fakeSource) NumFields() int              { return 0 }
func (f *fakeSource) IsInterlaced() bool          { return f.interl }
func (f *fakeSource) IsRGB() bool                 { return f.rgb }
func (f *fakeSource) ChromaClass() pixfmt.ChromaClass { return f.chroma }
func (f *fakeSource) BitDepth() pixfmt.BitDepth   { return f.bd }
func (f *fakeSource) Close() error                { return nil }

func planarFrame(y, u, v []byte, w, h int) *video.Frame {
	mk := func(d []byte) video.PlaneView {
		return video.PlaneView{Data: d, Step: w, Width: w, Height: h, SampleBytes: 1}
	}
	return &video.Frame{
		Planes:    [video.NumPlaneSlots]video.PlaneView{mk(y), mk(u), mk(v)},
		NumPlanes: 3,
	}
}

func fullSelection(bit video.MetricBit, numPlanes int) video.Selection {
	var sel video.Selection
	sel.NumPlanes = numPlanes
	for p := 0; p < numPlanes; p++ {
		sel.PlaneMask[p] = bit
	}
	sel.PlaneMask[video.OverallSlot] = bit
	return sel
}

func TestPSNRIdentity(t *testing.T) {
	ev := NewPSNR(pixfmt.I420P)
	src := &fakeSource{chroma: pixfmt.C420, bd: pixfmt.D008}
	ev.BindFrames(src, src)
	sel := fullSelection(video.BitPSNR|video.BitMSE, 3)
	names, _ := ev.BindSelection(sel)
	if err := ev.Allocate(); err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 16)
	f := planarFrame(buf, buf, buf, 4, 4)
	out := make([]float64, len(names))
	avg := make([]float64, len(names))
	if err := ev.Compute(f, f, out, avg); err != nil {
		t.Fatal(err)
	}
	for i, n := range names {
		if strings.HasSuffix(n, "MSE") && out[i] != 0 {
			t.Errorf("%s = %v, want 0", n, out[i])
		}
		if strings.HasSuffix(n, "PSNR") && out[i] != 1000.0 {
			t.Errorf("%s = %v, want 1000", n, out[i])
		}
	}
}

func TestPSNRKnownS2(t *testing.T) {
	ev := NewPSNR(pixfmt.I420P)
	src := &fakeSource{chroma: pixfmt.C420, bd: pixfmt.D008}
	ev.BindFrames(src, src)
	sel := fullSelection(video.BitPSNR|video.BitMSE, 3)
	names, _ := ev.BindSelection(sel)
	if err := ev.Allocate(); err != nil {
		t.Fatal(err)
	}

	ref := make([]byte, 64)
	test := make([]byte, 64)
	for i := range test {
		test[i] = 1
	}
	f1 := planarFrame(ref, ref, ref, 8, 8)
	f2 := planarFrame(test, test, test, 8, 8)
	out := make([]float64, len(names))
	avg := make([]float64, len(names))
	if err := ev.Compute(f1, f2, out, avg); err != nil {
		t.Fatal(err)
	}
	for i, n := range names {
		if n == "Y-MSE" && math.Abs(out[i]-1.0) > 1e-9 {
			t.Errorf("Y-MSE = %v, want 1.0", out[i])
		}
		if n == "Y-PSNR" && math.Abs(out[i]-48.1308) > 1e-3 {
			t.Errorf("Y-PSNR = %v, want 48.1308", out[i])
		}
	}
}

func TestPSNRSymmetry(t *testing.T) {
	ev1 := NewPSNR(pixfmt.I420P)
	ev2 := NewPSNR(pixfmt.I420P)
	src := &fakeSource{chroma: pixfmt.C420, bd: pixfmt.D008}
	ev1.BindFrames(src, src)
	ev2.BindFrames(src, src)
	sel := fullSelection(video.BitPSNR|video.BitMSE, 3)
	names, _ := ev1.BindSelection(sel)
	ev2.BindSelection(sel)
	ev1.Allocate()
	ev2.Allocate()

	ref := make([]byte, 64)
	test := make([]byte, 64)
	for i := range test {
		test[i] = byte(i % 7)
	}
	f1 := planarFrame(ref, ref, ref, 8, 8)
	f2 := planarFrame(test, test, test, 8, 8)

	outAB := make([]float64, len(names))
	outBA := make([]float64, len(names))
	avg := make([]float64, len(names))
	if err := ev1.Compute(f1, f2, outAB, avg); err != nil {
		t.Fatal(err)
	}
	if err := ev2.Compute(f2, f1, outBA, avg); err != nil {
		t.Fatal(err)
	}
	for i := range outAB {
		if math.Abs(outAB[i]-outBA[i]) > 1e-9 {
			t.Errorf("%s: A,B=%v B,A=%v, want symmetric", names[i], outAB[i], outBA[i])
		}
	}
}

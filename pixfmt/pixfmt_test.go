package pixfmt

import (
	"math"
	"testing"
)

func TestParseTagRoundTrip(t *testing.T) {
	for name, want := range tagNames {
		got, err := ParseTag(name)
		if err != nil {
			t.Fatalf("ParseTag(%q) error: %v", name, err)
		}
		if got != want {
			t.Errorf("ParseTag(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestParseTagUnknown(t *testing.T) {
	if _, err := ParseTag("bogus"); err == nil {
		t.Fatal("expected error for unrecognized tag")
	}
}

func TestIsInterlaced(t *testing.T) {
	cases := map[Tag]bool{
		I420P: false, I420I: true,
		RGB32P: false, RGB32I: true,
	}
	for tag, want := range cases {
		if got := tag.IsInterlaced(); got != want {
			t.Errorf("%v.IsInterlaced() = %v, want %v", tag, got, want)
		}
	}
}

func TestChromaClassOf(t *testing.T) {
	cases := map[Tag]ChromaClass{
		I420P: C420, YV12P: C420, NV12P: C420,
		YUY2P: C422, NV16P: C422, I422P: C422,
		AYUVP: C444, I444P: C444, RGB32P: C444,
	}
	for tag, want := range cases {
		if got := tag.ChromaClassOf(); got != want {
			t.Errorf("%v.ChromaClassOf() = %v, want %v", tag, got, want)
		}
	}
}

func TestSwapChroma(t *testing.T) {
	if !YV12P.SwapChroma() {
		t.Error("YV12P should swap chroma")
	}
	if I420P.SwapChroma() {
		t.Error("I420P should not swap chroma")
	}
	if NV12P.SwapChroma() {
		t.Error("NV12P should not swap chroma")
	}
}

func TestForcedBitDepth(t *testing.T) {
	if bd, ok := Y410P.ForcedBitDepth(); !ok || bd != D010 {
		t.Errorf("Y410P.ForcedBitDepth() = (%v, %v), want (D010, true)", bd, ok)
	}
	if bd, ok := Y416P.ForcedBitDepth(); !ok || bd != D016 {
		t.Errorf("Y416P.ForcedBitDepth() = (%v, %v), want (D016, true)", bd, ok)
	}
	if _, ok := I420P.ForcedBitDepth(); ok {
		t.Error("I420P should not force a bit depth")
	}
}

func TestMaxError(t *testing.T) {
	cases := map[BitDepth]float64{D008: 255, D010: 1023, D012: 4095, D016: 65535}
	for bd, want := range cases {
		if got := bd.MaxError(); math.Abs(got-want) > 1e-9 {
			t.Errorf("%v.MaxError() = %v, want %v", bd, got, want)
		}
	}
}

func TestNumChannelsAndPlaneChar(t *testing.T) {
	if I420P.NumChannels() != 3 {
		t.Error("I420P should have 3 channels")
	}
	if AYUVP.NumChannels() != 4 {
		t.Error("AYUVP should have 4 channels")
	}
	if I420P.PlaneChar(0) != "Y" || I420P.PlaneChar(1) != "U" || I420P.PlaneChar(2) != "V" {
		t.Error("YUV plane chars incorrect")
	}
	if RGB32P.PlaneChar(0) != "B" || RGB32P.PlaneChar(2) != "R" {
		t.Error("RGB plane chars incorrect")
	}
}

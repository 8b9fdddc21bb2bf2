package primitives

import (
	"encoding/binary"
	"testing"
)

func TestNV12ToI420RoundTrip(t *testing.T) {
	const w, h = 4, 4
	srcY := make([]byte, w*h)
	for i := range srcY {
		srcY[i] = byte(i + 1)
	}
	cw, ch := w/2, h/2
	srcUV := make([]byte, cw*ch*2)
	for i := 0; i < cw*ch; i++ {
		srcUV[2*i] = byte(100 + i)   // U
		srcUV[2*i+1] = byte(200 + i) // V
	}

	dstY := make([]byte, w*h)
	dstU := make([]byte, cw*ch)
	dstV := make([]byte, cw*ch)

	if err := NV12ToI420(srcY, w, srcUV, cw*2, dstY, w, dstU, cw, dstV, cw, w, h, Elem8); err != nil {
		t.Fatal(err)
	}
	for i := range srcY {
		if dstY[i] != srcY[i] {
			t.Errorf("Y[%d] = %d, want %d", i, dstY[i], srcY[i])
		}
	}
	for i := 0; i < cw*ch; i++ {
		if dstU[i] != byte(100+i) {
			t.Errorf("U[%d] = %d, want %d", i, dstU[i], 100+i)
		}
		if dstV[i] != byte(200+i) {
			t.Errorf("V[%d] = %d, want %d", i, dstV[i], 200+i)
		}
	}
}

func TestNV16ToI422RoundTrip(t *testing.T) {
	const w, h = 4, 2
	srcY := make([]byte, w*h)
	for i := range srcY {
		srcY[i] = byte(i + 1)
	}
	cw := w / 2
	srcUV := make([]byte, cw*h*2)
	for i := 0; i < cw*h; i++ {
		srcUV[2*i] = byte(50 + i)
		srcUV[2*i+1] = byte(150 + i)
	}

	dstY := make([]byte, w*h)
	dstU := make([]byte, cw*h)
	dstV := make([]byte, cw*h)
	if err := NV16ToI422(srcY, w, srcUV, cw*2, dstY, w, dstU, cw, dstV, cw, w, h, Elem8); err != nil {
		t.Fatal(err)
	}
	for i := range srcY {
		if dstY[i] != srcY[i] {
			t.Errorf("Y[%d] = %d, want %d", i, dstY[i], srcY[i])
		}
	}
	for i := 0; i < cw*h; i++ {
		if dstU[i] != byte(50+i) || dstV[i] != byte(150+i) {
			t.Errorf("chroma[%d] = (%d,%d), want (%d,%d)", i, dstU[i], dstV[i], 50+i, 150+i)
		}
	}
}

func TestYUY2ToI422RoundTrip(t *testing.T) {
	const w, h = 4, 1
	// packed row: Y0 U0 Y1 V0 Y2 U1 Y3 V1
	src := []byte{10, 100, 11, 200, 12, 101, 13, 201}
	dstY := make([]byte, w)
	dstU := make([]byte, w/2)
	dstV := make([]byte, w/2)
	if err := YUY2ToI422(src, w*2, dstY, w, dstU, w/2, dstV, w/2, w, h, Elem8); err != nil {
		t.Fatal(err)
	}
	wantY := []byte{10, 11, 12, 13}
	wantU := []byte{100, 101}
	wantV := []byte{200, 201}
	for i := range wantY {
		if dstY[i] != wantY[i] {
			t.Errorf("Y[%d] = %d, want %d", i, dstY[i], wantY[i])
		}
	}
	for i := range wantU {
		if dstU[i] != wantU[i] || dstV[i] != wantV[i] {
			t.Errorf("chroma[%d] = (%d,%d), want (%d,%d)", i, dstU[i], dstV[i], wantU[i], wantV[i])
		}
	}
}

func TestCopy4PlanarDeinterleaveAYUV(t *testing.T) {
	const w, h = 2, 1
	// AYUV's packed byte order is V,U,Y,A per pixel;
	// Copy4PlanarDeinterleave just deinterleaves 4 channels in source
	// order, channel reorder is the caller's job. Plain channel values
	// 1..8 keep the test format-agnostic.
	src := []byte{
		1, 2, 3, 4, // pixel 0: ch0..ch3
		5, 6, 7, 8, // pixel 1
	}
	dst := [4][]byte{make([]byte, w), make([]byte, w), make([]byte, w), make([]byte, w)}
	if err := Copy4PlanarDeinterleave(src, w*4, dst, w, w, h, Elem8); err != nil {
		t.Fatal(err)
	}
	want := [4][]byte{{1, 5}, {2, 6}, {3, 7}, {4, 8}}
	for c := 0; c < 4; c++ {
		for x := 0; x < w; x++ {
			if dst[c][x] != want[c][x] {
				t.Errorf("dst[%d][%d] = %d, want %d", c, x, dst[c][x], want[c][x])
			}
		}
	}
}

func TestY410ToPlanar10RoundTrip(t *testing.T) {
	const w, h = 2, 2
	// word layout: U=[0:10) Y=[10:20) V=[20:30) A=[30:32)
	mkWord := func(u, y, v, a uint32) uint32 {
		return (u & 0x3ff) | ((y & 0x3ff) << 10) | ((v & 0x3ff) << 20) | ((a & 0x3) << 30)
	}
	src := make([]byte, w*h*4)
	words := []uint32{
		mkWord(1, 500, 900, 3),
		mkWord(2, 501, 901, 2),
		mkWord(3, 502, 902, 1),
		mkWord(4, 503, 903, 0),
	}
	for i, w32 := range words {
		binary.LittleEndian.PutUint32(src[i*4:], w32)
	}

	dstY := make([]uint16, w*h)
	dstU := make([]uint16, w*h)
	dstV := make([]uint16, w*h)
	dstA := make([]uint16, w*h)
	if err := Y410ToPlanar10(src, w*4, dstY, dstU, dstV, dstA, w, w, h); err != nil {
		t.Fatal(err)
	}
	wantY := []uint16{500, 501, 502, 503}
	wantU := []uint16{1, 2, 3, 4}
	wantV := []uint16{900, 901, 902, 903}
	wantA := []uint16{3, 2, 1, 0}
	for i := range wantY {
		if dstY[i] != wantY[i] || dstU[i] != wantU[i] || dstV[i] != wantV[i] || dstA[i] != wantA[i] {
			t.Errorf("pixel %d = (Y=%d U=%d V=%d A=%d), want (Y=%d U=%d V=%d A=%d)",
				i, dstY[i], dstU[i], dstV[i], dstA[i], wantY[i], wantU[i], wantV[i], wantA[i])
		}
	}
}

func TestA2RGB10ToPlanar10ChannelOrder(t *testing.T) {
	const w, h = 2, 2
	mkWord := func(b, g, r, a uint32) uint32 {
		return (b & 0x3ff) | ((g & 0x3ff) << 10) | ((r & 0x3ff) << 20) | ((a & 0x3) << 30)
	}
	src := make([]byte, w*h*4)
	binary.LittleEndian.PutUint32(src[0:], mkWord(10, 20, 30, 1))
	binary.LittleEndian.PutUint32(src[4:], mkWord(11, 21, 31, 2))
	binary.LittleEndian.PutUint32(src[8:], mkWord(12, 22, 32, 3))
	binary.LittleEndian.PutUint32(src[12:], mkWord(13, 23, 33, 0))

	dstR := make([]uint16, w*h)
	dstG := make([]uint16, w*h)
	dstB := make([]uint16, w*h)
	dstA := make([]uint16, w*h)
	if err := A2RGB10ToPlanar10(src, w*4, dstR, dstG, dstB, dstA, w, w, h); err != nil {
		t.Fatal(err)
	}
	if dstB[0] != 10 || dstG[0] != 20 || dstR[0] != 30 || dstA[0] != 1 {
		t.Errorf("pixel 0 = (B=%d G=%d R=%d A=%d), want (10,20,30,1)", dstB[0], dstG[0], dstR[0], dstA[0])
	}
}

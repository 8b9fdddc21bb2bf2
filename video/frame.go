// Package video defines the plane/frame geometry shared by every frame
// source and metric evaluator: a byte-stride-addressed PlaneView, the
// up-to-four-plane Frame it composes into, and the interlaced field-view
// transform.
//
// Adapted from gometrics/video/video_interfaces.go's Frame shape,
// generalized from a fixed 3-plane vship-oriented buffer to an arbitrary
// stride/geometry/sample-size PlaneView, so every plane carries its own
// byte stride the way SImage does in metrics_calc_lite.cpp.
package video

import (
	"encoding/binary"

	"github.com/vqmetrics/mclgo/status"
)

// PlaneView is {base pointer, byte stride, width, height}, the Go analog
// of SImage in metrics_calc_lite.cpp. Width/Height are in samples; Step is
// in bytes and may exceed Width*SampleBytes.
type PlaneView struct {
	Data        []byte
	Step        int
	Width       int
	Height      int
	SampleBytes int // 1 for 8-bit, 2 for 10/12/16-bit containers
}

// Row returns the byte slice for row y, trimmed to exactly Width samples.
func (p PlaneView) Row(y int) []byte {
	start := y * p.Step
	return p.Data[start : start+p.Width*p.SampleBytes]
}

// Sample decodes the sample at (x,y), little-endian for 2-byte containers.
func (p PlaneView) Sample(x, y int) uint32 {
	row := p.Row(y)
	if p.SampleBytes == 1 {
		return uint32(row[x])
	}
	return uint32(binary.LittleEndian.Uint16(row[x*2:]))
}

// Validate checks that the view's rows don't overlap and stay within its
// owning buffer.
func (p PlaneView) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return status.New(status.CodeInput, "plane view has non-positive geometry %dx%d", p.Width, p.Height)
	}
	if p.Step < p.Width*p.SampleBytes {
		return status.New(status.CodeInput, "plane view step %d smaller than row bytes %d", p.Step, p.Width*p.SampleBytes)
	}
	need := (p.Height-1)*p.Step + p.Width*p.SampleBytes
	if need > len(p.Data) {
		return status.New(status.CodeInput, "plane view needs %d bytes, backing buffer has %d", need, len(p.Data))
	}
	return nil
}

// Field returns the top or bottom field view of an interlaced plane: step
// doubles, height halves, and the bottom field starts one original row
// into the buffer, mirroring CReader::GetFrame's step<<=1/roi.height>>=1/
// data+=step adjustment for an interlaced SImage. The logical field index
// is 2*frame+parity, where parity XORs with the bottom_first flag —
// callers resolve that XOR before calling Field with the resulting bool.
func (p PlaneView) Field(bottom bool) PlaneView {
	f := PlaneView{
		Data:        p.Data,
		Step:        p.Step * 2,
		Width:       p.Width,
		Height:      p.Height / 2,
		SampleBytes: p.SampleBytes,
	}
	if bottom {
		f.Data = p.Data[p.Step:]
	}
	return f
}

// PlaneIndex names the canonical plane slots. YUV frames use Y,U,V,A;
// RGB frames reuse the same indices for B,G,R,A (see pixfmt.Tag.PlaneChar).
type PlaneIndex int

const (
	Plane0 PlaneIndex = iota
	Plane1
	Plane2
	Plane3
	NumPlaneSlots
)

// Frame is an ordered array of 3 or 4 PlaneViews, matching the m_planes[4]
// array CYUVReader/CRGBReader carry in metrics_calc_lite.cpp. An unused
// 4th plane (no alpha channel) is zero-sized rather than nil, so callers
// can range over frame.Planes uniformly and skip zero-width entries.
type Frame struct {
	Planes     [NumPlaneSlots]PlaneView
	NumPlanes  int
	FrameIndex int
}

// Plane returns the PlaneView at i, or a zero-sized view if i is beyond
// NumPlanes.
func (f *Frame) Plane(i PlaneIndex) PlaneView {
	return f.Planes[i]
}

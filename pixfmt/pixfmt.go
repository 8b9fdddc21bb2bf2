// Package pixfmt describes the pixel-format tags this engine accepts and
// the attributes derivable from them: chroma class, RGB/YUV family,
// interlacing, and natural/forced bit depth.
package pixfmt

import "fmt"

// Tag names a layout and scan type, mirroring ESequenceType.
type Tag int

const (
	Unknown Tag = iota

	I420P
	I420I
	YV12P
	YV12I
	NV12P
	NV12I

	YUY2P
	YUY2I
	NV16P
	NV16I
	I422P
	I422I

	AYUVP
	AYUVI
	Y410P
	Y410I
	Y416P
	Y416I
	I444P
	I444I
	I410P
	I410I

	RGB32P
	RGB32I
	A2RGB10P
	A2RGB10I
	ARGB16P
	ARGB16I
)

// ChromaClass expresses relative chroma-to-luma sampling.
type ChromaClass int

const (
	C420 ChromaClass = iota
	C422
	C444
)

func (c ChromaClass) String() string {
	switch c {
	case C420:
		return "4:2:0"
	case C422:
		return "4:2:2"
	case C444:
		return "4:4:4"
	default:
		return "unknown"
	}
}

// BitDepth is the sample bit depth. 10/12-bit samples are stored in
// 16-bit containers, LSB-aligned after an optional right shift.
type BitDepth int

const (
	D008 BitDepth = 8
	D010 BitDepth = 10
	D012 BitDepth = 12
	D016 BitDepth = 16
)

// MaxError returns the maximum representable per-sample error, 2^bd - 1.
func (bd BitDepth) MaxError() float64 {
	return float64(uint32(1)<<uint(bd) - 1)
}

// ContainerBytes returns the number of bytes a single sample occupies once
// demuxed into a plane: 1 for 8-bit, 2 otherwise.
func (bd BitDepth) ContainerBytes() int {
	if bd == D008 {
		return 1
	}
	return 2
}

// ParseTag maps a CLI sequence-type token to a Tag, case-sensitively
// matching the reference parser's accepted spellings.
func ParseTag(s string) (Tag, error) {
	t, ok := tagNames[s]
	if !ok {
		return Unknown, fmt.Errorf("unrecognized sequence type %q", s)
	}
	return t, nil
}

var tagNames = map[string]Tag{
	"i420p": I420P, "i420i": I420I,
	"yv12p": YV12P, "yv12i": YV12I,
	"nv12p": NV12P, "nv12i": NV12I,
	"yuy2p": YUY2P, "yuy2i": YUY2I,
	"nv16p": NV16P, "nv16i": NV16I,
	"i422p": I422P, "i422i": I422I,
	"ayuvp": AYUVP, "ayuvi": AYUVI,
	"y410p": Y410P, "y410i": Y410I,
	"y416p": Y416P, "y416i": Y416I,
	"i444p": I444P, "i444i": I444I,
	"i410p": I410P, "i410i": I410I,
	"rgb32p": RGB32P, "rgb32i": RGB32I,
	"a2rgb10p": A2RGB10P, "a2rgb10i": A2RGB10I,
	"argb16p": ARGB16P, "argb16i": ARGB16I,
}

// IsInterlaced reports whether t denotes an interlaced scan.
func (t Tag) IsInterlaced() bool {
	switch t {
	case I420I, YV12I, NV12I, YUY2I, NV16I, I422I,
		AYUVI, Y410I, Y416I, I444I, I410I, RGB32I, A2RGB10I, ARGB16I:
		return true
	default:
		return false
	}
}

// IsRGB reports whether t is an RGB-family layout.
func (t Tag) IsRGB() bool {
	switch t {
	case RGB32P, RGB32I, A2RGB10P, A2RGB10I, ARGB16P, ARGB16I:
		return true
	default:
		return false
	}
}

// ChromaClassOf returns the chroma subsampling class for t.
func (t Tag) ChromaClassOf() ChromaClass {
	switch t {
	case AYUVP, AYUVI, Y410P, Y410I, Y416P, Y416I, I444P, I444I, I410P, I410I,
		RGB32I, RGB32P, A2RGB10I, A2RGB10P, ARGB16P, ARGB16I:
		return C444
	case YUY2P, YUY2I, NV16P, NV16I, I422P, I422I:
		return C422
	default:
		return C420
	}
}

// SwapChroma reports whether the U/V planar blocks are stored V-before-U
// in the source file, as YV12 does relative to I420. NV12/NV16's packed
// UV pair demuxes straight to U,V with no swap despite their reference
// kernel's internal pointer shuffle (the two swaps cancel), and AYUV/
// Y410/Y416's channel reorder is a 4-channel packing detail handled by
// their own demux call, not this flag.
func (t Tag) SwapChroma() bool {
	switch t {
	case YV12P, YV12I:
		return true
	default:
		return false
	}
}

// ForcedBitDepth returns the bit depth some tags force regardless of the
// -bd flag, mirroring parse_fourcc's side effects.
func (t Tag) ForcedBitDepth() (BitDepth, bool) {
	switch t {
	case Y410P, Y410I, I410P, I410I, A2RGB10P, A2RGB10I:
		return D010, true
	case Y416P, Y416I, ARGB16P, ARGB16I:
		return D016, true
	default:
		return 0, false
	}
}

// NumChannels returns how many source channels this tag packs per pixel
// before demux (3 for pure-chroma-subsampled YUV, 4 for anything carrying
// an alpha/4th channel slot).
func (t Tag) NumChannels() int {
	switch t {
	case AYUVP, AYUVI, Y410P, Y410I, Y416P, Y416I,
		RGB32P, RGB32I, A2RGB10P, A2RGB10I, ARGB16P, ARGB16I:
		return 4
	default:
		return 3
	}
}

// PlaneChar returns the per-plane label used in metric names ("Y-PSNR",
// "B-SSIM"), following the RGB/YUV family of t.
func (t Tag) PlaneChar(planeIndex int) string {
	if t.IsRGB() {
		return [...]string{"B", "G", "R", "A"}[planeIndex]
	}
	return [...]string{"Y", "U", "V", "A"}[planeIndex]
}

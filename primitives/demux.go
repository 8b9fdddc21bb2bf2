package primitives

import (
	"encoding/binary"

	"github.com/vqmetrics/mclgo/status"
)

// ElemBytes is 1 for 8-bit containers, 2 for everything else. Demux
// kernels below only rearrange sample-sized blocks of bytes; no bit
// depth's arithmetic differs in this file, so one code path serves both
// instead of duplicating an 8u and a 16u variant per kernel.
type ElemBytes int

const (
	Elem8  ElemBytes = 1
	Elem16 ElemBytes = 2
)

func copyElem(dst, src []byte, e ElemBytes) {
	if e == Elem8 {
		dst[0] = src[0]
	} else {
		dst[0], dst[1] = src[0], src[1]
	}
}

// NV12ToI420 de-interleaves a biplanar NV12 UV plane into separate planar
// U and V buffers, and copies the Y plane through unchanged. The
// reference kernel internally swaps two destination pointers and swaps
// them back when writing chroma, which cancels to a plain U,V mapping;
// this is that flattened, net-effect version.
func NV12ToI420(srcY []byte, srcYStep int, srcUV []byte, srcUVStep int,
	dstY []byte, dstYStep int, dstU []byte, dstUStep int, dstV []byte, dstVStep int,
	width, height int, e ElemBytes) error {

	if width < 2 || height < 2 {
		return status.New(status.CodeInput, "NV12ToI420: ROI %dx%d too small", width, height)
	}

	sample := int(e)
	for y := 0; y < height; y++ {
		srow := srcY[y*srcYStep : y*srcYStep+width*sample]
		drow := dstY[y*dstYStep : y*dstYStep+width*sample]
		copy(drow, srow)
	}

	cw, ch := width/2, height/2
	for y := 0; y < ch; y++ {
		srow := srcUV[y*srcUVStep : y*srcUVStep+cw*2*sample]
		urow := dstU[y*dstUStep : y*dstUStep+cw*sample]
		vrow := dstV[y*dstVStep : y*dstVStep+cw*sample]
		for x := 0; x < cw; x++ {
			copyElem(urow[x*sample:], srow[2*x*sample:], e)
			copyElem(vrow[x*sample:], srow[(2*x+1)*sample:], e)
		}
	}
	return nil
}

// NV16ToI422 is NV12ToI420's 4:2:2 counterpart: chroma is half-width but
// full-height, so there is no vertical downsampling pass.
func NV16ToI422(srcY []byte, srcYStep int, srcUV []byte, srcUVStep int,
	dstY []byte, dstYStep int, dstU []byte, dstUStep int, dstV []byte, dstVStep int,
	width, height int, e ElemBytes) error {

	if width < 2 || height < 2 {
		return status.New(status.CodeInput, "NV16ToI422: ROI %dx%d too small", width, height)
	}

	sample := int(e)
	for y := 0; y < height; y++ {
		srow := srcY[y*srcYStep : y*srcYStep+width*sample]
		drow := dstY[y*dstYStep : y*dstYStep+width*sample]
		copy(drow, srow)
	}

	cw := width / 2
	for y := 0; y < height; y++ {
		srow := srcUV[y*srcUVStep : y*srcUVStep+cw*2*sample]
		urow := dstU[y*dstUStep : y*dstUStep+cw*sample]
		vrow := dstV[y*dstVStep : y*dstVStep+cw*sample]
		for x := 0; x < cw; x++ {
			copyElem(urow[x*sample:], srow[2*x*sample:], e)
			copyElem(vrow[x*sample:], srow[(2*x+1)*sample:], e)
		}
	}
	return nil
}

// YUY2ToI422 unpacks a packed [Y Cb Y Cr] row into three planes: Y full
// width, Cb/Cr half width.
func YUY2ToI422(src []byte, srcStep int,
	dstY []byte, dstYStep int, dstU []byte, dstUStep int, dstV []byte, dstVStep int,
	width, height int, e ElemBytes) error {

	if width < 2 || height < 1 {
		return status.New(status.CodeInput, "YUY2ToI422: ROI %dx%d too small", width, height)
	}

	sample := int(e)
	for y := 0; y < height; y++ {
		srow := src[y*srcStep : y*srcStep+width*2*sample]
		yrow := dstY[y*dstYStep : y*dstYStep+width*sample]
		urow := dstU[y*dstUStep : y*dstUStep+(width/2)*sample]
		vrow := dstV[y*dstVStep : y*dstVStep+(width/2)*sample]

		si, yi, ci := 0, 0, 0
		for x := 0; x < width; x += 2 {
			copyElem(yrow[yi*sample:], srow[si*sample:], e)
			si++
			yi++
			copyElem(urow[ci*sample:], srow[si*sample:], e)
			si++
			copyElem(yrow[yi*sample:], srow[si*sample:], e)
			si++
			yi++
			copyElem(vrow[ci*sample:], srow[si*sample:], e)
			si++
			ci++
		}
	}
	return nil
}

// Copy4PlanarDeinterleave de-interleaves a packed 4-channel source (RGB32,
// ARGB16, AYUV, Y416) into four equal-size planes, channel order preserved
// from the source word. Callers needing a channel reorder (AYUV/Y416's
// chroma swap, or RGB's BGRA-to-plane-index mapping) permute the
// destination plane slice order before calling, not the kernel itself.
func Copy4PlanarDeinterleave(src []byte, srcStep int, dst [4][]byte, dstStep int,
	width, height int, e ElemBytes) error {

	if width < 1 || height < 1 {
		return status.New(status.CodeInput, "Copy4PlanarDeinterleave: ROI %dx%d too small", width, height)
	}

	sample := int(e)
	for y := 0; y < height; y++ {
		srow := src[y*srcStep : y*srcStep+width*4*sample]
		rows := [4][]byte{
			dst[0][y*dstStep : y*dstStep+width*sample],
			dst[1][y*dstStep : y*dstStep+width*sample],
			dst[2][y*dstStep : y*dstStep+width*sample],
			dst[3][y*dstStep : y*dstStep+width*sample],
		}
		for x := 0; x < width; x++ {
			base := x * 4 * sample
			for c := 0; c < 4; c++ {
				copyElem(rows[c][x*sample:], srow[base+c*sample:], e)
			}
		}
	}
	return nil
}

// unpack10 splits a 32-bit little-endian word into its four packed
// 10-bit-plus-2-bit fields, in the bit layout shared by Y410 and A2RGB10:
// field0 = bits[0:10), field1 = bits[10:20), field2 = bits[20:30),
// alpha = bits[30:32).
func unpack10(word uint32) (f0, f1, f2, a uint32) {
	return word & 0x3ff, (word >> 10) & 0x3ff, (word >> 20) & 0x3ff, (word >> 30) & 0x3
}

// Y410ToPlanar10 unpacks a Y410 word (U=[0:10), Y=[10:20), V=[20:30),
// A=[30:32)) into four uint16 planes in Y,U,V,A order.
func Y410ToPlanar10(src []byte, srcStep int, dstY, dstU, dstV, dstA []uint16, dstStep int,
	width, height int) error {
	return unpack10Planar(src, srcStep, [4][]uint16{dstY, dstU, dstV, dstA}, dstStep, width, height,
		func(w uint32) (uint32, uint32, uint32, uint32) {
			u, y, v, a := unpack10(w)
			return y, u, v, a
		})
}

// A2RGB10ToPlanar10 unpacks an A2RGB10 word (B=[0:10), G=[10:20), R=[20:30),
// A=[30:32)) into four uint16 planes, plane index 0=B to match the RGB
// plane-index convention described by pixfmt.Tag.PlaneChar.
func A2RGB10ToPlanar10(src []byte, srcStep int, dstR, dstG, dstB, dstA []uint16, dstStep int,
	width, height int) error {
	return unpack10Planar(src, srcStep, [4][]uint16{dstB, dstG, dstR, dstA}, dstStep, width, height,
		func(w uint32) (uint32, uint32, uint32, uint32) {
			b, g, r, a := unpack10(w)
			return b, g, r, a
		})
}

func unpack10Planar(src []byte, srcStep int, dst [4][]uint16, dstStep int, width, height int,
	unpack func(uint32) (uint32, uint32, uint32, uint32)) error {

	if width < 2 || height < 2 {
		return status.New(status.CodeInput, "unpack10Planar: ROI %dx%d too small", width, height)
	}

	for y := 0; y < height; y++ {
		srow := src[y*srcStep : y*srcStep+width*4]
		rows := [4][]uint16{
			dst[0][y*dstStep : y*dstStep+width],
			dst[1][y*dstStep : y*dstStep+width],
			dst[2][y*dstStep : y*dstStep+width],
			dst[3][y*dstStep : y*dstStep+width],
		}
		for x := 0; x < width; x++ {
			word := binary.LittleEndian.Uint32(srow[x*4:])
			a, b, c, d := unpack(word)
			rows[0][x] = uint16(a)
			rows[1][x] = uint16(b)
			rows[2][x] = uint16(c)
			rows[3][x] = uint16(d)
		}
	}
	return nil
}

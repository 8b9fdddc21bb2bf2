// Package primitives implements the stride-aware pixel kernels the metric
// evaluators are built from: right-shift, float conversion, square,
// multiply, mean, L2 norm-of-difference, separable row/column filters, and
// (in demux.go) the packed-to-planar format demultiplexers.
//
// Every kernel takes explicit strides and a {width,height} region of
// interest. The typed kernels take element strides (callers convert from
// the byte strides carried by video.PlaneView once, at the call site); the
// *Bytes variants and the demux kernels in demux.go take byte strides as
// video.PlaneView carries them. None of them extend
// borders; a filter's destination ROI is always the input reduced by
// kernel_size-1 in the filtered dimension, per the "valid region" contract.
package primitives

import (
	"math"
	"unsafe"

	"github.com/vqmetrics/mclgo/status"
)

// Sample is the set of container types raw pixel data is stored in once
// demuxed into a plane. 10/12-bit values live LSB-aligned in uint16.
type Sample interface {
	~uint8 | ~uint16
}

func checkROI(width, height int) error {
	if width < 1 || height < 1 {
		return status.New(status.CodeInput, "invalid ROI %dx%d", width, height)
	}
	return nil
}

// RightShiftInPlace shifts every sample in the ROI right by v bits. It is a
// no-op when v is 0, and fails when v is at least the type's bit width —
// mirroring mclRShiftC_C1IR's contract exactly.
func RightShiftInPlace[T Sample](buf []T, step, width, height int, v uint) error {
	if v == 0 {
		return nil
	}
	var zero T
	bits := uint(unsafe.Sizeof(zero)) * 8
	if v >= bits {
		return status.New(status.CodeInput, "right shift %d >= bit width %d", v, bits)
	}
	if err := checkROI(width, height); err != nil {
		return err
	}
	for y := 0; y < height; y++ {
		row := buf[y*step : y*step+width]
		for x := range row {
			row[x] >>= v
		}
	}
	return nil
}

// RightShiftInPlaceBytes is RightShiftInPlace's byte-backed counterpart,
// for planes stored as video.PlaneView's []byte rather than a typed
// slice: sampleBytes selects 8-bit (no-op decode) or little-endian 16-bit
// samples. Grounded on the same mclRShiftC_C1IR contract.
func RightShiftInPlaceBytes(buf []byte, step, width, height, sampleBytes int, v uint) error {
	if v == 0 {
		return nil
	}
	bits := uint(sampleBytes) * 8
	if v >= bits {
		return status.New(status.CodeInput, "right shift %d >= bit width %d", v, bits)
	}
	if err := checkROI(width, height); err != nil {
		return err
	}
	for y := 0; y < height; y++ {
		row := buf[y*step : y*step+width*sampleBytes]
		if sampleBytes == 1 {
			for x := range row {
				row[x] >>= v
			}
			continue
		}
		for x := 0; x < width; x++ {
			off := x * 2
			s := uint16(row[off]) | uint16(row[off+1])<<8
			s >>= v
			row[off] = byte(s)
			row[off+1] = byte(s >> 8)
		}
	}
	return nil
}

// ConvertToF32 widens every sample in the ROI to float32.
func ConvertToF32[T Sample](src []T, srcStep int, dst []float32, dstStep, width, height int) error {
	if err := checkROI(width, height); err != nil {
		return err
	}
	for y := 0; y < height; y++ {
		srow := src[y*srcStep : y*srcStep+width]
		drow := dst[y*dstStep : y*dstStep+width]
		for x, v := range srow {
			drow[x] = float32(v)
		}
	}
	return nil
}

// SquareF32 computes dst = src*src element-wise over the ROI.
func SquareF32(src []float32, srcStep int, dst []float32, dstStep, width, height int) error {
	if err := checkROI(width, height); err != nil {
		return err
	}
	for y := 0; y < height; y++ {
		srow := src[y*srcStep : y*srcStep+width]
		drow := dst[y*dstStep : y*dstStep+width]
		for x, v := range srow {
			drow[x] = v * v
		}
	}
	return nil
}

// MulF32 computes dst = a*b element-wise over the ROI.
func MulF32(a []float32, aStep int, b []float32, bStep int, dst []float32, dstStep, width, height int) error {
	if err := checkROI(width, height); err != nil {
		return err
	}
	for y := 0; y < height; y++ {
		arow := a[y*aStep : y*aStep+width]
		brow := b[y*bStep : y*bStep+width]
		drow := dst[y*dstStep : y*dstStep+width]
		for x := range arow {
			drow[x] = arow[x] * brow[x]
		}
	}
	return nil
}

// MeanF32 returns the arithmetic mean of every sample in the ROI.
func MeanF32(src []float32, step, width, height int) (float64, error) {
	if err := checkROI(width, height); err != nil {
		return 0, err
	}
	var sum float64
	for y := 0; y < height; y++ {
		row := src[y*step : y*step+width]
		for _, v := range row {
			sum += float64(v)
		}
	}
	return sum / float64(width*height), nil
}

// L2NormDiff returns sqrt(sum((a-b)^2)) over the ROI.
func L2NormDiff[T Sample](a []T, aStep int, b []T, bStep int, width, height int) (float64, error) {
	if err := checkROI(width, height); err != nil {
		return 0, err
	}
	var sum float64
	for y := 0; y < height; y++ {
		arow := a[y*aStep : y*aStep+width]
		brow := b[y*bStep : y*bStep+width]
		for x := range arow {
			d := float64(arow[x]) - float64(brow[x])
			sum += d * d
		}
	}
	return math.Sqrt(sum), nil
}

// L2NormDiffBytes is L2NormDiff's byte-backed counterpart, decoding
// little-endian samples directly out of a PlaneView's Data rather than a
// typed slice.
func L2NormDiffBytes(a []byte, aStep int, b []byte, bStep int, width, height, sampleBytes int) (float64, error) {
	if err := checkROI(width, height); err != nil {
		return 0, err
	}
	var sum float64
	for y := 0; y < height; y++ {
		arow := a[y*aStep : y*aStep+width*sampleBytes]
		brow := b[y*bStep : y*bStep+width*sampleBytes]
		for x := 0; x < width; x++ {
			var av, bv float64
			if sampleBytes == 1 {
				av, bv = float64(arow[x]), float64(brow[x])
			} else {
				av = float64(uint16(arow[2*x]) | uint16(arow[2*x+1])<<8)
				bv = float64(uint16(brow[2*x]) | uint16(brow[2*x+1])<<8)
			}
			d := av - bv
			sum += d * d
		}
	}
	return math.Sqrt(sum), nil
}

// FilterRowF32 performs a 1-D horizontal "valid" convolution: dst[w] =
// sum_i kernel[i]*src[w+i]. dstWidth/dstHeight name the output region; src
// rows must be at least dstWidth+len(kernel)-1 samples long, i.e. src holds
// the unfiltered row and dst holds the region reduced by kernel_size-1, no
// border extension.
func FilterRowF32(src []float32, srcStep int, dst []float32, dstStep int, dstWidth, dstHeight int, kernel []float32) error {
	if len(kernel) < 1 || len(kernel)%2 == 0 {
		return status.New(status.CodeInput, "filter kernel size %d must be odd and >=1", len(kernel))
	}
	if err := checkROI(dstWidth, dstHeight); err != nil {
		return err
	}
	for y := 0; y < dstHeight; y++ {
		srow := src[y*srcStep : y*srcStep+dstWidth+len(kernel)-1]
		drow := dst[y*dstStep : y*dstStep+dstWidth]
		for w := 0; w < dstWidth; w++ {
			var acc float64
			for i, k := range kernel {
				acc += float64(k) * float64(srow[w+i])
			}
			drow[w] = float32(acc)
		}
	}
	return nil
}

// FilterColF32 performs the vertical counterpart: dst[y][w] =
// sum_i kernel[i]*src[y+i][w]. src must hold dstHeight+len(kernel)-1 rows.
func FilterColF32(src []float32, srcStep int, dst []float32, dstStep int, dstWidth, dstHeight int, kernel []float32) error {
	if len(kernel) < 1 || len(kernel)%2 == 0 {
		return status.New(status.CodeInput, "filter kernel size %d must be odd and >=1", len(kernel))
	}
	if err := checkROI(dstWidth, dstHeight); err != nil {
		return err
	}
	for y := 0; y < dstHeight; y++ {
		drow := dst[y*dstStep : y*dstStep+dstWidth]
		for w := 0; w < dstWidth; w++ {
			var acc float64
			for i, k := range kernel {
				srow := src[(y+i)*srcStep : (y+i)*srcStep+dstWidth]
				acc += float64(k) * float64(srow[w])
			}
			drow[w] = float32(acc)
		}
	}
	return nil
}

// GaussianKernel returns a normalized 1-D Gaussian kernel of the given odd
// size and sigma.
func GaussianKernel(size int, sigma float64) []float32 {
	k := make([]float32, size)
	half := size / 2
	var sum float64
	for i := 0; i < size; i++ {
		x := float64(i - half)
		v := math.Exp(-(x * x) / (2 * sigma * sigma))
		k[i] = float32(v)
		sum += v
	}
	for i := range k {
		k[i] = float32(float64(k[i]) / sum)
	}
	return k
}

package primitives

import "math"

// dctBasis[u][x] = cos((2x+1)*u*pi/16), precomputed once for the forward
// 8x8 DCT used by MWDVQM.
var dctBasis [8][8]float64

func init() {
	for u := 0; u < 8; u++ {
		for x := 0; x < 8; x++ {
			dctBasis[u][x] = math.Cos(float64(2*x+1) * float64(u) * math.Pi / 16)
		}
	}
}

func dctScale(u int) float64 {
	if u == 0 {
		return 1.0 / math.Sqrt2
	}
	return 1.0
}

// DCT8x8 computes the forward 8x8 type-II DCT of an 8x8 block (row-major,
// 64 floats) and returns the coefficients as a new block, using the standard separable
// row-then-column formulation with orthonormal scaling (C(0)=1/sqrt(2),
// C(u>0)=1).
func DCT8x8(block [64]float32) [64]float32 {
	var tmp, out [8][8]float64
	var in [8][8]float64
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			in[y][x] = float64(block[y*8+x])
		}
	}

	for y := 0; y < 8; y++ {
		for u := 0; u < 8; u++ {
			var sum float64
			for x := 0; x < 8; x++ {
				sum += in[y][x] * dctBasis[u][x]
			}
			tmp[y][u] = 0.5 * dctScale(u) * sum
		}
	}

	for u := 0; u < 8; u++ {
		for v := 0; v < 8; v++ {
			var sum float64
			for y := 0; y < 8; y++ {
				sum += tmp[y][u] * dctBasis[v][y]
			}
			out[v][u] = 0.5 * dctScale(v) * sum
		}
	}

	var dst [64]float32
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			dst[y*8+x] = float32(out[y][x])
		}
	}
	return dst
}

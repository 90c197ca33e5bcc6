package objective

import (
	"math"
	"math/cmplx"
)

// magnitudes returns |DFT(code)|. With half set, only the n/2+1 bins of the
// real-input spectrum are returned; the rest mirror them.
//
// Codes are at most a few dozen samples long, so the direct O(n²) sum is
// used instead of an FFT.
func magnitudes(code []int, half bool) []float64 {
	n := len(code)
	if n == 0 {
		return nil
	}
	bins := n
	if half {
		bins = n/2 + 1
	}
	out := make([]float64, bins)
	for k := range bins {
		var sum complex128
		for j, x := range code {
			if x == 0 {
				continue
			}
			angle := -2 * math.Pi * float64(j*k%n) / float64(n)
			sum += complex(float64(x), 0) * cmplx.Rect(1, angle)
		}
		out[k] = cmplx.Abs(sum)
	}
	return out
}

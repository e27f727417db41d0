// Package lpc implements the per-block linear predictor: the delta
// transform, the fixed-point prediction recurrences and the least-squares
// coefficient estimator.
//
// The left channel is predicted from its own two previous deltas. The right
// channel additionally uses the left delta at the same index, which the
// decoder has already reconstructed when it reaches the right sample.
package lpc

// Fixed-point format and transmission constants for the coefficients.
const (
	Order   = 2  // Warm-up samples per channel
	Shift   = 4  // Coefficients are in units of 1/16
	Divisor = 1 << Shift

	// Biases keep the transmitted values centred on zero.
	C1Bias = 4
	C2Bias = -8
	D0Bias = 8

	// Transmitted (bias-free) range; the k=3 code carries it in at most 23 bits.
	CoefMin = -4096
	CoefMax = 4095

	// CoefParameter is the Exp-Golomb-like parameter of every coefficient.
	CoefParameter = 3
)

// Coefs holds one block's predictor coefficients, biases included.
type Coefs struct {
	XC1 int16 // Left, sample i-1
	XC2 int16 // Left, sample i-2
	YC1 int16 // Right, sample i-1
	YC2 int16 // Right, sample i-2
	YD0 int16 // Right from left, sample i
}

// Saturate clamps v to [lo, hi].
func Saturate(v, lo, hi int32) int32 {
	if v > hi {
		return hi
	}
	if v < lo {
		return lo
	}
	return v
}

// PredictLeft predicts a left delta from the two before it.
func PredictLeft(xm2, xc2, xm1, xc1 int16) int16 {
	acc := int32(xm2)*int32(xc2) + int32(xm1)*int32(xc1) + 1<<(Shift-1)
	return int16(Saturate(acc>>Shift, -0x8000, 0x7fff))
}

// PredictRight predicts a right delta from the two before it and the left
// delta at the same index.
func PredictRight(ym2, yc2, ym1, yc1, x0, yd0 int16) int16 {
	acc := int32(ym2)*int32(yc2) + int32(ym1)*int32(yc1) + int32(x0)*int32(yd0) + 1<<(Shift-1)
	return int16(Saturate(acc>>Shift, -0x8000, 0x7fff))
}

// Delta writes the first difference of one channel of interleaved stereo
// pcm into dst: dst[0] = raw[0], dst[i] = raw[i] - raw[i-1] (wrapping).
func Delta(dst, pcm []int16, channel int) {
	prev := int16(0)
	for i := range dst {
		s := pcm[2*i+channel]
		dst[i] = s - prev
		prev = s
	}
}

// Integrate is the inverse of Delta: it writes the running sum of src into
// one channel of interleaved stereo pcm.
func Integrate(pcm, src []int16, channel int) {
	acc := int16(0)
	for i, d := range src {
		acc += d
		pcm[2*i+channel] = acc
	}
}

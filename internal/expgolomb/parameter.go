package expgolomb

import "math/bits"

// The residual parameter is sent with a fixed prefix code. The most common
// parameters get the shortest codes:
//
//	15: 1        11: 00001     8: 00000001
//	14: 01       10: 000001    7: 00000000
//	13: 001       9: 0000001
//	12: 0001
var (
	parameterCodes   = [MaxParameter - MinParameter + 1]uint32{0x00, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01}
	parameterNumBits = [MaxParameter - MinParameter + 1]int{8, 8, 7, 6, 5, 4, 3, 2, 1}
)

// ParameterNumBits returns the length of the code for parameter k.
func ParameterNumBits(k int) int {
	return parameterNumBits[k-MinParameter]
}

// EncodeParameter returns the code for parameter k right-aligned in code.
func EncodeParameter(k int) (code uint32, n int) {
	return parameterCodes[k-MinParameter], parameterNumBits[k-MinParameter]
}

// DecodeParameter decodes a parameter from the MSB-aligned window w and
// returns it with the number of bits consumed.
func DecodeParameter(w uint32) (k, n int) {
	zeros := bits.LeadingZeros32(w)
	if zeros >= 8 {
		return MinParameter, parameterNumBits[0]
	}
	return MaxParameter - zeros, zeros + 1
}

// Package expgolomb implements the Exp-Golomb-like variable-length code used
// for every integer field of an MLAC block.
//
// A code with parameter k stores values whose bit depth is at most k as a
// single 0 flag followed by k raw bits. Deeper values are prefixed by one 1
// bit per bit of depth above k, a terminating 0 (omitted once the prefix
// reaches the maximum depth), and the depth-1 low bits of the value. The
// sign bit is never stored for deep values: it is always the complement of
// the most significant stored bit.
package expgolomb

import "math/bits"

// MaxDepth is the bit depth of a full-scale 16-bit sample.
const MaxDepth = 16

// BitDepth returns the smallest N >= floor such that v lies in
// [-2^(N-1), 2^(N-1)-1].
func BitDepth(v int16, floor int) int {
	u := uint32(int32(v))
	if v < 0 {
		u = ^u
	}
	d := 33 - bits.LeadingZeros32(u)
	if d < floor {
		return floor
	}
	return d
}

// NumBits returns the code length of a value of the given bit depth.
// depth may be smaller than k.
func NumBits(depth, k int) int {
	switch {
	case depth <= k:
		return 1 + k
	case depth == MaxDepth:
		// The terminating zero is implied by reaching the cap.
		return 2*depth - k - 1
	default:
		return 2*depth - k
	}
}

// ValueNumBits returns the code length of v with parameter k.
func ValueNumBits(v int16, k int) int {
	return NumBits(BitDepth(v, k), k)
}

func mask(n int) uint32 {
	return uint32(1)<<uint(n) - 1
}

// Encode returns the code for v right-aligned in the low n bits of code.
func Encode(v int16, k, maxDepth int) (code uint32, n int) {
	d := BitDepth(v, k)
	u := uint32(uint16(v))
	switch {
	case d <= k:
		return u & mask(k), 1 + k
	case d >= maxDepth:
		n = 2*d - k - 1
		code = mask(d-k+1)<<uint(d-1) | u&mask(d-1)
		return code & mask(n), n
	default:
		return mask(d-k)<<uint(d) | u&mask(d-1), 2*d - k
	}
}

// Decode decodes one value from w, whose most significant bit is the first
// bit of the code. Bits following the code are ignored. It returns the value
// and the number of bits consumed.
func Decode(w uint32, k, maxDepth int) (v int16, n int) {
	if w&0x80000000 == 0 {
		return int16(int32(w<<1) >> uint(32-k)), 1 + k
	}
	for d := k + 1; d < maxDepth; d++ {
		w <<= 1
		if w&0x80000000 == 0 {
			// Restore the sign bit from the top stored bit.
			if w&0x40000000 == 0 {
				w |= 0x80000000
			}
			return int16(int32(w) >> uint(32-d)), 2*d - k
		}
	}
	if w&0x40000000 != 0 {
		w &= 0x7fffffff
	}
	return int16(int32(w) >> uint(32-maxDepth)), 2*maxDepth - k - 1
}

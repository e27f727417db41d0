package expgolomb

// Residual code parameters range over [MinParameter, MaxParameter].
const (
	MinParameter = 7
	MaxParameter = 15

	// NumBuckets covers bit depths MinParameter..MaxDepth.
	NumBuckets = MaxDepth - MinParameter + 1
)

// Histogram counts residual bit depths, floored at MinParameter.
// Bucket i holds depth MinParameter+i.
type Histogram [NumBuckets]int

// Reset clears all buckets.
func (h *Histogram) Reset() {
	*h = Histogram{}
}

// Add counts one residual.
func (h *Histogram) Add(v int16) {
	h[BitDepth(v, MinParameter)-MinParameter]++
}

// Total returns the number of residuals counted.
func (h *Histogram) Total() int {
	total := 0
	for _, c := range h {
		total += c
	}
	return total
}

// NumBits returns the total code length of the counted residuals with
// parameter k, evaluated bucket by bucket.
func (h *Histogram) NumBits(k int) int {
	n := 0
	for i, c := range h {
		n += c * NumBits(MinParameter+i, k)
	}
	return n
}

// Best returns the parameter in [MinParameter, MaxParameter] that minimizes
// the total code length of the counted residuals, and that length. total
// must equal h.Total(). Among equal lengths the smallest parameter wins.
//
// The cost is convex in k, so the scan runs downward from MaxParameter and
// stops at the first increase. Going from k to k-1 adds one bit to every
// value deeper than k, leaves depth k unchanged and saves one bit on every
// value shallower than k.
func Best(h *Histogram, total int) (k, numBits int) {
	// At k = 15 every value costs 16 bits, including depth 16 which drops
	// its terminator.
	numBits = MaxDepth * total
	k = MaxParameter
	above := h[MaxDepth-MinParameter]
	bits := numBits
	for base := MaxParameter; base > MinParameter; base-- {
		atOrAbove := above + h[base-MinParameter]
		bits += above + atOrAbove - total
		if bits > numBits {
			return k, numBits
		}
		k, numBits = base-1, bits
		above = atOrAbove
	}
	return k, numBits
}

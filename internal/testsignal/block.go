package testsignal

import (
	"math"
	"math/rand"
)

// ImpulsesAndSines fills dst, interleaved stereo, with up to 9 random
// impulses and up to 9 random sinusoids, then scales the block by a random
// power of two in [1, 2^16) with clipping. Loud blocks clip and quiet
// blocks are mostly rounding noise, so the block set spans the codec's
// whole range from trivially predictable to incompressible.
func ImpulsesAndSines(rng *rand.Rand, dst []int16) {
	tuples := len(dst) / 2
	buf := make([]float64, 2*tuples)

	for range rng.Intn(10) {
		pos := rng.Intn(tuples)
		buf[2*pos] += rng.Float64()/2 - 0.5
		buf[2*pos+1] += rng.Float64()/2 - 0.5
	}
	for range rng.Intn(10) {
		phaseL := rng.Float64() * math.Pi
		phaseR := rng.Float64() * math.Pi
		ampL := rng.Float64()
		ampR := rng.Float64()
		w := rng.Float64() * math.Pi
		for i := 0; i < tuples; i++ {
			buf[2*i] += math.Sin(phaseL+float64(i)*w) * ampL
			buf[2*i+1] += math.Sin(phaseR+float64(i)*w) * ampR
		}
	}

	norm := math.Pow(2, float64(rng.Intn(1600))/100)
	for i, v := range buf {
		v = min(max(v*norm, -0x8000), 0x7fff)
		dst[i] = int16(v)
	}
}

// encoder.go implements the block encoder.

package mlac

import (
	"github.com/thesyncim/mlac/internal/bitstream"
	"github.com/thesyncim/mlac/internal/expgolomb"
	"github.com/thesyncim/mlac/internal/lpc"
)

// warmupParameter is the code parameter of the first two deltas of each
// channel, which are coded before any prediction is possible.
const warmupParameter = 14

// Encoder packs interleaved 16-bit stereo PCM into fixed-size blocks.
//
// An Encoder holds only per-call scratch storage: blocks are independent
// and the same input always yields the same block. It is NOT safe for
// concurrent use; each goroutine should create its own Encoder.
type Encoder struct {
	profile    Profile
	iterations int

	// Scratch storage, overwritten by every Encode call.
	x, y   [MaxSampleTuples]int16 // Left and right deltas
	xr, yr [MaxSampleTuples]int16 // Residuals of the chosen predictor
	xh, yh expgolomb.Histogram
	corr   lpc.Correlator
	w      bitstream.Writer
}

// plan is the outcome of the predictive length search.
type plan struct {
	tuples int
	coefs  lpc.Coefs
	xk, yk int // Residual code parameters
	bits   int // Payload bits after the header and warm-ups
}

// NewEncoder creates an encoder for the given profile.
func NewEncoder(p Profile) (*Encoder, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Encoder{profile: p, iterations: 1}, nil
}

// Profile returns the encoder's profile.
func (e *Encoder) Profile() Profile {
	return e.profile
}

// SetIterations sets how many times the coefficients are refitted over a
// longer window once a predictive length has been found. The default is 1.
// More iterations can fit more tuples per block at a higher encoding cost.
func (e *Encoder) SetIterations(n int) error {
	if n < 1 || n > MaxIterations {
		return ErrInvalidIterations
	}
	e.iterations = n
	return nil
}

// Iterations returns the number of refit iterations.
func (e *Encoder) Iterations() int {
	return e.iterations
}

// Encode writes exactly Profile().BlockBytes bytes to block, coding as many
// tuples from the start of pcm as fit.
//
// pcm holds interleaved stereo samples and must contain at least
// 2*Profile().MaxTuples of them; only the first Result.Tuples tuples are
// coded and the caller should advance by that many. minTuples, in
// [Profile().MinTuples, Profile().MaxTuples], is the fewest tuples the block
// may carry: if lossless coding cannot reach it, the block falls back to
// ModeRawMSB at the highest bit depth that can.
//
// Encode does not allocate.
func (e *Encoder) Encode(pcm []int16, block []byte, minTuples int) (Result, error) {
	p := e.profile
	if len(block) < p.BlockBytes {
		return Result{}, ErrBufferTooSmall
	}
	if len(pcm) < 2*p.MaxTuples {
		return Result{}, ErrInvalidFrameSize
	}
	if minTuples < p.MinTuples || minTuples > p.MaxTuples {
		return Result{}, ErrInvalidMinTuples
	}
	block = block[:p.BlockBytes]

	x, y := e.x[:p.MaxTuples], e.y[:p.MaxTuples]
	lpc.Delta(x, pcm, 0)
	lpc.Delta(y, pcm, 1)

	best, ok := e.search()
	if !ok || best.tuples < minTuples {
		return e.writeRaw(pcm, block, minTuples), nil
	}
	return e.writePredictive(block, best), nil
}

// search finds the longest prefix that fits the block losslessly. It fits
// coefficients on a window one tuple longer than the last length that fit,
// then extends with those coefficients and parameters one tuple at a time
// while the running cost stays within budget.
func (e *Encoder) search() (plan, bool) {
	p := e.profile
	n := p.MaxTuples
	x, y := e.x[:n], e.y[:n]

	available := p.BlockBytes*8 - headerBits -
		expgolomb.ValueNumBits(x[0], warmupParameter) - expgolomb.ValueNumBits(x[1], warmupParameter) -
		expgolomb.ValueNumBits(y[0], warmupParameter) - expgolomb.ValueNumBits(y[1], warmupParameter)

	var best plan
	found := false
	e.corr.Reset(x, y)
	target := min(p.MinTuples+1, n)
	for it := 0; it < e.iterations; it++ {
		e.corr.Extend(target)
		c := lpc.Fit(e.corr.Sums())

		e.xh.Reset()
		e.yh.Reset()
		for i := lpc.Order; i < target; i++ {
			xr, yr := e.residual(i, c)
			e.xh.Add(xr)
			e.yh.Add(yr)
		}
		xk, xBits := expgolomb.Best(&e.xh, target-lpc.Order)
		yk, yBits := expgolomb.Best(&e.yh, target-lpc.Order)
		bits := xBits + yBits + sideInfoBits(c, xk, yk)
		if bits > available {
			break
		}
		best = plan{tuples: target, coefs: c, xk: xk, yk: yk, bits: bits}
		found = true

		// Every further tuple costs at least one minimal code per channel.
		if bits+2*(1+expgolomb.MinParameter) <= available {
			for i := target; i < n; i++ {
				xr, yr := e.residual(i, c)
				bits += expgolomb.ValueNumBits(xr, xk) + expgolomb.ValueNumBits(yr, yk)
				if bits > available {
					break
				}
				best.tuples, best.bits = i+1, bits
			}
		}
		if best.tuples >= n {
			break
		}
		target = best.tuples + 1
	}
	return best, found
}

// residual returns the prediction residuals of tuple i.
func (e *Encoder) residual(i int, c lpc.Coefs) (xr, yr int16) {
	x, y := &e.x, &e.y
	xr = x[i] - lpc.PredictLeft(x[i-2], c.XC2, x[i-1], c.XC1)
	yr = y[i] - lpc.PredictRight(y[i-2], c.YC2, y[i-1], c.YC1, x[i], c.YD0)
	return xr, yr
}

// sideInfoBits is the cost of both parameters and all coefficients.
func sideInfoBits(c lpc.Coefs, xk, yk int) int {
	return expgolomb.ParameterNumBits(xk) + expgolomb.ParameterNumBits(yk) +
		expgolomb.ValueNumBits(c.XC1-lpc.C1Bias, lpc.CoefParameter) +
		expgolomb.ValueNumBits(c.XC2-lpc.C2Bias, lpc.CoefParameter) +
		expgolomb.ValueNumBits(c.YC1-lpc.C1Bias, lpc.CoefParameter) +
		expgolomb.ValueNumBits(c.YC2-lpc.C2Bias, lpc.CoefParameter) +
		expgolomb.ValueNumBits(c.YD0-lpc.D0Bias, lpc.CoefParameter)
}

func (e *Encoder) writePredictive(block []byte, pl plan) Result {
	for i := lpc.Order; i < pl.tuples; i++ {
		e.xr[i], e.yr[i] = e.residual(i, pl.coefs)
	}

	w := &e.w
	w.Init(block)
	w.Write(uint32(pl.tuples), 8)
	w.Write(uint32(ModePredictive), 2)

	w.WriteSigned(e.x[0], warmupParameter)
	w.WriteSigned(e.x[1], warmupParameter)
	w.WriteSigned(e.y[0], warmupParameter)
	w.WriteSigned(e.y[1], warmupParameter)

	c := pl.coefs
	w.WriteParameter(pl.xk)
	w.WriteSigned(c.XC1-lpc.C1Bias, lpc.CoefParameter)
	w.WriteSigned(c.XC2-lpc.C2Bias, lpc.CoefParameter)
	w.WriteParameter(pl.yk)
	w.WriteSigned(c.YC1-lpc.C1Bias, lpc.CoefParameter)
	w.WriteSigned(c.YC2-lpc.C2Bias, lpc.CoefParameter)
	w.WriteSigned(c.YD0-lpc.D0Bias, lpc.CoefParameter)

	for i := lpc.Order; i < pl.tuples; i++ {
		w.WriteSigned(e.xr[i], pl.xk)
		w.WriteSigned(e.yr[i], pl.yk)
	}
	w.ZeroTail()

	return Result{Resolution: 16, Tuples: pl.tuples, Bits: w.Tell(), Mode: ModePredictive}
}

// writeRaw stores the most significant bits of each sample at the highest
// bit depth whose capacity reaches minTuples.
func (e *Encoder) writeRaw(pcm []int16, block []byte, minTuples int) Result {
	p := e.profile
	depth := 16
	for depth > MinRawBitDepth && p.RawTuples(depth) < minTuples {
		depth--
	}
	tuples := p.RawTuples(depth)
	shift := uint(16 - depth)

	w := &e.w
	w.Init(block)
	w.Write(uint32(tuples), 8)
	w.Write(uint32(ModeRawMSB), 2)
	w.Write(uint32(depth-1), rawDepthBits)
	for _, s := range pcm[:2*tuples] {
		w.Write(uint32(uint16(s>>shift)), depth)
	}
	w.ZeroTail()

	return Result{Resolution: depth, Tuples: tuples, Bits: w.Tell(), Mode: ModeRawMSB}
}

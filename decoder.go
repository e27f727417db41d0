// decoder.go implements the block decoder.

package mlac

import (
	"github.com/thesyncim/mlac/internal/bitstream"
	"github.com/thesyncim/mlac/internal/lpc"
)

// Decoder reconstructs interleaved 16-bit stereo PCM from blocks.
//
// Blocks are independent, so a Decoder carries no state between calls and
// can start at any block. It is NOT safe for concurrent use; each goroutine
// should create its own Decoder.
type Decoder struct {
	profile Profile

	// Scratch storage, overwritten by every Decode call.
	x, y [MaxSampleTuples]int16
	r    bitstream.Reader
}

// NewDecoder creates a decoder for the given profile.
func NewDecoder(p Profile) (*Decoder, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{profile: p}, nil
}

// Profile returns the decoder's profile.
func (d *Decoder) Profile() Profile {
	return d.profile
}

// Decode reads one Profile().BlockBytes block and writes Result.Tuples
// interleaved tuples to the start of pcm, which must have room for
// 2*Profile().MaxTuples samples.
//
// Corrupt blocks decode to arbitrary samples without error; Decode never
// reads or writes outside its buffers. Decode does not allocate.
func (d *Decoder) Decode(block []byte, pcm []int16) (Result, error) {
	p := d.profile
	if len(block) < p.BlockBytes || len(pcm) < 2*p.MaxTuples {
		return Result{}, ErrBufferTooSmall
	}

	r := &d.r
	r.Init(block[:p.BlockBytes])
	count := int(r.Read(8))
	if ChannelMode(r.Read(2)) != ModePredictive {
		return d.decodeRaw(pcm), nil
	}
	tuples := min(max(count, lpc.Order), p.MaxTuples)

	x, y := &d.x, &d.y
	x[0] = r.ReadSigned(warmupParameter)
	x[1] = r.ReadSigned(warmupParameter)
	y[0] = r.ReadSigned(warmupParameter)
	y[1] = r.ReadSigned(warmupParameter)

	var c lpc.Coefs
	xk := r.ReadParameter()
	c.XC1 = r.ReadSigned(lpc.CoefParameter) + lpc.C1Bias
	c.XC2 = r.ReadSigned(lpc.CoefParameter) + lpc.C2Bias
	yk := r.ReadParameter()
	c.YC1 = r.ReadSigned(lpc.CoefParameter) + lpc.C1Bias
	c.YC2 = r.ReadSigned(lpc.CoefParameter) + lpc.C2Bias
	c.YD0 = r.ReadSigned(lpc.CoefParameter) + lpc.D0Bias

	for i := lpc.Order; i < tuples; i++ {
		xr := r.ReadSigned(xk)
		yr := r.ReadSigned(yk)
		x[i] = lpc.PredictLeft(x[i-2], c.XC2, x[i-1], c.XC1) + xr
		y[i] = lpc.PredictRight(y[i-2], c.YC2, y[i-1], c.YC1, x[i], c.YD0) + yr
	}
	lpc.Integrate(pcm, x[:tuples], 0)
	lpc.Integrate(pcm, y[:tuples], 1)

	return Result{Resolution: 16, Tuples: tuples, Bits: r.Tell(), Mode: ModePredictive}, nil
}

// decodeRaw reads a raw block after its mode field. The tuple count comes
// from the bit depth; the header count is not trusted.
func (d *Decoder) decodeRaw(pcm []int16) Result {
	r := &d.r
	depth := int(r.Read(rawDepthBits)) + 1
	tuples := d.profile.RawTuples(depth)
	if depth == 16 {
		for i := range pcm[:2*tuples] {
			pcm[i] = int16(r.Read(16))
		}
	} else {
		shift := uint(16 - depth)
		mid := uint16(0x8000) >> uint(depth)
		for i := range pcm[:2*tuples] {
			pcm[i] = int16(uint16(r.Read(depth))<<shift | mid)
		}
	}
	return Result{Resolution: depth, Tuples: tuples, Bits: r.Tell(), Mode: ModeRawMSB}
}

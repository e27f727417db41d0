// profile.go defines the block format presets and per-block results.

package mlac

import "math"

// Block format limits shared by every profile.
const (
	// BlockBytes is the size of one encoded block.
	BlockBytes = 244

	// MaxSampleTuples is the most stereo tuples a block can carry. Encoder
	// and Decoder scratch storage is sized by it.
	MaxSampleTuples = 121

	// MinSampleTuples is the default lower bound on tuples per block.
	MinSampleTuples = 60

	// MinRawBitDepth is the lowest bit depth the raw fallback uses.
	MinRawBitDepth = 8

	// MaxIterations bounds Encoder.SetIterations.
	MaxIterations = 8

	headerBits   = 8 + 2 // Tuple count and channel mode
	rawDepthBits = 4
)

// ChannelMode selects how a block's samples are coded.
type ChannelMode int

const (
	// ModePredictive codes both channels losslessly with linear prediction.
	ModePredictive ChannelMode = 0

	// ModeRawMSB stores the most significant bits of each sample raw.
	ModeRawMSB ChannelMode = 1
)

// String returns the mode name.
func (m ChannelMode) String() string {
	switch m {
	case ModePredictive:
		return "predictive"
	case ModeRawMSB:
		return "raw-msb"
	default:
		return "unknown"
	}
}

// Result describes one encoded or decoded block.
type Result struct {
	// Resolution is the effective bit depth: 16 for lossless blocks, the
	// raw bit depth otherwise.
	Resolution int

	// Tuples is the number of stereo tuples carried by the block.
	Tuples int

	// Bits is the number of block bits used, header included.
	Bits int

	Mode ChannelMode
}

// Lossless reports whether the block reproduces its input exactly.
func (r Result) Lossless() bool {
	return r.Resolution == 16
}

// Profile fixes the block size and the tuple range of a block format.
type Profile struct {
	Name       string
	BlockBytes int
	MinTuples  int
	MaxTuples  int
}

// Built-in profiles. Both use the same layout; they exist as separate
// presets so applications can name the format they speak.
var (
	ProfileMLAC = Profile{Name: "mlac", BlockBytes: BlockBytes, MinTuples: MinSampleTuples, MaxTuples: MaxSampleTuples}
	ProfileMolo = Profile{Name: "molo", BlockBytes: BlockBytes, MinTuples: MinSampleTuples, MaxTuples: MaxSampleTuples}
)

// Profiles lists the built-in profiles.
var Profiles = []Profile{ProfileMLAC, ProfileMolo}

// ProfileByName returns the built-in profile with the given name.
func ProfileByName(name string) (Profile, bool) {
	for _, p := range Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// Validate checks that the profile's limits fit the block format. The
// predictor needs at least 4 tuples to fit coefficients, the scratch
// storage holds MaxSampleTuples tuples, and the raw fallback at
// MinRawBitDepth must be able to carry MaxTuples so that any minimum in
// range can be honoured.
func (p Profile) Validate() error {
	switch {
	case p.MinTuples < 4,
		p.MaxTuples > MaxSampleTuples,
		p.MinTuples > p.MaxTuples,
		p.BlockBytes <= 0,
		p.rawCapacity(MinRawBitDepth) < p.MaxTuples:
		return ErrInvalidProfile
	}
	return nil
}

// rawCapacity is the number of tuples a raw block of the given depth holds,
// before clamping to MaxTuples.
func (p Profile) rawCapacity(depth int) int {
	return (p.BlockBytes*8 - headerBits - rawDepthBits) / (2 * depth)
}

// RawTuples returns the number of tuples a raw block of the given bit depth
// carries. Depths below MinRawBitDepth carry none.
func (p Profile) RawTuples(depth int) int {
	if depth < MinRawBitDepth || depth > 16 {
		return 0
	}
	return min(p.rawCapacity(depth), p.MaxTuples)
}

// MinTuplesForBitrate returns the minimum tuple count per block that keeps
// a stream of the given sample rate at or below kbps, clamped to the
// profile's tuple range.
func MinTuplesForBitrate(p Profile, sampleRate int, kbps float64) (int, error) {
	if sampleRate <= 0 || !(kbps > 0) || math.IsInf(kbps, 1) {
		return 0, ErrInvalidBitrate
	}
	n := math.Ceil(float64(p.BlockBytes*8*sampleRate) / (kbps * 1000))
	switch {
	case n < float64(p.MinTuples):
		return p.MinTuples, nil
	case n > float64(p.MaxTuples):
		return p.MaxTuples, nil
	}
	return int(n), nil
}

// BlockKbps returns the bit rate of a stream whose blocks each carry the
// given number of tuples.
func BlockKbps(p Profile, sampleRate, tuples int) float64 {
	if tuples <= 0 {
		return 0
	}
	return float64(p.BlockBytes*8*sampleRate) / float64(tuples) / 1000
}

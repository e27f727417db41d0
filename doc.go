// Package mlac implements a lossless-first predictive codec for 16-bit
// stereo PCM that packs a variable number of sample tuples into fixed-size
// blocks.
//
// Every block is exactly Profile.BlockBytes (244) bytes long and carries
// between MinSampleTuples (60) and MaxSampleTuples (121) stereo tuples.
// Each call to Encoder.Encode decides independently how many tuples of its
// input fit, so a stream of blocks has a constant bit rate per block and a
// variable number of samples per block.
//
// # Channel Modes
//
// A block is coded in one of two modes:
//   - ModePredictive: lossless. Both channels are delta transformed and
//     predicted with a 2-tap predictor; the right channel additionally uses
//     the left delta at the same index. Residuals use an Exp-Golomb-like
//     code whose parameter is chosen per block and channel.
//   - ModeRawMSB: lossy fallback. The most significant bits of each sample
//     are stored raw at the largest bit depth whose capacity still satisfies
//     the caller's minimum tuple count.
//
// # Block Layout
//
// All fields are written most significant bit first:
//   - 8 bits: tuple count
//   - 2 bits: channel mode
//   - predictive: 4 warm-up deltas, per-channel parameter and coefficients,
//     then interleaved residual pairs
//   - raw: 4 bits of bit depth minus one, then the raw samples
//
// Unused trailing bits of a block are zero.
//
// # Usage
//
//	enc, _ := mlac.NewEncoder(mlac.ProfileMLAC)
//	dec, _ := mlac.NewDecoder(mlac.ProfileMLAC)
//	block := make([]byte, mlac.BlockBytes)
//	res, err := enc.Encode(pcm, block, mlac.MinSampleTuples)
//	...
//	out := make([]int16, 2*mlac.MaxSampleTuples)
//	res, err = dec.Decode(block, out)
//
// The caller advances its input by res.Tuples tuples after each block.
// BlockWriter and BlockReader do this for whole streams.
package mlac

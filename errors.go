// errors.go defines public error types for the mlac package.

package mlac

import "errors"

// Public error types for encoding and decoding operations.
var (
	// ErrInvalidProfile indicates a Profile whose limits the block format
	// cannot represent. See Profile.Validate.
	ErrInvalidProfile = errors.New("mlac: invalid profile")

	// ErrBufferTooSmall indicates the block buffer is shorter than
	// Profile.BlockBytes, or the PCM output buffer holds fewer than
	// 2*Profile.MaxTuples samples.
	ErrBufferTooSmall = errors.New("mlac: buffer too small")

	// ErrInvalidFrameSize indicates the PCM input holds fewer than
	// 2*Profile.MaxTuples interleaved samples.
	ErrInvalidFrameSize = errors.New("mlac: invalid frame size")

	// ErrInvalidMinTuples indicates a minimum tuple count outside
	// [Profile.MinTuples, Profile.MaxTuples].
	ErrInvalidMinTuples = errors.New("mlac: invalid minimum tuple count")

	// ErrInvalidIterations indicates an iteration count outside
	// [1, MaxIterations].
	ErrInvalidIterations = errors.New("mlac: invalid iteration count (must be 1-8)")

	// ErrInvalidBitrate indicates a non-positive target bitrate or sample rate.
	ErrInvalidBitrate = errors.New("mlac: invalid bitrate")

	// ErrInvalidArgument indicates one or more function arguments are invalid.
	ErrInvalidArgument = errors.New("mlac: invalid argument")

	// ErrTruncatedBlock indicates a block stream that ended mid-block.
	ErrTruncatedBlock = errors.New("mlac: truncated block")
)

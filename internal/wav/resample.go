package wav

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample converts interleaved 16-bit PCM between sample rates.
// Equal rates return pcm unchanged.
func Resample(pcm []int16, channels, from, to int) ([]int16, error) {
	if from == to {
		return pcm, nil
	}
	if channels <= 0 || from <= 0 || to <= 0 {
		return nil, fmt.Errorf("wav: invalid resample %d -> %d Hz, %d channels", from, to, channels)
	}
	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(from),
		OutputRate: float64(to),
		Channels:   channels,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("wav: create resampler: %w", err)
	}

	in := make([]float64, len(pcm)/channels*channels)
	for i := range in {
		in[i] = float64(pcm[i]) / 32768.0
	}
	out, err := rs.Process(in)
	if err != nil {
		return nil, fmt.Errorf("wav: resample: %w", err)
	}

	res := make([]int16, len(out)/channels*channels)
	for i := range res {
		s := out[i] * 32768.0
		switch {
		case s > 32767:
			res[i] = 32767
		case s < -32768:
			res[i] = -32768
		default:
			res[i] = int16(s)
		}
	}
	return res, nil
}

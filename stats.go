// stats.go implements stream statistics over block results.

package mlac

// Stats accumulates per-block results of a stream.
type Stats struct {
	Blocks      int
	LossyBlocks int
	Tuples      int

	// DepthTuples is the sum of Resolution*Tuples over all blocks.
	DepthTuples int
}

// Add records one block.
func (s *Stats) Add(r Result) {
	s.Blocks++
	s.Tuples += r.Tuples
	s.DepthTuples += r.Resolution * r.Tuples
	if !r.Lossless() {
		s.LossyBlocks++
	}
}

// LossyRatio returns the fraction of blocks coded lossily.
func (s Stats) LossyRatio() float64 {
	if s.Blocks == 0 {
		return 0
	}
	return float64(s.LossyBlocks) / float64(s.Blocks)
}

// AverageTuples returns the mean number of tuples per block.
func (s Stats) AverageTuples() float64 {
	if s.Blocks == 0 {
		return 0
	}
	return float64(s.Tuples) / float64(s.Blocks)
}

// AverageBitDepth returns the tuple-weighted mean resolution.
func (s Stats) AverageBitDepth() float64 {
	if s.Tuples == 0 {
		return 0
	}
	return float64(s.DepthTuples) / float64(s.Tuples)
}

// Kbps returns the average bit rate of the stream at the given sample rate.
func (s Stats) Kbps(p Profile, sampleRate int) float64 {
	if s.Tuples == 0 {
		return 0
	}
	return float64(s.Blocks*p.BlockBytes*8) * float64(sampleRate) / float64(s.Tuples) / 1000
}

// RateMeter tracks the bit rate averaged over a sliding window of tuples,
// as seen by a receiver with a fixed latency buffer. Each tuple is charged
// the rate of the block that carried it.
type RateMeter struct {
	profile    Profile
	sampleRate int

	hist []float64 // Per-tuple rates, ring buffer
	pos  int
	sum  float64
	peak float64
}

// NewRateMeter creates a meter whose window spans latencyMs milliseconds.
// The window starts filled with the lowest rate the profile can produce.
// A zero latency tracks the peak per-block rate.
func NewRateMeter(p Profile, sampleRate, latencyMs int) *RateMeter {
	m := &RateMeter{profile: p, sampleRate: sampleRate}
	if n := latencyMs * sampleRate / 1000; n > 0 {
		m.hist = make([]float64, n)
		lowest := BlockKbps(p, sampleRate, p.MaxTuples)
		for i := range m.hist {
			m.hist[i] = lowest
		}
		m.sum = lowest * float64(n)
		m.peak = lowest
	}
	return m
}

// Add records a block of the given number of tuples.
func (m *RateMeter) Add(tuples int) {
	rate := BlockKbps(m.profile, m.sampleRate, tuples)
	if len(m.hist) == 0 {
		m.peak = max(m.peak, rate)
		return
	}
	for range tuples {
		m.sum += rate - m.hist[m.pos]
		m.hist[m.pos] = rate
		m.pos++
		if m.pos == len(m.hist) {
			m.pos = 0
		}
		m.peak = max(m.peak, m.sum/float64(len(m.hist)))
	}
}

// Peak returns the highest windowed rate seen, in kbit/s.
func (m *RateMeter) Peak() float64 {
	return m.peak
}

// Package testsignal generates deterministic interleaved 16-bit stereo test
// signals.
package testsignal

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
)

const (
	VariantAMMultisineV1  = "am_multisine_v1"
	VariantChirpSweepV1   = "chirp_sweep_v1"
	VariantImpulseTrainV1 = "impulse_train_v1"
	VariantSpeechLikeV1   = "speech_like_v1"
	VariantWhiteNoiseV1   = "white_noise_v1"
	VariantSilenceV1      = "silence_v1"
)

var signalVariants = []string{
	VariantAMMultisineV1,
	VariantChirpSweepV1,
	VariantImpulseTrainV1,
	VariantSpeechLikeV1,
	VariantWhiteNoiseV1,
	VariantSilenceV1,
}

// Variants returns the names accepted by Generate.
func Variants() []string {
	out := make([]string, len(signalVariants))
	copy(out, signalVariants)
	return out
}

// Generate returns tuples interleaved stereo samples of the named variant.
// gain scales the full-scale signal; values above 1 clip.
func Generate(variant string, sampleRate, tuples int, gain float64) ([]int16, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}
	if tuples <= 0 {
		return nil, fmt.Errorf("invalid tuple count: %d", tuples)
	}

	var gen func(t float64, i, ch int) float64
	switch variant {
	case VariantAMMultisineV1:
		gen = amMultisine(sampleRate)
	case VariantChirpSweepV1:
		gen = chirpSweep(sampleRate, tuples)
	case VariantImpulseTrainV1:
		gen = impulseTrain(sampleRate)
	case VariantSpeechLikeV1:
		gen = speechLike(sampleRate)
	case VariantWhiteNoiseV1:
		gen = func(_ float64, i, ch int) float64 { return 0.9 * deterministicNoise(i, ch, 5) }
	case VariantSilenceV1:
		gen = func(float64, int, int) float64 { return 0 }
	default:
		return nil, fmt.Errorf("unknown signal variant %q", variant)
	}

	pcm := make([]int16, 2*tuples)
	for i := 0; i < tuples; i++ {
		t := float64(i) / float64(sampleRate)
		for ch := 0; ch < 2; ch++ {
			pcm[2*i+ch] = ToInt16(gain * gen(t, i, ch))
		}
	}
	return pcm, nil
}

// ToInt16 converts a full-scale float sample to int16, clipping and
// truncating toward zero.
func ToInt16(v float64) int16 {
	v *= 0x8000
	switch {
	case v > 0x7fff:
		return 0x7fff
	case v < -0x8000:
		return -0x8000
	case math.IsNaN(v):
		return 0
	}
	return int16(v)
}

// HashInt16LE returns the hex SHA-256 of samples in little-endian order.
func HashInt16LE(samples []int16) string {
	h := sha256.New()
	var b [2]byte
	for _, s := range samples {
		binary.LittleEndian.PutUint16(b[:], uint16(s))
		_, _ = h.Write(b[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

func amMultisine(sampleRate int) func(float64, int, int) float64 {
	freqs := []float64{440, 1000, 2000}
	modFreqs := []float64{1.3, 2.7, 0.9}
	onset := int(0.010 * float64(sampleRate))
	return func(t float64, i, ch int) float64 {
		var val float64
		for fi, f := range freqs {
			if ch == 1 {
				f *= 1.01
			}
			depth := 0.5 + 0.5*math.Sin(2*math.Pi*modFreqs[fi]*t)
			val += 0.3 * depth * math.Sin(2*math.Pi*f*t)
		}
		if i < onset {
			frac := float64(i) / float64(onset)
			val *= frac * frac * frac
		}
		return clipSample(val)
	}
}

func chirpSweep(sampleRate, tuples int) func(float64, int, int) float64 {
	duration := float64(tuples) / float64(sampleRate)
	f0, f1 := 60.0, 12000.0
	k := math.Log(f1/f0) / duration
	fade := 0.005 * float64(sampleRate)
	return func(t float64, i, ch int) float64 {
		phase := 2 * math.Pi * f0 * (math.Exp(k*t) - 1) / k
		env := 0.2 + 0.8*(0.5+0.5*math.Sin(2*math.Pi*0.41*t+0.3*float64(ch)))
		val := 0.85 * env * math.Sin((1+0.006*float64(ch))*phase)
		if float64(i) < fade {
			val *= float64(i) / fade
		}
		return clipSample(val)
	}
}

func impulseTrain(sampleRate int) func(float64, int, int) float64 {
	period := max(int(0.035*float64(sampleRate)), 4)
	ringLen := int(0.015 * float64(sampleRate))
	decay := 0.0035 * float64(sampleRate)
	return func(t float64, i, ch int) float64 {
		pos := i % period
		val := 0.0
		if pos == 0 {
			val = 0.92
		}
		if pos < ringLen {
			ring := math.Exp(-float64(pos)/decay) * math.Sin(2*math.Pi*(540+80*float64(ch))*float64(pos)/float64(sampleRate))
			val += 0.75 * ring
		}
		val += 0.02 * deterministicNoise(i, ch, 17)
		env := 0.6 + 0.4*math.Sin(2*math.Pi*0.19*t+0.4*float64(ch))
		return clipSample(val * env)
	}
}

func speechLike(sampleRate int) func(float64, int, int) float64 {
	var phase, prevNoise [2]float64
	return func(t float64, i, ch int) float64 {
		pitch := 95.0 + 28.0*math.Sin(2*math.Pi*0.63*t) + 16.0*math.Sin(2*math.Pi*0.17*t)
		pitch *= 1.0 + 0.01*float64(ch)
		phase[ch] += 2 * math.Pi * pitch / float64(sampleRate)
		if phase[ch] > 2*math.Pi {
			phase[ch] -= 2 * math.Pi
		}
		voiced := math.Sin(phase[ch]) + 0.35*math.Sin(2*phase[ch]) + 0.2*math.Sin(3*phase[ch])

		voicing := 0.5 + 0.5*math.Sin(2*math.Pi*0.78*t+0.25)
		syllable := 0.25 + 0.75*math.Pow(0.5+0.5*math.Sin(2*math.Pi*3.2*t), 2)

		noise := deterministicNoise(i, ch, 71)
		high := noise - 0.86*prevNoise[ch]
		prevNoise[ch] = noise
		mix := voicing*voiced + (1.0-voicing)*(0.38*high+0.22*math.Sin(2*math.Pi*3200*t))
		return clipSample(0.82 * syllable * mix)
	}
}

func deterministicNoise(i, channel, salt int) float64 {
	x := uint32(i*1664525 + channel*1013904223 + salt*2246822519)
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	return float64(int32(x)) / 2147483647.0
}

func clipSample(v float64) float64 {
	return min(max(v, -0.98), 0.98)
}

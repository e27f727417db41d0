package mlac

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/thesyncim/mlac/internal/testsignal"
)

const testSeed = 1522866229

func newTestCodec(t testing.TB) (*Encoder, *Decoder) {
	t.Helper()
	enc, err := NewEncoder(ProfileMLAC)
	if err != nil {
		t.Fatalf("NewEncoder error: %v", err)
	}
	dec, err := NewDecoder(ProfileMLAC)
	if err != nil {
		t.Fatalf("NewDecoder error: %v", err)
	}
	return enc, dec
}

// noiseBlock returns one window of full-scale white noise.
func noiseBlock(rng *rand.Rand) []int16 {
	pcm := make([]int16, 2*MaxSampleTuples)
	for i := range pcm {
		pcm[i] = int16(rng.Int31())
	}
	return pcm
}

// expectedRawDepth is the highest depth whose raw capacity reaches minTuples.
func expectedRawDepth(minTuples int) int {
	for d := 16; d > MinRawBitDepth; d-- {
		if (BlockBytes*8-14)/(2*d) >= minTuples {
			return d
		}
	}
	return MinRawBitDepth
}

func TestNewEncoder_Profiles(t *testing.T) {
	for _, p := range Profiles {
		t.Run(p.Name, func(t *testing.T) {
			enc, err := NewEncoder(p)
			if err != nil {
				t.Fatalf("NewEncoder(%s) error: %v", p.Name, err)
			}
			if enc.Profile() != p {
				t.Errorf("Profile() = %+v, want %+v", enc.Profile(), p)
			}
			if enc.Iterations() != 1 {
				t.Errorf("Iterations() = %d, want 1", enc.Iterations())
			}
		})
	}
}

func TestNewEncoder_InvalidProfile(t *testing.T) {
	bad := ProfileMLAC
	bad.MaxTuples = MaxSampleTuples + 1
	enc, err := NewEncoder(bad)
	if !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("NewEncoder error = %v, want %v", err, ErrInvalidProfile)
	}
	if enc != nil {
		t.Fatal("NewEncoder returned non-nil encoder on error")
	}
}

func TestEncoder_SetIterations(t *testing.T) {
	enc, _ := newTestCodec(t)
	for _, n := range []int{0, -1, MaxIterations + 1} {
		if err := enc.SetIterations(n); !errors.Is(err, ErrInvalidIterations) {
			t.Errorf("SetIterations(%d) error = %v, want %v", n, err, ErrInvalidIterations)
		}
	}
	for n := 1; n <= MaxIterations; n++ {
		if err := enc.SetIterations(n); err != nil {
			t.Fatalf("SetIterations(%d) error: %v", n, err)
		}
		if enc.Iterations() != n {
			t.Fatalf("Iterations() = %d, want %d", enc.Iterations(), n)
		}
	}
}

func TestEncoder_Encode_InvalidArguments(t *testing.T) {
	enc, _ := newTestCodec(t)
	pcm := make([]int16, 2*MaxSampleTuples)
	block := make([]byte, BlockBytes)
	tests := []struct {
		name      string
		pcm       []int16
		block     []byte
		minTuples int
		want      error
	}{
		{"short_block", pcm, block[:BlockBytes-1], MinSampleTuples, ErrBufferTooSmall},
		{"short_pcm", pcm[:2*MaxSampleTuples-1], block, MinSampleTuples, ErrInvalidFrameSize},
		{"min_below_range", pcm, block, MinSampleTuples - 1, ErrInvalidMinTuples},
		{"min_above_range", pcm, block, MaxSampleTuples + 1, ErrInvalidMinTuples},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := enc.Encode(tt.pcm, tt.block, tt.minTuples); !errors.Is(err, tt.want) {
				t.Fatalf("Encode error = %v, want %v", err, tt.want)
			}
		})
	}
}

// TestEncoder_Encode_RoundTrip runs random impulse and sine blocks through
// the codec. With the default minimum every block must be lossless: the
// predictive coder either reaches 60 tuples or the raw fallback stores 60
// tuples at full depth.
func TestEncoder_Encode_RoundTrip(t *testing.T) {
	enc, dec := newTestCodec(t)
	rng := rand.New(rand.NewSource(testSeed))
	pcm := make([]int16, 2*MaxSampleTuples)
	block := make([]byte, BlockBytes)
	out := make([]int16, 2*MaxSampleTuples)

	trials := 10000
	if testing.Short() {
		trials = 1000
	}
	var predictive, raw int
	for trial := 0; trial < trials; trial++ {
		testsignal.ImpulsesAndSines(rng, pcm)
		res, err := enc.Encode(pcm, block, MinSampleTuples)
		if err != nil {
			t.Fatalf("trial %d: Encode error: %v", trial, err)
		}
		if res.Tuples < MinSampleTuples || res.Tuples > MaxSampleTuples {
			t.Fatalf("trial %d: Tuples = %d, want in [%d, %d]", trial, res.Tuples, MinSampleTuples, MaxSampleTuples)
		}
		if res.Bits > BlockBytes*8 {
			t.Fatalf("trial %d: Bits = %d exceeds block", trial, res.Bits)
		}
		if res.Resolution != 16 {
			t.Fatalf("trial %d: Resolution = %d, want 16", trial, res.Resolution)
		}

		got, err := dec.Decode(block, out)
		if err != nil {
			t.Fatalf("trial %d: Decode error: %v", trial, err)
		}
		if got != res {
			t.Fatalf("trial %d: decoded %+v, encoded %+v", trial, got, res)
		}
		for i := 0; i < 2*res.Tuples; i++ {
			if out[i] != pcm[i] {
				t.Fatalf("trial %d: sample %d = %d, want %d (%+v)", trial, i, out[i], pcm[i], res)
			}
		}
		if res.Mode == ModePredictive {
			predictive++
		} else {
			raw++
		}
	}
	t.Logf("%d predictive blocks, %d raw blocks", predictive, raw)
	if predictive == 0 {
		t.Fatal("no block was coded predictively")
	}
}

func TestEncoder_Encode_Silence(t *testing.T) {
	enc, dec := newTestCodec(t)
	pcm := make([]int16, 2*MaxSampleTuples)
	block := bytes.Repeat([]byte{0xa5}, BlockBytes)

	res, err := enc.Encode(pcm, block, MinSampleTuples)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	// Header 10, warm-ups 4*15, side info 43, then 8 bits per residual.
	want := Result{Resolution: 16, Tuples: 116, Bits: 10 + 60 + 43 + 114*2*8, Mode: ModePredictive}
	if res != want {
		t.Fatalf("Encode = %+v, want %+v", res, want)
	}
	if block[0] != 116 {
		t.Errorf("count field = %d, want 116", block[0])
	}
	for i := (res.Bits + 7) / 8; i < BlockBytes; i++ {
		if block[i] != 0 {
			t.Fatalf("tail byte %d = %#x, want 0", i, block[i])
		}
	}

	out := make([]int16, 2*MaxSampleTuples)
	for i := range out {
		out[i] = 1
	}
	got, err := dec.Decode(block, out)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if got != want {
		t.Fatalf("Decode = %+v, want %+v", got, want)
	}
	for i := 0; i < 2*got.Tuples; i++ {
		if out[i] != 0 {
			t.Fatalf("sample %d = %d, want 0", i, out[i])
		}
	}
}

func TestEncoder_Encode_Deterministic(t *testing.T) {
	enc, _ := newTestCodec(t)
	rng := rand.New(rand.NewSource(7))
	pcm := make([]int16, 2*MaxSampleTuples)
	a := make([]byte, BlockBytes)
	b := make([]byte, BlockBytes)
	for trial := 0; trial < 200; trial++ {
		testsignal.ImpulsesAndSines(rng, pcm)
		for i := range b {
			a[i] = 0
			b[i] = byte(rng.Intn(256))
		}
		ra, err := enc.Encode(pcm, a, MinSampleTuples)
		if err != nil {
			t.Fatal(err)
		}
		rb, err := enc.Encode(pcm, b, MinSampleTuples)
		if err != nil {
			t.Fatal(err)
		}
		if ra != rb || !bytes.Equal(a, b) {
			t.Fatalf("trial %d: encoding depends on prior buffer contents", trial)
		}
	}
}

func TestEncoder_Encode_NoiseFallsBackToRaw(t *testing.T) {
	enc, dec := newTestCodec(t)
	rng := rand.New(rand.NewSource(11))
	block := make([]byte, BlockBytes)
	out := make([]int16, 2*MaxSampleTuples)
	for trial := 0; trial < 20; trial++ {
		pcm := noiseBlock(rng)
		res, err := enc.Encode(pcm, block, MinSampleTuples)
		if err != nil {
			t.Fatal(err)
		}
		want := Result{Resolution: 16, Tuples: 60, Bits: 14 + 60*32, Mode: ModeRawMSB}
		if res != want {
			t.Fatalf("Encode = %+v, want %+v", res, want)
		}
		if _, err := dec.Decode(block, out); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 2*res.Tuples; i++ {
			if out[i] != pcm[i] {
				t.Fatalf("sample %d = %d, want %d", i, out[i], pcm[i])
			}
		}
	}
}

// TestEncoder_Encode_ForcedMinimum checks that every minimum in range yields
// a valid block and that raw blocks stay within half a quantization step.
func TestEncoder_Encode_ForcedMinimum(t *testing.T) {
	enc, dec := newTestCodec(t)
	rng := rand.New(rand.NewSource(testSeed))
	block := make([]byte, BlockBytes)
	out := make([]int16, 2*MaxSampleTuples)
	pcm := make([]int16, 2*MaxSampleTuples)

	for minTuples := MinSampleTuples; minTuples <= MaxSampleTuples; minTuples++ {
		for trial := 0; trial < 30; trial++ {
			if trial%3 == 0 {
				pcm = noiseBlock(rng)
			} else {
				testsignal.ImpulsesAndSines(rng, pcm)
			}
			res, err := enc.Encode(pcm, block, minTuples)
			if err != nil {
				t.Fatalf("min %d: Encode error: %v", minTuples, err)
			}
			if res.Tuples < minTuples || res.Tuples > MaxSampleTuples {
				t.Fatalf("min %d: Tuples = %d", minTuples, res.Tuples)
			}
			got, err := dec.Decode(block, out)
			if err != nil {
				t.Fatal(err)
			}
			if got != res {
				t.Fatalf("min %d: decoded %+v, encoded %+v", minTuples, got, res)
			}

			if res.Mode == ModePredictive {
				if res.Resolution != 16 {
					t.Fatalf("predictive Resolution = %d", res.Resolution)
				}
			} else if res.Resolution != expectedRawDepth(minTuples) {
				t.Fatalf("min %d: raw depth %d, want %d", minTuples, res.Resolution, expectedRawDepth(minTuples))
			}

			bound := 0
			if res.Resolution < 16 {
				bound = 1 << (16 - res.Resolution - 1)
			}
			for i := 0; i < 2*res.Tuples; i++ {
				diff := int(out[i]) - int(pcm[i])
				if diff < -bound || diff > bound {
					t.Fatalf("min %d depth %d: sample %d error %d exceeds %d", minTuples, res.Resolution, i, diff, bound)
				}
			}
		}
	}
}

func TestEncoder_Encode_MaxMinimumIsEightBit(t *testing.T) {
	enc, _ := newTestCodec(t)
	pcm := noiseBlock(rand.New(rand.NewSource(3)))
	block := make([]byte, BlockBytes)
	res, err := enc.Encode(pcm, block, MaxSampleTuples)
	if err != nil {
		t.Fatal(err)
	}
	want := Result{Resolution: 8, Tuples: 121, Bits: 14 + 121*16, Mode: ModeRawMSB}
	if res != want {
		t.Fatalf("Encode = %+v, want %+v", res, want)
	}
}

func TestEncoder_Encode_Iterations(t *testing.T) {
	base, dec := newTestCodec(t)
	iter, _ := newTestCodec(t)
	if err := iter.SetIterations(4); err != nil {
		t.Fatal(err)
	}
	pcm, err := testsignal.Generate(testsignal.VariantSpeechLikeV1, 44100, 20000, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	block := make([]byte, BlockBytes)
	out := make([]int16, 2*MaxSampleTuples)
	var baseTuples, iterTuples int
	for off := 0; off+2*MaxSampleTuples <= len(pcm); off += 2 * MaxSampleTuples {
		window := pcm[off:]
		rb, err := base.Encode(window, block, MinSampleTuples)
		if err != nil {
			t.Fatal(err)
		}
		ri, err := iter.Encode(window, block, MinSampleTuples)
		if err != nil {
			t.Fatal(err)
		}
		if ri.Tuples < rb.Tuples {
			t.Fatalf("offset %d: %d tuples with refits, %d without", off, ri.Tuples, rb.Tuples)
		}
		if _, err := dec.Decode(block, out); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 2*ri.Tuples; i++ {
			if out[i] != window[i] {
				t.Fatalf("offset %d: sample %d mismatch", off, i)
			}
		}
		baseTuples += rb.Tuples
		iterTuples += ri.Tuples
	}
	t.Logf("tuples: %d with 1 iteration, %d with 4", baseTuples, iterTuples)
}

func TestEncoder_Encode_SignalVariants(t *testing.T) {
	enc, dec := newTestCodec(t)
	block := make([]byte, BlockBytes)
	out := make([]int16, 2*MaxSampleTuples)
	for _, variant := range testsignal.Variants() {
		t.Run(variant, func(t *testing.T) {
			pcm, err := testsignal.Generate(variant, 44100, 8000, 0.9)
			if err != nil {
				t.Fatal(err)
			}
			for off := 0; off+2*MaxSampleTuples <= len(pcm); {
				res, err := enc.Encode(pcm[off:], block, MinSampleTuples)
				if err != nil {
					t.Fatal(err)
				}
				if _, err := dec.Decode(block, out); err != nil {
					t.Fatal(err)
				}
				for i := 0; i < 2*res.Tuples; i++ {
					if out[i] != pcm[off+i] {
						t.Fatalf("offset %d: sample %d = %d, want %d", off, i, out[i], pcm[off+i])
					}
				}
				off += 2 * res.Tuples
			}
		})
	}
}

func BenchmarkEncoder_Encode(b *testing.B) {
	enc, _ := newTestCodec(b)
	pcm, err := testsignal.Generate(testsignal.VariantAMMultisineV1, 44100, MaxSampleTuples, 0.5)
	if err != nil {
		b.Fatal(err)
	}
	block := make([]byte, BlockBytes)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := enc.Encode(pcm, block, MinSampleTuples); err != nil {
			b.Fatal(err)
		}
	}
}

package lpc

import (
	"math"
	"math/rand"
	"testing"
)

func bruteForceSums(x, y []int16, t int) Sums {
	var s Sums
	for i := 0; i < t-Order; i++ {
		s.X0X0 += mul(x[i], x[i])
		s.X1X1 += mul(x[i+1], x[i+1])
		s.X2X2 += mul(x[i+2], x[i+2])
		s.X0X1 += mul(x[i], x[i+1])
		s.X1X2 += mul(x[i+1], x[i+2])
		s.X0X2 += mul(x[i], x[i+2])
		s.Y0Y0 += mul(y[i], y[i])
		s.Y1Y1 += mul(y[i+1], y[i+1])
		s.Y0Y1 += mul(y[i], y[i+1])
		s.Y1Y2 += mul(y[i+1], y[i+2])
		s.Y0Y2 += mul(y[i], y[i+2])
		s.X2Y2 += mul(x[i+2], y[i+2])
		s.Y1X2 += mul(y[i+1], x[i+2])
		s.Y0X2 += mul(y[i], x[i+2])
	}
	return s
}

func randomDeltas(rng *rand.Rand, n int) []int16 {
	d := make([]int16, n)
	for i := range d {
		d[i] = int16(rng.Int31()) >> uint(rng.Intn(16))
	}
	return d
}

func TestCorrelatorMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const n = 121
	for trial := 0; trial < 50; trial++ {
		x, y := randomDeltas(rng, n), randomDeltas(rng, n)
		var c Correlator
		c.Reset(x, y)
		for length := 4; length <= n; length++ {
			c.Extend(length)
			if c.Len() != length {
				t.Fatalf("Len() = %d, want %d", c.Len(), length)
			}
			if got, want := c.Sums(), bruteForceSums(x, y, length); got != want {
				t.Fatalf("length %d: Sums() = %+v, want %+v", length, got, want)
			}
		}
	}
}

func TestCorrelatorJumps(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	x, y := randomDeltas(rng, 121), randomDeltas(rng, 121)
	var c Correlator
	c.Reset(x, y)
	want := c.Len()
	for _, length := range []int{61, 61, 40, 97, 121} {
		c.Extend(length)
		want = max(want, length)
		if c.Len() != want {
			t.Fatalf("Extend(%d): Len() = %d, want %d", length, c.Len(), want)
		}
		if got := c.Sums(); got != bruteForceSums(x, y, want) {
			t.Fatalf("Extend(%d): sums differ from brute force", length)
		}
	}
}

func TestFitRecoversResonator(t *testing.T) {
	// A sampled sinusoid satisfies s[i] = 2cos(w)s[i-1] - s[i-2].
	const n = 121
	for _, w := range []float64{0.05, 0.3, 1.1, 2.5} {
		x := make([]int16, n)
		y := make([]int16, n)
		for i := range x {
			x[i] = int16(math.Round(12000 * math.Sin(w*float64(i))))
			y[i] = int16(math.Round(9000 * math.Sin(w*float64(i)+0.7)))
		}
		var c Correlator
		c.Reset(x, y)
		c.Extend(n)
		coefs := Fit(c.Sums())
		wantC1 := math.Round(2 * math.Cos(w) * Divisor)
		if math.Abs(float64(coefs.XC1)-wantC1) > 1 || math.Abs(float64(coefs.XC2)+Divisor) > 1 {
			t.Errorf("w=%v: left coefs (%d, %d), want about (%v, %d)", w, coefs.XC1, coefs.XC2, wantC1, -Divisor)
		}
		// The prediction error must be tiny compared to the signal.
		var worst int
		for i := Order; i < n; i++ {
			e := int(x[i]) - int(PredictLeft(x[i-2], coefs.XC2, x[i-1], coefs.XC1))
			worst = max(worst, abs(e))
		}
		if worst > 1200 {
			t.Errorf("w=%v: worst left residual %d", w, worst)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestFitSingular(t *testing.T) {
	x := make([]int16, 10)
	y := make([]int16, 10)
	var c Correlator
	c.Reset(x, y)
	c.Extend(10)
	if got := Fit(c.Sums()); got != (Coefs{}) {
		t.Fatalf("Fit(zero) = %+v, want zero", got)
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		c    float64
		bias int
		want int16
	}{
		{0, C1Bias, 0},
		{1, C1Bias, 16},
		{-0.5, C2Bias, -8},
		{1.0 / 32, C1Bias, 1},   // Half a step rounds away from zero.
		{-1.0 / 32, C1Bias, -1}, // Half a step rounds away from zero.
		{1e9, C1Bias, CoefMax + C1Bias},
		{-1e9, C2Bias, CoefMin + C2Bias},
		{1e9, D0Bias, CoefMax + D0Bias},
		{math.NaN(), D0Bias, 0},
	}
	for _, tt := range tests {
		if got := Quantize(tt.c, tt.bias); got != tt.want {
			t.Errorf("Quantize(%v, %d) = %d, want %d", tt.c, tt.bias, got, tt.want)
		}
	}
}

func TestPredict(t *testing.T) {
	tests := []struct {
		name string
		got  int16
		want int16
	}{
		{"round half up", PredictLeft(1, 8, 0, 0), 1},
		{"round below half", PredictLeft(1, 7, 0, 0), 0},
		{"two taps", PredictLeft(-100, -16, 200, 32), 500},
		{"saturate high", PredictLeft(32767, 4099, 32767, 4099), 32767},
		{"saturate low", PredictLeft(-32768, 4099, -32768, 4099), -32768},
		{"cross term", PredictRight(0, 0, 0, 0, 160, 8), 80},
		{"right all terms", PredictRight(16, 16, 32, 16, -16, 16), 32},
		{"right saturate", PredictRight(32767, 4103, 32767, 4103, 32767, 4103), 32767},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestDeltaIntegrate(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	pcm := make([]int16, 2*121)
	for i := range pcm {
		pcm[i] = int16(rng.Int31())
	}
	pcm[0], pcm[2] = 32767, -32768 // Wrapping delta.
	left := make([]int16, 121)
	right := make([]int16, 121)
	Delta(left, pcm, 0)
	Delta(right, pcm, 1)
	if left[0] != pcm[0] || right[0] != pcm[1] {
		t.Fatalf("first delta must be the raw sample")
	}
	out := make([]int16, len(pcm))
	Integrate(out, left, 0)
	Integrate(out, right, 1)
	for i := range pcm {
		if out[i] != pcm[i] {
			t.Fatalf("sample %d: got %d, want %d", i, out[i], pcm[i])
		}
	}
}

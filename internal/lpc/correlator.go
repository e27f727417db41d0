package lpc

// Correlator accumulates the correlation sums of the least-squares normal
// equations over a growing window of delta samples.
//
// For a window of t samples the left regression pairs x[i+2] with
// (x[i+1], x[i]) and the right regression pairs y[i+2] with
// (y[i+1], y[i], x[i+2]), for i in [0, t-2). The sums over those ranges are
// shifted copies of each other, so only a common core over [2, t-2) is
// accumulated and the edge terms are added back when the sums are read.
// Growing the window by one sample costs O(1).
type Correlator struct {
	x, y []int16

	j int // Core sums cover indices [2, j)

	// Core sums over [2, j).
	xx0, xx1 int64 // x[i]x[i], x[i]x[i+1]
	yy0, yy1 int64 // y[i]y[i], y[i]y[i+1]

	// Full sums over [0, j), seeded with i = 0, 1.
	x0x2, y0y2       int64
	x2y2, y1x2, y0x2 int64

	// Leading terms for i = 0, 1.
	x0x0Pre, x1x1Pre, x0x1Pre, x1x2Pre int64
	y0y0Pre, y1y1Pre, y0y1Pre, y1y2Pre int64
}

// Sums are the correlation sums for one window of t samples, with i
// running over [0, t-2) in every sum.
type Sums struct {
	X0X0, X1X1, X2X2 int64 // x[i]x[i], x[i+1]x[i+1], x[i+2]x[i+2]
	X0X1, X1X2, X0X2 int64 // x[i]x[i+1], x[i+1]x[i+2], x[i]x[i+2]

	Y0Y0, Y1Y1       int64 // y[i]y[i], y[i+1]y[i+1]
	Y0Y1, Y1Y2, Y0Y2 int64 // y[i]y[i+1], y[i+1]y[i+2], y[i]y[i+2]

	X2Y2, Y1X2, Y0X2 int64 // x[i+2]y[i+2], y[i+1]x[i+2], y[i]x[i+2]
}

func mul(a, b int16) int64 {
	return int64(int32(a) * int32(b))
}

// Reset starts a new window over the delta sequences x and y, which must
// have equal length of at least 4. The window initially holds 4 samples.
func (c *Correlator) Reset(x, y []int16) {
	c.x, c.y = x, y
	c.j = 2
	c.xx0, c.xx1, c.yy0, c.yy1 = 0, 0, 0, 0

	c.x1x1Pre = mul(x[1], x[1])
	c.x0x0Pre = mul(x[0], x[0]) + c.x1x1Pre
	c.x1x2Pre = mul(x[1], x[2])
	c.x0x1Pre = mul(x[0], x[1]) + c.x1x2Pre
	c.x0x2 = mul(x[0], x[2]) + mul(x[1], x[3])

	c.y1y1Pre = mul(y[1], y[1])
	c.y0y0Pre = mul(y[0], y[0]) + c.y1y1Pre
	c.y1y2Pre = mul(y[1], y[2])
	c.y0y1Pre = mul(y[0], y[1]) + c.y1y2Pre
	c.y0y2 = mul(y[0], y[2]) + mul(y[1], y[3])

	c.x2y2 = mul(x[2], y[2]) + mul(x[3], y[3])
	c.y1x2 = mul(y[1], x[2]) + mul(y[2], x[3])
	c.y0x2 = mul(y[0], x[2]) + mul(y[1], x[3])
}

// Len returns the current window length in samples.
func (c *Correlator) Len() int {
	return c.j + Order
}

// Extend grows the window to t samples. Windows never shrink; t at or below
// the current length is a no-op. t must not exceed the sequence length.
func (c *Correlator) Extend(t int) {
	x, y := c.x, c.y
	for ; c.j < t-Order; c.j++ {
		i := c.j
		c.xx0 += mul(x[i], x[i])
		c.xx1 += mul(x[i], x[i+1])
		c.x0x2 += mul(x[i], x[i+2])

		c.yy0 += mul(y[i], y[i])
		c.yy1 += mul(y[i], y[i+1])
		c.y0y2 += mul(y[i], y[i+2])

		c.x2y2 += mul(x[i+2], y[i+2])
		c.y1x2 += mul(y[i+1], x[i+2])
		c.y0x2 += mul(y[i], x[i+2])
	}
}

// Sums returns the correlation sums of the current window.
func (c *Correlator) Sums() Sums {
	x, y, j := c.x, c.y, c.j
	//  index   0 1 2 ...... j-1 j j+1
	//  x0x0    P P + ...... +
	//  x1x1      P + ...... +   +
	//  x2x2        + ...... +   + +
	return Sums{
		X0X0: c.x0x0Pre + c.xx0,
		X1X1: c.x1x1Pre + c.xx0 + mul(x[j], x[j]),
		X2X2: c.xx0 + mul(x[j], x[j]) + mul(x[j+1], x[j+1]),
		X0X1: c.x0x1Pre + c.xx1,
		X1X2: c.x1x2Pre + c.xx1 + mul(x[j], x[j+1]),
		X0X2: c.x0x2,

		Y0Y0: c.y0y0Pre + c.yy0,
		Y1Y1: c.y1y1Pre + c.yy0 + mul(y[j], y[j]),
		Y0Y1: c.y0y1Pre + c.yy1,
		Y1Y2: c.y1y2Pre + c.yy1 + mul(y[j], y[j+1]),
		Y0Y2: c.y0y2,

		X2Y2: c.x2y2,
		Y1X2: c.y1x2,
		Y0X2: c.y0x2,
	}
}

package lpc

import "math"

// Fit solves the normal equations for s and returns quantized coefficients.
// A singular system yields zero coefficients (before bias) for that channel.
func Fit(s Sums) Coefs {
	var xc1, xc2 float64
	xDet := float64(s.X0X0)*float64(s.X1X1) - float64(s.X0X1)*float64(s.X0X1)
	if xDet != 0 {
		inv := 1 / xDet
		xc1 = (float64(s.X0X0)*float64(s.X1X2) - float64(s.X0X1)*float64(s.X0X2)) * inv
		xc2 = (float64(s.X0X2)*float64(s.X1X1) - float64(s.X0X1)*float64(s.X1X2)) * inv
	}

	var (
		y0y0, y1y1, y0y1 = float64(s.Y0Y0), float64(s.Y1Y1), float64(s.Y0Y1)
		y1y2, y0y2       = float64(s.Y1Y2), float64(s.Y0Y2)
		x2x2, x2y2       = float64(s.X2X2), float64(s.X2Y2)
		y1x2, y0x2       = float64(s.Y1X2), float64(s.Y0X2)
	)
	var yc1, yc2, yd0 float64
	yDet := 2*y0y1*y0x2*y1x2 - y0y1*y0y1*x2x2 + y0y0*y1y1*x2x2 - y0y0*y1x2*y1x2 - y0x2*y0x2*y1y1
	if yDet != 0 {
		inv := 1 / yDet
		yc1 = (y0y0*y1y2*x2x2 - y0y0*y1x2*x2y2 - y0y1*y0y2*x2x2 + y0y1*y0x2*x2y2 + y0y2*y0x2*y1x2 - y0x2*y0x2*y1y2) * inv
		yc2 = (y0y2*y1y1*x2x2 - y0y2*y1x2*y1x2 - y0y1*y1y2*x2x2 + y0y1*y1x2*x2y2 - y0x2*y1y1*x2y2 + y0x2*y1y2*y1x2) * inv
		yd0 = (y0y0*y1y1*x2y2 - y0y0*y1y2*y1x2 - y0y1*y0y1*x2y2 + y0y1*y0y2*y1x2 + y0y1*y0x2*y1y2 - y0y2*y0x2*y1y1) * inv
	}

	return Coefs{
		XC1: Quantize(xc1, C1Bias),
		XC2: Quantize(xc2, C2Bias),
		YC1: Quantize(yc1, C1Bias),
		YC2: Quantize(yc2, C2Bias),
		YD0: Quantize(yd0, D0Bias),
	}
}

// Quantize rounds a real coefficient to the nearest 1/Divisor step and
// saturates it to [CoefMin+bias, CoefMax+bias].
func Quantize(c float64, bias int) int16 {
	lo, hi := float64(CoefMin+bias), float64(CoefMax+bias)
	r := math.Round(c * Divisor)
	switch {
	case math.IsNaN(r):
		return 0
	case r < lo:
		return int16(lo)
	case r > hi:
		return int16(hi)
	}
	return int16(r)
}

package surfplot

import "image/color"

// divergingColor maps v on a symmetric blue-white-red scale capped at vmax:
// -vmax is saturated blue, zero is white, +vmax is saturated red.
func divergingColor(v, vmax float64) color.RGBA {
	if vmax <= 0 {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	t := v / vmax
	if t > 1 {
		t = 1
	}
	if t < -1 {
		t = -1
	}
	switch {
	case t >= 0:
		c := uint8(255 * (1 - t))
		return color.RGBA{R: 255, G: c, B: c, A: 255}
	default:
		c := uint8(255 * (1 + t))
		return color.RGBA{R: c, G: c, B: 255, A: 255}
	}
}

// shade darkens a color toward black by factor f in [0,1]
func shade(c color.RGBA, f float64) color.RGBA {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return color.RGBA{
		R: uint8(float64(c.R) * (1 - f)),
		G: uint8(float64(c.G) * (1 - f)),
		B: uint8(float64(c.B) * (1 - f)),
		A: c.A,
	}
}

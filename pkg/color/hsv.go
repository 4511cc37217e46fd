// Package color converts RGB colors into the HSV ranges used by Hue light commands.
package color

import "math"

// RGB is an 8-bit per channel color.
type RGB struct {
	R, G, B uint8
}

// Preset notification colors.
var (
	// WarmWhite is shown when a work interval starts.
	WarmWhite = RGB{R: 255, G: 255, B: 251}

	// WarmOrange is shown when a work interval ends.
	WarmOrange = RGB{R: 255, G: 147, B: 41}
)

// RGBToHSV converts an RGB triple to hue, saturation and value, each in [0,1].
// Hue is already normalised to [0,1] rather than degrees.
func RGBToHSV(r, g, b uint8) (h, s, v float64) {
	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	maxC := math.Max(rf, math.Max(gf, bf))
	minC := math.Min(rf, math.Min(gf, bf))

	if maxC == minC {
		return 0, 0, maxC
	}

	d := maxC - minC
	s = d / maxC

	switch maxC {
	case rf:
		h = (gf - bf) / d
		if gf < bf {
			h += 6
		}
	case gf:
		h = (bf-rf)/d + 2
	default:
		h = (rf-gf)/d + 4
	}

	return h / 6, s, maxC
}

// HSV returns the color as normalised hue, saturation and value.
func (c RGB) HSV() (h, s, v float64) {
	return RGBToHSV(c.R, c.G, c.B)
}

// Scale maps normalised HSV values onto the Hue API ranges
// (hue 0-65535, saturation 0-255, brightness 0-255). Values are truncated.
func Scale(h, s, v float64) (hue uint16, sat uint8, bri uint8) {
	return uint16(h * 65535), uint8(s * 255), uint8(v * 255)
}

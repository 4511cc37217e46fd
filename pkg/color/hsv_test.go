package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRGBToHSV_Achromatic(t *testing.T) {
	for _, c := range []uint8{0, 1, 64, 128, 200, 255} {
		h, s, v := RGBToHSV(c, c, c)
		assert.Equal(t, 0.0, h, "hue for grey %d", c)
		assert.Equal(t, 0.0, s, "saturation for grey %d", c)
		assert.InDelta(t, float64(c)/255, v, 1e-12)
	}
}

func TestRGBToHSV_Primaries(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		hue     float64
	}{
		{"red", 255, 0, 0, 0},
		{"green", 0, 255, 0, 1.0 / 3},
		{"blue", 0, 0, 255, 2.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, v := RGBToHSV(tt.r, tt.g, tt.b)
			assert.InDelta(t, tt.hue, h, 1e-9)
			assert.Equal(t, 1.0, s)
			assert.Equal(t, 1.0, v)
		})
	}
}

func TestRGBToHSV_RedWrapsBelowZero(t *testing.T) {
	// Magenta-ish red: red dominant with blue above green.
	h, _, _ := RGBToHSV(255, 0, 128)
	assert.Greater(t, h, 0.8)
	assert.LessOrEqual(t, h, 1.0)
}

func TestRGBToHSV_StaysInRange(t *testing.T) {
	for r := 0; r < 256; r += 15 {
		for g := 0; g < 256; g += 15 {
			for b := 0; b < 256; b += 15 {
				h, s, v := RGBToHSV(uint8(r), uint8(g), uint8(b))
				if h < 0 || h > 1 || s < 0 || s > 1 || v < 0 || v > 1 {
					t.Fatalf("RGBToHSV(%d,%d,%d) = (%v,%v,%v) out of range", r, g, b, h, s, v)
				}
			}
		}
	}
}

func TestScale(t *testing.T) {
	hue, sat, bri := Scale(1.0/3, 1, 1)
	assert.Equal(t, uint16(21845), hue)
	assert.Equal(t, uint8(255), sat)
	assert.Equal(t, uint8(255), bri)

	// Truncation, not rounding.
	hue, sat, bri = Scale(0.99999, 0.999, 0.999)
	assert.Equal(t, uint16(65534), hue)
	assert.Equal(t, uint8(254), sat)
	assert.Equal(t, uint8(254), bri)
}

func TestPresets(t *testing.T) {
	hue, sat, bri := Scale(WarmWhite.HSV())
	assert.Equal(t, uint8(255), bri)
	assert.Equal(t, uint8(4), sat)
	assert.Equal(t, uint16(10922), hue)

	hue, sat, bri = Scale(WarmOrange.HSV())
	assert.Equal(t, uint8(255), bri)
	assert.Equal(t, uint8(214), sat)
	assert.Equal(t, uint16(5410), hue)
}

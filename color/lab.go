package color

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Real-unit scales of the normalized Lab axes
const (
	LightnessScale = 100.0
	ChromaticScale = 128.0
)

// colorful stores Lab as L*/100, a*/100, b*/100
const colorfulScale = ChromaticScale / LightnessScale

// Lab is a CIE L*a*b* color (D65) in normalized units:
// L in [0,1], A and B in [-1,1]. Real units are L*100, A*128, B*128.
type Lab struct {
	L, A, B float64
}

// FromRGB converts sRGB channels in [0,1] to Lab
func FromRGB(r, g, b float64) Lab {
	return fromColorful(colorful.Color{R: r, G: g, B: b})
}

// ParseHex parses "#rrggbb" or "#rgb"
func ParseHex(s string) (Lab, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Lab{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return fromColorful(c), nil
}

// MustHex is ParseHex for literals, panics on malformed input
func MustHex(s string) Lab {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func fromColorful(c colorful.Color) Lab {
	l, a, b := c.Lab()
	return Lab{L: l, A: a / colorfulScale, B: b / colorfulScale}
}

func (c Lab) colorful() colorful.Color {
	return colorful.Lab(c.L, c.A*colorfulScale, c.B*colorfulScale)
}

// RGB returns sRGB channels, possibly outside [0,1] for out-of-gamut colors
func (c Lab) RGB() (r, g, b float64) {
	rgb := c.colorful()
	return rgb.R, rgb.G, rgb.B
}

// InGamut reports whether the color is displayable in sRGB
func (c Lab) InGamut() bool {
	return c.colorful().IsValid()
}

// Clamped projects the color into the sRGB gamut by clamping each channel.
// Lossy and deterministic.
func (c Lab) Clamped() Lab {
	return fromColorful(c.colorful().Clamped())
}

// Displayable returns the gamut-clamped sRGB color
func (c Lab) Displayable() colorful.Color {
	return c.colorful().Clamped()
}

// RGB255 returns the gamut-clamped color as 8-bit channels
func (c Lab) RGB255() (r, g, b uint8) {
	return c.Displayable().RGB255()
}

// Hex formats the gamut-clamped color as #rrggbb
func (c Lab) Hex() string {
	return c.Displayable().Hex()
}

// Lightness in real units [0,100]
func (c Lab) Lightness() float64 {
	return c.L * LightnessScale
}

// Chroma in real units
func (c Lab) Chroma() float64 {
	return math.Hypot(c.A, c.B) * ChromaticScale
}

// Hue in degrees [0,360), zero for achromatic colors
func (c Lab) Hue() float64 {
	if c.A == 0 && c.B == 0 {
		return 0
	}
	h := math.Atan2(c.B, c.A) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h -= 360
	}
	return h
}

// Midpoint returns the per-axis arithmetic mean of two colors
func Midpoint(x, y Lab) Lab {
	return Lab{
		L: (x.L + y.L) / 2,
		A: (x.A + y.A) / 2,
		B: (x.B + y.B) / 2,
	}
}

// Clamp limits each normalized axis to its legal range
func (c Lab) Clamp() Lab {
	return Lab{
		L: clamp(c.L, 0, 1),
		A: clamp(c.A, -1, 1),
		B: clamp(c.B, -1, 1),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (c Lab) String() string {
	return fmt.Sprintf("Lab(%.2f, %.2f, %.2f)", c.Lightness(), c.A*ChromaticScale, c.B*ChromaticScale)
}

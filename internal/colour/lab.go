// Package colour provides colour conversion and palette types.
package colour

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// achromaticEpsilon is the chroma below which a colour has no defined hue.
const achromaticEpsilon = 1e-9

// Lab represents a colour in CIE L*a*b* (D65).
// L is in [0, 100]; a and b are unbounded but practically within [-128, 127].
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// LCH is the polar form of Lab. H is NaN when the colour is achromatic.
type LCH struct {
	L float64
	C float64
	H float64
}

// HasHue reports whether the hue angle is defined.
func (c LCH) HasHue() bool {
	return !math.IsNaN(c.H) && !math.IsInf(c.H, 0)
}

// RGBToLab converts an 8-bit sRGB colour to Lab using standard sRGB companding and
// the D65 reference white. The boolean is false when any component is not finite;
// such samples must be dropped by the caller.
func RGBToLab(rgb RGB) (Lab, bool) {
	c := colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}
	// go-colorful scales L to [0, 1].
	l, a, b := c.Lab()
	lab := Lab{L: l * 100, A: a * 100, B: b * 100}
	if !lab.IsFinite() {
		return Lab{}, false
	}
	return lab, true
}

// IsFinite reports whether all three components are finite.
func (l Lab) IsFinite() bool {
	return isFinite(l.L) && isFinite(l.A) && isFinite(l.B)
}

// RGB converts the colour back to 8-bit sRGB, clamping out-of-gamut values.
func (l Lab) RGB() RGB {
	c := colorful.Lab(l.L/100, l.A/100, l.B/100).Clamped()
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}
}

// Hex returns the colour as an upper-case "#RRGGBB" string.
// Non-finite input yields "#000000".
func (l Lab) Hex() string {
	if !l.IsFinite() {
		return "#000000"
	}
	return l.RGB().Hex()
}

// LCH converts the colour to its polar form.
func (l Lab) LCH() LCH {
	c := math.Hypot(l.A, l.B)
	if c < achromaticEpsilon {
		return LCH{L: l.L, C: c, H: math.NaN()}
	}
	return LCH{L: l.L, C: c, H: normaliseHue(math.Atan2(l.B, l.A) * 180 / math.Pi)}
}

// Chroma returns the LCH chroma, treating non-finite values as zero.
func (l Lab) Chroma() float64 {
	c := math.Hypot(l.A, l.B)
	if !isFinite(c) {
		return 0
	}
	return c
}

// String returns the colour as "lab(L, a, b)".
func (l Lab) String() string {
	return fmt.Sprintf("lab(%.2f, %.2f, %.2f)", l.L, l.A, l.B)
}

// TripleToHex converts an [L, a, b] triple to a hex string.
// Returns "#000000" when the triple does not have exactly three components.
func TripleToHex(v []float64) string {
	if len(v) != 3 {
		return "#000000"
	}
	return Lab{L: v[0], A: v[1], B: v[2]}.Hex()
}

// HueInRange reports whether hue h lies within the circular range [start, end].
// All angles are normalised into [0, 360). When start > end the range wraps
// through 0, so [350, 10] contains 355 and 5. Undefined hues are never in range.
func HueInRange(h, start, end float64) bool {
	if !isFinite(h) || !isFinite(start) || !isFinite(end) {
		return false
	}
	hue := normaliseHue(h)
	s := normaliseHue(start)
	e := normaliseHue(end)
	if s <= e {
		return hue >= s && hue <= e
	}
	return hue >= s || hue <= e
}

// ParseHex parses "#RRGGBB", "RRGGBB" or the short "#RGB" form.
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("invalid hex colour %q: expected 6 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

func normaliseHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	// math.Mod(-0.0000001, 360) + 360 rounds to 360.
	if h >= 360 {
		h = 0
	}
	return h
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

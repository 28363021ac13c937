// Package colour provides colour conversion and palette types.
package colour

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
)

// Palette represents the representative colours extracted from an image,
// in centroid index order.
type Palette struct {
	Colours []Lab
}

// NewPalette creates a new Palette from Lab centroids.
func NewPalette(colours []Lab) *Palette {
	return &Palette{
		Colours: colours,
	}
}

// Len returns the number of colours in the palette.
func (p *Palette) Len() int {
	return len(p.Colours)
}

// RGB represents a colour in 8-bit sRGB.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as an upper-case hex string (e.g., "#1A2B3C").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", rgb.R, rgb.G, rgb.B)
}

// ToRGB converts a color.Color to RGB.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// ToHex converts the palette colours to hex strings.
func (p *Palette) ToHex() []string {
	hexColours := make([]string, len(p.Colours))
	for i, c := range p.Colours {
		hexColours[i] = c.Hex()
	}
	return hexColours
}

// ToRGBSlice converts the palette colours to RGB structs.
func (p *Palette) ToRGBSlice() []RGB {
	rgbColours := make([]RGB, len(p.Colours))
	for i, c := range p.Colours {
		rgbColours[i] = c.RGB()
	}
	return rgbColours
}

// ColourJSON represents a colour in JSON output format.
type ColourJSON struct {
	Hex    string   `json:"hex"`
	RGB    RGB      `json:"rgb"`
	Lab    Lab      `json:"lab"`
	Chroma float64  `json:"chroma"`
	Hue    *float64 `json:"hue,omitempty"`
}

// PaletteJSON represents the palette in JSON format.
type PaletteJSON struct {
	Count   int          `json:"count"`
	Colours []ColourJSON `json:"colours"`
}

// JSON returns the palette in its JSON output form.
func (p *Palette) JSON() PaletteJSON {
	colours := make([]ColourJSON, len(p.Colours))
	for i, c := range p.Colours {
		lch := c.LCH()
		cj := ColourJSON{
			Hex:    c.Hex(),
			RGB:    c.RGB(),
			Lab:    roundLab(c),
			Chroma: round2(lch.C),
		}
		if lch.HasHue() {
			h := round2(lch.H)
			cj.Hue = &h
		}
		colours[i] = cj
	}

	return PaletteJSON{
		Count:   len(p.Colours),
		Colours: colours,
	}
}

// ToJSON converts the palette to indented JSON.
func (p *Palette) ToJSON() ([]byte, error) {
	return json.MarshalIndent(p.JSON(), "", "  ")
}

// String returns a human-readable string representation of the palette.
func (p *Palette) String() string {
	if len(p.Colours) == 0 {
		return "Empty palette"
	}

	result := fmt.Sprintf("Palette with %d colours:\n", len(p.Colours))
	for i, c := range p.Colours {
		result += fmt.Sprintf("  %2d: %s (%s)\n", i+1, c.Hex(), c.String())
	}
	return result
}

// Get returns the colour at the specified index.
func (p *Palette) Get(index int) (Lab, error) {
	if index < 0 || index >= len(p.Colours) {
		return Lab{}, fmt.Errorf("index out of bounds: %d (palette has %d colours)", index, len(p.Colours))
	}
	return p.Colours[index], nil
}

// All returns an iterator over all colours in the palette.
func (p *Palette) All() func(func(int, Lab) bool) {
	return func(yield func(int, Lab) bool) {
		for i, c := range p.Colours {
			if !yield(i, c) {
				return
			}
		}
	}
}

func roundLab(l Lab) Lab {
	return Lab{L: round2(l.L), A: round2(l.A), B: round2(l.B)}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

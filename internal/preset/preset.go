// Package preset provides named extraction configurations tuned for common
// kinds of source image, and a heuristic that picks one automatically.
package preset

import (
	"fmt"
	"image"
	"slices"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/jmylchreest/pigment/internal/extract"
)

// Preset names.
const (
	// Auto selects one of the named presets by inspecting the image.
	Auto = "auto"
	// General suits photographs without a dominant backdrop.
	General = "general"
	// DarkNavies favours dark blue tones that k-means would otherwise merge into black.
	DarkNavies = "darkNavies"
	// WhiteBackdrop suits product shots and scans on a white background.
	WhiteBackdrop = "whiteBackdrop"
)

// Heuristic thresholds for Choose.
const (
	probeWidth  = 160
	probeStep   = 4
	probeAlpha  = 10
	whiteLevel  = 252
	blackLevel  = 5
	blueLevel   = 80
	blueMargin  = 10
	whiteShare  = 0.35
	blueShare   = 0.02
	blackShare  = 0.2
	shadowShare = 0.005
)

// Names returns the named presets in display order, excluding Auto.
func Names() []string {
	return []string{General, DarkNavies, WhiteBackdrop}
}

// ValidNames returns every accepted preset name, including Auto.
func ValidNames() []string {
	return append([]string{Auto}, Names()...)
}

// IsValid reports whether name is an accepted preset name.
func IsValid(name string) bool {
	return slices.Contains(ValidNames(), name)
}

// Config returns the extraction configuration for a named preset.
// Auto cannot be resolved without an image; use Resolve for that.
func Config(name string) (extract.Config, error) {
	cfg := extract.DefaultConfig()

	switch name {
	case General:
		cfg.IgnoreWhites = true
		cfg.IgnoreBlacks = true
		cfg.ChromaticBoost = 1.2
		cfg.EnsureBlue = false
	case DarkNavies:
		cfg.IgnoreBlacks = false
		cfg.ChromaticBoost = 1.25
		cfg.EnsureBlue = true
		cfg.BlueHueRange = extract.HueRange{Start: 180, End: 285}
		cfg.BlueDupes = 3
		cfg.MaxBlueDupes = 4000
	case WhiteBackdrop:
		cfg.IgnoreWhites = true
		cfg.WhiteThresh = 252
		cfg.IgnoreBlacks = false
		cfg.MinChroma = 6
		cfg.ChromaticBoost = 1.2
		cfg.EnsureBlue = true
	case Auto:
		return extract.Config{}, fmt.Errorf("%w: preset %q needs an image", extract.ErrInvalidConfig, name)
	default:
		return extract.Config{}, fmt.Errorf("%w: unknown preset %q (valid presets: %s)",
			extract.ErrInvalidConfig, name, strings.Join(ValidNames(), ", "))
	}
	return cfg, nil
}

// Resolve returns the preset name and configuration to use for img. Named
// presets are returned as is; Auto is resolved with Choose.
func Resolve(name string, img image.Image) (string, extract.Config, error) {
	if name == Auto {
		if img == nil {
			return "", extract.Config{}, fmt.Errorf("%w: preset %q needs an image", extract.ErrInvalidConfig, name)
		}
		name = Choose(img)
	}
	cfg, err := Config(name)
	if err != nil {
		return "", extract.Config{}, err
	}
	return name, cfg, nil
}

// Choose inspects a small copy of img and returns the name of the preset
// that best fits it. Mostly white images get WhiteBackdrop, images with a
// noticeable share of blue (or dark shadows with some blue) get DarkNavies,
// and everything else gets General.
func Choose(img image.Image) string {
	probe := probeRaster(img)
	if probe == nil {
		return General
	}

	var total, whites, blacks, blues int
	px := probe.Pix
	n := probe.Rect.Dx() * probe.Rect.Dy()
	w := probe.Rect.Dx()
	for i := 0; i < n; i += probeStep {
		off := (i/w)*probe.Stride + (i%w)*4
		r, g, b, a := int(px[off]), int(px[off+1]), int(px[off+2]), px[off+3]
		if a < probeAlpha {
			continue
		}
		total++
		switch {
		case r >= whiteLevel && g >= whiteLevel && b >= whiteLevel:
			whites++
		case r <= blackLevel && g <= blackLevel && b <= blackLevel:
			blacks++
		}
		if b > blueLevel && b > r+blueMargin && b > g+blueMargin {
			blues++
		}
	}
	if total == 0 {
		return General
	}

	fracWhite := float64(whites) / float64(total)
	fracBlack := float64(blacks) / float64(total)
	fracBlue := float64(blues) / float64(total)

	switch {
	case fracWhite > whiteShare:
		return WhiteBackdrop
	case fracBlue > blueShare || (fracBlack > blackShare && fracBlue > shadowShare):
		return DarkNavies
	default:
		return General
	}
}

// probeRaster returns img scaled to probeWidth pixels wide, or nil for an
// empty image.
func probeRaster(img image.Image) *image.NRGBA {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil
	}
	return imaging.Resize(img, probeWidth, 0, imaging.Linear)
}

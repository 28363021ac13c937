package extract

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Algorithm represents the palette extraction algorithm.
type Algorithm string

const (
	// AlgorithmLab clusters biased Lab samples with k-means.
	AlgorithmLab Algorithm = "lab"

	// AlgorithmDominant picks the most frequent colours of the working raster.
	AlgorithmDominant Algorithm = "dominant"

	// AlgorithmKMeans clusters the sampled Lab colours with plain k-means,
	// without chromatic boost or blue handling.
	AlgorithmKMeans Algorithm = "kmeans"
)

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{AlgorithmLab, AlgorithmDominant, AlgorithmKMeans}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	for _, valid := range ValidAlgorithms() {
		if alg == valid {
			return true
		}
	}
	return false
}

// HueRange is a circular hue interval in degrees. Start may exceed End,
// in which case the range wraps through 0.
type HueRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// String returns the range as "start,end".
func (r HueRange) String() string {
	return strconv.FormatFloat(r.Start, 'g', -1, 64) + "," + strconv.FormatFloat(r.End, 'g', -1, 64)
}

// ParseHueRange parses "start,end" (or "start-end").
func ParseHueRange(s string) (HueRange, error) {
	sep := ","
	if !strings.Contains(s, sep) {
		sep = "-"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return HueRange{}, fmt.Errorf("invalid hue range %q: expected start,end", s)
	}
	start, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return HueRange{}, fmt.Errorf("invalid hue range start %q: %w", parts[0], err)
	}
	end, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return HueRange{}, fmt.Errorf("invalid hue range end %q: %w", parts[1], err)
	}
	return HueRange{Start: start, End: end}, nil
}

// Config holds the options for a single extraction. The zero value is not
// useful; start from DefaultConfig.
type Config struct {
	// Algorithm selects the extraction algorithm.
	Algorithm Algorithm `json:"algorithm"`

	// MaxWidth bounds the working raster width. Images are never upscaled.
	MaxWidth int `json:"maxWidth"`
	// TargetSamples is the approximate number of pixels visited.
	TargetSamples int `json:"targetSamples"`
	// MaxStride caps the pixel stride so small images are not under-sampled.
	MaxStride int `json:"maxStride"`

	IgnoreWhites bool  `json:"ignoreWhites"`
	IgnoreBlacks bool  `json:"ignoreBlacks"`
	WhiteThresh  uint8 `json:"whiteThresh"`
	BlackThresh  uint8 `json:"blackThresh"`

	// MinChroma drops samples below this LCH chroma. Zero disables the floor.
	MinChroma float64 `json:"minChroma"`
	// ChromaticBoost scales a and b during clustering only.
	ChromaticBoost float64 `json:"chromaticBoost"`

	EnsureBlue   bool     `json:"ensureBlue"`
	BlueHueRange HueRange `json:"blueHueRange"`
	// BlueDupes is the total number of copies of each blue sample, original included.
	BlueDupes int `json:"blueDupes"`
	// MaxBlueDupes caps extra blue copies across the whole call.
	MaxBlueDupes    int     `json:"maxBlueDupes"`
	MinBlueFraction float64 `json:"minBlueFraction"`
}

// DefaultConfig returns the default extraction configuration.
func DefaultConfig() Config {
	return Config{
		Algorithm:       AlgorithmLab,
		MaxWidth:        640,
		TargetSamples:   30000,
		MaxStride:       8,
		IgnoreWhites:    true,
		IgnoreBlacks:    false,
		WhiteThresh:     252,
		BlackThresh:     5,
		MinChroma:       0,
		ChromaticBoost:  1.25,
		EnsureBlue:      true,
		BlueHueRange:    HueRange{Start: 185, End: 275},
		BlueDupes:       3,
		MaxBlueDupes:    5000,
		MinBlueFraction: 0.00002,
	}
}

// Validate checks the configuration and the requested colour count.
// Every failure wraps ErrInvalidConfig.
func (c Config) Validate(k int) error {
	if k < 1 {
		return fmt.Errorf("%w: colour count must be at least 1, got %d", ErrInvalidConfig, k)
	}
	if k > MaxColours {
		return fmt.Errorf("%w: colour count too large: %d (maximum: %d)", ErrInvalidConfig, k, MaxColours)
	}
	if !IsValidAlgorithm(c.Algorithm) {
		return fmt.Errorf("%w: unknown algorithm: %s (valid algorithms: %v)", ErrInvalidConfig, c.Algorithm, ValidAlgorithms())
	}
	if c.MaxWidth < 1 {
		return fmt.Errorf("%w: maxWidth must be positive, got %d", ErrInvalidConfig, c.MaxWidth)
	}
	if c.TargetSamples < 1 {
		return fmt.Errorf("%w: targetSamples must be positive, got %d", ErrInvalidConfig, c.TargetSamples)
	}
	if c.MaxStride < 1 {
		return fmt.Errorf("%w: maxStride must be at least 1, got %d", ErrInvalidConfig, c.MaxStride)
	}
	if !(c.ChromaticBoost > 0) || math.IsInf(c.ChromaticBoost, 0) {
		return fmt.Errorf("%w: chromaticBoost must be a positive finite number, got %v", ErrInvalidConfig, c.ChromaticBoost)
	}
	if c.MinChroma < 0 || math.IsNaN(c.MinChroma) {
		return fmt.Errorf("%w: minChroma must not be negative, got %v", ErrInvalidConfig, c.MinChroma)
	}
	if c.BlueDupes < 0 || c.MaxBlueDupes < 0 {
		return fmt.Errorf("%w: blue duplication counts must not be negative", ErrInvalidConfig)
	}
	if math.IsNaN(c.MinBlueFraction) || c.MinBlueFraction < 0 {
		return fmt.Errorf("%w: minBlueFraction must not be negative, got %v", ErrInvalidConfig, c.MinBlueFraction)
	}
	return nil
}

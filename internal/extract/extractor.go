// Package extract turns a photograph into a small set of representative colours.
//
// The pipeline samples the downscaled image at an adaptive stride, converts the
// surviving pixels to CIE Lab, reweights them so that thin blue accents are
// not absorbed by larger neutral areas, and clusters them with k-means.
// Every call owns its buffers and random source; concurrent calls are safe and
// independent.
package extract

import (
	"context"
	"fmt"
	"image"
	"math"
	"math/rand/v2"
	"runtime"

	"github.com/cenkalti/dominantcolor"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/pigment/internal/colour"
	pimage "github.com/jmylchreest/pigment/internal/image"
)

// MaxColours is the largest palette that may be requested.
const MaxColours = 256

// Stats describes what happened during one extraction.
type Stats struct {
	Width, Height int
	Stride        int
	// Visited is the number of pixels read; Kept survived the background gates.
	Visited, Kept int
	// Dropped counts samples whose Lab conversion was not finite.
	Dropped int
	// BelowChroma counts samples removed by the chroma floor.
	BelowChroma int
	// Samples is the size of the clustering set, blue duplicates included.
	Samples        int
	BlueSamples    int
	BlueDuplicates int
	Iterations     int
	BlueSeeded     bool
	// BlueFloorApplied is set when a centroid was replaced by the blue mean.
	BlueFloorApplied bool
}

// Result is the outcome of an extraction. Hexes[i] encodes Centroids[i];
// the order is centroid index order, not sorted by any visual criterion.
type Result struct {
	Hexes     []string     `json:"hexes"`
	Centroids []colour.Lab `json:"centroids"`
	Stats     Stats        `json:"-"`
}

// Palette returns the result as a colour palette.
func (r *Result) Palette() *colour.Palette {
	return colour.NewPalette(r.Centroids)
}

// Empty reports whether nothing survived sampling.
func (r *Result) Empty() bool {
	return len(r.Hexes) == 0
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for pipeline diagnostics.
func WithLogger(logger hclog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSeed makes every call draw from a generator seeded with seed, so
// repeated calls on the same input produce identical palettes.
func WithSeed(seed int64) Option {
	return func(e *Extractor) {
		e.newRand = func() *rand.Rand {
			return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^pcgStream)) // #nosec G115 -- bit pattern reuse is intended
		}
	}
}

// WithRandFactory sets the function that supplies each call's random source.
// The factory must return a generator that is not shared with other calls.
func WithRandFactory(f func() *rand.Rand) Option {
	return func(e *Extractor) {
		if f != nil {
			e.newRand = f
		}
	}
}

// pcgStream decorrelates the two PCG seed words.
const pcgStream = 0x9e3779b97f4a7c15

// Extractor runs palette extractions.
type Extractor struct {
	logger  hclog.Logger
	newRand func() *rand.Rand
}

// New creates an Extractor. Without options it logs nothing and seeds each
// call from the runtime's random source.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		logger: hclog.NewNullLogger(),
		newRand: func() *rand.Rand {
			// #nosec G404 -- clustering does not need cryptographic randomness
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract decodes data and extracts k colours from it.
// The configuration is validated before decoding; decode failures wrap
// ErrImageDecode. An image whose pixels are all filtered out yields an empty
// result and no error.
func (e *Extractor) Extract(ctx context.Context, data []byte, k int, cfg Config) (*Result, error) {
	if err := cfg.Validate(k); err != nil {
		return nil, err
	}

	img, err := pimage.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageDecode, err)
	}
	return e.extractImage(ctx, img, k, cfg)
}

// ExtractImage extracts k colours from a decoded image.
func (e *Extractor) ExtractImage(ctx context.Context, img image.Image, k int, cfg Config) (*Result, error) {
	if err := cfg.Validate(k); err != nil {
		return nil, err
	}
	return e.extractImage(ctx, img, k, cfg)
}

// ExtractRaster extracts k colours from a working raster. The raster is
// sampled as given; callers that start from a full-size image should use
// ExtractImage, which applies the MaxWidth downscale first.
func (e *Extractor) ExtractRaster(ctx context.Context, raster *image.NRGBA, k int, cfg Config) (*Result, error) {
	if err := cfg.Validate(k); err != nil {
		return nil, err
	}
	return e.extractRaster(ctx, raster, k, cfg)
}

func (e *Extractor) extractImage(ctx context.Context, img image.Image, k int, cfg Config) (*Result, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: image cannot be nil", ErrImageDecode)
	}
	return e.extractRaster(ctx, WorkingRaster(img, cfg.MaxWidth), k, cfg)
}

// extractRaster runs the pipeline on a validated configuration. Every
// algorithm sees the same gated samples and returns exactly k centroids
// whenever any sample survives.
func (e *Extractor) extractRaster(ctx context.Context, raster *image.NRGBA, k int, cfg Config) (*Result, error) {
	if raster == nil {
		return nil, fmt.Errorf("%w: raster cannot be nil", ErrImageDecode)
	}

	// The library algorithms cluster true Lab without blue handling.
	if cfg.Algorithm != AlgorithmLab {
		cfg.ChromaticBoost = 1
		cfg.EnsureBlue = false
	}

	var stats Stats
	pixels := samplePixels(raster, cfg, &stats)
	e.logger.Debug("sampled raster",
		"width", stats.Width, "height", stats.Height,
		"stride", stats.Stride, "visited", stats.Visited, "kept", stats.Kept)
	if len(pixels) == 0 {
		return emptyResult(stats), nil
	}

	set := buildSampleSet(pixels, cfg, &stats)
	if stats.Dropped > 0 {
		e.logger.Trace("dropped non-finite samples", "count", stats.Dropped)
	}
	e.logger.Debug("biased samples",
		"samples", stats.Samples, "below_chroma", stats.BelowChroma,
		"blue", stats.BlueSamples, "blue_duplicates", stats.BlueDuplicates)
	if len(set.samples) == 0 {
		return emptyResult(stats), nil
	}

	if err := yield(ctx); err != nil {
		return nil, err
	}

	switch cfg.Algorithm {
	case AlgorithmDominant:
		centroids := fillCentroids(dominant(set.samples, k), set.samples, k)
		e.logger.Debug("dominant colours", "k", k)
		return newResult(centroids, stats), nil

	case AlgorithmKMeans:
		found, err := partition(set.samples, k)
		if err != nil {
			return nil, err
		}
		e.logger.Debug("partitioned samples", "k", k, "clusters", len(found))
		return newResult(fillCentroids(found, set.samples, k), stats), nil
	}

	centroids := cluster(set, k, cfg, e.newRand(), &stats)
	e.logger.Debug("clustered samples",
		"k", k, "iterations", stats.Iterations,
		"blue_seeded", stats.BlueSeeded, "blue_floor", stats.BlueFloorApplied)

	return newResult(centroids, stats), nil
}

// dominant returns up to k of the most frequent colours among samples,
// most frequent first.
func dominant(samples []colour.Lab, k int) []colour.Lab {
	found := dominantcolor.FindWeight(sampleImage(samples), k)
	centroids := make([]colour.Lab, 0, len(found))
	for _, c := range found {
		if lab, ok := colour.RGBToLab(colour.RGB{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B}); ok {
			centroids = append(centroids, lab)
		}
	}
	return centroids
}

// sampleImage lays samples out row by row in a near-square opaque image.
// Pixels past the last sample stay transparent.
func sampleImage(samples []colour.Lab) *image.NRGBA {
	w := int(math.Ceil(math.Sqrt(float64(len(samples)))))
	h := (len(samples) + w - 1) / w
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, s := range samples {
		rgb := s.RGB()
		img.Pix[i*4], img.Pix[i*4+1], img.Pix[i*4+2], img.Pix[i*4+3] = rgb.R, rgb.G, rgb.B, 0xff
	}
	return img
}

// fillCentroids pads centroids to exactly k by repeating them in order.
// With nothing found it falls back to the mean of the samples.
func fillCentroids(centroids, samples []colour.Lab, k int) []colour.Lab {
	if len(centroids) == 0 {
		centroids = []colour.Lab{meanLab(samples)}
	}
	n := len(centroids)
	for i := n; i < k; i++ {
		centroids = append(centroids, centroids[i%n])
	}
	return centroids[:k]
}

// yield is the single suspension point between biasing and clustering.
// A cancelled context stops the call before clustering starts.
func yield(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runtime.Gosched()
	return nil
}

func emptyResult(stats Stats) *Result {
	return &Result{Hexes: []string{}, Centroids: []colour.Lab{}, Stats: stats}
}

func newResult(centroids []colour.Lab, stats Stats) *Result {
	hexes := make([]string, len(centroids))
	for i, c := range centroids {
		hexes[i] = c.Hex()
	}
	return &Result{Hexes: hexes, Centroids: centroids, Stats: stats}
}

package extract

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/jmylchreest/pigment/internal/colour"
)

// minAlpha is the alpha below which a pixel is treated as transparent.
const minAlpha = 10

// rasterSize returns the working raster dimensions for a w×h image.
// The aspect ratio is preserved and the image is never upscaled.
func rasterSize(w, h, maxWidth int) (int, int) {
	scale := math.Min(1, float64(maxWidth)/float64(w))
	rw := max(1, int(math.Round(float64(w)*scale)))
	rh := max(1, int(math.Round(float64(h)*scale)))
	return rw, rh
}

// WorkingRaster downscales img to at most maxWidth pixels wide and returns a
// non-premultiplied RGBA buffer.
func WorkingRaster(img image.Image, maxWidth int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	w, h := rasterSize(b.Dx(), b.Dy(), maxWidth)
	if w == b.Dx() && h == b.Dy() {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, w, h, imaging.Linear)
}

// strideFor returns the pixel stride for a raster of totalPixels pixels.
func strideFor(totalPixels, targetSamples, maxStride int) int {
	return max(1, min(totalPixels/targetSamples, maxStride))
}

// samplePixels walks the raster in row-major order at an adaptive stride and
// returns the pixels that pass the alpha, white and black gates.
func samplePixels(raster *image.NRGBA, cfg Config, stats *Stats) []colour.RGB {
	w, h := raster.Rect.Dx(), raster.Rect.Dy()
	total := w * h
	stats.Width, stats.Height = w, h
	if total == 0 {
		return nil
	}

	stride := strideFor(total, cfg.TargetSamples, cfg.MaxStride)
	stats.Stride = stride

	pixels := make([]colour.RGB, 0, total/stride+1)
	for p := 0; p < total; p += stride {
		x, y := p%w, p/w
		off := y*raster.Stride + x*4
		px := raster.Pix[off : off+4 : off+4]
		r, g, b, a := px[0], px[1], px[2], px[3]
		stats.Visited++

		if a < minAlpha {
			continue
		}
		if cfg.IgnoreWhites && r >= cfg.WhiteThresh && g >= cfg.WhiteThresh && b >= cfg.WhiteThresh {
			continue
		}
		if cfg.IgnoreBlacks && r <= cfg.BlackThresh && g <= cfg.BlackThresh && b <= cfg.BlackThresh {
			continue
		}
		pixels = append(pixels, colour.RGB{R: r, G: g, B: b})
	}
	stats.Kept = len(pixels)
	return pixels
}

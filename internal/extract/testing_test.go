package extract

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/jmylchreest/pigment/internal/colour"
)

var (
	steelBlue = color.NRGBA{R: 0x46, G: 0x82, B: 0xB4, A: 255}
	pureRed   = color.NRGBA{R: 255, A: 255}
	nearWhite = color.NRGBA{R: 253, G: 253, B: 253, A: 255}
)

// solidImage returns a w×h image filled with c.
func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// bandedImage returns a w×h image whose first rows are top and whose last
// bottomRows rows are bottom.
func bandedImage(w, h, bottomRows int, top, bottom color.NRGBA) *image.NRGBA {
	img := solidImage(w, h, top)
	for y := h - bottomRows; y < h; y++ {
		for x := range w {
			img.SetNRGBA(x, y, bottom)
		}
	}
	return img
}

// gradientImage returns a deterministic multi-colour image.
func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(1, w-1)),
				G: uint8(y * 255 / max(1, h-1)),
				B: uint8((x + y) % 200),
				A: 255,
			})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func labOf(t *testing.T, c color.NRGBA) colour.Lab {
	t.Helper()
	lab, ok := colour.RGBToLab(colour.RGB{R: c.R, G: c.G, B: c.B})
	if !ok {
		t.Fatalf("RGBToLab(%v) not finite", c)
	}
	return lab
}

func assertLabClose(t *testing.T, got, want colour.Lab, tol float64) {
	t.Helper()
	if math.Abs(got.L-want.L) > tol || math.Abs(got.A-want.A) > tol || math.Abs(got.B-want.B) > tol {
		t.Errorf("Lab = %v, want %v (tolerance %v)", got, want, tol)
	}
}

package preview

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
)

func raster(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for y := range 4 {
		for x := range 8 {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestAcquireReleasesPrevious(t *testing.T) {
	slot := NewSlot(t.TempDir(), nil)

	first, err := slot.Acquire(raster(color.NRGBA{R: 255, A: 255}))
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if !exists(first.Path()) {
		t.Fatalf("preview %s not written", first.Path())
	}

	second, err := slot.Acquire(raster(color.NRGBA{B: 255, A: 255}))
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if exists(first.Path()) {
		t.Error("first preview still exists after second Acquire")
	}
	if !exists(second.Path()) {
		t.Error("second preview missing")
	}
	if slot.Current() != second {
		t.Error("Current() is not the latest handle")
	}

	if err := slot.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if exists(second.Path()) {
		t.Error("second preview still exists after Release")
	}
	if slot.Current() != nil {
		t.Error("Current() not nil after Release")
	}
}

func TestHandleReleaseIdempotent(t *testing.T) {
	slot := NewSlot(t.TempDir(), nil)
	h, err := slot.Acquire(raster(color.NRGBA{G: 255, A: 255}))
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := h.Release(); err != nil {
				t.Errorf("Release() error = %v", err)
			}
		}()
	}
	wg.Wait()

	// The slot still refers to the handle; releasing through it is a no-op.
	if err := slot.Release(); err != nil {
		t.Errorf("Slot.Release() error = %v", err)
	}

	var nilHandle *Handle
	if err := nilHandle.Release(); err != nil {
		t.Errorf("nil Release() error = %v", err)
	}
}

func TestPreviewContent(t *testing.T) {
	dir := t.TempDir()
	slot := NewSlot(dir, nil)
	src := raster(color.NRGBA{R: 0x46, G: 0x82, B: 0xB4, A: 255})

	h, err := slot.Acquire(src)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer func() { _ = h.Release() }()

	if filepath.Dir(h.Path()) != dir {
		t.Errorf("preview dir = %s, want %s", filepath.Dir(h.Path()), dir)
	}
	name := filepath.Base(h.Path())
	if !strings.HasPrefix(name, contentName(src)) || filepath.Ext(name) != ".png" {
		t.Errorf("preview name = %s, want content hash prefix and .png", name)
	}

	img, err := imaging.Open(h.Path())
	if err != nil {
		t.Fatalf("imaging.Open() error = %v", err)
	}
	got := imaging.Clone(img)
	if got.Bounds().Size() != src.Bounds().Size() || got.NRGBAAt(3, 2) != src.NRGBAAt(3, 2) {
		t.Errorf("preview content differs from raster")
	}
}

func TestContentName(t *testing.T) {
	a := contentName(raster(color.NRGBA{R: 1, A: 255}))
	b := contentName(raster(color.NRGBA{R: 1, A: 255}))
	c := contentName(raster(color.NRGBA{R: 2, A: 255}))
	if a != b {
		t.Error("contentName() differs for identical rasters")
	}
	if a == c {
		t.Error("contentName() equal for different rasters")
	}
	if len(a) != 32 {
		t.Errorf("len(contentName()) = %d, want 32", len(a))
	}
}

func TestAcquireNil(t *testing.T) {
	if _, err := NewSlot(t.TempDir(), nil).Acquire(nil); err == nil {
		t.Error("Acquire(nil) error = nil, want error")
	}
}

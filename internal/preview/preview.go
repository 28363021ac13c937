// Package preview manages the on-disk preview of the working raster that an
// extraction ran over. A Slot holds at most one live preview; acquiring a
// new one releases the previous.
package preview

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/hashicorp/go-hclog"
)

// DefaultCacheDir returns the directory previews are written to.
func DefaultCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", "pigment", "previews"), nil
	}
	return filepath.Join(cacheDir, "pigment", "previews"), nil
}

// Handle is a live preview file. Release removes it; calling Release more
// than once is safe.
type Handle struct {
	path string
	once sync.Once
	err  error
}

// Path returns the location of the preview image.
func (h *Handle) Path() string {
	if h == nil {
		return ""
	}
	return h.path
}

// Release deletes the preview file. Only the first call does any work; later
// calls return the first call's result.
func (h *Handle) Release() error {
	if h == nil {
		return nil
	}
	h.once.Do(func() {
		if err := os.Remove(h.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			h.err = fmt.Errorf("failed to remove preview: %w", err)
		}
	})
	return h.err
}

// Slot owns the current preview for one caller.
type Slot struct {
	mu      sync.Mutex
	dir     string
	current *Handle
	logger  hclog.Logger
}

// NewSlot creates a Slot writing into dir. An empty dir selects
// DefaultCacheDir.
func NewSlot(dir string, logger hclog.Logger) *Slot {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Slot{dir: dir, logger: logger}
}

// Acquire releases the current preview, then writes raster as a PNG named by
// its content hash and makes it current.
func (s *Slot) Acquire(raster *image.NRGBA) (*Handle, error) {
	if raster == nil {
		return nil, fmt.Errorf("raster cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.releaseLocked(); err != nil {
		s.logger.Warn("failed to release previous preview", "error", err)
	}

	dir := s.dir
	if dir == "" {
		var err error
		if dir, err = DefaultCacheDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return nil, fmt.Errorf("failed to create preview directory: %w", err)
	}

	f, err := os.CreateTemp(dir, contentName(raster)+"-*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create preview: %w", err)
	}
	h := &Handle{path: f.Name()}

	if err := imaging.Encode(f, raster, imaging.PNG); err != nil {
		_ = f.Close()
		_ = h.Release()
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = h.Release()
		return nil, fmt.Errorf("failed to write preview: %w", err)
	}

	s.current = h
	s.logger.Debug("acquired preview", "path", h.path)
	return h, nil
}

// Current returns the live preview, or nil.
func (s *Slot) Current() *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Release releases the current preview, if any.
func (s *Slot) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releaseLocked()
}

func (s *Slot) releaseLocked() error {
	if s.current == nil {
		return nil
	}
	h := s.current
	s.current = nil
	s.logger.Debug("released preview", "path", h.path)
	return h.Release()
}

// contentName hashes the raster's dimensions and pixels.
func contentName(raster *image.NRGBA) string {
	h := sha256.New()
	var dims [8]byte
	binary.LittleEndian.PutUint32(dims[0:4], uint32(raster.Rect.Dx())) // #nosec G115 -- raster dimensions are non-negative
	binary.LittleEndian.PutUint32(dims[4:8], uint32(raster.Rect.Dy())) // #nosec G115 -- raster dimensions are non-negative
	h.Write(dims[:])

	w := raster.Rect.Dx() * 4
	for y := range raster.Rect.Dy() {
		off := y * raster.Stride
		h.Write(raster.Pix[off : off+w])
	}
	return fmt.Sprintf("%x", h.Sum(nil)[:16])
}

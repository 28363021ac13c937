package image

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	httputil "github.com/jmylchreest/pigment/internal/util/http"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(1, 1, color.NRGBA{R: 70, G: 130, B: 180, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	img, err := Decode(pngBytes(t))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Errorf("Decode() bounds = %v, want 3x2", img.Bounds())
	}

	for name, data := range map[string][]byte{"empty": nil, "junk": []byte("not an image")} {
		if _, err := Decode(data); err == nil {
			t.Errorf("Decode(%s) error = nil, want error", name)
		}
	}
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	data := pngBytes(t)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "file", path: path},
		{name: "empty path", path: "", wantErr: true},
		{name: "missing", path: filepath.Join(dir, "missing.png"), wantErr: true},
		{name: "directory", path: dir, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewFileLoader().Load(context.Background(), tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !bytes.Equal(got, data) {
				t.Error("Load() returned different bytes")
			}
		})
	}
}

func TestSmartLoaderURL(t *testing.T) {
	data := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	got, err := NewSmartLoader(httputil.FetchOptions{}).Load(context.Background(), srv.URL+"/photo.png")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("Load() returned different bytes")
	}

	if _, err := NewSmartLoader(httputil.FetchOptions{MaxBytes: 4}).Load(context.Background(), srv.URL); err == nil {
		t.Error("Load() error = nil for an oversized body, want error")
	}
}

func TestExpandSources(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.jpg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.png"), 0o755); err != nil {
		t.Fatal(err)
	}
	single := filepath.Join(dir, "notes.txt")

	got, err := ExpandSources([]string{"https://example.com/x.jpg", dir, single})
	if err != nil {
		t.Fatalf("ExpandSources() error = %v", err)
	}
	want := []string{
		"https://example.com/x.jpg",
		filepath.Join(dir, "a.jpg"),
		filepath.Join(dir, "b.png"),
		single,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExpandSources() mismatch (-want +got):\n%s", diff)
	}

	if _, err := ExpandSources([]string{t.TempDir()}); err == nil {
		t.Error("ExpandSources() error = nil for a directory without images")
	}
	if _, err := ExpandSources([]string{filepath.Join(dir, "missing.png")}); err == nil {
		t.Error("ExpandSources() error = nil for a missing path")
	}
}

func TestValidateImagePath(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(good, pngBytes(t), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("dummy image data"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path    string
		wantErr bool
	}{
		{path: good},
		{path: dir},
		{path: "https://example.com/a.png"},
		{path: bad, wantErr: true},
		{path: "", wantErr: true},
		{path: filepath.Join(dir, "missing.png"), wantErr: true},
	}
	for _, tt := range tests {
		if err := ValidateImagePath(tt.path); (err != nil) != tt.wantErr {
			t.Errorf("ValidateImagePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestIsURL(t *testing.T) {
	for path, want := range map[string]bool{
		"http://a/b.png":  true,
		"https://a/b.png": true,
		"ftp://a/b.png":   false,
		"/tmp/b.png":      false,
	} {
		if got := IsURL(path); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", path, got, want)
		}
	}
}

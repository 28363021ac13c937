package seed

import (
	"image"
	"image/color"
	"testing"
)

func checker(w, h int, a, b color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, a)
			} else {
				img.SetNRGBA(x, y, b)
			}
		}
	}
	return img
}

func TestCalculate(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	img := checker(40, 30, red, blue)
	manual := int64(12345)

	tests := []struct {
		name    string
		img     image.Image
		source  string
		cfg     Config
		want    *int64
		wantErr bool
	}{
		{name: "manual", cfg: Config{Mode: ModeManual, Value: &manual}, want: &manual},
		{name: "manual without value", cfg: Config{Mode: ModeManual}, wantErr: true},
		{name: "content", img: img, cfg: Config{Mode: ModeContent}},
		{name: "content without image", cfg: Config{Mode: ModeContent}, wantErr: true},
		{name: "filepath", source: "photos/a.jpg", cfg: Config{Mode: ModeFilepath}},
		{name: "filepath without source", cfg: Config{Mode: ModeFilepath}, wantErr: true},
		{name: "random", cfg: Config{Mode: ModeRandom}},
		{name: "unknown", cfg: Config{Mode: "sometimes"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.img, tt.source, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Calculate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.want != nil && got != *tt.want {
				t.Errorf("Calculate() = %d, want %d", got, *tt.want)
			}
		})
	}
}

func TestContentSeedDeterministic(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}

	a, _ := ContentSeed(checker(300, 200, red, blue))
	b, _ := ContentSeed(checker(300, 200, red, blue))
	if a != b {
		t.Errorf("ContentSeed() differs for identical images: %d vs %d", a, b)
	}

	c, _ := ContentSeed(checker(300, 200, blue, red))
	if a == c {
		t.Error("ContentSeed() equal for different images")
	}

	d, _ := ContentSeed(checker(200, 300, red, blue))
	if a == d {
		t.Error("ContentSeed() equal for different dimensions")
	}
}

func TestSourceSeed(t *testing.T) {
	a, _ := SourceSeed("https://example.com/a.png")
	b, _ := SourceSeed("https://example.com/a.png")
	c, _ := SourceSeed("https://example.com/b.png")
	if a != b {
		t.Error("SourceSeed() differs for the same URL")
	}
	if a == c {
		t.Error("SourceSeed() equal for different URLs")
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range ValidModes() {
		got, err := ParseMode(string(m))
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %q, %v", m, got, err)
		}
	}
	if _, err := ParseMode("Content"); err == nil {
		t.Error("ParseMode(\"Content\") error = nil, want error")
	}
}

package cli

import (
	"strings"
	"testing"

	"github.com/jmylchreest/pigment/internal/colour"
)

func TestFormatReportsSwatches(t *testing.T) {
	red, ok := colour.RGBToLab(colour.RGB{R: 255})
	if !ok {
		t.Fatal("RGBToLab(red) not finite")
	}
	palette := colour.NewPalette([]colour.Lab{red})
	reports := []sourceReport{{Source: "a.png", Preset: "general", palette: palette, Palette: palette.JSON()}}

	tests := []struct {
		name     string
		swatches bool
		wantANSI bool
	}{
		{name: "plain", swatches: false, wantANSI: false},
		{name: "swatches", swatches: true, wantANSI: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatReports(reports, formatHex, tt.swatches)
			if err != nil {
				t.Fatalf("formatReports() error = %v", err)
			}
			if hasANSI := strings.Contains(got, "\x1b["); hasANSI != tt.wantANSI {
				t.Errorf("formatReports() = %q, want ANSI escapes %v", got, tt.wantANSI)
			}
			if !strings.HasSuffix(got, "#FF0000\n") {
				t.Errorf("formatReports() = %q, want it to end with the hex code", got)
			}
		})
	}
}

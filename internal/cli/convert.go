package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/pigment/internal/colour"
)

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <#RRGGBB | L,a,b>",
		Short: "Convert a colour between hex, RGB, Lab and LCH",
		Long: `Convert a colour given as a hex code or as an L,a,b triple.

Lab values use the D65 white point with L in 0..100. Out-of-gamut Lab values
are clamped to the nearest sRGB colour.

Examples:
  pigment convert '#4682B4'
  pigment convert 52.47,-4.08,-32.19`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lab, hex, err := parseColourArg(args[0])
			if err != nil {
				return err
			}

			table := NewTable([]string{"Space", "Value"})
			table.AddRow([]string{"hex", hex})
			table.AddRow([]string{"rgb", lab.RGB().String()})
			table.AddRow([]string{"lab", lab.String()})
			table.AddRow([]string{"lch", formatLCH(lab.LCH())})
			fmt.Fprint(cmd.OutOrStdout(), table.Render())
			return nil
		},
	}
}

// parseColourArg accepts a hex code or a comma-separated Lab triple and
// returns the colour with its hex encoding.
func parseColourArg(s string) (colour.Lab, string, error) {
	if !strings.Contains(s, ",") {
		rgb, err := colour.ParseHex(s)
		if err != nil {
			return colour.Lab{}, "", err
		}
		lab, ok := colour.RGBToLab(rgb)
		if !ok {
			return colour.Lab{}, "", fmt.Errorf("colour %s has no finite Lab value", s)
		}
		return lab, rgb.Hex(), nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return colour.Lab{}, "", fmt.Errorf("invalid Lab triple %q: expected L,a,b", s)
	}
	v := make([]float64, 3)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return colour.Lab{}, "", fmt.Errorf("invalid Lab component %q: %w", p, err)
		}
		v[i] = f
	}
	return colour.Lab{L: v[0], A: v[1], B: v[2]}, colour.TripleToHex(v), nil
}

func formatLCH(c colour.LCH) string {
	if !c.HasHue() {
		return fmt.Sprintf("lch(%.2f, %.2f, none)", c.L, c.C)
	}
	return fmt.Sprintf("lch(%.2f, %.2f, %.2f)", c.L, c.C, c.H)
}

package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/pigment/internal/extract"
	"github.com/jmylchreest/pigment/internal/preset"
)

func newPresetsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the extraction presets and their settings",
		Long: `List the named extraction presets and the settings each one applies.

The auto preset (the default for extract) picks one of these per image:
whiteBackdrop for mostly white images, darkNavies when blue is noticeable,
and general otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configs := make(map[string]extract.Config, len(preset.Names()))
			for _, name := range preset.Names() {
				cfg, err := preset.Config(name)
				if err != nil {
					return err
				}
				configs[name] = cfg
			}

			switch format {
			case "table":
				fmt.Fprint(cmd.OutOrStdout(), presetTable(configs).Render())
			case formatJSON:
				data, err := json.MarshalIndent(configs, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to convert to JSON: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			default:
				return fmt.Errorf("unsupported format: %s (supported: table, json)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table, json)")
	return cmd
}

// presetTable lays the presets out one per column.
func presetTable(configs map[string]extract.Config) *Table {
	names := preset.Names()
	table := NewTable(append([]string{"Setting"}, names...))
	for i := range names {
		table.AlignRight(i + 1)
	}

	num := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	rows := []struct {
		name  string
		value func(extract.Config) string
	}{
		{"maxWidth", func(c extract.Config) string { return strconv.Itoa(c.MaxWidth) }},
		{"targetSamples", func(c extract.Config) string { return strconv.Itoa(c.TargetSamples) }},
		{"maxStride", func(c extract.Config) string { return strconv.Itoa(c.MaxStride) }},
		{"ignoreWhites", func(c extract.Config) string { return strconv.FormatBool(c.IgnoreWhites) }},
		{"ignoreBlacks", func(c extract.Config) string { return strconv.FormatBool(c.IgnoreBlacks) }},
		{"whiteThresh", func(c extract.Config) string { return strconv.Itoa(int(c.WhiteThresh)) }},
		{"blackThresh", func(c extract.Config) string { return strconv.Itoa(int(c.BlackThresh)) }},
		{"minChroma", func(c extract.Config) string { return num(c.MinChroma) }},
		{"chromaticBoost", func(c extract.Config) string { return num(c.ChromaticBoost) }},
		{"ensureBlue", func(c extract.Config) string { return strconv.FormatBool(c.EnsureBlue) }},
		{"blueHueRange", func(c extract.Config) string { return c.BlueHueRange.String() }},
		{"blueDupes", func(c extract.Config) string { return strconv.Itoa(c.BlueDupes) }},
		{"maxBlueDupes", func(c extract.Config) string { return strconv.Itoa(c.MaxBlueDupes) }},
		{"minBlueFraction", func(c extract.Config) string { return num(c.MinBlueFraction) }},
	}

	for _, r := range rows {
		cells := []string{r.name}
		for _, name := range names {
			cells = append(cells, r.value(configs[name]))
		}
		table.AddRow(cells)
	}
	return table
}

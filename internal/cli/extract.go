package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/pigment/internal/colour"
	"github.com/jmylchreest/pigment/internal/extract"
	pimage "github.com/jmylchreest/pigment/internal/image"
	"github.com/jmylchreest/pigment/internal/preset"
	"github.com/jmylchreest/pigment/internal/preview"
	"github.com/jmylchreest/pigment/internal/seed"
	httputil "github.com/jmylchreest/pigment/internal/util/http"
)

// Output formats accepted by --format.
const (
	formatHex  = "hex"
	formatRGB  = "rgb"
	formatLab  = "lab"
	formatJSON = "json"
)

const swatchWidth = 8

// extractOptions holds the extract command flags.
type extractOptions struct {
	colours      int
	preset       string
	algorithm    string
	format       string
	output       string
	swatches     bool
	previewDir   string
	keepPreview  bool
	seedMode     string
	seedValue    int64
	fetchTimeout time.Duration

	// overrides receives the tuning flags; only flags the user set are
	// copied onto the preset configuration.
	overrides extract.Config
}

// sourceReport is the extraction outcome for one source.
type sourceReport struct {
	Source  string             `json:"source"`
	Preset  string             `json:"preset"`
	Seed    int64              `json:"seed"`
	Palette colour.PaletteJSON `json:"palette"`

	palette *colour.Palette
}

func newExtractCmd() *cobra.Command {
	opts := &extractOptions{overrides: extract.DefaultConfig()}

	cmd := &cobra.Command{
		Use:   "extract <image|url|dir>...",
		Short: "Extract a colour palette from one or more images",
		Long: `Extract a colour palette from one or more images.

Each argument may be an image file, an http(s) URL, or a directory whose
images are processed in name order. Colours are printed in cluster order.

Supported image formats: JPEG, PNG, GIF, WebP, BMP, TIFF

Examples:
  # Extract 9 colours (default) with an automatically chosen preset
  pigment extract photo.jpg

  # Extract 6 colours with terminal swatches
  pigment extract --swatches -c 6 photo.png

  # Favour dark blues and print JSON
  pigment extract --preset darkNavies -f json night.jpg

  # Reproducible output across renames is the default; pin an explicit seed instead
  pigment extract --seed 42 photo.jpg

  # Override single tuning values on top of a preset
  pigment extract --preset general --ensure-blue --blue-hue-range 190,270 photo.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.colours, "colours", "c", 9, fmt.Sprintf("number of colours to extract (1-%d)", extract.MaxColours))
	f.StringVar(&opts.preset, "preset", preset.Auto, "tuning preset ("+strings.Join(preset.ValidNames(), ", ")+")")
	f.StringVarP(&opts.algorithm, "algorithm", "a", string(extract.AlgorithmLab), "extraction algorithm (lab, dominant, kmeans; kmeans ignores --seed)")
	f.StringVarP(&opts.format, "format", "f", formatHex, "output format (hex, rgb, lab, json)")
	f.StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	f.BoolVar(&opts.swatches, "swatches", false, "show colour swatches when writing to a terminal")
	f.StringVar(&opts.previewDir, "preview-dir", "", "directory for the working raster preview (default: user cache)")
	f.BoolVar(&opts.keepPreview, "keep-preview", false, "keep the last working raster preview and print its path")
	f.StringVar(&opts.seedMode, "seed-mode", string(seed.ModeContent), "seed mode (content, filepath, manual, random)")
	f.Int64Var(&opts.seedValue, "seed", 0, "seed value (implies --seed-mode manual)")
	f.DurationVar(&opts.fetchTimeout, "fetch-timeout", httputil.DefaultTimeout, "timeout for fetching URLs")

	o := &opts.overrides
	f.IntVar(&o.MaxWidth, "max-width", o.MaxWidth, "maximum working raster width")
	f.IntVar(&o.TargetSamples, "target-samples", o.TargetSamples, "approximate number of pixels to sample")
	f.IntVar(&o.MaxStride, "max-stride", o.MaxStride, "largest sampling stride")
	f.BoolVar(&o.IgnoreWhites, "ignore-whites", o.IgnoreWhites, "skip near-white pixels")
	f.BoolVar(&o.IgnoreBlacks, "ignore-blacks", o.IgnoreBlacks, "skip near-black pixels")
	f.Uint8Var(&o.WhiteThresh, "white-thresh", o.WhiteThresh, "channel level at or above which a pixel is white")
	f.Uint8Var(&o.BlackThresh, "black-thresh", o.BlackThresh, "channel level at or below which a pixel is black")
	f.Float64Var(&o.MinChroma, "min-chroma", o.MinChroma, "drop samples below this chroma (0 disables)")
	f.Float64Var(&o.ChromaticBoost, "chromatic-boost", o.ChromaticBoost, "scale applied to a and b while clustering")
	f.BoolVar(&o.EnsureBlue, "ensure-blue", o.EnsureBlue, "keep a blue centroid when blue is present")
	f.Var(&hueRangeValue{r: &o.BlueHueRange}, "blue-hue-range", "hue interval treated as blue, in degrees")
	f.IntVar(&o.BlueDupes, "blue-dupes", o.BlueDupes, "copies of each blue sample, original included")
	f.IntVar(&o.MaxBlueDupes, "max-blue-dupes", o.MaxBlueDupes, "cap on extra blue copies per image")
	f.Float64Var(&o.MinBlueFraction, "min-blue-fraction", o.MinBlueFraction, "blue share required before a centroid is replaced")

	return cmd
}

// hueRangeValue is a pflag.Value for "start,end" hue intervals.
type hueRangeValue struct {
	r *extract.HueRange
}

func (v *hueRangeValue) String() string {
	if v.r == nil {
		return ""
	}
	return v.r.String()
}

func (v *hueRangeValue) Set(s string) error {
	r, err := extract.ParseHueRange(s)
	if err != nil {
		return err
	}
	*v.r = r
	return nil
}

func (v *hueRangeValue) Type() string {
	return "range"
}

// applyOverrides copies the tuning flags the user set onto cfg.
func (o *extractOptions) applyOverrides(flags *pflag.FlagSet, cfg *extract.Config) {
	src := o.overrides
	overrides := []struct {
		flag  string
		apply func()
	}{
		{"max-width", func() { cfg.MaxWidth = src.MaxWidth }},
		{"target-samples", func() { cfg.TargetSamples = src.TargetSamples }},
		{"max-stride", func() { cfg.MaxStride = src.MaxStride }},
		{"ignore-whites", func() { cfg.IgnoreWhites = src.IgnoreWhites }},
		{"ignore-blacks", func() { cfg.IgnoreBlacks = src.IgnoreBlacks }},
		{"white-thresh", func() { cfg.WhiteThresh = src.WhiteThresh }},
		{"black-thresh", func() { cfg.BlackThresh = src.BlackThresh }},
		{"min-chroma", func() { cfg.MinChroma = src.MinChroma }},
		{"chromatic-boost", func() { cfg.ChromaticBoost = src.ChromaticBoost }},
		{"ensure-blue", func() { cfg.EnsureBlue = src.EnsureBlue }},
		{"blue-hue-range", func() { cfg.BlueHueRange = src.BlueHueRange }},
		{"blue-dupes", func() { cfg.BlueDupes = src.BlueDupes }},
		{"max-blue-dupes", func() { cfg.MaxBlueDupes = src.MaxBlueDupes }},
		{"min-blue-fraction", func() { cfg.MinBlueFraction = src.MinBlueFraction }},
	}
	for _, ov := range overrides {
		if flags.Changed(ov.flag) {
			ov.apply()
		}
	}
}

// seedConfig resolves the seed flags. --seed on its own selects manual mode.
func (o *extractOptions) seedConfig(flags *pflag.FlagSet) (seed.Config, error) {
	mode, err := seed.ParseMode(o.seedMode)
	if err != nil {
		return seed.Config{}, err
	}
	if flags.Changed("seed") && !flags.Changed("seed-mode") {
		mode = seed.ModeManual
	}
	if mode == seed.ModeManual && !flags.Changed("seed") {
		return seed.Config{}, fmt.Errorf("--seed is required with --seed-mode %s", seed.ModeManual)
	}
	return seed.Config{Mode: mode, Value: &o.seedValue}, nil
}

func (o *extractOptions) validate() error {
	if !preset.IsValid(o.preset) {
		return fmt.Errorf("invalid preset: %s (valid: %s)", o.preset, strings.Join(preset.ValidNames(), ", "))
	}
	if !extract.IsValidAlgorithm(extract.Algorithm(o.algorithm)) {
		return fmt.Errorf("invalid algorithm: %s (valid: %v)", o.algorithm, extract.ValidAlgorithms())
	}
	switch o.format {
	case formatHex, formatRGB, formatLab, formatJSON:
	default:
		return fmt.Errorf("unsupported format: %s (supported: hex, rgb, lab, json)", o.format)
	}
	if o.colours < 1 || o.colours > extract.MaxColours {
		return fmt.Errorf("colour count must be between 1 and %d, got %d", extract.MaxColours, o.colours)
	}
	return nil
}

// runExtract executes the extract command.
func runExtract(cmd *cobra.Command, args []string, opts *extractOptions) error {
	logger := newLogger(cmd)

	if err := opts.validate(); err != nil {
		return err
	}
	seedCfg, err := opts.seedConfig(cmd.Flags())
	if err != nil {
		return err
	}

	sources, err := pimage.ExpandSources(args)
	if err != nil {
		return fmt.Errorf("invalid image source: %w", err)
	}
	for _, src := range sources {
		if err := pimage.ValidateImagePath(src); err != nil {
			return fmt.Errorf("invalid image path: %w", err)
		}
	}

	loader := pimage.NewSmartLoader(httputil.FetchOptions{Timeout: opts.fetchTimeout})
	slot := preview.NewSlot(opts.previewDir, logger.Named("preview"))
	defer func() {
		if opts.keepPreview {
			if h := slot.Current(); h != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Preview: %s\n", h.Path())
			}
			return
		}
		if err := slot.Release(); err != nil {
			logger.Warn("failed to release preview", "error", err)
		}
	}()

	reports := make([]sourceReport, 0, len(sources))
	for _, src := range sources {
		report, err := extractSource(cmd.Context(), src, loader, slot, seedCfg, opts, cmd.Flags(), logger)
		if err != nil {
			return fmt.Errorf("%s: %w", src, err)
		}
		reports = append(reports, report)
	}

	output, err := formatReports(reports, opts.format, opts.swatches && opts.output == "" && isTerminal(cmd.OutOrStdout()))
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if opts.output != "" {
		logger.Debug("writing output", "path", opts.output)
		if err := os.WriteFile(opts.output, []byte(output), 0o644); err != nil { // #nosec G306 - palette output is not sensitive
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), output)
	return err
}

// extractSource loads, decodes and extracts one source.
func extractSource(ctx context.Context, src string, loader pimage.Loader, slot *preview.Slot,
	seedCfg seed.Config, opts *extractOptions, flags *pflag.FlagSet, logger hclog.Logger,
) (sourceReport, error) {
	logger = logger.With("source", src)
	logger.Debug("loading image")

	data, err := loader.Load(ctx, src)
	if err != nil {
		return sourceReport{}, fmt.Errorf("failed to load image: %w", err)
	}
	img, err := pimage.Decode(data)
	if err != nil {
		return sourceReport{}, fmt.Errorf("%w: %w", extract.ErrImageDecode, err)
	}

	name, cfg, err := preset.Resolve(opts.preset, img)
	if err != nil {
		return sourceReport{}, err
	}
	opts.applyOverrides(flags, &cfg)
	cfg.Algorithm = extract.Algorithm(opts.algorithm)
	if err := cfg.Validate(opts.colours); err != nil {
		return sourceReport{}, err
	}

	s, err := seed.Calculate(img, src, seedCfg)
	if err != nil {
		return sourceReport{}, fmt.Errorf("failed to calculate seed: %w", err)
	}
	bounds := img.Bounds()
	logger.Debug("image loaded", "width", bounds.Dx(), "height", bounds.Dy(), "preset", name, "seed", s)

	raster := extract.WorkingRaster(img, cfg.MaxWidth)
	if _, err := slot.Acquire(raster); err != nil {
		logger.Warn("failed to write preview", "error", err)
	}

	ex := extract.New(extract.WithLogger(logger.Named("extract")), extract.WithSeed(s))
	res, err := ex.ExtractRaster(ctx, raster, opts.colours, cfg)
	if err != nil {
		return sourceReport{}, err
	}
	if res.Empty() {
		logger.Warn("no colours survived sampling")
	} else {
		logger.Info("extracted palette", "colours", len(res.Hexes), "preset", name)
	}

	palette := res.Palette()
	return sourceReport{
		Source:  src,
		Preset:  name,
		Seed:    s,
		Palette: palette.JSON(),
		palette: palette,
	}, nil
}

// formatReports renders the reports in the requested format. Text formats
// print one colour per line, with a heading per source when there are several.
func formatReports(reports []sourceReport, format string, swatches bool) (string, error) {
	if format == formatJSON {
		var (
			data []byte
			err  error
		)
		if len(reports) == 1 {
			data, err = json.MarshalIndent(reports[0], "", "  ")
		} else {
			data, err = json.MarshalIndent(reports, "", "  ")
		}
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(data) + "\n", nil
	}

	var b strings.Builder
	for i, r := range reports {
		if len(reports) > 1 {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "# %s (%s)\n", r.Source, r.Preset)
		}
		for _, lab := range r.palette.All() {
			line, err := formatColour(lab, format)
			if err != nil {
				return "", err
			}
			if swatches {
				line = colour.ColourPreview(lab.RGB(), swatchWidth) + " " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

func formatColour(lab colour.Lab, format string) (string, error) {
	switch format {
	case formatHex:
		return lab.Hex(), nil
	case formatRGB:
		return lab.RGB().String(), nil
	case formatLab:
		return lab.String(), nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: hex, rgb, lab, json)", format)
	}
}

// isTerminal reports whether w is a terminal that accepts colour escapes.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && colour.SupportsANSIColours(f)
}

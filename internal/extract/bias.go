package extract

import (
	"github.com/jmylchreest/pigment/internal/colour"
)

// sampleSet is the clustering input. Samples are stored boosted; blueLabs
// keeps one unboosted entry per original blue sample, never per duplicate.
type sampleSet struct {
	samples   []colour.Lab
	blueLabs  []colour.Lab
	blueCount int
	boost     float64
}

// boosted scales the chromatic axes of l for clustering.
func boosted(l colour.Lab, boost float64) colour.Lab {
	return colour.Lab{L: l.L, A: l.A * boost, B: l.B * boost}
}

// unboosted undoes boosted.
func unboosted(l colour.Lab, boost float64) colour.Lab {
	return colour.Lab{L: l.L, A: l.A / boost, B: l.B / boost}
}

// buildSampleSet converts surviving pixels to Lab and reweights them: the
// chroma floor drops near-greys, a and b are boosted, and blue-hue samples
// are duplicated up to the global cap.
func buildSampleSet(pixels []colour.RGB, cfg Config, stats *Stats) *sampleSet {
	set := &sampleSet{
		samples: make([]colour.Lab, 0, len(pixels)),
		boost:   cfg.ChromaticBoost,
	}
	extraAdded := 0

	for _, px := range pixels {
		lab, ok := colour.RGBToLab(px)
		if !ok {
			stats.Dropped++
			continue
		}

		lch := lab.LCH()
		if cfg.MinChroma > 0 && lch.C < cfg.MinChroma {
			stats.BelowChroma++
			continue
		}

		b := boosted(lab, cfg.ChromaticBoost)
		set.samples = append(set.samples, b)

		if !cfg.EnsureBlue || !lch.HasHue() || !colour.HueInRange(lch.H, cfg.BlueHueRange.Start, cfg.BlueHueRange.End) {
			continue
		}

		set.blueLabs = append(set.blueLabs, lab)
		set.blueCount++
		if cfg.BlueDupes > 1 && extraAdded < cfg.MaxBlueDupes {
			copies := min(cfg.BlueDupes-1, cfg.MaxBlueDupes-extraAdded)
			for range copies {
				set.samples = append(set.samples, b)
			}
			extraAdded += copies
		}
	}

	stats.Samples = len(set.samples)
	stats.BlueSamples = set.blueCount
	stats.BlueDuplicates = extraAdded
	return set
}

// blueMean returns the true-Lab mean of the blue samples.
func (s *sampleSet) blueMean() colour.Lab {
	return meanLab(s.blueLabs)
}

// hasEnoughBlue reports whether blue samples make up at least minFraction
// of the working sample set. The denominator includes the blue duplicates.
func (s *sampleSet) hasEnoughBlue(minFraction float64) bool {
	if len(s.samples) == 0 {
		return false
	}
	return float64(s.blueCount)/float64(len(s.samples)) >= minFraction
}

func meanLab(labs []colour.Lab) colour.Lab {
	if len(labs) == 0 {
		return colour.Lab{}
	}
	var sum colour.Lab
	for _, l := range labs {
		sum.L += l.L
		sum.A += l.A
		sum.B += l.B
	}
	n := float64(len(labs))
	return colour.Lab{L: sum.L / n, A: sum.A / n, B: sum.B / n}
}

package extract

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/jmylchreest/pigment/internal/colour"
)

const (
	// maxIterations caps Lloyd iterations.
	maxIterations = 100

	// blueChromaFloor is the chroma a centroid needs before its hue counts as blue.
	blueChromaFloor = 2.0
)

// cluster partitions the boosted samples into k clusters and returns the
// centroids in true Lab space, after the blue-floor guarantee.
func cluster(set *sampleSet, k int, cfg Config, rng *rand.Rand, stats *Stats) []colour.Lab {
	var centroids []colour.Lab
	if cfg.EnsureBlue && len(set.blueLabs) > 0 {
		centroids = seedWithBlue(set, k, rng)
		stats.BlueSeeded = true
	} else {
		centroids = kmeansPlusPlus(set.samples, k, rng)
	}

	stats.Iterations = lloyd(set.samples, centroids)

	for i, c := range centroids {
		centroids[i] = unboosted(c, set.boost)
	}

	if cfg.EnsureBlue && applyBlueFloor(centroids, set, cfg) {
		stats.BlueFloorApplied = true
	}
	return centroids
}

// seedWithBlue builds the initial centroids with the boosted blue mean first and
// the remaining k-1 drawn uniformly from distinct sample indices. When there are
// fewer samples than needed the rest are drawn with replacement.
func seedWithBlue(set *sampleSet, k int, rng *rand.Rand) []colour.Lab {
	points := set.samples
	centroids := make([]colour.Lab, 0, k)
	centroids = append(centroids, boosted(set.blueMean(), set.boost))

	rest := k - 1
	if distinct := min(rest, len(points)); distinct > 0 {
		idx := make([]int, distinct)
		sampleuv.WithoutReplacement(idx, len(points), rng)
		for _, i := range idx {
			centroids = append(centroids, points[i])
		}
	}
	for len(centroids) < k {
		centroids = append(centroids, points[rng.IntN(len(points))])
	}
	return centroids
}

// kmeansPlusPlus picks the first centroid uniformly and each next one with
// probability proportional to its squared distance from the nearest chosen
// centroid. When every sample coincides with a chosen centroid a uniform
// sample is duplicated.
func kmeansPlusPlus(points []colour.Lab, k int, rng *rand.Rand) []colour.Lab {
	centroids := make([]colour.Lab, 0, k)
	centroids = append(centroids, points[rng.IntN(len(points))])

	nearest := make([]float64, len(points))
	for i, p := range points {
		nearest[i] = sqDist(p, centroids[0])
	}

	for len(centroids) < k {
		total := 0.0
		for _, d := range nearest {
			total += d
		}

		next := -1
		if total > 0 {
			if idx, ok := sampleuv.NewWeighted(nearest, rng).Take(); ok {
				next = idx
			}
		}
		if next < 0 {
			next = rng.IntN(len(points))
		}

		chosen := points[next]
		centroids = append(centroids, chosen)
		for i, p := range points {
			if d := sqDist(p, chosen); d < nearest[i] {
				nearest[i] = d
			}
		}
	}
	return centroids
}

// lloyd refines centroids in place until no assignment changes or the
// iteration cap is reached, and returns the number of iterations run.
func lloyd(points []colour.Lab, centroids []colour.Lab) int {
	k := len(centroids)
	assignments := make([]int, len(points))
	for i := range assignments {
		assignments[i] = -1
	}
	sums := make([]colour.Lab, k)
	counts := make([]int, k)

	iter := 0
	for iter < maxIterations {
		iter++

		changed := 0
		for i, p := range points {
			if near := nearestCentroid(p, centroids); assignments[i] != near {
				assignments[i] = near
				changed++
			}
		}
		if changed == 0 {
			break
		}

		clear(sums)
		clear(counts)
		for i, p := range points {
			c := assignments[i]
			sums[c].L += p.L
			sums[c].A += p.A
			sums[c].B += p.B
			counts[c]++
		}

		var empty []int
		for c := range k {
			if counts[c] == 0 {
				empty = append(empty, c)
				continue
			}
			n := float64(counts[c])
			centroids[c] = colour.Lab{L: sums[c].L / n, A: sums[c].A / n, B: sums[c].B / n}
		}
		if len(empty) > 0 {
			reseedEmpty(points, assignments, centroids, empty)
		}
	}
	return iter
}

// reseedEmpty moves each empty centroid onto the sample farthest from its own
// centroid. A sample is used at most once per pass unless every sample has
// already been used.
func reseedEmpty(points []colour.Lab, assignments []int, centroids []colour.Lab, empty []int) {
	taken := make(map[int]bool, len(empty))
	for _, c := range empty {
		best, bestDist := -1, -1.0
		for i, p := range points {
			if taken[i] {
				continue
			}
			if d := sqDist(p, centroids[assignments[i]]); d > bestDist {
				best, bestDist = i, d
			}
		}
		if best < 0 {
			best = 0
		}
		taken[best] = true
		centroids[c] = points[best]
	}
}

// applyBlueFloor overwrites the lowest-chroma centroid with the blue mean when
// blue was present in the samples but no centroid carries a blue hue.
// Reports whether a centroid was replaced.
func applyBlueFloor(centroids []colour.Lab, set *sampleSet, cfg Config) bool {
	if len(set.blueLabs) == 0 || !set.hasEnoughBlue(cfg.MinBlueFraction) {
		return false
	}
	for _, c := range centroids {
		lch := c.LCH()
		if lch.C > blueChromaFloor && colour.HueInRange(lch.H, cfg.BlueHueRange.Start, cfg.BlueHueRange.End) {
			return false
		}
	}

	idx, minC := 0, math.Inf(1)
	for i, c := range centroids {
		if cc := c.Chroma(); cc < minC {
			idx, minC = i, cc
		}
	}
	centroids[idx] = set.blueMean()
	return true
}

func nearestCentroid(p colour.Lab, centroids []colour.Lab) int {
	nearest, minDist := 0, math.Inf(1)
	for i, c := range centroids {
		if d := sqDist(p, c); d < minDist {
			nearest, minDist = i, d
		}
	}
	return nearest
}

func sqDist(p, q colour.Lab) float64 {
	dl := p.L - q.L
	da := p.A - q.A
	db := p.B - q.B
	return dl*dl + da*da + db*db
}

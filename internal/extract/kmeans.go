package extract

import (
	"fmt"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/jmylchreest/pigment/internal/colour"
)

// partition runs plain k-means over Lab samples. Initial centres come from
// the library's own random source, so results are not reproducible by seed.
// k is capped at the number of samples.
func partition(samples []colour.Lab, k int) ([]colour.Lab, error) {
	dataset := make(clusters.Observations, len(samples))
	for i, s := range samples {
		dataset[i] = clusters.Coordinates{s.L, s.A, s.B}
	}

	cc, err := kmeans.New().Partition(dataset, min(k, len(dataset)))
	if err != nil {
		return nil, fmt.Errorf("k-means partition failed: %w", err)
	}

	centroids := make([]colour.Lab, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 {
			continue
		}
		centroids = append(centroids, colour.Lab{L: c.Center[0], A: c.Center[1], B: c.Center[2]})
	}
	return centroids, nil
}

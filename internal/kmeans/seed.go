package kmeans

import (
	"math/rand"
	"slices"

	"github.com/yyyoichi/elbow/internal/distance"
)

// Weighting selects the sampling weight of a candidate row during seeding.
type Weighting int

const (
	// Linear weights rows by their distance to the nearest chosen centroid.
	Linear Weighting = iota
	// Squared weights rows by the squared distance, as in textbook k-means++.
	Squared
)

func (w Weighting) String() string {
	switch w {
	case Linear:
		return "linear"
	case Squared:
		return "squared"
	}
	return "unknown"
}

// Seed chooses k distinct rows of t as initial centroids.
//
// The first row is drawn uniformly. Each further row is drawn with probability
// proportional to its weighted distance to the nearest centroid chosen so far.
// When every unchosen row coincides with a chosen centroid the draw falls back
// to a uniform choice among the unchosen rows.
func Seed(t Table, k int, weighting Weighting, rd *rand.Rand) ([][]float64, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := validateK(t, k); err != nil {
		return nil, err
	}

	var (
		n         = len(t)
		chosen    = make([]bool, n)
		nearest   = make([]float64, n)
		centroids = make([][]float64, 0, k)
	)
	pick := func(i int) {
		chosen[i] = true
		centroids = append(centroids, slices.Clone(t[i]))
	}
	pick(rd.Intn(n))
	for i := range nearest {
		nearest[i] = distance.MustEuclidean(t[i], centroids[0])
	}

	for len(centroids) < k {
		var (
			weights = make([]float64, n)
			total   float64
		)
		for i, d := range nearest {
			if chosen[i] {
				continue
			}
			if weighting == Squared {
				d *= d
			}
			weights[i] = d
			total += d
		}

		var next int
		if total == 0 {
			next = uniformUnchosen(chosen, len(centroids), rd)
		} else {
			next = sample(weights, total, rd.Float64())
		}
		pick(next)

		last := centroids[len(centroids)-1]
		for i := range nearest {
			nearest[i] = min(nearest[i], distance.MustEuclidean(t[i], last))
		}
	}
	return centroids, nil
}

// sample returns the first index with positive weight whose cumulative
// probability reaches r. Rounding can leave the final cumulative value just
// under r, in which case the last positive-weight index is returned.
func sample(weights []float64, total, r float64) int {
	var (
		cumulative float64
		last       = -1
	)
	for i, w := range weights {
		if w == 0 {
			continue
		}
		cumulative += w / total
		last = i
		if cumulative >= r {
			return i
		}
	}
	return last
}

func uniformUnchosen(chosen []bool, count int, rd *rand.Rand) int {
	nth := rd.Intn(len(chosen) - count)
	for i, c := range chosen {
		if c {
			continue
		}
		if nth == 0 {
			return i
		}
		nth--
	}
	panic("kmeans: no unchosen row left")
}

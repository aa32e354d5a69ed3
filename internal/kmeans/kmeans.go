package kmeans

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"sync"

	"github.com/yyyoichi/elbow/internal/distance"
	"gonum.org/v1/gonum/floats"
)

// EmptyPolicy decides the centroid of a cluster that received no samples.
type EmptyPolicy int

const (
	// KeepCentroid leaves the centroid where it was in the previous iteration.
	// Such a centroid can stay unused for the rest of the run.
	KeepCentroid EmptyPolicy = iota
	// Reseed moves the centroid onto a uniformly drawn sample.
	Reseed
)

func (p EmptyPolicy) String() string {
	switch p {
	case KeepCentroid:
		return "keep"
	case Reseed:
		return "reseed"
	}
	return "unknown"
}

type Config struct {
	MaxIterations int
	Weighting     Weighting
	Empty         EmptyPolicy
	// Tolerance of the fixed-point test. Zero requires exact equality.
	Tolerance float64
	// Workers splits the assignment step into contiguous chunks. Values below 2 run sequentially.
	Workers int
}

type Result struct {
	Centroids   [][]float64
	Assignments []int
	Iterations  int
	Converged   bool
}

// Run seeds k centroids from t and refines them.
func Run(ctx context.Context, t Table, k int, cfg Config, rd *rand.Rand) (*Result, error) {
	initial, err := Seed(t, k, cfg.Weighting, rd)
	if err != nil {
		return nil, err
	}
	return Refine(ctx, t, initial, cfg, rd)
}

// Refine runs Lloyd's algorithm from the given centroids. Each iteration
// assigns every sample to its nearest centroid and moves every centroid to the
// mean of its samples. It stops once an iteration leaves the centroids
// unchanged or after cfg.MaxIterations iterations.
//
// Assignments refer to the centroids before the last update; at a fixed point
// the two coincide. The Reseed policy draws from rd, which must not be nil.
func Refine(ctx context.Context, t Table, initial [][]float64, cfg Config, rd *rand.Rand) (*Result, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := validateK(t, len(initial)); err != nil {
		return nil, err
	}
	dim := t.Features()
	for i, c := range initial {
		if len(c) != dim {
			return nil, fmt.Errorf("%w: centroid %d has %d features, want %d", distance.ErrDimensionMismatch, i, len(c), dim)
		}
	}
	if cfg.MaxIterations < 1 {
		return nil, fmt.Errorf("kmeans: max iterations %d < 1", cfg.MaxIterations)
	}
	if cfg.Empty == Reseed && rd == nil {
		return nil, fmt.Errorf("kmeans: %s policy needs a random source", cfg.Empty)
	}

	var (
		centroids   = cloneCentroids(initial)
		assignments = make([]int, len(t))
		stores      = make([]AverageStore, len(centroids))
		result      = &Result{}
	)
	for i := range stores {
		stores[i] = NewAverageStore(dim)
	}

	for iter := range cfg.MaxIterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		Assign(t, centroids, assignments, cfg.Workers)
		next := update(t, centroids, assignments, stores, cfg.Empty, rd)
		result.Iterations = iter + 1
		if equalCentroids(centroids, next, cfg.Tolerance) {
			centroids = next
			result.Converged = true
			break
		}
		centroids = next
	}

	result.Centroids = centroids
	result.Assignments = assignments
	return result, nil
}

// Assign writes the index of the nearest centroid of every sample into
// assignments. Exact ties go to the lowest centroid index.
func Assign(t Table, centroids [][]float64, assignments []int, workers int) {
	nearest := func(from, to int) {
		for i := from; i < to; i++ {
			best, minDist := 0, math.Inf(1)
			for c, centroid := range centroids {
				if d := distance.MustEuclidean(t[i], centroid); d < minDist {
					best, minDist = c, d
				}
			}
			assignments[i] = best
		}
	}
	if workers < 2 || len(t) < workers {
		nearest(0, len(t))
		return
	}

	chunk := (len(t) + workers - 1) / workers
	var wg sync.WaitGroup
	for from := 0; from < len(t); from += chunk {
		wg.Add(1)
		go func(from, to int) {
			defer wg.Done()
			nearest(from, to)
		}(from, min(from+chunk, len(t)))
	}
	wg.Wait()
}

func update(t Table, centroids [][]float64, assignments []int, stores []AverageStore, empty EmptyPolicy, rd *rand.Rand) [][]float64 {
	for i := range stores {
		stores[i].Reset()
	}
	for i, c := range assignments {
		stores[c].Add(t[i])
	}
	next := make([][]float64, len(centroids))
	for c := range stores {
		if avr := stores[c].Average(); avr != nil {
			next[c] = avr
			continue
		}
		if empty == Reseed {
			next[c] = slices.Clone(t[rd.Intn(len(t))])
			continue
		}
		next[c] = slices.Clone(centroids[c])
	}
	return next
}

func equalCentroids(a, b [][]float64, tol float64) bool {
	for i := range a {
		if !floats.EqualApprox(a[i], b[i], tol) {
			return false
		}
	}
	return true
}

func cloneCentroids(src [][]float64) [][]float64 {
	dst := make([][]float64, len(src))
	for i, c := range src {
		dst[i] = slices.Clone(c)
	}
	return dst
}

// WCSS returns the sum over samples of the squared distance to the assigned centroid.
func WCSS(t Table, centroids [][]float64, assignments []int) float64 {
	var sum float64
	for i, c := range assignments {
		d := distance.MustEuclidean(t[i], centroids[c])
		sum += d * d
	}
	return sum
}

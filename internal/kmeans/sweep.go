package kmeans

import (
	"context"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// Point is the total WCSS of one clustering run with K clusters.
type Point struct {
	K    int
	WCSS float64
}

// SweepConfig configures an elbow sweep.
type SweepConfig struct {
	Config
	// Seed of the run with k clusters is Seed + k.
	Seed int64
	// Parallel is the number of k values clustered at once.
	Parallel int
	// Observe, if set, is called once per finished run. It may be called concurrently.
	Observe func(k int, r *Result, wcss float64)
}

// Sweep clusters t independently for every k in [1, maxK] and returns the
// curve ordered by k. Each run draws from its own random source, so the curve
// does not depend on cfg.Parallel.
//
// The curve decreases in expectation but random seeding and the iteration
// limit can make single steps go up.
func Sweep(ctx context.Context, t Table, maxK int, cfg SweepConfig) ([]Point, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := validateK(t, maxK); err != nil {
		return nil, err
	}

	curve := make([]Point, maxK)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Parallel, 1))
	for i := range curve {
		k := i + 1
		g.Go(func() error {
			rd := rand.New(rand.NewSource(cfg.Seed + int64(k)))
			r, err := Run(ctx, t, k, cfg.Config, rd)
			if err != nil {
				return err
			}
			wcss := WCSS(t, r.Centroids, r.Assignments)
			curve[i] = Point{K: k, WCSS: wcss}
			if cfg.Observe != nil {
				cfg.Observe(k, r, wcss)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return curve, nil
}

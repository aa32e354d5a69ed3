package elbow

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/yyyoichi/elbow/internal/distance"
	"github.com/yyyoichi/elbow/internal/kmeans"
	"github.com/yyyoichi/elbow/internal/standardize"
)

var (
	ErrDimensionMismatch   = distance.ErrDimensionMismatch
	ErrDegenerateFeature   = standardize.ErrDegenerateFeature
	ErrInvalidClusterCount = kmeans.ErrInvalidClusterCount
	ErrEmptyDataset        = kmeans.ErrEmptyDataset
	ErrColumnIndex         = kmeans.ErrColumnIndex
)

type (
	// Table is a rectangular set of samples, one row per sample.
	Table = kmeans.Table
	// Point is the WCSS of the clustering with K clusters.
	Point = kmeans.Point

	// Seeding selects the weight used to draw initial centroids.
	Seeding = kmeans.Weighting
	// EmptyCluster selects what happens to a centroid whose cluster is empty.
	EmptyCluster = kmeans.EmptyPolicy
	// Policy selects how standardization treats a constant feature.
	Policy = standardize.Policy
)

const (
	LinearSeeding  = kmeans.Linear
	SquaredSeeding = kmeans.Squared

	KeepCentroid   = kmeans.KeepCentroid
	ReseedCentroid = kmeans.Reseed

	ZeroFill         = standardize.ZeroFill
	FailOnDegenerate = standardize.Fail
)

// Cluster partitions t into k clusters with the specified options.
// This is a convenience function that creates a Clusterer instance and calls its Cluster method.
func Cluster(ctx context.Context, t Table, k int, opts ...Option) (*Result, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return c.Cluster(ctx, t, k)
}

// Sweep computes the elbow curve of t for k = 1..maxK with the specified options.
// This is a convenience function that creates a Clusterer instance and calls its Sweep method.
func Sweep(ctx context.Context, t Table, maxK int, opts ...Option) (Curve, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return c.Sweep(ctx, t, maxK)
}

// Standardize returns a copy of t whose features have mean 0 and population
// standard deviation 1. A constant feature is rewritten to zeros under
// ZeroFill and rejected with ErrDegenerateFeature under FailOnDegenerate.
func Standardize(t Table, policy Policy) (Table, error) {
	return standardize.Standardize(t, policy)
}

// StandardizeInPlace is Standardize rewriting t itself.
// The caller must not share t with other goroutines during the call.
func StandardizeInPlace(t Table, policy Policy) error {
	return standardize.InPlace(t, policy)
}

// Select projects t onto the given feature columns, in the given order.
func Select(t Table, columns []int) (Table, error) {
	return t.Project(columns)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b []float64) (float64, error) {
	return distance.Euclidean(a, b)
}

// Result is one clustering run.
type Result struct {
	// Centroids[i] is the center of cluster i.
	Centroids [][]float64
	// Assignments[i] is the cluster of sample i.
	Assignments []int
	Iterations  int
	// Converged reports that the run stopped at a fixed point rather than at the iteration limit.
	Converged bool
	WCSS      float64
}

// Sizes returns the number of samples in every cluster.
func (r *Result) Sizes() []int {
	sizes := make([]int, len(r.Centroids))
	for _, c := range r.Assignments {
		sizes[c]++
	}
	return sizes
}

// Curve is an elbow curve ordered by increasing k.
type Curve []Point

func (c Curve) Ks() []int {
	ks := make([]int, len(c))
	for i, p := range c {
		ks[i] = p.K
	}
	return ks
}

func (c Curve) WCSS() []float64 {
	v := make([]float64, len(c))
	for i, p := range c {
		v[i] = p.WCSS
	}
	return v
}

type Clusterer struct {
	maxIterations int
	seed          int64
	seeded        bool
	seeding       Seeding
	empty         EmptyCluster
	tolerance     float64
	workers       int
	logger        *slog.Logger
}

// New initializes a clusterer.
// For default values, refer to the init function.
func New(opts ...Option) (*Clusterer, error) {
	c := new(Clusterer)
	if err := c.init(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// Seed returns the base seed. The run with k clusters draws from a source
// seeded with Seed()+k, in Cluster as well as in Sweep.
func (c *Clusterer) Seed() int64 { return c.seed }

// Cluster seeds k centroids from the rows of t and refines them with Lloyd's algorithm.
//
// Returns ErrEmptyDataset or ErrDimensionMismatch for a malformed table and
// ErrInvalidClusterCount unless 1 <= k <= len(t).
func (c *Clusterer) Cluster(ctx context.Context, t Table, k int) (*Result, error) {
	rd := rand.New(rand.NewSource(c.seed + int64(k)))
	r, err := kmeans.Run(ctx, t, k, c.config(c.workers), rd)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Centroids:   r.Centroids,
		Assignments: r.Assignments,
		Iterations:  r.Iterations,
		Converged:   r.Converged,
		WCSS:        kmeans.WCSS(t, r.Centroids, r.Assignments),
	}
	c.logger.DebugContext(ctx, "clustered", "k", k, "iterations", res.Iterations, "converged", res.Converged, "wcss", res.WCSS)
	return res, nil
}

// Sweep clusters t independently for every k from 1 to maxK and returns the
// total WCSS of each run, ordered by k.
//
// The curve is non-increasing only in expectation. Random seeding and the
// iteration limit can make a larger k report a larger WCSS.
func (c *Clusterer) Sweep(ctx context.Context, t Table, maxK int) (Curve, error) {
	cfg := kmeans.SweepConfig{
		Config:   c.config(1),
		Seed:     c.seed,
		Parallel: c.workers,
		Observe: func(k int, r *kmeans.Result, wcss float64) {
			c.logger.DebugContext(ctx, "clustered", "k", k, "iterations", r.Iterations, "converged", r.Converged, "wcss", wcss)
		},
	}
	curve, err := kmeans.Sweep(ctx, t, maxK, cfg)
	if err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "sweep finished", "max_k", maxK, "samples", len(t), "seed", c.seed)
	return Curve(curve), nil
}

func (c *Clusterer) config(workers int) kmeans.Config {
	return kmeans.Config{
		MaxIterations: c.maxIterations,
		Weighting:     c.seeding,
		Empty:         c.empty,
		Tolerance:     c.tolerance,
		Workers:       workers,
	}
}

func (c *Clusterer) init(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	if c.maxIterations == 0 {
		c.maxIterations = 100
	}
	if !c.seeded {
		c.seed = time.Now().UnixNano()
	}
	if c.workers == 0 {
		c.workers = 1
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return nil
}

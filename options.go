package elbow

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	ErrInvalidIterations = errors.New("max iterations must be positive")
	ErrInvalidTolerance  = errors.New("tolerance must not be negative")
	ErrInvalidWorkers    = errors.New("workers must be positive")
)

type Option func(*Clusterer) error

// WithMaxIterations bounds the assign/update iterations of one run. Default is 100.
func WithMaxIterations(n int) Option {
	return func(c *Clusterer) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidIterations, n)
		}
		c.maxIterations = n
		return nil
	}
}

// WithSeed fixes the random source of centroid seeding.
// Without it, a seed is derived from the current time.
func WithSeed(seed int64) Option {
	return func(c *Clusterer) error {
		c.seed = seed
		c.seeded = true
		return nil
	}
}

// WithSeeding selects how candidate rows are weighted while drawing initial centroids.
// The default LinearSeeding weights by distance to the nearest chosen centroid.
// SquaredSeeding weights by squared distance, as in textbook k-means++.
func WithSeeding(s Seeding) Option {
	return func(c *Clusterer) error {
		c.seeding = s
		return nil
	}
}

// WithEmptyCluster selects the update of a centroid whose cluster received no samples.
// The default KeepCentroid leaves it in place, which can strand it for the rest of the run.
// ReseedCentroid moves it onto a random sample.
func WithEmptyCluster(p EmptyCluster) Option {
	return func(c *Clusterer) error {
		c.empty = p
		return nil
	}
}

// WithTolerance stops a run once no centroid component moves by more than tol,
// absolutely or relatively. Default is 0, which requires an exact fixed point.
func WithTolerance(tol float64) Option {
	return func(c *Clusterer) error {
		if tol < 0 {
			return fmt.Errorf("%w: %g", ErrInvalidTolerance, tol)
		}
		c.tolerance = tol
		return nil
	}
}

// WithWorkers sets the number of goroutines. Sweep clusters up to n values of k
// at once and Cluster splits the assignment step into n chunks.
// Results do not depend on n. Default is 1.
func WithWorkers(n int) Option {
	return func(c *Clusterer) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidWorkers, n)
		}
		c.workers = n
		return nil
	}
}

// WithLogger sets the logger for run summaries. Logging is discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Clusterer) error {
		c.logger = l
		return nil
	}
}

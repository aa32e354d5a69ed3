// Package standardize rescales every feature of a table to zero mean and unit
// population standard deviation.
package standardize

import (
	"errors"
	"fmt"

	"github.com/yyyoichi/elbow/internal/kmeans"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrDegenerateFeature = errors.New("feature has zero variance")
)

// Policy selects what happens to a constant column.
type Policy int

const (
	// ZeroFill rewrites a constant column to all zeros.
	ZeroFill Policy = iota
	// Fail returns ErrDegenerateFeature and leaves the table untouched.
	Fail
)

type column struct {
	mean, std  float64
	degenerate bool
}

// InPlace z-scores every column of t. The divisor of the variance is the
// sample count. The caller keeps exclusive access to t during the call.
//
// Statistics for all columns are computed before any value is rewritten, so a
// Fail policy error never leaves t partially transformed.
func InPlace(t kmeans.Table, policy Policy) error {
	if err := t.Validate(); err != nil {
		return err
	}
	var (
		dim   = t.Features()
		cols  = make([]column, dim)
		value = make([]float64, len(t))
	)
	for j := range dim {
		first, constant := t[0][j], true
		for i, row := range t {
			value[i] = row[j]
			if row[j] != first {
				constant = false
			}
		}
		mean, std := stat.PopMeanStdDev(value, nil)
		cols[j] = column{mean: mean, std: std, degenerate: constant || std == 0}
		if cols[j].degenerate && policy == Fail {
			return fmt.Errorf("%w: column %d", ErrDegenerateFeature, j)
		}
	}

	for _, row := range t {
		for j, c := range cols {
			if c.degenerate {
				row[j] = 0
				continue
			}
			row[j] = (row[j] - c.mean) / c.std
		}
	}
	return nil
}

// Standardize returns a standardized copy of t.
func Standardize(t kmeans.Table, policy Policy) (kmeans.Table, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	cp := t.Clone()
	if err := InPlace(cp, policy); err != nil {
		return nil, err
	}
	return cp, nil
}

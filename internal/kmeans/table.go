package kmeans

import (
	"errors"
	"fmt"
	"slices"

	"github.com/yyyoichi/elbow/internal/distance"
)

var (
	ErrEmptyDataset        = errors.New("table has no samples")
	ErrInvalidClusterCount = errors.New("invalid cluster count")
	ErrColumnIndex         = errors.New("column index out of range")
)

// Table holds samples as rows of features.
type Table [][]float64

// Validate reports ErrEmptyDataset for a table without samples or features and
// ErrDimensionMismatch if a row differs in length from the first one.
func (t Table) Validate() error {
	if len(t) == 0 || len(t[0]) == 0 {
		return ErrEmptyDataset
	}
	dim := len(t[0])
	for i, row := range t {
		if len(row) != dim {
			return fmt.Errorf("%w: row %d has %d features, want %d", distance.ErrDimensionMismatch, i, len(row), dim)
		}
	}
	return nil
}

// Features returns the feature count of the first sample.
func (t Table) Features() int {
	if len(t) == 0 {
		return 0
	}
	return len(t[0])
}

// Clone returns a deep copy.
func (t Table) Clone() Table {
	cp := make(Table, len(t))
	for i, row := range t {
		cp[i] = slices.Clone(row)
	}
	return cp
}

// Project returns a new table whose rows hold the given columns in the given order.
func (t Table) Project(columns []int) (Table, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no columns selected", ErrColumnIndex)
	}
	dim := t.Features()
	for _, c := range columns {
		if c < 0 || c >= dim {
			return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrColumnIndex, c, dim)
		}
	}
	out := make(Table, len(t))
	for i, row := range t {
		p := make([]float64, len(columns))
		for j, c := range columns {
			p[j] = row[c]
		}
		out[i] = p
	}
	return out, nil
}

func validateK(t Table, k int) error {
	if k < 1 || k > len(t) {
		return fmt.Errorf("%w: k=%d with %d samples", ErrInvalidClusterCount, k, len(t))
	}
	return nil
}

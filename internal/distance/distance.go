// Package distance provides the Euclidean metric used by the clustering engine.
package distance

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrDimensionMismatch = errors.New("vectors have different feature counts")
)

// Euclidean returns sqrt(sum((a_i - b_i)^2)).
// It fails with ErrDimensionMismatch if the lengths differ.
func Euclidean(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}
	return floats.Distance(a, b, 2), nil
}

// SquaredEuclidean returns the square of Euclidean.
func SquaredEuclidean(a, b []float64) (float64, error) {
	d, err := Euclidean(a, b)
	if err != nil {
		return 0, err
	}
	return d * d, nil
}

// MustEuclidean is Euclidean for callers that validated the shapes beforehand.
// It panics on a length mismatch.
func MustEuclidean(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

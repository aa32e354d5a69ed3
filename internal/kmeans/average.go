package kmeans

import (
	"slices"

	"gonum.org/v1/gonum/floats"
)

// AverageStore accumulates samples of one cluster for the component-wise mean.
type AverageStore struct {
	sum   []float64
	count int
}

func NewAverageStore(dim int) AverageStore {
	return AverageStore{sum: make([]float64, dim)}
}

func (s *AverageStore) Add(sample []float64) {
	floats.Add(s.sum, sample)
	s.count += 1
}

// Average returns a new vector holding the mean. It returns nil for an empty store.
func (s *AverageStore) Average() []float64 {
	if s.count == 0 {
		return nil
	}
	avr := slices.Clone(s.sum)
	floats.Scale(1/float64(s.count), avr)
	return avr
}

func (s *AverageStore) Count() int { return s.count }

func (s *AverageStore) Sum() []float64 { return s.sum }

func (s *AverageStore) Reset() {
	clear(s.sum)
	s.count = 0
}

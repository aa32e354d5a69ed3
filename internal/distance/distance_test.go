package distance

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEuclidean(t *testing.T) {
	test := []struct {
		name string
		a, b []float64
		exp  float64
	}{
		{name: "3-4-5", a: []float64{1, 2, 3}, b: []float64{4, 6, 3}, exp: 5},
		{name: "same", a: []float64{1.5, -2, 7}, b: []float64{1.5, -2, 7}, exp: 0},
		{name: "empty", a: []float64{}, b: []float64{}, exp: 0},
		{name: "one dim", a: []float64{-1}, b: []float64{2}, exp: 3},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Euclidean(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.exp, d)
		})
	}
}

func TestEuclidean_DimensionMismatch(t *testing.T) {
	_, err := Euclidean([]float64{1, 2}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = SquaredEuclidean([]float64{1}, nil)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestSquaredEuclidean(t *testing.T) {
	d, err := SquaredEuclidean([]float64{1, 2, 3}, []float64{4, 6, 3})
	require.NoError(t, err)
	assert.Equal(t, 25.0, d)
}

func TestEuclidean_Properties(t *testing.T) {
	rd := rand.New(rand.NewSource(42))
	vec := func(n int) []float64 {
		v := make([]float64, n)
		for i := range v {
			v[i] = rd.NormFloat64() * 10
		}
		return v
	}
	for range 200 {
		n := rd.Intn(8) + 1
		a, b, c := vec(n), vec(n), vec(n)

		aa, err := Euclidean(a, a)
		require.NoError(t, err)
		assert.Zero(t, aa)

		ab, _ := Euclidean(a, b)
		ba, _ := Euclidean(b, a)
		assert.Equal(t, ab, ba)

		bc, _ := Euclidean(b, c)
		ac, _ := Euclidean(a, c)
		assert.LessOrEqual(t, ac, ab+bc+1e-12)

		assert.Equal(t, ab, MustEuclidean(a, b))
	}
}

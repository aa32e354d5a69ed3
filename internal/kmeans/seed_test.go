package kmeans

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomTable(rd *rand.Rand, n, dim int) Table {
	t := make(Table, n)
	for i := range t {
		t[i] = make([]float64, dim)
		for j := range t[i] {
			t[i][j] = rd.NormFloat64()
		}
	}
	return t
}

func rowIndex(t Table, v []float64) int {
	for i, row := range t {
		if assert.ObjectsAreEqual(row, v) {
			return i
		}
	}
	return -1
}

func TestSeed(t *testing.T) {
	rd := rand.New(rand.NewSource(1))
	for _, weighting := range []Weighting{Linear, Squared} {
		t.Run(weighting.String(), func(t *testing.T) {
			for range 50 {
				n := rd.Intn(30) + 1
				table := randomTable(rd, n, rd.Intn(4)+1)
				k := rd.Intn(n) + 1

				centroids, err := Seed(table, k, weighting, rd)
				require.NoError(t, err)
				require.Len(t, centroids, k)

				seen := make(map[int]bool)
				for _, c := range centroids {
					i := rowIndex(table, c)
					require.NotEqual(t, -1, i, "centroid %v is not a row", c)
					assert.False(t, seen[i], "row %d chosen twice", i)
					seen[i] = true
				}
			}
		})
	}
}

func TestSeed_CopiesRows(t *testing.T) {
	table := Table{{1, 1}, {2, 2}}
	centroids, err := Seed(table, 2, Linear, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	centroids[0][0] = 100
	centroids[1][0] = 100
	assert.Equal(t, Table{{1, 1}, {2, 2}}, table)
}

func TestSeed_CoincidingRows(t *testing.T) {
	// All rows coincide, so every draw after the first is uniform.
	table := Table{{3, 3}, {3, 3}, {3, 3}, {3, 3}}
	centroids, err := Seed(table, 4, Linear, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	assert.Len(t, centroids, 4)
	for _, c := range centroids {
		assert.Equal(t, []float64{3, 3}, c)
	}
}

func TestSeed_Deterministic(t *testing.T) {
	table := randomTable(rand.New(rand.NewSource(5)), 40, 3)
	a, err := Seed(table, 5, Linear, rand.New(rand.NewSource(11)))
	require.NoError(t, err)
	b, err := Seed(table, 5, Linear, rand.New(rand.NewSource(11)))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSeed_InvalidClusterCount(t *testing.T) {
	table := Table{{1}, {2}}
	rd := rand.New(rand.NewSource(1))
	for _, k := range []int{0, -1, 3} {
		_, err := Seed(table, k, Linear, rd)
		assert.ErrorIs(t, err, ErrInvalidClusterCount, "k=%d", k)
	}
	_, err := Seed(nil, 1, Linear, rd)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestSample(t *testing.T) {
	weights := []float64{0, 1, 0, 3}
	assert.Equal(t, 1, sample(weights, 4, 0))
	assert.Equal(t, 1, sample(weights, 4, 0.25))
	assert.Equal(t, 3, sample(weights, 4, 0.26))
	assert.Equal(t, 3, sample(weights, 4, 1))
	// cumulative mass rounding below r still yields a positive-weight row
	assert.Equal(t, 3, sample(weights, 4, 1.0000001))
}

func TestUniformUnchosen(t *testing.T) {
	chosen := []bool{true, false, true, false}
	rd := rand.New(rand.NewSource(2))
	for range 20 {
		i := uniformUnchosen(chosen, 2, rd)
		assert.Contains(t, []int{1, 3}, i)
	}
}

func TestSeed_Weighting(t *testing.T) {
	// After row 0 is drawn, {1} is 1 away and {3} is 3 away: linear weights
	// give {3} 3/4 of the mass, squared weights 9/10.
	table := Table{{0}, {1}, {3}}
	test := []struct {
		weighting Weighting
		exp       float64
	}{
		{weighting: Linear, exp: 0.75},
		{weighting: Squared, exp: 0.9},
	}
	for _, tt := range test {
		t.Run(tt.weighting.String(), func(t *testing.T) {
			rd := rand.New(rand.NewSource(2024))
			var first, far int
			for range 60_000 {
				centroids, err := Seed(table, 2, tt.weighting, rd)
				require.NoError(t, err)
				if centroids[0][0] != 0 {
					continue
				}
				first++
				if centroids[1][0] == 3 {
					far++
				}
			}
			require.Greater(t, first, 15_000)
			assert.InDelta(t, tt.exp, float64(far)/float64(first), 0.02)
		})
	}
}

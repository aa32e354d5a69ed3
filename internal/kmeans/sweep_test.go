package kmeans

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep(t *testing.T) {
	table := randomTable(rand.New(rand.NewSource(10)), 120, 3)
	cfg := SweepConfig{Config: defaultConfig(), Seed: 99}

	curve, err := Sweep(context.Background(), table, 8, cfg)
	require.NoError(t, err)
	require.Len(t, curve, 8)
	for i, p := range curve {
		assert.Equal(t, i+1, p.K)
		assert.GreaterOrEqual(t, p.WCSS, 0.0)
	}
}

func TestSweep_ParallelMatchesSequential(t *testing.T) {
	table := randomTable(rand.New(rand.NewSource(12)), 150, 2)
	cfg := SweepConfig{Config: defaultConfig(), Seed: 5}

	seq, err := Sweep(context.Background(), table, 10, cfg)
	require.NoError(t, err)

	var (
		mu       sync.Mutex
		observed = make(map[int]float64)
	)
	cfg.Parallel = 4
	cfg.Observe = func(k int, r *Result, wcss float64) {
		mu.Lock()
		defer mu.Unlock()
		observed[k] = wcss
	}
	par, err := Sweep(context.Background(), table, 10, cfg)
	require.NoError(t, err)
	assert.Equal(t, seq, par)
	assert.Len(t, observed, 10)
	for _, p := range par {
		assert.Equal(t, p.WCSS, observed[p.K])
	}
}

func TestSweep_MatchesRun(t *testing.T) {
	table := randomTable(rand.New(rand.NewSource(13)), 60, 2)
	cfg := SweepConfig{Config: defaultConfig(), Seed: 21}
	curve, err := Sweep(context.Background(), table, 4, cfg)
	require.NoError(t, err)

	r, err := Run(context.Background(), table, 3, cfg.Config, rand.New(rand.NewSource(cfg.Seed+3)))
	require.NoError(t, err)
	assert.Equal(t, curve[2].WCSS, WCSS(table, r.Centroids, r.Assignments))
}

func TestSweep_FullKHasZeroWCSS(t *testing.T) {
	table := Table{{1, 2}, {1.1, 2.1}, {5, 6}, {5.1, 6.1}}
	curve, err := Sweep(context.Background(), table, 4, SweepConfig{Config: defaultConfig(), Seed: 1})
	require.NoError(t, err)
	assert.Zero(t, curve[3].WCSS)
	assert.Greater(t, curve[0].WCSS, curve[1].WCSS)
}

func TestSweep_InvalidClusterCount(t *testing.T) {
	table := Table{{1}, {2}}
	_, err := Sweep(context.Background(), table, 3, SweepConfig{Config: defaultConfig()})
	assert.ErrorIs(t, err, ErrInvalidClusterCount)
	_, err = Sweep(context.Background(), table, 0, SweepConfig{Config: defaultConfig()})
	assert.ErrorIs(t, err, ErrInvalidClusterCount)
	_, err = Sweep(context.Background(), nil, 1, SweepConfig{Config: defaultConfig()})
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

package main

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/elbow"
	"github.com/yyyoichi/elbow/runlog"
)

func TestParseFlags_Defaults(t *testing.T) {
	cfg, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 3, 10, 4}, cfg.columns)
	assert.Equal(t, [][2]int{{0, 1}, {2, 3}}, cfg.pairs)
	assert.Equal(t, []string{"Density vs Residual Sugar", "Alcohol vs Chlorides"}, cfg.titles)
	assert.Equal(t, 10, cfg.maxK)
	assert.Equal(t, 3, cfg.k)
	assert.Equal(t, 100, cfg.iter)
	assert.Equal(t, elbow.LinearSeeding, cfg.seeding)
	assert.Equal(t, elbow.KeepCentroid, cfg.empty)
	assert.False(t, cfg.seeded)
}

func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags([]string{"-seed", "0", "-seeding", "squared", "-empty", "reseed", "-columns", "", "-pairs", "1:0"})
	require.NoError(t, err)
	assert.True(t, cfg.seeded)
	assert.Equal(t, elbow.SquaredSeeding, cfg.seeding)
	assert.Equal(t, elbow.ReseedCentroid, cfg.empty)
	assert.Nil(t, cfg.columns)
	assert.Equal(t, [][2]int{{1, 0}}, cfg.pairs)

	for _, args := range [][]string{
		{"-seeding", "cubic"},
		{"-empty", "drop"},
		{"-pairs", "1-2"},
		{"-columns", "a"},
		{"-delim", ";;"},
	} {
		_, err := parseFlags(args)
		assert.Error(t, err, "%v", args)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "data.csv")
	var b strings.Builder
	b.WriteString("a;b;c\n")
	for i := range 30 {
		offset := float64(i%3) * 10
		b.WriteString(strings.Join([]string{
			ftoa(offset + float64(i%5)*0.1),
			ftoa(offset - float64(i%4)*0.1),
			"1",
		}, ";") + "\n")
	}
	require.NoError(t, os.WriteFile(input, []byte(b.String()), 0o644))

	cfg, err := parseFlags([]string{
		"-in", input,
		"-columns", "0,1",
		"-pairs", "0:1",
		"-maxk", "5",
		"-seed", "1",
		"-out", filepath.Join(dir, "out"),
		"-db", filepath.Join(dir, "runs.db"),
	})
	require.NoError(t, err)
	require.NoError(t, run(context.Background(), cfg))

	assert.FileExists(t, filepath.Join(dir, "out", "elbow_method.html"))
	assert.FileExists(t, filepath.Join(dir, "out", "clusters_0_1.html"))

	db, err := runlog.Open(filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	defer db.Close()
	sweeps, err := db.List(context.Background(), "data.csv")
	require.NoError(t, err)
	require.Len(t, sweeps, 1)
	assert.Equal(t, int64(1), sweeps[0].Seed)
	assert.Equal(t, []int{0, 1}, sweeps[0].Columns)
	assert.Len(t, sweeps[0].Curve, 5)
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Package chart renders clusterings and elbow curves as HTML charts.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/yyyoichi/elbow"
)

var (
	ErrFeatureIndex = errors.New("feature index out of range")
)

// palette repeats for more clusters than colors.
var palette = []string{"#ff0000", "#0000ff", "#00ff00", "#ff00ff", "#00ffff", "#ffff00"}

// Scatter draws samples of t on the plane of features x and y, colored by
// assignments, with centroids on top in black.
func Scatter(w io.Writer, t elbow.Table, assignments []int, centroids [][]float64, x, y int, title string) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if len(assignments) != len(t) {
		return fmt.Errorf("%w: %d assignments for %d samples", elbow.ErrDimensionMismatch, len(assignments), len(t))
	}
	dim := t.Features()
	for _, i := range []int{x, y} {
		if i < 0 || i >= dim {
			return fmt.Errorf("%w: %d not in [0, %d)", ErrFeatureIndex, i, dim)
		}
	}
	for i, c := range centroids {
		if len(c) != dim {
			return fmt.Errorf("%w: centroid %d has %d features, want %d", elbow.ErrDimensionMismatch, i, len(c), dim)
		}
	}

	var (
		groups     = make([][]opts.ScatterData, len(centroids))
		xMin, xMax = math.Inf(1), math.Inf(-1)
		yMin, yMax = math.Inf(1), math.Inf(-1)
	)
	for i, row := range t {
		c := assignments[i]
		if c < 0 || c >= len(centroids) {
			return fmt.Errorf("%w: sample %d assigned to cluster %d of %d", elbow.ErrInvalidClusterCount, i, c, len(centroids))
		}
		xMin, xMax = min(xMin, row[x]), max(xMax, row[x])
		yMin, yMax = min(yMin, row[y]), max(yMax, row[y])
		groups[c] = append(groups[c], opts.ScatterData{
			Value:      []any{row[x], row[y]},
			Symbol:     "circle",
			SymbolSize: 6,
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "feature " + strconv.Itoa(x),
			Type: "value",
			Min:  xMin,
			Max:  xMax,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "feature " + strconv.Itoa(y),
			Type: "value",
			Min:  yMin,
			Max:  yMax,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "item",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "5%",
		}),
	)

	for c, points := range groups {
		scatter.AddSeries(fmt.Sprintf("Cluster %d", c), points,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: palette[c%len(palette)]}),
		)
	}

	var centers []opts.ScatterData
	for c, centroid := range centroids {
		centers = append(centers, opts.ScatterData{
			Value:      []any{centroid[x], centroid[y]},
			Symbol:     "diamond",
			SymbolSize: 16,
			Name:       fmt.Sprintf("Centroid %d", c),
		})
	}
	scatter.AddSeries("Centroids", centers,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#000000"}),
	)
	return scatter.Render(w)
}

// Elbow draws the WCSS of every k as a line.
func Elbow(w io.Writer, curve elbow.Curve, title string) error {
	if len(curve) == 0 {
		return elbow.ErrEmptyDataset
	}
	var (
		ks   = make([]string, len(curve))
		data = make([]opts.LineData, len(curve))
	)
	for i, p := range curve {
		ks[i] = strconv.Itoa(p.K)
		data[i] = opts.LineData{
			Value: p.WCSS,
			Name:  fmt.Sprintf("k=%d: WCSS=%.4f", p.K, p.WCSS),
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Number of Clusters",
			Type: "category",
			Data: ks,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "WCSS",
			Type: "value",
			Min:  0,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
	)
	line.SetXAxis(ks)
	line.AddSeries("WCSS", data,
		charts.WithLineChartOpts(opts.LineChart{
			Smooth: opts.Bool(false),
		}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: palette[0]}),
		charts.WithLabelOpts(opts.Label{
			Show: opts.Bool(false),
		}),
	)
	return line.Render(w)
}

// WriteFile creates path and renders into it.
func WriteFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

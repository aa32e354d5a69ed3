package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yyyoichi/elbow"
	"github.com/yyyoichi/elbow/chart"
	"github.com/yyyoichi/elbow/dataset"
	"github.com/yyyoichi/elbow/runlog"
)

// This tool standardizes a delimited dataset, sweeps k to draw an elbow chart,
// clusters once with the chosen k and draws scatter charts of feature pairs.

type config struct {
	input     string
	delimiter string
	noHeader  bool
	lenient   bool
	columns   []int
	maxK      int
	k         int
	iter      int
	seed      int64
	seeded    bool
	seeding   elbow.Seeding
	empty     elbow.EmptyCluster
	workers   int
	pairs     [][2]int
	titles    []string
	outDir    string
	dbPath    string
	verbose   bool
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("invalid arguments: %v", err)
	}
	if err := run(context.Background(), cfg); err != nil {
		log.Fatal(err)
	}
}

func parseFlags(args []string) (*config, error) {
	fs := flag.NewFlagSet("elbow", flag.ContinueOnError)
	var (
		cfg      config
		columns  = fs.String("columns", "7,3,10,4", "comma separated feature columns kept after standardization, empty keeps all")
		seeding  = fs.String("seeding", "linear", "initial centroid weighting: linear or squared")
		empty    = fs.String("empty", "keep", "empty cluster policy: keep or reseed")
		pairs    = fs.String("pairs", "0:1,2:3", "comma separated x:y feature pairs to scatter, indices after column selection")
		titles   = fs.String("titles", "Density vs Residual Sugar,Alcohol vs Chlorides", "comma separated scatter titles, one per pair")
		seed     = fs.Int64("seed", 0, "random seed, random if unset")
		delim    = fs.String("delim", ";", "field delimiter")
		noHeader = fs.Bool("no-header", false, "first record is data")
	)
	fs.StringVar(&cfg.input, "in", "winequality-white.csv", "input file")
	fs.BoolVar(&cfg.lenient, "lenient", false, "replace unparsable fields with 0 instead of failing")
	fs.IntVar(&cfg.maxK, "maxk", 10, "largest k of the elbow sweep")
	fs.IntVar(&cfg.k, "k", 3, "cluster count of the final clustering")
	fs.IntVar(&cfg.iter, "iter", 100, "max iterations per run")
	fs.IntVar(&cfg.workers, "workers", 1, "parallel workers")
	fs.StringVar(&cfg.outDir, "out", ".", "output directory for charts")
	fs.StringVar(&cfg.dbPath, "db", "", "sqlite file recording sweeps, disabled if empty")
	fs.BoolVar(&cfg.verbose, "v", false, "log every clustering run")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var err error
	if cfg.columns, err = parseInts(*columns); err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	if cfg.pairs, err = parsePairs(*pairs); err != nil {
		return nil, fmt.Errorf("pairs: %w", err)
	}
	if *titles != "" {
		cfg.titles = strings.Split(*titles, ",")
	}
	switch *seeding {
	case "linear":
		cfg.seeding = elbow.LinearSeeding
	case "squared":
		cfg.seeding = elbow.SquaredSeeding
	default:
		return nil, fmt.Errorf("unknown seeding %q", *seeding)
	}
	switch *empty {
	case "keep":
		cfg.empty = elbow.KeepCentroid
	case "reseed":
		cfg.empty = elbow.ReseedCentroid
	default:
		return nil, fmt.Errorf("unknown empty cluster policy %q", *empty)
	}
	if r := []rune(*delim); len(r) != 1 {
		return nil, fmt.Errorf("delimiter must be one character, got %q", *delim)
	}
	cfg.delimiter = *delim
	cfg.noHeader = *noHeader
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.seeded = true
		}
	})
	cfg.seed = *seed
	return &cfg, nil
}

func run(ctx context.Context, cfg *config) error {
	opts := []dataset.Option{dataset.WithDelimiter([]rune(cfg.delimiter)[0])}
	if cfg.noHeader {
		opts = append(opts, dataset.WithoutHeader())
	}
	if cfg.lenient {
		opts = append(opts, dataset.WithDefault(0))
	}
	table, err := dataset.LoadFile(cfg.input, opts...)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", cfg.input, err)
	}
	log.Printf("Loaded %d samples with %d features from %s\n", len(table), table.Features(), cfg.input)

	if err := elbow.StandardizeInPlace(table, elbow.ZeroFill); err != nil {
		return fmt.Errorf("failed to standardize: %w", err)
	}
	if len(cfg.columns) > 0 {
		if table, err = elbow.Select(table, cfg.columns); err != nil {
			return fmt.Errorf("failed to select columns: %w", err)
		}
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	clusterOpts := []elbow.Option{
		elbow.WithMaxIterations(cfg.iter),
		elbow.WithSeeding(cfg.seeding),
		elbow.WithEmptyCluster(cfg.empty),
		elbow.WithWorkers(cfg.workers),
		elbow.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))),
	}
	if cfg.seeded {
		clusterOpts = append(clusterOpts, elbow.WithSeed(cfg.seed))
	}
	c, err := elbow.New(clusterOpts...)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	maxK := min(cfg.maxK, len(table))
	curve, err := c.Sweep(ctx, table, maxK)
	if err != nil {
		return fmt.Errorf("failed to sweep: %w", err)
	}
	log.Printf("%4s | %14s\n", "k", "WCSS")
	for _, p := range curve {
		log.Printf("%4d | %14.4f\n", p.K, p.WCSS)
	}
	elbowPath := filepath.Join(cfg.outDir, "elbow_method.html")
	if err := chart.WriteFile(elbowPath, func(w io.Writer) error {
		return chart.Elbow(w, curve, "Elbow Method")
	}); err != nil {
		return fmt.Errorf("failed to render elbow chart: %w", err)
	}
	log.Printf("Generated: %s\n", elbowPath)

	if cfg.dbPath != "" {
		if err := record(ctx, cfg, c, len(table), curve); err != nil {
			return err
		}
	}

	result, err := c.Cluster(ctx, table, cfg.k)
	if err != nil {
		return fmt.Errorf("failed to cluster: %w", err)
	}
	log.Printf("k=%d iterations=%d converged=%t wcss=%.4f sizes=%v\n",
		cfg.k, result.Iterations, result.Converged, result.WCSS, result.Sizes())

	for i, pair := range cfg.pairs {
		title := fmt.Sprintf("Feature %d vs Feature %d", pair[0], pair[1])
		if i < len(cfg.titles) {
			title = cfg.titles[i]
		}
		path := filepath.Join(cfg.outDir, fmt.Sprintf("clusters_%d_%d.html", pair[0], pair[1]))
		if err := chart.WriteFile(path, func(w io.Writer) error {
			return chart.Scatter(w, table, result.Assignments, result.Centroids, pair[0], pair[1], title)
		}); err != nil {
			return fmt.Errorf("failed to render %s: %w", title, err)
		}
		log.Printf("Generated: %s\n", path)
	}
	return nil
}

func record(ctx context.Context, cfg *config, c *elbow.Clusterer, samples int, curve elbow.Curve) error {
	db, err := runlog.Open(cfg.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	id, err := db.Record(ctx, &runlog.Sweep{
		Dataset:       filepath.Base(cfg.input),
		Columns:       cfg.columns,
		Samples:       samples,
		Seed:          c.Seed(),
		MaxIterations: cfg.iter,
		Seeding:       cfg.seeding.String(),
		EmptyCluster:  cfg.empty.String(),
		Curve:         curve,
	})
	if err != nil {
		return fmt.Errorf("failed to record sweep: %w", err)
	}
	log.Printf("Recorded sweep %d in %s\n", id, cfg.dbPath)
	return nil
}

func parseInts(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parsePairs(s string) ([][2]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out [][2]int
	for _, part := range strings.Split(s, ",") {
		xy := strings.Split(strings.TrimSpace(part), ":")
		if len(xy) != 2 {
			return nil, fmt.Errorf("pair %q is not x:y", part)
		}
		x, err := strconv.Atoi(xy[0])
		if err != nil {
			return nil, err
		}
		y, err := strconv.Atoi(xy[1])
		if err != nil {
			return nil, err
		}
		out = append(out, [2]int{x, y})
	}
	return out, nil
}

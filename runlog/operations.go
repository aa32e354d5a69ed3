package runlog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yyyoichi/elbow"
)

// Sweep is one recorded elbow curve with the parameters that produced it.
type Sweep struct {
	ID            int64
	CreatedAt     time.Time
	Dataset       string
	Columns       []int
	Samples       int
	Seed          int64
	MaxIterations int
	Seeding       string
	EmptyCluster  string
	Curve         elbow.Curve
}

// Record stores s and its curve in one transaction and returns the new sweep id.
// A zero CreatedAt is replaced by the current time.
func (d *DB) Record(ctx context.Context, s *Sweep) (int64, error) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO sweeps (created_at, dataset, columns, samples, seed, max_iterations, seeding, empty_cluster)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.CreatedAt.UnixNano(), s.Dataset, formatColumns(s.Columns), s.Samples, s.Seed, s.MaxIterations, s.Seeding, s.EmptyCluster,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert sweep: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, p := range s.Curve {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO points (sweep_id, k, wcss) VALUES (?, ?, ?)",
			id, p.K, p.WCSS,
		); err != nil {
			return 0, fmt.Errorf("failed to insert point k=%d: %w", p.K, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sweep: %w", err)
	}
	s.ID = id
	return id, nil
}

// Delete removes a sweep and its points.
func (d *DB) Delete(ctx context.Context, id int64) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM sweeps WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete sweep: %w", err)
	}
	return nil
}

func formatColumns(columns []int) string {
	s := make([]string, len(columns))
	for i, c := range columns {
		s[i] = strconv.Itoa(c)
	}
	return strings.Join(s, ",")
}

func parseColumns(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	columns := make([]int, len(parts))
	for i, p := range parts {
		c, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid column %q: %w", p, err)
		}
		columns[i] = c
	}
	return columns, nil
}

package runlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yyyoichi/elbow"
)

var (
	ErrNotFound = errors.New("sweep not found")
)

const selectSweep = `SELECT id, created_at, dataset, columns, samples, seed, max_iterations, seeding, empty_cluster FROM sweeps`

type scanner interface {
	Scan(dest ...any) error
}

func scanSweep(row scanner) (*Sweep, error) {
	var (
		s         Sweep
		createdAt int64
		columns   string
	)
	if err := row.Scan(&s.ID, &createdAt, &s.Dataset, &columns, &s.Samples, &s.Seed, &s.MaxIterations, &s.Seeding, &s.EmptyCluster); err != nil {
		return nil, err
	}
	s.CreatedAt = time.Unix(0, createdAt)
	cols, err := parseColumns(columns)
	if err != nil {
		return nil, err
	}
	s.Columns = cols
	return &s, nil
}

// Get returns the sweep with the given id including its curve.
func (d *DB) Get(ctx context.Context, id int64) (*Sweep, error) {
	s, err := scanSweep(d.db.QueryRowContext(ctx, selectSweep+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query sweep: %w", err)
	}
	if err := d.loadCurve(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// List returns all sweeps of dataset ordered from oldest to newest, including their curves.
func (d *DB) List(ctx context.Context, dataset string) ([]*Sweep, error) {
	rows, err := d.db.QueryContext(ctx, selectSweep+" WHERE dataset = ? ORDER BY created_at, id", dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to query sweeps: %w", err)
	}

	var sweeps []*Sweep
	for rows.Next() {
		s, err := scanSweep(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan sweep: %w", err)
		}
		sweeps = append(sweeps, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, s := range sweeps {
		if err := d.loadCurve(ctx, s); err != nil {
			return nil, err
		}
	}
	return sweeps, nil
}

func (d *DB) loadCurve(ctx context.Context, s *Sweep) error {
	rows, err := d.db.QueryContext(ctx, "SELECT k, wcss FROM points WHERE sweep_id = ? ORDER BY k", s.ID)
	if err != nil {
		return fmt.Errorf("failed to query points: %w", err)
	}
	defer rows.Close()

	s.Curve = s.Curve[:0]
	for rows.Next() {
		var p elbow.Point
		if err := rows.Scan(&p.K, &p.WCSS); err != nil {
			return fmt.Errorf("failed to scan point: %w", err)
		}
		s.Curve = append(s.Curve, p)
	}
	return rows.Err()
}

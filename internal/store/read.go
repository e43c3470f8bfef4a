package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wardi/bar-foo/internal/ir"
)

// ReadClass retrieves a single class snapshot by name.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadClass(ctx context.Context, name string) (ir.ClassRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, parents, mro, spec_hash
		FROM classes
		WHERE name = ?
	`, name)
	return scanClass(row)
}

// ReadClasses returns every class snapshot ordered by name.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ReadClasses(ctx context.Context) ([]ir.ClassRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, parents, mro, spec_hash
		FROM classes
		ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query classes: %w", err)
	}
	defer rows.Close()

	classes := []ir.ClassRecord{}
	for rows.Next() {
		rec, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate classes: %w", err)
	}
	return classes, nil
}

// ReadRuns returns every registered run ordered by ID.
func (s *Store) ReadRuns(ctx context.Context) ([]ir.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, spec_hash, engine_version
		FROM runs
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []ir.RunRecord{}
	for rows.Next() {
		var run ir.RunRecord
		if err := rows.Scan(&run.ID, &run.Label, &run.SpecHash, &run.EngineVersion); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadResolutions returns the resolutions of one run ordered by seq.
// An empty runID returns every run's resolutions, ordered by run then seq.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ReadResolutions(ctx context.Context, runID string) ([]ir.ResolutionRecord, error) {
	query := `
		SELECT run_id, seq, op, target, class, name, step, owner, value, error
		FROM resolutions
	`
	var args []any
	if runID != "" {
		query += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	query += ` ORDER BY run_id COLLATE BINARY ASC, seq ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query resolutions: %w", err)
	}
	defer rows.Close()

	recs := []ir.ResolutionRecord{}
	for rows.Next() {
		var rec ir.ResolutionRecord
		if err := rows.Scan(
			&rec.RunID, &rec.Seq, &rec.Op, &rec.Target, &rec.Class,
			&rec.Name, &rec.Step, &rec.Owner, &rec.Value, &rec.Error,
		); err != nil {
			return nil, fmt.Errorf("scan resolution: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resolutions: %w", err)
	}
	return recs, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanClass(row scanner) (ir.ClassRecord, error) {
	var rec ir.ClassRecord
	var parents, mro string
	if err := row.Scan(&rec.Name, &parents, &mro, &rec.SpecHash); err != nil {
		if err == sql.ErrNoRows {
			return rec, err
		}
		return rec, fmt.Errorf("scan class: %w", err)
	}

	var err error
	if rec.Parents, err = unmarshalNames(parents); err != nil {
		return rec, fmt.Errorf("class %s: %w", rec.Name, err)
	}
	if rec.MRO, err = unmarshalNames(mro); err != nil {
		return rec, fmt.Errorf("class %s: %w", rec.Name, err)
	}
	return rec, nil
}

package store

import (
	"context"
	"fmt"

	"github.com/wardi/bar-foo/internal/ir"
)

// WriteClass stores a class snapshot. A later snapshot of the same class
// replaces the earlier one, since parents can be reassigned.
func (s *Store) WriteClass(ctx context.Context, rec ir.ClassRecord) error {
	parents, err := marshalNames(rec.Parents)
	if err != nil {
		return fmt.Errorf("write class: %w", err)
	}
	mro, err := marshalNames(rec.MRO)
	if err != nil {
		return fmt.Errorf("write class: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO classes (name, parents, mro, spec_hash)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			parents = excluded.parents,
			mro = excluded.mro,
			spec_hash = excluded.spec_hash
	`, rec.Name, parents, mro, rec.SpecHash)
	if err != nil {
		return fmt.Errorf("write class: %w", err)
	}
	return nil
}

// WriteClasses stores several snapshots in one transaction.
func (s *Store) WriteClasses(ctx context.Context, recs []ir.ClassRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write classes: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, rec := range recs {
		parents, err := marshalNames(rec.Parents)
		if err != nil {
			return fmt.Errorf("write classes: %w", err)
		}
		mro, err := marshalNames(rec.MRO)
		if err != nil {
			return fmt.Errorf("write classes: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO classes (name, parents, mro, spec_hash)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				parents = excluded.parents,
				mro = excluded.mro,
				spec_hash = excluded.spec_hash
		`, rec.Name, parents, mro, rec.SpecHash); err != nil {
			return fmt.Errorf("write classes: %s: %w", rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write classes: commit: %w", err)
	}
	return nil
}

// WriteRun registers a run. Uses ON CONFLICT(id) DO NOTHING for
// idempotency - registering the same run twice is silently ignored.
func (s *Store) WriteRun(ctx context.Context, run ir.RunRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, label, spec_hash, engine_version)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, run.ID, run.Label, run.SpecHash, run.EngineVersion)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteResolution appends a resolution record.
// Uses ON CONFLICT(run_id, seq) DO NOTHING - a seq is written once per run.
//
// Note: The run referenced by RunID must exist (foreign key constraint).
func (s *Store) WriteResolution(ctx context.Context, rec ir.ResolutionRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO resolutions
		(run_id, seq, op, target, class, name, step, owner, value, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`,
		rec.RunID,
		rec.Seq,
		rec.Op,
		rec.Target,
		rec.Class,
		rec.Name,
		rec.Step,
		rec.Owner,
		rec.Value,
		rec.Error,
	)
	if err != nil {
		return fmt.Errorf("write resolution: %w", err)
	}
	return nil
}

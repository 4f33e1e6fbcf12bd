package store

import (
	"context"
	"fmt"
)

// WriteRun inserts a run and returns it with ID, CreatedAt and (if empty)
// EngineVersion filled in. A run whose ID is already set keeps it; writing
// the same ID twice is an error.
func (s *Store) WriteRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = s.ids.Generate()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now()
	}
	if run.ConstraintHash == "" {
		return Run{}, fmt.Errorf("write run %s: missing constraint hash", run.ID)
	}
	if run.EngineVersion == "" {
		return Run{}, fmt.Errorf("write run %s: missing engine version", run.ID)
	}

	constraintsJSON, err := marshalConstraints(run.Constraints)
	if err != nil {
		return Run{}, fmt.Errorf("write run %s: %w", run.ID, err)
	}
	substJSON, err := marshalSubstitution(run.Substitution, run.Solvable)
	if err != nil {
		return Run{}, fmt.Errorf("write run %s: %w", run.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, constraint_hash, constraints, solvable, substitution,
		 failure_code, failure_message, failure_label, steps, engine_version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.ConstraintHash,
		constraintsJSON,
		run.Solvable,
		substJSON,
		run.FailureCode,
		run.FailureMessage,
		run.FailureLabel,
		run.Steps,
		run.EngineVersion,
		run.CreatedAt.UnixNano(),
	)
	if err != nil {
		return Run{}, fmt.Errorf("write run %s: %w", run.ID, err)
	}

	return run, nil
}

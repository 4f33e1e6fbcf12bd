package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/roach88/tyunify/internal/unify"
)

// ErrNotFound is returned when no run matches.
var ErrNotFound = errors.New("run not found")

const runColumns = `id, constraint_hash, constraints, solvable, substitution,
	failure_code, failure_message, failure_label, steps, engine_version, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// ReadRun returns the run with the given id, or ErrNotFound.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. limit <= 0 returns all.
//
// Returns an empty slice (not nil) if the store has no runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// CountRuns returns the number of stored runs.
func (s *Store) CountRuns(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

// LookupCached returns the newest run for hash produced by an engine whose
// version shares engineVersion's major and minor numbers.
//
// STEP_LIMIT failures are never returned: they depend on the caller's
// budget, not on the constraints. Returns ErrNotFound when nothing matches.
func (s *Store) LookupCached(ctx context.Context, hash, engineVersion string) (Run, error) {
	want, err := semver.NewVersion(engineVersion)
	if err != nil {
		return Run{}, fmt.Errorf("lookup cached: engine version %q: %w", engineVersion, err)
	}
	compatible, err := semver.NewConstraint(fmt.Sprintf("~%d.%d.0", want.Major(), want.Minor()))
	if err != nil {
		return Run{}, fmt.Errorf("lookup cached: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE constraint_hash = ? AND failure_code != ?
		ORDER BY created_at DESC, id DESC
	`, hash, string(unify.ErrCodeStepLimit))
	if err != nil {
		return Run{}, fmt.Errorf("lookup cached: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return Run{}, err
		}
		have, err := semver.NewVersion(run.EngineVersion)
		if err != nil {
			s.logger.Debug("skipping run with unparseable engine version",
				"run", run.ID, "engine_version", run.EngineVersion)
			continue
		}
		if !compatible.Check(have) {
			continue
		}
		s.logger.Debug("cache hit", "run", run.ID, "hash", hash)
		return run, nil
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("lookup cached: %w", err)
	}

	s.logger.Debug("cache miss", "hash", hash)
	return Run{}, fmt.Errorf("lookup cached %s: %w", hash, ErrNotFound)
}

// scanRun scans one row into a Run.
func scanRun(row rowScanner) (Run, error) {
	var run Run
	var constraintsJSON string
	var substJSON sql.NullString
	var createdAt int64

	if err := row.Scan(
		&run.ID, &run.ConstraintHash, &constraintsJSON, &run.Solvable, &substJSON,
		&run.FailureCode, &run.FailureMessage, &run.FailureLabel, &run.Steps,
		&run.EngineVersion, &createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	cs, err := unmarshalConstraints(constraintsJSON)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: %w", run.ID, err)
	}
	run.Constraints = cs

	subst, err := unmarshalSubstitution(substJSON)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: %w", run.ID, err)
	}
	run.Substitution = subst

	run.CreatedAt = time.Unix(0, createdAt).UTC()
	return run, nil
}

package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/roach88/tyunify/internal/types"
	"github.com/roach88/tyunify/internal/unify"
)

// Run is one stored solver invocation.
type Run struct {
	ID             string
	ConstraintHash string
	Constraints    []types.Constraint
	Solvable       bool
	Substitution   types.Substitution // nil when not solvable
	FailureCode    string
	FailureMessage string
	FailureLabel   string
	Steps          int
	EngineVersion  string
	CreatedAt      time.Time
}

// NewRun builds a Run from the result of unify.Solve. ID and CreatedAt are
// assigned by WriteRun.
func NewRun(cs []types.Constraint, s types.Substitution, solveErr error, steps int) (Run, error) {
	hash, err := types.ConstraintSetHash(cs)
	if err != nil {
		return Run{}, fmt.Errorf("new run: %w", err)
	}

	run := Run{
		ConstraintHash: hash,
		Constraints:    cs,
		Steps:          steps,
		EngineVersion:  types.EngineVersion,
	}

	if solveErr == nil {
		run.Solvable = true
		run.Substitution = s
		if run.Substitution == nil {
			run.Substitution = types.Substitution{}
		}
		return run, nil
	}

	var ue *unify.Error
	if !errors.As(solveErr, &ue) {
		return Run{}, fmt.Errorf("new run: unexpected solver error: %w", solveErr)
	}
	run.FailureCode = string(ue.Code)
	run.FailureMessage = ue.Message
	run.FailureLabel = ue.Label
	return run, nil
}

// Err reconstructs the solver error of a failed run.
// The failing pair is not stored, so Left and Right are nil.
func (r Run) Err() error {
	if r.Solvable {
		return nil
	}
	return &unify.Error{
		Code:    unify.ErrorCode(r.FailureCode),
		Message: r.FailureMessage,
		Label:   r.FailureLabel,
	}
}

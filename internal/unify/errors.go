package unify

import (
	"errors"
	"fmt"

	"github.com/roach88/tyunify/internal/types"
)

// Error explains why a constraint set has no unifier.
//
// Unify collapses every Error into ok == false; Solve returns it so callers
// that want diagnostics do not have to re-walk the constraints.
type Error struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Left and Right are the failing pair after normalization against the
	// substitution accumulated so far. Nil for STEP_LIMIT.
	Left  types.Type
	Right types.Type

	// Var is the variable that failed the occurs check (OCCURS_CHECK only).
	Var uint32

	// Label is the label of the constraint the failing pair came from.
	Label string

	// Steps and Limit are set for STEP_LIMIT.
	Steps int
	Limit int
}

// ErrorCode categorizes unification failures.
type ErrorCode string

const (
	// ErrCodeOccursCheck indicates a variable would have to contain itself.
	ErrCodeOccursCheck ErrorCode = "OCCURS_CHECK"

	// ErrCodeMismatch indicates incompatible head constructors.
	ErrCodeMismatch ErrorCode = "MISMATCH"

	// ErrCodeStepLimit indicates the WithMaxSteps budget ran out.
	ErrCodeStepLimit ErrorCode = "STEP_LIMIT"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("%s: %s (at %s)", e.Code, e.Message, e.Label)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsOccursError returns true if err is an occurs-check failure.
// Uses errors.As to handle wrapped errors.
func IsOccursError(err error) bool {
	return hasCode(err, ErrCodeOccursCheck)
}

// IsMismatchError returns true if err is a structural mismatch.
func IsMismatchError(err error) bool {
	return hasCode(err, ErrCodeMismatch)
}

// IsStepLimitError returns true if err reports an exhausted step budget.
func IsStepLimitError(err error) bool {
	return hasCode(err, ErrCodeStepLimit)
}

func hasCode(err error, code ErrorCode) bool {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Code == code
	}
	return false
}

// NewOccursError creates an Error for a binding v := t where v occurs in t.
func NewOccursError(v uint32, t types.Type, label string) *Error {
	return &Error{
		Code:    ErrCodeOccursCheck,
		Message: fmt.Sprintf("%s occurs in %s (infinite type)", types.NewVar(v), t),
		Left:    types.NewVar(v),
		Right:   t,
		Var:     v,
		Label:   label,
	}
}

// NewMismatchError creates an Error for two types with different constructors.
func NewMismatchError(left, right types.Type, label string) *Error {
	return &Error{
		Code:    ErrCodeMismatch,
		Message: fmt.Sprintf("cannot unify %s with %s", left, right),
		Left:    left,
		Right:   right,
		Label:   label,
	}
}

// NewStepLimitError creates an Error for an exhausted step budget.
func NewStepLimitError(steps, limit int) *Error {
	return &Error{
		Code:    ErrCodeStepLimit,
		Message: fmt.Sprintf("exceeded max steps (%d > %d)", steps, limit),
		Steps:   steps,
		Limit:   limit,
	}
}

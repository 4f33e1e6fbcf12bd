package compiler

import (
	"fmt"
	"strings"
)

// Validation error codes (E200-E299)
const (
	ErrNoConstraints  = "E200" // file declares no constraints
	ErrEmptySide      = "E201" // left or right is blank
	ErrDuplicateLabel = "E202" // two constraints share a label
	ErrBlankLabel     = "E203" // label present but only whitespace
)

// ValidationError represents a constraint file validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks uncompiled specs for problems that are not parse errors.
// Returns all errors found (does not fail-fast).
//
// An empty list is rejected: the solver accepts it, but a file without
// constraints is almost always a mistake.
func Validate(specs []ConstraintSpec) []ValidationError {
	var errs []ValidationError
	if len(specs) == 0 {
		return []ValidationError{{
			Field:   "constraints",
			Message: "no constraints",
			Code:    ErrNoConstraints,
		}}
	}
	seen := make(map[string]int)

	for i, spec := range specs {
		line := spec.Line
		if line == 0 && spec.Pos.IsValid() {
			line = spec.Pos.Line()
		}

		if strings.TrimSpace(spec.Left) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("constraints[%d].left", i),
				Message: "left side is empty",
				Code:    ErrEmptySide,
				Line:    line,
			})
		}
		if strings.TrimSpace(spec.Right) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("constraints[%d].right", i),
				Message: "right side is empty",
				Code:    ErrEmptySide,
				Line:    line,
			})
		}

		if spec.Label == "" {
			continue
		}
		if strings.TrimSpace(spec.Label) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("constraints[%d].label", i),
				Message: "label is blank",
				Code:    ErrBlankLabel,
				Line:    line,
			})
			continue
		}
		if first, dup := seen[spec.Label]; dup {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("constraints[%d].label", i),
				Message: fmt.Sprintf("label %q already used by constraints[%d]", spec.Label, first),
				Code:    ErrDuplicateLabel,
				Line:    line,
			})
			continue
		}
		seen[spec.Label] = i
	}

	return errs
}

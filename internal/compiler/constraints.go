package compiler

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/tyunify/internal/syntax"
	"github.com/roach88/tyunify/internal/types"
)

// ConstraintSpec is one uncompiled constraint as written in a file.
type ConstraintSpec struct {
	Left  string    `yaml:"left" json:"left"`
	Right string    `yaml:"right" json:"right"`
	Label string    `yaml:"label,omitempty" json:"label,omitempty"`
	Pos   token.Pos `yaml:"-" json:"-"` // CUE position when extracted from CUE
	Line  int       `yaml:"-" json:"-"` // YAML line when extracted from YAML
}

// ExtractSpecs reads the constraints list from a CUE value.
//
// The CUE value should be the file root, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`constraints: [{left: "a", right: "nat"}]`)
//	specs, err := ExtractSpecs(v)
func ExtractSpecs(v cue.Value) ([]ConstraintSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	listVal := v.LookupPath(cue.ParsePath("constraints"))
	if !listVal.Exists() {
		return nil, &CompileError{
			Field:   "constraints",
			Message: "constraints list is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := listVal.List()
	if err != nil {
		return nil, &CompileError{
			Field:   "constraints",
			Message: "constraints must be a list",
			Pos:     listVal.Pos(),
		}
	}

	var specs []ConstraintSpec
	for i := 0; iter.Next(); i++ {
		spec, err := extractSpec(iter.Value(), i)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// extractSpec reads one {left, right, label?} struct.
func extractSpec(v cue.Value, idx int) (ConstraintSpec, error) {
	spec := ConstraintSpec{Pos: v.Pos()}

	left, err := requiredString(v, "left", idx)
	if err != nil {
		return spec, err
	}
	right, err := requiredString(v, "right", idx)
	if err != nil {
		return spec, err
	}
	spec.Left, spec.Right = left, right

	labelVal := v.LookupPath(cue.ParsePath("label"))
	if labelVal.Exists() {
		label, err := labelVal.String()
		if err != nil {
			return spec, &CompileError{
				Field:   fmt.Sprintf("constraints[%d].label", idx),
				Message: "label must be a string",
				Pos:     labelVal.Pos(),
			}
		}
		spec.Label = label
	}
	return spec, nil
}

func requiredString(v cue.Value, field string, idx int) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{
			Field:   fmt.Sprintf("constraints[%d].%s", idx, field),
			Message: fmt.Sprintf("%s is required", field),
			Pos:     v.Pos(),
		}
	}
	s, err := fv.String()
	if err != nil {
		return "", &CompileError{
			Field:   fmt.Sprintf("constraints[%d].%s", idx, field),
			Message: fmt.Sprintf("%s must be a type expression string", field),
			Pos:     fv.Pos(),
		}
	}
	return s, nil
}

// CompileSpecs parses every spec with one shared names table.
// The first parse failure is returned as a *CompileError.
func CompileSpecs(specs []ConstraintSpec, names *syntax.Names) ([]types.Constraint, error) {
	if names == nil {
		names = syntax.NewNames(nil)
	}

	out := make([]types.Constraint, 0, len(specs))
	for i, spec := range specs {
		left, err := syntax.Parse(spec.Left, names)
		if err != nil {
			return nil, parseError(spec, fmt.Sprintf("constraints[%d].left", i), err)
		}
		right, err := syntax.Parse(spec.Right, names)
		if err != nil {
			return nil, parseError(spec, fmt.Sprintf("constraints[%d].right", i), err)
		}
		out = append(out, types.Constraint{Left: left, Right: right, Label: spec.Label})
	}
	return out, nil
}

// CompileConstraints extracts and compiles the constraints of a CUE value.
func CompileConstraints(v cue.Value, names *syntax.Names) ([]types.Constraint, error) {
	specs, err := ExtractSpecs(v)
	if err != nil {
		return nil, err
	}
	return CompileSpecs(specs, names)
}

func parseError(spec ConstraintSpec, field string, err error) *CompileError {
	ce := &CompileError{
		Field:   field,
		Message: err.Error(),
		Pos:     spec.Pos,
		Line:    spec.Line,
	}
	var pe *syntax.Error
	if errors.As(err, &pe) {
		ce.Message = fmt.Sprintf("invalid type expression: %s", pe.Message)
	}
	return ce
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
	Line    int // YAML line, used when Pos is invalid
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tyunify/internal/compiler"
	"github.com/roach88/tyunify/internal/syntax"
)

// FileValidation holds the validation result of one file.
type FileValidation struct {
	File   string                     `json:"file"`
	Valid  bool                       `json:"valid"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check constraint files without solving them",
		Long: `Check constraint files for shape errors, empty sides, duplicate labels
and type expressions that do not parse. Every problem is reported, not
just the first.

Exit codes:
  0 - All files are valid
  1 - At least one file has problems`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(paths))}
	for _, path := range paths {
		formatter.VerboseLog("Validating %s", path)
		fv := validateFile(path)
		if !fv.Valid {
			result.Valid = false
		}
		result.Files = append(result.Files, fv)
	}

	if err := formatter.Render(result, func(w io.Writer) { writeValidationResult(w, result) }); err != nil {
		return err
	}
	if !result.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}

// validateFile collects every problem in one file.
func validateFile(path string) FileValidation {
	fv := FileValidation{File: path}

	specs, err := ReadSpecs(path)
	if err != nil {
		fv.Errors = append(fv.Errors, loadValidationError(err))
		return fv
	}

	fv.Errors = append(fv.Errors, compiler.Validate(specs)...)

	// Compile one constraint at a time so every bad expression is reported.
	names := syntax.NewNames(nil)
	for i, spec := range specs {
		if strings.TrimSpace(spec.Left) == "" || strings.TrimSpace(spec.Right) == "" {
			continue // already reported as E201
		}
		if _, err := compiler.CompileSpecs([]compiler.ConstraintSpec{spec}, names); err != nil {
			var ce *compiler.CompileError
			if !errors.As(err, &ce) {
				fv.Errors = append(fv.Errors, compiler.ValidationError{
					Field: fmt.Sprintf("constraints[%d]", i), Message: err.Error(), Code: ErrCodeGeneric,
				})
				continue
			}
			fv.Errors = append(fv.Errors, compiler.ValidationError{
				Field:   strings.Replace(ce.Field, "constraints[0]", fmt.Sprintf("constraints[%d]", i), 1),
				Message: ce.Message,
				Code:    ErrCodeInvalidType,
				Line:    spec.Line,
			})
		}
	}

	fv.Valid = len(fv.Errors) == 0
	return fv
}

func loadValidationError(err error) compiler.ValidationError {
	var le *LoadError
	if errors.As(err, &le) {
		line := le.Line
		if line == 0 && le.Pos.IsValid() {
			line = le.Pos.Line()
		}
		return compiler.ValidationError{Field: "load", Message: le.Message, Code: le.Code, Line: line}
	}
	return compiler.ValidationError{Field: "load", Message: err.Error(), Code: ErrCodeGeneric}
}

func writeValidationResult(w io.Writer, result ValidationResult) {
	for _, fv := range result.Files {
		if fv.Valid {
			fmt.Fprintf(w, "✓ %s\n", fv.File)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", fv.File)
		for _, e := range fv.Errors {
			fmt.Fprintf(w, "  %s\n", e.Error())
		}
	}
}

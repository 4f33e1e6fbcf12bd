package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"

	"github.com/roach88/tyunify/internal/compiler"
	"github.com/roach88/tyunify/internal/syntax"
	"github.com/roach88/tyunify/internal/types"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeReadFailed   = "E002" // File read error
	ErrCodeUnsupported  = "E003" // Unsupported file extension
	ErrCodeLoadFailed   = "E004" // CUE/YAML syntax or shape error
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeBuildFailed  = "E006" // CUE evaluation failed
	ErrCodeInvalidType  = "E010" // Type expression does not parse
	ErrCodeInvalidSet   = "E011" // Constraint set fails validation
	ErrCodeDatabase     = "E020" // Run store error
	ErrCodeUnsolvable   = "E030" // Constraints have no unifier
	ErrCodeCheckFailed  = "E031" // One or more scenarios failed
	ErrCodeBadArguments = "E040" // Malformed command arguments
)

// LoadError represents an error that occurred while loading a constraint file.
type LoadError struct {
	Code    string
	Message string
	Path    string
	Pos     token.Pos // CUE position if available
	Line    int       // YAML line if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Path != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", e.Path, e.Line, e.Code, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ConstraintFile is a loaded and compiled constraint file.
type ConstraintFile struct {
	Path        string
	Specs       []compiler.ConstraintSpec
	Constraints []types.Constraint
	Names       *syntax.Names
}

// IsConstraintFile reports whether path has a supported extension.
func IsConstraintFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue", ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// LoadConstraintFile reads, validates and compiles one constraint file.
// .cue and .json are evaluated with CUE, .yaml and .yml with yaml.v3.
func LoadConstraintFile(path string) (*ConstraintFile, error) {
	specs, err := ReadSpecs(path)
	if err != nil {
		return nil, err
	}

	if verrs := compiler.Validate(specs); len(verrs) > 0 {
		return nil, &LoadError{
			Code:    ErrCodeInvalidSet,
			Message: verrs[0].Error(),
			Path:    path,
		}
	}

	names := syntax.NewNames(nil)
	cs, err := compiler.CompileSpecs(specs, names)
	if err != nil {
		return nil, convertCompileError(err, path)
	}

	return &ConstraintFile{
		Path:        path,
		Specs:       specs,
		Constraints: cs,
		Names:       names,
	}, nil
}

// ReadSpecs reads the uncompiled constraint specs of a file.
func ReadSpecs(path string) ([]compiler.ConstraintSpec, error) {
	if !IsConstraintFile(path) {
		return nil, &LoadError{
			Code:    ErrCodeUnsupported,
			Message: fmt.Sprintf("unsupported file type %q (want .cue, .json, .yaml or .yml)", filepath.Ext(path)),
			Path:    path,
		}
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "file not found", Path: path}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: err.Error(), Path: path}
	}

	var specs []compiler.ConstraintSpec
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		specs, err = compiler.ExtractSpecsYAML(data)
	default:
		// JSON is valid CUE.
		ctx := cuecontext.New()
		v := ctx.CompileBytes(data, cue.Filename(path))
		specs, err = compiler.ExtractSpecs(v)
	}
	if err != nil {
		return nil, convertCompileError(err, path)
	}
	return specs, nil
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, path string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		code := MapFieldToErrorCode(compileErr.Field)
		if strings.HasPrefix(compileErr.Message, "invalid type expression") {
			code = ErrCodeInvalidType
		}
		msg := compileErr.Message
		if compileErr.Field != "" {
			msg = compileErr.Field + ": " + msg
		}
		return &LoadError{
			Code:    code,
			Message: msg,
			Path:    path,
			Pos:     compileErr.Pos,
			Line:    compileErr.Line,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: err.Error(),
		Path:    path,
	}
}

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "cue":
		return ErrCodeBuildFailed
	case field == "yaml", field == "constraints", strings.HasPrefix(field, "constraints["):
		return ErrCodeLoadFailed
	default:
		return ErrCodeGeneric
	}
}

// loadErrorCode returns the code of a LoadError, or ErrCodeGeneric.
func loadErrorCode(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return ErrCodeGeneric
}

package cli

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tyunify/internal/syntax"
)

func TestLoadConstraintFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"app.yaml", "app.yml"} {
		t.Run(name, func(t *testing.T) {
			f, err := LoadConstraintFile(writeFile(t, dir, name, appYAML))
			require.NoError(t, err)
			require.Len(t, f.Constraints, 2)
			assert.Equal(t, "f = nat -> r", syntax.FormatConstraint(f.Constraints[0], f.Names))
			assert.Equal(t, "app", f.Constraints[0].Label)
			assert.Equal(t, 2, f.Specs[0].Line)
		})
	}

	t.Run("app.cue", func(t *testing.T) {
		f, err := LoadConstraintFile(writeFile(t, dir, "app.cue", appCUE))
		require.NoError(t, err)
		require.Len(t, f.Constraints, 2)
		assert.Equal(t, "r = bool", syntax.FormatConstraint(f.Constraints[1], f.Names))
	})

	t.Run("app.json", func(t *testing.T) {
		f, err := LoadConstraintFile(writeFile(t, dir, "app.json",
			`{"constraints": [{"left": "?3", "right": "bool -> ?3"}]}`))
		require.NoError(t, err)
		assert.Equal(t, "Var(3)", f.Constraints[0].Left.String())
	})
}

func TestLoadConstraintFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		code    string
	}{
		{"unsupported", "a.toml", "", ErrCodeUnsupported},
		{"yaml syntax", "a.yaml", "constraints: [", ErrCodeLoadFailed},
		{"yaml not a list", "b.yaml", "constraints: 3\n", ErrCodeLoadFailed},
		{"yaml unknown key", "c.yaml", "constraints:\n  - left: a\n    right: b\n    extra: 1\n", ErrCodeLoadFailed},
		{"cue syntax", "a.cue", "constraints: [", ErrCodeBuildFailed},
		{"cue missing right", "b.cue", `constraints: [{left: "a"}]`, ErrCodeLoadFailed},
		{"bad type", "d.yaml", "constraints:\n  - left: a\n    right: nat ->\n", ErrCodeInvalidType},
		{"empty", "e.yaml", "constraints: []\n", ErrCodeInvalidSet},
		{"duplicate labels", "f.yaml", "constraints:\n  - {left: a, right: b, label: x}\n  - {left: a, right: b, label: x}\n", ErrCodeInvalidSet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConstraintFile(writeFile(t, dir, tt.file, tt.content))
			require.Error(t, err)

			var le *LoadError
			require.True(t, errors.As(err, &le), "got %T: %v", err, err)
			assert.Equal(t, tt.code, le.Code, le.Error())
		})
	}

	t.Run("not found", func(t *testing.T) {
		_, err := LoadConstraintFile(filepath.Join(dir, "missing.cue"))
		assert.Equal(t, ErrCodeNotFound, loadErrorCode(err))
	})
}

func TestLoadError_Error(t *testing.T) {
	assert.Equal(t, "a.yaml:3: E010: bad", (&LoadError{Code: "E010", Message: "bad", Path: "a.yaml", Line: 3}).Error())
	assert.Equal(t, "a.yaml: E005: file not found", (&LoadError{Code: "E005", Message: "file not found", Path: "a.yaml"}).Error())
	assert.Equal(t, "E001: oops", (&LoadError{Code: "E001", Message: "oops"}).Error())
}

func TestMapFieldToErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeBuildFailed, MapFieldToErrorCode("cue"))
	assert.Equal(t, ErrCodeLoadFailed, MapFieldToErrorCode("yaml"))
	assert.Equal(t, ErrCodeLoadFailed, MapFieldToErrorCode("constraints"))
	assert.Equal(t, ErrCodeLoadFailed, MapFieldToErrorCode("constraints[2].left"))
	assert.Equal(t, ErrCodeGeneric, MapFieldToErrorCode("other"))
}

func TestIsConstraintFile(t *testing.T) {
	for _, p := range []string{"a.cue", "a.json", "a.yaml", "A.YML"} {
		assert.True(t, IsConstraintFile(p), p)
	}
	for _, p := range []string{"a.toml", "a", "a.yaml.bak"} {
		assert.False(t, IsConstraintFile(p), p)
	}
}

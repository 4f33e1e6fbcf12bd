package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tyunify/internal/compiler"
)

func TestValidate_Valid(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "app.yaml", appYAML)
	b := writeFile(t, dir, "app.cue", appCUE)

	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ "+a)
	assert.Contains(t, out, "✓ "+b)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", `constraints:
  - left: a ->
    right: nat
    label: x
  - left: b
    right: "(bool"
    label: x
  - left: ""
    right: nat
`)

	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Data ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Files, 1)

	byCode := map[string][]string{}
	for _, e := range resp.Data.Files[0].Errors {
		byCode[e.Code] = append(byCode[e.Code], e.Field)
	}
	assert.Equal(t, []string{"constraints[1].label"}, byCode[compiler.ErrDuplicateLabel])
	assert.Equal(t, []string{"constraints[2].left"}, byCode[compiler.ErrEmptySide])
	assert.Equal(t, []string{"constraints[0].left", "constraints[1].right"}, byCode[ErrCodeInvalidType])
}

func TestValidate_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.yaml")
	unsupported := writeFile(t, dir, "c.txt", "")
	empty := writeFile(t, dir, "empty.yaml", "constraints: []\n")

	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), missing, unsupported, empty)
	require.Error(t, err)
	assert.Contains(t, out, "✗ "+missing+"\n  [E005]")
	assert.Contains(t, out, "✗ "+unsupported+"\n  [E003]")
	assert.Contains(t, out, "✗ "+empty+"\n  [E200]")
}

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// writeFile writes content to dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

const appYAML = `constraints:
  - left: f
    right: nat -> r
    label: app
  - left: r
    right: bool
`

const mismatchYAML = `constraints:
  - left: x
    right: bool
  - left: x
    right: nat
    label: lit
`

const appCUE = `constraints: [
	{left: "f", right: "nat -> r", label: "app"},
	{left: "r", right: "bool"},
]
`

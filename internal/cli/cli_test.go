package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/snug/internal/engine"
)

const overflowScenario = `
name: overflow
type: int8
steps:
  - op: new
    dst: a
    args: [100]
  - op: add
    dst: b
    args: [a, 50]
    expect:
      error: AdditionOverflow
  - op: sub
    dst: c
    args: [a, 1]
    expect:
      value: 99
assertions:
  - register: c
    value: 99
`

// writeFile writes content to dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs cmd with args and returns stdout, stderr and the error.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// runInto runs a scenario into the database at dbPath under fixed tokens.
func runInto(t *testing.T, dbPath, scenarioPath string, tokens ...string) {
	t.Helper()
	cmd := newRunCommand(&RunOptions{
		RootOptions:    &RootOptions{Format: "text"},
		TokenGenerator: engine.NewFixedGenerator(tokens...),
	})
	_, _, err := execute(cmd, "--db", dbPath, scenarioPath)
	require.NoError(t, err)
}

package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/snug/internal/engine"
	"github.com/roach88/snug/internal/store"
)

func TestRunMissingScenarioArg(t *testing.T) {
	_, _, err := execute(NewRunCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestRunInvalidScenario(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "name: bad\nsteps: []\n")

	_, _, err := execute(NewRunCommand(&RootOptions{Format: "text"}), path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load scenario")
}

func TestRunInMemory(t *testing.T) {
	path := writeFile(t, t.TempDir(), "overflow.yaml", overflowScenario)

	cmd := newRunCommand(&RunOptions{
		RootOptions:    &RootOptions{Format: "text"},
		TokenGenerator: engine.NewFixedGenerator("run-1"),
	})
	out, _, err := execute(cmd, path)
	require.NoError(t, err)

	assert.Contains(t, out, "Run: run-1 (overflow)")
	assert.Contains(t, out, "[1] new int8 a = 100 -> 100")
	assert.Contains(t, out, "[2] add int8 b = a, 50 -> error AdditionOverflow")
	assert.Contains(t, out, "[3] sub int8 c = a, 1 -> 99")
	assert.Contains(t, out, "3 step(s), 1 refused")
}

func TestRunPersistsAndResumesClock(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "snug.db")
	path := writeFile(t, dir, "overflow.yaml", overflowScenario)

	runInto(t, dbPath, path, "run-1")
	runInto(t, dbPath, path, "run-2")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	ctx := context.Background()

	runs, err := st.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-1", runs[0].Token)
	assert.Equal(t, int64(0), runs[0].StartSeq)
	assert.Equal(t, "run-2", runs[1].Token)
	assert.Equal(t, int64(3), runs[1].StartSeq)
	assert.Equal(t, runs[0].ProgramHash, runs[1].ProgramHash)

	records, err := st.ReadRecords(ctx, "run-2")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, int64(4), records[0].Seq)

	last, err := st.LastSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), last)
}

func TestRunAborted(t *testing.T) {
	path := writeFile(t, t.TempDir(), "abort.yaml", `
name: abort
steps:
  - op: new
    type: int8
    dst: x
  - op: inc
    type: int16
    dst: x
`)

	cmd := newRunCommand(&RunOptions{
		RootOptions:    &RootOptions{Format: "json"},
		TokenGenerator: engine.NewFixedGenerator("run-abort"),
	})
	out, _, err := execute(cmd, path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, IsReported(err))

	var resp struct {
		Status string    `json:"status"`
		Data   RunOutput `json:"data"`
		Error  *CLIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Len(t, resp.Data.Trace, 1)
	assert.Contains(t, resp.Data.Aborted, "TYPE_CONFLICT")
	require.NotNil(t, resp.Error)
	assert.Equal(t, "TYPE_CONFLICT", resp.Error.Code)
}

func TestRunVerboseLogsToStderr(t *testing.T) {
	path := writeFile(t, t.TempDir(), "overflow.yaml", overflowScenario)

	cmd := newRunCommand(&RunOptions{
		RootOptions:    &RootOptions{Format: "json", Verbose: true},
		TokenGenerator: engine.NewFixedGenerator("run-v"),
	})
	out, errOut, err := execute(cmd, path)
	require.NoError(t, err)

	assert.Contains(t, errOut, "step evaluated")
	assert.Contains(t, errOut, "run=run-v")

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "stdout must stay valid JSON")
	assert.Equal(t, "ok", resp.Status)
}

package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/snug/internal/ir"
	"github.com/roach88/snug/internal/testutil"
)

func TestReplay_Identical(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	e := New(s, NewFixedGenerator("run-1"), WithLogger(quietLogger()))
	res, err := e.Run(ctx, overflowProgram())
	require.NoError(t, err)

	rep, err := New(s, nil, WithLogger(quietLogger())).Replay(ctx, "run-1")
	require.NoError(t, err)
	assert.True(t, rep.Identical())
	assert.Equal(t, 3, rep.Steps)
	assert.Equal(t, res.Registers.Snapshot(), rep.Registers.Snapshot())
}

func TestReplay_DetectsAlteredOutcome(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	prog := overflowProgram()
	hash, err := ir.ProgramHash(prog)
	require.NoError(t, err)
	require.NoError(t, s.WriteRun(ctx, ir.Run{Token: "run-2", ProgramHash: hash, IRVersion: ir.IRVersion}))

	outcomes := []ir.Outcome{{Value: "127"}, {Value: "-128"}, {Value: "100"}}
	for i, st := range prog.Steps {
		seq := int64(i + 1)
		id, err := ir.RecordID("run-2", seq, st)
		require.NoError(t, err)
		require.NoError(t, s.WriteRecord(ctx, ir.Record{ID: id, RunToken: "run-2", Seq: seq, Step: st, Outcome: outcomes[i]}))
	}

	rep, err := New(s, nil, WithLogger(quietLogger())).Replay(ctx, "run-2")
	require.NoError(t, err)
	assert.True(t, rep.HashMatches)
	assert.False(t, rep.Identical())
	require.Len(t, rep.Divergences, 1)
	assert.Equal(t, int64(2), rep.Divergences[0].Seq)
	assert.Equal(t, ir.Outcome{Value: "-128"}, rep.Divergences[0].Recorded)
	assert.Equal(t, ir.Outcome{Error: "AdditionOverflow"}, rep.Divergences[0].Replayed)
}

func TestReplay_RejectsTamperedID(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteRun(ctx, ir.Run{Token: "run-3", ProgramHash: "x", IRVersion: ir.IRVersion}))
	require.NoError(t, s.WriteRecord(ctx, ir.Record{
		ID:       "not-a-content-id",
		RunToken: "run-3",
		Seq:      1,
		Step:     step(ir.OpNew, "int8", "x"),
		Outcome:  ir.Outcome{Value: "0"},
	}))

	_, err := New(s, nil, WithLogger(quietLogger())).Replay(ctx, "run-3")
	assert.ErrorContains(t, err, "does not match content id")
}

func TestReplay_AbortedRunReportsHashMismatch(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	prog := testutil.Program("aborts",
		step(ir.OpNew, "int8", "x", "5"),
		step(ir.OpInc, "int8", "missing"),
	)
	_, err := New(s, NewFixedGenerator("run-4"), WithLogger(quietLogger())).Run(ctx, prog)
	require.Error(t, err)

	rep, err := New(s, nil, WithLogger(quietLogger())).Replay(ctx, "run-4")
	require.NoError(t, err)
	assert.Empty(t, rep.Divergences)
	assert.False(t, rep.HashMatches)
	assert.False(t, rep.Identical())
}

func TestReplay_NoStore(t *testing.T) {
	_, err := New(nil, nil).Replay(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestReplay_UnknownRun(t *testing.T) {
	s := openStore(t)
	_, err := New(s, nil, WithLogger(quietLogger())).Replay(context.Background(), "ghost")
	assert.Error(t, err)
}

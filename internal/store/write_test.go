package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/snug/internal/ir"
)

func testRun(token string, startSeq int64) ir.Run {
	return ir.Run{
		Token:       token,
		Name:        "test",
		ProgramHash: "hash-" + token,
		StartSeq:    startSeq,
		IRVersion:   ir.IRVersion,
	}
}

func testRecord(t *testing.T, token string, seq int64, step ir.Step, out ir.Outcome) ir.Record {
	t.Helper()
	id, err := ir.RecordID(token, seq, step)
	require.NoError(t, err)
	return ir.Record{ID: id, RunToken: token, Seq: seq, Step: step, Outcome: out}
}

func TestWriteRecord_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteRun(ctx, testRun("run-1", 0)))

	steps := []ir.Record{
		testRecord(t, "run-1", 1,
			ir.Step{Op: ir.OpNew, Type: "int8", Dst: "x", Args: []ir.Operand{"127"}},
			ir.Outcome{Value: "127"}),
		testRecord(t, "run-1", 2,
			ir.Step{Op: ir.OpInc, Type: "int8", Dst: "x"},
			ir.Outcome{Error: "AdditionOverflow"}),
		testRecord(t, "run-1", 3,
			ir.Step{Op: ir.OpBounds, Type: "int8"},
			ir.Outcome{Value: "-128..127"}),
	}
	for _, rec := range steps {
		require.NoError(t, s.WriteRecord(ctx, rec))
	}

	got, err := s.ReadRecords(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, steps, got)
}

func TestWriteRecord_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteRun(ctx, testRun("run-1", 0)))
	require.NoError(t, s.WriteRun(ctx, testRun("run-1", 0)))

	rec := testRecord(t, "run-1", 1,
		ir.Step{Op: ir.OpNew, Type: "uint8", Dst: "y"},
		ir.Outcome{Value: "0"})
	require.NoError(t, s.WriteRecord(ctx, rec))
	require.NoError(t, s.WriteRecord(ctx, rec))

	got, err := s.ReadRecords(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestWriteRecord_RequiresRun(t *testing.T) {
	s := createTestStore(t)

	rec := testRecord(t, "missing", 1,
		ir.Step{Op: ir.OpNew, Type: "int8", Dst: "x"},
		ir.Outcome{Value: "0"})
	err := s.WriteRecord(context.Background(), rec)
	assert.Error(t, err, "foreign key should reject steps of an unknown run")
}

func TestWriteRecord_RejectsBothOutcomeFields(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteRun(ctx, testRun("run-1", 0)))

	rec := testRecord(t, "run-1", 1,
		ir.Step{Op: ir.OpNew, Type: "int8", Dst: "x"},
		ir.Outcome{Value: "0", Error: "SizeMismatch"})
	assert.Error(t, s.WriteRecord(ctx, rec))
}

func TestReadRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	want := testRun("run-7", 12)
	require.NoError(t, s.WriteRun(ctx, want))

	got, err := s.ReadRun(ctx, "run-7")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = s.ReadRun(ctx, "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestReadRecords_OrderedBySeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteRun(ctx, testRun("run-1", 0)))

	step := ir.Step{Op: ir.OpNew, Type: "int16", Dst: "a"}
	for _, seq := range []int64{3, 1, 2} {
		require.NoError(t, s.WriteRecord(ctx, testRecord(t, "run-1", seq, step, ir.Outcome{Value: "0"})))
	}

	got, err := s.ReadRecords(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, rec := range got {
		assert.Equal(t, int64(i+1), rec.Seq)
	}
}

func TestReadRecords_EmptyNotNil(t *testing.T) {
	s := createTestStore(t)

	got, err := s.ReadRecords(context.Background(), "none")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListRuns_AndLastSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seq, err := s.LastSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), seq)

	require.NoError(t, s.WriteRun(ctx, testRun("run-b", 5)))
	require.NoError(t, s.WriteRun(ctx, testRun("run-a", 0)))
	step := ir.Step{Op: ir.OpBounds, Type: "int8"}
	require.NoError(t, s.WriteRecord(ctx, testRecord(t, "run-b", 6, step, ir.Outcome{Value: "-128..127"})))

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-a", runs[0].Token)
	assert.Equal(t, "run-b", runs[1].Token)

	seq, err = s.LastSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), seq)
}

func TestMarshalArgs(t *testing.T) {
	got, err := marshalArgs([]ir.Operand{"x", "-5"})
	require.NoError(t, err)
	assert.Equal(t, `["x","-5"]`, got)

	got, err = marshalArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, `[]`, got)

	args, err := unmarshalArgs(`[]`)
	require.NoError(t, err)
	assert.Nil(t, args)

	_, err = unmarshalArgs(`{`)
	assert.Error(t, err)
}

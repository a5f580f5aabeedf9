package store

import (
	"context"
	"fmt"

	"github.com/roach88/snug/internal/ir"
)

// WriteRun inserts a run header.
// Uses ON CONFLICT(token) DO NOTHING: writing the same run twice is a no-op.
func (s *Store) WriteRun(ctx context.Context, run ir.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (token, name, program_hash, started_seq, ir_version)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		run.Token,
		run.Name,
		run.ProgramHash,
		run.StartSeq,
		run.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteRecord inserts an evaluated step.
// Uses ON CONFLICT(id) DO NOTHING for idempotency. The run must exist
// (foreign key constraint).
//
// Operands are stored as canonical JSON so the stored text is stable.
func (s *Store) WriteRecord(ctx context.Context, rec ir.Record) error {
	argsJSON, err := marshalArgs(rec.Step.Args)
	if err != nil {
		return fmt.Errorf("write record: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO steps
		(id, run_token, seq, op, type, dst, args, outcome_value, outcome_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.RunToken,
		rec.Seq,
		string(rec.Step.Op),
		rec.Step.Type,
		rec.Step.Dst,
		argsJSON,
		rec.Outcome.Value,
		rec.Outcome.Error,
	)
	if err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

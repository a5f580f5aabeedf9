package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/snug/internal/ir"
)

// ReadRun retrieves a run header by token.
// Returns an error wrapping sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, token string) (ir.Run, error) {
	var run ir.Run
	err := s.db.QueryRowContext(ctx, `
		SELECT token, name, program_hash, started_seq, ir_version
		FROM runs
		WHERE token = ?
	`, token).Scan(&run.Token, &run.Name, &run.ProgramHash, &run.StartSeq, &run.IRVersion)
	if err != nil {
		return ir.Run{}, fmt.Errorf("read run %s: %w", token, err)
	}
	return run, nil
}

// ReadRecords returns every evaluated step of a run.
// Results are ordered deterministically: ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if the run has no records.
func (s *Store) ReadRecords(ctx context.Context, token string) ([]ir.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_token, seq, op, type, dst, args, outcome_value, outcome_error
		FROM steps
		WHERE run_token = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	records := []ir.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}
	return records, nil
}

// ListRuns returns every stored run in the order they started.
func (s *Store) ListRuns(ctx context.Context) ([]ir.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, name, program_hash, started_seq, ir_version
		FROM runs
		ORDER BY started_seq ASC, token COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []ir.Run{}
	for rows.Next() {
		var run ir.Run
		if err := rows.Scan(&run.Token, &run.Name, &run.ProgramHash, &run.StartSeq, &run.IRVersion); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// LastSeq returns the highest seq stored, or 0 for an empty log.
// The CLI resumes the engine clock from it so seqs stay unique across runs
// sharing a database.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM steps
	`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}
	return seq, nil
}

func scanRecord(rows *sql.Rows) (ir.Record, error) {
	var (
		rec      ir.Record
		op       string
		argsJSON string
	)
	if err := rows.Scan(
		&rec.ID,
		&rec.RunToken,
		&rec.Seq,
		&op,
		&rec.Step.Type,
		&rec.Step.Dst,
		&argsJSON,
		&rec.Outcome.Value,
		&rec.Outcome.Error,
	); err != nil {
		return ir.Record{}, fmt.Errorf("scan step: %w", err)
	}
	rec.Step.Op = ir.Op(op)

	args, err := unmarshalArgs(argsJSON)
	if err != nil {
		return ir.Record{}, err
	}
	rec.Step.Args = args
	return rec, nil
}

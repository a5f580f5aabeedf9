package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/snug/internal/ir"
)

// ErrNoStore is returned by Replay on an engine built without a store.
var ErrNoStore = errors.New("engine has no store")

// Divergence is a stored record whose replayed outcome differs.
type Divergence struct {
	Seq      int64
	Step     ir.Step
	Recorded ir.Outcome
	Replayed ir.Outcome
}

// ReplayResult reports how a stored run compares to a fresh evaluation.
type ReplayResult struct {
	Run         ir.Run
	Steps       int
	HashMatches bool
	Divergences []Divergence
	Registers   *Registers
}

// Identical reports whether every outcome and the program hash matched.
func (r *ReplayResult) Identical() bool {
	return r.HashMatches && len(r.Divergences) == 0
}

// Replay re-evaluates the stored steps of run token on a fresh register
// set and compares each outcome with the recorded one. Nothing is written.
//
// Record IDs exclude the outcome, so each stored ID is also recomputed from
// the run token, seq and step; a mismatch means the stored step was altered
// and is reported as an error.
func (e *Engine) Replay(ctx context.Context, token string) (*ReplayResult, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	run, err := e.store.ReadRun(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", token, err)
	}
	records, err := e.store.ReadRecords(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("read records %s: %w", token, err)
	}

	prog := ir.Program{Name: run.Name, Steps: make([]ir.Step, len(records))}
	for i, rec := range records {
		prog.Steps[i] = rec.Step
	}
	hash, err := ir.ProgramHash(prog)
	if err != nil {
		return nil, fmt.Errorf("hash program %q: %w", run.Name, err)
	}

	res := &ReplayResult{
		Run:         run,
		Steps:       len(records),
		HashMatches: hash == run.ProgramHash,
		Registers:   NewRegisters(),
	}

	e.logger.Info("replay starting", "run", token, "records", len(records))

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id, err := ir.RecordID(token, rec.Seq, rec.Step)
		if err != nil {
			return nil, fmt.Errorf("record id: %w", err)
		}
		if id != rec.ID {
			return nil, fmt.Errorf("record seq %d: stored id %s does not match content id %s", rec.Seq, rec.ID, id)
		}

		outcome, err := Eval(res.Registers, rec.Step)
		if err != nil {
			var re *RuntimeError
			if errors.As(err, &re) {
				re.RunToken = token
				re.Step = i
			}
			return nil, err
		}
		if outcome != rec.Outcome {
			e.logger.Warn("replay diverged", "run", token, "seq", rec.Seq, "recorded", rec.Outcome.String(), "replayed", outcome.String())
			res.Divergences = append(res.Divergences, Divergence{
				Seq:      rec.Seq,
				Step:     rec.Step,
				Recorded: rec.Outcome,
				Replayed: outcome,
			})
		}
	}

	e.logger.Info("replay finished", "run", token, "identical", res.Identical())
	return res, nil
}

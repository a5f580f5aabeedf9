package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/snug/internal/ir"
	"github.com/roach88/snug/internal/store"
)

// DefaultMaxSteps bounds the length of a program the engine will run.
const DefaultMaxSteps = 10000

// Engine evaluates programs step by step over a fresh register set,
// stamping every evaluated step with a seq from its logical clock.
//
// When a store is attached, the run and each record are persisted as they
// are produced, so a run that aborts part way leaves its prefix on disk.
//
// An Engine may run many programs, but not concurrently: Run must be called
// from one goroutine at a time.
type Engine struct {
	store    *store.Store
	clock    *Clock
	tokens   RunTokenGenerator
	logger   *slog.Logger
	maxSteps int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMaxSteps sets the longest program Run accepts.
func WithMaxSteps(maxSteps int) EngineOption {
	return func(e *Engine) {
		e.maxSteps = maxSteps
	}
}

// WithClock replaces the engine's clock.
// Tests pass a clock shared with the store's expectations.
func WithClock(c *Clock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine. s may be nil to evaluate without persisting.
func New(s *store.Store, tokens RunTokenGenerator, opts ...EngineOption) *Engine {
	e := &Engine{
		store:    s,
		clock:    NewClock(),
		tokens:   tokens,
		logger:   slog.Default(),
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Clock returns the engine's logical clock.
func (e *Engine) Clock() *Clock {
	return e.clock
}

// Result is what a run produced.
type Result struct {
	Run       ir.Run
	Records   []ir.Record
	Registers *Registers
}

// Failures counts the records whose step was refused.
func (r *Result) Failures() int {
	n := 0
	for _, rec := range r.Records {
		if rec.Outcome.Failed() {
			n++
		}
	}
	return n
}

// Run evaluates p under a new run token.
//
// Arithmetic refusals are recorded and evaluation continues. A malformed
// step aborts the run with a *RuntimeError; the returned Result still holds
// the records evaluated before it.
func (e *Engine) Run(ctx context.Context, p ir.Program) (*Result, error) {
	token := e.tokens.Generate()

	if len(p.Steps) > e.maxSteps {
		return nil, NewQuotaError(token, len(p.Steps), e.maxSteps)
	}

	hash, err := ir.ProgramHash(p)
	if err != nil {
		return nil, fmt.Errorf("hash program %q: %w", p.Name, err)
	}

	res := &Result{
		Run: ir.Run{
			Token:       token,
			Name:        p.Name,
			ProgramHash: hash,
			StartSeq:    e.clock.Current(),
			IRVersion:   ir.IRVersion,
		},
		Records:   make([]ir.Record, 0, len(p.Steps)),
		Registers: NewRegisters(),
	}

	if e.store != nil {
		if err := e.store.WriteRun(ctx, res.Run); err != nil {
			return nil, fmt.Errorf("write run %s: %w", token, err)
		}
	}

	e.logger.Info("run starting", "run", token, "program", p.Name, "steps", len(p.Steps))

	for i, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		outcome, err := Eval(res.Registers, step)
		if err != nil {
			var re *RuntimeError
			if errors.As(err, &re) {
				re.RunToken = token
				re.Step = i
			}
			e.logger.Error("run aborted", "run", token, "step", i, "op", step.Op, "error", err)
			return res, err
		}

		rec, err := e.record(token, step, outcome)
		if err != nil {
			return res, err
		}
		if e.store != nil {
			if err := e.store.WriteRecord(ctx, rec); err != nil {
				return res, fmt.Errorf("write record %s: %w", rec.ID, err)
			}
		}
		res.Records = append(res.Records, rec)

		e.logger.Debug("step evaluated",
			"run", token,
			"seq", rec.Seq,
			"op", step.Op,
			"dst", step.Dst,
			"outcome", outcome.String(),
		)
	}

	e.logger.Info("run finished", "run", token, "records", len(res.Records), "failures", res.Failures())
	return res, nil
}

func (e *Engine) record(token string, step ir.Step, outcome ir.Outcome) (ir.Record, error) {
	seq := e.clock.Next()
	id, err := ir.RecordID(token, seq, step)
	if err != nil {
		return ir.Record{}, fmt.Errorf("record id: %w", err)
	}
	return ir.Record{
		ID:       id,
		RunToken: token,
		Seq:      seq,
		Step:     step,
		Outcome:  outcome,
	}, nil
}

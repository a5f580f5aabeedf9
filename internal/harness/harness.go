package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/snug/internal/engine"
	"github.com/roach88/snug/internal/store"
	"github.com/roach88/snug/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs on a fresh engine and in-memory store with a fixed run
// token and a clock starting at 0, so the same scenario always yields the
// same trace. The trace is read back from the store, which checks the
// persisted records as well as the evaluation.
//
// A step the engine cannot evaluate (for example an undefined register)
// aborts the run; the result then fails with the records that were produced
// before it. The returned error is reserved for infrastructure failures.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	eng := engine.New(st,
		testutil.NewFixedRunGenerator(scenario.RunToken),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	result := NewResult()

	res, runErr := eng.Run(ctx, scenario.Program())
	if res == nil {
		return nil, fmt.Errorf("run scenario %q: %w", scenario.Name, runErr)
	}
	result.RunToken = res.Run.Token
	if runErr != nil {
		if _, ok := engine.CodeOf(runErr); !ok {
			return nil, fmt.Errorf("run scenario %q: %w", scenario.Name, runErr)
		}
		result.AddError(fmt.Sprintf("run aborted: %v", runErr))
	}

	records, err := st.ReadRecords(ctx, res.Run.Token)
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	for _, rec := range records {
		result.AddRecord(rec)
	}
	result.Registers = res.Registers.Snapshot()

	for _, msg := range CheckExpectations(scenario, result.Trace) {
		result.AddError(msg)
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

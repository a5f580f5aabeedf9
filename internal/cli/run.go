package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/snug/internal/engine"
	"github.com/roach88/snug/internal/harness"
	"github.com/roach88/snug/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string

	// TokenGenerator allows overriding the run token generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	TokenGenerator engine.RunTokenGenerator
}

// RunOutput is the run command's result.
type RunOutput struct {
	RunToken  string               `json:"run_token"`
	Program   string               `json:"program"`
	Trace     []harness.TraceEvent `json:"trace"`
	Registers map[string]string    `json:"registers"`
	Failures  int                  `json:"failures"`
	Aborted   string               `json:"aborted,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Evaluate a scenario's steps through the engine",
		Long: `Evaluate the steps of a scenario file and print the trace.

Refused steps are part of the trace and do not stop the run. With --db the
run and every evaluated step are stored in a SQLite database (created if it
doesn't exist) for later trace and replay; the logical clock resumes after
the last stored step.

Expectations and assertions in the scenario are not checked here; use
"snug test" for that.

Exit codes:
  0 - Every step was evaluated
  1 - The run aborted on a malformed step
  2 - Command error (invalid scenario, database error, etc.)

Examples:
  snug run ./scenarios/int8_add_overflow.yaml
  snug run --db ./snug.db ./scenarios/uint8_boundaries.yaml --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarioFile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (optional)")

	return cmd
}

func runScenarioFile(opts *RunOptions, path string, cmd *cobra.Command) error {
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = store.MemoryPath
	}
	logger.Debug("opening database", "path", dbPath)
	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	last, err := st.LastSeq(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read last seq", err)
	}

	tokens := opts.TokenGenerator
	if tokens == nil {
		tokens = engine.UUIDv7Generator{}
	}
	eng := engine.New(st, tokens,
		engine.WithClock(engine.NewClockAt(last)),
		engine.WithLogger(logger),
	)

	res, runErr := eng.Run(ctx, scenario.Program())
	if res == nil {
		return WrapExitError(ExitCommandError, "failed to run scenario", runErr)
	}
	if runErr != nil {
		if _, ok := engine.CodeOf(runErr); !ok {
			return WrapExitError(ExitCommandError, "failed to run scenario", runErr)
		}
	}

	trace := harness.NewResult()
	for _, rec := range res.Records {
		trace.AddRecord(rec)
	}
	out := RunOutput{
		RunToken:  res.Run.Token,
		Program:   res.Run.Name,
		Trace:     trace.Trace,
		Registers: res.Registers.Snapshot(),
		Failures:  res.Failures(),
	}
	if runErr != nil {
		out.Aborted = runErr.Error()
	}

	if opts.Format == "json" {
		var cliErr *CLIError
		if runErr != nil {
			code, _ := engine.CodeOf(runErr)
			cliErr = &CLIError{Code: string(code), Message: runErr.Error()}
		}
		if err := respond(cmd.OutOrStdout(), out, cliErr); err != nil {
			return err
		}
	} else {
		outputRunText(cmd, out)
	}

	if runErr != nil {
		return &ExitError{Code: ExitFailure, Message: "run aborted", Err: runErr, Reported: true}
	}
	return nil
}

func outputRunText(cmd *cobra.Command, out RunOutput) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Run: %s (%s)\n", out.RunToken, out.Program)
	for _, ev := range out.Trace {
		fmt.Fprintf(w, "  [%d] %s\n", ev.Seq, harness.FormatEvent(ev))
	}
	fmt.Fprintf(w, "%d step(s), %d refused\n", len(out.Trace), out.Failures)
	if out.Aborted != "" {
		fmt.Fprintf(w, "✗ Aborted: %s\n", out.Aborted)
	}
}

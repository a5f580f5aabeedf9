package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/snug/internal/engine"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunToken string // optional - specific run only
}

// ReplayDivergence is a step whose replayed outcome differs from the stored one.
type ReplayDivergence struct {
	Seq      int64  `json:"seq"`
	Op       string `json:"op"`
	Recorded string `json:"recorded"`
	Replayed string `json:"replayed"`
}

// ReplayRunResult holds the replay result for a single run.
type ReplayRunResult struct {
	RunToken    string             `json:"run_token"`
	Name        string             `json:"name"`
	Steps       int                `json:"steps"`
	HashMatches bool               `json:"hash_matches"`
	Divergences []ReplayDivergence `json:"divergences,omitempty"`
	Identical   bool               `json:"identical"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs         []ReplayRunResult `json:"runs"`
	TotalRuns    int               `json:"total_runs"`
	AllIdentical bool              `json:"all_identical"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-evaluate stored runs and verify every outcome",
		Long: `Re-evaluate the stored steps of each run on fresh registers and compare
every outcome with the stored one.

A run is identical when its program hash matches the stored steps and no
replayed outcome differs. Steps of a run that aborted were never stored, so
its program hash does not match.

Exit codes:
  0 - All runs replay identically
  1 - A run diverged
  2 - Command error (database not found, tampered record, etc.)

Examples:
  snug replay --db ./snug.db
  snug replay --db ./snug.db --run <token>
  snug replay --db ./snug.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunToken, "run", "", "replay specific run only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	var tokens []string
	if opts.RunToken != "" {
		tokens = []string{opts.RunToken}
	} else {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		for _, r := range runs {
			tokens = append(tokens, r.Token)
		}
	}

	result := ReplayResult{
		Runs:         make([]ReplayRunResult, 0, len(tokens)),
		TotalRuns:    len(tokens),
		AllIdentical: true,
	}

	if len(tokens) == 0 {
		if opts.Format == "json" {
			return outputReplayJSON(cmd, result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No runs found in database.")
		return nil
	}

	eng := engine.New(st, engine.UUIDv7Generator{},
		engine.WithLogger(newLogger(opts.RootOptions, cmd.ErrOrStderr())))

	for _, token := range tokens {
		runResult, err := replayRun(ctx, eng, token)
		if errors.Is(err, sql.ErrNoRows) {
			return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", token))
		}
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", token), err)
		}
		result.Runs = append(result.Runs, runResult)
		if !runResult.Identical {
			result.AllIdentical = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	return outputReplayText(cmd.OutOrStdout(), result, opts.Verbose)
}

// replayRun re-evaluates one stored run.
func replayRun(ctx context.Context, eng *engine.Engine, token string) (ReplayRunResult, error) {
	res, err := eng.Replay(ctx, token)
	if err != nil {
		return ReplayRunResult{}, err
	}

	out := ReplayRunResult{
		RunToken:    token,
		Name:        res.Run.Name,
		Steps:       res.Steps,
		HashMatches: res.HashMatches,
		Identical:   res.Identical(),
	}
	for _, d := range res.Divergences {
		out.Divergences = append(out.Divergences, ReplayDivergence{
			Seq:      d.Seq,
			Op:       string(d.Step.Op),
			Recorded: d.Recorded.String(),
			Replayed: d.Replayed.String(),
		})
	}
	return out, nil
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	var cliErr *CLIError
	if !result.AllIdentical {
		cliErr = &CLIError{
			Code:    "E_DIVERGED",
			Message: "replay diverged from stored outcomes",
		}
	}
	if err := respond(cmd.OutOrStdout(), result, cliErr); err != nil {
		return err
	}

	if !result.AllIdentical {
		return NewReportedError(ExitFailure, "replay diverged from stored outcomes")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(w io.Writer, result ReplayResult, verbose bool) error {
	fmt.Fprintf(w, "Replay Summary: %d run(s)\n", result.TotalRuns)
	fmt.Fprintln(w)

	for _, run := range result.Runs {
		status := "✓"
		if !run.Identical {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Run: %s (%s)\n", status, run.RunToken, run.Name)
		fmt.Fprintf(w, "  Steps: %d\n", run.Steps)
		if verbose || !run.HashMatches {
			fmt.Fprintf(w, "  Program hash matches: %v\n", run.HashMatches)
		}
		for _, d := range run.Divergences {
			fmt.Fprintf(w, "  [%d] %s: stored %s, replayed %s\n", d.Seq, d.Op, d.Recorded, d.Replayed)
		}
		fmt.Fprintln(w)
	}

	if result.AllIdentical {
		fmt.Fprintln(w, "✓ All runs replay identically")
		return nil
	}

	fmt.Fprintln(w, "✗ Replay diverged from stored outcomes")
	return NewReportedError(ExitFailure, "replay diverged from stored outcomes")
}

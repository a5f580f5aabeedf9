package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/snug/internal/harness"
	"github.com/roach88/snug/internal/ir"
	"github.com/roach88/snug/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunToken string
	Op       string // optional - filter to one op
}

// TraceEvent represents a single stored step in the trace timeline.
type TraceEvent struct {
	harness.TraceEvent
	ID string `json:"id"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Run      ir.Run       `json:"run"`
	Timeline []TraceEvent `json:"timeline"`
	Stats    TraceStats   `json:"stats"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	TotalSteps int            `json:"total_steps"`
	Refused    int            `json:"refused"`
	ByKind     map[string]int `json:"by_kind,omitempty"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the stored steps of a run",
		Long: `Show the evaluated steps of a stored run in seq order.

Without --run, lists the runs stored in the database.

The output includes:
- Timeline: every evaluated step with its outcome
- Stats: step count and refusals per failure kind

Examples:
  snug trace --db ./snug.db
  snug trace --db ./snug.db --run 01890a5d-ac96-774b-bcce-b302099a8057
  snug trace --db ./snug.db --run <token> --op add --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunToken, "run", "", "run token to trace")
	cmd.Flags().StringVar(&opts.Op, "op", "", "filter to a specific op")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	if opts.RunToken == "" {
		return listRuns(ctx, st, opts.RootOptions, cmd)
	}

	run, err := st.ReadRun(ctx, opts.RunToken)
	if errors.Is(err, sql.ErrNoRows) {
		return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", opts.RunToken))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	records, err := st.ReadRecords(ctx, opts.RunToken)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read records", err)
	}

	result := TraceResult{
		Run:      run,
		Timeline: buildTimeline(records, opts.Op),
		Stats:    TraceStats{ByKind: make(map[string]int)},
	}
	for _, rec := range records {
		result.Stats.TotalSteps++
		if rec.Outcome.Failed() {
			result.Stats.Refused++
			result.Stats.ByKind[rec.Outcome.Error]++
		}
	}

	if opts.Format == "json" {
		return respond(cmd.OutOrStdout(), result, nil)
	}
	return outputTraceText(cmd, result, opts.Verbose)
}

// openExisting opens a database file that must already exist. store.Open
// would silently create an empty one.
func openExisting(path string) (*store.Store, error) {
	if !fileExists(path) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", path))
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// buildTimeline converts stored records to timeline events.
// When opFilter is set, only steps with that op are included.
func buildTimeline(records []ir.Record, opFilter string) []TraceEvent {
	conv := harness.NewResult()
	timeline := make([]TraceEvent, 0, len(records))
	for _, rec := range records {
		if opFilter != "" && string(rec.Step.Op) != opFilter {
			continue
		}
		conv.AddRecord(rec)
		timeline = append(timeline, TraceEvent{
			TraceEvent: conv.Trace[len(conv.Trace)-1],
			ID:         rec.ID,
		})
	}
	return timeline
}

// RunSummary is one line of the run listing.
type RunSummary struct {
	Token       string `json:"token"`
	Name        string `json:"name"`
	StartSeq    int64  `json:"start_seq"`
	ProgramHash string `json:"program_hash"`
}

func listRuns(ctx context.Context, st *store.Store, opts *RootOptions, cmd *cobra.Command) error {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	summaries := make([]RunSummary, len(runs))
	for i, r := range runs {
		summaries[i] = RunSummary{Token: r.Token, Name: r.Name, StartSeq: r.StartSeq, ProgramHash: r.ProgramHash}
	}

	if opts.Format == "json" {
		return respond(cmd.OutOrStdout(), summaries, nil)
	}

	w := cmd.OutOrStdout()
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No runs found in database.")
		return nil
	}
	for _, s := range summaries {
		fmt.Fprintf(w, "%s  %s\n", s.Token, s.Name)
	}
	return nil
}

// outputTraceText outputs the trace as text.
func outputTraceText(cmd *cobra.Command, result TraceResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Run: %s (%s)\n", result.Run.Token, result.Run.Name)
	if verbose {
		fmt.Fprintf(w, "Program hash: %s\n", result.Run.ProgramHash)
		fmt.Fprintf(w, "IR version: %s\n", result.Run.IRVersion)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Timeline:")
	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "  (no steps)")
	}
	for _, ev := range result.Timeline {
		fmt.Fprintf(w, "  [%d] %s\n", ev.Seq, harness.FormatEvent(ev.TraceEvent))
		if verbose {
			fmt.Fprintf(w, "       id: %s\n", ev.ID)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Stats: %d step(s), %d refused\n", result.Stats.TotalSteps, result.Stats.Refused)
	kinds := make([]string, 0, len(result.Stats.ByKind))
	for k := range result.Stats.ByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "  %s: %d\n", k, result.Stats.ByKind[k])
	}
	return nil
}

package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wardi/bar-foo/internal/ir"
	"github.com/wardi/bar-foo/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - without it, runs are listed
	Name     string // optional - filter to one attribute name
}

// TraceResult holds the trace of one run.
type TraceResult struct {
	Run      ir.RunRecord          `json:"run"`
	Timeline []ir.ResolutionRecord `json:"timeline"`
	Summary  store.RunSummary      `json:"summary"`
}

// RunListing is one row of the run list.
type RunListing struct {
	ir.RunRecord
	Events   int `json:"events"`
	Failures int `json:"failures"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show recorded resolutions",
		Long: `Show the resolutions recorded by "barfoo run".

Without --run, lists every recorded run. With --run, prints the run's
timeline in seq order (which step answered each operation and which class
owned the entry) followed by per-step counts.

Examples:
  barfoo trace --db ./trace.db
  barfoo trace --db ./trace.db --run 0192...
  barfoo trace --db ./trace.db --run 0192... --name foo --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run ID to show")
	cmd.Flags().StringVar(&opts.Name, "name", "", "filter to one attribute name")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if opts.RunID == "" {
		return listRuns(ctx, st, formatter)
	}

	summary, err := st.GetRunSummary(ctx, opts.RunID)
	if errors.Is(err, sql.ErrNoRows) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("run not found: %s", opts.RunID))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to summarize run", err)
	}

	recs, err := st.ReadResolutions(ctx, opts.RunID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read resolutions", err)
	}

	run := ir.RunRecord{ID: summary.RunID, Label: summary.Label, SpecHash: summary.SpecHash}
	runs, err := st.ReadRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read runs", err)
	}
	for _, r := range runs {
		if r.ID == opts.RunID {
			run = r
		}
	}

	result := TraceResult{
		Run:      run,
		Timeline: filterByName(recs, opts.Name),
		Summary:  summary,
	}
	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	outputTraceText(formatter.Writer, result, opts.Verbose)
	return nil
}

func listRuns(ctx context.Context, st *store.Store, formatter *OutputFormatter) error {
	runs, err := st.ReadRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read runs", err)
	}

	listings := make([]RunListing, 0, len(runs))
	for _, run := range runs {
		summary, err := st.GetRunSummary(ctx, run.ID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to summarize run", err)
		}
		listings = append(listings, RunListing{RunRecord: run, Events: summary.Count, Failures: summary.Failures})
	}

	if formatter.IsJSON() {
		return formatter.Success(listings)
	}

	w := formatter.Writer
	if len(listings) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, l := range listings {
		fmt.Fprintf(w, "%s  %-20s %3d events  %d failed\n", l.ID, l.Label, l.Events, l.Failures)
	}
	return nil
}

// filterByName keeps records for one attribute name. Empty keeps all.
func filterByName(recs []ir.ResolutionRecord, name string) []ir.ResolutionRecord {
	if name == "" {
		return recs
	}
	out := []ir.ResolutionRecord{}
	for _, rec := range recs {
		if rec.Name == name {
			out = append(out, rec)
		}
	}
	return out
}

// outputTraceText outputs the trace result as text.
func outputTraceText(w io.Writer, result TraceResult, verbose bool) {
	fmt.Fprintf(w, "Trace for Run: %s (%s)\n", result.Run.ID, result.Run.Label)
	if verbose {
		fmt.Fprintf(w, "Spec Hash: %s\n", result.Run.SpecHash)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Timeline ===")
	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "  (no events)")
	}
	for _, rec := range result.Timeline {
		formatRecord(w, rec)
	}
	fmt.Fprintln(w)

	s := result.Summary
	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Total Events: %d\n", s.Count)
	fmt.Fprintf(w, "  Failures:     %d\n", s.Failures)
	for _, step := range s.Steps() {
		label := step
		if label == "" {
			label = "(none)"
		}
		fmt.Fprintf(w, "  %-14s %d\n", label+":", s.ByStep[step])
	}
	if len(s.Gaps) > 0 {
		fmt.Fprintf(w, "  Missing seqs: %v\n", s.Gaps)
	}
}

// formatRecord formats a single timeline record for text output.
func formatRecord(w io.Writer, rec ir.ResolutionRecord) {
	fmt.Fprintf(w, "  [%d] %-10s %s", rec.Seq, rec.Op, truncateID(rec.Target))
	if rec.Name != "" {
		fmt.Fprintf(w, ".%s", rec.Name)
	}
	switch {
	case rec.Error != "":
		fmt.Fprintf(w, " ! %s", rec.Error)
	case rec.Value != "":
		fmt.Fprintf(w, " = %s", rec.Value)
	}
	if rec.Step != "" {
		fmt.Fprintf(w, " (%s", rec.Step)
		if rec.Owner != "" {
			fmt.Fprintf(w, " from %s", rec.Owner)
		}
		fmt.Fprint(w, ")")
	}
	fmt.Fprintln(w)
}

// truncateID truncates a long ID for display.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "..." + id[len(id)-8:]
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardi/bar-foo/internal/harness"
	"github.com/wardi/bar-foo/internal/object"
	"github.com/wardi/bar-foo/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	RunID    string

	// RunIDs overrides the run ID generator used when --run is empty
	// (for testing). If nil, defaults to UUIDv7Generator.
	RunIDs object.IDGenerator
}

// RunResult summarizes a recorded scenario run.
type RunResult struct {
	RunID    string   `json:"run_id"`
	Scenario string   `json:"scenario"`
	SpecHash string   `json:"spec_hash"`
	Pass     bool     `json:"pass"`
	Events   int      `json:"events"`
	Errors   []string `json:"errors,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <specs-dir> <scenario.yaml>",
		Short: "Run a scenario and record its trace",
		Long: `Run one conformance scenario and record every resolution in a SQLite
database (created if it doesn't exist), together with a snapshot of each
class's parents and linearization.

Spec paths in the scenario are resolved relative to <specs-dir>.

Example:
  barfoo run --db ./trace.db ./specs ./scenarios/bar_foo.yaml
  barfoo trace --db ./trace.db`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarioCmd(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run ID to record under (default: a new UUIDv7)")

	return cmd
}

func runScenarioCmd(opts *RunOptions, specsDir, scenarioFile string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := formatter.Logger()

	scenario, err := harness.LoadScenarioWithBasePath(scenarioFile, specsDir)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeLoadFailed, err.Error())
	}

	logger.Info("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	runID := opts.RunID
	if runID == "" {
		gen := opts.RunIDs
		if gen == nil {
			gen = object.UUIDv7Generator{}
		}
		runID = gen.Generate()
	}

	logger.Info("running scenario", "scenario", scenario.Name, "run", runID)
	result, err := harness.RunWith(scenario, harness.Options{Store: st, RunID: runID, Logger: logger})
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("scenario %s: %v", scenario.Name, err))
	}

	out := RunResult{
		RunID:    runID,
		Scenario: scenario.Name,
		SpecHash: result.SpecHash,
		Pass:     result.Pass,
		Events:   len(result.Trace),
		Errors:   result.Errors,
	}

	if formatter.IsJSON() {
		resp := CLIResponse{Status: "ok", Data: out}
		if !out.Pass {
			resp.Status = "error"
			resp.Error = &CLIError{Code: "E_SCENARIO_FAILED", Message: fmt.Sprintf("scenario %s failed", out.Scenario)}
		}
		if err := formatter.encode(resp); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		mark := "✓"
		if !out.Pass {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s (run %s, %d events)\n", mark, out.Scenario, out.RunID, out.Events)
		for _, e := range out.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}

	if !out.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", out.Scenario))
	}
	return nil
}

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wardi/bar-foo/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Golden string   `json:"golden,omitempty"` // "match", "updated" or "none"
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <specs-dir> <scenarios-dir>",
		Short: "Run conformance scenarios",
		Long: `Run every scenario file under <scenarios-dir> against the specs.

A scenario passes when every expect clause and assertion holds and, if
<scenarios-dir>/golden/<name>.golden exists, its trace matches the golden
file byte for byte. Spec paths in scenarios are relative to <specs-dir>.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  barfoo test ./specs ./scenarios
  barfoo test ./specs ./scenarios --filter "bar*"
  barfoo test ./specs ./scenarios --update
  barfoo test ./specs ./scenarios --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, specsDir, scenariosDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if _, err := os.Stat(specsDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("specs directory not found: %s", specsDir))
	}

	scenarioFiles, err := harness.DiscoverScenarios(scenariosDir, opts.Filter)
	var notFound *harness.ScenarioDirNotFoundError
	if errors.As(err, &notFound) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(scenarioFiles)),
		Total:     len(scenarioFiles),
	}
	if len(scenarioFiles) == 0 {
		if formatter.IsJSON() {
			return outputTestJSON(formatter, result)
		}
		fmt.Fprintln(formatter.Writer, "No scenarios found.")
		return nil
	}

	for _, scenarioFile := range scenarioFiles {
		scenResult := runScenario(scenarioFile, specsDir, opts)
		formatter.VerboseLog("%s: pass=%v golden=%s", scenarioFile, scenResult.Pass, scenResult.Golden)
		if !formatter.IsJSON() {
			printScenarioResult(formatter, scenResult)
		}

		result.Scenarios = append(result.Scenarios, scenResult)
		if scenResult.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if formatter.IsJSON() {
		return outputTestJSON(formatter, result)
	}
	return outputTestText(formatter, result)
}

// runScenario executes a single scenario and returns the result.
func runScenario(scenarioFile, specsDir string, opts *TestOptions) ScenarioResult {
	fail := func(name string, format string, args ...any) ScenarioResult {
		return ScenarioResult{Name: name, Pass: false, Errors: []string{fmt.Sprintf(format, args...)}}
	}

	scenario, err := harness.LoadScenarioWithBasePath(scenarioFile, specsDir)
	if err != nil {
		return fail(filepath.Base(scenarioFile), "failed to load scenario: %v", err)
	}

	result, err := harness.Run(scenario)
	if err != nil {
		return fail(scenario.Name, "execution failed: %v", err)
	}

	snapshot, err := harness.Snapshot(scenario.Name, result)
	if err != nil {
		return fail(scenario.Name, "failed to snapshot trace: %v", err)
	}

	goldenPath := harness.GoldenPath(scenarioFile)
	out := ScenarioResult{Name: scenario.Name, Pass: result.Pass, Errors: result.Errors}

	if opts.Update {
		if err := writeGoldenFile(goldenPath, snapshot); err != nil {
			return fail(scenario.Name, "failed to update golden file: %v", err)
		}
		out.Golden = "updated"
		return out
	}

	golden, err := os.ReadFile(goldenPath)
	switch {
	case os.IsNotExist(err):
		// No golden file - expect clauses and assertions only.
		out.Golden = "none"
	case err != nil:
		return fail(scenario.Name, "failed to read golden file: %v", err)
	case !bytes.Equal(golden, snapshot):
		out.Pass = false
		out.Golden = "mismatch"
		out.Errors = append(out.Errors, "trace does not match golden file (run with --update to regenerate)")
	default:
		out.Golden = "match"
	}
	return out
}

// writeGoldenFile writes a trace snapshot, creating the golden directory.
func writeGoldenFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

func printScenarioResult(formatter *OutputFormatter, r ScenarioResult) {
	w := formatter.Writer
	if r.Pass {
		if r.Golden == "updated" {
			fmt.Fprintf(w, "✓ %s (golden updated)\n", r.Name)
		} else {
			fmt.Fprintf(w, "✓ %s\n", r.Name)
		}
		return
	}
	fmt.Fprintf(w, "✗ %s\n", r.Name)
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(formatter *OutputFormatter, result TestResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_TEST_FAILED",
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}

	if err := formatter.encode(response); err != nil {
		return err
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// outputTestText outputs the test summary as text.
func outputTestText(formatter *OutputFormatter, result TestResult) error {
	w := formatter.Writer

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}

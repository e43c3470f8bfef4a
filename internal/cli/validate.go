package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardi/bar-foo/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool                       `json:"valid"`
	Classes int                        `json:"classes"`
	Errors  []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <specs-dir>",
		Short: "Validate class specs",
		Long: `Compile and validate the CUE class specs in a directory.

Reports every compile error, unknown or duplicate parent, inheritance
cycle and class whose parents cannot be linearized.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loadResult, loadErrors := LoadSpecs(specsDir, LoadModeCollectAll)
	if loadResult == nil {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return formatter.Fail(ExitCommandError, loadErr.Code, loadErr.Message)
		}
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, loadErrors[0].Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, specsDir)

	var validationErrors []compiler.ValidationError
	for _, err := range loadErrors {
		ve := compiler.ValidationError{Field: "load", Message: err.Error(), Code: ErrCodeGeneric}
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			ve.Message = loadErr.Error()
			ve.Code = loadErr.Code
		}
		validationErrors = append(validationErrors, ve)
	}

	// Spec-set rules are only meaningful once every class compiled.
	if len(validationErrors) == 0 {
		validationErrors = compiler.Validate(loadResult.Classes)
	}

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, len(loadResult.Classes), validationErrors)
	}

	if formatter.IsJSON() {
		return formatter.Success(ValidationResult{Valid: true, Classes: len(loadResult.Classes)})
	}
	fmt.Fprintf(formatter.Writer, "✓ All specs valid (%d classes)\n", len(loadResult.Classes))
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, classes int, errs []compiler.ValidationError) error {
	failure := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.IsJSON() {
		if err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Classes: classes, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}); err != nil {
			return err
		}
		return failure
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s\n", err.Error())
	}
	return failure
}

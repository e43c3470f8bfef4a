package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wardi/bar-foo/internal/object"
)

// MROResult is the linearization of one class.
type MROResult struct {
	Class   string   `json:"class"`
	Parents []string `json:"parents"`
	MRO     []string `json:"mro"`
}

// NewMROCommand creates the mro command.
func NewMROCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mro <specs-dir> <class>",
		Short: "Print a class's method resolution order",
		Long: `Build the classes in a spec directory and print the C3 linearization
of one of them: the class itself, then its ancestors in lookup order.

Example:
  barfoo mro ./specs Bar`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMRO(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runMRO(opts *RootOptions, specsDir, className string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	reg, err := buildRegistry(specsDir)
	if err != nil {
		return formatter.Fail(ExitCommandError, errorCode(err), err.Error())
	}

	c, ok := reg.Lookup(className)
	if !ok {
		return formatter.Fail(ExitCommandError, ErrCodeUnknownClass, fmt.Sprintf("unknown class %q", className))
	}

	result := MROResult{
		Class:   c.Name(),
		Parents: object.Names(c.Parents()),
		MRO:     object.Names(c.MRO()),
	}
	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	fmt.Fprintln(formatter.Writer, strings.Join(result.MRO, " -> "))
	return nil
}

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wardi/bar-foo/internal/compiler"
	"github.com/wardi/bar-foo/internal/engine"
	"github.com/wardi/bar-foo/internal/ir"
	"github.com/wardi/bar-foo/internal/object"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	*RootOptions
	Set        []string // name=value writes applied before the read
	ClassLevel bool
	MaxDepth   int

	// IDs overrides the instance ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs object.IDGenerator
}

// ResolveResult describes one explained read.
type ResolveResult struct {
	Target string   `json:"target"` // Instance ID, or the class for --class-level
	Class  string   `json:"class"`
	Name   string   `json:"name"`
	Step   string   `json:"step"`
	Owner  string   `json:"owner,omitempty"`
	Value  any      `json:"value"`
	MRO    []string `json:"mro"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	return newResolveCommand(&ResolveOptions{RootOptions: rootOpts})
}

func newResolveCommand(opts *ResolveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <specs-dir> <class> <name>",
		Short: "Explain how an attribute read resolves",
		Long: `Build the classes in a spec directory, create an instance of <class>,
apply any --set writes, then read <name> and report which step answered
and which class supplied the value.

Values given to --set are YAML scalars or flow collections. Null and
empty values are rejected; write name='""' for an empty string.

Examples:
  barfoo resolve ./specs Bar foo
  barfoo resolve ./specs Bar foo --set foo=beer
  barfoo resolve ./specs Bar foo --class-level --format json`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(opts, args[0], args[1], args[2], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "write name=value on the instance before reading (repeatable)")
	cmd.Flags().BoolVar(&opts.ClassLevel, "class-level", false, "read from the class instead of an instance")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "nested resolution limit (0 keeps the default)")

	return cmd
}

func runResolve(opts *ResolveOptions, specsDir, className, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.ClassLevel && len(opts.Set) > 0 {
		return formatter.Fail(ExitCommandError, ErrCodeBadArgument, "--set cannot be combined with --class-level")
	}
	if opts.MaxDepth < 0 {
		return formatter.Fail(ExitCommandError, ErrCodeBadArgument, "--max-depth must be non-negative")
	}
	writes, err := parseAssignments(opts.Set)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadArgument, err.Error())
	}

	ids := opts.IDs
	if ids == nil {
		ids = object.UUIDv7Generator{}
	}
	reg, err := buildRegistry(specsDir, object.WithIDGenerator(ids))
	if err != nil {
		return formatter.Fail(ExitCommandError, errorCode(err), err.Error())
	}
	c, ok := reg.Lookup(className)
	if !ok {
		return formatter.Fail(ExitCommandError, ErrCodeUnknownClass, fmt.Sprintf("unknown class %q", className))
	}

	engineOpts := []engine.Option{engine.WithLogger(formatter.Logger())}
	if opts.MaxDepth > 0 {
		engineOpts = append(engineOpts, engine.WithMaxDepth(opts.MaxDepth))
	}
	resolver := engine.New(engineOpts...)

	var res engine.Resolution
	if opts.ClassLevel {
		res, err = resolver.ExplainClass(c, name)
	} else {
		inst := reg.NewInstance(c)
		for _, w := range writes {
			formatter.VerboseLog("set %s.%s = %s", inst.ID(), w.name, ir.Describe(w.value))
			if err := resolver.Write(inst, w.name, w.value); err != nil {
				return formatter.Fail(ExitFailure, errorCode(err), fmt.Sprintf("--set %s: %v", w.name, err))
			}
		}
		res, err = resolver.Explain(inst, name)
	}
	if err != nil {
		return formatter.Fail(ExitFailure, errorCode(err), err.Error())
	}

	result := ResolveResult{
		Target: res.Target,
		Class:  res.Class,
		Name:   name,
		Step:   string(res.Step),
		Owner:  res.Owner,
		Value:  displayValue(res.Value),
		MRO:    object.Names(c.MRO()),
	}
	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%s.%s = %s\n", result.Target, result.Name, ir.Describe(result.Value))
	fmt.Fprintf(w, "  step:  %s\n", result.Step)
	if result.Owner != "" {
		fmt.Fprintf(w, "  owner: %s\n", result.Owner)
	}
	fmt.Fprintf(w, "  mro:   %s\n", strings.Join(result.MRO, " -> "))
	return nil
}

type assignment struct {
	name  string
	value any
}

// parseAssignments parses name=value flags. Values are decoded as YAML,
// so 3 is an int, true a bool and [a, b] a list. A value that decodes to
// null (empty, null, ~) is an error.
func parseAssignments(pairs []string) ([]assignment, error) {
	out := make([]assignment, 0, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("--set %q: expected name=value", pair)
		}
		var decoded any
		if err := yaml.Unmarshal([]byte(raw), &decoded); err != nil {
			return nil, fmt.Errorf("--set %s: %w", name, err)
		}
		if decoded == nil {
			return nil, fmt.Errorf("--set %s: value is empty or null; quote it (%s=\"\") for an empty string", name, name)
		}
		lit, err := ir.FromGo(decoded)
		if err != nil {
			return nil, fmt.Errorf("--set %s: %w", name, err)
		}
		out = append(out, assignment{name: name, value: ir.ToGo(lit)})
	}
	return out, nil
}

// displayValue returns v when it is a literal tree and its %v text
// otherwise (bound methods).
func displayValue(v any) any {
	if v == nil {
		return nil
	}
	if lit, err := ir.FromGo(v); err == nil {
		return ir.ToGo(lit)
	}
	return fmt.Sprintf("%v", v)
}

// errorCode picks the most specific code carried by err.
func errorCode(err error) string {
	var attrErr *object.AttributeError
	if errors.As(err, &attrErr) {
		return string(attrErr.Code)
	}
	var hierErr *object.HierarchyError
	if errors.As(err, &hierErr) {
		return string(hierErr.Code)
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	var validationErr compiler.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Code
	}
	return ErrCodeGeneric
}

package harness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wardi/bar-foo/internal/ir"
	"github.com/wardi/bar-foo/internal/object"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s\n", ev.Seq, describeEvent(ev))
		}
	}

	return buf.String()
}

// describeEvent renders one event on a single line.
func describeEvent(ev TraceEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", ev.Op, ev.Target)
	if ev.Name != "" {
		fmt.Fprintf(&b, ".%s", ev.Name)
	}
	if ev.Step != "" {
		fmt.Fprintf(&b, " step=%s", ev.Step)
	}
	if ev.Owner != "" {
		fmt.Fprintf(&b, " owner=%s", ev.Owner)
	}
	if ev.Error != "" {
		fmt.Fprintf(&b, " error=%q", ev.Error)
	} else if ev.Value != nil {
		fmt.Fprintf(&b, " value=%s", ir.Describe(ev.Value))
	}
	return b.String()
}

// matchEvent reports whether ev matches every non-empty filter field.
func matchEvent(ev TraceEvent, a Assertion) bool {
	return (a.Op == "" || ev.Op == a.Op) &&
		(a.Name == "" || ev.Name == a.Name) &&
		(a.Step == "" || ev.Step == a.Step) &&
		(a.Owner == "" || ev.Owner == a.Owner)
}

// describeFilter renders the assertion's filter fields.
func describeFilter(a Assertion) string {
	var parts []string
	if a.Op != "" {
		parts = append(parts, "op="+a.Op)
	}
	if a.Name != "" {
		parts = append(parts, "name="+a.Name)
	}
	if a.Step != "" {
		parts = append(parts, "step="+a.Step)
	}
	if a.Owner != "" {
		parts = append(parts, "owner="+a.Owner)
	}
	return strings.Join(parts, " ")
}

// assertTraceContains checks if any event matches the filter.
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, ev := range trace {
		if matchEvent(ev, assertion) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("event with %s", describeFilter(assertion)),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the named attributes appear in the given
// order (not necessarily adjacent).
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	next := 0
	for _, ev := range trace {
		if next < len(assertion.Names) && ev.Name == assertion.Names[next] {
			next++
		}
	}
	if next == len(assertion.Names) {
		return nil
	}

	var seen []string
	for _, ev := range trace {
		if ev.Name != "" {
			seen = append(seen, ev.Name)
		}
	}
	return &AssertionError{
		Type:     AssertTraceOrder,
		Expected: fmt.Sprintf("names in order: [%s]", strings.Join(assertion.Names, ", ")),
		Actual:   fmt.Sprintf("trace names: [%s] (first missing: %s)", strings.Join(seen, ", "), assertion.Names[next]),
		Trace:    trace,
	}
}

// assertTraceCount checks that exactly Count events match the filter.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, ev := range trace {
		if matchEvent(ev, assertion) {
			count++
		}
	}
	if count == assertion.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceCount,
		Expected: fmt.Sprintf("%d events with %s", assertion.Count, describeFilter(assertion)),
		Actual:   fmt.Sprintf("%d events", count),
		Trace:    trace,
	}
}

// assertFinalState checks an instance's own attribute table directly,
// bypassing resolution.
func assertFinalState(vars map[string]*object.Instance, assertion Assertion) error {
	inst, ok := vars[assertion.Target]
	if !ok {
		return fmt.Errorf("final_state: undefined variable %q", assertion.Target)
	}

	keys := make([]string, 0, len(assertion.Attrs))
	for k := range assertion.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var problems []string
	for _, k := range keys {
		want := ir.Describe(assertion.Attrs[k])
		got, ok := inst.Attr(k)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: missing, expected %s", k, want))
			continue
		}
		if g := ir.Describe(got); g != want {
			problems = append(problems, fmt.Sprintf("%s: %s, expected %s", k, g, want))
		}
	}
	for _, k := range assertion.Absent {
		if v, ok := inst.Attr(k); ok {
			problems = append(problems, fmt.Sprintf("%s: present (%s), expected absent", k, ir.Describe(v)))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertFinalState,
		Expected: fmt.Sprintf("instance %s (%s) table matches", assertion.Target, inst.ID()),
		Actual:   strings.Join(problems, "; "),
	}
}

// AssertionContext provides the run state needed by final_state
// assertions.
type AssertionContext struct {
	Vars map[string]*object.Instance
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertFinalState:
			if actx == nil {
				err = fmt.Errorf("assertion[%d]: final_state requires run context", i)
			} else {
				err = assertFinalState(actx.Vars, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardi/bar-foo/internal/object"
)

func sampleTrace() []TraceEvent {
	return []TraceEvent{
		{Seq: 1, Op: OpNew, Target: "obj-1", Class: "Bar", Name: "b", Value: "obj-1"},
		{Seq: 2, Op: "read", Target: "obj-1", Class: "Bar", Name: "foo", Step: "class", Owner: "Drinking", Value: "drinks"},
		{Seq: 3, Op: "write", Target: "obj-1", Class: "Bar", Name: "foo", Step: "instance", Value: "beer"},
		{Seq: 4, Op: "read", Target: "obj-1", Class: "Bar", Name: "foo", Step: "instance", Owner: "obj-1", Value: "beer"},
		{Seq: 5, Op: "read", Target: "obj-1", Class: "Bar", Name: "nope", Error: "NOT_FOUND: attribute not found (class=Bar, attr=nope)"},
	}
}

func TestAssertTraceContains(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceContains(trace, Assertion{Op: "read", Owner: "Drinking"}))
	assert.NoError(t, assertTraceContains(trace, Assertion{Name: "foo", Step: "instance"}))

	err := assertTraceContains(trace, Assertion{Op: "delete"})
	require.Error(t, err)
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, AssertTraceContains, ae.Type)
	assert.Equal(t, "event with op=delete", ae.Expected)
	assert.Contains(t, err.Error(), "Full trace:")
	assert.Contains(t, err.Error(), `[2] read obj-1.foo step=class owner=Drinking value="drinks"`)
	assert.Contains(t, err.Error(), `[5] read obj-1.nope error="NOT_FOUND`)
}

func TestAssertTraceOrder(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceOrder(trace, Assertion{Names: []string{"b", "foo", "nope"}}))
	assert.NoError(t, assertTraceOrder(trace, Assertion{Names: []string{"foo", "foo", "foo"}}))

	err := assertTraceOrder(trace, Assertion{Names: []string{"nope", "foo"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "names in order: [nope, foo]")
	assert.Contains(t, err.Error(), "first missing: foo")
}

func TestAssertTraceCount(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceCount(trace, Assertion{Op: "read", Count: 3}))
	assert.NoError(t, assertTraceCount(trace, Assertion{Step: "instance", Count: 2}))
	assert.NoError(t, assertTraceCount(trace, Assertion{Op: "delete", Count: 0}))

	err := assertTraceCount(trace, Assertion{Op: "read", Name: "foo", Count: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 events with op=read name=foo")
	assert.Contains(t, err.Error(), "Actual: 2 events")
}

func TestAssertFinalState(t *testing.T) {
	reg := object.NewRegistry()
	c, err := reg.Define("Thing")
	require.NoError(t, err)
	inst := reg.NewInstance(c)
	inst.SetAttr("n", int64(3))
	inst.SetAttr("s", "x")
	vars := map[string]*object.Instance{"t": inst}

	assert.NoError(t, assertFinalState(vars, Assertion{
		Target: "t",
		Attrs:  map[string]any{"n": 3, "s": "x"},
		Absent: []string{"gone"},
	}))

	err = assertFinalState(vars, Assertion{
		Target: "t",
		Attrs:  map[string]any{"n": 4, "missing": true},
		Absent: []string{"s"},
	})
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "missing: missing, expected true")
	assert.Contains(t, msg, "n: 3, expected 4")
	assert.Contains(t, msg, `s: present ("x"), expected absent`)

	err = assertFinalState(vars, Assertion{Target: "ghost", Absent: []string{"x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `undefined variable "ghost"`)
}

func TestEvaluateAssertions(t *testing.T) {
	result := NewResult()
	for _, ev := range sampleTrace() {
		result.addEvent(ev)
	}

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertTraceContains, Op: "read"},
		{Type: AssertTraceCount, Op: "write", Count: 1},
		{Type: AssertTraceCount, Op: "write", Count: 2},
		{Type: AssertFinalState, Target: "b", Absent: []string{"x"}},
		{Type: "bogus"},
	}, nil)

	require.Len(t, errs, 3)
	assert.Contains(t, errs[0], "2 events with op=write")
	assert.Contains(t, errs[1], "assertion[3]: final_state requires run context")
	assert.Contains(t, errs[2], `assertion[4]: unknown assertion type "bogus"`)
}

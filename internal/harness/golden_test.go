package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_BarFoo(t *testing.T) {
	require.NoError(t, RunWithGolden(t, loadTestScenario(t, "bar_foo")))
}

func TestRunWithGolden_Diamond(t *testing.T) {
	require.NoError(t, RunWithGolden(t, loadTestScenario(t, "diamond")))
}

func TestSnapshot_OmitsEmptyFields(t *testing.T) {
	result := NewResult()
	result.addEvent(TraceEvent{Seq: 1, Op: "delete", Target: "obj-1", Name: "foo", Step: "instance"})
	result.addEvent(TraceEvent{Seq: 2, Op: "read", Target: "obj-1", Name: "n", Value: int64(0)})

	data, err := Snapshot("tiny", result)
	require.NoError(t, err)
	assert.Equal(t,
		`{"scenario_name":"tiny","trace":[`+
			`{"name":"foo","op":"delete","seq":1,"step":"instance","target":"obj-1"},`+
			`{"name":"n","op":"read","seq":2,"target":"obj-1","value":0}]}`,
		string(data))
}

func TestSnapshot_Empty(t *testing.T) {
	data, err := Snapshot("empty", NewResult())
	require.NoError(t, err)
	assert.Equal(t, `{"scenario_name":"empty","trace":[]}`, string(data))
}

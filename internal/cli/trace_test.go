package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedDB runs the bar scenario into a fresh database as run-1.
func recordedDB(t *testing.T) string {
	t.Helper()
	f := newRunFixture(t, map[string]string{"bar_foo.yaml": barScenario})
	_, err := runCmd("text")("--db", f.db, f.specsDir, f.scenario("bar_foo.yaml"))
	require.NoError(t, err)
	return f.db
}

func TestTrace_ListRuns(t *testing.T) {
	db := recordedDB(t)

	output, err := executeRoot("trace", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, output, "run-1")
	assert.Contains(t, output, "bar_foo")
	assert.Contains(t, output, "4 events")
}

func TestTrace_ListRunsEmpty(t *testing.T) {
	output, err := executeRoot("trace", "--db", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	assert.Contains(t, output, "No runs recorded.")
}

func TestTrace_Run(t *testing.T) {
	db := recordedDB(t)

	output, err := executeRoot("trace", "--db", db, "--run", "run-1")
	require.NoError(t, err)
	assert.Contains(t, output, "Trace for Run: run-1 (bar_foo)")
	assert.Contains(t, output, `obj-1.foo = "drinks" (class from Drinking)`)
	assert.Contains(t, output, `obj-1.foo = "beer" (instance)`)
	assert.Contains(t, output, "Total Events: 4")
	assert.Contains(t, output, "Failures:     0")
	assert.NotContains(t, output, "Missing seqs")
}

func TestTrace_RunJSONFiltered(t *testing.T) {
	db := recordedDB(t)

	output, err := executeRoot("--format", "json", "trace", "--db", db, "--run", "run-1", "--name", "foo")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-1", resp.Data.Run.ID)
	assert.NotEmpty(t, resp.Data.Run.EngineVersion)
	require.Len(t, resp.Data.Timeline, 3)
	for _, rec := range resp.Data.Timeline {
		assert.Equal(t, "foo", rec.Name)
	}
	assert.Equal(t, 4, resp.Data.Summary.Count)
}

func TestTrace_UnknownRun(t *testing.T) {
	db := recordedDB(t)

	output, err := executeRoot("trace", "--db", db, "--run", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, "run not found: nope")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "obj-1", truncateID("obj-1"))
	assert.Equal(t, "0192f3a1...89abcdef", truncateID("0192f3a1-0000-7000-8000-0123456789abcdef"))
}

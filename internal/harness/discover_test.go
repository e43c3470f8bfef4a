package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverScenarios(t *testing.T) {
	files, err := DiscoverScenarios("testdata/scenarios", "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("testdata", "scenarios", "bar_foo.yaml"),
		filepath.Join("testdata", "scenarios", "descriptors.yaml"),
		filepath.Join("testdata", "scenarios", "diamond.yaml"),
	}, files)
}

func TestDiscoverScenarios_Filter(t *testing.T) {
	files, err := DiscoverScenarios("testdata/scenarios", "d*")
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = DiscoverScenarios("testdata/scenarios", "bar_foo")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("testdata", "scenarios", "bar_foo.yaml")}, files)

	_, err = DiscoverScenarios("testdata/scenarios", "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestDiscoverScenarios_SkipsGoldenAndOtherFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	for _, name := range []string{"a.yaml", "b.yml", "notes.txt", "golden/a.yaml", "nested/c.yaml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("name: x\n"), 0644))
	}

	files, err := DiscoverScenarios(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.yml"),
		filepath.Join(dir, "nested", "c.yaml"),
	}, files)
}

func TestDiscoverScenarios_MissingDir(t *testing.T) {
	_, err := DiscoverScenarios(filepath.Join(t.TempDir(), "nope"), "")
	var notFound *ScenarioDirNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestGoldenPath(t *testing.T) {
	assert.Equal(t, filepath.Join("scenarios", "golden", "bar_foo.golden"), GoldenPath(filepath.Join("scenarios", "bar_foo.yaml")))
	assert.Equal(t, filepath.Join("golden", "x.golden"), GoldenPath("x.yml"))
}

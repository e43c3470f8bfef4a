package harness

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScenarioDirNotFoundError is returned when a scenario directory doesn't exist.
type ScenarioDirNotFoundError struct {
	Dir string
}

// Error implements the error interface.
func (e *ScenarioDirNotFoundError) Error() string {
	return fmt.Sprintf("scenario directory %q does not exist", e.Dir)
}

// DiscoverScenarios returns the YAML scenario files under dir, sorted by
// path. The golden/ subdirectory is skipped. A non-empty filter is a glob
// matched against the file name without its extension.
func DiscoverScenarios(dir, filter string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, &ScenarioDirNotFoundError{Dir: dir}
	}
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && d.Name() == "golden" {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			if matched, _ := filepath.Match(filter, name); !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// GoldenPath returns the golden file path for a scenario file:
// <dir>/golden/<name>.golden.
func GoldenPath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

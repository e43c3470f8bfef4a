package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/wardi/bar-foo/internal/ir"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun registers a run with minimal required fields.
func createTestRun(t *testing.T, s *Store, id string) ir.RunRecord {
	t.Helper()
	run := ir.RunRecord{ID: id, Label: "test", SpecHash: "test-hash", EngineVersion: ir.EngineVersion}
	if err := s.WriteRun(context.Background(), run); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}
	return run
}

// createTestResolution creates a resolution record with minimal required fields.
func createTestResolution(runID string, seq int64, name string) ir.ResolutionRecord {
	return ir.ResolutionRecord{
		Seq:    seq,
		RunID:  runID,
		Op:     "read",
		Target: "obj-1",
		Class:  "Bar",
		Name:   name,
		Step:   "class",
		Owner:  "Drinking",
		Value:  `"drinks"`,
	}
}

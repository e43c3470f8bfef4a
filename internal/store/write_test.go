package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardi/bar-foo/internal/ir"
)

func TestWriteClass_Upserts(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := ir.ClassRecord{Name: "X", Parents: []string{"A"}, MRO: []string{"X", "A"}, SpecHash: "h1"}
	require.NoError(t, s.WriteClass(ctx, rec))

	rec.Parents = []string{"B"}
	rec.MRO = []string{"X", "B"}
	rec.SpecHash = "h2"
	require.NoError(t, s.WriteClass(ctx, rec))

	got, err := s.ReadClass(ctx, "X")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestWriteClasses_Transactional(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	recs := []ir.ClassRecord{
		{Name: "Structure", MRO: []string{"Structure"}, SpecHash: "h"},
		{Name: "Drinking", Parents: []string{"Structure"}, MRO: []string{"Drinking", "Structure"}, SpecHash: "h"},
	}
	require.NoError(t, s.WriteClasses(ctx, recs))

	got, err := s.ReadClasses(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Drinking", got[0].Name)
	assert.Equal(t, []string{}, got[1].Parents, "nil parents read back as empty")
}

func TestWriteRun_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun(t, s, "run-1")
	require.NoError(t, s.WriteRun(ctx, run))

	runs, err := s.ReadRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ir.RunRecord{run}, runs)
}

func TestWriteResolution_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "run-1")

	rec := createTestResolution("run-1", 1, "foo")
	require.NoError(t, s.WriteResolution(ctx, rec))

	dup := rec
	dup.Name = "other"
	require.NoError(t, s.WriteResolution(ctx, dup))

	got, err := s.ReadResolutions(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "foo", got[0].Name, "first write wins")
}

func TestWriteResolution_RequiresRun(t *testing.T) {
	s := createTestStore(t)

	err := s.WriteResolution(context.Background(), createTestResolution("ghost", 1, "foo"))
	assert.Error(t, err, "foreign key should reject an unregistered run")
}

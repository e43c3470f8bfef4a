package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardi/bar-foo/internal/engine"
	"github.com/wardi/bar-foo/internal/ir"
	"github.com/wardi/bar-foo/internal/object"
)

type fixedIDs struct{ id string }

func (f fixedIDs) Generate() string { return f.id }

func barRegistry(t *testing.T) (*object.Registry, *object.Class) {
	t.Helper()
	reg := object.NewRegistry(object.WithIDGenerator(fixedIDs{id: "obj-1"}))
	structure := reg.MustDefine("Structure")
	dancing := reg.MustDefine("Dancing", structure)
	drinking := reg.MustDefine("Drinking", structure)
	bar := reg.MustDefine("Bar", dancing, drinking)
	structure.SetAttr("foo", "bricks")
	drinking.SetAttr("foo", "drinks")
	return reg, bar
}

func TestRecorder_PersistsTopLevelOperations(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "run-1")

	rec := s.NewRecorder(ctx, "run-1", nil)
	r := engine.New(engine.WithTracer(rec))

	reg, bar := barRegistry(t)
	inst := reg.NewInstance(bar)

	_, err := r.Read(inst, "foo")
	require.NoError(t, err)
	require.NoError(t, r.Write(inst, "x", int64(7)))
	require.NoError(t, r.Delete(inst, "x"))
	_, err = r.Read(inst, "x")
	require.Error(t, err)
	_, err = r.ReadClass(bar, "foo")
	require.NoError(t, err)

	require.NoError(t, rec.Err())
	assert.Equal(t, 5, rec.Count())

	got, err := s.ReadResolutions(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 5)

	assert.Equal(t, ir.ResolutionRecord{
		Seq: 1, RunID: "run-1", Op: "read", Target: "obj-1", Class: "Bar",
		Name: "foo", Step: "class", Owner: "Drinking", Value: `"drinks"`,
	}, got[0])

	assert.Equal(t, "write", got[1].Op)
	assert.Equal(t, "instance", got[1].Step)
	assert.Equal(t, "7", got[1].Value)

	assert.Equal(t, "delete", got[2].Op)
	assert.Empty(t, got[2].Value)

	assert.Equal(t, "read", got[3].Op)
	assert.Contains(t, got[3].Error, "NOT_FOUND")
	assert.Empty(t, got[3].Value)

	assert.Equal(t, "read_class", got[4].Op)
	assert.Equal(t, "Bar", got[4].Target)
}

func TestRecorder_KeepsFirstError(t *testing.T) {
	s := createTestStore(t)

	// No run registered: the foreign key rejects every record.
	rec := s.NewRecorder(context.Background(), "ghost", nil)
	rec.Record(engine.Resolution{Seq: 1, Op: engine.OpRead, Name: "a"})
	first := rec.Err()
	rec.Record(engine.Resolution{Seq: 2, Op: engine.OpRead, Name: "b"})

	require.Error(t, first)
	assert.Equal(t, first, rec.Err())
	assert.Zero(t, rec.Count())
}

func TestResolutionRecordOf(t *testing.T) {
	res := engine.Resolution{
		Seq: 4, Op: engine.OpRead, Target: "obj-1", Class: "Bar", Name: "tags",
		Step: engine.StepInstance, Value: []any{"a", int64(1)},
	}
	rec := ResolutionRecordOf("run", res)
	assert.Equal(t, `["a",1]`, rec.Value)
	assert.Equal(t, "instance", rec.Step)

	res.Value = nil
	res.Err = errors.New("boom")
	rec = ResolutionRecordOf("run", res)
	assert.Equal(t, "boom", rec.Error)
	assert.Empty(t, rec.Value)

	rec = ResolutionRecordOf("run", engine.Resolution{Seq: 1, Op: "new", Target: "obj-1", Class: "Bar", Name: "b"})
	assert.Empty(t, rec.Value)
	assert.Empty(t, rec.Error)
}

func TestClassRecordOf(t *testing.T) {
	_, bar := barRegistry(t)

	rec := ClassRecordOf(bar, "h")
	assert.Equal(t, ir.ClassRecord{
		Name:     "Bar",
		Parents:  []string{"Dancing", "Drinking"},
		MRO:      []string{"Bar", "Dancing", "Drinking", "Structure"},
		SpecHash: "h",
	}, rec)
}

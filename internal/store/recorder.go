package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/wardi/bar-foo/internal/engine"
	"github.com/wardi/bar-foo/internal/ir"
	"github.com/wardi/bar-foo/internal/object"
)

// Recorder persists resolutions as they happen. It implements
// engine.Tracer, so a resolver built WithTracer(rec) writes every
// top-level operation to the store under one run ID.
//
// Tracer callbacks cannot fail, so the first write error is kept and
// returned by Err; later records are still attempted.
type Recorder struct {
	store  *Store
	ctx    context.Context
	runID  string
	logger *slog.Logger

	mu  sync.Mutex
	err error
	n   int
}

// NewRecorder returns a recorder writing under runID. The run must already
// be registered with WriteRun.
func (s *Store) NewRecorder(ctx context.Context, runID string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: s, ctx: ctx, runID: runID, logger: logger}
}

// Record implements engine.Tracer.
func (r *Recorder) Record(res engine.Resolution) {
	rec := ResolutionRecordOf(r.runID, res)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.WriteResolution(r.ctx, rec); err != nil {
		r.logger.Error("failed to record resolution",
			"run", r.runID, "seq", rec.Seq, "error", err)
		if r.err == nil {
			r.err = err
		}
		return
	}
	r.n++
}

// Err returns the first write failure, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Count returns how many records were written.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

// ResolutionRecordOf converts an engine resolution into a store row.
// Values are described as canonical JSON. Failed operations, deletes and
// events without a value leave Value empty.
func ResolutionRecordOf(runID string, res engine.Resolution) ir.ResolutionRecord {
	rec := ir.ResolutionRecord{
		Seq:    res.Seq,
		RunID:  runID,
		Op:     string(res.Op),
		Target: res.Target,
		Class:  res.Class,
		Name:   res.Name,
		Step:   string(res.Step),
		Owner:  res.Owner,
	}
	if res.Err != nil {
		rec.Error = res.Err.Error()
	} else if res.Op != engine.OpDelete && res.Value != nil {
		rec.Value = ir.Describe(res.Value)
	}
	return rec
}

// ClassRecordOf snapshots a built class.
func ClassRecordOf(c *object.Class, specHash string) ir.ClassRecord {
	return ir.ClassRecord{
		Name:     c.Name(),
		Parents:  object.Names(c.Parents()),
		MRO:      object.Names(c.MRO()),
		SpecHash: specHash,
	}
}

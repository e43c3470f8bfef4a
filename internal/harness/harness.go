package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/wardi/bar-foo/internal/compiler"
	"github.com/wardi/bar-foo/internal/engine"
	"github.com/wardi/bar-foo/internal/ir"
	"github.com/wardi/bar-foo/internal/object"
	"github.com/wardi/bar-foo/internal/store"
	"github.com/wardi/bar-foo/internal/testutil"
)

// Options configures a scenario run.
type Options struct {
	// Store, if set, receives class snapshots and every trace event.
	Store *store.Store

	// RunID keys the run in Store. Defaults to the scenario name.
	RunID string

	// Logger receives resolver logs. Defaults to discarding them.
	Logger *slog.Logger
}

// Harness is the test execution engine.
// It runs scenarios with a deterministic clock and instance IDs.
type Harness struct {
	registry *object.Registry
	resolver *engine.Resolver
	clock    *testutil.Sequence
	tracer   engine.Tracer
	vars     map[string]*object.Instance
	result   *Result
	logger   *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
// 1. Load, compile and validate the scenario's specs
// 2. Build a fresh registry with sequential instance IDs
// 3. Execute steps, checking each expect clause
// 4. Evaluate assertions
// 5. Return result with pass/fail, trace, and errors
//
// An error is returned only when the scenario cannot run (bad specs,
// unknown variable or class); expectation failures land in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunWith(scenario, Options{})
}

// RunWith is Run with options.
func RunWith(scenario *Scenario, opts Options) (*Result, error) {
	ctx := context.Background()

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	}

	specs, err := LoadSpecFiles(scenario.Specs)
	if err != nil {
		return nil, err
	}
	specHash, err := ir.SpecSetHash(specs)
	if err != nil {
		return nil, fmt.Errorf("hash specs: %w", err)
	}

	reg := object.NewRegistry(object.WithIDGenerator(testutil.NewSequentialIDs(scenario.IDPrefix)))
	classes, err := compiler.Build(reg, specs)
	if err != nil {
		return nil, fmt.Errorf("build classes: %w", err)
	}

	result := NewResult()
	result.SpecHash = specHash

	tracer := engine.TracerFunc(func(res engine.Resolution) {
		result.addEvent(eventOf(res))
	})

	var recorder *store.Recorder
	if opts.Store != nil {
		runID := opts.RunID
		if runID == "" {
			runID = scenario.Name
		}
		if recorder, err = startRun(ctx, opts.Store, runID, scenario.Name, specHash, specs, classes, logger); err != nil {
			return nil, err
		}
	}

	clock := testutil.NewSequence()
	var trace engine.Tracer = tracer
	if recorder != nil {
		trace = engine.Tracers(tracer, recorder)
	}

	engineOpts := []engine.Option{
		engine.WithTracer(trace),
		engine.WithClock(clock),
		engine.WithLogger(logger),
	}
	if scenario.MaxDepth > 0 {
		engineOpts = append(engineOpts, engine.WithMaxDepth(scenario.MaxDepth))
	}

	h := &Harness{
		registry: reg,
		resolver: engine.New(engineOpts...),
		clock:    clock,
		tracer:   trace,
		vars:     make(map[string]*object.Instance),
		result:   result,
		logger:   logger,
	}

	for i, step := range scenario.Steps {
		if err := h.execute(i, step); err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	actx := &AssertionContext{Vars: h.vars}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	if recorder != nil {
		if err := recorder.Err(); err != nil {
			return nil, fmt.Errorf("record trace: %w", err)
		}
	}

	return result, nil
}

// startRun registers the run and snapshots the built classes.
func startRun(
	ctx context.Context,
	st *store.Store,
	runID, label, specHash string,
	specs []ir.ClassSpec,
	classes []*object.Class,
	logger *slog.Logger,
) (*store.Recorder, error) {
	if err := st.WriteRun(ctx, ir.RunRecord{
		ID:            runID,
		Label:         label,
		SpecHash:      specHash,
		EngineVersion: ir.EngineVersion,
	}); err != nil {
		return nil, err
	}

	hashes := make(map[string]string, len(specs))
	for _, spec := range specs {
		h, err := ir.ClassSpecHash(spec)
		if err != nil {
			return nil, fmt.Errorf("hash class %s: %w", spec.Name, err)
		}
		hashes[spec.Name] = h
	}

	recs := make([]ir.ClassRecord, len(classes))
	for i, c := range classes {
		recs[i] = store.ClassRecordOf(c, hashes[c.Name()])
	}
	if err := st.WriteClasses(ctx, recs); err != nil {
		return nil, err
	}
	return st.NewRecorder(ctx, runID, logger), nil
}

// LoadSpecFiles compiles and validates CUE spec files.
// All compile and validation errors are reported together.
func LoadSpecFiles(paths []string) ([]ir.ClassSpec, error) {
	var specs []ir.ClassSpec
	var errs []error
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read spec file: %w", err)
		}
		compiled, compileErrs := compiler.CompileSource(path, data)
		specs = append(specs, compiled...)
		errs = append(errs, compileErrs...)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("compile specs: %w", errors.Join(errs...))
	}

	if verrs := compiler.Validate(specs); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return nil, fmt.Errorf("invalid specs:\n  %s", strings.Join(msgs, "\n  "))
	}
	return specs, nil
}

// outcome is what a step produced, for expect checks.
type outcome struct {
	value any
	err   error
	mro   []string
}

// execute runs one step and checks its expectations.
func (h *Harness) execute(index int, step Step) error {
	kind, _ := step.Kind()
	var out outcome

	switch kind {
	case "new":
		c, err := h.class(step.New.Class)
		if err != nil {
			return err
		}
		inst := h.registry.NewInstance(c)
		h.vars[step.New.Var] = inst
		h.emit(engine.Resolution{Op: OpNew, Target: inst.ID(), Class: c.Name(), Name: step.New.Var})
		out.value = inst.ID()

	case "mro":
		c, err := h.class(step.MRO.Class)
		if err != nil {
			return err
		}
		out.mro = object.Names(c.MRO())
		h.emit(engine.Resolution{Op: OpMRO, Target: c.Name(), Class: c.Name(), Value: out.mro})
		out.value = out.mro

	case "read":
		a := step.Read
		if a.Class {
			c, err := h.class(a.Target)
			if err != nil {
				return err
			}
			out.value, out.err = h.resolver.ReadClass(c, a.Name)
			break
		}
		inst, err := h.instance(a.Target)
		if err != nil {
			return err
		}
		out.value, out.err = h.resolver.Read(inst, a.Name)

	case "write":
		inst, err := h.instance(step.Write.Target)
		if err != nil {
			return err
		}
		value, err := normalize(step.Write.Value)
		if err != nil {
			return err
		}
		out.value = value
		out.err = h.resolver.Write(inst, step.Write.Name, value)

	case "delete":
		inst, err := h.instance(step.Delete.Target)
		if err != nil {
			return err
		}
		out.err = h.resolver.Delete(inst, step.Delete.Name)

	case "has":
		inst, err := h.instance(step.Has.Target)
		if err != nil {
			return err
		}
		out.value, out.err = h.resolver.Has(inst, step.Has.Name)

	case "extra":
		inst, err := h.instance(step.Extra.Target)
		if err != nil {
			return err
		}
		value, err := normalize(step.Extra.Value)
		if err != nil {
			return err
		}
		inst.SetExtra(step.Extra.Name, value)
		h.emit(engine.Resolution{
			Op: OpExtra, Target: inst.ID(), Class: inst.Class().Name(),
			Name: step.Extra.Name, Value: value,
		})
		out.value = value
	}

	h.check(index, kind, step.Expect, out)
	return nil
}

// emit stamps a harness-level event on the run clock and traces it.
func (h *Harness) emit(res engine.Resolution) {
	res.Seq = h.clock.Next()
	h.tracer.Record(res)
}

func (h *Harness) class(name string) (*object.Class, error) {
	c, ok := h.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown class %q", name)
	}
	return c, nil
}

func (h *Harness) instance(name string) (*object.Instance, error) {
	inst, ok := h.vars[name]
	if !ok {
		return nil, fmt.Errorf("undefined variable %q (create it with a new step first)", name)
	}
	return inst, nil
}

// check compares a step outcome with its expect clause.
func (h *Harness) check(index int, kind string, expect *Expect, out outcome) {
	prefix := fmt.Sprintf("steps[%d] %s", index, kind)

	if expect == nil {
		if out.err != nil {
			h.result.AddError(fmt.Sprintf("%s: unexpected error: %v", prefix, out.err))
		}
		return
	}

	if expect.Error != "" {
		if out.err == nil {
			h.result.AddError(fmt.Sprintf("%s: expected error %s, got success", prefix, expect.Error))
		} else if code := ErrorCode(out.err); code != expect.Error {
			h.result.AddError(fmt.Sprintf("%s: expected error %s, got %s", prefix, expect.Error, code))
		}
	} else if out.err != nil {
		h.result.AddError(fmt.Sprintf("%s: unexpected error: %v", prefix, out.err))
		return
	}

	if expect.Value != nil {
		want, got := ir.Describe(expect.Value), ir.Describe(out.value)
		if want != got {
			h.result.AddError(fmt.Sprintf("%s: value = %s, expected %s", prefix, got, want))
		}
	}

	if expect.MRO != nil && strings.Join(expect.MRO, ",") != strings.Join(out.mro, ",") {
		h.result.AddError(fmt.Sprintf("%s: mro = [%s], expected [%s]",
			prefix, strings.Join(out.mro, ", "), strings.Join(expect.MRO, ", ")))
	}

	if expect.Step == "" && expect.Owner == "" {
		return
	}
	ev, ok := h.result.last()
	if !ok {
		h.result.AddError(fmt.Sprintf("%s: no trace event to check", prefix))
		return
	}
	if expect.Step != "" && ev.Step != expect.Step {
		h.result.AddError(fmt.Sprintf("%s: step = %q, expected %q", prefix, ev.Step, expect.Step))
	}
	if expect.Owner != "" && ev.Owner != expect.Owner {
		h.result.AddError(fmt.Sprintf("%s: owner = %q, expected %q", prefix, ev.Owner, expect.Owner))
	}
}

// ErrorCode returns the code of an attribute or hierarchy error, or the
// error text for anything else.
func ErrorCode(err error) string {
	var ae *object.AttributeError
	if errors.As(err, &ae) {
		return string(ae.Code)
	}
	var he *object.HierarchyError
	if errors.As(err, &he) {
		return string(he.Code)
	}
	return err.Error()
}

// normalize converts a YAML value into the resolver's value space
// (string, int64, bool, []any, map[string]any).
func normalize(v any) (any, error) {
	lit, err := ir.FromGo(v)
	if err != nil {
		return nil, fmt.Errorf("value: %w", err)
	}
	return ir.ToGo(lit), nil
}

// eventOf converts a resolution into a trace event.
func eventOf(res engine.Resolution) TraceEvent {
	ev := TraceEvent{
		Seq:    res.Seq,
		Op:     string(res.Op),
		Target: res.Target,
		Class:  res.Class,
		Name:   res.Name,
		Step:   string(res.Step),
		Owner:  res.Owner,
	}
	if res.Err != nil {
		ev.Error = res.Err.Error()
	} else if res.Op != engine.OpDelete {
		ev.Value = traceValue(res.Value)
	}
	return ev
}

// traceValue returns v as a literal tree when it is one, and its %v text
// otherwise (bound methods, descriptors).
func traceValue(v any) any {
	if v == nil {
		return nil
	}
	lit, err := ir.FromGo(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return ir.ToGo(lit)
}

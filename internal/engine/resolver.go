package engine

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/wardi/bar-foo/internal/object"
)

// Resolver runs the attribute read, write and delete algorithms.
//
// Read priority, first match wins:
//  1. interceptors (process scope, then instance scope)
//  2. full-override GetAttribute hook (instance override, else first in MRO)
//  3. data descriptor found first in the MRO
//  4. instance table
//  5. class table via the MRO (non-data descriptors are bound)
//  6. first Missing hook in the MRO
//  7. NOT_FOUND
//
// Writes and deletes run interceptors, then the SetAttribute /
// DeleteAttribute hook, then a data descriptor, then the instance table.
// They never consult non-data descriptors or Missing hooks.
//
// Errors raised by hooks, interceptors and descriptors are returned
// unchanged.
//
// Thread-safety: a Resolver is safe for concurrent use. It holds no lock
// while calling hooks or descriptors, so they may re-enter it.
type Resolver struct {
	interceptors object.InterceptorChain
	maxDepth     int
	logger       *slog.Logger
	tracer       Tracer
	clock        Sequencer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxDepth sets how deep hooks may nest full resolutions.
//
// Default: 256 (DefaultMaxDepth).
// Use WithMaxDepth(4) when testing runaway hooks.
func WithMaxDepth(depth int) Option {
	return func(r *Resolver) {
		r.maxDepth = depth
	}
}

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// WithTracer records every top-level operation. Nested resolutions
// triggered by hooks are not recorded separately.
func WithTracer(t Tracer) Option {
	return func(r *Resolver) {
		r.tracer = t
	}
}

// WithClock sets the sequence source stamped on trace records.
// Default: a fresh Clock starting at 0.
func WithClock(s Sequencer) Option {
	return func(r *Resolver) {
		r.clock = s
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		maxDepth: DefaultMaxDepth,
		logger:   slog.Default(),
		clock:    NewClock(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// outcome is the result of one top-level or nested operation.
type outcome struct {
	call  *call
	value any
	err   error
}

// ---------------------------------------------------------------------------
// Public operations
// ---------------------------------------------------------------------------

// Read resolves name on inst.
func (r *Resolver) Read(inst *object.Instance, name string) (any, error) {
	res, err := r.Explain(inst, name)
	return res.Value, err
}

// Explain resolves name on inst and reports which step answered.
func (r *Resolver) Explain(inst *object.Instance, name string) (Resolution, error) {
	out := r.read(0, inst, name)
	res := r.finish(OpRead, targetOf(inst), out)
	return res, out.err
}

// ReadClass resolves name directly on a class. Interceptors are skipped;
// every descriptor found is bound with a nil instance.
func (r *Resolver) ReadClass(c *object.Class, name string) (any, error) {
	res, err := r.ExplainClass(c, name)
	return res.Value, err
}

// ExplainClass is ReadClass with step reporting.
func (r *Resolver) ExplainClass(c *object.Class, name string) (Resolution, error) {
	out := r.readClass(0, c, name)
	res := r.finish(OpReadClass, c.Name(), out)
	return res, out.err
}

// Write assigns value to name on inst.
func (r *Resolver) Write(inst *object.Instance, name string, value any) error {
	out := r.write(0, inst, name, value)
	out.value = value
	r.finish(OpWrite, targetOf(inst), out)
	return out.err
}

// Delete removes name from inst.
func (r *Resolver) Delete(inst *object.Instance, name string) error {
	out := r.delete(0, inst, name)
	r.finish(OpDelete, targetOf(inst), out)
	return out.err
}

// Has reports whether name resolves on inst. NOT_FOUND becomes false;
// any other error is returned.
func (r *Resolver) Has(inst *object.Instance, name string) (bool, error) {
	_, err := r.Read(inst, name)
	if err == nil {
		return true, nil
	}
	if object.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

// ReadOr resolves name on inst, returning def on NOT_FOUND.
func (r *Resolver) ReadOr(inst *object.Instance, name string, def any) (any, error) {
	v, err := r.Read(inst, name)
	if object.IsNotFound(err) {
		return def, nil
	}
	return v, err
}

// Install adds an interceptor. A nil inst installs it for the whole
// process; otherwise only inst is intercepted. Process-scope interceptors
// run before instance-scope ones, each group in install order.
func (r *Resolver) Install(inst *object.Instance, i object.Interceptor) object.InterceptorID {
	id := object.InterceptorID(uuid.NewString())
	r.chainFor(inst).Add(id, i)
	return id
}

// Remove uninstalls the interceptor with the given id from the same scope
// it was installed in. Returns false if it was not installed there.
func (r *Resolver) Remove(inst *object.Instance, id object.InterceptorID) bool {
	return r.chainFor(inst).Remove(id)
}

func (r *Resolver) chainFor(inst *object.Instance) *object.InterceptorChain {
	if inst == nil {
		return &r.interceptors
	}
	return inst.Interceptors()
}

// ---------------------------------------------------------------------------
// Read path
// ---------------------------------------------------------------------------

func (r *Resolver) read(depth int, inst *object.Instance, name string) outcome {
	if inst == nil {
		return r.noInstance(depth, name)
	}
	c := r.newCall(depth, inst, inst.Class(), name)
	if err := r.checkDepth(c); err != nil {
		return outcome{call: c, err: err}
	}

	chain := r.interceptorsFor(inst)
	var next func(i int) (any, error)
	next = func(i int) (any, error) {
		if i == len(chain) {
			c.reachedCore = true
			return r.overrideRead(c)
		}
		return chain[i].InterceptRead(c, func() (any, error) { return next(i + 1) })
	}

	v, err := next(0)
	if !c.reachedCore {
		c.mark(StepInterceptor, nil)
	}
	return outcome{call: c, value: v, err: err}
}

func (r *Resolver) readClass(depth int, class *object.Class, name string) outcome {
	c := r.newCall(depth, nil, class, name)
	if err := r.checkDepth(c); err != nil {
		return outcome{call: c, err: err}
	}
	c.reachedCore = true
	v, err := r.overrideRead(c)
	return outcome{call: c, value: v, err: err}
}

// overrideRead is step 2: the full-override hook, if any.
func (r *Resolver) overrideRead(c *call) (any, error) {
	var hook object.GetAttributeFunc
	if c.inst != nil {
		hook = c.inst.Overrides().GetAttribute
	}
	if hook == nil {
		hook = object.FindGetAttribute(c.class.MRO())
	}
	if hook != nil {
		c.mark(StepOverride, nil)
		return hook(c)
	}
	return r.defaultRead(c)
}

// defaultRead is steps 3 through 7.
func (r *Resolver) defaultRead(c *call) (any, error) {
	mro := c.class.MRO()
	v, owner, found := lookup(mro, c.name)
	kind := object.KindOf(v)

	if found && kind.IsData() && c.inst != nil {
		c.mark(StepDataDescriptor, owner)
		return bind(v, c.inst, owner)
	}

	if c.inst != nil {
		if iv, ok := c.inst.Attr(c.name); ok {
			c.mark(StepInstance, nil)
			return iv, nil
		}
	}

	if found {
		c.mark(StepClass, owner)
		if kind.IsDescriptor() {
			return bind(v, c.inst, owner)
		}
		return v, nil
	}

	if hook := object.FindMissing(mro); hook != nil {
		c.mark(StepMissing, nil)
		return hook(c)
	}

	c.mark(StepNone, nil)
	return nil, object.NotFound(c.class.Name(), c.name)
}

// ---------------------------------------------------------------------------
// Write path
// ---------------------------------------------------------------------------

func (r *Resolver) write(depth int, inst *object.Instance, name string, value any) outcome {
	if inst == nil {
		return r.noInstance(depth, name)
	}
	c := r.newCall(depth, inst, inst.Class(), name)
	if err := r.checkDepth(c); err != nil {
		return outcome{call: c, err: err}
	}

	chain := r.interceptorsFor(inst)
	var next func(i int, v any) error
	next = func(i int, v any) error {
		if i == len(chain) {
			c.reachedCore = true
			return r.overrideWrite(c, v)
		}
		return chain[i].InterceptWrite(c, v, func(nv any) error { return next(i+1, nv) })
	}

	err := next(0, value)
	if !c.reachedCore {
		c.mark(StepInterceptor, nil)
	}
	return outcome{call: c, err: err}
}

func (r *Resolver) overrideWrite(c *call, value any) error {
	hook := c.inst.Overrides().SetAttribute
	if hook == nil {
		hook = object.FindSetAttribute(c.class.MRO())
	}
	if hook != nil {
		c.mark(StepOverride, nil)
		return hook(c, value)
	}
	return r.defaultWrite(c, value)
}

func (r *Resolver) defaultWrite(c *call, value any) error {
	v, owner, found := lookup(c.class.MRO(), c.name)
	if kind := object.KindOf(v); found && kind.IsData() {
		c.mark(StepDataDescriptor, owner)
		a, ok := v.(object.Assigner)
		if !kind.CanAssign() || !ok {
			return object.ReadOnly(c.class.Name(), c.name)
		}
		return a.Assign(c.inst, value)
	}

	c.mark(StepInstance, nil)
	c.inst.SetAttr(c.name, value)
	return nil
}

// ---------------------------------------------------------------------------
// Delete path
// ---------------------------------------------------------------------------

func (r *Resolver) delete(depth int, inst *object.Instance, name string) outcome {
	if inst == nil {
		return r.noInstance(depth, name)
	}
	c := r.newCall(depth, inst, inst.Class(), name)
	if err := r.checkDepth(c); err != nil {
		return outcome{call: c, err: err}
	}

	chain := r.interceptorsFor(inst)
	var next func(i int) error
	next = func(i int) error {
		if i == len(chain) {
			c.reachedCore = true
			return r.overrideDelete(c)
		}
		return chain[i].InterceptDelete(c, func() error { return next(i + 1) })
	}

	err := next(0)
	if !c.reachedCore {
		c.mark(StepInterceptor, nil)
	}
	return outcome{call: c, err: err}
}

func (r *Resolver) overrideDelete(c *call) error {
	hook := c.inst.Overrides().DeleteAttribute
	if hook == nil {
		hook = object.FindDeleteAttribute(c.class.MRO())
	}
	if hook != nil {
		c.mark(StepOverride, nil)
		return hook(c)
	}
	return r.defaultDelete(c)
}

func (r *Resolver) defaultDelete(c *call) error {
	v, owner, found := lookup(c.class.MRO(), c.name)
	if kind := object.KindOf(v); found && kind.IsData() {
		c.mark(StepDataDescriptor, owner)
		u, ok := v.(object.Unbinder)
		if !kind.CanUnbind() || !ok {
			return object.NotDeletable(c.class.Name(), c.name)
		}
		return u.Unbind(c.inst)
	}

	c.mark(StepInstance, nil)
	if !c.inst.DeleteAttr(c.name) {
		c.mark(StepNone, nil)
		return object.NotFound(c.class.Name(), c.name)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Resolver) interceptorsFor(inst *object.Instance) []object.Interceptor {
	global := r.interceptors.Snapshot()
	local := inst.Interceptors().Snapshot()
	if len(local) == 0 {
		return global
	}
	return append(global, local...)
}

// lookup returns the first own-table entry for name along mro.
func lookup(mro []*object.Class, name string) (any, *object.Class, bool) {
	for _, k := range mro {
		if v, ok := k.Attr(name); ok {
			return v, k, true
		}
	}
	return nil, nil, false
}

func bind(v any, inst *object.Instance, owner *object.Class) (any, error) {
	if b, ok := v.(object.Binder); ok {
		return b.Bind(inst, owner)
	}
	return v, nil
}

// noInstance fails an instance operation given a nil instance. Hooks see
// a nil Instance() during class-level reads and may pass it straight back.
func (r *Resolver) noInstance(depth int, name string) outcome {
	return outcome{
		call: r.newCall(depth, nil, nil, name),
		err: &object.AttributeError{
			Code:    object.ErrCodeNotFound,
			Name:    name,
			Message: "no instance to resolve against",
		},
	}
}

func targetOf(inst *object.Instance) string {
	if inst == nil {
		return ""
	}
	return inst.ID()
}

// finish stamps, logs and traces a top-level operation.
func (r *Resolver) finish(op Op, target string, out outcome) Resolution {
	c := out.call
	res := Resolution{
		Op:     op,
		Target: target,
		Name:   c.name,
		Step:   c.step,
		Value:  out.value,
		Err:    out.err,
	}
	if c.class != nil {
		res.Class = c.class.Name()
	}
	if c.owner != nil {
		res.Owner = c.owner.Name()
	}
	if r.tracer != nil {
		res.Seq = r.clock.Next()
		r.tracer.Record(res)
	}

	r.logger.Debug("attribute resolved",
		"op", op,
		"target", target,
		"name", c.name,
		"step", res.Step,
		"owner", res.Owner,
		"error", out.err,
	)
	return res
}

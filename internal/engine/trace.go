package engine

// Step names the resolution step that produced an outcome.
type Step string

const (
	// StepNone means no step answered (NOT_FOUND, or the operation never
	// got past the depth check).
	StepNone Step = ""

	// StepInterceptor means an interceptor answered without delegating.
	StepInterceptor Step = "interceptor"

	// StepOverride means a full-override hook took the operation.
	StepOverride Step = "override"

	// StepDataDescriptor means a data descriptor found in the MRO handled it.
	StepDataDescriptor Step = "data_descriptor"

	// StepInstance means the instance's own table handled it.
	StepInstance Step = "instance"

	// StepClass means a class table entry answered a read.
	StepClass Step = "class"

	// StepMissing means the missing hook answered a read.
	StepMissing Step = "missing"
)

// Op is the kind of attribute operation.
type Op string

const (
	OpRead      Op = "read"
	OpReadClass Op = "read_class"
	OpWrite     Op = "write"
	OpDelete    Op = "delete"
)

// Resolution describes one completed top-level operation.
type Resolution struct {
	// Seq orders records. Zero when no Tracer is installed.
	Seq int64

	Op Op

	// Target is the instance ID, or the class name for class-level reads.
	Target string

	// Class is the class the operation resolved against.
	Class string

	Name string
	Step Step

	// Owner is the class whose table supplied the entry, for the
	// data_descriptor and class steps.
	Owner string

	// Value is the read result, or the value written.
	Value any

	Err error
}

// Tracer receives a Resolution for every top-level operation.
//
// Record is called synchronously on the resolving goroutine and must be
// safe for concurrent use.
type Tracer interface {
	Record(res Resolution)
}

// TracerFunc adapts a function to Tracer.
type TracerFunc func(res Resolution)

// Record implements Tracer.
func (f TracerFunc) Record(res Resolution) {
	f(res)
}

// Tracers fans a record out to every non-nil tracer, in order.
func Tracers(ts ...Tracer) Tracer {
	var live []Tracer
	for _, t := range ts {
		if t != nil {
			live = append(live, t)
		}
	}
	return TracerFunc(func(res Resolution) {
		for _, t := range live {
			t.Record(res)
		}
	})
}

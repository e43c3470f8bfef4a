package harness

// TraceEvent is one executed scenario step as seen by the resolver.
//
// Resolver operations (read, read_class, write, delete) arrive through
// the engine tracer; new, extra and mro events are stamped by the harness
// on the same clock, so Seq is a total order over the whole run.
type TraceEvent struct {
	Seq    int64  `json:"seq"`
	Op     string `json:"op"`
	Target string `json:"target"` // Instance ID or class name
	Class  string `json:"class,omitempty"`
	Name   string `json:"name,omitempty"`
	Step   string `json:"step,omitempty"`
	Owner  string `json:"owner,omitempty"`
	Value  any    `json:"value,omitempty"` // Literal tree, or %v text for non-literals
	Error  string `json:"error,omitempty"`
}

// Harness-stamped event ops. Resolver ops use engine.Op values.
const (
	OpNew   = "new"
	OpExtra = "extra"
	OpMRO   = "mro"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expect clause and assertion matched.
	Pass bool `json:"pass"`

	// Trace contains every executed step in seq order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// SpecHash identifies the spec set the scenario ran against.
	SpecHash string `json:"spec_hash"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// addEvent appends an event to the trace.
func (r *Result) addEvent(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}

// last returns the most recent event, if any.
func (r *Result) last() (TraceEvent, bool) {
	if len(r.Trace) == 0 {
		return TraceEvent{}, false
	}
	return r.Trace[len(r.Trace)-1], true
}

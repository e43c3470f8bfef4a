package ir

// NOTE: These are store-layer rows. Values are kept as canonical JSON text
// so they survive the trip through SQLite unchanged.

// ClassRecord is a snapshot of one class as built into a registry.
type ClassRecord struct {
	Name     string   `json:"name"`
	Parents  []string `json:"parents"`
	MRO      []string `json:"mro"`
	SpecHash string   `json:"spec_hash"`
}

// ResolutionRecord is one recorded top-level attribute operation.
type ResolutionRecord struct {
	Seq    int64  `json:"seq"`    // Logical clock
	RunID  string `json:"run_id"` // Groups records of one run
	Op     string `json:"op"`     // read, read_class, write, delete
	Target string `json:"target"` // Instance ID or class name
	Class  string `json:"class"`
	Name   string `json:"name"`
	Step   string `json:"step,omitempty"`
	Owner  string `json:"owner,omitempty"`
	Value  string `json:"value,omitempty"` // Canonical JSON, or %v for non-literals
	Error  string `json:"error,omitempty"`
}

// RunRecord identifies one traced run.
type RunRecord struct {
	ID            string `json:"id"`
	Label         string `json:"label"`     // Scenario name or command
	SpecHash      string `json:"spec_hash"` // SpecSetHash of the classes it ran against
	EngineVersion string `json:"engine_version"`
}

package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: a set of class specs and
// a sequence of attribute operations with expected outcomes.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Specs lists paths to CUE spec files to compile and load.
	// Paths are relative to the scenario file location unless loaded with
	// LoadScenarioWithBasePath.
	Specs []string `yaml:"specs"`

	// Steps run in order against one registry and one resolver.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and instance state.
	// Supported types: trace_contains, trace_order, trace_count, final_state
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// MaxDepth overrides the resolver's nesting limit. Zero keeps the default.
	MaxDepth int `yaml:"max_depth,omitempty"`

	// IDPrefix names instances "<prefix>1", "<prefix>2", ...
	// Defaults to "obj-".
	IDPrefix string `yaml:"id_prefix,omitempty"`
}

// Step is one operation. Exactly one of the op fields is set.
type Step struct {
	New    *NewStep    `yaml:"new,omitempty"`
	Read   *AccessStep `yaml:"read,omitempty"`
	Write  *AccessStep `yaml:"write,omitempty"`
	Delete *AccessStep `yaml:"delete,omitempty"`
	Has    *AccessStep `yaml:"has,omitempty"`
	Extra  *AccessStep `yaml:"extra,omitempty"`
	MRO    *MROStep    `yaml:"mro,omitempty"`

	// Expect checks the step's outcome. If nil, any error fails the step.
	Expect *Expect `yaml:"expect,omitempty"`
}

// NewStep creates an instance of Class bound to the scenario variable Var.
type NewStep struct {
	Var   string `yaml:"var"`
	Class string `yaml:"class"`
}

// AccessStep addresses one attribute. Target is a scenario variable, or a
// class name when Class is set (reads only).
type AccessStep struct {
	Target string `yaml:"target"`
	Name   string `yaml:"name"`
	Value  any    `yaml:"value,omitempty"` // write and extra
	Class  bool   `yaml:"class,omitempty"` // class-level read
}

// MROStep reports the linearization of Class.
type MROStep struct {
	Class string `yaml:"class"`
}

// Expect specifies the expected outcome of a step. Unset fields are not
// checked.
type Expect struct {
	// Value is compared by canonical JSON, so 1 and int64(1) match.
	// For has steps it is the expected boolean.
	Value any `yaml:"value,omitempty"`

	Step  string `yaml:"step,omitempty"`
	Owner string `yaml:"owner,omitempty"`

	// Error is an error code (NOT_FOUND, READ_ONLY, ...). When set the
	// step must fail with that code.
	Error string `yaml:"error,omitempty"`

	// MRO is the expected linearization (mro steps only).
	MRO []string `yaml:"mro,omitempty"`
}

// Kind returns the name of the step's op and how many op fields are set.
func (s Step) Kind() (string, int) {
	kind, n := "", 0
	set := func(name string, ok bool) {
		if ok {
			if n == 0 {
				kind = name
			}
			n++
		}
	}
	set("new", s.New != nil)
	set("read", s.Read != nil)
	set("write", s.Write != nil)
	set("delete", s.Delete != nil)
	set("has", s.Has != nil)
	set("extra", s.Extra != nil)
	set("mro", s.MRO != nil)
	return kind, n
}

// Assertion validates trace or final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": an event matches op/name/step/owner (subset match)
	// - "trace_order": attribute names appear in order
	// - "trace_count": events matching op/name/step occur exactly Count times
	// - "final_state": an instance's own table holds Attrs and lacks Absent
	Type string `yaml:"type"`

	Op    string `yaml:"op,omitempty"`
	Name  string `yaml:"name,omitempty"`
	Step  string `yaml:"step,omitempty"`
	Owner string `yaml:"owner,omitempty"`

	// Names is the expected order (trace_order).
	Names []string `yaml:"names,omitempty"`

	// Count is the expected number of matches (trace_count).
	Count int `yaml:"count,omitempty"`

	// Target is a scenario variable (final_state).
	Target string         `yaml:"target,omitempty"`
	Attrs  map[string]any `yaml:"attrs,omitempty"`
	Absent []string       `yaml:"absent,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// LoadScenario reads and parses a scenario YAML file. Spec paths are
// resolved relative to the scenario file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving spec paths relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	// Resolve spec paths relative to base path BEFORE validation
	for i, specPath := range scenario.Specs {
		if !filepath.IsAbs(specPath) && basePath != "" {
			scenario.Specs[i] = filepath.Join(basePath, specPath)
		}
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return scenario, nil
}

// ParseScenario decodes scenario YAML without validating spec paths.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "expects:" vs "expect:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Specs) == 0 {
		return fmt.Errorf("specs list is required and must be non-empty")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if s.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be non-negative")
	}

	for _, specPath := range s.Specs {
		if _, err := os.Stat(specPath); os.IsNotExist(err) {
			return fmt.Errorf("spec file not found: %s", specPath)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep checks one step's shape. Variable references are checked
// when the scenario runs.
func validateStep(index int, step Step) error {
	kind, n := step.Kind()
	switch {
	case n == 0:
		return fmt.Errorf("steps[%d]: one of new, read, write, delete, has, extra, mro is required", index)
	case n > 1:
		return fmt.Errorf("steps[%d]: exactly one op per step", index)
	}

	var access *AccessStep
	switch kind {
	case "new":
		if step.New.Var == "" || step.New.Class == "" {
			return fmt.Errorf("steps[%d].new: var and class are required", index)
		}
	case "mro":
		if step.MRO.Class == "" {
			return fmt.Errorf("steps[%d].mro: class is required", index)
		}
	case "read":
		access = step.Read
	case "write":
		access = step.Write
	case "delete":
		access = step.Delete
	case "has":
		access = step.Has
	case "extra":
		access = step.Extra
	}

	if access != nil {
		if access.Target == "" || access.Name == "" {
			return fmt.Errorf("steps[%d].%s: target and name are required", index, kind)
		}
		if (kind == "write" || kind == "extra") && access.Value == nil {
			return fmt.Errorf("steps[%d].%s: value is required", index, kind)
		}
		if access.Class && kind != "read" {
			return fmt.Errorf("steps[%d].%s: class-level access is only supported for read", index, kind)
		}
	}

	if e := step.Expect; e != nil {
		if e.MRO != nil && kind != "mro" {
			return fmt.Errorf("steps[%d].expect: mro is only valid for mro steps", index)
		}
		if e.Error != "" && e.Value != nil {
			return fmt.Errorf("steps[%d].expect: set either value or error, not both", index)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Op == "" && a.Name == "" {
			return fmt.Errorf("assertions[%d]: op or name is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Names) == 0 {
			return fmt.Errorf("assertions[%d]: names list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Op == "" && a.Name == "" && a.Step == "" {
			return fmt.Errorf("assertions[%d]: op, name or step is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if a.Target == "" {
			return fmt.Errorf("assertions[%d]: target is required for final_state", index)
		}
		if len(a.Attrs) == 0 && len(a.Absent) == 0 {
			return fmt.Errorf("assertions[%d]: attrs or absent is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

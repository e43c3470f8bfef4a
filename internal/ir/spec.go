package ir

import (
	"fmt"
	"slices"
)

// AttrKind selects how a declared attribute is materialized in a class
// table.
type AttrKind string

const (
	// AttrValue is a plain value stored as-is.
	AttrValue AttrKind = "value"

	// AttrProperty is a managed attribute backed by an instance-table entry
	// (data descriptor).
	AttrProperty AttrKind = "property"

	// AttrMethod binds to instances (non-data descriptor). Calling the
	// bound method returns Value.
	AttrMethod AttrKind = "method"

	// AttrConstant yields Value for instance and class reads alike
	// (non-data descriptor).
	AttrConstant AttrKind = "constant"
)

// ValidAttrKinds lists the accepted attribute kinds.
var ValidAttrKinds = map[AttrKind]bool{
	AttrValue:    true,
	AttrProperty: true,
	AttrMethod:   true,
	AttrConstant: true,
}

// ClassSpec is a compiled declarative class definition.
type ClassSpec struct {
	Name    string     `json:"name"`
	Parents []string   `json:"parents"` // declared order matters
	Attrs   []AttrSpec `json:"attrs"`   // sorted by name
	Hooks   HookSpec   `json:"hooks"`
}

// AttrSpec is one entry of a class's own attribute table.
type AttrSpec struct {
	Name string   `json:"name"`
	Kind AttrKind `json:"kind"`

	// Value is the stored literal (value, constant) or the method result.
	Value Value `json:"value,omitempty"`

	// Property settings.
	Backing   string `json:"backing,omitempty"`
	ReadOnly  bool   `json:"readonly,omitempty"`
	Deletable bool   `json:"deletable,omitempty"`
}

// HookSpec declares the hook slots of a class. Zero value: no hooks.
type HookSpec struct {
	Missing *MissingSpec `json:"missing,omitempty"`

	// Answers installs a GetAttribute hook answering exactly these names
	// and delegating every other name to the default algorithm.
	Answers Object `json:"answers,omitempty"`

	// FrozenSet installs a SetAttribute hook rejecting every write.
	FrozenSet bool `json:"frozen_set,omitempty"`

	// FrozenDelete installs a DeleteAttribute hook rejecting every delete.
	FrozenDelete bool `json:"frozen_delete,omitempty"`
}

// MissingSpec declares an attribute-missing hook: a fixed fallback value,
// or serving names from the instance's extra-attributes table.
type MissingSpec struct {
	Value Value `json:"value,omitempty"`
	Extra bool  `json:"extra,omitempty"`
}

// Attr returns the attribute spec with the given name.
func (s ClassSpec) Attr(name string) (AttrSpec, bool) {
	i := slices.IndexFunc(s.Attrs, func(a AttrSpec) bool { return a.Name == name })
	if i < 0 {
		return AttrSpec{}, false
	}
	return s.Attrs[i], true
}

// Object returns the spec as a literal tree for canonical hashing.
func (s ClassSpec) Object() Object {
	parents := make(Array, len(s.Parents))
	for i, p := range s.Parents {
		parents[i] = String(p)
	}

	attrs := make(Object, len(s.Attrs))
	for _, a := range s.Attrs {
		entry := Object{"kind": String(a.Kind)}
		if a.Value != nil {
			entry["value"] = a.Value
		}
		if a.Kind == AttrProperty {
			entry["backing"] = String(a.Backing)
			entry["readonly"] = Bool(a.ReadOnly)
			entry["deletable"] = Bool(a.Deletable)
		}
		attrs[a.Name] = entry
	}

	hooks := Object{}
	if m := s.Hooks.Missing; m != nil {
		missing := Object{"extra": Bool(m.Extra)}
		if m.Value != nil {
			missing["value"] = m.Value
		}
		hooks["missing"] = missing
	}
	if s.Hooks.Answers != nil {
		hooks["answers"] = s.Hooks.Answers
	}
	if s.Hooks.FrozenSet {
		hooks["frozen_set"] = Bool(true)
	}
	if s.Hooks.FrozenDelete {
		hooks["frozen_delete"] = Bool(true)
	}

	return Object{
		"name":    String(s.Name),
		"parents": parents,
		"attrs":   attrs,
		"hooks":   hooks,
	}
}

// ValidationError is a single-spec validation failure with a field path.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks rules local to one spec. Rules needing the whole spec
// set (parents exist, no inheritance cycles) live in the compiler.
// Returns all errors, not just the first.
func (s ClassSpec) Validate() []ValidationError {
	var errs []ValidationError

	if s.Name == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "class name must not be empty"})
	}

	seenParents := make(map[string]bool, len(s.Parents))
	for i, p := range s.Parents {
		field := fmt.Sprintf("parents[%d]", i)
		switch {
		case p == "":
			errs = append(errs, ValidationError{Field: field, Message: "parent name must not be empty"})
		case p == s.Name:
			errs = append(errs, ValidationError{Field: field, Message: "class cannot inherit from itself"})
		case seenParents[p]:
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("duplicate parent %q", p)})
		}
		seenParents[p] = true
	}

	seenAttrs := make(map[string]bool, len(s.Attrs))
	for _, a := range s.Attrs {
		field := "attrs." + a.Name
		if a.Name == "" {
			errs = append(errs, ValidationError{Field: "attrs", Message: "attribute name must not be empty"})
			continue
		}
		if seenAttrs[a.Name] {
			errs = append(errs, ValidationError{Field: field, Message: "duplicate attribute"})
		}
		seenAttrs[a.Name] = true

		if !ValidAttrKinds[a.Kind] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("invalid kind %q, must be one of: value, property, method, constant", a.Kind),
			})
			continue
		}
		if (a.Kind == AttrValue || a.Kind == AttrConstant) && a.Value == nil {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("%s requires a literal", a.Kind)})
		}
		if a.Kind == AttrProperty {
			if a.Backing == "" {
				errs = append(errs, ValidationError{Field: field + ".backing", Message: "backing name must not be empty"})
			} else if a.Backing == a.Name {
				errs = append(errs, ValidationError{
					Field:   field + ".backing",
					Message: "backing name must differ from the attribute name",
				})
			}
		}
	}

	if m := s.Hooks.Missing; m != nil && m.Extra && m.Value != nil {
		errs = append(errs, ValidationError{Field: "hooks.missing", Message: "set either value or extra, not both"})
	}

	return errs
}

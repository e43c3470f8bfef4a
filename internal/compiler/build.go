package compiler

import (
	"fmt"

	"github.com/wardi/bar-foo/internal/ir"
	"github.com/wardi/bar-foo/internal/object"
)

// Build defines every spec as a class in reg, parents first, and
// materializes declared attributes and hooks.
//
// Build is not transactional: classes defined before a failing one stay in
// reg. Run Validate first, or build into a fresh registry.
func Build(reg *object.Registry, specs []ir.ClassSpec) ([]*object.Class, error) {
	ordered, err := Order(specs)
	if err != nil {
		return nil, err
	}

	classes := make([]*object.Class, 0, len(ordered))
	for _, spec := range ordered {
		parents := make([]*object.Class, len(spec.Parents))
		for i, name := range spec.Parents {
			p, ok := reg.Lookup(name)
			if !ok {
				return nil, fmt.Errorf("class %q: parent %q not defined", spec.Name, name)
			}
			parents[i] = p
		}

		c, err := reg.Define(spec.Name, parents...)
		if err != nil {
			return nil, fmt.Errorf("define %s: %w", spec.Name, err)
		}

		for _, attr := range spec.Attrs {
			c.SetAttr(attr.Name, Materialize(attr))
		}
		c.SetHooks(MaterializeHooks(spec.Hooks))
		classes = append(classes, c)
	}
	return classes, nil
}

// Materialize converts a declared attribute into the value stored in a
// class table.
func Materialize(attr ir.AttrSpec) any {
	switch attr.Kind {
	case ir.AttrProperty:
		return &object.Property{
			Name:        attr.Name,
			Backing:     attr.Backing,
			ReadOnly:    attr.ReadOnly,
			Undeletable: !attr.Deletable,
		}
	case ir.AttrMethod:
		result := ir.ToGo(attr.Value)
		return &object.Method{
			Name: attr.Name,
			Func: func(*object.Instance, ...any) (any, error) {
				return result, nil
			},
		}
	case ir.AttrConstant:
		return &object.Constant{Value: ir.ToGo(attr.Value)}
	default:
		return ir.ToGo(attr.Value)
	}
}

// MaterializeHooks converts declared hooks into hook functions.
func MaterializeHooks(spec ir.HookSpec) object.Hooks {
	var hooks object.Hooks

	if m := spec.Missing; m != nil {
		if m.Extra {
			hooks.Missing = object.ExtraAttributes
		} else {
			hooks.Missing = object.MissingValue(ir.ToGo(m.Value))
		}
	}

	if spec.Answers != nil {
		answers := make(map[string]any, len(spec.Answers))
		for k, v := range spec.Answers {
			answers[k] = ir.ToGo(v)
		}
		hooks.GetAttribute = func(a object.Access) (any, error) {
			if v, ok := answers[a.Name()]; ok {
				return v, nil
			}
			return a.Default()
		}
	}

	if spec.FrozenSet {
		hooks.SetAttribute = object.FrozenSetAttribute
	}
	if spec.FrozenDelete {
		hooks.DeleteAttribute = object.FrozenDeleteAttribute
	}
	return hooks
}

// checkLinearizable builds the specs into a scratch registry and reports
// every class whose parents cannot be linearized.
func checkLinearizable(specs []ir.ClassSpec) []ValidationError {
	ordered, err := Order(specs)
	if err != nil {
		return []ValidationError{{Field: "parents", Message: err.Error(), Code: ErrInheritanceCycle}}
	}

	reg := object.NewRegistry()
	var errs []ValidationError
	for _, spec := range ordered {
		parents := make([]*object.Class, 0, len(spec.Parents))
		for _, name := range spec.Parents {
			if p, ok := reg.Lookup(name); ok {
				parents = append(parents, p)
			}
		}
		if len(parents) != len(spec.Parents) {
			// A parent already failed; its error covers this class.
			continue
		}
		if _, err := reg.Define(spec.Name, parents...); err != nil {
			errs = append(errs, ValidationError{
				Class:   spec.Name,
				Field:   "parents",
				Message: err.Error(),
				Code:    ErrAmbiguousMRO,
			})
		}
	}
	return errs
}

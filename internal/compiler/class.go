package compiler

import (
	"fmt"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/wardi/bar-foo/internal/ir"
)

// Descriptor keys recognized inside an attribute struct. A struct with
// exactly one field named after one of these is a descriptor declaration;
// any other struct is a plain literal.
const (
	keyProperty = "property"
	keyMethod   = "method"
	keyConstant = "constant"
)

// CompileClass parses a CUE value into a ClassSpec.
// Uses the CUE Go API directly (not a CLI subprocess).
//
// The CUE value should be the class struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`class: Bar: { parents: ["Dancing", "Drinking"] }`)
//	spec, err := CompileClass(v.LookupPath(cue.ParsePath("class.Bar")))
func CompileClass(v cue.Value) (*ir.ClassSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.ClassSpec{}

	// Class name comes from the struct label.
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = labels[len(labels)-1].Unquoted()
	}

	if err := checkFields(v, "class", "parents", "attrs", "hooks"); err != nil {
		return nil, err
	}

	var err error
	spec.Parents, err = parseParents(v)
	if err != nil {
		return nil, err
	}

	spec.Attrs, err = parseAttrs(v)
	if err != nil {
		return nil, err
	}

	spec.Hooks, err = parseHooks(v)
	if err != nil {
		return nil, err
	}

	return spec, nil
}

// CompileValue compiles every class under the top-level "class" field.
// Classes are returned sorted by name; all compile errors are collected.
func CompileValue(v cue.Value) ([]ir.ClassSpec, []error) {
	if err := v.Err(); err != nil {
		return nil, []error{formatCUEError(err)}
	}

	classesVal := v.LookupPath(cue.ParsePath("class"))
	if !classesVal.Exists() {
		return nil, nil
	}

	iter, err := classesVal.Fields()
	if err != nil {
		return nil, []error{formatCUEError(err)}
	}

	var specs []ir.ClassSpec
	var errs []error
	for iter.Next() {
		spec, err := CompileClass(iter.Value())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		specs = append(specs, *spec)
	}

	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs, errs
}

// CompileSource compiles CUE source text. filename is used in positions.
func CompileSource(filename string, src []byte) ([]ir.ClassSpec, []error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	return CompileValue(v)
}

// checkFields rejects fields outside allowed. Unknown keys are almost
// always typos, so they fail instead of being ignored.
func checkFields(v cue.Value, where string, allowed ...string) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		label := iter.Label()
		known := false
		for _, a := range allowed {
			if label == a {
				known = true
				break
			}
		}
		if !known {
			return &CompileError{
				Field:   where + "." + label,
				Message: "unknown field",
				Pos:     iter.Value().Pos(),
			}
		}
	}
	return nil
}

// parseParents extracts the ordered parent list (optional).
func parseParents(v cue.Value) ([]string, error) {
	parentsVal := v.LookupPath(cue.ParsePath("parents"))
	if !parentsVal.Exists() {
		return nil, nil
	}

	iter, err := parentsVal.List()
	if err != nil {
		return nil, &CompileError{
			Field:   "parents",
			Message: "must be a list of class names",
			Pos:     parentsVal.Pos(),
		}
	}

	var parents []string
	for iter.Next() {
		name, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   "parents",
				Message: "parent must be a class name string",
				Pos:     iter.Value().Pos(),
			}
		}
		parents = append(parents, name)
	}
	return parents, nil
}

// parseAttrs extracts the own attribute table, sorted by name.
func parseAttrs(v cue.Value) ([]ir.AttrSpec, error) {
	attrsVal := v.LookupPath(cue.ParsePath("attrs"))
	if !attrsVal.Exists() {
		return nil, nil
	}

	iter, err := attrsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var attrs []ir.AttrSpec
	for iter.Next() {
		name := iter.Label()
		attr, err := parseAttr(name, iter.Value())
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, attr)
	}

	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })
	return attrs, nil
}

func parseAttr(name string, v cue.Value) (ir.AttrSpec, error) {
	attr := ir.AttrSpec{Name: name}
	field := "attrs." + name

	if key, body, ok := descriptorKey(v); ok {
		switch key {
		case keyProperty:
			return parseProperty(attr, body)
		case keyMethod:
			attr.Kind = ir.AttrMethod
			if err := checkFields(body, field+".method", "returns"); err != nil {
				return attr, err
			}
			if ret := body.LookupPath(cue.ParsePath("returns")); ret.Exists() {
				lit, err := literal(field+".method.returns", ret)
				if err != nil {
					return attr, err
				}
				attr.Value = lit
			}
			return attr, nil
		case keyConstant:
			attr.Kind = ir.AttrConstant
			lit, err := literal(field+".constant", body)
			if err != nil {
				return attr, err
			}
			attr.Value = lit
			return attr, nil
		}
	}

	attr.Kind = ir.AttrValue
	lit, err := literal(field, v)
	if err != nil {
		return attr, err
	}
	attr.Value = lit
	return attr, nil
}

// descriptorKey reports whether v is a struct with a single descriptor
// field, returning that field's name and value.
func descriptorKey(v cue.Value) (string, cue.Value, bool) {
	if v.IncompleteKind() != cue.StructKind {
		return "", cue.Value{}, false
	}
	iter, err := v.Fields()
	if err != nil {
		return "", cue.Value{}, false
	}

	var key string
	var body cue.Value
	n := 0
	for iter.Next() {
		n++
		key = iter.Label()
		body = iter.Value()
	}
	if n != 1 {
		return "", cue.Value{}, false
	}
	switch key {
	case keyProperty, keyMethod, keyConstant:
		return key, body, true
	}
	return "", cue.Value{}, false
}

// parseProperty reads {backing?, readonly?, deletable?}.
// Defaults: backing "_<name>", readonly false, deletable true.
func parseProperty(attr ir.AttrSpec, body cue.Value) (ir.AttrSpec, error) {
	field := "attrs." + attr.Name + ".property"
	attr.Kind = ir.AttrProperty
	attr.Backing = "_" + attr.Name
	attr.Deletable = true

	if err := checkFields(body, field, "backing", "readonly", "deletable"); err != nil {
		return attr, err
	}

	if b := body.LookupPath(cue.ParsePath("backing")); b.Exists() {
		s, err := b.String()
		if err != nil {
			return attr, &CompileError{Field: field + ".backing", Message: "must be a string", Pos: b.Pos()}
		}
		attr.Backing = s
	}
	if b := body.LookupPath(cue.ParsePath("readonly")); b.Exists() {
		ro, err := b.Bool()
		if err != nil {
			return attr, &CompileError{Field: field + ".readonly", Message: "must be a bool", Pos: b.Pos()}
		}
		attr.ReadOnly = ro
	}
	if b := body.LookupPath(cue.ParsePath("deletable")); b.Exists() {
		del, err := b.Bool()
		if err != nil {
			return attr, &CompileError{Field: field + ".deletable", Message: "must be a bool", Pos: b.Pos()}
		}
		attr.Deletable = del
	}
	return attr, nil
}

// parseHooks reads the optional hooks struct.
func parseHooks(v cue.Value) (ir.HookSpec, error) {
	var hooks ir.HookSpec

	hooksVal := v.LookupPath(cue.ParsePath("hooks"))
	if !hooksVal.Exists() {
		return hooks, nil
	}
	if err := checkFields(hooksVal, "hooks", "missing", "getattribute", "setattr", "delattr"); err != nil {
		return hooks, err
	}

	if m := hooksVal.LookupPath(cue.ParsePath("missing")); m.Exists() {
		if err := checkFields(m, "hooks.missing", "value", "extra"); err != nil {
			return hooks, err
		}
		spec := &ir.MissingSpec{}
		if val := m.LookupPath(cue.ParsePath("value")); val.Exists() {
			lit, err := literal("hooks.missing.value", val)
			if err != nil {
				return hooks, err
			}
			spec.Value = lit
		}
		if extra := m.LookupPath(cue.ParsePath("extra")); extra.Exists() {
			b, err := extra.Bool()
			if err != nil {
				return hooks, &CompileError{Field: "hooks.missing.extra", Message: "must be a bool", Pos: extra.Pos()}
			}
			spec.Extra = b
		}
		if spec.Value == nil && !spec.Extra {
			return hooks, &CompileError{
				Field:   "hooks.missing",
				Message: "requires value or extra: true",
				Pos:     m.Pos(),
			}
		}
		hooks.Missing = spec
	}

	if g := hooksVal.LookupPath(cue.ParsePath("getattribute")); g.Exists() {
		if err := checkFields(g, "hooks.getattribute", "answers"); err != nil {
			return hooks, err
		}
		answers := g.LookupPath(cue.ParsePath("answers"))
		if !answers.Exists() {
			return hooks, &CompileError{Field: "hooks.getattribute.answers", Message: "answers is required", Pos: g.Pos()}
		}
		lit, err := literal("hooks.getattribute.answers", answers)
		if err != nil {
			return hooks, err
		}
		obj, ok := lit.(ir.Object)
		if !ok {
			return hooks, &CompileError{Field: "hooks.getattribute.answers", Message: "must be a struct", Pos: answers.Pos()}
		}
		hooks.Answers = obj
	}

	var err error
	if hooks.FrozenSet, err = frozenFlag(hooksVal, "setattr"); err != nil {
		return hooks, err
	}
	if hooks.FrozenDelete, err = frozenFlag(hooksVal, "delattr"); err != nil {
		return hooks, err
	}
	return hooks, nil
}

func frozenFlag(hooksVal cue.Value, name string) (bool, error) {
	h := hooksVal.LookupPath(cue.ParsePath(name))
	if !h.Exists() {
		return false, nil
	}
	field := "hooks." + name
	if err := checkFields(h, field, "frozen"); err != nil {
		return false, err
	}
	f := h.LookupPath(cue.ParsePath("frozen"))
	if !f.Exists() {
		return false, &CompileError{Field: field + ".frozen", Message: "frozen is required", Pos: h.Pos()}
	}
	b, err := f.Bool()
	if err != nil {
		return false, &CompileError{Field: field + ".frozen", Message: "must be a bool", Pos: f.Pos()}
	}
	return b, nil
}

// literal converts a concrete CUE value into an ir.Value.
// Floats, null and non-concrete values are rejected.
func literal(field string, v cue.Value) (ir.Value, error) {
	switch v.Kind() {
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.String(s), nil

	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, &CompileError{Field: field, Message: "integer out of int64 range", Pos: v.Pos()}
		}
		return ir.Int(n), nil

	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.Bool(b), nil

	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		arr := ir.Array{}
		for i := 0; iter.Next(); i++ {
			elem, err := literal(fmt.Sprintf("%s[%d]", field, i), iter.Value())
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}
		return arr, nil

	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		obj := ir.Object{}
		for iter.Next() {
			key := iter.Label()
			elem, err := literal(field+"."+key, iter.Value())
			if err != nil {
				return nil, err
			}
			obj[key] = elem
		}
		return obj, nil

	case cue.FloatKind, cue.NumberKind:
		return nil, &CompileError{Field: field, Message: "floats are forbidden, use int", Pos: v.Pos()}

	case cue.NullKind:
		return nil, &CompileError{Field: field, Message: "null is not a valid literal", Pos: v.Pos()}

	default:
		if err := v.Err(); err != nil {
			return nil, formatCUEError(err)
		}
		return nil, &CompileError{Field: field, Message: "value must be a concrete literal", Pos: v.Pos()}
	}
}

// CompileError is a compile failure with CUE source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// First error with position info wins.
	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}

package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardi/bar-foo/internal/ir"
)

const barSource = `
class: Structure: {
	attrs: foo: "bricks"
}
class: Dancing: {
	parents: ["Structure"]
}
class: Drinking: {
	parents: ["Structure"]
	attrs: foo: "drinks"
}
class: Bar: {
	parents: ["Dancing", "Drinking"]
}
`

func TestCompileClass_Basic(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(barSource)
	require.NoError(t, v.Err())

	spec, err := CompileClass(v.LookupPath(cue.ParsePath("class.Drinking")))
	require.NoError(t, err)

	assert.Equal(t, "Drinking", spec.Name)
	assert.Equal(t, []string{"Structure"}, spec.Parents)
	require.Len(t, spec.Attrs, 1)
	assert.Equal(t, ir.AttrSpec{Name: "foo", Kind: ir.AttrValue, Value: ir.String("drinks")}, spec.Attrs[0])
	assert.Equal(t, ir.HookSpec{}, spec.Hooks)
}

func TestCompileSource_AllClassesSorted(t *testing.T) {
	specs, errs := CompileSource("bar.cue", []byte(barSource))
	require.Empty(t, errs)

	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"Bar", "Dancing", "Drinking", "Structure"}, names)
	assert.Equal(t, []string{"Dancing", "Drinking"}, specs[0].Parents)
}

func TestCompileSource_NoClasses(t *testing.T) {
	specs, errs := CompileSource("empty.cue", []byte(`other: 1`))
	assert.Empty(t, errs)
	assert.Empty(t, specs)
}

func TestCompileClass_Descriptors(t *testing.T) {
	specs, errs := CompileSource("temp.cue", []byte(`
class: Temperature: {
	attrs: {
		celsius: property: {}
		kelvin: property: {backing: "_k", readonly: true, deletable: false}
		describe: method: {returns: "a temperature"}
		reset: method: {}
		unit: constant: "C"
		limits: {low: -273, high: 1000}
		tags: ["a", "b"]
		enabled: true
	}
}
`))
	require.Empty(t, errs)
	require.Len(t, specs, 1)
	spec := specs[0]

	celsius, ok := spec.Attr("celsius")
	require.True(t, ok)
	assert.Equal(t, ir.AttrSpec{Name: "celsius", Kind: ir.AttrProperty, Backing: "_celsius", Deletable: true}, celsius)

	kelvin, _ := spec.Attr("kelvin")
	assert.Equal(t, ir.AttrSpec{Name: "kelvin", Kind: ir.AttrProperty, Backing: "_k", ReadOnly: true}, kelvin)

	describe, _ := spec.Attr("describe")
	assert.Equal(t, ir.AttrMethod, describe.Kind)
	assert.Equal(t, ir.String("a temperature"), describe.Value)

	reset, _ := spec.Attr("reset")
	assert.Equal(t, ir.AttrMethod, reset.Kind)
	assert.Nil(t, reset.Value)

	unit, _ := spec.Attr("unit")
	assert.Equal(t, ir.AttrSpec{Name: "unit", Kind: ir.AttrConstant, Value: ir.String("C")}, unit)

	limits, _ := spec.Attr("limits")
	assert.Equal(t, ir.AttrValue, limits.Kind)
	assert.Equal(t, ir.Object{"low": ir.Int(-273), "high": ir.Int(1000)}, limits.Value)

	tags, _ := spec.Attr("tags")
	assert.Equal(t, ir.Array{ir.String("a"), ir.String("b")}, tags.Value)

	enabled, _ := spec.Attr("enabled")
	assert.Equal(t, ir.Bool(true), enabled.Value)
}

func TestCompileClass_Hooks(t *testing.T) {
	specs, errs := CompileSource("hooks.cue", []byte(`
class: Lenient: hooks: missing: value: "n/a"
class: Dynamic: hooks: missing: extra: true
class: Proxy: hooks: getattribute: answers: {magic: 42}
class: Frozen: hooks: {
	setattr: frozen: true
	delattr: frozen: true
}
`))
	require.Empty(t, errs)
	byName := make(map[string]ir.ClassSpec)
	for _, s := range specs {
		byName[s.Name] = s
	}

	assert.Equal(t, &ir.MissingSpec{Value: ir.String("n/a")}, byName["Lenient"].Hooks.Missing)
	assert.Equal(t, &ir.MissingSpec{Extra: true}, byName["Dynamic"].Hooks.Missing)
	assert.Equal(t, ir.Object{"magic": ir.Int(42)}, byName["Proxy"].Hooks.Answers)
	assert.True(t, byName["Frozen"].Hooks.FrozenSet)
	assert.True(t, byName["Frozen"].Hooks.FrozenDelete)
}

func TestCompileClass_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		field   string
		message string
	}{
		{"float value", `class: A: attrs: x: 1.5`, "attrs.x", "floats are forbidden"},
		{"null value", `class: A: attrs: x: null`, "attrs.x", "null"},
		{"non-concrete value", `class: A: attrs: x: string`, "attrs.x", "concrete"},
		{"unknown class field", `class: A: parent: ["B"]`, "class.parent", "unknown field"},
		{"parents not list", `class: A: parents: "B"`, "parents", "must be a list"},
		{"parent not string", `class: A: parents: [1]`, "parents", "class name string"},
		{"unknown property field", `class: A: attrs: x: property: {back: "_x"}`, "attrs.x.property.back", "unknown field"},
		{"readonly not bool", `class: A: attrs: x: property: {readonly: "yes"}`, "attrs.x.property.readonly", "must be a bool"},
		{"float constant", `class: A: attrs: x: constant: 2.0`, "attrs.x.constant", "floats"},
		{"unknown hook", `class: A: hooks: getattr: {}`, "hooks.getattr", "unknown field"},
		{"empty missing", `class: A: hooks: missing: {}`, "hooks.missing", "requires value"},
		{"answers missing", `class: A: hooks: getattribute: {}`, "hooks.getattribute.answers", "required"},
		{"answers not struct", `class: A: hooks: getattribute: answers: [1]`, "hooks.getattribute.answers", "must be a struct"},
		{"frozen missing", `class: A: hooks: setattr: {}`, "hooks.setattr.frozen", "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := CompileSource("bad.cue", []byte(tt.src))
			require.Len(t, errs, 1)

			var ce *CompileError
			require.ErrorAs(t, errs[0], &ce)
			assert.Equal(t, tt.field, ce.Field)
			assert.Contains(t, ce.Message, tt.message)
		})
	}
}

func TestCompileSource_CollectsErrorsPerClass(t *testing.T) {
	specs, errs := CompileSource("mixed.cue", []byte(`
class: Good: attrs: x: 1
class: Bad1: attrs: x: 1.5
class: Bad2: attrs: y: null
`))
	assert.Len(t, errs, 2)
	require.Len(t, specs, 1)
	assert.Equal(t, "Good", specs[0].Name)
}

func TestCompileSource_SyntaxError(t *testing.T) {
	_, errs := CompileSource("broken.cue", []byte(`class: A: {`))
	require.Len(t, errs, 1)

	var ce *CompileError
	require.ErrorAs(t, errs[0], &ce)
	assert.Equal(t, "cue", ce.Field)
	assert.Contains(t, ce.Error(), "broken.cue")
}

func TestCompileError_Error(t *testing.T) {
	err := &CompileError{Field: "attrs.x", Message: "floats are forbidden, use int"}
	assert.Equal(t, "attrs.x: floats are forbidden, use int", err.Error())
}

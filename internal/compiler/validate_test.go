package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardi/bar-foo/internal/ir"
)

func classSpec(name string, parents ...string) ir.ClassSpec {
	return ir.ClassSpec{Name: name, Parents: parents}
}

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidate_BarHierarchy(t *testing.T) {
	specs, errs := CompileSource("bar.cue", []byte(barSource))
	require.Empty(t, errs)

	assert.Empty(t, Validate(specs), "bar hierarchy should validate")
}

func TestValidate_Empty(t *testing.T) {
	assert.Empty(t, Validate(nil))
}

func TestValidate_DuplicateClass(t *testing.T) {
	errs := Validate([]ir.ClassSpec{classSpec("A"), classSpec("A")})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrDuplicateClass, errs[0].Code)
	assert.Equal(t, "A", errs[0].Class)
}

func TestValidate_PerClassRulesUseE101(t *testing.T) {
	spec := ir.ClassSpec{
		Name: "A",
		Attrs: []ir.AttrSpec{
			{Name: "x", Kind: ir.AttrProperty, Backing: "x"},
		},
	}
	errs := Validate([]ir.ClassSpec{spec})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrInvalidClass, errs[0].Code)
	assert.Equal(t, "attrs.x.backing", errs[0].Field)
}

func TestValidate_UnknownParent(t *testing.T) {
	errs := Validate([]ir.ClassSpec{classSpec("A", "Ghost")})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnknownParent, errs[0].Code)
	assert.Equal(t, "parents[0]", errs[0].Field)
	assert.Contains(t, errs[0].Message, `"Ghost"`)
}

func TestValidate_InheritanceCycle(t *testing.T) {
	errs := Validate([]ir.ClassSpec{
		classSpec("A", "C"),
		classSpec("B", "A"),
		classSpec("C", "B"),
	})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrInheritanceCycle, errs[0].Code)
	assert.Equal(t, "A", errs[0].Class)
	assert.Equal(t, "inheritance cycle: A -> C -> B -> A", errs[0].Message)
}

func TestValidate_AmbiguousMRO(t *testing.T) {
	errs := Validate([]ir.ClassSpec{
		classSpec("O"),
		classSpec("X", "O"),
		classSpec("Y", "O"),
		classSpec("A", "X", "Y"),
		classSpec("B", "Y", "X"),
		classSpec("Z", "A", "B"),
	})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrAmbiguousMRO, errs[0].Code)
	assert.Equal(t, "Z", errs[0].Class)
	assert.Contains(t, errs[0].Message, "AMBIGUOUS_HIERARCHY")
}

func TestValidate_AmbiguousMRO_SubclassBeforeBase(t *testing.T) {
	errs := Validate([]ir.ClassSpec{
		classSpec("A"),
		classSpec("B", "A"),
		classSpec("C", "A", "B"),
	})
	assert.Equal(t, []string{ErrAmbiguousMRO}, codes(errs))
}

func TestValidate_LinearizationSkippedOnEarlierErrors(t *testing.T) {
	errs := Validate([]ir.ClassSpec{
		classSpec("A"),
		classSpec("B", "A"),
		classSpec("C", "A", "B"), // ambiguous, but not reported
		classSpec("D", "Ghost"),
	})
	assert.Equal(t, []string{ErrUnknownParent}, codes(errs))
}

func TestValidate_CollectsAll(t *testing.T) {
	errs := Validate([]ir.ClassSpec{
		classSpec("A", "A"),
		classSpec("B", "Ghost"),
		classSpec("B"),
	})
	assert.ElementsMatch(t,
		[]string{ErrInvalidClass, ErrUnknownParent, ErrDuplicateClass, ErrInheritanceCycle},
		codes(errs))
}

func TestValidationError_Error(t *testing.T) {
	withClass := ValidationError{Class: "A", Field: "parents[0]", Message: "boom", Code: ErrUnknownParent}
	assert.Equal(t, "[E111] class.A.parents[0]: boom", withClass.Error())

	setLevel := ValidationError{Field: "parents", Message: "boom", Code: ErrInheritanceCycle}
	assert.Equal(t, "[E112] parents: boom", setLevel.Error())
}

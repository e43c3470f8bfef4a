package object

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttributeError_Error(t *testing.T) {
	assert.Equal(t,
		"NOT_FOUND: attribute not found (class=Bar, attr=missing)",
		NotFound("Bar", "missing").Error())

	err := &AttributeError{Code: ErrCodeFrozen, Name: "x"}
	assert.Equal(t, "FROZEN: object is frozen (attr=x)", err.Error())
}

func TestAttributeError_Predicates_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading config: %w", ReadOnly("Cfg", "path"))

	assert.True(t, IsReadOnly(err))
	assert.False(t, IsNotFound(err))
	assert.False(t, IsAmbiguousHierarchy(err))
}

func TestHierarchyError_Error(t *testing.T) {
	err := &HierarchyError{
		Code:    ErrCodeAmbiguousHierarchy,
		Class:   "Z",
		Message: "cannot create a consistent method resolution order",
		Details: []string{"A", "B"},
	}
	assert.Equal(t,
		"AMBIGUOUS_HIERARCHY: cannot create a consistent method resolution order (class=Z, involved=A, B)",
		err.Error())
	assert.True(t, IsAmbiguousHierarchy(fmt.Errorf("define: %w", err)))
}

package object

import (
	"errors"
	"fmt"
	"strings"
)

// AttributeErrorCode categorizes attribute resolution failures.
type AttributeErrorCode string

const (
	// ErrCodeNotFound indicates no resolution step produced a value.
	ErrCodeNotFound AttributeErrorCode = "NOT_FOUND"

	// ErrCodeReadOnly indicates an instance-level write hit a data
	// descriptor that cannot assign.
	ErrCodeReadOnly AttributeErrorCode = "READ_ONLY"

	// ErrCodeNotDeletable indicates an instance-level delete hit a data
	// descriptor that cannot unbind.
	ErrCodeNotDeletable AttributeErrorCode = "NOT_DELETABLE"

	// ErrCodeFrozen indicates a full-override hook rejected a mutation.
	ErrCodeFrozen AttributeErrorCode = "FROZEN"

	// ErrCodeRecursionLimit indicates nested resolution exceeded the
	// configured depth.
	ErrCodeRecursionLimit AttributeErrorCode = "RECURSION_LIMIT"
)

// AttributeError is returned by read, write and delete operations.
//
// NOT_FOUND is the expected outcome of a lookup miss and is recoverable;
// callers commonly turn it into a boolean or a default value.
type AttributeError struct {
	Code AttributeErrorCode

	// Name is the attribute being resolved.
	Name string

	// Class is the name of the class the access went through, if known.
	Class string

	// Message overrides the default description.
	Message string
}

// Error implements the error interface.
func (e *AttributeError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.defaultMessage()
	}
	if e.Class != "" {
		return fmt.Sprintf("%s: %s (class=%s, attr=%s)", e.Code, msg, e.Class, e.Name)
	}
	return fmt.Sprintf("%s: %s (attr=%s)", e.Code, msg, e.Name)
}

func (e *AttributeError) defaultMessage() string {
	switch e.Code {
	case ErrCodeNotFound:
		return "attribute not found"
	case ErrCodeReadOnly:
		return "attribute is read-only"
	case ErrCodeNotDeletable:
		return "attribute cannot be deleted"
	case ErrCodeFrozen:
		return "object is frozen"
	case ErrCodeRecursionLimit:
		return "maximum resolution depth exceeded"
	default:
		return "attribute error"
	}
}

// NotFound creates the NOT_FOUND error for name.
func NotFound(class, name string) *AttributeError {
	return &AttributeError{Code: ErrCodeNotFound, Class: class, Name: name}
}

// ReadOnly creates the READ_ONLY error for name.
func ReadOnly(class, name string) *AttributeError {
	return &AttributeError{Code: ErrCodeReadOnly, Class: class, Name: name}
}

// NotDeletable creates the NOT_DELETABLE error for name.
func NotDeletable(class, name string) *AttributeError {
	return &AttributeError{Code: ErrCodeNotDeletable, Class: class, Name: name}
}

// Frozen creates the FROZEN error for name.
func Frozen(class, name string) *AttributeError {
	return &AttributeError{Code: ErrCodeFrozen, Class: class, Name: name}
}

func hasAttributeCode(err error, code AttributeErrorCode) bool {
	var ae *AttributeError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// IsNotFound reports whether err is a NOT_FOUND attribute error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	return hasAttributeCode(err, ErrCodeNotFound)
}

// IsReadOnly reports whether err is a READ_ONLY attribute error.
func IsReadOnly(err error) bool {
	return hasAttributeCode(err, ErrCodeReadOnly)
}

// IsNotDeletable reports whether err is a NOT_DELETABLE attribute error.
func IsNotDeletable(err error) bool {
	return hasAttributeCode(err, ErrCodeNotDeletable)
}

// IsFrozen reports whether err is a FROZEN attribute error.
func IsFrozen(err error) bool {
	return hasAttributeCode(err, ErrCodeFrozen)
}

// IsRecursionLimit reports whether err is a RECURSION_LIMIT attribute error.
func IsRecursionLimit(err error) bool {
	return hasAttributeCode(err, ErrCodeRecursionLimit)
}

// HierarchyErrorCode categorizes class definition failures.
type HierarchyErrorCode string

const (
	// ErrCodeAmbiguousHierarchy indicates C3 could not select a head.
	ErrCodeAmbiguousHierarchy HierarchyErrorCode = "AMBIGUOUS_HIERARCHY"

	// ErrCodeDuplicateBase indicates the same parent was listed twice.
	ErrCodeDuplicateBase HierarchyErrorCode = "DUPLICATE_BASE"

	// ErrCodeInheritanceCycle indicates a class would inherit from itself.
	ErrCodeInheritanceCycle HierarchyErrorCode = "INHERITANCE_CYCLE"

	// ErrCodeDuplicateClass indicates the name is already registered.
	ErrCodeDuplicateClass HierarchyErrorCode = "DUPLICATE_CLASS"

	// ErrCodeUnknownClass indicates a referenced class is not registered.
	ErrCodeUnknownClass HierarchyErrorCode = "UNKNOWN_CLASS"

	// ErrCodeHasSubclasses indicates a class cannot be discarded while
	// registered classes still inherit from it.
	ErrCodeHasSubclasses HierarchyErrorCode = "HAS_SUBCLASSES"

	// ErrCodeForeignClass indicates a parent belongs to another registry.
	ErrCodeForeignClass HierarchyErrorCode = "FOREIGN_CLASS"

	// ErrCodeInvalidName indicates an empty class name.
	ErrCodeInvalidName HierarchyErrorCode = "INVALID_NAME"
)

// HierarchyError is raised at class-definition time (or on parent
// reassignment) when no valid linearization exists. It is fatal to that
// definition: the registry is left unchanged.
type HierarchyError struct {
	Code    HierarchyErrorCode
	Class   string
	Message string

	// Details names the classes involved (e.g. the unmergeable heads).
	Details []string
}

// Error implements the error interface.
func (e *HierarchyError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %s (class=%s, involved=%s)",
			e.Code, e.Message, e.Class, strings.Join(e.Details, ", "))
	}
	return fmt.Sprintf("%s: %s (class=%s)", e.Code, e.Message, e.Class)
}

func hasHierarchyCode(err error, code HierarchyErrorCode) bool {
	var he *HierarchyError
	if errors.As(err, &he) {
		return he.Code == code
	}
	return false
}

// IsAmbiguousHierarchy reports whether err is an AMBIGUOUS_HIERARCHY error.
func IsAmbiguousHierarchy(err error) bool {
	return hasHierarchyCode(err, ErrCodeAmbiguousHierarchy)
}

// IsHierarchyError reports whether err is any HierarchyError.
func IsHierarchyError(err error) bool {
	var he *HierarchyError
	return errors.As(err, &he)
}

package compiler

import (
	"fmt"

	"github.com/wardi/bar-foo/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// Single-class errors (E101-E109)
	ErrInvalidClass = "E101" // a rule local to one class spec failed

	// Spec-set errors (E110-E119)
	ErrDuplicateClass   = "E110" // two specs share a class name
	ErrUnknownParent    = "E111" // parent does not name a spec in the set
	ErrInheritanceCycle = "E112" // classes inherit from each other
	ErrAmbiguousMRO     = "E113" // parents cannot be linearized
)

// ValidationError represents a spec validation error.
type ValidationError struct {
	Class   string `json:"class,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Class != "" {
		return fmt.Sprintf("[%s] class.%s.%s: %s", e.Code, e.Class, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a set of class specs. It runs every per-class rule, then
// the rules that need the whole set: unique names, known parents,
// no inheritance cycles, and a consistent linearization for every class.
// Returns all errors found (does not fail-fast).
func Validate(specs []ir.ClassSpec) []ValidationError {
	var errs []ValidationError

	byName := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if spec.Name != "" && byName[spec.Name] {
			errs = append(errs, ValidationError{
				Class:   spec.Name,
				Field:   "name",
				Message: "class defined more than once",
				Code:    ErrDuplicateClass,
			})
		}
		byName[spec.Name] = true

		for _, ve := range spec.Validate() {
			errs = append(errs, ValidationError{
				Class:   spec.Name,
				Field:   ve.Field,
				Message: ve.Message,
				Code:    ErrInvalidClass,
			})
		}
	}

	for _, spec := range specs {
		for i, p := range spec.Parents {
			if p != "" && !byName[p] {
				errs = append(errs, ValidationError{
					Class:   spec.Name,
					Field:   fmt.Sprintf("parents[%d]", i),
					Message: fmt.Sprintf("unknown parent class %q", p),
					Code:    ErrUnknownParent,
				})
			}
		}
	}

	cycles := AnalyzeInheritance(specs)
	for _, c := range cycles {
		errs = append(errs, ValidationError{
			Class:   c.Path[0],
			Field:   "parents",
			Message: c.Message,
			Code:    ErrInheritanceCycle,
		})
	}

	// Linearization needs a sound graph; skip it when earlier rules failed.
	if len(errs) > 0 {
		return errs
	}
	return append(errs, checkLinearizable(specs)...)
}

package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeUnknownKind indicates a component kind outside the closed
	// variant set.
	ErrCodeUnknownKind ErrorCode = "UNKNOWN_COMPONENT_KIND"

	// ErrCodeNotFound indicates an operation on an id that isn't
	// registered.
	ErrCodeNotFound ErrorCode = "COMPONENT_NOT_FOUND"

	// ErrCodeCyclicDependency indicates the component sits on a
	// reference cycle.
	ErrCodeCyclicDependency ErrorCode = "CYCLIC_DEPENDENCY"

	// ErrCodeMalformedFormula indicates formula text outside the
	// permitted arithmetic grammar.
	ErrCodeMalformedFormula ErrorCode = "MALFORMED_FORMULA"

	// ErrCodeMissingProperty indicates a kind-specific required
	// property is absent or has the wrong shape.
	ErrCodeMissingProperty ErrorCode = "MISSING_REQUIRED_PROPERTY"
)

// Error is the engine's structured error type.
//
// Structural errors (unknown kind, not found) are returned from registry
// operations. Computation errors (cycle, malformed formula, missing
// property) are contained: they degrade the affected component's result
// and never abort evaluation of the rest of the model.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// ComponentID identifies the affected component, when known.
	ComponentID string

	// Cycle lists the member ids of the offending cycle (for
	// CYCLIC_DEPENDENCY only), sorted.
	Cycle []string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.ComponentID != "" {
		fmt.Fprintf(&b, " (component=%s)", e.ComponentID)
	}
	if len(e.Cycle) > 0 {
		fmt.Fprintf(&b, " (cycle=%s)", strings.Join(e.Cycle, " -> "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// NewUnknownKindError reports a kind outside the closed variant set.
func NewUnknownKindError(id, kind string) *Error {
	return &Error{
		Code:        ErrCodeUnknownKind,
		Message:     fmt.Sprintf("unknown component kind %q", kind),
		ComponentID: id,
	}
}

// NewNotFoundError reports an operation on an unregistered id.
func NewNotFoundError(id string) *Error {
	return &Error{
		Code:        ErrCodeNotFound,
		Message:     "component is not registered",
		ComponentID: id,
	}
}

// NewCycleError reports a reference cycle, naming its members.
func NewCycleError(id string, members []string) *Error {
	return &Error{
		Code:        ErrCodeCyclicDependency,
		Message:     "component is part of a dependency cycle",
		ComponentID: id,
		Cycle:       members,
	}
}

// NewMalformedFormulaError wraps a formula parse or eval failure.
func NewMalformedFormulaError(id string, err error) *Error {
	return &Error{
		Code:        ErrCodeMalformedFormula,
		Message:     "formula is outside the permitted arithmetic grammar",
		ComponentID: id,
		Err:         err,
	}
}

// NewMissingPropertyError wraps a property decode failure.
func NewMissingPropertyError(id string, err error) *Error {
	return &Error{
		Code:        ErrCodeMissingProperty,
		Message:     "required property is missing or malformed",
		ComponentID: id,
		Err:         err,
	}
}

// CodeOf extracts the engine error code from an error chain. Returns
// the empty code when err is not an engine Error.
func CodeOf(err error) ErrorCode {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// IsNotFound reports whether the error chain carries COMPONENT_NOT_FOUND.
func IsNotFound(err error) bool { return CodeOf(err) == ErrCodeNotFound }

// IsUnknownKind reports whether the error chain carries UNKNOWN_COMPONENT_KIND.
func IsUnknownKind(err error) bool { return CodeOf(err) == ErrCodeUnknownKind }

// IsCyclic reports whether the error chain carries CYCLIC_DEPENDENCY.
func IsCyclic(err error) bool { return CodeOf(err) == ErrCodeCyclicDependency }

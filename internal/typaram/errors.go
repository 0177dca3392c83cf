package typaram

import (
	"fmt"

	"github.com/funvibe/typaram/internal/typesystem"
)

// Every rule in the engine fails with its own error type so a caller can
// match with errors.As and surface a precise diagnostic. Errors carry the
// offending parameter position and the conflicting values; no message
// formatting beyond Error() happens here.

// OrderingViolationError indicates a parameter without a default declared
// after a parameter with one.
type OrderingViolationError struct {
	Param    string
	Position int
}

func (e *OrderingViolationError) Error() string {
	return fmt.Sprintf("parameter %s at position %d has no default but follows a defaulted parameter", e.Param, e.Position)
}

// AdjacencyViolationError indicates a defaulted single parameter declared
// immediately after a variadic-tuple parameter.
type AdjacencyViolationError struct {
	Param    string
	Position int
	After    string
}

func (e *AdjacencyViolationError) Error() string {
	return fmt.Sprintf("defaulted parameter %s at position %d may not immediately follow variadic parameter %s", e.Param, e.Position, e.After)
}

// ScopeViolationError indicates a default referencing a parameter that is
// not declared strictly earlier in the same parameter list.
type ScopeViolationError struct {
	Param    string
	Position int
	Ref      string
}

func (e *ScopeViolationError) Error() string {
	return fmt.Sprintf("default of parameter %s at position %d references %s, which is not declared earlier in the same parameter list", e.Param, e.Position, e.Ref)
}

// KindMismatchError indicates a default whose kind does not match the
// declaring parameter: either a reference to a parameter of another kind
// (Ref set), or a concrete value of the wrong shape (Ref empty).
type KindMismatchError struct {
	Param    string
	Position int
	Kind     ParamKind
	Ref      string
	Got      string
}

func (e *KindMismatchError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("default of %s parameter %s at position %d references %s parameter %s", e.Kind, e.Param, e.Position, e.Got, e.Ref)
	}
	return fmt.Sprintf("default of %s parameter %s at position %d is %s", e.Kind, e.Param, e.Position, e.Got)
}

// BoundIncompatibleError indicates a default (referenced bound or concrete
// value) that is not a subtype of the declaring parameter's bound.
type BoundIncompatibleError struct {
	Param    string
	Position int
	Bound    typesystem.Type
	Default  typesystem.Type
}

func (e *BoundIncompatibleError) Error() string {
	return fmt.Sprintf("default %s of parameter %s at position %d is not a subtype of bound %s", e.Default, e.Param, e.Position, e.Bound)
}

// ConstraintIncompatibleError indicates a default incompatible with the
// declaring parameter's constraint set: a concrete default that is not an
// exact member, or a referenced parameter whose constraints are not a
// subset of the declaring parameter's.
type ConstraintIncompatibleError struct {
	Param       string
	Position    int
	Constraints []typesystem.Type
	Default     typesystem.Type
	Ref         string
}

func (e *ConstraintIncompatibleError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("constraints of parameter %s at position %d do not cover those of referenced parameter %s", e.Param, e.Position, e.Ref)
	}
	return fmt.Sprintf("default %s of parameter %s at position %d is not a member of its constraint set", e.Default, e.Param, e.Position)
}

// UndersuppliedError indicates a subscription that leaves a mandatory
// position uncovered: fewer arguments than parameters without defaults.
type UndersuppliedError struct {
	Param    string
	Position int
	Supplied int
}

func (e *UndersuppliedError) Error() string {
	return fmt.Sprintf("parameter %s at position %d has no default and no argument (%d supplied)", e.Param, e.Position, e.Supplied)
}

// OversuppliedError indicates more arguments supplied than parameters declared.
type OversuppliedError struct {
	Declared int
	Supplied int
}

func (e *OversuppliedError) Error() string {
	return fmt.Sprintf("%d type arguments supplied, but only %d parameters declared", e.Supplied, e.Declared)
}

// ReSpecializationError indicates a subscription attempted against a
// construct whose parameters are already fully bound.
type ReSpecializationError struct {
	Construct string
}

func (e *ReSpecializationError) Error() string {
	return fmt.Sprintf("%s is already fully specialized and cannot be subscripted again", e.Construct)
}

// Package typaram validates declaration lists of generic type parameters
// with optional defaults and resolves use-site subscriptions against them.
//
// The package is the defaults subsystem of a type checker: the syntax layer
// feeds it ordered parameter declarations, Validate freezes them into a
// DeclarationList, and every later subscription is checked (Check) and
// completed (Resolve) against that list. All values are immutable after
// validation, so lists may be shared between goroutines freely.
package typaram

import (
	"fmt"

	"github.com/funvibe/typaram/internal/typesystem"
)

// ParamKind is the closed variant of parameter kinds. Consumers switch
// exhaustively over the three kinds.
type ParamKind int

const (
	// Single is an ordinary type parameter, bindable to one type.
	Single ParamKind = iota
	// VariadicTuple is bindable to zero or more types at once.
	VariadicTuple
	// ParameterSpec is bindable to a callable's parameter-list shape.
	ParameterSpec
)

func (k ParamKind) String() string {
	switch k {
	case Single:
		return "single"
	case VariadicTuple:
		return "variadic"
	case ParameterSpec:
		return "paramspec"
	}
	return fmt.Sprintf("ParamKind(%d)", int(k))
}

// DefaultExpr is a deferred-evaluation handle for a default expression.
// The syntax layer hands the engine an unevaluated expression; the engine
// evaluates it on first access during validation and caches the result.
// Evaluation itself is a black box (the host's expression evaluator).
type DefaultExpr struct {
	eval  func() (typesystem.Type, error)
	value typesystem.Type
	err   error
	done  bool
}

// Deferred wraps an unevaluated default expression.
func Deferred(eval func() (typesystem.Type, error)) *DefaultExpr {
	return &DefaultExpr{eval: eval}
}

// DefaultOf wraps an already-evaluated default value.
func DefaultOf(t typesystem.Type) *DefaultExpr {
	return &DefaultExpr{value: t, done: true}
}

// Value evaluates the expression on first call and caches the outcome.
// Validation runs single-threaded before the list is shared, so no lock
// is needed around the memo.
func (d *DefaultExpr) Value() (typesystem.Type, error) {
	if !d.done {
		d.value, d.err = d.eval()
		d.done = true
	}
	return d.value, d.err
}

// TypeParameter is one declared generic parameter. Bound and Constraints
// are mutually exclusive. Default is nil when the parameter has none.
type TypeParameter struct {
	Name        string
	Kind        ParamKind
	Bound       typesystem.Type
	Constraints []typesystem.Type
	Default     *DefaultExpr

	// Set by Validate: the parameter's index in its list, and the default
	// value with every parameter reference annotated with its position.
	position int
	resolved typesystem.Type
}

// Position returns the parameter's index within its declaration list.
// Meaningful only after Validate.
func (p *TypeParameter) Position() int { return p.position }

// HasDefault reports whether the parameter declares a default.
func (p *TypeParameter) HasDefault() bool { return p.Default != nil }

// DeclarationList is an ordered, immutable sequence of validated type
// parameters. Only Validate constructs one; nothing mutates it afterwards.
type DeclarationList struct {
	params    []*TypeParameter
	mandatory int
}

// Len returns the number of declared parameters.
func (d *DeclarationList) Len() int { return len(d.params) }

// At returns the parameter at position i.
func (d *DeclarationList) At(i int) *TypeParameter { return d.params[i] }

// Mandatory returns the number of parameters without defaults.
func (d *DeclarationList) Mandatory() int { return d.mandatory }

// Params returns the parameters in declaration order. The returned slice
// is shared and must be treated as read-only.
func (d *DeclarationList) Params() []*TypeParameter { return d.params }

func (d *DeclarationList) String() string {
	s := ""
	for i, p := range d.params {
		if i > 0 {
			s += ", "
		}
		s += p.Name
	}
	return "[" + s + "]"
}

package typaram

import (
	"github.com/funvibe/typaram/internal/typesystem"
)

// SpecState tracks a generic construct across its lifetime. Transitions only
// move forward; there is no unbinding.
type SpecState int

const (
	// Declared: the declaration list is validated, nothing bound yet.
	Declared SpecState = iota
	// PartiallySpecialized: an enclosing construct fixed a prefix of the
	// parameters; the remaining suffix is still open.
	PartiallySpecialized
	// FullySpecialized: every parameter is bound. Terminal; no further
	// subscription is accepted.
	FullySpecialized
)

func (s SpecState) String() string {
	switch s {
	case Declared:
		return "declared"
	case PartiallySpecialized:
		return "partially-specialized"
	case FullySpecialized:
		return "fully-specialized"
	}
	return "unknown"
}

// Check validates a supplied-argument list against a declaration list,
// given an optional prefix already fixed by a prior specialization step.
// It decides acceptability only; completion is Resolve's job.
func Check(decls *DeclarationList, supplied, prefix []typesystem.Type) error {
	remaining := decls.Len() - len(prefix)
	if remaining <= 0 {
		// A construct whose parameters are all bound is not re-subscriptable,
		// not even with an empty argument list.
		return &ReSpecializationError{Construct: decls.String()}
	}
	if len(supplied) > remaining {
		return &OversuppliedError{Declared: remaining, Supplied: len(supplied)}
	}

	// Every mandatory position past the covered span needs an argument.
	covered := len(prefix) + len(supplied)
	for i := covered; i < decls.Len(); i++ {
		if p := decls.At(i); !p.HasDefault() {
			return &UndersuppliedError{Param: p.Name, Position: i, Supplied: len(supplied)}
		}
	}
	return nil
}

// Construct is a generic construct (type, alias, or function) owning a
// validated declaration list plus whatever prefix prior specialization
// steps have fixed. Constructs are immutable: Specialize returns a new one.
type Construct struct {
	Name   string
	decls  *DeclarationList
	prefix []typesystem.Type
	state  SpecState
}

// NewConstruct wraps a validated declaration list into a construct in the
// Declared state (FullySpecialized immediately when the list is empty).
func NewConstruct(name string, decls *DeclarationList) *Construct {
	c := &Construct{Name: name, decls: decls, state: Declared}
	if decls.Len() == 0 {
		c.state = FullySpecialized
	}
	return c
}

// Decls returns the construct's declaration list.
func (c *Construct) Decls() *DeclarationList { return c.decls }

// State returns the construct's specialization state.
func (c *Construct) State() SpecState { return c.state }

// Prefix returns the arguments fixed by prior specialization steps.
// The returned slice is shared and must be treated as read-only.
func (c *Construct) Prefix() []typesystem.Type { return c.prefix }

// Check validates a use-site subscription against the construct without
// resolving it.
func (c *Construct) Check(supplied []typesystem.Type) error {
	if c.state == FullySpecialized {
		return &ReSpecializationError{Construct: c.Name}
	}
	return Check(c.decls, supplied, c.prefix)
}

// Subscribe validates a use-site subscription and completes it into a fully
// specialized argument list covering every declared parameter, prefix
// included.
func (c *Construct) Subscribe(supplied []typesystem.Type) ([]typesystem.Type, error) {
	if err := c.Check(supplied); err != nil {
		return nil, err
	}
	full := make([]typesystem.Type, 0, len(c.prefix)+len(supplied))
	full = append(full, c.prefix...)
	full = append(full, supplied...)
	return Resolve(c.decls, full)
}

// Specialize fixes the next len(supplied) parameters on top of the current
// prefix and returns the resulting construct, moving the state machine
// forward. The receiver is left untouched.
func (c *Construct) Specialize(name string, supplied []typesystem.Type) (*Construct, error) {
	if err := c.Check(supplied); err != nil {
		return nil, err
	}

	prefix := make([]typesystem.Type, 0, len(c.prefix)+len(supplied))
	prefix = append(prefix, c.prefix...)
	prefix = append(prefix, supplied...)

	next := &Construct{Name: name, decls: c.decls, prefix: prefix, state: PartiallySpecialized}
	switch {
	case len(prefix) == c.decls.Len():
		next.state = FullySpecialized
	case len(prefix) == 0:
		next.state = Declared
	}
	return next, nil
}

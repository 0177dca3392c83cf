package typaram

import (
	"fmt"

	"github.com/funvibe/typaram/internal/typesystem"
)

// Validate checks an ordered sequence of parameter declarations and freezes
// it into a DeclarationList. A single left-to-right scan maintains the
// "defaults seen so far" flag; every check is local against already-validated
// state, so validation is O(n) for n parameters. The first offending
// parameter stops the scan and is reported with the specific rule violated.
//
// oracle may be nil; the built-in subtype walk then decides bound
// compatibility on its own.
func Validate(params []*TypeParameter, oracle typesystem.Oracle) (*DeclarationList, error) {
	owned := make([]*TypeParameter, len(params))
	copy(owned, params)

	byName := make(map[string]*TypeParameter, len(owned))
	seenDefault := false
	mandatory := 0

	for i, p := range owned {
		p.position = i

		if p.Bound != nil && len(p.Constraints) > 0 {
			return nil, fmt.Errorf("parameter %s at position %d declares both a bound and a constraint set", p.Name, i)
		}
		if _, dup := byName[p.Name]; dup {
			return nil, fmt.Errorf("parameter %s at position %d is already declared in the same list", p.Name, i)
		}

		// Kind-specific adjacency rule against the immediately preceding
		// parameter. A defaulted single parameter after a variadic tuple is
		// ambiguous to bind; a paramspec in the same spot is not.
		if i > 0 {
			prev := owned[i-1]
			if prev.Kind == VariadicTuple && p.Kind == Single && p.HasDefault() {
				return nil, &AdjacencyViolationError{Param: p.Name, Position: i, After: prev.Name}
			}
		}

		if !p.HasDefault() {
			if seenDefault {
				return nil, &OrderingViolationError{Param: p.Name, Position: i}
			}
			mandatory++
		} else {
			seenDefault = true
			if err := validateDefault(p, byName, oracle); err != nil {
				return nil, err
			}
		}

		byName[p.Name] = p
	}

	return &DeclarationList{params: owned, mandatory: mandatory}, nil
}

// validateDefault evaluates the deferred default expression, annotates every
// parameter reference in it with the referenced position, and runs the
// kind/bound/constraint rules against the already-validated earlier state.
func validateDefault(p *TypeParameter, earlier map[string]*TypeParameter, oracle typesystem.Oracle) error {
	value, err := p.Default.Value()
	if err != nil {
		return fmt.Errorf("default of parameter %s at position %d: %w", p.Name, p.position, err)
	}

	annotated, err := annotateRefs(value, p, earlier)
	if err != nil {
		return err
	}

	if ref, ok := annotated.(typesystem.TParam); ok {
		target := earlier[ref.Name]
		if target.Kind != p.Kind {
			return &KindMismatchError{Param: p.Name, Position: p.position, Kind: p.Kind, Ref: ref.Name, Got: target.Kind.String()}
		}
		if p.Bound != nil && target.Bound != nil && !typesystem.Subtype(target.Bound, p.Bound, oracle) {
			return &BoundIncompatibleError{Param: p.Name, Position: p.position, Bound: p.Bound, Default: target.Bound}
		}
		if len(p.Constraints) > 0 && len(target.Constraints) > 0 && !coversConstraints(p.Constraints, target.Constraints) {
			return &ConstraintIncompatibleError{Param: p.Name, Position: p.position, Constraints: p.Constraints, Ref: ref.Name}
		}
		p.resolved = annotated
		return nil
	}

	if err := checkDefaultShape(p, annotated); err != nil {
		return err
	}

	if len(annotated.FreeParams()) == 0 {
		if p.Bound != nil && !typesystem.Subtype(annotated, p.Bound, oracle) {
			return &BoundIncompatibleError{Param: p.Name, Position: p.position, Bound: p.Bound, Default: annotated}
		}
		if len(p.Constraints) > 0 {
			// Exact membership: subtype membership is not sufficient here.
			member := false
			for _, c := range p.Constraints {
				if typesystem.Equal(annotated, c) {
					member = true
					break
				}
			}
			if !member {
				return &ConstraintIncompatibleError{Param: p.Name, Position: p.position, Constraints: p.Constraints, Default: annotated}
			}
		}
	}

	p.resolved = annotated
	return nil
}

// checkDefaultShape rejects a non-reference default whose shape cannot bind
// the parameter's kind: a variadic tuple binds only to a tuple of types, a
// paramspec only to a parameter-list shape.
func checkDefaultShape(p *TypeParameter, value typesystem.Type) error {
	switch p.Kind {
	case VariadicTuple:
		if _, ok := value.(typesystem.TTuple); !ok {
			return &KindMismatchError{Param: p.Name, Position: p.position, Kind: p.Kind, Got: fmt.Sprintf("the non-tuple value %s", value)}
		}
	case ParameterSpec:
		if _, ok := value.(typesystem.TParamList); !ok {
			return &KindMismatchError{Param: p.Name, Position: p.position, Kind: p.Kind, Got: fmt.Sprintf("the non-parameter-list value %s", value)}
		}
	}
	return nil
}

// annotateRefs rebuilds a default value with every TParam reference carrying
// the position of the parameter it names. A reference to anything but a
// strictly earlier parameter of the same list is a scope violation; forward
// references are impossible by construction, back-references are rejected
// here.
func annotateRefs(t typesystem.Type, p *TypeParameter, earlier map[string]*TypeParameter) (typesystem.Type, error) {
	switch typ := t.(type) {
	case typesystem.TParam:
		target, ok := earlier[typ.Name]
		if !ok {
			return nil, &ScopeViolationError{Param: p.Name, Position: p.position, Ref: typ.Name}
		}
		return typesystem.TParam{Name: typ.Name, Position: target.position}, nil

	case typesystem.TApp:
		ctor, err := annotateRefs(typ.Constructor, p, earlier)
		if err != nil {
			return nil, err
		}
		args := make([]typesystem.Type, len(typ.Args))
		for i, a := range typ.Args {
			if args[i], err = annotateRefs(a, p, earlier); err != nil {
				return nil, err
			}
		}
		return typesystem.TApp{Constructor: ctor, Args: args}, nil

	case typesystem.TTuple:
		elems := make([]typesystem.Type, len(typ.Elements))
		for i, e := range typ.Elements {
			var err error
			if elems[i], err = annotateRefs(e, p, earlier); err != nil {
				return nil, err
			}
		}
		return typesystem.TTuple{Elements: elems}, nil

	case typesystem.TParamList:
		ps := make([]typesystem.Type, len(typ.Params))
		for i, m := range typ.Params {
			var err error
			if ps[i], err = annotateRefs(m, p, earlier); err != nil {
				return nil, err
			}
		}
		return typesystem.TParamList{Params: ps}, nil

	case typesystem.TUnion:
		members := make([]typesystem.Type, len(typ.Types))
		for i, m := range typ.Types {
			var err error
			if members[i], err = annotateRefs(m, p, earlier); err != nil {
				return nil, err
			}
		}
		return typesystem.NormalizeUnion(members), nil

	default:
		return t, nil
	}
}

// coversConstraints reports whether every member of inner has an exact
// match in outer.
func coversConstraints(outer, inner []typesystem.Type) bool {
	for _, c := range inner {
		found := false
		for _, o := range outer {
			if typesystem.Equal(c, o) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

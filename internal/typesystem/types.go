package typesystem

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Type is the interface for all type descriptions the engine operates on.
// Values are built by the syntax layer (or test code) and are never mutated;
// Apply returns a new value.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeParams() []TParam
}

// TParam is a reference to a type parameter by name. Position is annotated
// during declaration validation (references are strictly to earlier positions
// in the same list, so a validated TParam always carries a real position).
type TParam struct {
	Name     string
	Position int
}

func (t TParam) String() string { return t.Name }

func (t TParam) Apply(s Subst) Type {
	if replacement, ok := s[t.Name]; ok {
		return replacement
	}
	return t
}

func (t TParam) FreeParams() []TParam { return []TParam{t} }

// TCon is a named concrete type (e.g. int, str, None, timedelta).
// Super, when set, is the declared supertype used by the nominal
// subtype walk; builtin types carry none.
type TCon struct {
	Name   string
	Module string // optional module path for imported types
	Super  Type   // declared supertype, nil for roots
}

func (t TCon) String() string {
	if t.Module != "" {
		return t.Module + "." + t.Name
	}
	return t.Name
}

func (t TCon) Apply(Subst) Type { return t }

func (t TCon) FreeParams() []TParam { return nil }

// Any is the top type: every type is a subtype of Any.
var Any = TCon{Name: "Any"}

// TApp is a composite type application (e.g. list[T], dict[str, V]).
type TApp struct {
	Constructor Type
	Args        []Type
}

func (t TApp) String() string {
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s[%s]", t.Constructor.String(), strings.Join(args, ", "))
}

func (t TApp) Apply(s Subst) Type {
	newArgs := make([]Type, len(t.Args))
	for i, a := range t.Args {
		newArgs[i] = a.Apply(s)
	}
	return TApp{Constructor: t.Constructor.Apply(s), Args: newArgs}
}

func (t TApp) FreeParams() []TParam {
	params := t.Constructor.FreeParams()
	for _, a := range t.Args {
		params = append(params, a.FreeParams()...)
	}
	return uniqueParams(params)
}

// TTuple is an ordered sequence of types. It serves both as an ordinary
// tuple type (a legal single-parameter value) and as the binding shape of a
// variadic-tuple parameter.
type TTuple struct {
	Elements []Type
}

func (t TTuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

func (t TTuple) Apply(s Subst) Type {
	newElems := make([]Type, len(t.Elements))
	for i, e := range t.Elements {
		newElems[i] = e.Apply(s)
	}
	return TTuple{Elements: newElems}
}

func (t TTuple) FreeParams() []TParam {
	params := []TParam{}
	for _, e := range t.Elements {
		params = append(params, e.FreeParams()...)
	}
	return uniqueParams(params)
}

// TParamList is a callable parameter-list shape (e.g. [float, bool]), the
// binding shape of a parameter-spec parameter.
type TParamList struct {
	Params []Type
}

func (t TParamList) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

func (t TParamList) Apply(s Subst) Type {
	newParams := make([]Type, len(t.Params))
	for i, p := range t.Params {
		newParams[i] = p.Apply(s)
	}
	return TParamList{Params: newParams}
}

func (t TParamList) FreeParams() []TParam {
	params := []TParam{}
	for _, p := range t.Params {
		params = append(params, p.FreeParams()...)
	}
	return uniqueParams(params)
}

// TUnion is a union type (e.g. int | None).
// Members are normalized: flattened, deduplicated, and sorted for comparison.
type TUnion struct {
	Types []Type // at least 2 after normalization
}

func (t TUnion) String() string {
	parts := make([]string, len(t.Types))
	for i, m := range t.Types {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

func (t TUnion) Apply(s Subst) Type {
	newTypes := make([]Type, len(t.Types))
	for i, m := range t.Types {
		newTypes[i] = m.Apply(s)
	}
	return NormalizeUnion(newTypes)
}

func (t TUnion) FreeParams() []TParam {
	params := []TParam{}
	for _, m := range t.Types {
		params = append(params, m.FreeParams()...)
	}
	return uniqueParams(params)
}

// NormalizeUnion creates a normalized union type.
// It flattens nested unions, removes duplicates, and sorts members.
func NormalizeUnion(types []Type) Type {
	flat := []Type{}
	for _, t := range types {
		if u, ok := t.(TUnion); ok {
			flat = append(flat, u.Types...)
		} else {
			flat = append(flat, t)
		}
	}

	seen := make(map[string]bool)
	unique := []Type{}
	for _, t := range flat {
		s := t.String()
		if !seen[s] {
			seen[s] = true
			unique = append(unique, t)
		}
	}

	if len(unique) == 1 {
		return unique[0]
	}

	sort.Slice(unique, func(i, j int) bool {
		return unique[i].String() < unique[j].String()
	})

	return TUnion{Types: unique}
}

// Subst is a mapping from type-parameter names to types.
type Subst map[string]Type

// Equal reports strict structural equality of two type descriptions.
// Constraint-set membership uses this check: subtype membership is not
// sufficient for a concrete default to satisfy a constraint set.
func Equal(a, b Type) bool {
	return reflect.DeepEqual(a, b)
}

func uniqueParams(params []TParam) []TParam {
	unique := []TParam{}
	seen := map[string]bool{}
	for _, p := range params {
		if !seen[p.Name] {
			seen[p.Name] = true
			unique = append(unique, p)
		}
	}
	return unique
}

package typaram

import (
	"github.com/funvibe/typaram/internal/typesystem"
)

// Resolve computes the fully specialized argument list for a subscription.
// Matching is positional only: the first len(supplied) declarations align
// with supplied, and explicitly supplied arguments always win — a later
// default referencing one of them resolves to the supplied value, which is
// how derived defaults ("stop defaults to the type of start") work.
//
// Positions beyond len(supplied) must declare a default; the resolved value
// is the default with every parameter reference substituted by the
// already-resolved value at the referenced earlier position. References are
// restricted to strictly earlier positions, so one forward pass with a
// growing substitution suffices.
func Resolve(decls *DeclarationList, supplied []typesystem.Type) ([]typesystem.Type, error) {
	if len(supplied) > decls.Len() {
		return nil, &OversuppliedError{Declared: decls.Len(), Supplied: len(supplied)}
	}

	out := make([]typesystem.Type, decls.Len())
	subst := make(typesystem.Subst, decls.Len())

	for i := 0; i < decls.Len(); i++ {
		p := decls.At(i)
		if i < len(supplied) {
			out[i] = supplied[i]
		} else {
			if !p.HasDefault() {
				return nil, &UndersuppliedError{Param: p.Name, Position: i, Supplied: len(supplied)}
			}
			out[i] = p.resolved.Apply(subst)
		}
		subst[p.Name] = out[i]
	}

	return out, nil
}

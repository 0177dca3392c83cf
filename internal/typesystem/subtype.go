package typesystem

// Oracle answers subtype questions the built-in walk cannot: a hosting type
// checker plugs in its own relation here. The engine only consults it after
// the local rules below fail, so an Oracle never needs to re-implement them.
type Oracle interface {
	Subtype(sub, super Type) bool
}

// Subtype reports whether sub is a subtype of super, using only what bound
// compatibility requires: strict equality, Any as top, union membership,
// the declared-supertype chain of named types, and covariant composites.
// oracle may be nil.
func Subtype(sub, super Type, oracle Oracle) bool {
	if Equal(sub, super) {
		return true
	}
	if Equal(super, Any) {
		return true
	}

	switch sup := super.(type) {
	case TUnion:
		// Every member of a union sub must fit; a non-union sub fits if any
		// member of super admits it.
		if subU, ok := sub.(TUnion); ok {
			for _, m := range subU.Types {
				if !Subtype(m, super, oracle) {
					return false
				}
			}
			return true
		}
		for _, m := range sup.Types {
			if Subtype(sub, m, oracle) {
				return true
			}
		}
	case TTuple:
		if subT, ok := sub.(TTuple); ok && len(subT.Elements) == len(sup.Elements) {
			for i := range sup.Elements {
				if !Subtype(subT.Elements[i], sup.Elements[i], oracle) {
					return false
				}
			}
			return true
		}
	case TApp:
		if subA, ok := sub.(TApp); ok &&
			Equal(subA.Constructor, sup.Constructor) &&
			len(subA.Args) == len(sup.Args) {
			ok := true
			for i := range sup.Args {
				if !Subtype(subA.Args[i], sup.Args[i], oracle) {
					ok = false
					break
				}
			}
			if ok {
				return true
			}
		}
	}

	// Nominal walk over declared supertypes.
	if subC, ok := sub.(TCon); ok && subC.Super != nil {
		if Subtype(subC.Super, super, oracle) {
			return true
		}
	}

	if oracle != nil {
		return oracle.Subtype(sub, super)
	}
	return false
}

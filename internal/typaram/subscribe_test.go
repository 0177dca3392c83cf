package typaram

import (
	"errors"
	"testing"

	"github.com/funvibe/typaram/internal/typesystem"
)

func TestCheck(t *testing.T) {
	decls := mustValidate(t, []*TypeParameter{
		single("T"),
		singleDef("U", boolT),
		singleDef("V", ref("U")),
	})

	tests := []struct {
		name     string
		supplied []typesystem.Type
		prefix   []typesystem.Type
		wantErr  error
	}{
		{
			name:     "mandatory position covered",
			supplied: []typesystem.Type{intT},
		},
		{
			name:     "all positions covered",
			supplied: []typesystem.Type{intT, strT, strT},
		},
		{
			name:    "mandatory position uncovered",
			wantErr: &UndersuppliedError{},
		},
		{
			name:     "oversupply rejected regardless of defaults",
			supplied: []typesystem.Type{intT, strT, strT, strT},
			wantErr:  &OversuppliedError{},
		},
		{
			name:   "prefix covers the mandatory position",
			prefix: []typesystem.Type{intT},
		},
		{
			name:     "prefix plus suffix",
			prefix:   []typesystem.Type{intT},
			supplied: []typesystem.Type{strT, strT},
		},
		{
			name:     "suffix overflows past the prefix",
			prefix:   []typesystem.Type{intT, strT},
			supplied: []typesystem.Type{strT, strT},
			wantErr:  &OversuppliedError{},
		},
		{
			name:    "fully bound prefix rejects even the empty subscription",
			prefix:  []typesystem.Type{intT, strT, strT},
			wantErr: &ReSpecializationError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(decls, tt.supplied, tt.prefix)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Check() error = %v, want accept", err)
				}
				return
			}
			target := tt.wantErr
			switch target.(type) {
			case *UndersuppliedError:
				var e *UndersuppliedError
				if !errors.As(err, &e) {
					t.Fatalf("Check() error = %v, want UndersuppliedError", err)
				}
			case *OversuppliedError:
				var e *OversuppliedError
				if !errors.As(err, &e) {
					t.Fatalf("Check() error = %v, want OversuppliedError", err)
				}
			case *ReSpecializationError:
				var e *ReSpecializationError
				if !errors.As(err, &e) {
					t.Fatalf("Check() error = %v, want ReSpecializationError", err)
				}
			}
		})
	}
}

func TestConstructLifecycle(t *testing.T) {
	// Declared -> PartiallySpecialized -> FullySpecialized, forward only.
	decls := mustValidate(t, []*TypeParameter{
		single("K"),
		single("V"),
		singleDef("D", ref("V")),
	})

	base := NewConstruct("mapping", decls)
	if base.State() != Declared {
		t.Fatalf("fresh construct state = %s, want declared", base.State())
	}

	partial, err := base.Specialize("str_mapping", []typesystem.Type{strT})
	if err != nil {
		t.Fatalf("Specialize() error = %v", err)
	}
	if partial.State() != PartiallySpecialized {
		t.Fatalf("partial state = %s, want partially-specialized", partial.State())
	}
	if base.State() != Declared {
		t.Error("specialization must not touch the base construct")
	}

	full, err := partial.Specialize("str_int_mapping", []typesystem.Type{intT, intT})
	if err != nil {
		t.Fatalf("Specialize() error = %v", err)
	}
	if full.State() != FullySpecialized {
		t.Fatalf("full state = %s, want fully-specialized", full.State())
	}

	// A fully specialized construct is not re-subscriptable.
	var respec *ReSpecializationError
	if _, err := full.Subscribe(nil); !errors.As(err, &respec) {
		t.Fatalf("Subscribe() on full error = %v, want ReSpecializationError", err)
	}
	if _, err := full.Specialize("again", []typesystem.Type{intT}); !errors.As(err, &respec) {
		t.Fatalf("Specialize() on full error = %v, want ReSpecializationError", err)
	}
}

func TestConstructSubscribeResolvesSuffix(t *testing.T) {
	decls := mustValidate(t, []*TypeParameter{
		single("K"),
		singleDef("V", ref("K")),
		singleDef("D", noneT),
	})

	base := NewConstruct("mapping", decls)
	partial, err := base.Specialize("str_mapping", []typesystem.Type{strT})
	if err != nil {
		t.Fatalf("Specialize() error = %v", err)
	}

	// The outer construct fixed K=str; the default of V derives from it.
	got, err := partial.Subscribe(nil)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	wantResolved(t, got, "str", "str", "None")

	got, err = partial.Subscribe([]typesystem.Type{intT, boolT})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	wantResolved(t, got, "str", "int", "bool")
}

func TestConstructEmptyListIsTerminal(t *testing.T) {
	decls := mustValidate(t, nil)
	c := NewConstruct("plain", decls)
	if c.State() != FullySpecialized {
		t.Fatalf("state = %s, want fully-specialized for an empty list", c.State())
	}
	var respec *ReSpecializationError
	if _, err := c.Subscribe(nil); !errors.As(err, &respec) {
		t.Fatalf("Subscribe() error = %v, want ReSpecializationError", err)
	}
}

func TestSpecializeWithNothingStaysDeclared(t *testing.T) {
	decls := mustValidate(t, []*TypeParameter{single("T")})
	base := NewConstruct("box", decls)
	next, err := base.Specialize("box_alias", nil)
	if err != nil {
		t.Fatalf("Specialize() error = %v", err)
	}
	if next.State() != Declared {
		t.Errorf("state = %s, want declared when nothing was bound", next.State())
	}
}

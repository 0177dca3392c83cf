package registry

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/typaram/internal/typaram"
	"github.com/funvibe/typaram/internal/typesystem"
)

var (
	intT = typesystem.TCon{Name: "int"}
	strT = typesystem.TCon{Name: "str"}
)

func boxParams() []*typaram.TypeParameter {
	return []*typaram.TypeParameter{
		{Name: "T", Kind: typaram.Single},
		{Name: "U", Kind: typaram.Single, Default: typaram.DefaultOf(typesystem.TParam{Name: "T"})},
	}
}

func TestDeclareAndLookup(t *testing.T) {
	r := New(nil)

	id, c, err := r.Declare("box", boxParams())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)
	require.Equal(t, typaram.Declared, c.State())
	require.Equal(t, 1, r.Len())

	byID, ok := r.Lookup(id)
	require.True(t, ok)
	require.Same(t, c, byID)

	gotID, byName, ok := r.LookupName("box")
	require.True(t, ok)
	require.Equal(t, id, gotID)
	require.Same(t, c, byName)

	_, _, ok = r.LookupName("missing")
	require.False(t, ok)
}

func TestDeclareRejectsInvalidList(t *testing.T) {
	r := New(nil)
	_, _, err := r.Declare("bad", []*typaram.TypeParameter{
		{Name: "T", Kind: typaram.Single, Default: typaram.DefaultOf(intT)},
		{Name: "U", Kind: typaram.Single},
	})
	require.Error(t, err)
	require.Equal(t, 0, r.Len())
}

func TestDeclareRejectsDuplicateName(t *testing.T) {
	r := New(nil)
	_, _, err := r.Declare("box", boxParams())
	require.NoError(t, err)
	_, _, err = r.Declare("box", boxParams())
	require.Error(t, err)
}

func TestSpecialize(t *testing.T) {
	r := New(nil)
	baseID, _, err := r.Declare("box", boxParams())
	require.NoError(t, err)

	_, partial, err := r.Specialize(baseID, "str_box", []typesystem.Type{strT})
	require.NoError(t, err)
	require.Equal(t, typaram.PartiallySpecialized, partial.State())

	id, derived, err := r.Specialize(baseID, "str_str_box", []typesystem.Type{strT, strT})
	require.NoError(t, err)
	require.Equal(t, typaram.FullySpecialized, derived.State())
	require.Equal(t, 3, r.Len())

	got, ok := r.Lookup(id)
	require.True(t, ok)
	require.Same(t, derived, got)

	// The derived construct is terminal.
	_, err = derived.Subscribe(nil)
	require.Error(t, err)

	_, _, err = r.Specialize(uuid.New(), "ghost", nil)
	require.Error(t, err)
}

func TestConcurrentLookups(t *testing.T) {
	r := New(nil)
	id, c, err := r.Declare("box", boxParams())
	require.NoError(t, err)

	// Read-only sharing of a validated construct is safe.
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, ok := r.Lookup(id)
			if !ok || got != c {
				t.Error("lookup disagreed under concurrency")
			}
			if _, err := got.Subscribe([]typesystem.Type{intT}); err != nil {
				t.Errorf("Subscribe() error = %v", err)
			}
		}()
	}
	wg.Wait()
}

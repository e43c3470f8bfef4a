package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearize_NoParents(t *testing.T) {
	r := NewRegistry()
	a := r.MustDefine("A")

	assert.Equal(t, []string{"A"}, Names(a.MRO()))
}

func TestLinearize_Diamond(t *testing.T) {
	r := NewRegistry()
	a := r.MustDefine("A")
	b := r.MustDefine("B", a)
	c := r.MustDefine("C", a)
	d := r.MustDefine("D", b, c)

	assert.Equal(t, []string{"D", "B", "C", "A"}, Names(d.MRO()))

	// Recomputing from the current parents gives the cached result.
	mro, err := Linearize(d)
	require.NoError(t, err)
	assert.Equal(t, Names(d.MRO()), Names(mro))
}

func TestLinearize_DeclaredOrderKept(t *testing.T) {
	r := NewRegistry()
	structure := r.MustDefine("Structure")
	dancing := r.MustDefine("Dancing", structure)
	drinking := r.MustDefine("Drinking", structure)
	bar := r.MustDefine("Bar", dancing, drinking)

	assert.Equal(t, []string{"Bar", "Dancing", "Drinking", "Structure"}, Names(bar.MRO()))
}

func TestLinearize_ParentBeforeGrandparent(t *testing.T) {
	r := NewRegistry()
	a := r.MustDefine("A")
	b := r.MustDefine("B", a)

	d, err := r.Define("D", b, a)
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "B", "A"}, Names(d.MRO()))
}

func TestLinearize_SubclassListedAfterBase(t *testing.T) {
	r := NewRegistry()
	a := r.MustDefine("A")
	b := r.MustDefine("B", a)

	_, err := r.Define("D", a, b)
	require.Error(t, err)
	assert.True(t, IsAmbiguousHierarchy(err))

	_, ok := r.Lookup("D")
	assert.False(t, ok, "rejected class must not be registered")
}

func TestLinearize_ConflictingOrders(t *testing.T) {
	r := NewRegistry()
	a := r.MustDefine("A")
	b := r.MustDefine("B")
	x := r.MustDefine("X", a, b)
	y := r.MustDefine("Y", b, a)

	_, err := r.Define("Z", x, y)
	require.Error(t, err)

	var he *HierarchyError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, ErrCodeAmbiguousHierarchy, he.Code)
	assert.Equal(t, "Z", he.Class)
	assert.ElementsMatch(t, []string{"A", "B"}, he.Details)
}

func TestLinearize_DuplicateBase(t *testing.T) {
	r := NewRegistry()
	a := r.MustDefine("A")

	_, err := r.Define("B", a, a)
	require.Error(t, err)

	var he *HierarchyError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, ErrCodeDuplicateBase, he.Code)
	assert.Equal(t, []string{"A"}, he.Details)
}

func TestLinearize_Properties(t *testing.T) {
	// Classic C3 example: O; A,B,C,D,E(O); K1(A,B,C); K2(D,B,E); K3(D,A); Z(K1,K2,K3).
	r := NewRegistry()
	o := r.MustDefine("O")
	a := r.MustDefine("A", o)
	b := r.MustDefine("B", o)
	c := r.MustDefine("C", o)
	d := r.MustDefine("D", o)
	e := r.MustDefine("E", o)
	k1 := r.MustDefine("K1", a, b, c)
	k2 := r.MustDefine("K2", d, b, e)
	k3 := r.MustDefine("K3", d, a)
	z := r.MustDefine("Z", k1, k2, k3)

	mro := z.MRO()
	assert.Equal(t,
		[]string{"Z", "K1", "K2", "K3", "D", "A", "B", "C", "E", "O"},
		Names(mro))

	pos := make(map[*Class]int, len(mro))
	for i, k := range mro {
		_, dup := pos[k]
		require.False(t, dup, "%s listed twice", k.Name())
		pos[k] = i
	}

	// Every class precedes its parents, and parents keep declared order.
	for _, k := range mro {
		ps := k.Parents()
		for i, p := range ps {
			assert.Less(t, pos[k], pos[p], "%s before %s", k.Name(), p.Name())
			if i > 0 {
				assert.Less(t, pos[ps[i-1]], pos[p], "%s before %s", ps[i-1].Name(), p.Name())
			}
		}
	}
}

func TestNames(t *testing.T) {
	assert.Empty(t, Names(nil))
}

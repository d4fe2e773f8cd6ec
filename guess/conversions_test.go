package guess

import (
	"reflect"
	"testing"

	"github.com/panyam/typeguess/typesys"
	"github.com/sirkon/deepequal"
	"github.com/stretchr/testify/assert"
)

func TestNarrowingCandidates(t *testing.T) {
	o := newTableOracle(t)
	e := New(o)
	cases := []struct {
		from string
		want []string
	}{
		{"char", []string{"char"}},
		{"int", []string{"int", "char", "short"}},
		{"double", []string{"double", "char", "short", "int", "long", "float"}},
		{"boolean", []string{"boolean"}},
		{"byte", []string{"byte"}},
		{"String", []string{"java.lang.String"}},
	}
	for _, c := range cases {
		got := typeNames(e.NarrowingCandidates(o.u.MustParse(c.from)))
		assert.Equal(t, c.want, got, c.from)
	}
	assert.Nil(t, e.NarrowingCandidates(nil))
}

func TestRelaxingCandidates(t *testing.T) {
	o := newTableOracle(t)
	e := New(o)
	cases := []struct {
		from string
		want []string
	}{
		{"char", []string{"char", "short", "int", "long", "float", "double"}},
		{"int", []string{"int", "long", "float", "double"}},
		{"long", []string{"long", "float", "double"}},
		{"boolean", []string{"boolean"}},
		{"int[]", []string{"int[]", "java.lang.Object", "java.io.Serializable", "java.lang.Cloneable"}},
		{"ArrayList<String>", []string{
			"java.util.ArrayList<java.lang.String>",
			"java.util.List<java.lang.String>",
			"java.util.Collection<java.lang.String>",
			"java.lang.Iterable<java.lang.String>",
			"java.lang.Cloneable",
			"java.io.Serializable",
			"java.util.AbstractList<java.lang.String>",
			"java.util.AbstractCollection<java.lang.String>",
			"java.lang.Object",
		}},
	}
	for _, c := range cases {
		got := typeNames(e.RelaxingCandidates(o.u.MustParse(c.from)))
		if !reflect.DeepEqual(c.want, got) {
			deepequal.SideBySide(t, c.from, c.want, got)
			t.Fail()
		}
	}
}

func TestRelaxingTypeVariable(t *testing.T) {
	o := newTableOracle(t)
	e := New(o)
	bounded := typesys.TypeVar("T", nil, o.u.MustParse("Runnable"))
	got := typeNames(e.RelaxingCandidates(bounded))
	assert.Equal(t, []string{"T", "java.lang.Runnable", "java.lang.Object"}, got)
}

func TestRelaxingBoundsLoopingBack(t *testing.T) {
	o := newTableOracle(t)
	e := New(o)
	tv := typesys.TypeVar("T", nil)
	uv := typesys.TypeVar("U", nil, tv)
	tv.Bounds = []*typesys.Type{uv, o.u.MustParse("Runnable")}

	got := typeNames(e.RelaxingCandidates(tv))
	assert.Equal(t, []string{"T", "java.lang.Runnable", "U"}, got)
}

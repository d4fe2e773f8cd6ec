package guess

import (
	"context"
	"testing"

	"github.com/panyam/typeguess/syntax"
	"github.com/panyam/typeguess/typesys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shapesYAML = `
types:
  - name: demo.Shape
    kind: interface
    methods:
      - { name: area, returns: double, abstract: true }
  - name: demo.Base
    methods:
      - { name: describe, params: [int], returns: java.lang.String }
  - name: demo.Circle
    super: demo.Base
    interfaces: [demo.Shape]
    methods:
      - { name: area, returns: double }
      - { name: scale, params: [double] }
  - name: demo.Square
    super: demo.Base
    methods:
      - { name: scale, params: [double] }
  - name: demo.Holder
    typeParams: [T]
    methods:
      - { name: scale, params: [double] }
`

// shapesFixture binds c, s and h to a Circle, a Square and a Holder<String>.
func shapesFixture(t *testing.T) (*tableOracle, syntax.Ref, map[string]syntax.Ref) {
	tree, l := syntax.FromSpec(syntax.Block(
		syntax.ExprStmt(syntax.Call(syntax.Name("c").As("c"), "scale", syntax.Lit(syntax.KindNumberLiteral, "2"))),
		syntax.ExprStmt(syntax.Call(syntax.Name("s").As("s"), "scale", syntax.Lit(syntax.KindNumberLiteral, "2"))),
		syntax.ExprStmt(syntax.Call(syntax.Name("h").As("h"), "scale", syntax.Lit(syntax.KindNumberLiteral, "2"))),
	))
	o := newTableOracle(t, shapesYAML)
	o.bind(l["c"], "demo.Circle")
	o.bind(l["s"], "demo.Square")
	o.bind(l["h"], "demo.Holder<String>")
	return o, tree.Root(), l
}

func TestFindTypesDeclaringMember(t *testing.T) {
	cases := []struct {
		name  string
		arity int
		want  []string
	}{
		{"scale", 1, []string{"demo.Circle", "demo.Square", "demo.Holder<java.lang.String>"}},
		{"area", 0, []string{"demo.Circle", "demo.Shape"}},
		{"describe", 1, []string{"demo.Base"}},
		{"hashCode", 0, []string{"java.lang.Object"}},
		{"scale", 2, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			o, root, _ := shapesFixture(t)
			got, err := New(o).FindTypesDeclaringMember(context.Background(), root, c.name, c.arity, Context{})
			require.NoError(t, err)
			assert.Equal(t, c.want, typeNamesOrNil(got))
		})
	}
}

func TestFindTypesSkipsFailedLookups(t *testing.T) {
	o, root, _ := shapesFixture(t)
	o.broken["demo.Square"] = true
	got, err := New(o).FindTypesDeclaringMember(context.Background(), root, "scale", 1, Context{})
	require.NoError(t, err)
	assert.Equal(t, []string{"demo.Circle", "demo.Holder<java.lang.String>"}, typeNames(got))
}

func TestFindTypesStopsOnCancel(t *testing.T) {
	o, root, _ := shapesFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	o.onFind = func(t *typesys.Type) {
		if t.Name == "demo.Square" {
			cancel()
		}
	}
	got, err := New(o).FindTypesDeclaringMember(ctx, root, "scale", 1, Context{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"demo.Circle", "demo.Square"}, typeNames(got))
}

func TestFindTypesHonoursScope(t *testing.T) {
	o, root, l := shapesFixture(t)
	circle := o.u.Lookup("demo.Circle")
	square := o.u.Lookup("demo.Square")
	holder := o.u.Lookup("demo.Holder")
	// h is a Holder<E> where E belongs to Circle
	o.types[l["h"]] = typesys.Parameterize(holder, typesys.TypeVar("E", circle))
	e := New(o)

	got, err := e.FindTypesDeclaringMember(context.Background(), root, "scale", 1, Context{Type: circle})
	require.NoError(t, err)
	assert.Equal(t, []string{"demo.Circle", "demo.Square", "demo.Holder<E>"}, typeNames(got))

	got, err = e.FindTypesDeclaringMember(context.Background(), root, "scale", 1, Context{Type: square})
	require.NoError(t, err)
	assert.Equal(t, []string{"demo.Circle", "demo.Square"}, typeNames(got))
}

func TestFindTypesSkipsGenericDeclarations(t *testing.T) {
	o, root, l := shapesFixture(t)
	o.types[l["h"]] = o.u.Lookup("demo.Holder")
	delete(o.types, l["c"])
	delete(o.types, l["s"])
	got, err := New(o).FindTypesDeclaringMember(context.Background(), root, "scale", 1, Context{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func typeNamesOrNil(ts []*typesys.Type) []string {
	if len(ts) == 0 {
		return nil
	}
	return typeNames(ts)
}

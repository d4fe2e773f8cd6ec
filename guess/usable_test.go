package guess

import (
	"testing"

	"github.com/panyam/typeguess/typesys"
	"github.com/stretchr/testify/assert"
)

func TestIsUsableInContext(t *testing.T) {
	o := newTableOracle(t)
	e := New(o)

	outer := typesys.DeclaredType(typesys.TypeTagClass, "demo.Outer")
	tv := typesys.TypeVar("T", outer)
	outer.TypeParams = []*typesys.Type{tv}
	inner := typesys.DeclaredType(typesys.TypeTagClass, "demo.Outer.Inner")
	inner.Outer = outer
	nested := typesys.DeclaredType(typesys.TypeTagClass, "demo.Outer.Nested")
	nested.Outer = outer
	nested.Static = true
	deepest := typesys.DeclaredType(typesys.TypeTagClass, "demo.Outer.Inner.Deepest")
	deepest.Outer = inner

	instance := &typesys.Method{Name: "run", DeclaringType: outer}
	static := &typesys.Method{Name: "make", DeclaringType: outer, Static: true}
	generic := &typesys.Method{Name: "map", DeclaringType: outer, Static: true}
	mv := &typesys.Type{Tag: typesys.TypeTagTypeVar, Name: "U", DeclaringMethod: generic}
	generic.TypeParams = []*typesys.Type{mv}

	each := &typesys.Method{Name: "each", DeclaringType: outer}
	ev := &typesys.Type{Tag: typesys.TypeTagTypeVar, Name: "E", DeclaringMethod: each}
	each.TypeParams = []*typesys.Type{ev}

	// anonymous classes declared in the bodies of make, each and map, and in a static
	// initializer of Outer
	local := func(name string, host *typesys.Method) (*typesys.Type, *typesys.Method) {
		c := &typesys.Type{Tag: typesys.TypeTagClass, Name: name, Anonymous: true, Outer: outer, EnclosingMethod: host}
		return c, &typesys.Method{Name: "run", DeclaringType: c}
	}
	inStatic, runInStatic := local("demo.Outer$2", static)
	_, runInEach := local("demo.Outer$3", each)
	_, runInMap := local("demo.Outer$4", generic)
	inInit, _ := local("demo.Outer$5", nil)
	inInit.Static = true

	list := o.u.Lookup("java.util.List")
	anon := &typesys.Type{Tag: typesys.TypeTagClass, Name: "demo.Outer$1", Anonymous: true, Super: o.u.Object()}

	cases := []struct {
		name        string
		t           *typesys.Type
		scope       Context
		noWildcards bool
		want        bool
	}{
		{"variable in its type", tv, Context{Type: outer}, false, true},
		{"variable in inner class", tv, Context{Type: inner}, false, true},
		{"variable two levels in", tv, Context{Type: deepest}, false, true},
		{"variable in static nested", tv, Context{Type: nested}, false, false},
		{"variable in instance method", tv, Context{Method: instance}, false, true},
		{"variable in static method", tv, Context{Method: static}, false, false},
		{"method variable in its method", mv, Context{Method: generic}, false, true},
		{"method variable elsewhere", mv, Context{Method: instance}, false, false},
		{"parameterized over visible variable", typesys.Parameterize(list, tv), Context{Type: inner}, false, true},
		{"parameterized over hidden variable", typesys.Parameterize(list, tv), Context{Type: nested}, false, false},
		{"wildcard allowed", typesys.Parameterize(list, typesys.WildcardOf(nil, false)), Context{Type: nested}, false, true},
		{"wildcard rejected", typesys.Parameterize(list, typesys.WildcardOf(nil, false)), Context{Type: nested}, true, false},
		{"bounded wildcard over hidden variable", typesys.Parameterize(list, typesys.WildcardOf(tv, true)), Context{Type: nested}, false, false},
		{"generic declaration", outer, Context{Type: outer}, false, true},
		{"generic declaration from static nested", outer, Context{Type: nested}, false, false},
		{"raw", typesys.Parameterize(list), Context{Type: nested}, false, true},
		{"primitive", o.u.MustParse("int"), Context{Type: nested}, false, true},
		{"array of variable", typesys.ArrayOf(tv, 2), Context{Type: outer}, false, true},
		{"anonymous", anon, Context{Type: outer}, false, false},
		{"class variable in anonymous class of static method", tv, Context{Method: runInStatic}, false, false},
		{"class variable in anonymous class body of static method", tv, Context{Type: inStatic}, false, false},
		{"class variable in anonymous class of instance method", tv, Context{Method: runInEach}, false, true},
		{"method variable in anonymous class of its method", ev, Context{Method: runInEach}, false, true},
		{"static method variable in anonymous class of its method", mv, Context{Method: runInMap}, false, true},
		{"method variable in anonymous class of another method", ev, Context{Method: runInMap}, false, false},
		{"class variable in static initializer class", tv, Context{Type: inInit}, false, false},
		{"nil", nil, Context{Type: outer}, false, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, e.IsUsableInContext(c.t, c.scope, c.noWildcards))
		})
	}
}

package typesys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jdk(t *testing.T) *Universe {
	t.Helper()
	u, err := JDK()
	require.NoError(t, err)
	return u
}

func TestJDKLoads(t *testing.T) {
	u := jdk(t)
	obj := u.Object()
	require.NotNil(t, obj)
	assert.Nil(t, obj.Super)

	str := u.Lookup(StringName)
	require.NotNil(t, str)
	assert.Equal(t, obj, str.Super)
	assert.Len(t, str.Interfaces, 3)
	assert.Equal(t, str, u.LookupSimple("String"))
	assert.Equal(t, u.Lookup("int"), u.Resolve("int"))
	assert.True(t, u.Lookup("void").IsVoid())

	over := u.Lookup("java.lang.Override")
	require.NotNil(t, over)
	assert.True(t, over.IsAnnotation())
	require.Len(t, over.Interfaces, 1)
	assert.Equal(t, AnnotationName, over.Interfaces[0].Name)

	elemType := u.Lookup("java.lang.annotation.ElementType")
	require.NotNil(t, elemType.Super)
	assert.Equal(t, "java.lang.Enum<java.lang.annotation.ElementType>", elemType.Super.String())
}

func TestParseTypes(t *testing.T) {
	u := jdk(t)
	cases := []struct {
		src, want string
		dims      int
	}{
		{"int", "int", 0},
		{"String[][]", "java.lang.String[][]", 2},
		{"java.util.Map<String, java.util.List<Integer>>", "java.util.Map<java.lang.String, java.util.List<java.lang.Integer>>", 0},
		{"java.util.List<? extends Number>", "java.util.List<? extends java.lang.Number>", 0},
		{"java.util.List<? super Integer>[]", "java.util.List<? super java.lang.Integer>[]", 1},
		{"Object...", "java.lang.Object[]", 1},
		{"java.lang.Class<?>", "java.lang.Class<?>", 0},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			got, err := u.Parse(c.src, nil)
			require.NoError(t, err)
			assert.Equal(t, c.want, got.String())
			assert.Equal(t, c.dims, got.Dimensions())
		})
	}

	_, err := u.Parse("com.example.Missing", nil)
	assert.ErrorIs(t, err, ErrUnknownType)
	_, err = u.Parse("java.util.List<String", nil)
	assert.Error(t, err)
	_, err = u.Parse("int<String>", nil)
	assert.Error(t, err)
}

func TestSubstitutedHierarchy(t *testing.T) {
	u := jdk(t)
	list := u.MustParse("java.util.ArrayList<String>")
	assert.True(t, list.IsParameterized())
	assert.Equal(t, "java.util.AbstractList<java.lang.String>", list.Superclass().String())
	assert.Equal(t, "java.util.List<java.lang.String>", list.SuperInterfaces()[0].String())

	get := u.LookupMethods(u.MustParse("java.util.List<String>"), "get", 1)
	require.Len(t, get, 1)
	assert.Equal(t, "java.lang.String", get[0].Return.String())

	raw := Parameterize(u.Lookup("java.util.ArrayList"))
	assert.True(t, raw.IsRaw())
	assert.Equal(t, "java.util.AbstractList", raw.Superclass().String())
	assert.NotEqual(t, raw.Key(), u.Lookup("java.util.ArrayList").Key())

	size := u.LookupMethods(list, "size", 0)
	require.Len(t, size, 1)
	assert.Equal(t, "java.util.Collection", size[0].DeclaringType.Name)
	assert.NotEmpty(t, u.LookupMethods(u.MustParse("java.util.List<String>"), "hashCode", 0), "interfaces see Object members")
}

func TestLookupMethodsVarargs(t *testing.T) {
	u := jdk(t)
	str := u.Lookup(StringName)
	for _, n := range []int{1, 2, 5} {
		ms := u.LookupMethods(str, "format", n)
		require.Len(t, ms, 1, "format with %d args", n)
		assert.True(t, ms[0].Varargs)
	}
	assert.Empty(t, u.LookupMethods(str, "format", 0))
	assert.Equal(t, "java.lang.String format(java.lang.String, java.lang.Object...)", u.LookupMethods(str, "format", 1)[0].String())
}

func TestFindMethodDeclaredOnly(t *testing.T) {
	u := jdk(t)
	m, err := u.FindMethod(u.Lookup(StringName), "length", 0)
	require.NoError(t, err)
	require.NotNil(t, m)

	m, err = u.FindMethod(u.Lookup(StringName), "hashCode", 0)
	require.NoError(t, err)
	assert.Nil(t, m, "inherited methods are not declared")

	_, err = u.FindMethod(Unknown, "x", 0)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestIsAssignable(t *testing.T) {
	u := jdk(t)
	p := u.MustParse
	cases := []struct {
		from, to string
		want     bool
	}{
		{"int", "long", true},
		{"long", "int", false},
		{"char", "int", true},
		{"char", "short", false},
		{"int", "Integer", true},
		{"int", "Object", true},
		{"int", "Number", true},
		{"Integer", "int", true},
		{"Integer", "long", true},
		{"Integer", "String", false},
		{"String", "Object", true},
		{"String", "CharSequence", true},
		{"String", "java.lang.Comparable<String>", true},
		{"String", "java.lang.Comparable<Integer>", false},
		{"java.util.ArrayList<String>", "java.util.List<String>", true},
		{"java.util.ArrayList<String>", "java.util.Collection<? extends Object>", true},
		{"java.util.ArrayList<String>", "java.util.List<Integer>", false},
		{"java.util.ArrayList<String>", "java.util.List", true},
		{"int[]", "Object", true},
		{"int[]", "java.lang.Cloneable", true},
		{"int[]", "long[]", false},
		{"String[]", "Object[]", true},
		{"boolean", "int", false},
		{"null", "String", true},
		{"null", "int", false},
	}
	for _, c := range cases {
		t.Run(c.from+"->"+c.to, func(t *testing.T) {
			to := p(c.to)
			if c.to == "java.util.List" {
				to = Parameterize(u.Lookup("java.util.List"))
			}
			assert.Equal(t, c.want, u.IsAssignable(p(c.from), to))
		})
	}
	assert.True(t, u.IsAssignable(Unknown, p("int")))
}

func TestPromote(t *testing.T) {
	u := jdk(t)
	p := u.MustParse
	assert.Equal(t, "int", u.Promote(p("byte"), p("char")).Name)
	assert.Equal(t, "long", u.Promote(p("int"), p("long")).Name)
	assert.Equal(t, "double", u.Promote(p("Double"), p("int")).Name)
	assert.Nil(t, u.Promote(p("String"), p("int")))
	assert.True(t, u.IsNumericLike(p("Integer")))
	assert.False(t, u.IsNumericLike(p("boolean")))
	assert.True(t, u.IsBooleanLike(p("Boolean")))
}

func TestExtendKeepsParentIntact(t *testing.T) {
	u := jdk(t)
	child := u.Extend()
	foo := DeclaredType(TypeTagClass, "com.example.Foo")
	foo.Super = child.Object()
	require.NoError(t, child.Declare(foo))

	assert.Equal(t, foo, child.LookupSimple("Foo"))
	assert.Nil(t, u.Lookup("com.example.Foo"))
	assert.Equal(t, len(u.Types())+1, len(child.Types()))
	assert.Error(t, child.Declare(DeclaredType(TypeTagClass, StringName)), "cannot shadow a parent type")
}

func TestLoadRejectsCycles(t *testing.T) {
	u := NewUniverse()
	err := u.LoadYAML([]byte(`
types:
  - name: a.A
    super: a.B
  - name: a.B
    super: a.A
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cyclic")
}

func TestLoadTypeVariableBounds(t *testing.T) {
	u := jdk(t)
	err := u.LoadYAML([]byte(`
types:
  - name: demo.Box
    typeParams: ["T extends java.lang.Number & java.lang.Comparable<T>"]
    methods:
      - { name: get, returns: T }
      - { name: map, typeParams: [R], params: ["java.util.function.Function<T, R>"], returns: "demo.Box<R>" }
`))
	require.NoError(t, err)
	box := u.Lookup("demo.Box")
	require.Len(t, box.TypeParams, 1)
	tv := box.TypeParams[0]
	assert.True(t, tv.IsTypeVariable())
	require.Len(t, tv.Bounds, 2)
	assert.Equal(t, "java.lang.Comparable<T>", tv.Bounds[1].String())
	assert.True(t, box.IsGeneric())

	m := box.Methods[1]
	require.Len(t, m.TypeParams, 1)
	assert.Equal(t, m, m.TypeParams[0].DeclaringMethod)
	assert.Equal(t, "demo.Box<R>", m.Return.String())
	assert.Equal(t, "java.lang.Number", Erasure(tv).Name)
}

func TestLoadRejectsCyclicBounds(t *testing.T) {
	u := jdk(t)
	err := u.LoadYAML([]byte(`
types:
  - name: demo.Pair
    typeParams: ["T extends U", "U extends T"]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cyclic bound T of U")
}

func TestBoundsLoopingBack(t *testing.T) {
	u := jdk(t)
	owner := DeclaredType(TypeTagClass, "demo.A")
	tv := TypeVar("T", owner)
	uv := TypeVar("U", owner, tv)
	tv.Bounds = []*Type{uv}

	assert.True(t, BoundReaches(uv, tv))
	assert.True(t, BoundReaches(tv, tv))
	assert.False(t, BoundReaches(u.Lookup(StringName), tv))

	assert.Nil(t, Erasure(tv))
	assert.Nil(t, Erasure(ArrayOf(uv, 1)))
	assert.False(t, u.IsSubtype(tv, u.Lookup(StringName)))
	assert.False(t, u.IsAssignable(uv, u.Lookup("java.lang.Integer")))
	assert.True(t, u.IsAssignable(tv, u.Object()))
}

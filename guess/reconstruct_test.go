package guess

import (
	"testing"

	"github.com/panyam/typeguess/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstructDeclaredType(t *testing.T) {
	access := func(arr, idx spec) spec {
		return stmt(syntax.KindArrayAccess, arr.In(syntax.LocArray), idx.In(syntax.LocIndex))
	}
	wildcard := spec{Kind: syntax.KindWildcardType, Flags: syntax.FlagUpperBound, Kids: []spec{syntax.TypeRef("Number").In(syntax.LocBound)}}
	_, l := syntax.FromSpec(syntax.Block(
		// int[] x = foo[0][1];
		syntax.LocalVar(syntax.ArrayOf(syntax.Prim("int"), 1), "x",
			access(access(syntax.Name("foo").As("foo"), syntax.Lit(syntax.KindNumberLiteral, "0").As("index")), syntax.Lit(syntax.KindNumberLiteral, "1"))),
		syntax.LocalVar(syntax.TypeRef("java", "util", "Map"), "m", syntax.Paren(syntax.QName("a", "b").As("qualified"))),
		syntax.LocalVar(syntax.Generic(syntax.TypeRef("List"), wildcard), "xs", syntax.Name("src").As("generic")),
		syntax.LocalVar(syntax.TypeRef("var"), "v", syntax.Name("inferred").As("inferred")),
		// String s[] = t;
		stmt(syntax.KindVarDeclStmt,
			syntax.TypeRef("String").In(syntax.LocType),
			spec{Kind: syntax.KindVarDeclFragment, Dims: 1, Kids: []spec{
				syntax.Name("s").In(syntax.LocName),
				syntax.Name("t").As("extraDims").In(syntax.LocInitializer),
			}}.In(syntax.LocFragments)),
		syntax.ExprStmt(syntax.Call(spec{}, "f", syntax.Name("arg").As("arg"))),
	))
	e := New(newTableOracle(t))

	cases := []struct {
		label, want string
	}{
		{"foo", "int[][][]"},
		{"generic", "List<? extends Number>"},
		{"extraDims", "String[]"},
	}
	for _, c := range cases {
		got, ok := e.ReconstructDeclaredType(l[c.label])
		require.True(t, ok, c.label)
		assert.Equal(t, c.want, got.String(), c.label)
	}

	got, ok := e.ReconstructDeclaredType(l["qualified"].Child(syntax.LocName))
	require.True(t, ok)
	assert.Equal(t, "java.util.Map", got.String())

	for _, label := range []string{"index", "inferred", "arg"} {
		_, ok := e.ReconstructDeclaredType(l[label])
		assert.False(t, ok, label)
	}
	_, ok = e.ReconstructDeclaredType(l["qualified"].Child(syntax.LocQualifier))
	assert.False(t, ok, "a qualifier is not the accessed member")
}

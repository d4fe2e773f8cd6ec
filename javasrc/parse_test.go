package javasrc

import (
	"context"
	"strings"
	"testing"

	"github.com/panyam/typeguess/binder"
	"github.com/panyam/typeguess/guess"
	"github.com/panyam/typeguess/syntax"
	"github.com/panyam/typeguess/typesys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseString(t *testing.T, src string) *Source {
	t.Helper()
	s, err := ParseSource(context.Background(), []byte(src))
	require.NoError(t, err)
	require.NoError(t, s.Tree.Validate())
	return s
}

func collect(tree *syntax.Tree, kind syntax.Kind) []syntax.Ref {
	var out []syntax.Ref
	tree.Root().Walk(func(n syntax.Ref) syntax.VisitResult {
		if n.Is(kind) {
			out = append(out, n)
		}
		return syntax.Continue
	})
	return out
}

// declNamed finds the first node of kind whose name slot reads name.
func declNamed(t *testing.T, tree *syntax.Tree, kind syntax.Kind, name string) syntax.Ref {
	t.Helper()
	for _, n := range collect(tree, kind) {
		if n.Child(syntax.LocName).Text() == name {
			return n
		}
	}
	require.Failf(t, "declaration not found", "%s %s", kind, name)
	return syntax.Ref{}
}

// at returns the innermost node covering the first occurrence of marker.
func at(t *testing.T, s *Source, marker string) syntax.Ref {
	t.Helper()
	off := strings.Index(string(s.Text), marker)
	require.GreaterOrEqual(t, off, 0, "marker %q", marker)
	n := s.Tree.NodeAt(off + 1)
	require.False(t, n.IsNil())
	return n
}

const declarationsSrc = `package demo;

import java.util.List;

public class Shapes<T extends Number> extends Base implements Runnable, Comparable<Shapes<T>> {
    private static final int LIMIT = 10, OTHER[] = {};
    List<String> names;

    public Shapes(int size) { super(); }

    @Override
    public void run() {}

    static <E> E first(E... items) { return items[0]; }

    interface Listener { void on(String event); }

    enum Mode { ON, OFF; Mode next() { return this; } }
}
`

func TestParseDeclarations(t *testing.T) {
	s := parseString(t, declarationsSrc)
	assert.Zero(t, s.SyntaxErrors)
	tree := s.Tree

	shapes := declNamed(t, tree, syntax.KindTypeDecl, "Shapes")
	tps := shapes.ChildrenAt(syntax.LocTypeParameters)
	require.Len(t, tps, 1)
	assert.Equal(t, "T", tps[0].Child(syntax.LocName).Text())
	assert.Equal(t, "Number", tps[0].Child(syntax.LocTypeBounds).QualifiedName())
	assert.Equal(t, "Base", shapes.Child(syntax.LocSuperclassType).QualifiedName())
	ifaces := shapes.ChildrenAt(syntax.LocSuperInterfaceTypes)
	require.Len(t, ifaces, 2)
	assert.Equal(t, syntax.KindParameterizedType, ifaces[1].Kind())

	limit := shapes.ChildrenAt(syntax.LocBodyDeclarations)[0]
	require.Equal(t, syntax.KindFieldDecl, limit.Kind())
	assert.True(t, limit.Flags().Has(syntax.FlagStatic))
	assert.True(t, limit.Flags().Has(syntax.FlagFinal))
	frags := limit.ChildrenAt(syntax.LocFragments)
	require.Len(t, frags, 2)
	assert.Equal(t, 0, frags[0].Dims())
	assert.Equal(t, 1, frags[1].Dims())
	assert.Equal(t, syntax.KindArrayInitializer, frags[1].Child(syntax.LocInitializer).Kind())

	ctor := declNamed(t, tree, syntax.KindMethodDecl, "Shapes")
	assert.True(t, ctor.Flags().Has(syntax.FlagConstructor))
	assert.True(t, ctor.Child(syntax.LocReturnType).IsNil())
	assert.Len(t, collect(tree, syntax.KindSuperConstructorInvocation), 1)

	run := declNamed(t, tree, syntax.KindMethodDecl, "run")
	mods := run.ChildrenAt(syntax.LocModifiers)
	require.Len(t, mods, 1)
	assert.Equal(t, syntax.KindMarkerAnnotation, mods[0].Kind())
	assert.Equal(t, "Override", mods[0].Child(syntax.LocTypeName).Text())

	first := declNamed(t, tree, syntax.KindMethodDecl, "first")
	assert.True(t, first.Flags().Has(syntax.FlagStatic))
	assert.Len(t, first.ChildrenAt(syntax.LocTypeParameters), 1)
	params := first.ChildrenAt(syntax.LocParameters)
	require.Len(t, params, 1)
	assert.True(t, params[0].Flags().Has(syntax.FlagVarargs))
	assert.Equal(t, "items", params[0].Child(syntax.LocName).Text())

	listener := declNamed(t, tree, syntax.KindTypeDecl, "Listener")
	assert.True(t, listener.Flags().Has(syntax.FlagInterface))

	mode := declNamed(t, tree, syntax.KindEnumDecl, "Mode")
	assert.Len(t, mode.ChildrenAt(syntax.LocEnumConstants), 2)
	assert.Len(t, mode.ChildrenAt(syntax.LocBodyDeclarations), 1)
}

const expressionsSrc = `class A {
    int f(int[] xs, String s) {
        int total = xs[0] + xs[1] + 2;
        boolean b = s instanceof String && !b;
        String t = b ? s : "none";
        total += (int) 3L;
        Runnable r = () -> System.out.println(s);
        java.util.function.Function<String, Integer> len = String::length;
        int[][] grid = new int[3][];
        for (int i = 0; i < 10; i++) { total++; }
        for (String e : java.util.List.of(s)) {}
        return switch (total) { case 1 -> 10; default -> { yield 20; } };
    }
}
`

func TestParseExpressions(t *testing.T) {
	s := parseString(t, expressionsSrc)
	assert.Zero(t, s.SyntaxErrors)
	tree := s.Tree

	plus := at(t, s, "xs[0] +").Parent().Parent()
	require.Equal(t, syntax.KindInfixExpr, plus.Kind(), "left-nested chains flatten")
	assert.Equal(t, "+", plus.Op())
	assert.Len(t, plus.ChildrenAt(syntax.LocExtendedOperands), 1)

	assert.Len(t, collect(tree, syntax.KindInstanceOfExpr), 1)
	assert.Len(t, collect(tree, syntax.KindConditionalExpr), 1)

	assigns := collect(tree, syntax.KindAssignment)
	require.Len(t, assigns, 1)
	assert.Equal(t, "+=", assigns[0].Op())
	assert.Equal(t, syntax.KindCastExpr, assigns[0].Child(syntax.LocRightHandSide).Kind())

	lambdas := collect(tree, syntax.KindLambdaExpr)
	require.Len(t, lambdas, 1)
	call := lambdas[0].Child(syntax.LocBody)
	require.Equal(t, syntax.KindMethodInvocation, call.Kind())
	assert.Equal(t, "System.out", call.Child(syntax.LocExpression).QualifiedName())

	refs := collect(tree, syntax.KindMethodRef)
	require.Len(t, refs, 1)
	assert.Equal(t, "length", refs[0].Child(syntax.LocName).Text())

	creations := collect(tree, syntax.KindArrayCreation)
	require.Len(t, creations, 1)
	assert.Equal(t, 2, creations[0].Child(syntax.LocType).Dims())
	assert.Len(t, creations[0].ChildrenAt(syntax.LocDimensions), 1)

	loops := collect(tree, syntax.KindForStmt)
	require.Len(t, loops, 1)
	inits := loops[0].ChildrenAt(syntax.LocInitializers)
	require.Len(t, inits, 1)
	assert.Equal(t, syntax.KindVarDeclExpr, inits[0].Kind())
	assert.Equal(t, "<", loops[0].Child(syntax.LocExpression).Op())
	assert.Equal(t, syntax.KindPostfixExpr, loops[0].Child(syntax.LocUpdaters).Kind())

	each := collect(tree, syntax.KindEnhancedForStmt)
	require.Len(t, each, 1)
	assert.Equal(t, "e", each[0].Child(syntax.LocParameter).Child(syntax.LocName).Text())

	switches := collect(tree, syntax.KindSwitchExpr)
	require.Len(t, switches, 1)
	assert.Equal(t, "total", switches[0].Child(syntax.LocExpression).Text())
	cases := switches[0].ChildrenAt(syntax.LocStatements)
	require.Len(t, cases, 2)
	assert.Equal(t, syntax.KindNumberLiteral, cases[0].Child(syntax.LocBody).Kind())
	assert.True(t, cases[1].Flags().Has(syntax.FlagDefault))
	assert.Len(t, collect(tree, syntax.KindYieldStmt), 1)
}

const guessSrc = `class Demo {
    int limit;
    void take(long v) {}
    void run(java.util.List<String> names) {
        take(count);
        String s = names.get(idx);
        if (ready) { limit = names.size(); }
    }
}
`

func TestParsedTreeDrivesTheEngine(t *testing.T) {
	s := parseString(t, guessSrc)
	u, err := typesys.JDK()
	require.NoError(t, err)
	b := binder.New(s.Tree, u)
	require.False(t, b.HasErrors(), "%v", b.Err())
	e := guess.New(b)

	cases := []struct {
		marker, want string
	}{
		{"count", "long"},
		{"idx", "int"},
		{"ready", "boolean"},
		{"names.size", "int"},
	}
	for _, c := range cases {
		t.Run(c.marker, func(t *testing.T) {
			n := at(t, s, c.marker)
			if n.Is(syntax.KindSimpleName) && n.Loc() == syntax.LocExpression && n.Parent().Is(syntax.KindMethodInvocation) {
				n = n.Parent()
			}
			res, err := e.InferExpectedType(n)
			require.NoError(t, err)
			require.True(t, res.HasType(), "at %s: %s", n, res)
			assert.Equal(t, c.want, res.Type.String())
		})
	}
}

func TestParseToleratesSyntaxErrors(t *testing.T) {
	s := parseString(t, "class Broken { void f() { int x = ; } void g() {} }")
	broken := declNamed(t, s.Tree, syntax.KindTypeDecl, "Broken")
	assert.False(t, broken.IsNil())
}

const brokenBoundsSrc = `class A<T extends U, U extends T> {
    T field;
    void take(String s) {}
    void take(Integer i) {}
    void use() { take(field); }
}
`

func TestParsedCyclicBounds(t *testing.T) {
	s := parseString(t, brokenBoundsSrc)
	u, err := typesys.JDK()
	require.NoError(t, err)
	b := binder.New(s.Tree, u)
	require.Error(t, b.Err())
	assert.Contains(t, b.Err().Error(), "cyclic bound")
	e := guess.New(b)

	arg := at(t, s, "field)")
	ft := b.ResolveType(arg)
	require.NotNil(t, ft)
	assert.NotEmpty(t, e.RelaxingCandidates(ft))
	_, err = e.InferExpectedType(arg)
	assert.NoError(t, err)
}

const anonymousSrc = `class G<T> {
    static void s() { new Runnable() { public void run() { inStatic(); } }; }
    <E> void f() { new Runnable() { public void run() { inGeneric(); } }; }
}
`

func TestParsedAnonymousClassScopes(t *testing.T) {
	s := parseString(t, anonymousSrc)
	u, err := typesys.JDK()
	require.NoError(t, err)
	b := binder.New(s.Tree, u)
	require.False(t, b.HasErrors(), "%v", b.Err())
	e := guess.New(b)

	g := declNamed(t, s.Tree, syntax.KindTypeDecl, "G")
	tv := b.DeclaredType(g).TypeParams[0]
	f := b.ResolveMethod(declNamed(t, s.Tree, syntax.KindMethodDecl, "f"))
	require.NotNil(t, f)
	ev := f.TypeParams[0]

	contextAt := func(marker string) guess.Context {
		typ, m := b.ContextAt(at(t, s, marker))
		return guess.Context{Type: typ, Method: m}
	}
	assert.False(t, e.IsUsableInContext(tv, contextAt("inStatic"), false))
	assert.True(t, e.IsUsableInContext(tv, contextAt("inGeneric"), false))
	assert.True(t, e.IsUsableInContext(ev, contextAt("inGeneric"), false))
	assert.False(t, e.IsUsableInContext(ev, contextAt("inStatic"), false))
}

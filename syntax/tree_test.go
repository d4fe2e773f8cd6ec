package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAssignment(t *testing.T) (*Tree, map[string]Ref) {
	t.Helper()
	tree, labels := FromSpec(Unit(
		Class("Foo",
			Method(0, Prim("void"), "run", nil, Block(
				ExprStmt(Assign("=", Name("x").As("lhs"), Lit(KindNumberLiteral, "1").As("rhs")).As("assign")),
			)),
		),
	))
	require.NoError(t, tree.Validate())
	return tree, labels
}

func TestRefNavigation(t *testing.T) {
	tree, labels := buildAssignment(t)
	lhs, rhs, assign := labels["lhs"], labels["rhs"], labels["assign"]

	assert.Equal(t, KindAssignment, lhs.Parent().Kind())
	assert.Equal(t, assign, lhs.Parent())
	assert.Equal(t, LocLeftHandSide, lhs.Loc())
	assert.Equal(t, LocRightHandSide, rhs.Loc())
	assert.Equal(t, rhs, assign.Child(LocRightHandSide))
	assert.True(t, assign.Child(LocExpression).IsNil())
	assert.Equal(t, "=", assign.Op())
	assert.Equal(t, KindCompilationUnit, tree.Root().Kind())
	assert.True(t, tree.Root().Parent().IsNil())
	assert.Equal(t, "1", rhs.Text())
}

func TestNodeAtReturnsInnermost(t *testing.T) {
	tree, labels := buildAssignment(t)
	lhs := labels["lhs"]
	assert.Equal(t, lhs, tree.NodeAt(lhs.Pos()))
	assert.Equal(t, KindCompilationUnit, tree.NodeAt(0).Kind())
	assert.True(t, tree.NodeAt(10_000).IsNil())
}

func TestIndexIn(t *testing.T) {
	tree, labels := FromSpec(Call(Spec{}, "f",
		Name("a").As("a"), Name("b").As("b"), Name("c").As("c")))
	require.NoError(t, tree.Validate())
	assert.Equal(t, 0, labels["a"].IndexIn())
	assert.Equal(t, 2, labels["c"].IndexIn())
	assert.Equal(t, -1, tree.Root().IndexIn())
}

func TestValidateRejectsBadSlot(t *testing.T) {
	b := NewBuilder()
	assign := b.Add(Node{Kind: KindAssignment, Op: "="})
	lhs := b.Add(Node{Kind: KindSimpleName, Text: "x"})
	require.NoError(t, b.Attach(assign, LocExpression, lhs))
	tree := b.Build(assign)
	err := tree.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid slot")
}

func TestAttachTwiceFails(t *testing.T) {
	b := NewBuilder()
	p := b.Add(Node{Kind: KindParenthesizedExpr})
	q := b.Add(Node{Kind: KindParenthesizedExpr})
	c := b.Add(Node{Kind: KindSimpleName, Text: "x"})
	require.NoError(t, b.Attach(p, LocExpression, c))
	assert.Error(t, b.Attach(q, LocExpression, c))
}

func TestQualifiedNameRendering(t *testing.T) {
	tree, _ := FromSpec(TypeRef("java", "util", "List"))
	assert.Equal(t, "java.util.List", tree.Root().QualifiedName())
}

func TestWalkStops(t *testing.T) {
	tree, _ := buildAssignment(t)
	var seen []Kind
	completed := tree.Root().Walk(func(r Ref) VisitResult {
		seen = append(seen, r.Kind())
		if r.Kind() == KindAssignment {
			return Stop
		}
		return Continue
	})
	assert.False(t, completed)
	assert.Equal(t, KindAssignment, seen[len(seen)-1])

	var names int
	completed = tree.Root().Walk(func(r Ref) VisitResult {
		if r.Kind() == KindMethodDecl {
			return SkipChildren
		}
		if r.Kind() == KindSimpleName {
			names++
		}
		return Continue
	})
	assert.True(t, completed)
	assert.Equal(t, 1, names, "only the class name is outside the skipped method")
}

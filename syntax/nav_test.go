package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnclosingDeclarations(t *testing.T) {
	lambda := Spec{Kind: KindLambdaExpr, Kids: []Spec{
		Block(Spec{Kind: KindReturnStmt, Kids: []Spec{Name("y").As("inLambda").In(LocExpression)}}).In(LocBody),
	}}
	tree, labels := FromSpec(Unit(
		Class("Foo",
			Method(FlagStatic, Prim("int"), "calc", nil, Block(
				Spec{Kind: KindTryStmt, Kids: []Spec{
					Block(ExprStmt(Call(Spec{}, "risky").As("risky"))).In(LocBody),
					Spec{Kind: KindCatchClause, Kids: []Spec{
						Param(TypeRef("Exception"), "e").In(LocException),
						Block(ExprStmt(Call(Spec{}, "handle").As("handler"))).In(LocBody),
					}}.In(LocCatchClauses),
				}}.As("try"),
				ExprStmt(lambda),
			)).As("calc"),
		).As("Foo"),
	))
	require.NoError(t, tree.Validate())

	risky := labels["risky"]
	assert.Equal(t, labels["calc"], EnclosingMethod(risky))
	assert.Equal(t, labels["Foo"], EnclosingType(risky))
	assert.Equal(t, labels["calc"], EnclosingBodyDeclaration(risky))
	assert.Equal(t, KindExprStmt, EnclosingStatement(risky).Kind())
	assert.Equal(t, labels["try"], EnclosingTry(risky))
	assert.True(t, EnclosingTry(labels["handler"]).IsNil(), "catch bodies are not protected by their try")
	assert.Equal(t, tree.Root(), EnclosingCompilationUnit(risky))

	inLambda := labels["inLambda"]
	assert.True(t, EnclosingMethod(inLambda).IsNil(), "lambdas shield the enclosing method")
	assert.Equal(t, KindLambdaExpr, EnclosingLambda(inLambda).Kind())
	assert.True(t, EnclosingLambda(risky).IsNil())
	assert.True(t, IsInStaticContext(risky))
}

func TestIsWriteAccess(t *testing.T) {
	tree, labels := FromSpec(Block(
		ExprStmt(Assign("=", Name("a").As("written"), Name("b").As("read"))),
		ExprStmt(Spec{Kind: KindPostfixExpr, Op: "++", Kids: []Spec{Name("i").As("postfix").In(LocOperand)}}),
		ExprStmt(Spec{Kind: KindPrefixExpr, Op: "-", Kids: []Spec{Name("n").As("negated").In(LocOperand)}}),
		ExprStmt(Assign("=", QName("p", "q").As("qualified"), Lit(KindNullLiteral, "null"))),
		LocalVar(Prim("int"), "v", Spec{}).As("decl"),
	))
	require.NoError(t, tree.Validate())

	assert.True(t, IsWriteAccess(labels["written"]))
	assert.False(t, IsWriteAccess(labels["read"]))
	assert.True(t, IsWriteAccess(labels["postfix"]))
	assert.False(t, IsWriteAccess(labels["negated"]))

	q := labels["qualified"]
	assert.True(t, IsWriteAccess(q.Child(LocName)))
	assert.False(t, IsWriteAccess(q.Child(LocQualifier)), "a qualifier is only read")

	frag := labels["decl"].Child(LocFragments)
	assert.True(t, IsWriteAccess(frag.Child(LocName)))
}

func TestStaticContextInsideConstructorCall(t *testing.T) {
	ctorCall := Spec{Kind: KindConstructorInvocation, Kids: []Spec{Name("seed").As("arg").In(LocArguments)}}
	tree, labels := FromSpec(Class("Foo",
		Method(FlagConstructor, Spec{}, "Foo", nil, Block(
			ctorCall,
			ExprStmt(Name("after").As("after")),
		)),
		Spec{Kind: KindFieldDecl, Flags: FlagStatic, Kids: []Spec{
			Prim("int").In(LocType),
			Spec{Kind: KindVarDeclFragment, Kids: []Spec{Name("F").In(LocName), Name("init").As("fieldInit").In(LocInitializer)}}.In(LocFragments),
		}},
	))
	require.NoError(t, tree.Validate())

	assert.True(t, IsInsideConstructorInvocation(labels["arg"]))
	assert.True(t, IsInStaticContext(labels["arg"]))
	assert.False(t, IsInStaticContext(labels["after"]))
	assert.True(t, IsInStaticContext(labels["fieldInit"]))
}

package binder

import (
	"strings"

	"github.com/panyam/typeguess/syntax"
	"github.com/panyam/typeguess/typesys"
)

// maxDepth bounds the recursion of one query. Self-referential code such as
// `var x = x + 1` would otherwise never bottom out.
const maxDepth = 64

// query carries the per-call state of a resolution, keeping the Binder itself read-only.
// Types computed along the way are memoized for the lifetime of the query.
type query struct {
	b     *Binder
	u     *typesys.Universe
	depth int
	memo  map[syntax.NodeID]*typesys.Type
}

func newQuery(b *Binder) *query {
	return &query{b: b, u: b.u, memo: map[syntax.NodeID]*typesys.Type{}}
}

func (q *query) lookup(name string) *typesys.Type { return q.u.Lookup(name) }

// typeOf is the type a node evaluates to or denotes.
func (q *query) typeOf(n syntax.Ref) *typesys.Type {
	if n.IsNil() || q.depth >= maxDepth {
		return nil
	}
	if t, ok := q.memo[n.ID()]; ok {
		return t
	}
	q.depth++
	t := q.compute(n)
	q.depth--
	q.memo[n.ID()] = t
	return t
}

func (q *query) compute(n syntax.Ref) *typesys.Type {
	b := q.b
	switch n.Kind() {
	// --- Literals ---
	case syntax.KindNumberLiteral:
		return q.lookup(numberType(n.Text()))
	case syntax.KindStringLiteral:
		return q.lookup(typesys.StringName)
	case syntax.KindCharLiteral:
		return q.lookup("char")
	case syntax.KindBooleanLiteral:
		return q.lookup("boolean")
	case syntax.KindNullLiteral:
		return typesys.Null
	case syntax.KindTypeLiteral:
		return q.classLiteral(n)

	// --- Names and member access ---
	case syntax.KindSimpleName:
		return q.nameType(n)
	case syntax.KindQualifiedName:
		return q.qualifiedNameType(n)
	case syntax.KindFieldAccess:
		return q.memberOf(q.typeOf(n.Child(syntax.LocExpression)), n.Child(syntax.LocName).Text())
	case syntax.KindSuperFieldAccess:
		return q.memberOf(q.superOf(n, n.Child(syntax.LocQualifier)), n.Child(syntax.LocName).Text())
	case syntax.KindThisExpr:
		if qual := n.Child(syntax.LocQualifier); !qual.IsNil() {
			return q.typeName(qual)
		}
		if decl := syntax.EnclosingType(n); !decl.IsNil() {
			return b.types[decl.ID()]
		}
		return nil

	// --- Calls and creations ---
	case syntax.KindMethodInvocation, syntax.KindSuperMethodInvocation:
		m := q.methodOf(n)
		if m == nil {
			return nil
		}
		return typesys.Substitute(m.Return, q.inferTypeArgs(m, n.ChildrenAt(syntax.LocArguments)))
	case syntax.KindClassInstanceCreation:
		if body := n.Child(syntax.LocAnonymousClass); !body.IsNil() {
			if t := b.types[body.ID()]; t != nil {
				return t
			}
		}
		return q.typeOf(n.Child(syntax.LocType))

	// --- Operators ---
	case syntax.KindParenthesizedExpr:
		return q.typeOf(n.Child(syntax.LocExpression))
	case syntax.KindCastExpr:
		return q.typeOf(n.Child(syntax.LocType))
	case syntax.KindConditionalExpr:
		return q.conditionalType(n)
	case syntax.KindInfixExpr:
		return q.infixType(n)
	case syntax.KindPrefixExpr:
		operand := q.typeOf(n.Child(syntax.LocOperand))
		switch n.Op() {
		case "!":
			return q.lookup("boolean")
		case "++", "--":
			return operand
		}
		return q.u.Promote(operand, q.lookup("int"))
	case syntax.KindPostfixExpr:
		return q.typeOf(n.Child(syntax.LocOperand))
	case syntax.KindAssignment:
		return q.typeOf(n.Child(syntax.LocLeftHandSide))
	case syntax.KindInstanceOfExpr:
		return q.lookup("boolean")

	// --- Arrays ---
	case syntax.KindArrayAccess:
		if at := q.typeOf(n.Child(syntax.LocArray)); at.IsArray() {
			return at.ComponentType()
		}
		return nil
	case syntax.KindArrayCreation:
		return q.typeOf(n.Child(syntax.LocType))
	case syntax.KindArrayInitializer:
		switch p := n.Parent(); p.Kind() {
		case syntax.KindVarDeclFragment, syntax.KindSingleVarDecl, syntax.KindArrayCreation:
			return q.typeOf(p)
		case syntax.KindArrayInitializer:
			if pt := q.typeOf(p); pt.IsArray() {
				return pt.ComponentType()
			}
		}
		return nil

	// --- Functional expressions ---
	case syntax.KindLambdaExpr, syntax.KindMethodRef:
		return q.targetType(n)
	case syntax.KindSwitchExpr:
		return q.switchExprType(n)

	// --- Type nodes ---
	case syntax.KindPrimitiveType:
		return q.lookup(n.Text())
	case syntax.KindSimpleType:
		return q.typeName(n.Child(syntax.LocName))
	case syntax.KindQualifiedType:
		name := n.Child(syntax.LocName).Text()
		if qt := q.typeOf(n.Child(syntax.LocQualifier)); qt != nil {
			return q.u.MemberType(qt, name)
		}
		return q.lookup(n.QualifiedName())
	case syntax.KindArrayType:
		elem := q.typeOf(n.Child(syntax.LocElementType))
		if elem == nil {
			return nil
		}
		return typesys.ArrayOf(elem, max(n.Dims(), 1))
	case syntax.KindParameterizedType:
		return q.parameterizedType(n)
	case syntax.KindWildcardType:
		bound := q.typeOf(n.Child(syntax.LocBound))
		return typesys.WildcardOf(bound, n.Flags().Has(syntax.FlagUpperBound))

	// --- Declarations ---
	case syntax.KindVarDeclFragment:
		return q.variableType(n, n.Parent().Child(syntax.LocType))
	case syntax.KindSingleVarDecl:
		return q.parameterType(n)
	case syntax.KindTypeDecl, syntax.KindEnumDecl, syntax.KindAnnotationTypeDecl, syntax.KindAnonymousClassDecl:
		return b.types[n.ID()]
	case syntax.KindEnumConstantDecl:
		return b.types[n.Parent().ID()]
	case syntax.KindTypeParameter:
		return b.typeVars[n.ID()]
	}
	return nil
}

// numberType classifies a numeric literal by its suffix and shape.
func numberType(text string) string {
	s := strings.ToLower(strings.ReplaceAll(text, "_", ""))
	hex := strings.HasPrefix(s, "0x")
	switch {
	case strings.HasSuffix(s, "l"):
		return "long"
	case hex && strings.Contains(s, "p"):
		return "double"
	case hex:
		return "int"
	case strings.HasSuffix(s, "f"):
		return "float"
	case strings.HasSuffix(s, "d"), strings.ContainsAny(s, ".e"):
		return "double"
	}
	return "int"
}

func (q *query) classLiteral(n syntax.Ref) *typesys.Type {
	cls := q.lookup("java.lang.Class")
	if cls == nil {
		return nil
	}
	t := q.typeOf(n.Child(syntax.LocType))
	if t == nil || !cls.IsGeneric() {
		return cls
	}
	if t.IsVoid() {
		if v := q.lookup("java.lang.Void"); v != nil {
			return typesys.Parameterize(cls, v)
		}
		return cls
	}
	return typesys.Parameterize(cls, q.u.Box(t))
}

// nameType resolves a simple name according to the slot it sits in.
func (q *query) nameType(n syntax.Ref) *typesys.Type {
	b := q.b
	parent := n.Parent()
	if n.Loc() == syntax.LocName {
		switch parent.Kind() {
		case syntax.KindVarDeclFragment, syntax.KindSingleVarDecl, syntax.KindEnumConstantDecl,
			syntax.KindTypeDecl, syntax.KindEnumDecl, syntax.KindAnnotationTypeDecl, syntax.KindTypeParameter,
			syntax.KindMethodInvocation, syntax.KindSuperMethodInvocation,
			syntax.KindFieldAccess, syntax.KindSuperFieldAccess, syntax.KindQualifiedName,
			syntax.KindSimpleType, syntax.KindQualifiedType:
			return q.typeOf(parent)
		case syntax.KindMethodDecl:
			return nil
		case syntax.KindAnnotationTypeMemberDecl:
			if m := b.methods[parent.ID()]; m != nil {
				return m.Return
			}
			return nil
		case syntax.KindMemberValuePair:
			if m := q.annotationMember(parent.Parent(), n.Text()); m != nil {
				return m.Return
			}
			return nil
		}
	}
	if n.Loc() == syntax.LocTypeName || n.Loc() == syntax.LocQualifier && parent.Is(syntax.KindThisExpr, syntax.KindSuperFieldAccess, syntax.KindSuperMethodInvocation) {
		return q.typeName(n)
	}
	if t := q.variable(n.Text(), n); t != nil {
		return t
	}
	return q.typeName(n)
}

// qualifiedNameType resolves a dotted name: a type in type positions, otherwise a field of
// whatever the qualifier denotes, falling back to a type of that name.
func (q *query) qualifiedNameType(n syntax.Ref) *typesys.Type {
	if parent := n.Parent(); parent.Kind().IsType() || n.Loc() == syntax.LocTypeName {
		return q.typeName(n)
	}
	if qt := q.typeOf(n.Child(syntax.LocQualifier)); qt != nil {
		if t := q.memberOf(qt, n.Child(syntax.LocName).Text()); t != nil {
			return t
		}
	}
	return q.lookup(n.QualifiedName())
}

// memberOf is the type of a field, array length or member type named name in t.
func (q *query) memberOf(t *typesys.Type, name string) *typesys.Type {
	if t == nil {
		return nil
	}
	if t.IsArray() {
		if name == "length" {
			return q.lookup("int")
		}
		return nil
	}
	if f := q.u.LookupField(t, name); f != nil {
		return f.Type
	}
	return q.u.MemberType(t, name)
}

// superOf is the superclass of the enclosing type, or the named interface for X.super.
func (q *query) superOf(n, qualifier syntax.Ref) *typesys.Type {
	if !qualifier.IsNil() {
		if t := q.typeName(qualifier); t != nil && t.IsInterface() {
			return t
		}
	}
	decl := syntax.EnclosingType(n)
	if decl.IsNil() {
		return nil
	}
	if t := q.b.types[decl.ID()]; t != nil {
		return t.Superclass()
	}
	return nil
}

func (q *query) conditionalType(n syntax.Ref) *typesys.Type {
	tt := q.typeOf(n.Child(syntax.LocThenExpression))
	et := q.typeOf(n.Child(syntax.LocElseExpression))
	switch {
	case tt == nil || tt.IsNull():
		return et
	case et == nil || et.IsNull():
		return tt
	case tt.Equals(et):
		return tt
	case (tt.IsPrimitive() || et.IsPrimitive()) && q.u.IsNumericLike(tt) && q.u.IsNumericLike(et):
		return q.u.Promote(tt, et)
	}
	return tt
}

func (q *query) infixType(n syntax.Ref) *typesys.Type {
	op := n.Op()
	switch op {
	case "<", ">", "<=", ">=", "==", "!=", "&&", "||":
		return q.lookup("boolean")
	}
	operands := append([]syntax.Ref{n.Child(syntax.LocLeftOperand), n.Child(syntax.LocRightOperand)},
		n.ChildrenAt(syntax.LocExtendedOperands)...)
	cur := q.typeOf(operands[0])
	for _, next := range operands[1:] {
		cur = q.binaryType(op, cur, q.typeOf(next))
	}
	return cur
}

func (q *query) binaryType(op string, a, b *typesys.Type) *typesys.Type {
	switch op {
	case "+":
		if typesys.IsString(a) || typesys.IsString(b) {
			return q.lookup(typesys.StringName)
		}
	case "<<", ">>", ">>>":
		return q.u.Promote(a, q.lookup("int"))
	case "&", "|", "^":
		if q.u.IsBooleanLike(a) && q.u.IsBooleanLike(b) {
			return q.lookup("boolean")
		}
	}
	if a == nil || b == nil {
		return nil
	}
	return q.u.Promote(a, b)
}

// parameterizedType applies type arguments. Missing or mismatched arguments, including
// the diamond, give the raw type.
func (q *query) parameterizedType(n syntax.Ref) *typesys.Type {
	base := q.typeOf(n.Child(syntax.LocType))
	if base == nil {
		return nil
	}
	decl := base.Declaration()
	if !decl.IsGeneric() {
		return decl
	}
	argNodes := n.ChildrenAt(syntax.LocTypeArguments)
	if len(argNodes) != len(decl.TypeParams) {
		return typesys.Parameterize(decl)
	}
	args := make([]*typesys.Type, len(argNodes))
	for i, a := range argNodes {
		if args[i] = q.typeOf(a); args[i] == nil {
			return typesys.Parameterize(decl)
		}
	}
	return typesys.Parameterize(decl, args...)
}

// variableType is the declared type plus the dimensions written after the name. `var`
// takes the initializer's type.
func (q *query) variableType(decl, typeNode syntax.Ref) *typesys.Type {
	if isVar(typeNode) {
		return q.typeOf(decl.Child(syntax.LocInitializer))
	}
	t := q.typeOf(typeNode)
	if t == nil {
		return nil
	}
	return typesys.ArrayOf(t, decl.Dims())
}

func (q *query) parameterType(decl syntax.Ref) *typesys.Type {
	typeNode := decl.Child(syntax.LocType)
	parent := decl.Parent()
	switch {
	case typeNode.IsNil() && parent.Is(syntax.KindLambdaExpr):
		if m := q.methodOf(parent); m != nil {
			if i := decl.IndexIn(); i < len(m.Params) {
				return m.Params[i]
			}
		}
		return nil
	case isVar(typeNode) && parent.Is(syntax.KindEnhancedForStmt):
		return q.iteratedType(q.typeOf(parent.Child(syntax.LocExpression)))
	}
	t := q.variableType(decl, typeNode)
	if t != nil && decl.Flags().Has(syntax.FlagVarargs) {
		t = typesys.ArrayOf(t, 1)
	}
	return t
}

// iteratedType is the element type a for-each loop over t yields.
func (q *query) iteratedType(t *typesys.Type) *typesys.Type {
	if t == nil {
		return nil
	}
	if t.IsArray() {
		return t.ComponentType()
	}
	for _, m := range q.u.LookupMethods(t, "iterator", 0) {
		if r := m.Return; r.IsParameterized() && len(r.TypeArgs) == 1 {
			arg := r.TypeArgs[0]
			switch {
			case !arg.IsWildcard():
				return arg
			case arg.Upper:
				return arg.Bound
			}
			return q.u.Object()
		}
	}
	return q.u.Object()
}

func (q *query) switchExprType(n syntax.Ref) *typesys.Type {
	var out *typesys.Type
	n.Walk(func(c syntax.Ref) syntax.VisitResult {
		if c == n {
			return syntax.Continue
		}
		switch {
		case c.Is(syntax.KindSwitchExpr, syntax.KindLambdaExpr) || c.Kind().IsTypeDeclaration():
			return syntax.SkipChildren
		case c.Is(syntax.KindYieldStmt):
			out = q.typeOf(c.Child(syntax.LocExpression))
		case c.Loc() == syntax.LocBody && c.Parent().Is(syntax.KindSwitchCase) && !c.Kind().IsStatement():
			out = q.typeOf(c)
		default:
			return syntax.Continue
		}
		if out != nil && !out.IsNull() {
			return syntax.Stop
		}
		return syntax.SkipChildren
	})
	return out
}

// typeName resolves a SimpleName or QualifiedName that denotes a type.
func (q *query) typeName(n syntax.Ref) *typesys.Type {
	switch n.Kind() {
	case syntax.KindSimpleName:
		return q.resolveTypeName(n.Text(), n)
	case syntax.KindQualifiedName, syntax.KindSimpleType, syntax.KindQualifiedType:
		return q.resolveDotted(n.QualifiedName(), n)
	}
	return nil
}

func isVar(typeNode syntax.Ref) bool {
	return typeNode.Is(syntax.KindSimpleType) && typeNode.QualifiedName() == "var"
}

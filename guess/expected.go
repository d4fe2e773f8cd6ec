package guess

import (
	"github.com/panyam/typeguess/syntax"
	"github.com/panyam/typeguess/typesys"
)

// InferExpectedType returns the type the position of n is expected to have, judged only
// by how n's parent uses the slot n occupies. n itself is never resolved: it is usually
// the broken expression a quick fix is about.
func (e *Engine) InferExpectedType(n syntax.Ref) (Result, error) {
	if n.IsNil() {
		return NoInfo, nil
	}
	if err := checkChain(n); err != nil {
		return NoInfo, err
	}
	t := normalize(e.expected(n))
	if t == nil {
		return NoInfo, nil
	}
	e.logger.Debug("expected type", "node", n.String(), "type", t.String())
	return TypeResult(t), nil
}

// expected walks up from n. Wrapper parents (parentheses, member names of accesses)
// rebind the current node and loop; every other parent kind answers directly.
func (e *Engine) expected(n syntax.Ref) *typesys.Type {
	node := n
	for {
		parent := node.Parent()
		if parent.IsNil() {
			return nil
		}
		switch parent.Kind() {
		case syntax.KindParenthesizedExpr, syntax.KindSuperFieldAccess:
			node = parent
			continue
		case syntax.KindFieldAccess, syntax.KindQualifiedName:
			if node.Loc() != syntax.LocName {
				return nil
			}
			node = parent
			continue
		case syntax.KindYieldStmt:
			// a yielded value is the value of the enclosing switch expression
			sw := parent.FindAncestor(syntax.KindSwitchExpr)
			if sw.IsNil() {
				return nil
			}
			node = sw
			continue
		}
		return e.expectedIn(node, parent)
	}
}

// expectedIn answers for node sitting directly in parent.
func (e *Engine) expectedIn(node, parent syntax.Ref) *typesys.Type {
	o := e.oracle
	switch parent.Kind() {
	case syntax.KindAssignment:
		if node.Loc() == syntax.LocLeftHandSide {
			return o.ResolveType(parent.Child(syntax.LocRightHandSide))
		}
		return o.ResolveType(parent.Child(syntax.LocLeftHandSide))

	case syntax.KindInfixExpr:
		return e.infixOperand(node, parent)

	case syntax.KindInstanceOfExpr:
		if node.Loc() == syntax.LocLeftOperand {
			return o.ResolveType(parent.Child(syntax.LocRightOperand))
		}
		return nil

	case syntax.KindVarDeclFragment, syntax.KindSingleVarDecl:
		if node.Loc() == syntax.LocInitializer {
			return o.ResolveType(parent)
		}
		return nil

	case syntax.KindMethodInvocation, syntax.KindSuperMethodInvocation,
		syntax.KindConstructorInvocation, syntax.KindSuperConstructorInvocation,
		syntax.KindClassInstanceCreation, syntax.KindEnumConstantDecl:
		if node.Loc() != syntax.LocArguments {
			return nil
		}
		m := o.ResolveMethod(parent)
		if m == nil {
			return nil
		}
		return parameterType(m, node.IndexIn())

	case syntax.KindArrayAccess:
		if node.Loc() == syntax.LocIndex {
			return e.wellKnown("int")
		}
		elem := normalize(e.expected(parent))
		if elem == nil {
			if elem = e.wellKnown(typesys.ObjectName); elem == nil {
				return nil
			}
		}
		return typesys.ArrayOf(elem, 1)

	case syntax.KindArrayCreation:
		if node.Loc() == syntax.LocDimensions {
			return e.wellKnown("int")
		}
		return nil

	case syntax.KindArrayInitializer:
		return e.arrayInitializerElement(parent)

	case syntax.KindConditionalExpr:
		switch node.Loc() {
		case syntax.LocExpression:
			return e.wellKnown("boolean")
		case syntax.LocElseExpression:
			return o.ResolveType(parent.Child(syntax.LocThenExpression))
		}
		return o.ResolveType(parent.Child(syntax.LocElseExpression))

	case syntax.KindPostfixExpr:
		return e.wellKnown("int")

	case syntax.KindPrefixExpr:
		if parent.Op() == "!" {
			return e.wellKnown("boolean")
		}
		return e.wellKnown("int")

	case syntax.KindIfStmt, syntax.KindWhileStmt, syntax.KindDoStmt, syntax.KindForStmt:
		if node.Loc() == syntax.LocExpression {
			return e.wellKnown("boolean")
		}
		return nil

	case syntax.KindSwitchStmt, syntax.KindSwitchExpr:
		if node.Loc() == syntax.LocExpression {
			return e.wellKnown("int")
		}
		return nil

	case syntax.KindSwitchCase:
		sw := parent.Parent()
		if node.Loc() == syntax.LocExpressions && sw.Is(syntax.KindSwitchStmt, syntax.KindSwitchExpr) {
			return o.ResolveType(sw.Child(syntax.LocExpression))
		}
		return nil

	case syntax.KindReturnStmt:
		return e.returnType(parent)

	case syntax.KindLambdaExpr:
		if node.Loc() == syntax.LocBody && node.Kind() != syntax.KindBlock {
			return lambdaReturn(o, parent)
		}
		return nil

	case syntax.KindCastExpr:
		return o.ResolveType(parent.Child(syntax.LocType))

	case syntax.KindThrowStmt, syntax.KindCatchClause:
		return e.wellKnown(typesys.ExceptionName)

	case syntax.KindAssertStmt:
		if node.Loc() == syntax.LocExpression {
			return e.wellKnown("boolean")
		}
		return e.wellKnown(typesys.StringName)

	case syntax.KindSingleMemberAnnotation:
		if node.Loc() != syntax.LocValue {
			return nil
		}
		if m := e.annotationMember(parent, "value"); m != nil {
			return m.Return
		}
		return nil

	case syntax.KindMemberValuePair:
		if node.Loc() != syntax.LocValue {
			return nil
		}
		if m := e.annotationMember(parent.Parent(), parent.Child(syntax.LocName).Text()); m != nil {
			return m.Return
		}
		return nil

	case syntax.KindAnnotationTypeMemberDecl:
		if node.Loc() == syntax.LocValue {
			return o.ResolveType(parent.Child(syntax.LocType))
		}
		return nil
	}
	return nil
}

// parameterType picks the declared parameter for argument index. Arguments at or past the
// last parameter of a variadic method expect the variadic element type.
func parameterType(m *typesys.Method, index int) *typesys.Type {
	params := m.Params
	if m.Varargs && len(params) > 0 && index >= len(params)-1 {
		return params[len(params)-1].ComponentType()
	}
	if index >= 0 && index < len(params) {
		return params[index]
	}
	return nil
}

// infixOperand expects the other operand's type. Conditional operators force boolean and
// shifts force int. When the other side is unknown, or its type cannot take this operator
// at all, non-equality operators fall back to int.
func (e *Engine) infixOperand(node, parent syntax.Ref) *typesys.Type {
	op := parent.Op()
	switch op {
	case "&&", "||":
		return e.wellKnown("boolean")
	case "<<", ">>", ">>>":
		return e.wellKnown("int")
	}
	var other *typesys.Type
	if node.Loc() == syntax.LocLeftOperand {
		other = e.oracle.ResolveType(parent.Child(syntax.LocRightOperand))
	} else {
		other = e.oracle.ResolveType(parent.Child(syntax.LocLeftOperand))
	}
	if other = normalize(other); other != nil && e.operandFits(op, other) {
		return other
	}
	if op == "==" || op == "!=" {
		return nil
	}
	return e.wellKnown("int")
}

// operandFits reports whether a value of type t may appear as an operand of op.
func (e *Engine) operandFits(op string, t *typesys.Type) bool {
	numeric := typesys.IsNumeric(e.unbox(t))
	switch op {
	case "==", "!=":
		return true
	case "+":
		return numeric || typesys.IsString(t)
	case "&", "|", "^":
		return numeric || e.isBoolean(t)
	}
	return numeric
}

func (e *Engine) unbox(t *typesys.Type) *typesys.Type {
	if t.IsPrimitive() || !t.IsClass() {
		return t
	}
	for _, prim := range typesys.PrimitiveNames {
		if p := e.wellKnown(prim); p != nil {
			if box := e.wellKnown(typesys.BoxName(prim)); box != nil && box.Equals(t) {
				return p
			}
		}
	}
	return t
}

func (e *Engine) isBoolean(t *typesys.Type) bool {
	u := e.unbox(t)
	return u.IsPrimitive() && u.Name == "boolean"
}

// returnType is the declared return type of the enclosing method, or the functional
// return type of the enclosing lambda. Constructors return nothing.
func (e *Engine) returnType(ret syntax.Ref) *typesys.Type {
	if decl := syntax.EnclosingMethod(ret); !decl.IsNil() {
		if decl.Flags().Has(syntax.FlagConstructor) {
			return nil
		}
		if rt := decl.Child(syntax.LocReturnType); !rt.IsNil() {
			if t := e.oracle.ResolveType(rt); t != nil {
				return t
			}
		}
		if m := e.oracle.ResolveMethod(decl); m != nil {
			return m.Return
		}
		return nil
	}
	if lambda := syntax.EnclosingLambda(ret); !lambda.IsNil() {
		return lambdaReturn(e.oracle, lambda)
	}
	return nil
}

func lambdaReturn(o Oracle, lambda syntax.Ref) *typesys.Type {
	if m := o.ResolveMethod(lambda); m != nil {
		return m.Return
	}
	return nil
}

// arrayInitializerElement counts initializer nesting above init and strips that many
// dimensions from the type of whatever the outermost initializer initializes.
func (e *Engine) arrayInitializerElement(init syntax.Ref) *typesys.Type {
	depth := 1
	owner := init.Parent()
	for owner.Is(syntax.KindArrayInitializer) {
		owner = owner.Parent()
		depth++
	}
	var full *typesys.Type
	switch owner.Kind() {
	case syntax.KindArrayCreation:
		full = e.oracle.ResolveType(owner.Child(syntax.LocType))
	case syntax.KindVarDeclFragment, syntax.KindSingleVarDecl:
		full = e.variableType(owner)
	case syntax.KindMemberValuePair:
		if m := e.annotationMember(owner.Parent(), owner.Child(syntax.LocName).Text()); m != nil {
			full = m.Return
		}
	case syntax.KindSingleMemberAnnotation:
		if m := e.annotationMember(owner, "value"); m != nil {
			full = m.Return
		}
	case syntax.KindAnnotationTypeMemberDecl:
		full = e.oracle.ResolveType(owner.Child(syntax.LocType))
	}
	return componentType(full, depth)
}

// variableType is the full type of a declared variable: the declaration's type plus any
// dimensions written after the variable name.
func (e *Engine) variableType(decl syntax.Ref) *typesys.Type {
	if t := e.oracle.ResolveType(decl); t != nil {
		return t
	}
	typeNode := declaredTypeNode(decl)
	if typeNode.IsNil() {
		return nil
	}
	t := e.oracle.ResolveType(typeNode)
	if t == nil || t.IsVoid() {
		return nil
	}
	return typesys.ArrayOf(t, decl.Dims())
}

// componentType strips depth array dimensions, or returns nil if t has fewer.
func componentType(t *typesys.Type, depth int) *typesys.Type {
	for i := 0; i < depth; i++ {
		if !t.IsArray() {
			return nil
		}
		t = t.ComponentType()
	}
	return t
}

// annotationMember finds the member of an annotation's type named name.
func (e *Engine) annotationMember(annotation syntax.Ref, name string) *typesys.Method {
	if !annotation.Kind().IsAnnotation() || name == "" {
		return nil
	}
	at := e.oracle.ResolveType(annotation.Child(syntax.LocTypeName))
	if at == nil || !at.IsAnnotation() {
		return nil
	}
	m, err := e.oracle.FindMethod(at, name, 0)
	if err != nil {
		e.logger.Debug("annotation member lookup failed", "annotation", at.String(), "member", name, "err", err)
		return nil
	}
	return m
}

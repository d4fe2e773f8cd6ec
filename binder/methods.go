package binder

import (
	"strconv"

	"github.com/panyam/typeguess/syntax"
	"github.com/panyam/typeguess/typesys"
)

// methodOf is the method n calls, declares or implements.
func (q *query) methodOf(n syntax.Ref) *typesys.Method {
	if n.IsNil() || q.depth >= maxDepth {
		return nil
	}
	q.depth++
	defer func() { q.depth-- }()

	b := q.b
	args := n.ChildrenAt(syntax.LocArguments)
	switch n.Kind() {
	case syntax.KindMethodDecl, syntax.KindAnnotationTypeMemberDecl:
		return b.methods[n.ID()]

	case syntax.KindMethodInvocation:
		name := n.Child(syntax.LocName).Text()
		if recv := n.Child(syntax.LocExpression); !recv.IsNil() {
			rt := q.typeOf(recv)
			if rt == nil || rt.IsRecovered() {
				return nil
			}
			return q.pick(q.u.LookupMethods(rt, name, len(args)), args)
		}
		// unqualified: the innermost enclosing type that has a candidate wins
		for decl := syntax.EnclosingType(n); !decl.IsNil(); decl = syntax.EnclosingType(decl) {
			if cands := q.u.LookupMethods(b.types[decl.ID()], name, len(args)); len(cands) > 0 {
				return q.pick(cands, args)
			}
		}
		return nil

	case syntax.KindSuperMethodInvocation:
		sup := q.superOf(n, n.Child(syntax.LocQualifier))
		if sup == nil {
			return nil
		}
		return q.pick(q.u.LookupMethods(sup, n.Child(syntax.LocName).Text(), len(args)), args)

	case syntax.KindConstructorInvocation:
		if decl := syntax.EnclosingType(n); !decl.IsNil() {
			return q.constructor(b.types[decl.ID()], args)
		}
		return nil

	case syntax.KindSuperConstructorInvocation:
		return q.constructor(q.superOf(n, syntax.Ref{}), args)

	case syntax.KindClassInstanceCreation:
		t := q.typeOf(n.Child(syntax.LocType))
		if t.IsInterface() && len(args) == 0 && !n.Child(syntax.LocAnonymousClass).IsNil() {
			// an anonymous implementation only has its implicit constructor
			return &typesys.Method{Name: t.SimpleName(), DeclaringType: t, Constructor: true}
		}
		return q.constructor(t, args)

	case syntax.KindEnumConstantDecl:
		return q.constructor(b.types[n.Parent().ID()], args)

	case syntax.KindLambdaExpr, syntax.KindMethodRef:
		return q.functionalMethod(q.targetType(n))
	}
	return nil
}

// constructor picks among the constructors t declares. Types without any declared
// constructor get the implicit no-argument one.
func (q *query) constructor(t *typesys.Type, args []syntax.Ref) *typesys.Method {
	if t == nil || !t.IsDeclared() {
		return nil
	}
	var cands []*typesys.Method
	declared := false
	for _, m := range t.DeclaredMethods() {
		if !m.Constructor {
			continue
		}
		declared = true
		if m.Accepts(len(args)) {
			cands = append(cands, m)
		}
	}
	if !declared && len(args) == 0 && (t.IsClass() || t.IsEnum()) {
		return &typesys.Method{Name: t.SimpleName(), DeclaringType: t, Constructor: true}
	}
	return q.pick(cands, args)
}

// pick chooses the candidate the arguments fit best: a fixed-arity match, then a variadic
// one, then simply the first candidate. Candidates arrive nearest declaration first, so
// overrides win over what they override.
func (q *query) pick(cands []*typesys.Method, args []syntax.Ref) *typesys.Method {
	switch len(cands) {
	case 0:
		return nil
	case 1:
		return cands[0]
	}
	argTypes := q.argTypes(args)
	var variadic *typesys.Method
	for _, m := range cands {
		if !q.applicable(m, argTypes) {
			continue
		}
		if !m.Varargs || len(m.Params) == len(args) {
			return m
		}
		if variadic == nil {
			variadic = m
		}
	}
	if variadic != nil {
		return variadic
	}
	return cands[0]
}

// argTypes types the arguments of a call. Lambdas and method references take their type
// from the very call being resolved, so they count as unknown.
func (q *query) argTypes(args []syntax.Ref) []*typesys.Type {
	out := make([]*typesys.Type, len(args))
	for i, a := range args {
		inner := a
		for inner.Is(syntax.KindParenthesizedExpr) {
			inner = inner.Child(syntax.LocExpression)
		}
		if !inner.Is(syntax.KindLambdaExpr, syntax.KindMethodRef) {
			out[i] = q.typeOf(a)
		}
	}
	return out
}

func (q *query) applicable(m *typesys.Method, argTypes []*typesys.Type) bool {
	for i, at := range argTypes {
		p := paramAt(m, i, len(argTypes))
		if p == nil {
			return false
		}
		if at == nil || mentionsTypeVar(p) {
			continue
		}
		if !q.u.IsAssignable(at, p) {
			return false
		}
	}
	return true
}

// paramAt is the parameter argument i binds to. A variadic method called with exactly
// as many arguments as parameters may receive the array itself.
func paramAt(m *typesys.Method, i, argCount int) *typesys.Type {
	n := len(m.Params)
	if m.Varargs && n > 0 && i >= n-1 && argCount != n {
		return m.Params[n-1].ComponentType()
	}
	if i < n {
		return m.Params[i]
	}
	return nil
}

func mentionsTypeVar(t *typesys.Type) bool {
	switch {
	case t == nil:
		return false
	case t.IsTypeVariable():
		return true
	case t.IsArray():
		return mentionsTypeVar(t.ElementType())
	case t.IsWildcard():
		return mentionsTypeVar(t.Bound)
	case t.IsParameterized():
		for _, a := range t.TypeArgs {
			if mentionsTypeVar(a) {
				return true
			}
		}
	}
	return false
}

// inferTypeArgs binds the method's own type variables from the argument types, matching
// them structurally against the parameters. Unbound variables stay as they are.
func (q *query) inferTypeArgs(m *typesys.Method, args []syntax.Ref) map[*typesys.Type]*typesys.Type {
	if len(m.TypeParams) == 0 {
		return nil
	}
	own := map[*typesys.Type]bool{}
	for _, tv := range m.TypeParams {
		own[tv] = true
	}
	mapping := map[*typesys.Type]*typesys.Type{}
	var bind func(p, a *typesys.Type)
	bind = func(p, a *typesys.Type) {
		if p == nil || a == nil || a.IsNull() || a.IsRecovered() {
			return
		}
		switch {
		case p.IsTypeVariable():
			if own[p] && mapping[p] == nil {
				mapping[p] = q.u.Box(a)
			}
		case p.IsArray():
			if a.IsArray() {
				bind(p.ComponentType(), a.ComponentType())
			}
		case p.IsWildcard():
			bind(p.Bound, a)
		case p.IsParameterized():
			if a.IsParameterized() && a.Declaration() == p.Declaration() {
				for i := range p.TypeArgs {
					bind(p.TypeArgs[i], a.TypeArgs[i])
				}
			}
		}
	}
	for i, at := range q.argTypes(args) {
		bind(paramAt(m, i, len(args)), at)
	}
	return mapping
}

// targetType is the type the context of a lambda or method reference asks for.
func (q *query) targetType(n syntax.Ref) *typesys.Type {
	node, parent := n, n.Parent()
	for parent.Is(syntax.KindParenthesizedExpr) {
		node, parent = parent, parent.Parent()
	}
	switch parent.Kind() {
	case syntax.KindVarDeclFragment, syntax.KindSingleVarDecl:
		if node.Loc() == syntax.LocInitializer {
			return q.typeOf(parent)
		}
	case syntax.KindAssignment:
		if node.Loc() == syntax.LocRightHandSide {
			return q.typeOf(parent.Child(syntax.LocLeftHandSide))
		}
	case syntax.KindCastExpr:
		return q.typeOf(parent.Child(syntax.LocType))
	case syntax.KindConditionalExpr:
		if node.Loc() != syntax.LocExpression {
			return q.targetType(parent)
		}
	case syntax.KindReturnStmt:
		if decl := syntax.EnclosingMethod(parent); !decl.IsNil() {
			if m := q.b.methods[decl.ID()]; m != nil {
				return m.Return
			}
		}
		if lambda := syntax.EnclosingLambda(parent); !lambda.IsNil() {
			if m := q.methodOf(lambda); m != nil {
				return m.Return
			}
		}
	case syntax.KindLambdaExpr:
		if node.Loc() == syntax.LocBody {
			if m := q.methodOf(parent); m != nil {
				return m.Return
			}
		}
	case syntax.KindMethodInvocation, syntax.KindSuperMethodInvocation, syntax.KindClassInstanceCreation,
		syntax.KindConstructorInvocation, syntax.KindSuperConstructorInvocation, syntax.KindEnumConstantDecl:
		if node.Loc() == syntax.LocArguments {
			if m := q.methodOf(parent); m != nil {
				return paramAt(m, node.IndexIn(), len(parent.ChildrenAt(syntax.LocArguments)))
			}
		}
	}
	return nil
}

// functionalMethod is the single abstract method of a functional interface. Abstract
// redeclarations of Object's public methods do not count.
func (q *query) functionalMethod(t *typesys.Type) *typesys.Method {
	if !t.IsInterface() {
		return nil
	}
	var found *typesys.Method
	seenSig := map[string]bool{}
	seen := map[string]bool{}
	var visit func(cur *typesys.Type) bool
	visit = func(cur *typesys.Type) bool {
		if cur == nil || seen[cur.Key()] {
			return true
		}
		seen[cur.Key()] = true
		for _, m := range cur.DeclaredMethods() {
			if !m.Abstract || m.Static {
				continue
			}
			if om, _ := q.u.FindMethod(q.u.Object(), m.Name, m.Arity()); om != nil {
				continue
			}
			sig := m.Name + "/" + strconv.Itoa(m.Arity())
			if seenSig[sig] {
				continue
			}
			seenSig[sig] = true
			if found != nil {
				return false
			}
			found = m
		}
		for _, i := range cur.SuperInterfaces() {
			if !visit(i) {
				return false
			}
		}
		return true
	}
	if !visit(t) {
		return nil
	}
	return found
}

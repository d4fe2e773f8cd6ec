package binder

import (
	"strings"

	"github.com/panyam/typeguess/syntax"
	"github.com/panyam/typeguess/typesys"
)

// binding is what a variable name stands for: a declaration in the tree, or a field whose
// type is already known (inherited and library fields have no declaration node here).
type binding struct {
	decl syntax.Ref
	typ  *typesys.Type
}

// variable resolves name as a variable visible at n.
func (q *query) variable(name string, n syntax.Ref) *typesys.Type {
	bd, ok := q.envAt(n).Get(name)
	if !ok {
		return nil
	}
	if bd.typ != nil {
		return bd.typ
	}
	return q.typeOf(bd.decl)
}

// envAt builds the scope chain at n, outermost scope first, so that inner declarations
// shadow outer ones.
func (q *query) envAt(n syntax.Ref) *Env[binding] {
	path := n.Ancestors()
	env := NewEnv[binding](nil)
	for i := len(path) - 1; i >= 0; i-- {
		child := n
		if i > 0 {
			child = path[i-1]
		}
		env = q.scopeOf(path[i], child, env)
	}
	return env
}

// scopeOf pushes the names that scope declares and that are visible from child.
func (q *query) scopeOf(scope, child syntax.Ref, env *Env[binding]) *Env[binding] {
	switch scope.Kind() {
	case syntax.KindTypeDecl, syntax.KindEnumDecl, syntax.KindAnnotationTypeDecl, syntax.KindAnonymousClassDecl:
		t := q.b.types[scope.ID()]
		if t == nil {
			return env
		}
		e := env.Push()
		q.addFields(e, t, map[string]bool{})
		return e

	case syntax.KindMethodDecl, syntax.KindLambdaExpr:
		e := env.Push()
		for _, p := range scope.ChildrenAt(syntax.LocParameters) {
			addDecl(e, p)
		}
		return e

	case syntax.KindBlock, syntax.KindSwitchStmt, syntax.KindSwitchExpr:
		return addLocalsBefore(env, scope.ChildrenAt(syntax.LocStatements), child)

	case syntax.KindSwitchCase:
		if child.Loc() == syntax.LocBody {
			return addLocalsBefore(env, scope.ChildrenAt(syntax.LocBody), child)
		}

	case syntax.KindForStmt:
		return addLocalsBefore(env, scope.ChildrenAt(syntax.LocInitializers), child)

	case syntax.KindTryStmt:
		return addLocalsBefore(env, scope.ChildrenAt(syntax.LocResources), child)

	case syntax.KindEnhancedForStmt:
		if child.Loc() == syntax.LocBody {
			e := env.Push()
			addDecl(e, scope.Child(syntax.LocParameter))
			return e
		}

	case syntax.KindCatchClause:
		if child.Loc() == syntax.LocBody {
			e := env.Push()
			addDecl(e, scope.Child(syntax.LocException))
			return e
		}
	}
	return env
}

// addLocalsBefore binds the variables declared by the siblings preceding child. When
// child is not one of them every sibling counts.
func addLocalsBefore(env *Env[binding], siblings []syntax.Ref, child syntax.Ref) *Env[binding] {
	e := env.Push()
	for _, s := range siblings {
		if s == child {
			break
		}
		switch s.Kind() {
		case syntax.KindVarDeclStmt, syntax.KindVarDeclExpr:
			for _, frag := range s.ChildrenAt(syntax.LocFragments) {
				addDecl(e, frag)
			}
		case syntax.KindSingleVarDecl:
			addDecl(e, s)
		}
	}
	return e
}

func addDecl(e *Env[binding], decl syntax.Ref) {
	switch decl.Kind() {
	case syntax.KindSingleVarDecl, syntax.KindVarDeclFragment:
		if name := decl.Child(syntax.LocName).Text(); name != "" {
			e.Set(name, binding{decl: decl})
		}
	}
}

// addFields binds the fields of t and of its supertypes, nearest declaration first.
func (q *query) addFields(e *Env[binding], t *typesys.Type, seen map[string]bool) {
	if t == nil || seen[t.Key()] {
		return
	}
	seen[t.Key()] = true
	for _, f := range t.DeclaredFields() {
		e.SetIfAbsent(f.Name, binding{typ: f.Type})
	}
	q.addFields(e, t.Superclass(), seen)
	for _, i := range t.SuperInterfaces() {
		q.addFields(e, i, seen)
	}
}

// resolveTypeName finds the type a simple name denotes at n: type variables and member
// types of the enclosing declarations and local classes first, then the universe.
func (q *query) resolveTypeName(name string, n syntax.Ref) *typesys.Type {
	if strings.Contains(name, ".") {
		return q.resolveDotted(name, n)
	}
	b := q.b
	for cur := n.Parent(); !cur.IsNil(); cur = cur.Parent() {
		switch cur.Kind() {
		case syntax.KindMethodDecl:
			for _, tp := range cur.ChildrenAt(syntax.LocTypeParameters) {
				if tp.Child(syntax.LocName).Text() == name {
					return b.typeVars[tp.ID()]
				}
			}
		case syntax.KindTypeDecl, syntax.KindEnumDecl, syntax.KindAnnotationTypeDecl, syntax.KindAnonymousClassDecl:
			t := b.types[cur.ID()]
			if t == nil {
				continue
			}
			for _, tv := range t.TypeParams {
				if tv.Name == name {
					return tv
				}
			}
			if !t.Anonymous && t.SimpleName() == name {
				return t
			}
			if mt := q.inheritedMemberType(t, name, map[string]bool{}); mt != nil {
				return mt
			}
		case syntax.KindBlock:
			for _, s := range cur.ChildrenAt(syntax.LocStatements) {
				if s.Kind().IsTypeDeclaration() && s.Child(syntax.LocName).Text() == name {
					return b.types[s.ID()]
				}
			}
		}
	}
	if t := q.u.Lookup(name); t != nil {
		return t
	}
	return q.u.LookupSimple(name)
}

func (q *query) inheritedMemberType(t *typesys.Type, name string, seen map[string]bool) *typesys.Type {
	if t == nil || seen[t.Key()] {
		return nil
	}
	seen[t.Key()] = true
	if mt := q.u.MemberType(t, name); mt != nil {
		return mt
	}
	if mt := q.inheritedMemberType(t.Superclass(), name, seen); mt != nil {
		return mt
	}
	for _, i := range t.SuperInterfaces() {
		if mt := q.inheritedMemberType(i, name, seen); mt != nil {
			return mt
		}
	}
	return nil
}

// resolveDotted resolves a qualified type name, either fully qualified or starting at a
// type visible from n.
func (q *query) resolveDotted(name string, n syntax.Ref) *typesys.Type {
	if t := q.u.Lookup(name); t != nil {
		return t
	}
	first, rest, found := strings.Cut(name, ".")
	if !found {
		return q.resolveTypeName(name, n)
	}
	t := q.resolveTypeName(first, n)
	for _, seg := range strings.Split(rest, ".") {
		if t == nil {
			return nil
		}
		t = q.u.MemberType(t, seg)
	}
	return t
}

// annotationMember finds the member called name of the annotation's type.
func (q *query) annotationMember(annotation syntax.Ref, name string) *typesys.Method {
	if !annotation.Kind().IsAnnotation() {
		return nil
	}
	at := q.typeName(annotation.Child(syntax.LocTypeName))
	if !at.IsAnnotation() {
		return nil
	}
	m, _ := q.u.FindMethod(at, name, 0)
	return m
}

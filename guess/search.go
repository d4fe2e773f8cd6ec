package guess

import (
	"context"

	"github.com/panyam/typeguess/syntax"
	"github.com/panyam/typeguess/typesys"
)

// FindTypesDeclaringMember lists the types, reachable from names under root, that declare a
// method called name taking argCount arguments. If Object itself declares such a method
// the answer is just Object. Types that cannot be used from scope are left out unless
// scope is zero.
//
// Cancelling ctx stops the walk; the types collected up to that point are returned with
// ctx's error. A failed member lookup on one candidate only skips that candidate.
func (e *Engine) FindTypesDeclaringMember(ctx context.Context, root syntax.Ref, name string, argCount int, scope Context) ([]*typesys.Type, error) {
	if err := checkChain(root); err != nil {
		return nil, err
	}
	if object := e.wellKnown(typesys.ObjectName); object != nil {
		m, err := e.oracle.FindMethod(object, name, argCount)
		if err != nil {
			e.logger.Debug("member lookup failed", "type", object.String(), "member", name, "err", err)
		} else if m != nil {
			return []*typesys.Type{object}, nil
		}
	}

	var found []*typesys.Type
	visited := map[string]bool{}
	visitType := func(t *typesys.Type) syntax.VisitResult {
		if ctx.Err() != nil {
			return syntax.Stop
		}
		t = normalize(t)
		if t == nil {
			return syntax.Continue
		}
		key := t.Key()
		if visited[key] {
			return syntax.SkipChildren
		}
		visited[key] = true
		if t.IsGeneric() {
			return syntax.Continue
		}
		if !scope.IsZero() && !isUsable(t, scope, false) {
			return syntax.Continue
		}
		m, err := e.oracle.FindMethod(t, name, argCount)
		if err != nil {
			e.logger.Debug("member lookup failed", "type", t.String(), "member", name, "err", err)
			return syntax.Continue
		}
		if m != nil {
			found = append(found, t)
		}
		return syntax.Continue
	}

	root.Walk(func(n syntax.Ref) syntax.VisitResult {
		if ctx.Err() != nil {
			return syntax.Stop
		}
		if n.Kind() != syntax.KindSimpleName {
			return syntax.Continue
		}
		t := e.oracle.ResolveType(n)
		if t == nil {
			return syntax.Continue
		}
		if !visitHierarchy(t, e.wellKnown(typesys.ObjectName), visitType) {
			return syntax.Stop
		}
		return syntax.Continue
	})
	return found, ctx.Err()
}

// visitHierarchy calls visit on t and then on every supertype, depth first. SkipChildren
// leaves a type's supertypes out; Stop ends the walk and makes it return false.
func visitHierarchy(t, object *typesys.Type, visit func(*typesys.Type) syntax.VisitResult) bool {
	if t == nil {
		return true
	}
	switch visit(t) {
	case syntax.Stop:
		return false
	case syntax.SkipChildren:
		return true
	}
	if t.IsArray() {
		return visitHierarchy(t.ElementType(), object, visit)
	}
	if !t.IsDeclared() && !t.IsTypeVariable() {
		return true
	}
	interfaces, super := directSupertypes(t, object)
	if super != nil && !visitHierarchy(super, object, visit) {
		return false
	}
	for _, i := range interfaces {
		if !visitHierarchy(i, object, visit) {
			return false
		}
	}
	return true
}

package guess

import (
	"github.com/panyam/typeguess/typesys"
)

// Context is the declaration a type would be used from: a method, or a type when the use
// is outside any method. Method wins when both are set.
type Context struct {
	Type   *typesys.Type
	Method *typesys.Method
}

// IsZero reports an empty context, which places no restriction.
func (c Context) IsZero() bool { return c.Type == nil && c.Method == nil }

// IsUsableInContext reports whether t can be written from scope. Anonymous types can never
// be named, and a type variable is visible only from its declaring method or type and from
// what they lexically enclose without crossing a static method or type.
func (e *Engine) IsUsableInContext(t *typesys.Type, scope Context, noWildcards bool) bool {
	return isUsable(t, scope, noWildcards)
}

func isUsable(t *typesys.Type, scope Context, noWildcards bool) bool {
	if t == nil {
		return false
	}
	if t.IsArray() {
		t = t.ElementType()
	}
	switch {
	case t.Anonymous:
		return false
	case t.IsRaw(), t.IsPrimitive():
		return true
	case t.IsTypeVariable():
		return isVariableVisible(t, scope)
	case t.IsGeneric():
		for _, p := range t.TypeParams {
			if !isUsable(p, scope, noWildcards) {
				return false
			}
		}
		return true
	case t.IsParameterized():
		for _, a := range t.TypeArgs {
			if !isUsable(a, scope, noWildcards) {
				return false
			}
		}
		return true
	case t.IsWildcard():
		if noWildcards {
			return false
		}
		if t.Bound != nil {
			return isUsable(t.Bound, scope, noWildcards)
		}
	}
	return true
}

// isVariableVisible walks outward from the context, from a method to the type declaring
// it and from a local or anonymous type to the method whose body declares it, until it
// meets the variable's declaration. A static method or type ends the walk since neither
// has an enclosing instance.
func isVariableVisible(tv *typesys.Type, scope Context) bool {
	cur, m := scope.Type, scope.Method
	seen := map[*typesys.Type]bool{}
	for {
		if m != nil {
			if tv.DeclaringMethod != nil && (tv.DeclaringMethod == m || tv.DeclaringMethod.Key() == m.Key()) {
				return true
			}
			if m.Static {
				return false
			}
			cur, m = m.DeclaringType, nil
		}
		if cur == nil {
			return false
		}
		decl := cur.Declaration()
		if tv.DeclaringType != nil && decl == tv.DeclaringType.Declaration() {
			return true
		}
		if decl.Static || seen[decl] {
			return false
		}
		seen[decl] = true
		if decl.EnclosingMethod != nil {
			m = decl.EnclosingMethod
		} else {
			cur = decl.Outer
		}
	}
}

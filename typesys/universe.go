package typesys

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownType is returned when a type name or declaration cannot be found.
var ErrUnknownType = errors.New("unknown type")

// Well-known qualified names the engine and binder look up.
const (
	ObjectName       = "java.lang.Object"
	StringName       = "java.lang.String"
	ThrowableName    = "java.lang.Throwable"
	ExceptionName    = "java.lang.Exception"
	SerializableName = "java.io.Serializable"
	CloneableName    = "java.lang.Cloneable"
	EnumName         = "java.lang.Enum"
	AnnotationName   = "java.lang.annotation.Annotation"
)

// Universe is the registry of every type the oracle knows about: the primitives, the null
// and void pseudo types and all declared types keyed by qualified name.
type Universe struct {
	prims    map[string]*Type
	types    map[string]*Type
	bySimple map[string][]*Type
	order    []*Type
	parent   *Universe
}

// NewUniverse returns a universe holding only primitives, void and null.
func NewUniverse() *Universe {
	u := &Universe{
		prims:    map[string]*Type{},
		types:    map[string]*Type{},
		bySimple: map[string][]*Type{},
	}
	for _, name := range PrimitiveNames {
		u.prims[name] = PrimitiveType(name)
	}
	u.prims["void"] = Void
	u.prims["null"] = Null
	return u
}

// Extend returns a child universe that sees every type of u and declares its own on top,
// leaving u untouched. Binders use it for the types a source tree declares.
func (u *Universe) Extend() *Universe {
	child := NewUniverse()
	child.prims = u.prims
	child.parent = u
	return child
}

// Lookup finds a primitive, "void", "null" or a declared type by qualified name.
func (u *Universe) Lookup(name string) *Type {
	if t, ok := u.prims[name]; ok {
		return t
	}
	return u.declared(name)
}

func (u *Universe) declared(name string) *Type {
	for cur := u; cur != nil; cur = cur.parent {
		if t, ok := cur.types[name]; ok {
			return t
		}
	}
	return nil
}

// LookupSimple finds a declared type by simple name. Types in java.lang win ties, then
// the earliest declared.
func (u *Universe) LookupSimple(name string) *Type {
	if t := u.Lookup(name); t != nil {
		return t
	}
	for cur := u; cur != nil; cur = cur.parent {
		cands := cur.bySimple[name]
		if len(cands) == 0 {
			continue
		}
		for _, c := range cands {
			if c.Name == "java.lang."+name {
				return c
			}
		}
		return cands[0]
	}
	return nil
}

// Resolve looks a name up first as a qualified name and then as a simple one.
func (u *Universe) Resolve(name string) *Type {
	if t := u.Lookup(name); t != nil {
		return t
	}
	if !strings.Contains(name, ".") {
		return u.LookupSimple(name)
	}
	return nil
}

// Declare registers a declared type. Anonymous types are never registered.
func (u *Universe) Declare(t *Type) error {
	if !t.IsDeclared() {
		return fmt.Errorf("cannot declare %s type %q", t.Tag, t.Name)
	}
	if t.Anonymous {
		return fmt.Errorf("cannot declare anonymous type %q", t.Name)
	}
	if u.declared(t.Name) != nil {
		return fmt.Errorf("type %q already declared", t.Name)
	}
	u.types[t.Name] = t
	simple := t.SimpleName()
	u.bySimple[simple] = append(u.bySimple[simple], t)
	u.order = append(u.order, t)
	return nil
}

// Types returns the declared types in declaration order, inherited ones first.
func (u *Universe) Types() []*Type {
	if u.parent == nil {
		return u.order
	}
	return append(append([]*Type{}, u.parent.Types()...), u.order...)
}

// TypeNames returns the sorted qualified names of all declared types.
func (u *Universe) TypeNames() []string {
	var out []string
	for _, t := range u.Types() {
		out = append(out, t.Name)
	}
	sort.Strings(out)
	return out
}

// Object returns java.lang.Object, or nil if the universe does not declare it.
func (u *Universe) Object() *Type { return u.declared(ObjectName) }

// FindMethod returns the method of t's own declaration named name that accepts exactly
// arity parameters. It does not search supertypes. A nil method with a nil error means t
// simply has no such method.
func (u *Universe) FindMethod(t *Type, name string, arity int) (*Method, error) {
	if t == nil || t.IsRecovered() {
		return nil, fmt.Errorf("find %s/%d: %w", name, arity, ErrUnknownType)
	}
	if !t.IsDeclared() {
		return nil, nil
	}
	for _, m := range t.DeclaredMethods() {
		if m.Name == name && len(m.Params) == arity {
			return m, nil
		}
	}
	return nil, nil
}

// LookupMethods collects the methods named name that accept argCount arguments, from t
// and then its supertypes. Overridden signatures found lower in the hierarchy hide the
// ones above them.
func (u *Universe) LookupMethods(t *Type, name string, argCount int) []*Method {
	var out []*Method
	seen := map[string]bool{}
	sigs := map[string]bool{}
	var visit func(cur *Type)
	visit = func(cur *Type) {
		if cur == nil || seen[cur.Key()] {
			return
		}
		seen[cur.Key()] = true
		for _, m := range cur.DeclaredMethods() {
			if m.Name != name || !m.Accepts(argCount) {
				continue
			}
			sig := m.signature()
			if sigs[sig] {
				continue
			}
			sigs[sig] = true
			out = append(out, m)
		}
		if sup := cur.Superclass(); sup != nil {
			visit(sup)
		}
		for _, i := range cur.SuperInterfaces() {
			visit(i)
		}
		if cur.IsInterface() {
			visit(u.Object())
		}
	}
	switch {
	case t.IsTypeVariable():
		if len(t.Bounds) == 0 {
			visit(u.Object())
		}
		for _, b := range t.Bounds {
			visit(b)
		}
	case t.IsArray():
		visit(u.Object())
	default:
		visit(t)
	}
	return out
}

// LookupField finds a field by name on t or its supertypes.
func (u *Universe) LookupField(t *Type, name string) *Field {
	seen := map[string]bool{}
	var visit func(cur *Type) *Field
	visit = func(cur *Type) *Field {
		if cur == nil || seen[cur.Key()] {
			return nil
		}
		seen[cur.Key()] = true
		for _, f := range cur.DeclaredFields() {
			if f.Name == name {
				return f
			}
		}
		if f := visit(cur.Superclass()); f != nil {
			return f
		}
		for _, i := range cur.SuperInterfaces() {
			if f := visit(i); f != nil {
				return f
			}
		}
		return nil
	}
	if t.IsTypeVariable() {
		for _, b := range t.Bounds {
			if f := visit(b); f != nil {
				return f
			}
		}
		return nil
	}
	return visit(t)
}

// MemberType finds a nested type declaration named name inside t.
func (u *Universe) MemberType(t *Type, name string) *Type {
	if t == nil {
		return nil
	}
	return u.declared(t.Declaration().Name + "." + name)
}

func (m *Method) signature() string {
	var sb strings.Builder
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteByte(',')
		}
		if e := Erasure(p); e != nil {
			sb.WriteString(e.Key())
		} else {
			sb.WriteString(ObjectName)
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

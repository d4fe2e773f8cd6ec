package typesys

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

type TypeTag int

const (
	// TypeTagUnknown marks a recovered binding: something was referenced but could not
	// be resolved.
	TypeTagUnknown TypeTag = iota
	TypeTagNull
	TypeTagVoid
	TypeTagPrimitive
	TypeTagClass
	TypeTagInterface
	TypeTagEnum
	TypeTagAnnotation
	TypeTagArray
	TypeTagTypeVar
	TypeTagWildcard
)

var typeTagNames = map[TypeTag]string{
	TypeTagUnknown:    "unknown",
	TypeTagNull:       "null",
	TypeTagVoid:       "void",
	TypeTagPrimitive:  "primitive",
	TypeTagClass:      "class",
	TypeTagInterface:  "interface",
	TypeTagEnum:       "enum",
	TypeTagAnnotation: "annotation",
	TypeTagArray:      "array",
	TypeTagTypeVar:    "typevar",
	TypeTagWildcard:   "wildcard",
}

func (t TypeTag) String() string {
	if s, ok := typeTagNames[t]; ok {
		return s
	}
	return fmt.Sprintf("invalid(%d)", int(t))
}

// ParseTypeTag maps a declaration kind name ("class", "interface", ...) to its tag.
func ParseTypeTag(s string) (TypeTag, error) {
	for k, v := range typeTagNames {
		if v == s {
			return k, nil
		}
	}
	return TypeTagUnknown, fmt.Errorf("unknown type kind %q", s)
}

// Type is a resolved type. Which fields are meaningful depends on Tag:
//
//   - declared types (class, interface, enum, annotation) use Name, Super, Interfaces,
//     TypeParams, Methods, Fields, Outer, Static and Anonymous;
//   - parameterized and raw types point at their declaration through Generic and carry
//     TypeArgs (nil for raw types);
//   - arrays use Elem, the component type one dimension down;
//   - type variables use Name, Bounds and exactly one of DeclaringType/DeclaringMethod;
//   - wildcards use Bound and Upper ("? extends" when Upper).
type Type struct {
	Tag  TypeTag
	Name string

	Super      *Type
	Interfaces []*Type
	TypeParams []*Type
	Methods    []*Method
	Fields     []*Field
	Outer      *Type
	Static     bool
	Anonymous  bool

	Generic  *Type
	TypeArgs []*Type
	Raw      bool

	Elem *Type

	Bounds          []*Type
	DeclaringType   *Type
	DeclaringMethod *Method

	// EnclosingMethod is the method whose body declares a local or anonymous class.
	EnclosingMethod *Method

	Bound *Type
	Upper bool
}

// --- Factory Functions ---

var (
	Unknown = &Type{Tag: TypeTagUnknown, Name: "<unknown>"}
	Null    = &Type{Tag: TypeTagNull, Name: "null"}
	Void    = &Type{Tag: TypeTagVoid, Name: "void"}
)

// PrimitiveNames lists the primitive keywords.
var PrimitiveNames = []string{"boolean", "byte", "char", "short", "int", "long", "float", "double"}

func PrimitiveType(name string) *Type {
	return &Type{Tag: TypeTagPrimitive, Name: name}
}

// DeclaredType creates an empty declaration of the given kind.
func DeclaredType(tag TypeTag, name string) *Type {
	return &Type{Tag: tag, Name: name}
}

// ArrayOf wraps elem in dims array dimensions.
func ArrayOf(elem *Type, dims int) *Type {
	if elem == nil {
		panic("array element type cannot be nil")
	}
	out := elem
	for i := 0; i < dims; i++ {
		out = &Type{Tag: TypeTagArray, Elem: out}
	}
	return out
}

// Parameterize instantiates a generic declaration with type arguments. With no arguments
// the result is the raw type.
func Parameterize(generic *Type, args ...*Type) *Type {
	if generic == nil {
		panic("generic declaration cannot be nil")
	}
	decl := generic.Declaration()
	return &Type{
		Tag:      decl.Tag,
		Name:     decl.Name,
		Generic:  decl,
		TypeArgs: args,
		Raw:      len(args) == 0,
	}
}

// TypeVar creates a type variable owned by a type declaration.
func TypeVar(name string, owner *Type, bounds ...*Type) *Type {
	return &Type{Tag: TypeTagTypeVar, Name: name, DeclaringType: owner, Bounds: bounds}
}

// BoundReaches reports whether following type-variable bounds from bound leads back to tv,
// as in "T extends U, U extends T". Such a bound must not be recorded.
func BoundReaches(bound, tv *Type) bool {
	seen := map[*Type]bool{}
	var reach func(t *Type) bool
	reach = func(t *Type) bool {
		if t == tv {
			return true
		}
		if !t.IsTypeVariable() || seen[t] {
			return false
		}
		seen[t] = true
		for _, b := range t.Bounds {
			if reach(b) {
				return true
			}
		}
		return false
	}
	return reach(bound)
}

// WildcardOf creates "?", "? extends bound" or "? super bound".
func WildcardOf(bound *Type, upper bool) *Type {
	return &Type{Tag: TypeTagWildcard, Bound: bound, Upper: upper && bound != nil}
}

// --- Predicates ---

func (t *Type) IsPrimitive() bool  { return t != nil && t.Tag == TypeTagPrimitive }
func (t *Type) IsArray() bool      { return t != nil && t.Tag == TypeTagArray }
func (t *Type) IsNull() bool       { return t != nil && t.Tag == TypeTagNull }
func (t *Type) IsVoid() bool       { return t != nil && t.Tag == TypeTagVoid }
func (t *Type) IsRecovered() bool  { return t != nil && t.Tag == TypeTagUnknown }
func (t *Type) IsTypeVariable() bool { return t != nil && t.Tag == TypeTagTypeVar }
func (t *Type) IsWildcard() bool   { return t != nil && t.Tag == TypeTagWildcard }
func (t *Type) IsInterface() bool  { return t != nil && t.Tag == TypeTagInterface }
func (t *Type) IsEnum() bool       { return t != nil && t.Tag == TypeTagEnum }
func (t *Type) IsAnnotation() bool { return t != nil && t.Tag == TypeTagAnnotation }
func (t *Type) IsClass() bool      { return t != nil && t.Tag == TypeTagClass }

// IsDeclared reports class, interface, enum and annotation types (parameterized or not).
func (t *Type) IsDeclared() bool {
	if t == nil {
		return false
	}
	switch t.Tag {
	case TypeTagClass, TypeTagInterface, TypeTagEnum, TypeTagAnnotation:
		return true
	}
	return false
}

// IsReference reports types whose values are references (declared, array, type variable).
func (t *Type) IsReference() bool {
	return t.IsDeclared() || t.IsArray() || t.IsTypeVariable() || t.IsNull()
}

// IsGeneric reports an uninstantiated generic declaration such as List<E> itself.
func (t *Type) IsGeneric() bool {
	return t != nil && t.Generic == nil && len(t.TypeParams) > 0
}

// IsParameterized reports an instantiation such as List<String>.
func (t *Type) IsParameterized() bool {
	return t != nil && t.Generic != nil && !t.Raw
}

// IsRaw reports a generic type used without arguments.
func (t *Type) IsRaw() bool {
	return t != nil && t.Generic != nil && t.Raw
}

// --- Structure ---

// Declaration returns the generic declaration of a parameterized or raw type, or t itself.
func (t *Type) Declaration() *Type {
	if t != nil && t.Generic != nil {
		return t.Generic
	}
	return t
}

// ComponentType strips one array dimension.
func (t *Type) ComponentType() *Type {
	if !t.IsArray() {
		return nil
	}
	return t.Elem
}

// ElementType strips all array dimensions.
func (t *Type) ElementType() *Type {
	out := t
	for out.IsArray() {
		out = out.Elem
	}
	return out
}

// Dimensions counts array dimensions.
func (t *Type) Dimensions() int {
	n := 0
	for cur := t; cur.IsArray(); cur = cur.Elem {
		n++
	}
	return n
}

// substitution maps the declaration's type parameters to t's type arguments.
func (t *Type) substitution() map[*Type]*Type {
	if !t.IsParameterized() {
		return nil
	}
	params := t.Generic.TypeParams
	out := make(map[*Type]*Type, len(params))
	for i, p := range params {
		if i < len(t.TypeArgs) {
			out[p] = t.TypeArgs[i]
		}
	}
	return out
}

// Superclass returns the direct superclass with t's type arguments applied.
func (t *Type) Superclass() *Type {
	decl := t.Declaration()
	if decl == nil || decl.Super == nil {
		return nil
	}
	if t.IsRaw() {
		return Erasure(decl.Super)
	}
	return Substitute(decl.Super, t.substitution())
}

// SuperInterfaces returns the directly implemented or extended interfaces with t's type
// arguments applied.
func (t *Type) SuperInterfaces() []*Type {
	decl := t.Declaration()
	if decl == nil || len(decl.Interfaces) == 0 {
		return nil
	}
	subst := t.substitution()
	return gfn.Map(decl.Interfaces, func(i *Type) *Type {
		if t.IsRaw() {
			return Erasure(i)
		}
		return Substitute(i, subst)
	})
}

// DeclaredMethods returns the methods declared directly on t, with t's type arguments
// applied to their signatures.
func (t *Type) DeclaredMethods() []*Method {
	decl := t.Declaration()
	if decl == nil {
		return nil
	}
	subst := t.substitution()
	if len(subst) == 0 {
		return decl.Methods
	}
	return gfn.Map(decl.Methods, func(m *Method) *Method { return m.substitute(subst) })
}

// DeclaredFields returns the fields declared directly on t, with type arguments applied.
func (t *Type) DeclaredFields() []*Field {
	decl := t.Declaration()
	if decl == nil {
		return nil
	}
	subst := t.substitution()
	if len(subst) == 0 {
		return decl.Fields
	}
	return gfn.Map(decl.Fields, func(f *Field) *Field {
		out := *f
		out.Type = Substitute(f.Type, subst)
		return &out
	})
}

// Substitute replaces type variables according to mapping, rebuilding only what changes.
func Substitute(t *Type, mapping map[*Type]*Type) *Type {
	if t == nil || len(mapping) == 0 {
		return t
	}
	switch t.Tag {
	case TypeTagTypeVar:
		if r, ok := mapping[t]; ok && r != nil {
			return r
		}
		return t
	case TypeTagArray:
		elem := Substitute(t.Elem, mapping)
		if elem == t.Elem {
			return t
		}
		return &Type{Tag: TypeTagArray, Elem: elem}
	case TypeTagWildcard:
		bound := Substitute(t.Bound, mapping)
		if bound == t.Bound {
			return t
		}
		return WildcardOf(bound, t.Upper)
	}
	if t.IsParameterized() {
		changed := false
		args := gfn.Map(t.TypeArgs, func(a *Type) *Type {
			r := Substitute(a, mapping)
			changed = changed || r != a
			return r
		})
		if !changed {
			return t
		}
		return Parameterize(t.Generic, args...)
	}
	return t
}

// Erasure drops type arguments and replaces type variables with their first bound.
// Variables whose bounds lead back to themselves erase to nil.
func Erasure(t *Type) *Type {
	return erasure(t, nil)
}

func erasure(t *Type, vars map[*Type]bool) *Type {
	if t == nil {
		return nil
	}
	switch {
	case t.IsTypeVariable():
		if len(t.Bounds) == 0 || vars[t] {
			return nil
		}
		if vars == nil {
			vars = map[*Type]bool{}
		}
		vars[t] = true
		return erasure(t.Bounds[0], vars)
	case t.IsArray():
		elem := erasure(t.Elem, vars)
		if elem == nil {
			return nil
		}
		return &Type{Tag: TypeTagArray, Elem: elem}
	case t.IsWildcard():
		if t.Upper {
			return erasure(t.Bound, vars)
		}
		return nil
	case t.Generic != nil:
		return t.Generic
	}
	return t
}

// Key is a stable identity for t: equal keys mean equal types.
func (t *Type) Key() string {
	if t == nil {
		return ""
	}
	switch t.Tag {
	case TypeTagArray:
		return t.Elem.Key() + "[]"
	case TypeTagTypeVar:
		owner := ""
		if t.DeclaringMethod != nil {
			owner = t.DeclaringMethod.Key()
		} else if t.DeclaringType != nil {
			owner = t.DeclaringType.Key()
		}
		return owner + ":" + t.Name
	case TypeTagWildcard:
		switch {
		case t.Bound == nil:
			return "?"
		case t.Upper:
			return "?+" + t.Bound.Key()
		default:
			return "?-" + t.Bound.Key()
		}
	}
	if t.IsParameterized() {
		return t.Name + "<" + strings.Join(gfn.Map(t.TypeArgs, (*Type).Key), ",") + ">"
	}
	if t.IsRaw() {
		return t.Name + "#raw"
	}
	return t.Name
}

// Equals compares two types structurally through their keys.
func (t *Type) Equals(other *Type) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	return t.Key() == other.Key()
}

// SimpleName is the last segment of a declared type's name.
func (t *Type) SimpleName() string {
	if i := strings.LastIndex(t.Name, "."); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

// String renders t in source form.
func (t *Type) String() string {
	if t == nil {
		return "<nil_type>"
	}
	switch t.Tag {
	case TypeTagArray:
		return t.Elem.String() + "[]"
	case TypeTagWildcard:
		switch {
		case t.Bound == nil:
			return "?"
		case t.Upper:
			return "? extends " + t.Bound.String()
		default:
			return "? super " + t.Bound.String()
		}
	}
	if t.IsParameterized() {
		return t.Name + "<" + strings.Join(gfn.Map(t.TypeArgs, (*Type).String), ", ") + ">"
	}
	if t.Anonymous {
		return "<anonymous " + t.Name + ">"
	}
	return t.Name
}

// Method is a resolved method or constructor signature.
type Method struct {
	Name          string
	DeclaringType *Type
	Params        []*Type
	Return        *Type
	TypeParams    []*Type
	Varargs       bool
	Constructor   bool
	Static        bool
	Abstract      bool
}

// Arity is the number of declared parameters.
func (m *Method) Arity() int { return len(m.Params) }

// Accepts reports whether the method can be called with argCount arguments.
func (m *Method) Accepts(argCount int) bool {
	if m.Varargs {
		return argCount >= len(m.Params)-1
	}
	return argCount == len(m.Params)
}

func (m *Method) Key() string {
	owner := ""
	if m.DeclaringType != nil {
		owner = m.DeclaringType.Declaration().Name
	}
	return owner + "." + m.Name + "(" + strings.Join(gfn.Map(m.Params, (*Type).Key), ",") + ")"
}

func (m *Method) String() string {
	params := gfn.Map(m.Params, (*Type).String)
	if m.Varargs && len(params) > 0 {
		last := m.Params[len(m.Params)-1]
		if last.IsArray() {
			params[len(params)-1] = last.Elem.String() + "..."
		}
	}
	sig := m.Name + "(" + strings.Join(params, ", ") + ")"
	if m.Constructor || m.Return == nil {
		return sig
	}
	return m.Return.String() + " " + sig
}

func (m *Method) substitute(mapping map[*Type]*Type) *Method {
	out := *m
	out.Params = gfn.Map(m.Params, func(p *Type) *Type { return Substitute(p, mapping) })
	out.Return = Substitute(m.Return, mapping)
	return &out
}

// Field is a resolved field.
type Field struct {
	Name          string
	Type          *Type
	Static        bool
	DeclaringType *Type
}

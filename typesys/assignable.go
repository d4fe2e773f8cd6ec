package typesys

var boxes = map[string]string{
	"boolean": "java.lang.Boolean",
	"byte":    "java.lang.Byte",
	"char":    "java.lang.Character",
	"short":   "java.lang.Short",
	"int":     "java.lang.Integer",
	"long":    "java.lang.Long",
	"float":   "java.lang.Float",
	"double":  "java.lang.Double",
}

// widening lists, per primitive, the primitives it converts to implicitly.
var widening = map[string][]string{
	"byte":  {"short", "int", "long", "float", "double"},
	"short": {"int", "long", "float", "double"},
	"char":  {"int", "long", "float", "double"},
	"int":   {"long", "float", "double"},
	"long":  {"float", "double"},
	"float": {"double"},
}

// numericRank orders numeric primitives for binary promotion.
var numericRank = map[string]int{
	"byte": 1, "short": 2, "char": 2, "int": 3, "long": 4, "float": 5, "double": 6,
}

// Box returns the wrapper class of a primitive, or t unchanged.
func (u *Universe) Box(t *Type) *Type {
	if !t.IsPrimitive() {
		return t
	}
	if b := u.Lookup(boxes[t.Name]); b != nil {
		return b
	}
	return t
}

// Unbox returns the primitive of a wrapper class, or nil when t is not a wrapper.
func (u *Universe) Unbox(t *Type) *Type {
	if t.IsPrimitive() {
		return t
	}
	if !t.IsClass() {
		return nil
	}
	for prim, box := range boxes {
		if t.Name == box {
			return u.Lookup(prim)
		}
	}
	return nil
}

// IsNumeric reports numeric primitives (every primitive except boolean).
func IsNumeric(t *Type) bool {
	_, ok := numericRank[primName(t)]
	return ok
}

// IsNumericLike reports numeric primitives and their wrappers.
func (u *Universe) IsNumericLike(t *Type) bool {
	return IsNumeric(u.Unbox(t))
}

// IsBooleanLike reports boolean and java.lang.Boolean.
func (u *Universe) IsBooleanLike(t *Type) bool {
	return primName(u.Unbox(t)) == "boolean"
}

// IsString reports java.lang.String.
func IsString(t *Type) bool {
	return t != nil && t.IsClass() && t.Name == StringName
}

// Promote applies binary numeric promotion to two numeric operands. It returns nil when
// either operand is not numeric.
func (u *Universe) Promote(a, b *Type) *Type {
	pa, pb := u.Unbox(a), u.Unbox(b)
	if !IsNumeric(pa) || !IsNumeric(pb) {
		return nil
	}
	ra, rb := numericRank[pa.Name], numericRank[pb.Name]
	switch {
	case ra < 3 && rb < 3:
		return u.Lookup("int")
	case ra >= rb:
		return pa
	default:
		return pb
	}
}

func primName(t *Type) string {
	if !t.IsPrimitive() {
		return ""
	}
	return t.Name
}

// IsAssignable reports whether a value of type from may be assigned to a variable of type
// to, allowing primitive widening, boxing, unboxing and reference widening. Recovered
// types are compatible with everything.
func (u *Universe) IsAssignable(from, to *Type) bool {
	if from == nil || to == nil {
		return false
	}
	if from.IsRecovered() || to.IsRecovered() {
		return true
	}
	if from.Equals(to) {
		return true
	}
	if from.IsVoid() || to.IsVoid() {
		return false
	}
	if to.IsPrimitive() {
		src := u.Unbox(from)
		if src == nil {
			return false
		}
		if src.Name == to.Name {
			return true
		}
		for _, w := range widening[src.Name] {
			if w == to.Name {
				return true
			}
		}
		return false
	}
	if from.IsNull() {
		return to.IsReference() || to.IsWildcard()
	}
	if from.IsPrimitive() {
		boxed := u.Box(from)
		return !boxed.IsPrimitive() && u.IsSubtype(boxed, to)
	}
	return u.IsSubtype(from, to)
}

// IsSubtype reports reference widening from sub to super.
func (u *Universe) IsSubtype(sub, super *Type) bool {
	return u.isSubtype(sub, super, nil)
}

// isSubtype tracks the type variables whose bounds are being followed in vars, so bounds
// that lead back to their variable end the search instead of recursing forever.
func (u *Universe) isSubtype(sub, super *Type, vars map[*Type]bool) bool {
	if sub == nil || super == nil {
		return false
	}
	if sub.Equals(super) {
		return true
	}
	if super.IsDeclared() && super.Name == ObjectName && !super.IsParameterized() {
		return sub.IsReference()
	}
	switch {
	case super.IsWildcard():
		if super.Bound == nil || !super.Upper {
			return true
		}
		return u.isSubtype(sub, super.Bound, vars)
	case super.IsTypeVariable():
		return sub.IsTypeVariable() && sub.Equals(super)
	}
	switch {
	case sub.IsArray():
		if super.IsArray() {
			se, te := sub.Elem, super.Elem
			if se.IsPrimitive() || te.IsPrimitive() {
				return se.Equals(te)
			}
			return u.isSubtype(se, te, vars)
		}
		return super.Name == CloneableName || super.Name == SerializableName
	case sub.IsTypeVariable():
		if len(sub.Bounds) == 0 || vars[sub] {
			return false
		}
		if vars == nil {
			vars = map[*Type]bool{}
		}
		vars[sub] = true
		for _, b := range sub.Bounds {
			if u.isSubtype(b, super, vars) {
				return true
			}
		}
		return false
	case sub.IsNull():
		return super.IsReference()
	}
	if !sub.IsDeclared() || !super.IsDeclared() {
		return false
	}
	target := super.Declaration()
	seen := map[string]bool{}
	var visit func(cur *Type) bool
	visit = func(cur *Type) bool {
		if cur == nil || seen[cur.Key()] {
			return false
		}
		seen[cur.Key()] = true
		if cur.Declaration() == target {
			return typeArgsContained(cur, super)
		}
		if visit(cur.Superclass()) {
			return true
		}
		for _, i := range cur.SuperInterfaces() {
			if visit(i) {
				return true
			}
		}
		return false
	}
	return visit(sub)
}

// typeArgsContained compares the arguments of two instantiations of the same generic
// declaration. Raw types on either side match anything.
func typeArgsContained(have, want *Type) bool {
	if !have.IsParameterized() || !want.IsParameterized() {
		return true
	}
	if len(have.TypeArgs) != len(want.TypeArgs) {
		return false
	}
	for i, w := range want.TypeArgs {
		h := have.TypeArgs[i]
		if w.IsWildcard() {
			if w.Bound == nil || h.IsWildcard() {
				continue
			}
			if w.Upper && !isSubtypeLoose(h, w.Bound) {
				return false
			}
			continue
		}
		if !h.Equals(w) {
			return false
		}
	}
	return true
}

// isSubtypeLoose walks the declared hierarchy without a universe, which is all wildcard
// containment needs.
func isSubtypeLoose(sub, super *Type) bool {
	if sub.Equals(super) || super.Name == ObjectName {
		return true
	}
	if !sub.IsDeclared() {
		return false
	}
	if sup := sub.Superclass(); sup != nil && isSubtypeLoose(sup, super) {
		return true
	}
	for _, i := range sub.SuperInterfaces() {
		if isSubtypeLoose(i, super) {
			return true
		}
	}
	return false
}

// BoxName returns the qualified name of a primitive's wrapper class, or "".
func BoxName(prim string) string { return boxes[prim] }

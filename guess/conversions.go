package guess

import (
	"github.com/panyam/typeguess/typesys"
)

// primitiveLadder ranks the primitives that take part in narrowing and relaxing. char sits
// below short on purpose; proposal ranking depends on this order.
var primitiveLadder = []string{"char", "short", "int", "long", "float", "double"}

func ladderRank(t *typesys.Type) int {
	if !t.IsPrimitive() {
		return -1
	}
	for i, name := range primitiveLadder {
		if name == t.Name {
			return i
		}
	}
	return -1
}

// NarrowingCandidates returns t followed by every ladder primitive ranked below it. Other
// types, including the off-ladder primitives boolean and byte, narrow only to themselves
// rather than to the whole ladder.
func (e *Engine) NarrowingCandidates(t *typesys.Type) []*typesys.Type {
	if t == nil {
		return nil
	}
	out := []*typesys.Type{t}
	rank := ladderRank(t)
	for i := 0; i < rank; i++ {
		if p := e.wellKnown(primitiveLadder[i]); p != nil {
			out = append(out, p)
		}
	}
	return out
}

// RelaxingCandidates returns t followed by the types a value of t also fits: wider ladder
// primitives; Object and the array marker interfaces for arrays; and for reference types
// every supertype, depth first, interfaces before the superclass at each level.
func (e *Engine) RelaxingCandidates(t *typesys.Type) []*typesys.Type {
	if t == nil {
		return nil
	}
	out := []*typesys.Type{t}
	switch {
	case t.IsArray():
		for _, name := range []string{typesys.ObjectName, typesys.SerializableName, typesys.CloneableName} {
			if w := e.wellKnown(name); w != nil {
				out = append(out, w)
			}
		}
	case t.IsPrimitive():
		rank := ladderRank(t)
		if rank < 0 {
			return out
		}
		for _, name := range primitiveLadder[rank+1:] {
			if p := e.wellKnown(name); p != nil {
				out = append(out, p)
			}
		}
	default:
		seen := map[string]bool{t.Key(): true}
		out = e.collectRelaxing(out, seen, t)
	}
	return out
}

// collectRelaxing expands each supertype once. A type already seen has had its own
// supertypes collected, or is still being expanded when bounds or supertypes loop back.
func (e *Engine) collectRelaxing(out []*typesys.Type, seen map[string]bool, t *typesys.Type) []*typesys.Type {
	interfaces, super := directSupertypes(t, e.wellKnown(typesys.ObjectName))
	supers := append([]*typesys.Type{}, interfaces...)
	if super != nil {
		supers = append(supers, super)
	}
	for _, s := range supers {
		if seen[s.Key()] {
			continue
		}
		seen[s.Key()] = true
		out = append(out, s)
		out = e.collectRelaxing(out, seen, s)
	}
	return out
}

// directSupertypes splits t's direct supertypes into interfaces and the superclass. A type
// variable's bounds play both roles, with Object standing in for a missing class bound.
func directSupertypes(t, object *typesys.Type) (interfaces []*typesys.Type, super *typesys.Type) {
	if !t.IsTypeVariable() {
		return t.SuperInterfaces(), t.Superclass()
	}
	for _, b := range t.Bounds {
		if b.IsInterface() {
			interfaces = append(interfaces, b)
		} else if super == nil {
			super = b
		}
	}
	if super == nil {
		super = object
	}
	return interfaces, super
}

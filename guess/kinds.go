package guess

import (
	"strings"

	"github.com/panyam/typeguess/syntax"
	"github.com/panyam/typeguess/typesys"
)

// TypeKinds is a set of declaration categories admissible at a position.
type TypeKinds uint8

const (
	KindClasses TypeKinds = 1 << iota
	KindInterfaces
	KindAnnotations
	KindEnums
	KindTypeVariables
	KindPrimitives
	KindVoid
)

const (
	RefTypes        = KindClasses | KindInterfaces | KindEnums | KindAnnotations
	RefTypesAndVars = RefTypes | KindTypeVariables
	AllTypes        = RefTypesAndVars | KindPrimitives

	// legacyKinds is what sources older than annotations and enums can name.
	legacyKinds = KindClasses | KindInterfaces
)

var typeKindNames = []string{"classes", "interfaces", "annotations", "enums", "type-variables", "primitives", "void"}

// Names lists the members of k in bit order.
func (k TypeKinds) Names() []string {
	var out []string
	for i, name := range typeKindNames {
		if k&(1<<i) != 0 {
			out = append(out, name)
		}
	}
	return out
}

func (k TypeKinds) String() string {
	if k == 0 {
		return "none"
	}
	return strings.Join(k.Names(), "|")
}

// Has reports whether every kind in other is in k.
func (k TypeKinds) Has(other TypeKinds) bool { return k&other == other }

// KindsOf returns the single category t belongs to, or 0 for arrays, wildcards and the
// pseudo types.
func KindsOf(t *typesys.Type) TypeKinds {
	if t == nil {
		return 0
	}
	switch t.Tag {
	case typesys.TypeTagClass:
		return KindClasses
	case typesys.TypeTagInterface:
		return KindInterfaces
	case typesys.TypeTagAnnotation:
		return KindAnnotations
	case typesys.TypeTagEnum:
		return KindEnums
	case typesys.TypeTagTypeVar:
		return KindTypeVariables
	case typesys.TypeTagPrimitive:
		return KindPrimitives
	case typesys.TypeTagVoid:
		return KindVoid
	}
	return 0
}

// Admits reports whether t's category is in k. Arrays are judged by their element type.
func (k TypeKinds) Admits(t *typesys.Type) bool {
	if t.IsArray() {
		t = t.ElementType()
	}
	return k&KindsOf(t) != 0
}

// AdmissibleTypeKinds returns the categories of types that may be named at n. Qualifiers
// and type wrappers narrow the mask on the way up; the outermost non-wrapper parent picks
// the base set. Without modern kinds only classes and interfaces survive.
func (e *Engine) AdmissibleTypeKinds(n syntax.Ref, allowModernKinds bool) TypeKinds {
	kinds := admissibleKinds(n)
	if !allowModernKinds {
		kinds &= legacyKinds
	}
	return kinds
}

func admissibleKinds(n syntax.Ref) TypeKinds {
	node, parent := n, n.Parent()
	mask := AllTypes | KindVoid

	for parent.Is(syntax.KindQualifiedName) {
		if node.Loc() == syntax.LocQualifier {
			return RefTypes
		}
		node, parent = parent, parent.Parent()
		mask = RefTypes
	}

	for parent.Kind().IsType() {
		switch parent.Kind() {
		case syntax.KindQualifiedType:
			if node.Loc() == syntax.LocQualifier {
				return mask & RefTypes
			}
			mask &= RefTypes
		case syntax.KindParameterizedType:
			if node.Loc() == syntax.LocTypeArguments {
				return mask & RefTypesAndVars
			}
			mask &= KindClasses | KindInterfaces
		case syntax.KindWildcardType:
			if node.Loc() == syntax.LocBound {
				return mask & RefTypesAndVars
			}
		}
		node, parent = parent, parent.Parent()
	}

	kind := AllTypes
	switch parent.Kind() {
	case syntax.KindTypeDecl:
		switch node.Loc() {
		case syntax.LocSuperInterfaceTypes:
			kind = KindInterfaces
		case syntax.LocSuperclassType:
			kind = KindClasses
		}
	case syntax.KindEnumDecl:
		kind = KindInterfaces
	case syntax.KindMethodDecl:
		switch node.Loc() {
		case syntax.LocThrownExceptionTypes:
			kind = KindClasses
		case syntax.LocReturnType:
			kind = AllTypes | KindVoid
		}
	case syntax.KindAnnotationTypeMemberDecl:
		kind = KindPrimitives | KindAnnotations | KindEnums
	case syntax.KindInstanceOfExpr:
		kind = RefTypes
	case syntax.KindThrowStmt:
		kind = KindClasses
	case syntax.KindClassInstanceCreation:
		if parent.Child(syntax.LocAnonymousClass).IsNil() {
			kind = KindClasses
		} else {
			kind = KindClasses | KindInterfaces
		}
	case syntax.KindSingleVarDecl:
		switch parent.Parent().Kind() {
		case syntax.KindCatchClause:
			kind = KindClasses
		case syntax.KindEnhancedForStmt:
			kind = RefTypes
		}
	case syntax.KindTagElement:
		kind = RefTypes
	case syntax.KindMarkerAnnotation, syntax.KindSingleMemberAnnotation, syntax.KindNormalAnnotation:
		kind = KindAnnotations
	case syntax.KindTypeParameter:
		if node.Loc() == syntax.LocTypeBounds && node.IndexIn() > 0 {
			kind = KindInterfaces
		} else {
			kind = RefTypesAndVars
		}
	case syntax.KindTypeLiteral:
		kind = RefTypes
	}
	return kind & mask
}

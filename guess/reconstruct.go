package guess

import (
	"strings"

	"github.com/panyam/typeguess/syntax"
)

// TypeExpr is a type written in source form: an existing type node of the tree plus array
// dimensions added on top. It is spliced into edits, so it is built from syntax only.
type TypeExpr struct {
	Node syntax.Ref
	Dims int
}

// String renders the expression as source text.
func (t TypeExpr) String() string {
	var sb strings.Builder
	writeTypeNode(&sb, t.Node)
	for i := 0; i < t.Dims; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

func writeTypeNode(sb *strings.Builder, n syntax.Ref) {
	switch n.Kind() {
	case syntax.KindPrimitiveType:
		sb.WriteString(n.Text())
	case syntax.KindSimpleType, syntax.KindQualifiedType, syntax.KindSimpleName, syntax.KindQualifiedName:
		sb.WriteString(n.QualifiedName())
	case syntax.KindArrayType:
		writeTypeNode(sb, n.Child(syntax.LocElementType))
		dims := n.Dims()
		if dims < 1 {
			dims = 1
		}
		for i := 0; i < dims; i++ {
			sb.WriteString("[]")
		}
	case syntax.KindParameterizedType:
		writeTypeNode(sb, n.Child(syntax.LocType))
		sb.WriteByte('<')
		for i, arg := range n.ChildrenAt(syntax.LocTypeArguments) {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeTypeNode(sb, arg)
		}
		sb.WriteByte('>')
	case syntax.KindWildcardType:
		sb.WriteByte('?')
		if bound := n.Child(syntax.LocBound); !bound.IsNil() {
			if n.Flags().Has(syntax.FlagUpperBound) {
				sb.WriteString(" extends ")
			} else {
				sb.WriteString(" super ")
			}
			writeTypeNode(sb, bound)
		}
	}
}

// ReconstructDeclaredType produces the type expression a declaration for n would need,
// following only variable initializers and array accesses upward. Any other context
// yields false: the result goes straight into source, so it never guesses.
func (e *Engine) ReconstructDeclaredType(n syntax.Ref) (TypeExpr, bool) {
	node, parent := n, n.Parent()
	extra := 0
	for !parent.IsNil() {
		switch parent.Kind() {
		case syntax.KindVarDeclFragment, syntax.KindSingleVarDecl:
			if node.Loc() != syntax.LocInitializer {
				return TypeExpr{}, false
			}
			typeNode := declaredTypeNode(parent)
			if typeNode.IsNil() || isVarKeyword(typeNode) {
				return TypeExpr{}, false
			}
			return TypeExpr{Node: typeNode, Dims: parent.Dims() + extra}, true
		case syntax.KindArrayAccess:
			if node.Loc() == syntax.LocIndex {
				return TypeExpr{}, false
			}
			extra++
		case syntax.KindFieldAccess, syntax.KindQualifiedName:
			if node.Loc() != syntax.LocName {
				return TypeExpr{}, false
			}
		case syntax.KindSuperFieldAccess, syntax.KindParenthesizedExpr:
		default:
			return TypeExpr{}, false
		}
		node, parent = parent, parent.Parent()
	}
	return TypeExpr{}, false
}

// declaredTypeNode returns the type node that a variable declaration's type is written
// with. Fragments share the type of their enclosing declaration.
func declaredTypeNode(decl syntax.Ref) syntax.Ref {
	switch decl.Kind() {
	case syntax.KindSingleVarDecl:
		return decl.Child(syntax.LocType)
	case syntax.KindVarDeclFragment:
		return decl.Parent().Child(syntax.LocType)
	}
	return syntax.Ref{}
}

// isVarKeyword reports an inferred local type, which has no source form to copy.
func isVarKeyword(typeNode syntax.Ref) bool {
	return typeNode.Is(syntax.KindSimpleType) && typeNode.QualifiedName() == "var"
}

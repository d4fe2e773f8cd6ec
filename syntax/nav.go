package syntax

// Structural queries over a node's ancestor chain. None of these look at types; they only
// answer "where am I" questions.

// Ancestors returns the parent chain of r, innermost first, excluding r itself.
func (r Ref) Ancestors() []Ref {
	var out []Ref
	for p := r.Parent(); !p.IsNil(); p = p.Parent() {
		out = append(out, p)
	}
	return out
}

// FindAncestor returns the nearest ancestor (or r itself) of one of the given kinds.
func (r Ref) FindAncestor(kinds ...Kind) Ref {
	for cur := r; !cur.IsNil(); cur = cur.Parent() {
		if cur.Is(kinds...) {
			return cur
		}
	}
	return Ref{}
}

// EnclosingMethod returns the method declaration whose body contains r. The search stops
// at type declarations and lambdas: a return inside a lambda does not return from the
// enclosing method.
func EnclosingMethod(r Ref) Ref {
	for cur := r.Parent(); !cur.IsNil(); cur = cur.Parent() {
		switch {
		case cur.Kind() == KindMethodDecl:
			return cur
		case cur.Kind() == KindLambdaExpr, cur.Kind().IsTypeDeclaration():
			return Ref{}
		}
	}
	return Ref{}
}

// EnclosingLambda returns the innermost lambda containing r, without crossing a type or
// method declaration.
func EnclosingLambda(r Ref) Ref {
	for cur := r.Parent(); !cur.IsNil(); cur = cur.Parent() {
		switch {
		case cur.Kind() == KindLambdaExpr:
			return cur
		case cur.Kind() == KindMethodDecl, cur.Kind().IsTypeDeclaration():
			return Ref{}
		}
	}
	return Ref{}
}

// EnclosingType returns the innermost named or anonymous type declaration containing r.
func EnclosingType(r Ref) Ref {
	for cur := r.Parent(); !cur.IsNil(); cur = cur.Parent() {
		if cur.Kind().IsTypeDeclaration() {
			return cur
		}
	}
	return Ref{}
}

// EnclosingBodyDeclaration returns the innermost member declaration containing r (or r).
func EnclosingBodyDeclaration(r Ref) Ref {
	for cur := r; !cur.IsNil(); cur = cur.Parent() {
		if cur.Kind().IsBodyDeclaration() {
			return cur
		}
	}
	return Ref{}
}

// EnclosingStatement returns the innermost statement containing r (or r), stopping at
// member declarations.
func EnclosingStatement(r Ref) Ref {
	for cur := r; !cur.IsNil(); cur = cur.Parent() {
		if cur.Kind().IsStatement() {
			return cur
		}
		if cur.Kind().IsBodyDeclaration() {
			return Ref{}
		}
	}
	return Ref{}
}

// EnclosingTry returns the innermost try statement whose protected body contains r. Nodes
// inside catch clauses or finally blocks are not protected by that try.
func EnclosingTry(r Ref) Ref {
	child := r
	for cur := r.Parent(); !cur.IsNil(); child, cur = cur, cur.Parent() {
		if cur.Kind().IsBodyDeclaration() || cur.Kind() == KindLambdaExpr {
			return Ref{}
		}
		if cur.Kind() == KindTryStmt && (child.Loc() == LocBody || child.Loc() == LocResources) {
			return cur
		}
	}
	return Ref{}
}

// EnclosingCompilationUnit returns the root compilation unit of r, if any.
func EnclosingCompilationUnit(r Ref) Ref {
	return r.FindAncestor(KindCompilationUnit)
}

// IsWriteAccess reports whether the name is written to: the left side of an assignment, the
// name of a variable declaration, or the operand of ++/--.
func IsWriteAccess(name Ref) bool {
	cur := name
	for parent := cur.Parent(); !parent.IsNil(); cur, parent = parent, parent.Parent() {
		switch parent.Kind() {
		case KindQualifiedName:
			if cur.Loc() == LocQualifier {
				return false
			}
		case KindFieldAccess:
			if cur.Loc() == LocExpression {
				return false
			}
		case KindSuperFieldAccess:
		case KindParenthesizedExpr:
		case KindAssignment:
			return cur.Loc() == LocLeftHandSide
		case KindVarDeclFragment, KindSingleVarDecl:
			return cur.Loc() == LocName
		case KindPostfixExpr:
			return true
		case KindPrefixExpr:
			return parent.Op() == "++" || parent.Op() == "--"
		default:
			return false
		}
	}
	return false
}

// IsInsideConstructorInvocation reports whether r is part of a this(...) or super(...)
// call in a constructor.
func IsInsideConstructorInvocation(r Ref) bool {
	decl := EnclosingBodyDeclaration(r)
	if decl.Kind() != KindMethodDecl || !decl.Flags().Has(FlagConstructor) {
		return false
	}
	stmt := EnclosingStatement(r)
	return stmt.Is(KindConstructorInvocation, KindSuperConstructorInvocation)
}

// IsInStaticContext reports whether r cannot refer to an instance of its enclosing type:
// static members and initializers, and arguments of explicit constructor calls.
func IsInStaticContext(r Ref) bool {
	decl := EnclosingBodyDeclaration(r)
	switch decl.Kind() {
	case KindMethodDecl:
		if IsInsideConstructorInvocation(r) {
			return true
		}
		return decl.Flags().Has(FlagStatic)
	case KindInitializer, KindFieldDecl:
		return decl.Flags().Has(FlagStatic)
	}
	return false
}

package syntax

import "fmt"

// Kind tags every node in a Tree. The set is closed: callers switch over it exhaustively
// and fall through to "no information" for kinds they do not understand.
type Kind uint8

const (
	KindInvalid Kind = iota

	// --- Declarations ---
	KindCompilationUnit
	KindTypeDecl // class or interface, see FlagInterface
	KindEnumDecl
	KindAnnotationTypeDecl
	KindAnnotationTypeMemberDecl
	KindEnumConstantDecl
	KindAnonymousClassDecl
	KindMethodDecl // methods and constructors, see FlagConstructor
	KindInitializer
	KindFieldDecl
	KindVarDeclFragment
	KindVarDeclStmt
	KindVarDeclExpr
	KindSingleVarDecl
	KindTypeParameter

	// --- Statements ---
	KindBlock
	KindExprStmt
	KindIfStmt
	KindWhileStmt
	KindDoStmt
	KindForStmt
	KindEnhancedForStmt
	KindReturnStmt
	KindThrowStmt
	KindTryStmt
	KindCatchClause
	KindSwitchStmt
	KindSwitchCase
	KindAssertStmt
	KindSynchronizedStmt
	KindConstructorInvocation
	KindSuperConstructorInvocation
	KindYieldStmt
	KindBreakStmt
	KindContinueStmt
	KindEmptyStmt

	// --- Expressions ---
	KindAssignment
	KindInfixExpr
	KindPrefixExpr
	KindPostfixExpr
	KindInstanceOfExpr
	KindConditionalExpr
	KindParenthesizedExpr
	KindCastExpr
	KindMethodInvocation
	KindSuperMethodInvocation
	KindClassInstanceCreation
	KindArrayAccess
	KindArrayCreation
	KindArrayInitializer
	KindFieldAccess
	KindSuperFieldAccess
	KindThisExpr
	KindSimpleName
	KindQualifiedName
	KindNumberLiteral
	KindStringLiteral
	KindCharLiteral
	KindBooleanLiteral
	KindNullLiteral
	KindTypeLiteral
	KindLambdaExpr
	KindMethodRef
	KindSwitchExpr

	// --- Types ---
	KindPrimitiveType
	KindSimpleType
	KindQualifiedType
	KindArrayType
	KindParameterizedType
	KindWildcardType

	// --- Annotations and documentation ---
	KindMarkerAnnotation
	KindSingleMemberAnnotation
	KindNormalAnnotation
	KindMemberValuePair
	KindJavadoc
	KindTagElement

	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid:                    "Invalid",
	KindCompilationUnit:            "CompilationUnit",
	KindTypeDecl:                   "TypeDecl",
	KindEnumDecl:                   "EnumDecl",
	KindAnnotationTypeDecl:         "AnnotationTypeDecl",
	KindAnnotationTypeMemberDecl:   "AnnotationTypeMemberDecl",
	KindEnumConstantDecl:           "EnumConstantDecl",
	KindAnonymousClassDecl:         "AnonymousClassDecl",
	KindMethodDecl:                 "MethodDecl",
	KindInitializer:                "Initializer",
	KindFieldDecl:                  "FieldDecl",
	KindVarDeclFragment:            "VarDeclFragment",
	KindVarDeclStmt:                "VarDeclStmt",
	KindVarDeclExpr:                "VarDeclExpr",
	KindSingleVarDecl:              "SingleVarDecl",
	KindTypeParameter:              "TypeParameter",
	KindBlock:                      "Block",
	KindExprStmt:                   "ExprStmt",
	KindIfStmt:                     "IfStmt",
	KindWhileStmt:                  "WhileStmt",
	KindDoStmt:                     "DoStmt",
	KindForStmt:                    "ForStmt",
	KindEnhancedForStmt:            "EnhancedForStmt",
	KindReturnStmt:                 "ReturnStmt",
	KindThrowStmt:                  "ThrowStmt",
	KindTryStmt:                    "TryStmt",
	KindCatchClause:                "CatchClause",
	KindSwitchStmt:                 "SwitchStmt",
	KindSwitchCase:                 "SwitchCase",
	KindAssertStmt:                 "AssertStmt",
	KindSynchronizedStmt:           "SynchronizedStmt",
	KindConstructorInvocation:      "ConstructorInvocation",
	KindSuperConstructorInvocation: "SuperConstructorInvocation",
	KindYieldStmt:                  "YieldStmt",
	KindBreakStmt:                  "BreakStmt",
	KindContinueStmt:               "ContinueStmt",
	KindEmptyStmt:                  "EmptyStmt",
	KindAssignment:                 "Assignment",
	KindInfixExpr:                  "InfixExpr",
	KindPrefixExpr:                 "PrefixExpr",
	KindPostfixExpr:                "PostfixExpr",
	KindInstanceOfExpr:             "InstanceOfExpr",
	KindConditionalExpr:            "ConditionalExpr",
	KindParenthesizedExpr:          "ParenthesizedExpr",
	KindCastExpr:                   "CastExpr",
	KindMethodInvocation:           "MethodInvocation",
	KindSuperMethodInvocation:      "SuperMethodInvocation",
	KindClassInstanceCreation:      "ClassInstanceCreation",
	KindArrayAccess:                "ArrayAccess",
	KindArrayCreation:              "ArrayCreation",
	KindArrayInitializer:           "ArrayInitializer",
	KindFieldAccess:                "FieldAccess",
	KindSuperFieldAccess:           "SuperFieldAccess",
	KindThisExpr:                   "ThisExpr",
	KindSimpleName:                 "SimpleName",
	KindQualifiedName:              "QualifiedName",
	KindNumberLiteral:              "NumberLiteral",
	KindStringLiteral:              "StringLiteral",
	KindCharLiteral:                "CharLiteral",
	KindBooleanLiteral:             "BooleanLiteral",
	KindNullLiteral:                "NullLiteral",
	KindTypeLiteral:                "TypeLiteral",
	KindLambdaExpr:                 "LambdaExpr",
	KindMethodRef:                  "MethodRef",
	KindSwitchExpr:                 "SwitchExpr",
	KindPrimitiveType:              "PrimitiveType",
	KindSimpleType:                 "SimpleType",
	KindQualifiedType:              "QualifiedType",
	KindArrayType:                  "ArrayType",
	KindParameterizedType:          "ParameterizedType",
	KindWildcardType:               "WildcardType",
	KindMarkerAnnotation:           "MarkerAnnotation",
	KindSingleMemberAnnotation:     "SingleMemberAnnotation",
	KindNormalAnnotation:           "NormalAnnotation",
	KindMemberValuePair:            "MemberValuePair",
	KindJavadoc:                    "Javadoc",
	KindTagElement:                 "TagElement",
}

func (k Kind) String() string {
	if k < kindCount && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsType reports whether nodes of this kind are type references.
func (k Kind) IsType() bool {
	return k >= KindPrimitiveType && k <= KindWildcardType
}

// IsAnnotation reports whether nodes of this kind are annotation usages.
func (k Kind) IsAnnotation() bool {
	return k == KindMarkerAnnotation || k == KindSingleMemberAnnotation || k == KindNormalAnnotation
}

// IsTypeDeclaration reports named and anonymous type declarations.
func (k Kind) IsTypeDeclaration() bool {
	switch k {
	case KindTypeDecl, KindEnumDecl, KindAnnotationTypeDecl, KindAnonymousClassDecl:
		return true
	}
	return false
}

// IsBodyDeclaration reports the members that may appear in a type body.
func (k Kind) IsBodyDeclaration() bool {
	switch k {
	case KindTypeDecl, KindEnumDecl, KindAnnotationTypeDecl, KindAnnotationTypeMemberDecl,
		KindEnumConstantDecl, KindMethodDecl, KindInitializer, KindFieldDecl:
		return true
	}
	return false
}

// IsStatement reports statement kinds.
func (k Kind) IsStatement() bool {
	return (k >= KindBlock && k <= KindEmptyStmt && k != KindCatchClause) || k == KindVarDeclStmt
}

// IsName reports simple and qualified names.
func (k Kind) IsName() bool {
	return k == KindSimpleName || k == KindQualifiedName
}

// Location names the structural slot a node occupies in its parent.
type Location uint8

const (
	LocNone Location = iota
	LocLeftHandSide
	LocRightHandSide
	LocLeftOperand
	LocRightOperand
	LocExtendedOperands
	LocOperand
	LocExpression
	LocThenExpression
	LocElseExpression
	LocArguments
	LocArray
	LocIndex
	LocDimensions
	LocInitializer
	LocExpressions
	LocMessage
	LocName
	LocQualifier
	LocType
	LocElementType
	LocTypeArguments
	LocTypeParameters
	LocTypeBounds
	LocBound
	LocSuperclassType
	LocSuperInterfaceTypes
	LocReturnType
	LocParameters
	LocThrownExceptionTypes
	LocBody
	LocStatements
	LocFragments
	LocBodyDeclarations
	LocModifiers
	LocException
	LocCatchClauses
	LocFinally
	LocParameter
	LocInitializers
	LocUpdaters
	LocValue
	LocTypeName
	LocAnonymousClass
	LocEnumConstants
	LocTypes
	LocResources
	LocJavadoc
	LocElseStatement

	locationCount
)

var locationNames = [locationCount]string{
	LocNone:                 "None",
	LocLeftHandSide:         "LeftHandSide",
	LocRightHandSide:        "RightHandSide",
	LocLeftOperand:          "LeftOperand",
	LocRightOperand:         "RightOperand",
	LocExtendedOperands:     "ExtendedOperands",
	LocOperand:              "Operand",
	LocExpression:           "Expression",
	LocThenExpression:       "ThenExpression",
	LocElseExpression:       "ElseExpression",
	LocArguments:            "Arguments",
	LocArray:                "Array",
	LocIndex:                "Index",
	LocDimensions:           "Dimensions",
	LocInitializer:          "Initializer",
	LocExpressions:          "Expressions",
	LocMessage:              "Message",
	LocName:                 "Name",
	LocQualifier:            "Qualifier",
	LocType:                 "Type",
	LocElementType:          "ElementType",
	LocTypeArguments:        "TypeArguments",
	LocTypeParameters:       "TypeParameters",
	LocTypeBounds:           "TypeBounds",
	LocBound:                "Bound",
	LocSuperclassType:       "SuperclassType",
	LocSuperInterfaceTypes:  "SuperInterfaceTypes",
	LocReturnType:           "ReturnType",
	LocParameters:           "Parameters",
	LocThrownExceptionTypes: "ThrownExceptionTypes",
	LocBody:                 "Body",
	LocStatements:           "Statements",
	LocFragments:            "Fragments",
	LocBodyDeclarations:     "BodyDeclarations",
	LocModifiers:            "Modifiers",
	LocException:            "Exception",
	LocCatchClauses:         "CatchClauses",
	LocFinally:              "Finally",
	LocParameter:            "Parameter",
	LocInitializers:         "Initializers",
	LocUpdaters:             "Updaters",
	LocValue:                "Value",
	LocTypeName:             "TypeName",
	LocAnonymousClass:       "AnonymousClass",
	LocEnumConstants:        "EnumConstants",
	LocTypes:                "Types",
	LocResources:            "Resources",
	LocJavadoc:              "Javadoc",
	LocElseStatement:        "ElseStatement",
}

func (l Location) String() string {
	if l < locationCount && locationNames[l] != "" {
		return locationNames[l]
	}
	return fmt.Sprintf("Location(%d)", l)
}

// Flags carries modifiers and shape bits that do not warrant their own child nodes.
type Flags uint16

const (
	FlagStatic Flags = 1 << iota
	FlagAbstract
	FlagFinal
	FlagVarargs
	FlagConstructor
	FlagInterface
	FlagUpperBound
	FlagDefault
)

func (f Flags) Has(bits Flags) bool { return f&bits == bits }

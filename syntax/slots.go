package syntax

// slotsByKind lists the structural slots each parent kind provides. Kinds missing from
// the table are leaves.
var slotsByKind = map[Kind][]Location{
	KindCompilationUnit:            {LocTypes},
	KindTypeDecl:                   {LocJavadoc, LocModifiers, LocName, LocTypeParameters, LocSuperclassType, LocSuperInterfaceTypes, LocBodyDeclarations},
	KindEnumDecl:                   {LocJavadoc, LocModifiers, LocName, LocSuperInterfaceTypes, LocEnumConstants, LocBodyDeclarations},
	KindAnnotationTypeDecl:         {LocJavadoc, LocModifiers, LocName, LocBodyDeclarations},
	KindAnnotationTypeMemberDecl:   {LocJavadoc, LocModifiers, LocType, LocName, LocValue},
	KindEnumConstantDecl:           {LocJavadoc, LocModifiers, LocName, LocArguments, LocAnonymousClass},
	KindAnonymousClassDecl:         {LocBodyDeclarations},
	KindMethodDecl:                 {LocJavadoc, LocModifiers, LocTypeParameters, LocReturnType, LocName, LocParameters, LocThrownExceptionTypes, LocBody},
	KindInitializer:                {LocJavadoc, LocModifiers, LocBody},
	KindFieldDecl:                  {LocJavadoc, LocModifiers, LocType, LocFragments},
	KindVarDeclFragment:            {LocName, LocInitializer},
	KindVarDeclStmt:                {LocModifiers, LocType, LocFragments},
	KindVarDeclExpr:                {LocModifiers, LocType, LocFragments},
	KindSingleVarDecl:              {LocModifiers, LocType, LocName, LocInitializer},
	KindTypeParameter:              {LocModifiers, LocName, LocTypeBounds},
	KindBlock:                      {LocStatements},
	KindExprStmt:                   {LocExpression},
	KindIfStmt:                     {LocExpression, LocThenExpression, LocElseStatement},
	KindWhileStmt:                  {LocExpression, LocBody},
	KindDoStmt:                     {LocBody, LocExpression},
	KindForStmt:                    {LocInitializers, LocExpression, LocUpdaters, LocBody},
	KindEnhancedForStmt:            {LocParameter, LocExpression, LocBody},
	KindReturnStmt:                 {LocExpression},
	KindThrowStmt:                  {LocExpression},
	KindTryStmt:                    {LocResources, LocBody, LocCatchClauses, LocFinally},
	KindCatchClause:                {LocException, LocBody},
	KindSwitchStmt:                 {LocExpression, LocStatements},
	KindSwitchExpr:                 {LocExpression, LocStatements},
	KindSwitchCase:                 {LocExpressions, LocBody},
	KindAssertStmt:                 {LocExpression, LocMessage},
	KindSynchronizedStmt:           {LocExpression, LocBody},
	KindConstructorInvocation:      {LocTypeArguments, LocArguments},
	KindSuperConstructorInvocation: {LocExpression, LocTypeArguments, LocArguments},
	KindYieldStmt:                  {LocExpression},
	KindAssignment:                 {LocLeftHandSide, LocRightHandSide},
	KindInfixExpr:                  {LocLeftOperand, LocRightOperand, LocExtendedOperands},
	KindPrefixExpr:                 {LocOperand},
	KindPostfixExpr:                {LocOperand},
	KindInstanceOfExpr:             {LocLeftOperand, LocRightOperand},
	KindConditionalExpr:            {LocExpression, LocThenExpression, LocElseExpression},
	KindParenthesizedExpr:          {LocExpression},
	KindCastExpr:                   {LocType, LocExpression},
	KindMethodInvocation:           {LocExpression, LocTypeArguments, LocName, LocArguments},
	KindSuperMethodInvocation:      {LocQualifier, LocTypeArguments, LocName, LocArguments},
	KindClassInstanceCreation:      {LocExpression, LocTypeArguments, LocType, LocArguments, LocAnonymousClass},
	KindArrayAccess:                {LocArray, LocIndex},
	KindArrayCreation:              {LocType, LocDimensions, LocInitializer},
	KindArrayInitializer:           {LocExpressions},
	KindFieldAccess:                {LocExpression, LocName},
	KindSuperFieldAccess:           {LocQualifier, LocName},
	KindThisExpr:                   {LocQualifier},
	KindQualifiedName:              {LocQualifier, LocName},
	KindTypeLiteral:                {LocType},
	KindLambdaExpr:                 {LocParameters, LocBody},
	KindMethodRef:                  {LocExpression, LocTypeArguments, LocName},
	KindSimpleType:                 {LocName},
	KindQualifiedType:              {LocQualifier, LocName},
	KindArrayType:                  {LocElementType},
	KindParameterizedType:          {LocType, LocTypeArguments},
	KindWildcardType:               {LocBound},
	KindMarkerAnnotation:           {LocTypeName},
	KindSingleMemberAnnotation:     {LocTypeName, LocValue},
	KindNormalAnnotation:           {LocTypeName, LocValue},
	KindMemberValuePair:            {LocName, LocValue},
	KindJavadoc:                    {LocFragments},
	KindTagElement:                 {LocFragments},
}

// ValidSlot reports whether a node of kind parent has a slot named loc.
func ValidSlot(parent Kind, loc Location) bool {
	for _, l := range slotsByKind[parent] {
		if l == loc {
			return true
		}
	}
	return false
}

// Package javasrc turns Java source text into a syntax.Tree using the tree-sitter Java
// grammar. The conversion is lenient: constructs it does not model and regions the
// grammar marks as erroneous are logged and left out, so every input yields a valid tree.
package javasrc

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/panyam/typeguess/syntax"
	log "github.com/sirupsen/logrus"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

type Option func(*converter)

// WithLogger routes syntax error reports to logger instead of the logrus standard logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *converter) {
		if logger != nil {
			c.log = log.NewEntry(logger)
		}
	}
}

// WithFilename tags every log entry with the file being parsed.
func WithFilename(name string) Option {
	return func(c *converter) { c.log = c.log.WithField("file", name) }
}

// Source is a converted compilation unit together with the text it came from.
type Source struct {
	Tree *syntax.Tree
	Text []byte
	// SyntaxErrors counts the erroneous regions left out of Tree.
	SyntaxErrors int
}

// Parse converts src. The error is only non-nil when parsing itself fails, for example
// because ctx was cancelled; syntax errors are logged and skipped.
func Parse(ctx context.Context, src []byte, opts ...Option) (*syntax.Tree, error) {
	s, err := ParseSource(ctx, src, opts...)
	if err != nil {
		return nil, err
	}
	return s.Tree, nil
}

// ParseFile reads and converts the file at path.
func ParseFile(ctx context.Context, path string, opts ...Option) (*Source, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSource(ctx, src, append(append([]Option{}, opts...), WithFilename(path))...)
}

func ParseSource(ctx context.Context, src []byte, opts ...Option) (*Source, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	st, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse java source: %w", err)
	}
	c := &converter{src: src, b: syntax.NewBuilder(), log: log.NewEntry(log.StandardLogger())}
	for _, opt := range opts {
		opt(c)
	}
	root := c.unit(st.RootNode())
	return &Source{Tree: c.b.Build(root), Text: src, SyntaxErrors: c.syntaxErrors}, nil
}

type converter struct {
	src          []byte
	b            *syntax.Builder
	log          *log.Entry
	syntaxErrors int
}

// --- plumbing ---

func (c *converter) add(kind syntax.Kind, n *sitter.Node, text string) syntax.NodeID {
	return c.b.Add(syntax.Node{Kind: kind, Text: text, Start: int(n.StartByte()), End: int(n.EndByte())})
}

func (c *converter) attach(parent syntax.NodeID, loc syntax.Location, child syntax.NodeID) {
	if child == syntax.NoNode {
		return
	}
	if err := c.b.Attach(parent, loc, child); err != nil {
		c.log.WithError(err).Debug("dropping misplaced node")
	}
}

func (c *converter) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(c.src)
}

// skip reports nodes that carry nothing to convert, logging the erroneous ones.
func (c *converter) skip(n *sitter.Node) bool {
	if n == nil || n.IsMissing() {
		return true
	}
	switch n.Type() {
	case "line_comment", "block_comment", "comment":
		return true
	case "ERROR":
		c.syntaxErrors++
		p := n.StartPoint()
		c.log.WithFields(log.Fields{
			"line":   p.Row + 1,
			"column": p.Column + 1,
			"parsed": c.text(n),
		}).Warn("Syntax error")
		return true
	}
	return false
}

// named returns the named children of n worth converting.
func (c *converter) named(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if k := n.NamedChild(i); !c.skip(k) {
			out = append(out, k)
		}
	}
	return out
}

func (c *converter) namedOfType(n *sitter.Node, types ...string) []*sitter.Node {
	var out []*sitter.Node
	for _, k := range c.named(n) {
		for _, t := range types {
			if k.Type() == t {
				out = append(out, k)
				break
			}
		}
	}
	return out
}

func (c *converter) firstOfType(n *sitter.Node, types ...string) *sitter.Node {
	if found := c.namedOfType(n, types...); len(found) > 0 {
		return found[0]
	}
	return nil
}

func (c *converter) unsupported(n *sitter.Node) syntax.NodeID {
	c.log.WithFields(log.Fields{"type": n.Type(), "line": n.StartPoint().Row + 1}).Debug("Unsupported construct")
	return syntax.NoNode
}

// dims counts the bracket pairs of a dimensions node.
func (c *converter) dims(n *sitter.Node) int {
	return strings.Count(c.text(n), "[")
}

// --- compilation units and declarations ---

func (c *converter) unit(n *sitter.Node) syntax.NodeID {
	id := c.add(syntax.KindCompilationUnit, n, "")
	for _, k := range c.named(n) {
		if isTypeDeclaration(k.Type()) {
			c.attach(id, syntax.LocTypes, c.typeDecl(k))
		}
	}
	return id
}

func isTypeDeclaration(t string) bool {
	switch t {
	case "class_declaration", "interface_declaration", "enum_declaration",
		"annotation_type_declaration", "record_declaration":
		return true
	}
	return false
}

func (c *converter) typeDecl(n *sitter.Node) syntax.NodeID {
	kind := syntax.KindTypeDecl
	switch n.Type() {
	case "enum_declaration":
		kind = syntax.KindEnumDecl
	case "annotation_type_declaration":
		kind = syntax.KindAnnotationTypeDecl
	}
	id := c.add(kind, n, "")
	c.modifiers(id, n)
	c.attach(id, syntax.LocName, c.name(n.ChildByFieldName("name")))
	c.typeParameters(id, n.ChildByFieldName("type_parameters"))

	switch n.Type() {
	case "class_declaration":
		if sc := n.ChildByFieldName("superclass"); sc != nil {
			for _, t := range c.named(sc) {
				c.attach(id, syntax.LocSuperclassType, c.typ(t))
			}
		}
		c.typeList(id, n.ChildByFieldName("interfaces"))
	case "interface_declaration":
		c.b.At(id).Flags |= syntax.FlagInterface
		c.typeList(id, c.firstOfType(n, "extends_interfaces"))
	case "enum_declaration":
		c.typeList(id, n.ChildByFieldName("interfaces"))
	case "record_declaration":
		c.typeList(id, n.ChildByFieldName("interfaces"))
		for _, p := range c.namedOfType(n.ChildByFieldName("parameters"), "formal_parameter") {
			c.attach(id, syntax.LocBodyDeclarations, c.recordComponent(p))
		}
	}
	c.bodyDecls(id, n.ChildByFieldName("body"))
	return id
}

// typeList attaches the types of a super_interfaces or extends_interfaces clause.
func (c *converter) typeList(id syntax.NodeID, clause *sitter.Node) {
	for _, list := range c.namedOfType(clause, "type_list") {
		for _, t := range c.named(list) {
			c.attach(id, syntax.LocSuperInterfaceTypes, c.typ(t))
		}
	}
}

// recordComponent declares the private field behind a record component.
func (c *converter) recordComponent(p *sitter.Node) syntax.NodeID {
	id := c.add(syntax.KindFieldDecl, p, "")
	c.b.At(id).Flags |= syntax.FlagFinal
	c.attach(id, syntax.LocType, c.typ(p.ChildByFieldName("type")))
	frag := c.add(syntax.KindVarDeclFragment, p, "")
	c.attach(frag, syntax.LocName, c.name(p.ChildByFieldName("name")))
	c.attach(id, syntax.LocFragments, frag)
	return id
}

func (c *converter) bodyDecls(id syntax.NodeID, body *sitter.Node) {
	for _, k := range c.named(body) {
		switch k.Type() {
		case "enum_constant":
			c.attach(id, syntax.LocEnumConstants, c.enumConstant(k))
		case "enum_body_declarations":
			c.bodyDecls(id, k)
		default:
			c.attach(id, syntax.LocBodyDeclarations, c.member(k))
		}
	}
}

func (c *converter) member(n *sitter.Node) syntax.NodeID {
	switch t := n.Type(); {
	case isTypeDeclaration(t):
		return c.typeDecl(n)
	case t == "field_declaration" || t == "constant_declaration":
		id := c.add(syntax.KindFieldDecl, n, "")
		c.variables(id, n)
		return id
	case t == "method_declaration" || t == "constructor_declaration" || t == "compact_constructor_declaration":
		return c.method(n)
	case t == "annotation_type_element_declaration":
		id := c.add(syntax.KindAnnotationTypeMemberDecl, n, "")
		c.modifiers(id, n)
		c.attach(id, syntax.LocType, c.typ(n.ChildByFieldName("type")))
		c.attach(id, syntax.LocName, c.name(n.ChildByFieldName("name")))
		c.attach(id, syntax.LocValue, c.elementValue(n.ChildByFieldName("value")))
		return id
	case t == "block":
		id := c.add(syntax.KindInitializer, n, "")
		c.attach(id, syntax.LocBody, c.stmt(n))
		return id
	case t == "static_initializer":
		id := c.add(syntax.KindInitializer, n, "")
		c.b.At(id).Flags |= syntax.FlagStatic
		c.attach(id, syntax.LocBody, c.stmt(c.firstOfType(n, "block")))
		return id
	}
	return c.unsupported(n)
}

func (c *converter) enumConstant(n *sitter.Node) syntax.NodeID {
	id := c.add(syntax.KindEnumConstantDecl, n, "")
	c.modifiers(id, n)
	c.attach(id, syntax.LocName, c.name(n.ChildByFieldName("name")))
	c.arguments(id, n.ChildByFieldName("arguments"))
	if body := n.ChildByFieldName("body"); body != nil {
		c.attach(id, syntax.LocAnonymousClass, c.anonymousClass(body))
	}
	return id
}

func (c *converter) anonymousClass(body *sitter.Node) syntax.NodeID {
	id := c.add(syntax.KindAnonymousClassDecl, body, "")
	c.bodyDecls(id, body)
	return id
}

func (c *converter) method(n *sitter.Node) syntax.NodeID {
	id := c.add(syntax.KindMethodDecl, n, "")
	c.modifiers(id, n)
	if n.Type() != "method_declaration" {
		c.b.At(id).Flags |= syntax.FlagConstructor
	}
	c.typeParameters(id, n.ChildByFieldName("type_parameters"))
	c.attach(id, syntax.LocReturnType, c.typ(n.ChildByFieldName("type")))
	c.attach(id, syntax.LocName, c.name(n.ChildByFieldName("name")))
	c.parameters(id, n.ChildByFieldName("parameters"))
	if d := n.ChildByFieldName("dimensions"); d != nil {
		c.b.At(id).Dims = c.dims(d)
	}
	for _, throws := range c.namedOfType(n, "throws") {
		for _, t := range c.named(throws) {
			c.attach(id, syntax.LocThrownExceptionTypes, c.typ(t))
		}
	}
	c.attach(id, syntax.LocBody, c.stmt(n.ChildByFieldName("body")))
	return id
}

func (c *converter) parameters(id syntax.NodeID, params *sitter.Node) {
	for _, p := range c.named(params) {
		switch p.Type() {
		case "formal_parameter":
			c.attach(id, syntax.LocParameters, c.formalParameter(p))
		case "spread_parameter":
			c.attach(id, syntax.LocParameters, c.spreadParameter(p))
		}
	}
}

func (c *converter) formalParameter(p *sitter.Node) syntax.NodeID {
	id := c.add(syntax.KindSingleVarDecl, p, "")
	c.modifiers(id, p)
	c.attach(id, syntax.LocType, c.typ(p.ChildByFieldName("type")))
	c.attach(id, syntax.LocName, c.name(p.ChildByFieldName("name")))
	if d := p.ChildByFieldName("dimensions"); d != nil {
		c.b.At(id).Dims = c.dims(d)
	}
	return id
}

// spreadParameter converts `T... name`, whose parts carry no field names in the grammar.
func (c *converter) spreadParameter(p *sitter.Node) syntax.NodeID {
	id := c.add(syntax.KindSingleVarDecl, p, "")
	c.b.At(id).Flags |= syntax.FlagVarargs
	c.modifiers(id, p)
	for _, k := range c.named(p) {
		switch k.Type() {
		case "modifiers":
		case "variable_declarator":
			c.attach(id, syntax.LocName, c.name(k.ChildByFieldName("name")))
			if d := k.ChildByFieldName("dimensions"); d != nil {
				c.b.At(id).Dims = c.dims(d)
			}
		default:
			c.attach(id, syntax.LocType, c.typ(k))
		}
	}
	return id
}

// variables fills a field or local variable declaration: modifiers, type and declarators.
func (c *converter) variables(id syntax.NodeID, n *sitter.Node) {
	c.modifiers(id, n)
	c.attach(id, syntax.LocType, c.typ(n.ChildByFieldName("type")))
	for _, d := range c.namedOfType(n, "variable_declarator") {
		c.attach(id, syntax.LocFragments, c.declarator(d))
	}
}

func (c *converter) declarator(d *sitter.Node) syntax.NodeID {
	id := c.add(syntax.KindVarDeclFragment, d, "")
	c.attach(id, syntax.LocName, c.name(d.ChildByFieldName("name")))
	if dims := d.ChildByFieldName("dimensions"); dims != nil {
		c.b.At(id).Dims = c.dims(dims)
	}
	c.attach(id, syntax.LocInitializer, c.expr(d.ChildByFieldName("value")))
	return id
}

func (c *converter) typeParameters(id syntax.NodeID, params *sitter.Node) {
	for _, p := range c.namedOfType(params, "type_parameter") {
		tp := c.add(syntax.KindTypeParameter, p, "")
		for _, k := range c.named(p) {
			switch k.Type() {
			case "identifier", "type_identifier":
				c.attach(tp, syntax.LocName, c.name(k))
			case "type_bound":
				for _, b := range c.named(k) {
					c.attach(tp, syntax.LocTypeBounds, c.typ(b))
				}
			}
		}
		c.attach(id, syntax.LocTypeParameters, tp)
	}
}

// modifiers turns the modifier keywords of n into flags and keeps its annotations.
func (c *converter) modifiers(id syntax.NodeID, n *sitter.Node) {
	mods := c.firstOfType(n, "modifiers")
	if mods == nil {
		return
	}
	for i := 0; i < int(mods.ChildCount()); i++ {
		k := mods.Child(i)
		switch k.Type() {
		case "static":
			c.b.At(id).Flags |= syntax.FlagStatic
		case "abstract":
			c.b.At(id).Flags |= syntax.FlagAbstract
		case "final":
			c.b.At(id).Flags |= syntax.FlagFinal
		case "default":
			c.b.At(id).Flags |= syntax.FlagDefault
		case "marker_annotation", "annotation":
			c.attach(id, syntax.LocModifiers, c.annotation(k))
		}
	}
}

// --- annotations ---

func (c *converter) annotation(n *sitter.Node) syntax.NodeID {
	name := c.name(n.ChildByFieldName("name"))
	if n.Type() == "marker_annotation" {
		id := c.add(syntax.KindMarkerAnnotation, n, "")
		c.attach(id, syntax.LocTypeName, name)
		return id
	}
	args := c.named(n.ChildByFieldName("arguments"))
	if len(args) == 1 && args[0].Type() != "element_value_pair" {
		id := c.add(syntax.KindSingleMemberAnnotation, n, "")
		c.attach(id, syntax.LocTypeName, name)
		c.attach(id, syntax.LocValue, c.elementValue(args[0]))
		return id
	}
	id := c.add(syntax.KindNormalAnnotation, n, "")
	c.attach(id, syntax.LocTypeName, name)
	for _, pair := range args {
		if pair.Type() != "element_value_pair" {
			continue
		}
		mvp := c.add(syntax.KindMemberValuePair, pair, "")
		c.attach(mvp, syntax.LocName, c.name(pair.ChildByFieldName("key")))
		c.attach(mvp, syntax.LocValue, c.elementValue(pair.ChildByFieldName("value")))
		c.attach(id, syntax.LocValue, mvp)
	}
	return id
}

func (c *converter) elementValue(n *sitter.Node) syntax.NodeID {
	if c.skip(n) {
		return syntax.NoNode
	}
	switch n.Type() {
	case "marker_annotation", "annotation":
		return c.annotation(n)
	case "element_value_array_initializer":
		id := c.add(syntax.KindArrayInitializer, n, "")
		for _, v := range c.named(n) {
			c.attach(id, syntax.LocExpressions, c.elementValue(v))
		}
		return id
	}
	return c.expr(n)
}

// --- names and types ---

// name converts identifiers and dotted identifier chains into simple or qualified names.
func (c *converter) name(n *sitter.Node) syntax.NodeID {
	if c.skip(n) {
		return syntax.NoNode
	}
	switch n.Type() {
	case "scoped_identifier", "scoped_type_identifier":
		parts := c.named(n)
		if len(parts) < 2 {
			return c.unsupported(n)
		}
		id := c.add(syntax.KindQualifiedName, n, "")
		c.attach(id, syntax.LocQualifier, c.name(parts[0]))
		c.attach(id, syntax.LocName, c.name(parts[len(parts)-1]))
		return id
	case "field_access":
		id := c.add(syntax.KindQualifiedName, n, "")
		c.attach(id, syntax.LocQualifier, c.name(n.ChildByFieldName("object")))
		c.attach(id, syntax.LocName, c.name(n.ChildByFieldName("field")))
		return id
	}
	return c.add(syntax.KindSimpleName, n, c.text(n))
}

// isNameChain reports identifiers and field accesses made only of identifiers, which
// convert to names rather than field accesses.
func (c *converter) isNameChain(n *sitter.Node) bool {
	switch {
	case n == nil:
		return false
	case n.Type() == "identifier":
		return true
	case n.Type() == "field_access":
		f := n.ChildByFieldName("field")
		return f != nil && f.Type() == "identifier" && !hasQualifiedSuper(n, n.ChildByFieldName("object")) &&
			c.isNameChain(n.ChildByFieldName("object"))
	}
	return false
}

// hasQualifiedSuper reports the `X.super` form, where super is not the object itself.
func hasQualifiedSuper(n, object *sitter.Node) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		k := n.Child(i)
		if k.Type() == "super" && (object == nil || k.StartByte() != object.StartByte()) {
			return true
		}
	}
	return false
}

func (c *converter) typ(n *sitter.Node) syntax.NodeID {
	if c.skip(n) {
		return syntax.NoNode
	}
	switch n.Type() {
	case "integral_type", "floating_point_type", "boolean_type", "void_type":
		return c.add(syntax.KindPrimitiveType, n, c.text(n))
	case "type_identifier", "identifier":
		id := c.add(syntax.KindSimpleType, n, "")
		c.attach(id, syntax.LocName, c.name(n))
		return id
	case "scoped_type_identifier":
		parts := c.named(n)
		if len(parts) > 0 && parts[0].Type() == "generic_type" {
			id := c.add(syntax.KindQualifiedType, n, "")
			c.attach(id, syntax.LocQualifier, c.typ(parts[0]))
			c.attach(id, syntax.LocName, c.name(parts[len(parts)-1]))
			return id
		}
		id := c.add(syntax.KindSimpleType, n, "")
		c.attach(id, syntax.LocName, c.name(n))
		return id
	case "generic_type":
		parts := c.named(n)
		if len(parts) == 0 {
			return c.unsupported(n)
		}
		id := c.add(syntax.KindParameterizedType, n, "")
		c.attach(id, syntax.LocType, c.typ(parts[0]))
		for _, args := range c.namedOfType(n, "type_arguments") {
			for _, a := range c.named(args) {
				c.attach(id, syntax.LocTypeArguments, c.typ(a))
			}
		}
		return id
	case "array_type":
		id := c.add(syntax.KindArrayType, n, "")
		c.b.At(id).Dims = c.dims(n.ChildByFieldName("dimensions"))
		c.attach(id, syntax.LocElementType, c.typ(n.ChildByFieldName("element")))
		return id
	case "wildcard":
		id := c.add(syntax.KindWildcardType, n, "")
		for i := 0; i < int(n.ChildCount()); i++ {
			k := n.Child(i)
			switch {
			case k.Type() == "extends":
				c.b.At(id).Flags |= syntax.FlagUpperBound
			case k.Type() == "super" || k.Type() == "?" || !k.IsNamed():
			case k.Type() == "marker_annotation" || k.Type() == "annotation":
			default:
				c.attach(id, syntax.LocBound, c.typ(k))
			}
		}
		return id
	case "annotated_type":
		if parts := c.named(n); len(parts) > 0 {
			return c.typ(parts[len(parts)-1])
		}
	}
	return c.unsupported(n)
}

func isTypeNode(t string) bool {
	switch t {
	case "integral_type", "floating_point_type", "boolean_type", "void_type", "type_identifier",
		"scoped_type_identifier", "generic_type", "array_type", "annotated_type":
		return true
	}
	return false
}

// --- statements ---

func (c *converter) stmt(n *sitter.Node) syntax.NodeID {
	if c.skip(n) {
		return syntax.NoNode
	}
	switch t := n.Type(); t {
	case "block", "constructor_body":
		id := c.add(syntax.KindBlock, n, "")
		c.statements(id, syntax.LocStatements, n)
		return id
	case "local_variable_declaration":
		id := c.add(syntax.KindVarDeclStmt, n, "")
		c.variables(id, n)
		return id
	case "expression_statement":
		id := c.add(syntax.KindExprStmt, n, "")
		if e := c.named(n); len(e) > 0 {
			c.attach(id, syntax.LocExpression, c.expr(e[0]))
		}
		return id
	case "if_statement":
		id := c.add(syntax.KindIfStmt, n, "")
		c.attach(id, syntax.LocExpression, c.condition(n.ChildByFieldName("condition")))
		c.attach(id, syntax.LocThenExpression, c.stmt(n.ChildByFieldName("consequence")))
		c.attach(id, syntax.LocElseStatement, c.stmt(n.ChildByFieldName("alternative")))
		return id
	case "while_statement":
		id := c.add(syntax.KindWhileStmt, n, "")
		c.attach(id, syntax.LocExpression, c.condition(n.ChildByFieldName("condition")))
		c.attach(id, syntax.LocBody, c.stmt(n.ChildByFieldName("body")))
		return id
	case "do_statement":
		id := c.add(syntax.KindDoStmt, n, "")
		c.attach(id, syntax.LocBody, c.stmt(n.ChildByFieldName("body")))
		c.attach(id, syntax.LocExpression, c.condition(n.ChildByFieldName("condition")))
		return id
	case "for_statement":
		return c.forStmt(n)
	case "enhanced_for_statement":
		id := c.add(syntax.KindEnhancedForStmt, n, "")
		param := c.add(syntax.KindSingleVarDecl, n, "")
		c.modifiers(param, n)
		c.attach(param, syntax.LocType, c.typ(n.ChildByFieldName("type")))
		c.attach(param, syntax.LocName, c.name(n.ChildByFieldName("name")))
		if d := n.ChildByFieldName("dimensions"); d != nil {
			c.b.At(param).Dims = c.dims(d)
		}
		c.attach(id, syntax.LocParameter, param)
		c.attach(id, syntax.LocExpression, c.expr(n.ChildByFieldName("value")))
		c.attach(id, syntax.LocBody, c.stmt(n.ChildByFieldName("body")))
		return id
	case "return_statement", "throw_statement", "yield_statement":
		kind := map[string]syntax.Kind{
			"return_statement": syntax.KindReturnStmt,
			"throw_statement":  syntax.KindThrowStmt,
			"yield_statement":  syntax.KindYieldStmt,
		}[t]
		id := c.add(kind, n, "")
		if e := c.named(n); len(e) > 0 {
			c.attach(id, syntax.LocExpression, c.expr(e[0]))
		}
		return id
	case "try_statement", "try_with_resources_statement":
		return c.tryStmt(n)
	case "switch_expression", "switch_statement":
		return c.switchNode(syntax.KindSwitchStmt, n)
	case "assert_statement":
		id := c.add(syntax.KindAssertStmt, n, "")
		parts := c.named(n)
		if len(parts) > 0 {
			c.attach(id, syntax.LocExpression, c.expr(parts[0]))
		}
		if len(parts) > 1 {
			c.attach(id, syntax.LocMessage, c.expr(parts[1]))
		}
		return id
	case "synchronized_statement":
		id := c.add(syntax.KindSynchronizedStmt, n, "")
		c.attach(id, syntax.LocExpression, c.condition(c.firstOfType(n, "parenthesized_expression")))
		c.attach(id, syntax.LocBody, c.stmt(n.ChildByFieldName("body")))
		return id
	case "labeled_statement":
		if parts := c.named(n); len(parts) > 1 {
			return c.stmt(parts[len(parts)-1])
		}
		return syntax.NoNode
	case "explicit_constructor_invocation":
		return c.constructorCall(n)
	case "break_statement":
		return c.add(syntax.KindBreakStmt, n, "")
	case "continue_statement":
		return c.add(syntax.KindContinueStmt, n, "")
	case ";":
		return c.add(syntax.KindEmptyStmt, n, "")
	}
	if isTypeDeclaration(n.Type()) {
		return c.typeDecl(n)
	}
	return c.unsupported(n)
}

// statements converts every statement child of n into the given slot of id.
func (c *converter) statements(id syntax.NodeID, loc syntax.Location, n *sitter.Node) {
	for _, k := range c.named(n) {
		c.attach(id, loc, c.stmt(k))
	}
}

// condition unwraps the parentheses the grammar keeps around statement conditions.
func (c *converter) condition(n *sitter.Node) syntax.NodeID {
	if n != nil && n.Type() == "parenthesized_expression" {
		if inner := c.named(n); len(inner) > 0 {
			return c.expr(inner[0])
		}
		return syntax.NoNode
	}
	return c.expr(n)
}

// forStmt splits the header positionally: the grammar names its init, condition and
// update parts but they may repeat, so the semicolons tell them apart.
func (c *converter) forStmt(n *sitter.Node) syntax.NodeID {
	id := c.add(syntax.KindForStmt, n, "")
	phase := 0
	for i := 0; i < int(n.ChildCount()); i++ {
		k := n.Child(i)
		switch k.Type() {
		case ";":
			phase++
			continue
		case ")":
			phase = 3
			continue
		}
		if !k.IsNamed() || c.skip(k) {
			continue
		}
		switch phase {
		case 0:
			if k.Type() == "local_variable_declaration" {
				decl := c.add(syntax.KindVarDeclExpr, k, "")
				c.variables(decl, k)
				c.attach(id, syntax.LocInitializers, decl)
				phase = 1
			} else {
				c.attach(id, syntax.LocInitializers, c.expr(k))
			}
		case 1:
			c.attach(id, syntax.LocExpression, c.expr(k))
		case 2:
			c.attach(id, syntax.LocUpdaters, c.expr(k))
		default:
			c.attach(id, syntax.LocBody, c.stmt(k))
		}
	}
	return id
}

func (c *converter) tryStmt(n *sitter.Node) syntax.NodeID {
	id := c.add(syntax.KindTryStmt, n, "")
	for _, r := range c.named(n.ChildByFieldName("resources")) {
		if r.Type() != "resource" {
			continue
		}
		if r.ChildByFieldName("type") == nil {
			if parts := c.named(r); len(parts) > 0 {
				c.attach(id, syntax.LocResources, c.expr(parts[0]))
			}
			continue
		}
		decl := c.add(syntax.KindVarDeclExpr, r, "")
		c.modifiers(decl, r)
		c.attach(decl, syntax.LocType, c.typ(r.ChildByFieldName("type")))
		frag := c.add(syntax.KindVarDeclFragment, r, "")
		c.attach(frag, syntax.LocName, c.name(r.ChildByFieldName("name")))
		c.attach(frag, syntax.LocInitializer, c.expr(r.ChildByFieldName("value")))
		c.attach(decl, syntax.LocFragments, frag)
		c.attach(id, syntax.LocResources, decl)
	}
	c.attach(id, syntax.LocBody, c.stmt(n.ChildByFieldName("body")))
	for _, k := range c.named(n) {
		switch k.Type() {
		case "catch_clause":
			c.attach(id, syntax.LocCatchClauses, c.catchClause(k))
		case "finally_clause":
			c.attach(id, syntax.LocFinally, c.stmt(c.firstOfType(k, "block")))
		}
	}
	return id
}

// catchClause keeps the first alternative of a multi-catch as the exception type.
func (c *converter) catchClause(n *sitter.Node) syntax.NodeID {
	id := c.add(syntax.KindCatchClause, n, "")
	if p := c.firstOfType(n, "catch_formal_parameter"); p != nil {
		param := c.add(syntax.KindSingleVarDecl, p, "")
		c.modifiers(param, p)
		if ct := c.firstOfType(p, "catch_type"); ct != nil {
			if alts := c.named(ct); len(alts) > 0 {
				c.attach(param, syntax.LocType, c.typ(alts[0]))
			}
		}
		c.attach(param, syntax.LocName, c.name(p.ChildByFieldName("name")))
		c.attach(id, syntax.LocException, param)
	}
	c.attach(id, syntax.LocBody, c.stmt(n.ChildByFieldName("body")))
	return id
}

// switchNode converts a switch of either form. Arrow rules with an expression body keep
// the bare expression when the switch is itself an expression.
func (c *converter) switchNode(kind syntax.Kind, n *sitter.Node) syntax.NodeID {
	id := c.add(kind, n, "")
	c.attach(id, syntax.LocExpression, c.condition(n.ChildByFieldName("condition")))
	for _, group := range c.named(n.ChildByFieldName("body")) {
		sc := c.add(syntax.KindSwitchCase, group, "")
		for _, k := range c.named(group) {
			switch {
			case k.Type() == "switch_label":
				labels := c.named(k)
				if len(labels) == 0 {
					c.b.At(sc).Flags |= syntax.FlagDefault
				}
				for _, e := range labels {
					c.attach(sc, syntax.LocExpressions, c.expr(e))
				}
			case group.Type() == "switch_rule" && kind == syntax.KindSwitchExpr && k.Type() == "expression_statement":
				if e := c.named(k); len(e) > 0 {
					c.attach(sc, syntax.LocBody, c.expr(e[0]))
				}
			default:
				c.attach(sc, syntax.LocBody, c.stmt(k))
			}
		}
		c.attach(id, syntax.LocStatements, sc)
	}
	return id
}

func (c *converter) constructorCall(n *sitter.Node) syntax.NodeID {
	ctor := n.ChildByFieldName("constructor")
	kind := syntax.KindConstructorInvocation
	if ctor != nil && ctor.Type() == "super" {
		kind = syntax.KindSuperConstructorInvocation
	}
	id := c.add(kind, n, "")
	if kind == syntax.KindSuperConstructorInvocation {
		c.attach(id, syntax.LocExpression, c.expr(n.ChildByFieldName("object")))
	}
	c.typeArguments(id, n.ChildByFieldName("type_arguments"))
	c.arguments(id, n.ChildByFieldName("arguments"))
	return id
}

// --- expressions ---

func (c *converter) expr(n *sitter.Node) syntax.NodeID {
	if c.skip(n) {
		return syntax.NoNode
	}
	switch t := n.Type(); t {
	case "identifier":
		return c.name(n)
	case "this":
		return c.add(syntax.KindThisExpr, n, "")
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal",
		"decimal_floating_point_literal", "hex_floating_point_literal":
		return c.add(syntax.KindNumberLiteral, n, c.text(n))
	case "string_literal", "text_block":
		return c.add(syntax.KindStringLiteral, n, c.text(n))
	case "character_literal":
		return c.add(syntax.KindCharLiteral, n, c.text(n))
	case "true", "false":
		return c.add(syntax.KindBooleanLiteral, n, t)
	case "null_literal":
		return c.add(syntax.KindNullLiteral, n, "null")
	case "class_literal":
		id := c.add(syntax.KindTypeLiteral, n, "")
		if parts := c.named(n); len(parts) > 0 {
			c.attach(id, syntax.LocType, c.typ(parts[0]))
		}
		return id
	case "parenthesized_expression":
		id := c.add(syntax.KindParenthesizedExpr, n, "")
		if inner := c.named(n); len(inner) > 0 {
			c.attach(id, syntax.LocExpression, c.expr(inner[0]))
		}
		return id
	case "assignment_expression":
		id := c.add(syntax.KindAssignment, n, "")
		c.b.At(id).Op = c.text(n.ChildByFieldName("operator"))
		c.attach(id, syntax.LocLeftHandSide, c.expr(n.ChildByFieldName("left")))
		c.attach(id, syntax.LocRightHandSide, c.expr(n.ChildByFieldName("right")))
		return id
	case "binary_expression":
		return c.infix(n)
	case "instanceof_expression":
		id := c.add(syntax.KindInstanceOfExpr, n, "")
		c.attach(id, syntax.LocLeftOperand, c.expr(n.ChildByFieldName("left")))
		right := n.ChildByFieldName("right")
		if right == nil {
			right = n.ChildByFieldName("pattern")
		}
		c.attach(id, syntax.LocRightOperand, c.patternType(right))
		return id
	case "unary_expression":
		id := c.add(syntax.KindPrefixExpr, n, "")
		c.b.At(id).Op = c.text(n.ChildByFieldName("operator"))
		c.attach(id, syntax.LocOperand, c.expr(n.ChildByFieldName("operand")))
		return id
	case "update_expression":
		return c.update(n)
	case "ternary_expression":
		id := c.add(syntax.KindConditionalExpr, n, "")
		c.attach(id, syntax.LocExpression, c.expr(n.ChildByFieldName("condition")))
		c.attach(id, syntax.LocThenExpression, c.expr(n.ChildByFieldName("consequence")))
		c.attach(id, syntax.LocElseExpression, c.expr(n.ChildByFieldName("alternative")))
		return id
	case "cast_expression":
		id := c.add(syntax.KindCastExpr, n, "")
		c.attach(id, syntax.LocType, c.typ(n.ChildByFieldName("type")))
		c.attach(id, syntax.LocExpression, c.expr(n.ChildByFieldName("value")))
		return id
	case "method_invocation":
		return c.invocation(n)
	case "object_creation_expression":
		return c.creation(n)
	case "array_creation_expression":
		return c.arrayCreation(n)
	case "array_initializer":
		id := c.add(syntax.KindArrayInitializer, n, "")
		for _, e := range c.named(n) {
			c.attach(id, syntax.LocExpressions, c.expr(e))
		}
		return id
	case "array_access":
		id := c.add(syntax.KindArrayAccess, n, "")
		c.attach(id, syntax.LocArray, c.expr(n.ChildByFieldName("array")))
		c.attach(id, syntax.LocIndex, c.expr(n.ChildByFieldName("index")))
		return id
	case "field_access":
		return c.fieldAccess(n)
	case "lambda_expression":
		return c.lambda(n)
	case "method_reference":
		return c.methodRef(n)
	case "switch_expression":
		return c.switchNode(syntax.KindSwitchExpr, n)
	}
	if isTypeNode(n.Type()) {
		return c.typ(n)
	}
	return c.unsupported(n)
}

// infix flattens left-nested chains of one operator into extended operands.
func (c *converter) infix(n *sitter.Node) syntax.NodeID {
	op := c.text(n.ChildByFieldName("operator"))
	chain := []*sitter.Node{n.ChildByFieldName("right")}
	left := n.ChildByFieldName("left")
	for left != nil && left.Type() == "binary_expression" && c.text(left.ChildByFieldName("operator")) == op {
		chain = append(chain, left.ChildByFieldName("right"))
		left = left.ChildByFieldName("left")
	}
	id := c.add(syntax.KindInfixExpr, n, "")
	c.b.At(id).Op = op
	c.attach(id, syntax.LocLeftOperand, c.expr(left))
	for i := len(chain) - 1; i >= 0; i-- {
		loc := syntax.LocExtendedOperands
		if i == len(chain)-1 {
			loc = syntax.LocRightOperand
		}
		c.attach(id, loc, c.expr(chain[i]))
	}
	return id
}

// patternType takes the type out of an instanceof pattern.
func (c *converter) patternType(n *sitter.Node) syntax.NodeID {
	if n == nil {
		return syntax.NoNode
	}
	switch n.Type() {
	case "type_pattern", "record_pattern":
		if parts := c.named(n); len(parts) > 0 {
			return c.typ(parts[0])
		}
		return syntax.NoNode
	}
	return c.typ(n)
}

func (c *converter) update(n *sitter.Node) syntax.NodeID {
	first := n.Child(0)
	if first != nil && first.IsNamed() {
		id := c.add(syntax.KindPostfixExpr, n, "")
		c.b.At(id).Op = c.text(n.Child(1))
		c.attach(id, syntax.LocOperand, c.expr(first))
		return id
	}
	id := c.add(syntax.KindPrefixExpr, n, "")
	c.b.At(id).Op = c.text(first)
	c.attach(id, syntax.LocOperand, c.expr(n.Child(1)))
	return id
}

func (c *converter) arguments(id syntax.NodeID, args *sitter.Node) {
	for _, a := range c.named(args) {
		c.attach(id, syntax.LocArguments, c.expr(a))
	}
}

func (c *converter) typeArguments(id syntax.NodeID, args *sitter.Node) {
	for _, a := range c.named(args) {
		c.attach(id, syntax.LocTypeArguments, c.typ(a))
	}
}

// receiver converts the object of a call or field access, preferring names.
func (c *converter) receiver(n *sitter.Node) syntax.NodeID {
	if c.isNameChain(n) {
		return c.name(n)
	}
	return c.expr(n)
}

func (c *converter) invocation(n *sitter.Node) syntax.NodeID {
	object := n.ChildByFieldName("object")
	qualifiedSuper := hasQualifiedSuper(n, object)
	var id syntax.NodeID
	switch {
	case object != nil && object.Type() == "super":
		id = c.add(syntax.KindSuperMethodInvocation, n, "")
	case qualifiedSuper:
		id = c.add(syntax.KindSuperMethodInvocation, n, "")
		c.attach(id, syntax.LocQualifier, c.name(object))
	default:
		id = c.add(syntax.KindMethodInvocation, n, "")
		if object != nil {
			c.attach(id, syntax.LocExpression, c.receiver(object))
		}
	}
	c.typeArguments(id, n.ChildByFieldName("type_arguments"))
	c.attach(id, syntax.LocName, c.name(n.ChildByFieldName("name")))
	c.arguments(id, n.ChildByFieldName("arguments"))
	return id
}

func (c *converter) creation(n *sitter.Node) syntax.NodeID {
	id := c.add(syntax.KindClassInstanceCreation, n, "")
	if first := n.Child(0); first != nil && first.Type() != "new" && first.IsNamed() {
		// outer.new Inner()
		c.attach(id, syntax.LocExpression, c.receiver(first))
	}
	c.typeArguments(id, n.ChildByFieldName("type_arguments"))
	c.attach(id, syntax.LocType, c.typ(n.ChildByFieldName("type")))
	c.arguments(id, n.ChildByFieldName("arguments"))
	if body := c.firstOfType(n, "class_body"); body != nil {
		c.attach(id, syntax.LocAnonymousClass, c.anonymousClass(body))
	}
	return id
}

func (c *converter) arrayCreation(n *sitter.Node) syntax.NodeID {
	id := c.add(syntax.KindArrayCreation, n, "")
	dims := 0
	var exprs []syntax.NodeID
	init := syntax.NoNode
	for _, k := range c.named(n) {
		switch k.Type() {
		case "dimensions_expr":
			dims++
			if e := c.named(k); len(e) > 0 {
				exprs = append(exprs, c.expr(e[0]))
			}
		case "dimensions":
			dims += c.dims(k)
		case "array_initializer":
			init = c.expr(k)
		}
	}
	arr := c.add(syntax.KindArrayType, n, "")
	c.b.At(arr).Dims = dims
	c.attach(arr, syntax.LocElementType, c.typ(n.ChildByFieldName("type")))
	c.attach(id, syntax.LocType, arr)
	for _, e := range exprs {
		c.attach(id, syntax.LocDimensions, e)
	}
	c.attach(id, syntax.LocInitializer, init)
	return id
}

func (c *converter) fieldAccess(n *sitter.Node) syntax.NodeID {
	object := n.ChildByFieldName("object")
	field := n.ChildByFieldName("field")
	switch {
	case field != nil && field.Type() == "this":
		id := c.add(syntax.KindThisExpr, n, "")
		c.attach(id, syntax.LocQualifier, c.name(object))
		return id
	case object != nil && object.Type() == "super":
		id := c.add(syntax.KindSuperFieldAccess, n, "")
		c.attach(id, syntax.LocName, c.name(field))
		return id
	case hasQualifiedSuper(n, object):
		id := c.add(syntax.KindSuperFieldAccess, n, "")
		c.attach(id, syntax.LocQualifier, c.name(object))
		c.attach(id, syntax.LocName, c.name(field))
		return id
	case c.isNameChain(n):
		return c.name(n)
	}
	id := c.add(syntax.KindFieldAccess, n, "")
	c.attach(id, syntax.LocExpression, c.expr(object))
	c.attach(id, syntax.LocName, c.name(field))
	return id
}

func (c *converter) lambda(n *sitter.Node) syntax.NodeID {
	id := c.add(syntax.KindLambdaExpr, n, "")
	switch params := n.ChildByFieldName("parameters"); {
	case params == nil:
	case params.Type() == "identifier":
		c.attach(id, syntax.LocParameters, c.untypedParameter(params))
	case params.Type() == "inferred_parameters":
		for _, p := range c.namedOfType(params, "identifier") {
			c.attach(id, syntax.LocParameters, c.untypedParameter(p))
		}
	default:
		c.parameters(id, params)
	}
	body := n.ChildByFieldName("body")
	if body != nil && body.Type() == "block" {
		c.attach(id, syntax.LocBody, c.stmt(body))
	} else {
		c.attach(id, syntax.LocBody, c.expr(body))
	}
	return id
}

func (c *converter) untypedParameter(ident *sitter.Node) syntax.NodeID {
	id := c.add(syntax.KindSingleVarDecl, ident, "")
	c.attach(id, syntax.LocName, c.name(ident))
	return id
}

// methodRef converts `target::name` and `Type::new`; the grammar leaves its parts unnamed.
func (c *converter) methodRef(n *sitter.Node) syntax.NodeID {
	id := c.add(syntax.KindMethodRef, n, "")
	for i := 0; i < int(n.ChildCount()); i++ {
		k := n.Child(i)
		switch {
		case k.Type() == "::":
		case i == 0 && isTypeNode(k.Type()):
			c.attach(id, syntax.LocExpression, c.typ(k))
		case i == 0 && k.Type() != "super":
			c.attach(id, syntax.LocExpression, c.receiver(k))
		case k.Type() == "type_arguments":
			c.typeArguments(id, k)
		case k.Type() == "new":
			c.attach(id, syntax.LocName, c.add(syntax.KindSimpleName, k, "new"))
		case k.Type() == "identifier":
			c.attach(id, syntax.LocName, c.name(k))
		}
	}
	return id
}

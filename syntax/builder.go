package syntax

import "fmt"

// Builder assembles a Tree. Nodes are appended into the arena and attached to their parent
// with an explicit slot; Build freezes the result.
type Builder struct {
	nodes  []Node
	labels map[string]NodeID
}

func NewBuilder() *Builder {
	return &Builder{
		nodes:  make([]Node, 0, 64),
		labels: map[string]NodeID{},
	}
}

// Add appends a detached node and returns its id.
func (b *Builder) Add(n Node) NodeID {
	n.Parent = NoNode
	n.Children = nil
	b.nodes = append(b.nodes, n)
	return NodeID(len(b.nodes) - 1)
}

// Attach places child in the given slot of parent, after any existing children.
func (b *Builder) Attach(parent NodeID, loc Location, child NodeID) error {
	if parent < 0 || int(parent) >= len(b.nodes) || child < 0 || int(child) >= len(b.nodes) {
		return fmt.Errorf("attach %d to %d: node out of range", child, parent)
	}
	c := &b.nodes[child]
	if c.Parent != NoNode {
		return fmt.Errorf("attach %d to %d: already attached to %d", child, parent, c.Parent)
	}
	c.Parent = parent
	c.Loc = loc
	p := &b.nodes[parent]
	p.Children = append(p.Children, child)
	return nil
}

// At returns the node with the given id for in-place edits before Build.
func (b *Builder) At(id NodeID) *Node {
	return &b.nodes[id]
}

// Label names a node so tests and tools can find it after Build.
func (b *Builder) Label(name string, id NodeID) {
	b.labels[name] = id
}

// Build freezes the nodes into a Tree rooted at root.
func (b *Builder) Build(root NodeID) *Tree {
	t := &Tree{nodes: b.nodes, root: root}
	b.nodes = nil
	return t
}

// Labels returns the labelled nodes of a tree produced by this builder.
func (b *Builder) Labels(t *Tree) map[string]Ref {
	out := make(map[string]Ref, len(b.labels))
	for name, id := range b.labels {
		out[name] = t.Get(id)
	}
	return out
}

// Spec describes a subtree declaratively. Slot is ignored on the root.
type Spec struct {
	Kind  Kind
	Slot  Location
	Text  string
	Op    string
	Flags Flags
	Dims  int
	Label string
	Kids  []Spec
}

// FromSpec builds a tree from a nested Spec. Source offsets are synthesized so that every
// parent covers its children, which keeps NodeAt meaningful for built trees.
func FromSpec(root Spec) (*Tree, map[string]Ref) {
	b := NewBuilder()
	offset := 0
	var add func(s Spec) NodeID
	add = func(s Spec) NodeID {
		start := offset
		offset++
		id := b.Add(Node{Kind: s.Kind, Text: s.Text, Op: s.Op, Flags: s.Flags, Dims: s.Dims, Start: start})
		if s.Label != "" {
			b.Label(s.Label, id)
		}
		for _, k := range s.Kids {
			cid := add(k)
			if err := b.Attach(id, k.Slot, cid); err != nil {
				panic(err)
			}
		}
		offset++
		b.nodes[id].End = offset
		return id
	}
	rootID := add(root)
	t := b.Build(rootID)
	return t, b.Labels(t)
}

// --- Spec shorthands ---

// In returns a copy of s placed in the given slot.
func (s Spec) In(loc Location) Spec {
	s.Slot = loc
	return s
}

// As returns a copy of s carrying a label.
func (s Spec) As(label string) Spec {
	s.Label = label
	return s
}

func Name(id string) Spec { return Spec{Kind: KindSimpleName, Text: id} }

// QName builds a qualified name from dotted parts.
func QName(parts ...string) Spec {
	cur := Name(parts[0])
	for _, p := range parts[1:] {
		cur = Spec{Kind: KindQualifiedName, Kids: []Spec{cur.In(LocQualifier), Name(p).In(LocName)}}
	}
	return cur
}

func Prim(keyword string) Spec { return Spec{Kind: KindPrimitiveType, Text: keyword} }

// TypeRef builds a SimpleType around a (possibly dotted) name.
func TypeRef(parts ...string) Spec {
	return Spec{Kind: KindSimpleType, Kids: []Spec{QName(parts...).In(LocName)}}
}

func ArrayOf(elem Spec, dims int) Spec {
	return Spec{Kind: KindArrayType, Dims: dims, Kids: []Spec{elem.In(LocElementType)}}
}

func Generic(base Spec, args ...Spec) Spec {
	kids := []Spec{base.In(LocType)}
	for _, a := range args {
		kids = append(kids, a.In(LocTypeArguments))
	}
	return Spec{Kind: KindParameterizedType, Kids: kids}
}

func Lit(kind Kind, text string) Spec { return Spec{Kind: kind, Text: text} }

func Paren(e Spec) Spec {
	return Spec{Kind: KindParenthesizedExpr, Kids: []Spec{e.In(LocExpression)}}
}

func Infix(op string, left, right Spec, extended ...Spec) Spec {
	kids := []Spec{left.In(LocLeftOperand), right.In(LocRightOperand)}
	for _, e := range extended {
		kids = append(kids, e.In(LocExtendedOperands))
	}
	return Spec{Kind: KindInfixExpr, Op: op, Kids: kids}
}

func Assign(op string, lhs, rhs Spec) Spec {
	return Spec{Kind: KindAssignment, Op: op, Kids: []Spec{lhs.In(LocLeftHandSide), rhs.In(LocRightHandSide)}}
}

// Call builds a method invocation; receiver may be the zero Spec for an unqualified call.
func Call(receiver Spec, name string, args ...Spec) Spec {
	var kids []Spec
	if receiver.Kind != KindInvalid {
		kids = append(kids, receiver.In(LocExpression))
	}
	kids = append(kids, Name(name).In(LocName))
	for _, a := range args {
		kids = append(kids, a.In(LocArguments))
	}
	return Spec{Kind: KindMethodInvocation, Kids: kids}
}

func New(typ Spec, args ...Spec) Spec {
	kids := []Spec{typ.In(LocType)}
	for _, a := range args {
		kids = append(kids, a.In(LocArguments))
	}
	return Spec{Kind: KindClassInstanceCreation, Kids: kids}
}

func ExprStmt(e Spec) Spec { return Spec{Kind: KindExprStmt, Kids: []Spec{e.In(LocExpression)}} }

func Block(stmts ...Spec) Spec {
	kids := make([]Spec, len(stmts))
	for i, s := range stmts {
		kids[i] = s.In(LocStatements)
	}
	return Spec{Kind: KindBlock, Kids: kids}
}

// LocalVar builds `typ name = init;` as a variable declaration statement. init may be the
// zero Spec.
func LocalVar(typ Spec, name string, init Spec) Spec {
	frag := Spec{Kind: KindVarDeclFragment, Kids: []Spec{Name(name).In(LocName)}}
	if init.Kind != KindInvalid {
		frag.Kids = append(frag.Kids, init.In(LocInitializer))
	}
	return Spec{Kind: KindVarDeclStmt, Kids: []Spec{typ.In(LocType), frag.In(LocFragments)}}
}

// Param builds a single variable declaration used for parameters.
func Param(typ Spec, name string) Spec {
	return Spec{Kind: KindSingleVarDecl, Kids: []Spec{typ.In(LocType), Name(name).In(LocName)}}
}

// Method builds a method declaration. ret may be the zero Spec for constructors.
func Method(flags Flags, ret Spec, name string, params []Spec, body Spec) Spec {
	s := Spec{Kind: KindMethodDecl, Flags: flags}
	if ret.Kind != KindInvalid {
		s.Kids = append(s.Kids, ret.In(LocReturnType))
	}
	s.Kids = append(s.Kids, Name(name).In(LocName))
	for _, p := range params {
		s.Kids = append(s.Kids, p.In(LocParameters))
	}
	if body.Kind != KindInvalid {
		s.Kids = append(s.Kids, body.In(LocBody))
	}
	return s
}

// Class builds a class declaration. Members without a slot become body declarations, so
// supertypes and type parameters can be passed with an explicit In.
func Class(name string, members ...Spec) Spec {
	s := Spec{Kind: KindTypeDecl, Kids: []Spec{Name(name).In(LocName)}}
	for _, m := range members {
		if m.Slot == LocNone {
			m = m.In(LocBodyDeclarations)
		}
		s.Kids = append(s.Kids, m)
	}
	return s
}

// Unit wraps type declarations into a compilation unit.
func Unit(types ...Spec) Spec {
	s := Spec{Kind: KindCompilationUnit}
	for _, t := range types {
		s.Kids = append(s.Kids, t.In(LocTypes))
	}
	return s
}

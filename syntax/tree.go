package syntax

import (
	"fmt"
	"strings"
)

// NodeID indexes a node inside its Tree.
type NodeID int32

// NoNode is the parent of a root node.
const NoNode NodeID = -1

// Node is the stored form of a syntax node. Parent links are indices, so the tree owns every
// node and nothing points back into it.
type Node struct {
	Kind     Kind
	Loc      Location
	Parent   NodeID
	Children []NodeID

	// Text holds identifiers, literal tokens, primitive keywords and javadoc tag names.
	Text string
	// Op holds the operator of assignments, infix, prefix and postfix expressions.
	Op    string
	Flags Flags
	// Dims counts extra array dimensions on declarations and the dimensions of array types.
	Dims int

	Start, End int // byte offsets in the source, End exclusive
}

// Tree is an immutable, arena-backed syntax tree.
type Tree struct {
	nodes []Node
	root  NodeID
}

// Root returns the root node of the tree.
func (t *Tree) Root() Ref {
	if t == nil || len(t.nodes) == 0 {
		return Ref{}
	}
	return Ref{t, t.root}
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Get returns a handle for the given id.
func (t *Tree) Get(id NodeID) Ref {
	if t == nil || id < 0 || int(id) >= len(t.nodes) {
		return Ref{}
	}
	return Ref{t, id}
}

// NodeAt returns the innermost node whose source range covers offset.
func (t *Tree) NodeAt(offset int) Ref {
	found := Ref{}
	cur := t.Root()
	for !cur.IsNil() {
		n := cur.node()
		if offset < n.Start || offset > n.End {
			break
		}
		found = cur
		next := Ref{}
		for _, c := range n.Children {
			cn := &t.nodes[c]
			if offset >= cn.Start && offset <= cn.End && cn.End > cn.Start {
				next = Ref{t, c}
				break
			}
		}
		cur = next
	}
	return found
}

// Validate checks that every child occupies a slot its parent kind actually has and that
// parent links agree with child lists.
func (t *Tree) Validate() error {
	for i := range t.nodes {
		n := &t.nodes[i]
		for _, c := range n.Children {
			child := &t.nodes[c]
			if child.Parent != NodeID(i) {
				return fmt.Errorf("node %d (%s): child %d has parent %d", i, n.Kind, c, child.Parent)
			}
			if !ValidSlot(n.Kind, child.Loc) {
				return fmt.Errorf("node %d (%s): child %d (%s) in invalid slot %s", i, n.Kind, c, child.Kind, child.Loc)
			}
		}
	}
	return nil
}

// Ref is a handle to a node in a tree. The zero Ref stands for "no node".
type Ref struct {
	tree *Tree
	id   NodeID
}

func (r Ref) node() *Node { return &r.tree.nodes[r.id] }

// IsNil reports whether r refers to no node.
func (r Ref) IsNil() bool { return r.tree == nil }

func (r Ref) ID() NodeID {
	if r.IsNil() {
		return NoNode
	}
	return r.id
}

func (r Ref) Tree() *Tree { return r.tree }

func (r Ref) Kind() Kind {
	if r.IsNil() {
		return KindInvalid
	}
	return r.node().Kind
}

func (r Ref) Loc() Location {
	if r.IsNil() {
		return LocNone
	}
	return r.node().Loc
}

func (r Ref) Text() string {
	if r.IsNil() {
		return ""
	}
	return r.node().Text
}

func (r Ref) Op() string {
	if r.IsNil() {
		return ""
	}
	return r.node().Op
}

func (r Ref) Flags() Flags {
	if r.IsNil() {
		return 0
	}
	return r.node().Flags
}

func (r Ref) Dims() int {
	if r.IsNil() {
		return 0
	}
	return r.node().Dims
}

func (r Ref) Pos() int {
	if r.IsNil() {
		return -1
	}
	return r.node().Start
}

func (r Ref) End() int {
	if r.IsNil() {
		return -1
	}
	return r.node().End
}

// Is reports whether r has one of the given kinds.
func (r Ref) Is(kinds ...Kind) bool {
	k := r.Kind()
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// Parent returns the containing node, or the zero Ref at the root.
func (r Ref) Parent() Ref {
	if r.IsNil() || r.node().Parent == NoNode {
		return Ref{}
	}
	return Ref{r.tree, r.node().Parent}
}

// Children returns all children in source order.
func (r Ref) Children() []Ref {
	if r.IsNil() {
		return nil
	}
	ids := r.node().Children
	out := make([]Ref, len(ids))
	for i, c := range ids {
		out[i] = Ref{r.tree, c}
	}
	return out
}

// ChildrenAt returns the children occupying the given slot, in order.
func (r Ref) ChildrenAt(loc Location) []Ref {
	if r.IsNil() {
		return nil
	}
	var out []Ref
	for _, c := range r.node().Children {
		if r.tree.nodes[c].Loc == loc {
			out = append(out, Ref{r.tree, c})
		}
	}
	return out
}

// Child returns the first child in the given slot.
func (r Ref) Child(loc Location) Ref {
	if r.IsNil() {
		return Ref{}
	}
	for _, c := range r.node().Children {
		if r.tree.nodes[c].Loc == loc {
			return Ref{r.tree, c}
		}
	}
	return Ref{}
}

// IndexIn returns the position of r among its siblings sharing its slot, or -1.
func (r Ref) IndexIn() int {
	p := r.Parent()
	if p.IsNil() {
		return -1
	}
	for i, s := range p.ChildrenAt(r.Loc()) {
		if s == r {
			return i
		}
	}
	return -1
}

// Source returns the source text covered by r.
func (r Ref) Source(src []byte) string {
	if r.IsNil() {
		return ""
	}
	n := r.node()
	if n.Start < 0 || n.End > len(src) || n.Start > n.End {
		return ""
	}
	return string(src[n.Start:n.End])
}

// QualifiedName renders a SimpleName, QualifiedName, SimpleType or QualifiedType as a dotted name.
func (r Ref) QualifiedName() string {
	switch r.Kind() {
	case KindSimpleName:
		return r.Text()
	case KindSimpleType:
		if name := r.Child(LocName); !name.IsNil() {
			return name.QualifiedName()
		}
		return r.Text()
	case KindQualifiedName, KindQualifiedType:
		q := r.Child(LocQualifier).QualifiedName()
		n := r.Child(LocName).Text()
		if q == "" {
			return n
		}
		return q + "." + n
	}
	return ""
}

func (r Ref) String() string {
	if r.IsNil() {
		return "<nil>"
	}
	var sb strings.Builder
	sb.WriteString(r.Kind().String())
	if t := r.Text(); t != "" {
		fmt.Fprintf(&sb, "(%s)", t)
	} else if op := r.Op(); op != "" {
		fmt.Fprintf(&sb, "(%s)", op)
	}
	fmt.Fprintf(&sb, "@%d", r.id)
	return sb.String()
}

// CheckSlot verifies that r sits in a slot its parent actually has and that the parent
// lists r among its children. A root must not claim a slot.
func (r Ref) CheckSlot() error {
	if r.IsNil() {
		return nil
	}
	p := r.Parent()
	if p.IsNil() {
		if r.Loc() != LocNone {
			return fmt.Errorf("node %s: root claims slot %s", r, r.Loc())
		}
		return nil
	}
	if !ValidSlot(p.Kind(), r.Loc()) {
		return fmt.Errorf("node %s: invalid slot %s in %s", r, r.Loc(), p)
	}
	for _, c := range p.node().Children {
		if c == r.id {
			return nil
		}
	}
	return fmt.Errorf("node %s: missing from children of %s", r, p)
}

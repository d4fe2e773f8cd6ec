// Package binder resolves the types and methods that nodes of a syntax tree refer to. It
// enters every declaration of the tree into a private extension of a type universe and
// then answers queries against it without further mutation, so one binder may serve many
// concurrent queries.
package binder

import (
	"log/slog"

	"github.com/panyam/typeguess/syntax"
	"github.com/panyam/typeguess/typesys"
)

// Binder is the oracle over one tree.
type Binder struct {
	ErrorCollector

	tree   *syntax.Tree
	u      *typesys.Universe
	logger *slog.Logger

	types    map[syntax.NodeID]*typesys.Type   // type declarations, anonymous classes included
	typeVars map[syntax.NodeID]*typesys.Type   // type parameters
	methods  map[syntax.NodeID]*typesys.Method // method and annotation member declarations
	fields   map[syntax.NodeID]*typesys.Field  // field fragments and enum constants
}

type Option func(*Binder)

func WithLogger(l *slog.Logger) Option {
	return func(b *Binder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithMaxErrors caps how many declaration errors are kept.
func WithMaxErrors(n int) Option {
	return func(b *Binder) { b.MaxErrors = n }
}

// New enters the declarations of tree on top of base. base itself is never modified.
// Problems with individual declarations are collected in Errors; the binder is usable
// regardless.
func New(tree *syntax.Tree, base *typesys.Universe, opts ...Option) *Binder {
	b := &Binder{
		tree:     tree,
		u:        base.Extend(),
		logger:   slog.Default(),
		types:    map[syntax.NodeID]*typesys.Type{},
		typeVars: map[syntax.NodeID]*typesys.Type{},
		methods:  map[syntax.NodeID]*typesys.Method{},
		fields:   map[syntax.NodeID]*typesys.Field{},
	}
	for _, opt := range opts {
		opt(b)
	}
	b.enter()
	return b
}

// Universe returns the universe holding the tree's own declarations.
func (b *Binder) Universe() *typesys.Universe { return b.u }

func (b *Binder) Tree() *syntax.Tree { return b.tree }

// DeclaredType returns the type a type declaration node declares.
func (b *Binder) DeclaredType(decl syntax.Ref) *typesys.Type {
	if decl.Tree() != b.tree {
		return nil
	}
	return b.types[decl.ID()]
}

// ResolveType returns the type of an expression, type node or declaration, or nil.
func (b *Binder) ResolveType(n syntax.Ref) *typesys.Type {
	if n.IsNil() || n.Tree() != b.tree {
		return nil
	}
	return newQuery(b).typeOf(n)
}

// ResolveMethod returns the method an invocation, creation, declaration or lambda refers
// to, or nil.
func (b *Binder) ResolveMethod(n syntax.Ref) *typesys.Method {
	if n.IsNil() || n.Tree() != b.tree {
		return nil
	}
	return newQuery(b).methodOf(n)
}

func (b *Binder) WellKnown(name string) *typesys.Type {
	return b.u.Lookup(name)
}

func (b *Binder) FindMethod(t *typesys.Type, name string, arity int) (*typesys.Method, error) {
	return b.u.FindMethod(t, name, arity)
}

// ContextAt returns the method or, outside methods, the type enclosing n as seen by the
// usability checks.
func (b *Binder) ContextAt(n syntax.Ref) (*typesys.Type, *typesys.Method) {
	var m *typesys.Method
	for cur := n.Parent(); !cur.IsNil(); cur = cur.Parent() {
		if cur.Kind().IsTypeDeclaration() {
			return b.types[cur.ID()], m
		}
		if cur.Is(syntax.KindMethodDecl) && m == nil {
			m = b.methods[cur.ID()]
		}
	}
	return nil, m
}

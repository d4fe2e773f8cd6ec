// Package guess infers what type a position in a possibly broken syntax tree is expected
// to have, by looking at how the position's container uses it rather than at the node
// itself. Quick fixes use the answers to propose casts, new declarations and type changes.
package guess

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/panyam/typeguess/syntax"
	"github.com/panyam/typeguess/typesys"
)

// ErrMalformedTree reports a node whose slot does not match its parent's shape. It is the
// only failure inference operations return; missing information is never an error.
var ErrMalformedTree = errors.New("malformed syntax tree")

// Oracle supplies resolved bindings. Implementations return nil when they know nothing;
// the engine never mutates them.
type Oracle interface {
	// ResolveType returns the type of an expression, type node or variable declaration.
	ResolveType(n syntax.Ref) *typesys.Type
	// ResolveMethod returns the callee of an invocation or creation, the method a
	// declaration declares, or the functional method a lambda implements.
	ResolveMethod(n syntax.Ref) *typesys.Method
	// WellKnown looks up "boolean", "int", "java.lang.Object" and friends.
	WellKnown(name string) *typesys.Type
	// FindMethod returns the method t itself declares with the given name and arity.
	FindMethod(t *typesys.Type, name string, arity int) (*typesys.Method, error)
}

// Engine answers expected-type questions. It keeps no per-call state, so one engine may
// serve concurrent calls over a shared tree.
type Engine struct {
	oracle Oracle
	logger *slog.Logger
}

type Option func(*Engine)

// WithLogger routes the engine's debug logging.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func New(oracle Oracle, opts ...Option) *Engine {
	e := &Engine{oracle: oracle, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is one of: a type, a set of admissible type kinds, or no information.
type Result struct {
	Type  *typesys.Type
	Kinds TypeKinds
}

// NoInfo is the result for positions that carry no constraint.
var NoInfo = Result{}

func TypeResult(t *typesys.Type) Result {
	return Result{Type: t}
}

func KindsResult(k TypeKinds) Result {
	return Result{Kinds: k}
}

func (r Result) HasType() bool  { return r.Type != nil }
func (r Result) HasKinds() bool { return r.Type == nil && r.Kinds != 0 }
func (r Result) IsNone() bool   { return r.Type == nil && r.Kinds == 0 }

func (r Result) String() string {
	switch {
	case r.HasType():
		return r.Type.String()
	case r.HasKinds():
		return "kinds(" + r.Kinds.String() + ")"
	}
	return "none"
}

// checkChain validates the slots of n and every ancestor. Inference only ever looks
// upward, so that is all a call depends on.
func checkChain(n syntax.Ref) error {
	for cur := n; !cur.IsNil(); cur = cur.Parent() {
		if err := cur.CheckSlot(); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedTree, err)
		}
	}
	return nil
}

func (e *Engine) wellKnown(name string) *typesys.Type {
	return e.oracle.WellKnown(name)
}

// normalize maps the pseudo types to "no type" and anonymous classes to the type they
// extend or implement, which is the closest name a proposal can use.
func normalize(t *typesys.Type) *typesys.Type {
	if t == nil || t.IsNull() || t.IsVoid() || t.IsRecovered() {
		return nil
	}
	if t.Anonymous {
		if len(t.Interfaces) > 0 {
			return normalize(t.Interfaces[0])
		}
		return normalize(t.Super)
	}
	return t
}

// Guess combines InferExpectedType and AdmissibleTypeKinds: a type when one can be
// inferred, else the admissible kinds when n stands in a type position, else NoInfo.
func (e *Engine) Guess(n syntax.Ref, allowModernKinds bool) (Result, error) {
	res, err := e.InferExpectedType(n)
	if err != nil || res.HasType() {
		return res, err
	}
	if inTypePosition(n) {
		if k := e.AdmissibleTypeKinds(n, allowModernKinds); k != 0 {
			return KindsResult(k), nil
		}
	}
	return NoInfo, nil
}

// inTypePosition reports names and type nodes that denote types: anything inside a type
// node, and names in slots that only ever hold types.
func inTypePosition(n syntax.Ref) bool {
	cur := n
	for cur.Parent().Is(syntax.KindQualifiedName) && cur.Loc() == syntax.LocName {
		cur = cur.Parent()
	}
	if cur.Kind().IsType() || cur.Parent().Kind().IsType() {
		return true
	}
	switch cur.Loc() {
	case syntax.LocTypeName, syntax.LocThrownExceptionTypes, syntax.LocSuperclassType,
		syntax.LocSuperInterfaceTypes, syntax.LocTypeBounds, syntax.LocTypeArguments:
		return true
	}
	return cur.Parent().Is(syntax.KindTagElement)
}

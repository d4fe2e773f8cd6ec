package guess

import (
	"fmt"
	"testing"

	"github.com/panyam/typeguess/syntax"
	"github.com/panyam/typeguess/typesys"
	"github.com/stretchr/testify/require"
)

// tableOracle answers from explicit bindings on top of the embedded JDK universe.
type tableOracle struct {
	u       *typesys.Universe
	types   map[syntax.Ref]*typesys.Type
	methods map[syntax.Ref]*typesys.Method
	broken  map[string]bool
	onFind  func(t *typesys.Type)
}

func newTableOracle(t *testing.T, extraYAML ...string) *tableOracle {
	t.Helper()
	u, err := typesys.JDK()
	require.NoError(t, err)
	for _, doc := range extraYAML {
		require.NoError(t, u.LoadYAML([]byte(doc)))
	}
	return &tableOracle{
		u:       u,
		types:   map[syntax.Ref]*typesys.Type{},
		methods: map[syntax.Ref]*typesys.Method{},
		broken:  map[string]bool{},
	}
}

// bind gives n the type written in src.
func (o *tableOracle) bind(n syntax.Ref, src string) *typesys.Type {
	if n.IsNil() {
		panic("binding a nil node to " + src)
	}
	t := o.u.MustParse(src)
	o.types[n] = t
	return t
}

func (o *tableOracle) ResolveType(n syntax.Ref) *typesys.Type { return o.types[n] }

func (o *tableOracle) ResolveMethod(n syntax.Ref) *typesys.Method { return o.methods[n] }

func (o *tableOracle) WellKnown(name string) *typesys.Type { return o.u.Lookup(name) }

func (o *tableOracle) FindMethod(t *typesys.Type, name string, arity int) (*typesys.Method, error) {
	if o.onFind != nil {
		o.onFind(t)
	}
	if o.broken[t.Key()] {
		return nil, fmt.Errorf("lookup of %s failed", t)
	}
	return o.u.FindMethod(t, name, arity)
}

func typeNames(ts []*typesys.Type) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.String()
	}
	return out
}

// expectType asserts that the expected type at n renders as want ("" for no information).
func expectType(t *testing.T, e *Engine, n syntax.Ref, want string) {
	t.Helper()
	require.False(t, n.IsNil(), "node for %q", want)
	res, err := e.InferExpectedType(n)
	require.NoError(t, err)
	if want == "" {
		require.True(t, res.IsNone(), "expected no information at %s, got %s", n, res)
		return
	}
	require.True(t, res.HasType(), "expected %s at %s, got %s", want, n, res)
	require.Equal(t, want, res.Type.String(), "at %s", n)
}

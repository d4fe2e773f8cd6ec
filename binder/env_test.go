package binder

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvShadowing(t *testing.T) {
	outer := NewEnv[int](nil)
	outer.Set("a", 1)
	outer.Set("b", 2)

	inner := outer.Push()
	inner.Set("a", 10)
	inner.SetIfAbsent("a", 100)
	inner.SetIfAbsent("c", 3)

	v, ok := inner.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, v)

	v, ok = inner.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	v, ok = outer.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = outer.Get("c")
	assert.False(t, ok)

	assert.Equal(t, []string{"a", "c"}, inner.Keys())
	assert.Equal(t, "Env{store: [a c], outer: true}", inner.String())
}

func TestErrorCollector(t *testing.T) {
	var c ErrorCollector
	assert.False(t, c.HasErrors())
	assert.NoError(t, c.Err())

	assert.False(t, c.Errorf(12, "bad %s", "thing"))
	c.AddErrors(errors.New("plain"))
	require.True(t, c.HasErrors())

	var de *DeclError
	require.ErrorAs(t, c.Err(), &de)
	assert.Equal(t, 12, de.Pos)

	var out bytes.Buffer
	c.WriteErrors(&out)
	assert.Equal(t, "pos 12: bad thing\nplain\n", out.String())

	limited := ErrorCollector{MaxErrors: 2}
	limited.AddErrors(errors.New("1"), errors.New("2"), errors.New("3"))
	assert.Len(t, limited.Errors, 2)
}

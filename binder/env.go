package binder

import (
	"fmt"
	"sort"
)

// Env holds the bindings of one lexical scope. Lookups that miss fall through to the
// enclosing scope.
type Env[T any] struct {
	store map[string]T
	outer *Env[T]
}

// NewEnv creates an environment nested within outer, or a top-level one when outer is nil.
func NewEnv[T any](outer *Env[T]) *Env[T] {
	return &Env[T]{store: map[string]T{}, outer: outer}
}

// Get looks name up here first and then in the enclosing scopes.
func (e *Env[T]) Get(name string) (out T, found bool) {
	for cur := e; cur != nil; cur = cur.outer {
		if v, ok := cur.store[name]; ok {
			return v, true
		}
	}
	return
}

func (e *Env[T]) Set(key string, value T) {
	e.store[key] = value
}

// SetIfAbsent binds key in this scope unless it already is, so earlier bindings shadow
// later ones.
func (e *Env[T]) SetIfAbsent(key string, value T) {
	if _, ok := e.store[key]; !ok {
		e.store[key] = value
	}
}

func (e *Env[T]) Push() *Env[T] {
	return NewEnv(e)
}

// Keys returns the names bound in this scope only, sorted.
func (e *Env[T]) Keys() []string {
	keys := make([]string, 0, len(e.store))
	for k := range e.store {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e *Env[T]) String() string {
	return fmt.Sprintf("Env{store: %v, outer: %v}", e.Keys(), e.outer != nil)
}

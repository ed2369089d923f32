package lang

import (
	"iter"
	"maps"
	"slices"
)

// Environment maps names to values and optionally chains to an enclosing
// environment. Environments are shared by reference: closures and
// activation records observe later writes to any environment in their
// chain.
type Environment struct {
	values    map[string]Value
	enclosing *Environment
}

// NewEnvironment returns an empty environment enclosed by enclosing, which
// may be nil for a global scope.
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{values: make(map[string]Value), enclosing: enclosing}
}

// Define binds name in e, replacing any existing binding in e itself.
// Bindings in enclosing environments are not affected.
func (e *Environment) Define(name string, value Value) {
	if value == nil {
		value = Null{}
	}

	e.values[name] = value
}

// Lookup resolves name by walking outward from e.
func (e *Environment) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// Get resolves name like [Environment.Lookup] but reports an unresolved name
// as an error matching [ErrUndefinedVariable].
func (e *Environment) Get(name string) (Value, error) {
	if v, ok := e.Lookup(name); ok {
		return v, nil
	}

	return nil, newRuntimeError(ErrUndefinedVariable, 0,
		"Undefined variable '"+name+"'.")
}

// Enclosing returns the enclosing environment, or nil.
func (e *Environment) Enclosing() *Environment { return e.enclosing }

// Len returns the number of bindings held directly by e.
func (e *Environment) Len() int { return len(e.values) }

// All iterates over the bindings held directly by e, sorted by name.
func (e *Environment) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, name := range slices.Sorted(maps.Keys(e.values)) {
			if !yield(name, e.values[name]) {
				return
			}
		}
	}
}

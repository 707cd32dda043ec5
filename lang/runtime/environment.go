package runtime

import (
	"github.com/ardnew/lox/lang/token"
)

// Environment is one scope of variable bindings with an optional link to the
// enclosing scope. Closures and active blocks may share an Environment; it
// lives as long as any of them reference it.
type Environment struct {
	enclosing *Environment
	values    map[string]Value
}

// NewEnvironment returns an empty scope enclosed by parent, which is nil for
// the global scope.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{enclosing: parent, values: map[string]Value{}}
}

// Enclosing returns the parent scope, or nil.
func (e *Environment) Enclosing() *Environment { return e.enclosing }

// Define binds name in this scope, replacing any existing binding.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Lookup returns the value of name in this scope only.
func (e *Environment) Lookup(name string) (Value, bool) {
	v, ok := e.values[name]

	return v, ok
}

// Names returns the names bound in this scope, in no particular order.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}

	return names
}

// Get returns the value of name from the nearest scope that binds it.
func (e *Environment) Get(name *token.Token) (Value, error) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values[name.Lexeme]; ok {
			return v, nil
		}
	}

	return nil, undefined(name)
}

// Assign replaces the value of name in the nearest scope that binds it.
// It never creates a binding.
func (e *Environment) Assign(name *token.Token, value Value) error {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = value

			return nil
		}
	}

	return undefined(name)
}

// GetAt returns the value of name in the scope distance links out.
func (e *Environment) GetAt(distance int, name string) Value {
	return e.Ancestor(distance).values[name]
}

// AssignAt sets name in the scope distance links out.
func (e *Environment) AssignAt(distance int, name string, value Value) {
	e.Ancestor(distance).values[name] = value
}

// Ancestor walks exactly distance parent links.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for range distance {
		env = env.enclosing
	}

	return env
}

func undefined(name *token.Token) error {
	return NewRuntimeError(name, "Undefined variable '"+name.Lexeme+"'.")
}

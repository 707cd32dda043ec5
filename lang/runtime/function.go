package runtime

import (
	"github.com/ardnew/lox/lang/ast"
)

// Callable is a value that can be invoked with a call expression.
type Callable interface {
	// Arity is the exact number of arguments Call accepts.
	Arity() int
	// Call invokes the callable. len(args) == Arity() is checked by the
	// caller.
	Call(in *Interpreter, args []Value) (Value, error)
	String() string
}

// NativeFunc is the hook behind a [Native] callable.
type NativeFunc func(in *Interpreter, args []Value) (Value, error)

// Native is a callable implemented by the host.
type Native struct {
	fn    NativeFunc
	name  string
	arity int
}

// NewNative returns a host callable named name taking arity arguments.
func NewNative(name string, arity int, fn NativeFunc) *Native {
	return &Native{name: name, arity: arity, fn: fn}
}

// Name returns the global name the native is registered under.
func (n *Native) Name() string { return n.name }

func (n *Native) Arity() int { return n.arity }

func (n *Native) Call(in *Interpreter, args []Value) (Value, error) {
	return n.fn(in, args)
}

func (n *Native) String() string { return "<native fn>" }

// Closure is a user-defined function paired with the scope it was declared
// in.
type Closure struct {
	decl          *ast.Function
	closure       *Environment
	isInitializer bool
}

// NewClosure captures env as the defining scope of decl.
func NewClosure(decl *ast.Function, env *Environment, isInitializer bool) *Closure {
	return &Closure{decl: decl, closure: env, isInitializer: isInitializer}
}

// Name returns the declared name of the function.
func (c *Closure) Name() string { return c.decl.Name.Lexeme }

// IsInitializer reports whether calls return the bound "this" value.
func (c *Closure) IsInitializer() bool { return c.isInitializer }

// Bind returns a copy of c whose scope chain gains a scope defining "this"
// as instance.
func (c *Closure) Bind(instance Value) *Closure {
	env := NewEnvironment(c.closure)
	env.Define("this", instance)

	return NewClosure(c.decl, env, c.isInitializer)
}

// Params returns the declared parameter names in order.
func (c *Closure) Params() []string {
	names := make([]string, len(c.decl.Params))
	for i, param := range c.decl.Params {
		names[i] = param.Lexeme
	}

	return names
}

func (c *Closure) Arity() int { return len(c.decl.Params) }

// Call runs the body in a fresh scope enclosed by the captured scope, not
// the caller's.
func (c *Closure) Call(in *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(c.closure)
	for i, param := range c.decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	out, err := in.executeBlock(c.decl.Body, env)
	if err != nil {
		return nil, err
	}

	if c.isInitializer {
		return c.closure.GetAt(0, "this"), nil
	}

	if out.returned {
		return out.value, nil
	}

	return nil, nil
}

func (c *Closure) String() string { return "<fn " + c.decl.Name.Lexeme + ">" }

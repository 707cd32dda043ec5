// Package runtime evaluates a resolved syntax tree.
//
// An [Interpreter] owns the global scope and the current scope pointer, and
// reads the scope distances recorded through its [Interpreter.Bind] method
// by the resolver. It persists across calls to [Interpreter.Interpret], so a
// session can feed it one program fragment at a time.
package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/lox/lang/ast"
	"github.com/ardnew/lox/lang/token"
	"github.com/ardnew/lox/log"
)

// outcome is how a statement completed when it did not fail: normally, or by
// a return carrying a value to the nearest enclosing call.
type outcome struct {
	value    Value
	returned bool
}

var completed = outcome{}

func returned(v Value) outcome { return outcome{value: v, returned: true} }

// Interpreter executes statements against a chain of environments.
type Interpreter struct {
	out     io.Writer
	globals *Environment
	env     *Environment
	locals  map[*token.Token]int
	logger  log.Logger
}

// Option configures an [Interpreter].
type Option func(*Interpreter)

// WithOutput sets the destination of print statements. The default is
// [os.Stdout].
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) {
		if w != nil {
			in.out = w
		}
	}
}

// WithLogger sets the logger used for trace output. The zero logger
// discards everything.
func WithLogger(logger log.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

// WithNative registers an additional host function in the global scope.
func WithNative(n *Native) Option {
	return func(in *Interpreter) {
		in.globals.Define(n.Name(), n)
	}
}

// New returns an interpreter whose global scope holds the built-in natives.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		out:     os.Stdout,
		globals: NewEnvironment(nil),
		locals:  map[*token.Token]int{},
	}

	in.env = in.globals

	for _, n := range natives() {
		in.globals.Define(n.Name(), n)
	}

	for _, opt := range opts {
		opt(in)
	}

	return in
}

// Globals returns the global scope.
func (in *Interpreter) Globals() *Environment { return in.globals }

// Bind records that the reference name resolves depth scopes out from where
// it is evaluated.
func (in *Interpreter) Bind(name *token.Token, depth int) {
	in.locals[name] = depth
}

// Interpret executes stmts in order in the global scope. It stops at the
// first runtime error, which is returned.
func (in *Interpreter) Interpret(ctx context.Context, stmts []ast.Stmt) error {
	in.logger.TraceContext(ctx, "interpret",
		slog.Int("statements", len(stmts)),
		slog.Int("bindings", len(in.locals)))

	for _, s := range stmts {
		out, err := in.execute(s)
		if err != nil {
			in.logger.DebugContext(ctx, "runtime error", slog.Any("error", err))

			return err
		}

		if out.returned {
			panic("runtime: return outside of a function")
		}
	}

	return nil
}

// Evaluate evaluates a single expression in the current scope.
func (in *Interpreter) Evaluate(e ast.Expr) (Value, error) {
	return in.evaluate(e)
}

func (in *Interpreter) execute(s ast.Stmt) (outcome, error) {
	switch s := s.(type) {
	case *ast.Expression:
		_, err := in.evaluate(s.Expr)

		return completed, err

	case *ast.Print:
		v, err := in.evaluate(s.Expr)
		if err != nil {
			return completed, err
		}

		_, err = fmt.Fprintln(in.out, Stringify(v))

		return completed, err

	case *ast.Var:
		var v Value

		if s.Initializer != nil {
			var err error
			if v, err = in.evaluate(s.Initializer); err != nil {
				return completed, err
			}
		}

		in.env.Define(s.Name.Lexeme, v)

		return completed, nil

	case *ast.Block:
		return in.executeBlock(s.Statements, NewEnvironment(in.env))

	case *ast.If:
		cond, err := in.evaluate(s.Condition)
		if err != nil {
			return completed, err
		}

		switch {
		case Truthy(cond):
			return in.execute(s.Then)
		case s.Else != nil:
			return in.execute(s.Else)
		}

		return completed, nil

	case *ast.While:
		for {
			cond, err := in.evaluate(s.Condition)
			if err != nil {
				return completed, err
			}

			if !Truthy(cond) {
				return completed, nil
			}

			out, err := in.execute(s.Body)
			if err != nil || out.returned {
				return out, err
			}
		}

	case *ast.Function:
		in.env.Define(s.Name.Lexeme, NewClosure(s, in.env, false))

		return completed, nil

	case *ast.Return:
		var v Value

		if s.Value != nil {
			var err error
			if v, err = in.evaluate(s.Value); err != nil {
				return completed, err
			}
		}

		return returned(v), nil

	case *ast.Empty:
		return completed, nil

	default:
		panic(fmt.Sprintf("runtime: unknown statement %T", s))
	}
}

// executeBlock runs stmts with env as the current scope, restoring the
// previous scope however the block exits.
func (in *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) (outcome, error) {
	prev := in.env
	in.env = env

	defer func() { in.env = prev }()

	for _, s := range stmts {
		out, err := in.execute(s)
		if err != nil || out.returned {
			return out, err
		}
	}

	return completed, nil
}

func (in *Interpreter) evaluate(e ast.Expr) (Value, error) {
	switch e := e.(type) {
	case *ast.Literal:
		return e.Value, nil

	case *ast.Grouping:
		return in.evaluate(e.Expression)

	case *ast.Variable:
		return in.lookUp(e.Name)

	case *ast.Assign:
		v, err := in.evaluate(e.Value)
		if err != nil {
			return nil, err
		}

		if depth, ok := in.locals[e.Name]; ok {
			in.env.AssignAt(depth, e.Name.Lexeme, v)
		} else if err := in.globals.Assign(e.Name, v); err != nil {
			return nil, err
		}

		return v, nil

	case *ast.Logical:
		left, err := in.evaluate(e.Left)
		if err != nil {
			return nil, err
		}

		if e.Operator.Kind == token.Or {
			if Truthy(left) {
				return left, nil
			}
		} else if !Truthy(left) {
			return left, nil
		}

		return in.evaluate(e.Right)

	case *ast.Unary:
		right, err := in.evaluate(e.Right)
		if err != nil {
			return nil, err
		}

		switch e.Operator.Kind {
		case token.Bang:
			return !Truthy(right), nil
		case token.Minus:
			n, ok := right.(float64)
			if !ok {
				return nil, NewRuntimeError(e.Operator, "Operand must be a number.")
			}

			return -n, nil
		}

		panic(fmt.Sprintf("runtime: unknown unary operator %s", e.Operator.Kind))

	case *ast.Binary:
		return in.binary(e)

	case *ast.Call:
		return in.call(e)

	default:
		panic(fmt.Sprintf("runtime: unknown expression %T", e))
	}
}

func (in *Interpreter) binary(e *ast.Binary) (Value, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return nil, err
	}

	right, err := in.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	op := e.Operator

	switch op.Kind {
	case token.EqualEqual:
		return Equal(left, right), nil
	case token.BangEqual:
		return !Equal(left, right), nil

	case token.Plus:
		switch l := left.(type) {
		case float64:
			if r, ok := right.(float64); ok {
				return l + r, nil
			}
		case string:
			if r, ok := right.(string); ok {
				return l + r, nil
			}
		}

		return nil, NewRuntimeError(op, "Operands must be two numbers or two strings.")
	}

	l, lok := left.(float64)
	r, rok := right.(float64)

	if !lok || !rok {
		return nil, NewRuntimeError(op, "Operands must be numbers.")
	}

	switch op.Kind {
	case token.Minus:
		return l - r, nil
	case token.Star:
		return l * r, nil
	case token.Slash:
		return l / r, nil
	case token.Greater:
		return l > r, nil
	case token.GreaterEqual:
		return l >= r, nil
	case token.Less:
		return l < r, nil
	case token.LessEqual:
		return l <= r, nil
	}

	panic(fmt.Sprintf("runtime: unknown binary operator %s", op.Kind))
}

func (in *Interpreter) call(e *ast.Call) (Value, error) {
	callee, err := in.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, 0, len(e.Arguments))

	for _, a := range e.Arguments {
		v, err := in.evaluate(a)
		if err != nil {
			return nil, err
		}

		args = append(args, v)
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, NewRuntimeError(e.Paren, "Can only call functions and classes.")
	}

	if len(args) != fn.Arity() {
		return nil, NewRuntimeError(e.Paren,
			fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)))
	}

	return fn.Call(in, args)
}

// lookUp reads a variable at its resolved distance, or from the global
// scope when the resolver left it unbound.
func (in *Interpreter) lookUp(name *token.Token) (Value, error) {
	if depth, ok := in.locals[name]; ok {
		return in.env.GetAt(depth, name.Lexeme), nil
	}

	return in.globals.Get(name)
}

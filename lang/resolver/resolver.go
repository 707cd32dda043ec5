// Package resolver performs the static binding pass between parsing and
// evaluation.
//
// It computes, for every local variable reference, how many scopes out from
// the referencing scope the declaration lives, and reports the scoping
// errors that can be detected without running the program. References with
// no enclosing local declaration are left unresolved and looked up in the
// global scope at run time.
package resolver

import (
	"fmt"

	"github.com/ardnew/lox/lang/ast"
	"github.com/ardnew/lox/lang/diag"
	"github.com/ardnew/lox/lang/token"
)

// Binder receives the scope distance computed for each resolved reference.
// The interpreter implements it.
type Binder interface {
	Bind(name *token.Token, depth int)
}

// BinderFunc adapts a function to [Binder].
type BinderFunc func(name *token.Token, depth int)

// Bind calls f(name, depth).
func (f BinderFunc) Bind(name *token.Token, depth int) { f(name, depth) }

// FunctionKind identifies the kind of function body being resolved.
type FunctionKind int

const (
	FunctionNone FunctionKind = iota
	FunctionPlain
	FunctionInitializer
	FunctionMethod
)

func (k FunctionKind) String() string {
	switch k {
	case FunctionNone:
		return "none"
	case FunctionPlain:
		return "function"
	case FunctionInitializer:
		return "initializer"
	case FunctionMethod:
		return "method"
	default:
		return fmt.Sprintf("FunctionKind(%d)", int(k))
	}
}

// Resolve walks stmts once, sending each local binding distance to binder
// and each static error to diags. It returns the number of bindings made.
func Resolve(stmts []ast.Stmt, binder Binder, diags *diag.Collector) int {
	r := &resolver{binder: binder, diags: diags}
	r.stmts(stmts)

	return r.bound
}

// ResolveFunction resolves the body of fn as a function of the given kind,
// nested one scope inside the scope holding its name. Hosts that attach
// methods or initializers to objects resolve their bodies with this.
func ResolveFunction(
	fn *ast.Function,
	kind FunctionKind,
	binder Binder,
	diags *diag.Collector,
) int {
	r := &resolver{binder: binder, diags: diags}

	r.begin()
	r.declare(fn.Name)
	r.define(fn.Name)
	r.function(fn, kind)
	r.end()

	return r.bound
}

// scope maps a declared name to whether its initializer has completed.
type scope map[string]bool

type resolver struct {
	binder Binder
	diags  *diag.Collector
	scopes []scope
	fn     FunctionKind
	bound  int
}

func (r *resolver) stmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.stmt(s)
	}
}

func (r *resolver) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Block:
		r.begin()
		r.stmts(s.Statements)
		r.end()

	case *ast.Var:
		r.declare(s.Name)

		if s.Initializer != nil {
			r.expr(s.Initializer)
		}

		r.define(s.Name)

	case *ast.Function:
		r.declare(s.Name)
		r.define(s.Name)
		r.function(s, FunctionPlain)

	case *ast.Expression:
		r.expr(s.Expr)

	case *ast.If:
		r.expr(s.Condition)
		r.stmt(s.Then)

		if s.Else != nil {
			r.stmt(s.Else)
		}

	case *ast.Print:
		r.expr(s.Expr)

	case *ast.Return:
		if r.fn == FunctionNone {
			r.diags.At(diag.StageResolve, s.Keyword, "Can't return from top-level code.")
		}

		if s.Value != nil {
			if r.fn == FunctionInitializer {
				r.diags.At(diag.StageResolve, s.Keyword,
					"Can't return a value from an initializer.")
			}

			r.expr(s.Value)
		}

	case *ast.While:
		r.expr(s.Condition)
		r.stmt(s.Body)

	case *ast.Empty:

	default:
		panic(fmt.Sprintf("resolver: unknown statement %T", s))
	}
}

func (r *resolver) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.diags.At(diag.StageResolve, e.Name,
					"Can't read local variable in its own initializer.")
			}
		}

		r.local(e.Name)

	case *ast.Assign:
		r.expr(e.Value)
		r.local(e.Name)

	case *ast.Binary:
		r.expr(e.Left)
		r.expr(e.Right)

	case *ast.Logical:
		r.expr(e.Left)
		r.expr(e.Right)

	case *ast.Unary:
		r.expr(e.Right)

	case *ast.Call:
		r.expr(e.Callee)

		for _, arg := range e.Arguments {
			r.expr(arg)
		}

	case *ast.Grouping:
		r.expr(e.Expression)

	case *ast.Literal:

	default:
		panic(fmt.Sprintf("resolver: unknown expression %T", e))
	}
}

// function resolves a function body in a fresh scope holding its parameters.
func (r *resolver) function(fn *ast.Function, kind FunctionKind) {
	enclosing := r.fn
	r.fn = kind

	r.begin()

	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}

	r.stmts(fn.Body)
	r.end()

	r.fn = enclosing
}

func (r *resolver) begin() { r.scopes = append(r.scopes, scope{}) }

func (r *resolver) end() { r.scopes = r.scopes[:len(r.scopes)-1] }

// declare adds name to the innermost scope as not yet defined. Globals are
// not tracked.
func (r *resolver) declare(name *token.Token) {
	if len(r.scopes) == 0 {
		return
	}

	s := r.scopes[len(r.scopes)-1]
	if _, ok := s[name.Lexeme]; ok {
		r.diags.At(diag.StageResolve, name,
			"Already a variable with this name in this scope.")
	}

	s[name.Lexeme] = false
}

func (r *resolver) define(name *token.Token) {
	if len(r.scopes) == 0 {
		return
	}

	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// local binds name to the distance of the innermost scope declaring it.
func (r *resolver) local(name *token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.binder.Bind(name, len(r.scopes)-1-i)
			r.bound++

			return
		}
	}
}

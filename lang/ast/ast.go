// Package ast defines the abstract syntax tree produced by the parser.
//
// The tree is built once and never mutated afterward. [Expr] and [Stmt] are
// closed sets: only the node types declared in this package implement them,
// and consumers dispatch with a type switch.
package ast

import "github.com/ardnew/lox/lang/token"

// Expr is an expression node.
type Expr interface {
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	stmtNode()
}

type (
	// Assign stores Value into the variable Name.
	Assign struct {
		Name  *token.Token
		Value Expr
	}

	// Binary applies an arithmetic, comparison or equality operator.
	Binary struct {
		Left     Expr
		Operator *token.Token
		Right    Expr
	}

	// Logical is a short-circuiting "and" or "or".
	Logical struct {
		Left     Expr
		Operator *token.Token
		Right    Expr
	}

	// Unary applies "!" or "-".
	Unary struct {
		Operator *token.Token
		Right    Expr
	}

	// Call invokes Callee. Paren is the closing parenthesis, used to locate
	// runtime errors.
	Call struct {
		Callee    Expr
		Paren     *token.Token
		Arguments []Expr
	}

	// Grouping is a parenthesized expression.
	Grouping struct {
		Expression Expr
	}

	// Literal is a constant: nil, bool, float64 or string.
	Literal struct {
		Value any
	}

	// Variable reads the variable Name.
	Variable struct {
		Name *token.Token
	}
)

func (*Assign) exprNode()   {}
func (*Binary) exprNode()   {}
func (*Logical) exprNode()  {}
func (*Unary) exprNode()    {}
func (*Call) exprNode()     {}
func (*Grouping) exprNode() {}
func (*Literal) exprNode()  {}
func (*Variable) exprNode() {}

type (
	// Block executes Statements in a fresh scope.
	Block struct {
		Statements []Stmt
	}

	// Expression evaluates Expr for its side effects.
	Expression struct {
		Expr Expr
	}

	// Function declares a named function.
	Function struct {
		Name   *token.Token
		Params []*token.Token
		Body   []Stmt
	}

	// If executes Then or, if present, Else.
	If struct {
		Condition Expr
		Then      Stmt
		Else      Stmt // nil when absent
	}

	// Print writes the display form of Expr to the output.
	Print struct {
		Expr Expr
	}

	// Return leaves the enclosing function.
	Return struct {
		Keyword *token.Token
		Value   Expr // nil when absent
	}

	// Var declares Name, initialized to Initializer or nil.
	Var struct {
		Name        *token.Token
		Initializer Expr // nil when absent
	}

	// While repeats Body while Condition is truthy.
	While struct {
		Condition Expr
		Body      Stmt
	}

	// Empty stands in for a statement that failed to parse.
	Empty struct{}
)

func (*Block) stmtNode()      {}
func (*Expression) stmtNode() {}
func (*Function) stmtNode()   {}
func (*If) stmtNode()         {}
func (*Print) stmtNode()      {}
func (*Return) stmtNode()     {}
func (*Var) stmtNode()        {}
func (*While) stmtNode()      {}
func (*Empty) stmtNode()      {}

// Package parser builds an abstract syntax tree from a token sequence using
// recursive descent with one function per precedence level.
//
// # Grammar
//
// Informal EBNF, lowest to highest precedence:
//
//	program     → declaration* EOF
//	declaration → funDecl | varDecl | statement
//	funDecl     → "fun" IDENTIFIER "(" params? ")" block
//	varDecl     → "var" IDENTIFIER ( "=" expression )? ";"
//	statement   → exprStmt | forStmt | ifStmt | printStmt | returnStmt
//	            | whileStmt | block
//	expression  → assignment
//	assignment  → IDENTIFIER "=" assignment | logic_or
//	logic_or    → logic_and ( "or" logic_and )*
//	logic_and   → equality ( "and" equality )*
//	equality    → comparison ( ( "!=" | "==" ) comparison )*
//	comparison  → term ( ( ">" | ">=" | "<" | "<=" ) term )*
//	term        → factor ( ( "-" | "+" ) factor )*
//	factor      → unary ( ( "/" | "*" ) unary )*
//	unary       → ( "!" | "-" ) unary | call
//	call        → primary ( "(" arguments? ")" )*
//	primary     → NUMBER | STRING | "true" | "false" | "nil"
//	            | IDENTIFIER | "(" expression ")"
//
// A "for" loop is desugared into a block wrapping a "while" loop.
//
// # Error Recovery
//
// A syntax error inside a declaration is reported, then the parser discards
// tokens up to the next statement boundary and substitutes an [ast.Empty]
// statement, so one pass reports every independent syntax error.
package parser

import (
	"errors"

	"github.com/ardnew/lox/lang/ast"
	"github.com/ardnew/lox/lang/diag"
	"github.com/ardnew/lox/lang/token"
)

// MaxArgs is the maximum number of call arguments or function parameters.
const MaxArgs = 255

// errSyntax unwinds the current declaration after a diagnostic is reported.
var errSyntax = errors.New("syntax error")

// Option configures the parser.
type Option func(*parser)

// WithBareExpressions accepts a final expression with no terminating ';' and
// parses it as a print statement. Interactive sessions use this to echo the
// value of an expression line.
func WithBareExpressions(enable bool) Option {
	return func(p *parser) {
		p.bare = enable
	}
}

// Parse parses toks, which must end with a [token.EOF] token, and returns
// a best-effort statement list. Syntax errors are reported to diags.
func Parse(toks []token.Token, diags *diag.Collector, opts ...Option) []ast.Stmt {
	p := &parser{toks: toks, diags: diags}

	for _, opt := range opts {
		opt(p)
	}

	var stmts []ast.Stmt

	for !p.eof() {
		stmts = append(stmts, p.declaration())
	}

	return stmts
}

// parser holds the parser state.
type parser struct {
	diags *diag.Collector
	toks  []token.Token
	pos   int
	bare  bool
}

func (p *parser) declaration() ast.Stmt {
	var (
		stmt ast.Stmt
		err  error
	)

	switch {
	case p.match(token.Var):
		stmt, err = p.varDeclaration()
	case p.match(token.Fun):
		stmt, err = p.function("function")
	default:
		stmt, err = p.statement()
	}

	if err != nil {
		p.synchronize()

		return &ast.Empty{}
	}

	return stmt
}

func (p *parser) varDeclaration() (ast.Stmt, error) {
	name, err := p.consume(token.Identifier, "Expect variable name.")
	if err != nil {
		return nil, err
	}

	var init ast.Expr

	if p.match(token.Equal) {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(token.Semicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}

	return &ast.Var{Name: name, Initializer: init}, nil
}

func (p *parser) function(kind string) (ast.Stmt, error) {
	name, err := p.consume(token.Identifier, "Expect "+kind+" name.")
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(token.LeftParen, "Expect '(' after "+kind+" name."); err != nil {
		return nil, err
	}

	var params []*token.Token

	if !p.check(token.RightParen) {
		for {
			if len(params) >= MaxArgs {
				p.errorAt(p.peek(), "Can't have more than 255 parameters.")
			}

			param, err := p.consume(token.Identifier, "Expect parameter name.")
			if err != nil {
				return nil, err
			}

			params = append(params, param)

			if !p.match(token.Comma) {
				break
			}
		}
	}

	if _, err := p.consume(token.RightParen, "Expect ')' after parameters."); err != nil {
		return nil, err
	}

	if _, err := p.consume(token.LeftBrace, "Expect '{' before "+kind+" body."); err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return &ast.Function{Name: name, Params: params, Body: body}, nil
}

func (p *parser) statement() (ast.Stmt, error) {
	switch {
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.Return):
		return p.returnStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.LeftBrace):
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}

		return &ast.Block{Statements: stmts}, nil
	default:
		return p.expressionStatement()
	}
}

// forStatement desugars
//
//	for (init; cond; incr) body
//
// into
//
//	{ init; while (cond) { body; incr; } }
func (p *parser) forStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.LeftParen, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var (
		init ast.Stmt
		err  error
	)

	switch {
	case p.match(token.Semicolon):
	case p.match(token.Var):
		init, err = p.varDeclaration()
	default:
		init, err = p.expressionStatement()
	}

	if err != nil {
		return nil, err
	}

	var cond ast.Expr

	if !p.check(token.Semicolon) {
		if cond, err = p.expression(); err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(token.Semicolon, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var incr ast.Expr

	if !p.check(token.RightParen) {
		if incr, err = p.expression(); err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(token.RightParen, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if incr != nil {
		body = &ast.Block{Statements: []ast.Stmt{body, &ast.Expression{Expr: incr}}}
	}

	if cond == nil {
		cond = &ast.Literal{Value: true}
	}

	body = &ast.While{Condition: cond, Body: body}

	if init != nil {
		body = &ast.Block{Statements: []ast.Stmt{init, body}}
	}

	return body, nil
}

func (p *parser) ifStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.LeftParen, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}

	cond, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(token.RightParen, "Expect ')' after if condition."); err != nil {
		return nil, err
	}

	then, err := p.statement()
	if err != nil {
		return nil, err
	}

	var els ast.Stmt

	if p.match(token.Else) {
		if els, err = p.statement(); err != nil {
			return nil, err
		}
	}

	return &ast.If{Condition: cond, Then: then, Else: els}, nil
}

func (p *parser) printStatement() (ast.Stmt, error) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(token.Semicolon, "Expect ';' after value."); err != nil {
		return nil, err
	}

	return &ast.Print{Expr: value}, nil
}

func (p *parser) returnStatement() (ast.Stmt, error) {
	keyword := p.previous()

	var (
		value ast.Expr
		err   error
	)

	if !p.check(token.Semicolon) {
		if value, err = p.expression(); err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(token.Semicolon, "Expect ';' after return value."); err != nil {
		return nil, err
	}

	return &ast.Return{Keyword: keyword, Value: value}, nil
}

func (p *parser) whileStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.LeftParen, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}

	cond, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(token.RightParen, "Expect ')' after condition."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	return &ast.While{Condition: cond, Body: body}, nil
}

// block parses declarations up to the closing brace; the opening brace has
// already been consumed.
func (p *parser) block() ([]ast.Stmt, error) {
	var stmts []ast.Stmt

	for !p.check(token.RightBrace) && !p.eof() {
		stmts = append(stmts, p.declaration())
	}

	if _, err := p.consume(token.RightBrace, "Expect '}' after block."); err != nil {
		return nil, err
	}

	return stmts, nil
}

func (p *parser) expressionStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	if p.bare && p.eof() {
		return &ast.Print{Expr: expr}, nil
	}

	if _, err := p.consume(token.Semicolon, "Expect ';' after expression."); err != nil {
		return nil, err
	}

	return &ast.Expression{Expr: expr}, nil
}

func (p *parser) expression() (ast.Expr, error) {
	return p.assignment()
}

func (p *parser) assignment() (ast.Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}

	if p.match(token.Equal) {
		equals := p.previous()

		value, err := p.assignment()
		if err != nil {
			return nil, err
		}

		if v, ok := expr.(*ast.Variable); ok {
			return &ast.Assign{Name: v.Name, Value: value}, nil
		}

		// Reported without unwinding: the parser is not confused.
		p.errorAt(equals, "Invalid assignment target.")
	}

	return expr, nil
}

func (p *parser) or() (ast.Expr, error) {
	return p.logical(p.and, token.Or)
}

func (p *parser) and() (ast.Expr, error) {
	return p.logical(p.equality, token.And)
}

func (p *parser) equality() (ast.Expr, error) {
	return p.binary(p.comparison, token.BangEqual, token.EqualEqual)
}

func (p *parser) comparison() (ast.Expr, error) {
	return p.binary(p.term,
		token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *parser) term() (ast.Expr, error) {
	return p.binary(p.factor, token.Minus, token.Plus)
}

func (p *parser) factor() (ast.Expr, error) {
	return p.binary(p.unary, token.Slash, token.Star)
}

// binary parses a left-associative chain of operands produced by next and
// joined by any of ops.
func (p *parser) binary(
	next func() (ast.Expr, error),
	ops ...token.Kind,
) (ast.Expr, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}

	for p.match(ops...) {
		op := p.previous()

		right, err := next()
		if err != nil {
			return nil, err
		}

		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}

	return expr, nil
}

// logical is [parser.binary] for the short-circuiting operators.
func (p *parser) logical(
	next func() (ast.Expr, error),
	op token.Kind,
) (ast.Expr, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}

	for p.match(op) {
		operator := p.previous()

		right, err := next()
		if err != nil {
			return nil, err
		}

		expr = &ast.Logical{Left: expr, Operator: operator, Right: right}
	}

	return expr, nil
}

func (p *parser) unary() (ast.Expr, error) {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()

		right, err := p.unary()
		if err != nil {
			return nil, err
		}

		return &ast.Unary{Operator: op, Right: right}, nil
	}

	return p.call()
}

func (p *parser) call() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for p.match(token.LeftParen) {
		if expr, err = p.finishCall(expr); err != nil {
			return nil, err
		}
	}

	return expr, nil
}

func (p *parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	var args []ast.Expr

	if !p.check(token.RightParen) {
		for {
			if len(args) >= MaxArgs {
				p.errorAt(p.peek(), "Can't have more than 255 arguments.")
			}

			arg, err := p.expression()
			if err != nil {
				return nil, err
			}

			args = append(args, arg)

			if !p.match(token.Comma) {
				break
			}
		}
	}

	paren, err := p.consume(token.RightParen, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}

	return &ast.Call{Callee: callee, Paren: paren, Arguments: args}, nil
}

func (p *parser) primary() (ast.Expr, error) {
	switch {
	case p.match(token.False):
		return &ast.Literal{Value: false}, nil
	case p.match(token.True):
		return &ast.Literal{Value: true}, nil
	case p.match(token.Nil):
		return &ast.Literal{Value: nil}, nil
	case p.match(token.Number, token.String):
		return &ast.Literal{Value: p.previous().Literal}, nil
	case p.match(token.Identifier):
		return &ast.Variable{Name: p.previous()}, nil
	case p.match(token.LeftParen):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}

		if _, err := p.consume(token.RightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}

		return &ast.Grouping{Expression: expr}, nil
	}

	return nil, p.errorAt(p.peek(), "Expect expression.")
}

// synchronize discards tokens until the start of the next statement.
func (p *parser) synchronize() {
	p.advance()

	for !p.eof() {
		if p.previous().Kind == token.Semicolon {
			return
		}

		switch p.peek().Kind {
		case token.Fun, token.Var, token.For, token.If,
			token.While, token.Print, token.Return:
			return
		}

		p.advance()
	}
}

func (p *parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()

			return true
		}
	}

	return false
}

func (p *parser) consume(k token.Kind, message string) (*token.Token, error) {
	if p.check(k) {
		return p.advance(), nil
	}

	return nil, p.errorAt(p.peek(), message)
}

func (p *parser) check(k token.Kind) bool {
	if p.eof() {
		return false
	}

	return p.peek().Kind == k
}

func (p *parser) advance() *token.Token {
	if !p.eof() {
		p.pos++
	}

	return p.previous()
}

func (p *parser) eof() bool { return p.peek().Kind == token.EOF }

func (p *parser) peek() *token.Token { return &p.toks[p.pos] }

func (p *parser) previous() *token.Token { return &p.toks[p.pos-1] }

// errorAt reports message at tok and returns the unwinding sentinel.
func (p *parser) errorAt(tok *token.Token, message string) error {
	p.diags.At(diag.StageParse, tok, message)

	return errSyntax
}

package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump renders statements as parenthesized prefix notation, one top-level
// statement per line.
//
//	var a = 1 + 2;   =>  (var a (+ 1 2))
func Dump(stmts []Stmt) string {
	var b strings.Builder

	for _, s := range stmts {
		dumpStmt(&b, s)
		b.WriteByte('\n')
	}

	return b.String()
}

// DumpExpr renders a single expression in the notation used by [Dump].
func DumpExpr(e Expr) string {
	var b strings.Builder

	dumpExpr(&b, e)

	return b.String()
}

func dumpStmt(b *strings.Builder, s Stmt) {
	switch s := s.(type) {
	case *Block:
		b.WriteString("(block")

		for _, inner := range s.Statements {
			b.WriteByte(' ')
			dumpStmt(b, inner)
		}

		b.WriteByte(')')

	case *Expression:
		b.WriteString("(; ")
		dumpExpr(b, s.Expr)
		b.WriteByte(')')

	case *Function:
		b.WriteString("(fun ")
		b.WriteString(s.Name.Lexeme)
		b.WriteString(" (")

		for i, p := range s.Params {
			if i > 0 {
				b.WriteByte(' ')
			}

			b.WriteString(p.Lexeme)
		}

		b.WriteByte(')')

		for _, inner := range s.Body {
			b.WriteByte(' ')
			dumpStmt(b, inner)
		}

		b.WriteByte(')')

	case *If:
		b.WriteString("(if ")
		dumpExpr(b, s.Condition)
		b.WriteByte(' ')
		dumpStmt(b, s.Then)

		if s.Else != nil {
			b.WriteByte(' ')
			dumpStmt(b, s.Else)
		}

		b.WriteByte(')')

	case *Print:
		b.WriteString("(print ")
		dumpExpr(b, s.Expr)
		b.WriteByte(')')

	case *Return:
		b.WriteString("(return")

		if s.Value != nil {
			b.WriteByte(' ')
			dumpExpr(b, s.Value)
		}

		b.WriteByte(')')

	case *Var:
		b.WriteString("(var ")
		b.WriteString(s.Name.Lexeme)

		if s.Initializer != nil {
			b.WriteByte(' ')
			dumpExpr(b, s.Initializer)
		}

		b.WriteByte(')')

	case *While:
		b.WriteString("(while ")
		dumpExpr(b, s.Condition)
		b.WriteByte(' ')
		dumpStmt(b, s.Body)
		b.WriteByte(')')

	case *Empty:
		b.WriteString("(empty)")

	default:
		panic(fmt.Sprintf("ast: unknown statement %T", s))
	}
}

func dumpExpr(b *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *Assign:
		b.WriteString("(= ")
		b.WriteString(e.Name.Lexeme)
		b.WriteByte(' ')
		dumpExpr(b, e.Value)
		b.WriteByte(')')

	case *Binary:
		parenthesize(b, e.Operator.Lexeme, e.Left, e.Right)

	case *Logical:
		parenthesize(b, e.Operator.Lexeme, e.Left, e.Right)

	case *Unary:
		parenthesize(b, e.Operator.Lexeme, e.Right)

	case *Call:
		b.WriteString("(call ")
		dumpExpr(b, e.Callee)

		for _, arg := range e.Arguments {
			b.WriteByte(' ')
			dumpExpr(b, arg)
		}

		b.WriteByte(')')

	case *Grouping:
		parenthesize(b, "group", e.Expression)

	case *Literal:
		b.WriteString(FormatLiteral(e.Value))

	case *Variable:
		b.WriteString(e.Name.Lexeme)

	default:
		panic(fmt.Sprintf("ast: unknown expression %T", e))
	}
}

func parenthesize(b *strings.Builder, name string, exprs ...Expr) {
	b.WriteByte('(')
	b.WriteString(name)

	for _, e := range exprs {
		b.WriteByte(' ')
		dumpExpr(b, e)
	}

	b.WriteByte(')')
}

// FormatLiteral renders a literal value as it would appear in source.
func FormatLiteral(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}

package ast

import (
	"encoding/json"
	"fmt"
)

// Program is a parsed statement list that marshals as a node tree.
type Program []Stmt

// MarshalJSON implements json.Marshaler for Program.
func (p Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToNative())
}

// ToNative converts the program to plain Go maps and slices suitable for any
// encoder (JSON, YAML).
func (p Program) ToNative() []any {
	out := make([]any, len(p))
	for i, s := range p {
		out[i] = StmtToMap(s)
	}

	return out
}

func stmtList(stmts []Stmt) []any {
	return Program(stmts).ToNative()
}

// StmtToMap converts a statement node to a map keyed by field name, with a
// "node" key naming the node type.
func StmtToMap(s Stmt) map[string]any {
	switch s := s.(type) {
	case *Block:
		return map[string]any{"node": "block", "statements": stmtList(s.Statements)}

	case *Expression:
		return map[string]any{"node": "expression", "expr": ExprToMap(s.Expr)}

	case *Function:
		params := make([]any, len(s.Params))
		for i, p := range s.Params {
			params[i] = p.Lexeme
		}

		return map[string]any{
			"node":   "function",
			"name":   s.Name.Lexeme,
			"line":   s.Name.Line,
			"params": params,
			"body":   stmtList(s.Body),
		}

	case *If:
		m := map[string]any{
			"node":      "if",
			"condition": ExprToMap(s.Condition),
			"then":      StmtToMap(s.Then),
		}
		if s.Else != nil {
			m["else"] = StmtToMap(s.Else)
		}

		return m

	case *Print:
		return map[string]any{"node": "print", "expr": ExprToMap(s.Expr)}

	case *Return:
		m := map[string]any{"node": "return", "line": s.Keyword.Line}
		if s.Value != nil {
			m["value"] = ExprToMap(s.Value)
		}

		return m

	case *Var:
		m := map[string]any{"node": "var", "name": s.Name.Lexeme, "line": s.Name.Line}
		if s.Initializer != nil {
			m["initializer"] = ExprToMap(s.Initializer)
		}

		return m

	case *While:
		return map[string]any{
			"node":      "while",
			"condition": ExprToMap(s.Condition),
			"body":      StmtToMap(s.Body),
		}

	case *Empty:
		return map[string]any{"node": "empty"}

	default:
		panic(fmt.Sprintf("ast: unknown statement %T", s))
	}
}

// ExprToMap converts an expression node to a map keyed by field name.
func ExprToMap(e Expr) map[string]any {
	switch e := e.(type) {
	case *Assign:
		return map[string]any{
			"node":  "assign",
			"name":  e.Name.Lexeme,
			"line":  e.Name.Line,
			"value": ExprToMap(e.Value),
		}

	case *Binary:
		return map[string]any{
			"node":     "binary",
			"operator": e.Operator.Lexeme,
			"left":     ExprToMap(e.Left),
			"right":    ExprToMap(e.Right),
		}

	case *Logical:
		return map[string]any{
			"node":     "logical",
			"operator": e.Operator.Lexeme,
			"left":     ExprToMap(e.Left),
			"right":    ExprToMap(e.Right),
		}

	case *Unary:
		return map[string]any{
			"node":     "unary",
			"operator": e.Operator.Lexeme,
			"right":    ExprToMap(e.Right),
		}

	case *Call:
		args := make([]any, len(e.Arguments))
		for i, a := range e.Arguments {
			args[i] = ExprToMap(a)
		}

		return map[string]any{
			"node":      "call",
			"callee":    ExprToMap(e.Callee),
			"arguments": args,
			"line":      e.Paren.Line,
		}

	case *Grouping:
		return map[string]any{"node": "grouping", "expr": ExprToMap(e.Expression)}

	case *Literal:
		return map[string]any{"node": "literal", "value": e.Value}

	case *Variable:
		return map[string]any{"node": "variable", "name": e.Name.Lexeme, "line": e.Name.Line}

	default:
		panic(fmt.Sprintf("ast: unknown expression %T", e))
	}
}

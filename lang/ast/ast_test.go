package ast

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ardnew/lox/lang/token"
)

func tok(k token.Kind, lexeme string) *token.Token {
	t := token.New(k, lexeme, nil, 1)

	return &t
}

func sampleProgram() Program {
	a := tok(token.Identifier, "a")

	return Program{
		&Var{
			Name: a,
			Initializer: &Binary{
				Left:     &Literal{Value: 1.0},
				Operator: tok(token.Plus, "+"),
				Right: &Grouping{Expression: &Unary{
					Operator: tok(token.Minus, "-"),
					Right:    &Literal{Value: 2.5},
				}},
			},
		},
		&If{
			Condition: &Logical{
				Left:     &Variable{Name: a},
				Operator: tok(token.Or, "or"),
				Right:    &Literal{Value: false},
			},
			Then: &Print{Expr: &Literal{Value: "yes"}},
		},
		&Function{
			Name:   tok(token.Identifier, "f"),
			Params: []*token.Token{tok(token.Identifier, "x")},
			Body:   []Stmt{&Return{Keyword: tok(token.Return, "return"), Value: &Variable{Name: tok(token.Identifier, "x")}}},
		},
		&Expression{Expr: &Call{
			Callee:    &Variable{Name: tok(token.Identifier, "f")},
			Paren:     tok(token.RightParen, ")"),
			Arguments: []Expr{&Literal{Value: nil}},
		}},
		&Empty{},
	}
}

func TestDump(t *testing.T) {
	want := strings.Join([]string{
		"(var a (+ 1 (group (- 2.5))))",
		`(if (or a false) (print "yes"))`,
		"(fun f (x) (return x))",
		"(; (call f nil))",
		"(empty)",
	}, "\n") + "\n"

	if got := Dump(sampleProgram()); got != want {
		t.Errorf("Dump mismatch\n got: %s\nwant: %s", got, want)
	}
}

func TestDumpExpr_Assign(t *testing.T) {
	e := &Assign{Name: tok(token.Identifier, "b"), Value: &Literal{Value: true}}
	if got := DumpExpr(e); got != "(= b true)" {
		t.Errorf("DumpExpr = %q", got)
	}
}

func TestProgram_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(sampleProgram())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var nodes []map[string]any
	if err := json.Unmarshal(data, &nodes); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(nodes) != 5 {
		t.Fatalf("expected 5 nodes, got %d", len(nodes))
	}

	kinds := []string{"var", "if", "function", "expression", "empty"}
	for i, k := range kinds {
		if nodes[i]["node"] != k {
			t.Errorf("node %d = %v, want %s", i, nodes[i]["node"], k)
		}
	}

	if _, ok := nodes[1]["else"]; ok {
		t.Error("if without else should omit the else key")
	}
}

func TestFormatLiteral(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "nil"},
		{true, "true"},
		{3.0, "3"},
		{0.25, "0.25"},
		{"a\"b", `"a\"b"`},
	}

	for _, tt := range tests {
		if got := FormatLiteral(tt.in); got != tt.want {
			t.Errorf("FormatLiteral(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

package runtime

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/lox/lang/ast"
	"github.com/ardnew/lox/lang/diag"
	"github.com/ardnew/lox/lang/parser"
	"github.com/ardnew/lox/lang/resolver"
	"github.com/ardnew/lox/lang/scanner"
)

// compile scans, parses and resolves src against in.
func compile(t *testing.T, in *Interpreter, src string) []ast.Stmt {
	t.Helper()

	var diags diag.Collector

	stmts := parser.Parse(scanner.Scan(src, &diags), &diags)
	resolver.Resolve(stmts, in, &diags)

	if diags.HadError() {
		t.Fatalf("compile %q: %v", src, diags.Diagnostics())
	}

	return stmts
}

func run(t *testing.T, src string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	in := New(WithOutput(&out))
	err := in.Interpret(t.Context(), compile(t, in, src))

	return out.String(), err
}

func TestInterpret_Output(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"arithmetic", "print 1 + 1; print 7 - 2 * 3; print 1 / 4;", "2\n1\n0.25\n"},
		{"concatenation", `print "foo" + "bar";`, "foobar\n"},
		{"comparison", "print 1 < 2; print 2 <= 1; print 3 > 3; print 3 >= 3;", "true\nfalse\nfalse\ntrue\n"},
		{"equality", `print nil == nil; print 1 == "1"; print "a" != "b";`, "true\nfalse\ntrue\n"},
		{"unary", "print -(3); print !nil; print !0;", "-3\ntrue\nfalse\n"},
		{"grouping", "print (1 + 2) * 3;", "9\n"},
		{
			"shadowing",
			"var a = 1; { var a = 2; print a; } print a;",
			"2\n1\n",
		},
		{
			"assignment through scopes",
			"var a = 1; { { a = a + 1; } } print a;",
			"2\n",
		},
		{
			"assignment value",
			"var a; var b; a = b = 3; print a; print b;",
			"3\n3\n",
		},
		{
			"uninitialized var",
			"var a; print a;",
			"nil\n",
		},
		{
			"short circuit",
			`print nil or "yes"; print false and undefined; print 1 and 2; print "x" or undefined;`,
			"yes\nfalse\n2\nx\n",
		},
		{
			"if else",
			`if (0) print "zero is truthy"; else print "no"; if (nil) print 1; else print 2;`,
			"zero is truthy\n2\n",
		},
		{
			"while",
			"var i = 3; while (i > 0) { print i; i = i - 1; }",
			"3\n2\n1\n",
		},
		{
			"for",
			"for (var i = 0; i < 3; i = i + 1) print i;",
			"0\n1\n2\n",
		},
		{
			"recursion",
			"fun fib(n) { if (n < 2) return n; return fib(n - 1) + fib(n - 2); } print fib(10);",
			"55\n",
		},
		{
			"closure counters are independent",
			`fun makeCounter() {
			   var i = 0;
			   fun count() { i = i + 1; return i; }
			   return count;
			 }
			 var a = makeCounter();
			 var b = makeCounter();
			 print a(); print a(); print b();`,
			"1\n2\n1\n",
		},
		{
			"closure binds declaration scope",
			`var a = "global";
			 {
			   fun show() { print a; }
			   show();
			   var a = "block";
			   show();
			 }`,
			"global\nglobal\n",
		},
		{
			"closure outlives block",
			`var f;
			 { var x = "kept"; fun g() { return x; } f = g; }
			 print f();`,
			"kept\n",
		},
		{
			"return from nested loop",
			`fun first() { for (var i = 0; ; i = i + 1) { while (true) { return i; } } }
			 print first();`,
			"0\n",
		},
		{
			"implicit nil return",
			"fun f() {} print f();",
			"nil\n",
		},
		{
			"function display",
			"fun f() {} print f; print clock;",
			"<fn f>\n<native fn>\n",
		},
		{
			"clock returns a number",
			"print clock() > 0;",
			"true\n",
		},
		{
			"global redeclaration",
			"var a = 1; var a = 2; print a;",
			"2\n",
		},
		{
			"global function sees later global",
			"fun f() { return g(); } fun g() { return 1; } print f();",
			"1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("output:\n got  %q\n want %q", got, tt.want)
			}
		})
	}
}

func TestInterpret_RuntimeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
		line    int
		output  string
	}{
		{"add mixed", `print "foo" + 1;`, "Operands must be two numbers or two strings.", 1, ""},
		{"subtract string", `print "a" - 1;`, "Operands must be numbers.", 1, ""},
		{"compare nil", "print nil < 1;", "Operands must be numbers.", 1, ""},
		{"negate string", `print -"a";`, "Operand must be a number.", 1, ""},
		{"undefined read", "print x;", "Undefined variable 'x'.", 1, ""},
		{"undefined assign", "x = 1;", "Undefined variable 'x'.", 1, ""},
		{"call non-callable", `"str"();`, "Can only call functions and classes.", 1, ""},
		{
			"arity mismatch stops execution",
			"fun f(a, b) {}\nprint \"before\";\nf(1);\nprint \"after\";",
			"Expected 2 arguments but got 1.",
			3,
			"before\n",
		},
		{
			"error inside nested call",
			"fun f() { return g(); }\nfun g() { return 1 + nil; }\nf();",
			"Operands must be two numbers or two strings.",
			2,
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.input)

			var rerr *RuntimeError
			if !errors.As(err, &rerr) {
				t.Fatalf("error = %v, want *RuntimeError", err)
			}

			if rerr.Message != tt.message || rerr.Line() != tt.line {
				t.Errorf("error = %q at line %d, want %q at line %d",
					rerr.Message, rerr.Line(), tt.message, tt.line)
			}

			if out != tt.output {
				t.Errorf("output = %q, want %q", out, tt.output)
			}
		})
	}
}

func TestInterpret_PersistsAcrossCalls(t *testing.T) {
	var out bytes.Buffer

	in := New(WithOutput(&out))

	if err := in.Interpret(t.Context(), compile(t, in, "var a = 1; fun inc() { a = a + 1; }")); err != nil {
		t.Fatal(err)
	}

	// A runtime error inside a block must leave the global scope current.
	if err := in.Interpret(t.Context(), compile(t, in, "{ var b = 1; b(); }")); err == nil {
		t.Fatal("expected runtime error")
	}

	if err := in.Interpret(t.Context(), compile(t, in, "var c = 3; inc(); print a;")); err != nil {
		t.Fatal(err)
	}

	if got := out.String(); got != "2\n" {
		t.Errorf("output = %q, want %q", got, "2\n")
	}

	if _, ok := in.Globals().Lookup("c"); !ok {
		t.Error("c was not defined in the global scope")
	}

	if _, ok := in.Globals().Lookup("b"); ok {
		t.Error("block-local b leaked into the global scope")
	}
}

func TestWithNative(t *testing.T) {
	var out bytes.Buffer

	upper := NewNative("upper", 1, func(_ *Interpreter, args []Value) (Value, error) {
		s, ok := args[0].(string)
		if !ok {
			return nil, errors.New("upper: not a string")
		}

		return strings.ToUpper(s), nil
	})

	in := New(WithOutput(&out), WithNative(upper))

	if err := in.Interpret(t.Context(), compile(t, in, `print upper("lox");`)); err != nil {
		t.Fatal(err)
	}

	if got := out.String(); got != "LOX\n" {
		t.Errorf("output = %q", got)
	}
}

func TestClosure_BindInitializer(t *testing.T) {
	var out bytes.Buffer

	in := New(WithOutput(&out))
	stmts := compile(t, in, "fun init() { print this; return; }")

	decl := stmts[0].(*ast.Function)

	// "this" is not declared by the resolver in plain source; bind it
	// manually so the body reads it from the bound scope.
	for _, s := range decl.Body {
		if p, ok := s.(*ast.Print); ok {
			in.Bind(p.Expr.(*ast.Variable).Name, 1)
		}
	}

	ctor := NewClosure(decl, in.Globals(), true).Bind("instance")

	got, err := ctor.Call(in, nil)
	if err != nil {
		t.Fatal(err)
	}

	if got != "instance" {
		t.Errorf("initializer returned %v, want the bound instance", got)
	}

	if out.String() != "instance\n" {
		t.Errorf("output = %q", out.String())
	}

	plain := NewClosure(decl, in.Globals(), false).Bind("other")
	if v, _ := plain.Call(in, nil); v != nil {
		t.Errorf("plain function returned %v, want nil", v)
	}

	if plain.IsInitializer() || !ctor.IsInitializer() || plain.Name() != "init" {
		t.Error("Bind did not preserve the declaration")
	}
}

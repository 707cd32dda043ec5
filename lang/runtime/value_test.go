package runtime

import (
	"errors"
	"math"
	"testing"

	"github.com/ardnew/lox/lang/token"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		in   Value
		want bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{0.0, true},
		{"", true},
		{NewNative("f", 0, nil), true},
	}

	for _, tt := range tests {
		if got := Truthy(tt.in); got != tt.want {
			t.Errorf("Truthy(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	fn := NewNative("f", 0, nil)

	tests := []struct {
		a, b Value
		want bool
	}{
		{nil, nil, true},
		{nil, false, false},
		{1.0, 1.0, true},
		{1.0, "1", false},
		{"a", "a", true},
		{true, 1.0, false},
		{fn, fn, true},
		{fn, NewNative("f", 0, nil), false},
	}

	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("Equal(%#v, %#v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		in   Value
		want string
	}{
		{nil, "nil"},
		{true, "true"},
		{2.0, "2"},
		{-0.5, "-0.5"},
		{math.Inf(1), "+Inf"},
		{"raw \"text\"", "raw \"text\""},
		{NewNative("clock", 0, nil), "<native fn>"},
	}

	for _, tt := range tests {
		if got := Stringify(tt.in); got != tt.want {
			t.Errorf("Stringify(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnvironment(t *testing.T) {
	name := func(s string) *token.Token {
		tok := token.New(token.Identifier, s, nil, 7)

		return &tok
	}

	global := NewEnvironment(nil)
	global.Define("a", 1.0)

	inner := NewEnvironment(NewEnvironment(global))
	inner.Define("b", 2.0)

	if v, err := inner.Get(name("a")); err != nil || v != 1.0 {
		t.Errorf("Get(a) = %v, %v", v, err)
	}

	if err := inner.Assign(name("a"), 3.0); err != nil {
		t.Fatalf("Assign(a): %v", err)
	}

	if v := inner.GetAt(2, "a"); v != 3.0 {
		t.Errorf("GetAt(2, a) = %v, want 3", v)
	}

	inner.AssignAt(0, "b", 4.0)

	if v, _ := inner.Lookup("b"); v != 4.0 {
		t.Errorf("b = %v, want 4", v)
	}

	if inner.Ancestor(2) != global || inner.Ancestor(0) != inner {
		t.Error("Ancestor walked the wrong number of links")
	}

	_, err := inner.Get(name("missing"))

	var rerr *RuntimeError
	if !errors.As(err, &rerr) || rerr.Message != "Undefined variable 'missing'." || rerr.Line() != 7 {
		t.Errorf("Get(missing) error = %v", err)
	}

	if err := inner.Assign(name("missing"), 1.0); err == nil {
		t.Error("Assign must not create a binding")
	}

	if _, ok := global.Lookup("missing"); ok {
		t.Error("failed Assign created a global")
	}
}

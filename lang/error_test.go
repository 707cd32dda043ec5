package lang

import (
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/ardnew/lox/lang/diag"
	"github.com/ardnew/lox/lang/runtime"
	"github.com/ardnew/lox/lang/token"
)

func TestError_Unwrap(t *testing.T) {
	inner := NewError("inner")
	outer := NewError("outer").Wrap(inner)

	if outer.Unwrap() != inner {
		t.Error("Unwrap should return inner error")
	}

	if !errors.Is(outer, inner) {
		t.Error("errors.Is should find inner error")
	}
}

func TestError_IsSentinel(t *testing.T) {
	err := ErrDefine.Wrap(errors.New("boom")).With(slog.String("name", "x"))

	if !errors.Is(err, ErrDefine) {
		t.Error("wrapped sentinel should match its origin")
	}

	if errors.Is(err, ErrRuntime) {
		t.Error("wrapped sentinel should not match a different sentinel")
	}

	if got := err.Error(); got != "invalid host definition: boom" {
		t.Errorf("Error() = %q", got)
	}
}

func TestWrapError(t *testing.T) {
	t.Run("wraps standard error", func(t *testing.T) {
		stdErr := errors.New("standard error")

		wrapped := WrapError(stdErr)
		if wrapped.err != stdErr {
			t.Error("WrapError should keep the original error")
		}
	})

	t.Run("passes through Error", func(t *testing.T) {
		if WrapError(ErrUsage) != ErrUsage {
			t.Error("WrapError should return an existing *Error unchanged")
		}
	})
}

func TestStaticError_Format(t *testing.T) {
	src := "var a = 1;\nprint ;\n"
	err := NewStaticError([]diag.Diagnostic{
		{Line: 2, Where: " at ';'", Message: "Expect expression.", Stage: diag.StageParse},
	}, src)
	err.Name = "demo.lox"

	want := "demo.lox:\n" +
		"[line 2] Error at ';': Expect expression.\n" +
		"  2 | print ;\n"

	if got := err.Format(); got != want {
		t.Errorf("Format:\n got  %q\n want %q", got, want)
	}

	if got := err.Error(); got != "[line 2] Error at ';': Expect expression." {
		t.Errorf("Error = %q", got)
	}
}

func TestExitCode(t *testing.T) {
	tok := token.New(token.Plus, "+", nil, 3)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"static", NewStaticError(nil, ""), ExitData},
		{"runtime sentinel", ErrRuntime.Wrap(errors.New("x")), ExitSoftware},
		{"bare runtime error", runtime.NewRuntimeError(&tok, "Operands must be numbers."), ExitSoftware},
		{"usage", ErrUsage.Wrap(errors.New("bad flag")), ExitUsage},
		{"missing script", ErrScriptNotFound.With(slog.String("name", "x.lox")), ExitUsage},
		{"read failure", ErrReadInput.Wrap(errors.New("eof")), ExitFailure},
		{"foreign", errors.New("other"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestRuntimeError_Message(t *testing.T) {
	tok := token.New(token.Identifier, "x", nil, 4)
	err := ErrRuntime.Wrap(runtime.NewRuntimeError(&tok, "Undefined variable 'x'."))

	if !strings.HasSuffix(err.Error(), "Undefined variable 'x'.\n[line 4]") {
		t.Errorf("Error = %q", err.Error())
	}
}

func TestReport(t *testing.T) {
	tok := token.New(token.Identifier, "x", nil, 4)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{
			"static",
			&StaticError{
				Diagnostics: []diag.Diagnostic{{Line: 1, Where: " at ';'", Message: "Expect expression."}},
				Source:      "print ;",
			},
			"[line 1] Error at ';': Expect expression.\n  1 | print ;",
		},
		{
			"runtime",
			ErrRuntime.Wrap(runtime.NewRuntimeError(&tok, "Undefined variable 'x'.")),
			"Undefined variable 'x'.\n[line 4]",
		},
		{"other", ErrScriptNotFound, "script not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Report(tt.err); got != tt.want {
				t.Errorf("Report = %q, want %q", got, tt.want)
			}
		})
	}
}

package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/lox/lang/diag"
	"github.com/ardnew/lox/lang/runtime"
)

// Predefined errors (sentinel values).
var (
	ErrStatic         = NewError("static error")
	ErrRuntime        = NewError("runtime error")
	ErrReadInput      = NewError("failed to read input")
	ErrDefine         = NewError("invalid host definition")
	ErrScriptNotFound = NewError("script not found")
	ErrUsage          = NewError("usage error")
)

// Process exit statuses reported by [ExitCode].
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 64 // command line usage error
	ExitData     = 65 // static error in the program text
	ExitSoftware = 70 // runtime error
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
//	"<msg>: <err>", "<msg>", "<err>", or ""
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from with
// [Error.Wrap] or [Error.With].
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.err == nil && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// StaticError reports every scan, parse and resolve error found in one
// source text. A program with a StaticError is never executed.
type StaticError struct {
	Diagnostics []diag.Diagnostic
	Source      string // The original source input
	Name        string // Optional source name, e.g. a file path
}

// NewStaticError creates a StaticError from the diagnostics of source.
func NewStaticError(diags []diag.Diagnostic, source string) *StaticError {
	return &StaticError{Diagnostics: diags, Source: source}
}

// Error implements the error interface. Each diagnostic is listed on its
// own line in the conventional "[line N] Error at 'x': message" form.
func (e *StaticError) Error() string {
	if len(e.Diagnostics) == 0 {
		return "static error"
	}

	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = d.Error()
	}

	return strings.Join(msgs, "\n")
}

// Unwrap lets errors.Is match [ErrStatic].
func (e *StaticError) Unwrap() error { return ErrStatic }

// Format returns every diagnostic followed by the offending source line:
//
//	[line 2] Error at ';': Expect expression.
//	  2 | print ;
func (e *StaticError) Format() string {
	lines := strings.Split(e.Source, "\n")

	var buf strings.Builder

	if e.Name != "" {
		buf.WriteString(e.Name)
		buf.WriteString(":\n")
	}

	for _, d := range e.Diagnostics {
		buf.WriteString(d.Error())
		buf.WriteRune('\n')

		// Show the offending line if within bounds
		if d.Line > 0 && d.Line <= len(lines) {
			buf.WriteString("  ")
			buf.WriteString(strconv.Itoa(d.Line))
			buf.WriteString(" | ")
			buf.WriteString(strings.TrimRight(lines[d.Line-1], "\r"))
			buf.WriteRune('\n')
		}
	}

	return buf.String()
}

// LogValue implements slog.LogValuer.
func (e *StaticError) LogValue() slog.Value {
	attrs := []slog.Attr{slog.Int("count", len(e.Diagnostics))}

	if e.Name != "" {
		attrs = append(attrs, slog.String("name", e.Name))
	}

	if len(e.Diagnostics) > 0 {
		attrs = append(attrs, slog.Any("first", e.Diagnostics[0]))
	}

	return slog.GroupValue(attrs...)
}

// ExitCode maps the result of running a program to a process exit status.
func ExitCode(err error) int {
	var rerr *runtime.RuntimeError

	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrStatic):
		return ExitData
	case errors.Is(err, ErrRuntime), errors.As(err, &rerr):
		return ExitSoftware
	case errors.Is(err, ErrUsage), errors.Is(err, ErrScriptNotFound):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// Report returns the text shown to a user for an error returned by [Run],
// [Check] or a [Session]. Static errors list each diagnostic with its source
// line, and runtime errors give the message followed by "[line N]".
func Report(err error) string {
	if err == nil {
		return ""
	}

	var serr *StaticError
	if errors.As(err, &serr) {
		return strings.TrimRight(serr.Format(), "\n")
	}

	var rerr *runtime.RuntimeError
	if errors.As(err, &rerr) {
		return rerr.Error()
	}

	return err.Error()
}

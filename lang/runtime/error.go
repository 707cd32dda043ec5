package runtime

import (
	"fmt"
	"log/slog"

	"github.com/ardnew/lox/lang/token"
)

// RuntimeError aborts execution of the current program. It carries the
// token at which evaluation failed.
type RuntimeError struct {
	Token   *token.Token
	Message string
}

// NewRuntimeError returns a RuntimeError located at tok.
func NewRuntimeError(tok *token.Token, message string) *RuntimeError {
	return &RuntimeError{Token: tok, Message: message}
}

// Line returns the source line of the offending token, or 0 if unknown.
func (e *RuntimeError) Line() int {
	if e.Token == nil {
		return 0
	}

	return e.Token.Line
}

// Error formats e as the message followed by its line on a separate line.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Line())
}

// LogValue implements slog.LogValuer.
func (e *RuntimeError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("message", e.Message),
		slog.Int("line", e.Line()),
	}

	if e.Token != nil {
		attrs = append(attrs, slog.String("token", e.Token.Lexeme))
	}

	return slog.GroupValue(attrs...)
}

// Package diag collects the lexical, syntax and resolution errors reported
// during one run of the pipeline.
//
// A [Collector] is created per run and threaded explicitly through the
// scanner, parser and resolver. It records every [Diagnostic] and optionally
// forwards each one to a [Sink] as it arrives.
package diag

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ardnew/lox/lang/token"
)

// Stage names the pipeline stage that reported a diagnostic.
type Stage int

const (
	StageScan Stage = iota
	StageParse
	StageResolve
)

func (s Stage) String() string {
	switch s {
	case StageScan:
		return "scan"
	case StageParse:
		return "parse"
	case StageResolve:
		return "resolve"
	default:
		return "Stage(" + strconv.Itoa(int(s)) + ")"
	}
}

// Diagnostic is one reported static error.
type Diagnostic struct {
	// Where is the location context: "" for lexical errors, " at end" for
	// end-of-stream, or " at 'lexeme'".
	Where   string
	Message string
	Line    int
	Stage   Stage
}

// Error formats d as "[line N] Error<where>: <message>".
func (d Diagnostic) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// LogValue implements [slog.LogValuer].
func (d Diagnostic) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("stage", d.Stage.String()),
		slog.Int("line", d.Line),
		slog.String("where", d.Where),
		slog.String("message", d.Message),
	)
}

// Sink receives each diagnostic as it is reported.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(Diagnostic)

// Report calls f(d).
func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Collector accumulates diagnostics for a single run. The zero value is
// ready to use.
type Collector struct {
	sink  Sink
	diags []Diagnostic
}

// NewCollector returns a Collector that also forwards to sink, if non-nil.
func NewCollector(sink Sink) *Collector {
	return &Collector{sink: sink}
}

// Report records a diagnostic at line with an explicit location context.
func (c *Collector) Report(stage Stage, line int, where, message string) {
	d := Diagnostic{Stage: stage, Line: line, Where: where, Message: message}
	c.diags = append(c.diags, d)

	if c.sink != nil {
		c.sink.Report(d)
	}
}

// At records a diagnostic located at tok.
func (c *Collector) At(stage Stage, tok *token.Token, message string) {
	c.Report(stage, tok.Line, Where(tok), message)
}

// HadError reports whether anything was recorded.
func (c *Collector) HadError() bool { return len(c.diags) > 0 }

// Len returns the number of recorded diagnostics.
func (c *Collector) Len() int { return len(c.diags) }

// Diagnostics returns a copy of the recorded diagnostics in report order.
func (c *Collector) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)

	return out
}

// Where returns the location context used when reporting at tok.
func Where(tok *token.Token) string {
	if tok.Kind == token.EOF {
		return " at end"
	}

	return " at '" + tok.Lexeme + "'"
}

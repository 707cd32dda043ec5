package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/lox/lang/ast"
	"github.com/ardnew/lox/lang/diag"
	"github.com/ardnew/lox/lang/parser"
	"github.com/ardnew/lox/lang/scanner"
	"github.com/ardnew/lox/lang/token"
)

// Program is the scanned and parsed form of one source text. A Program is
// immutable once built and may be shared, resolved and executed by any
// number of sessions.
type Program struct {
	Source      string
	Tokens      []token.Token
	Stmts       []ast.Stmt
	Diagnostics []diag.Diagnostic // scan and parse errors, in report order
}

// Tree returns the statements as an [ast.Program] for dumping or encoding.
func (p *Program) Tree() ast.Program { return ast.Program(p.Stmts) }

// Parse scans and parses source. The returned Program holds a best-effort
// tree even when the returned error is a [*StaticError].
func Parse(ctx context.Context, source string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	prog := o.program(ctx, source)
	if len(prog.Diagnostics) > 0 {
		return prog, o.staticError(prog.Diagnostics, source)
	}

	return prog, nil
}

// ParseReader reads all of r and parses it like [Parse].
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	source, err := ReadSource(r)
	if err != nil {
		return nil, err
	}

	return Parse(ctx, source, opts...)
}

// program returns the parsed form of source, from the cache when enabled.
func (o options) program(ctx context.Context, source string) *Program {
	if o.nocache {
		return o.parse(ctx, source)
	}

	return o.parseCached(ctx, source)
}

// parse runs the scanner and parser over source.
func (o options) parse(ctx context.Context, source string) *Program {
	var diags diag.Collector

	toks := scanner.Scan(source, &diags)

	o.logger.TraceContext(ctx, "scanned",
		slog.Int("source_bytes", len(source)),
		slog.Int("tokens", len(toks)),
		slog.Int("errors", diags.Len()))

	stmts := parser.Parse(toks, &diags, parser.WithBareExpressions(o.bare))

	o.logger.TraceContext(ctx, "parsed",
		slog.Int("statements", len(stmts)),
		slog.Int("errors", diags.Len()))

	return &Program{
		Source:      source,
		Tokens:      toks,
		Stmts:       stmts,
		Diagnostics: diags.Diagnostics(),
	}
}

// staticError forwards diags to the configured sink and wraps them.
func (o options) staticError(diags []diag.Diagnostic, source string) *StaticError {
	if o.sink != nil {
		for _, d := range diags {
			o.sink.Report(d)
		}
	}

	err := NewStaticError(diags, source)
	err.Name = o.name

	return err
}

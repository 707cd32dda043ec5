package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/lox/lang"
	"github.com/ardnew/lox/pkg"
)

// Fmt prints the scanned or parsed form of a source.
type Fmt struct {
	AST    AST    `cmd:"" default:"withargs" help:"Print the syntax tree (default)."`
	Tokens Tokens `cmd:""                    help:"Print the token stream."`
}

// FmtFlags are the flags shared by the fmt subcommands.
type FmtFlags struct {
	Encoding string `default:"native" enum:"native,sexp,json,yaml" help:"Output encoding (${enum})."  short:"e"`
	Indent   int    `default:"2"                                   help:"Indent width for JSON and YAML output; 0 is compact." short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// AST prints the syntax tree of a source.
type AST struct {
	FmtFlags `embed:""`
}

// Run executes the fmt ast command. The tree is printed even when the
// source has syntax errors, which are then reported.
func (a *AST) Run(ctx context.Context) error {
	return a.format(ctx, "ast", (*lang.Program).Format)
}

// Tokens prints the token stream of a source.
type Tokens struct {
	FmtFlags `embed:""`
}

// Run executes the fmt tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	return t.format(ctx, "tokens", (*lang.Program).FormatTokens)
}

type formatFunc func(*lang.Program, context.Context, io.Writer, lang.Encoding, int) error

func (f *FmtFlags) format(ctx context.Context, what string, fn formatFunc) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	enc, ok := lang.ParseEncoding(f.Encoding)
	if !ok {
		return ErrFormat.Wrap(pkg.ErrInvalidFormat).
			With(slog.String("encoding", f.Encoding))
	}

	streams := streamsFrom(ctx)

	src, err := readScript(f.Source, streams)
	if err != nil {
		return err
	}

	// Parse always returns a best-effort program.
	prog, perr := lang.Parse(ctx, src, optionsFrom(ctx, lang.WithName(f.Source))...)

	if err := fn(prog, ctx, streams.Out, enc, f.Indent); err != nil {
		return ErrFormat.Wrap(err).With(slog.String("output", what))
	}

	return perr
}

package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/lox/lang/ast"
	"github.com/ardnew/lox/lang/token"
)

// Encoding selects how [Program.Format] and [Program.FormatTokens] render.
type Encoding int

const (
	EncodingNative Encoding = iota // s-expression tree, one token per line
	EncodingJSON
	EncodingYAML
)

// ParseEncoding returns the encoding named s ("native", "json" or "yaml").
func ParseEncoding(s string) (Encoding, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "native", "sexp":
		return EncodingNative, true
	case "json":
		return EncodingJSON, true
	case "yaml":
		return EncodingYAML, true
	default:
		return EncodingNative, false
	}
}

// Format writes the syntax tree to w. An indent of zero selects compact
// output for the JSON and YAML encodings.
func (p *Program) Format(
	ctx context.Context,
	w io.Writer,
	enc Encoding,
	indent int,
) error {
	tree := p.Tree()

	switch enc {
	case EncodingJSON:
		return formatJSON(w, tree, indent)
	case EncodingYAML:
		return formatYAML(ctx, w, tree.ToNative(), indent)
	default:
		_, err := io.WriteString(w, ast.Dump(tree))

		return err
	}
}

// FormatTokens writes the token stream to w, including the end-of-stream
// token.
func (p *Program) FormatTokens(
	ctx context.Context,
	w io.Writer,
	enc Encoding,
	indent int,
) error {
	switch enc {
	case EncodingJSON:
		return formatJSON(w, tokensToNative(p.Tokens), indent)
	case EncodingYAML:
		return formatYAML(ctx, w, tokensToNative(p.Tokens), indent)
	}

	for _, tok := range p.Tokens {
		if _, err := fmt.Fprintf(w, "%4d %s\n", tok.Line, tok); err != nil {
			return err
		}
	}

	return nil
}

func tokensToNative(toks []token.Token) []any {
	out := make([]any, len(toks))

	for i, tok := range toks {
		m := map[string]any{
			"kind":   tok.Kind.String(),
			"lexeme": tok.Lexeme,
			"line":   tok.Line,
		}

		if tok.Literal != nil {
			m["literal"] = tok.Literal
		}

		out[i] = m
	}

	return out
}

func formatJSON(w io.Writer, v any, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

func formatYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

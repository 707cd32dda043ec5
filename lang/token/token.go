// Package token defines the lexical tokens shared by every stage of the lox
// pipeline.
package token

import (
	"log/slog"
	"strconv"
)

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	// Single-character punctuation.
	LeftParen Kind = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star

	// One or two character operators.
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals.
	Identifier
	String
	Number

	// Keywords.
	And
	Else
	False
	For
	Fun
	If
	Nil
	Or
	Print
	Return
	True
	Var
	While

	EOF
)

var kindName = [...]string{
	LeftParen:    "(",
	RightParen:   ")",
	LeftBrace:    "{",
	RightBrace:   "}",
	Comma:        ",",
	Dot:          ".",
	Minus:        "-",
	Plus:         "+",
	Semicolon:    ";",
	Slash:        "/",
	Star:         "*",
	Bang:         "!",
	BangEqual:    "!=",
	Equal:        "=",
	EqualEqual:   "==",
	Greater:      ">",
	GreaterEqual: ">=",
	Less:         "<",
	LessEqual:    "<=",
	Identifier:   "identifier",
	String:       "string",
	Number:       "number",
	And:          "and",
	Else:         "else",
	False:        "false",
	For:          "for",
	Fun:          "fun",
	If:           "if",
	Nil:          "nil",
	Or:           "or",
	Print:        "print",
	Return:       "return",
	True:         "true",
	Var:          "var",
	While:        "while",
	EOF:          "eof",
}

// String returns the source spelling of punctuation, operators and keywords,
// or a lowercase class name for literals and end-of-stream.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindName) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindName[k]
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return k >= And && k <= While }

// keywords maps reserved words to their kinds.
var keywords = map[string]Kind{
	"and":    And,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// Lookup returns the keyword kind for ident, or [Identifier] if ident is not
// reserved.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}

	return Identifier
}

// Keywords returns the reserved words in declaration order.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for k := And; k <= While; k++ {
		out = append(out, k.String())
	}

	return out
}

// Token is one lexeme scanned from source. Tokens are immutable once
// produced; later stages refer to them by pointer, and that pointer is the
// token's identity.
type Token struct {
	// Literal holds the decoded payload: a string for [String], a float64
	// for [Number], nil otherwise.
	Literal any
	Lexeme  string
	Kind    Kind
	Line    int
}

// New returns a token of kind k.
func New(k Kind, lexeme string, literal any, line int) Token {
	return Token{Kind: k, Lexeme: lexeme, Literal: literal, Line: line}
}

// String renders the token for debugging output.
func (t Token) String() string {
	switch t.Kind {
	case String:
		return t.Kind.String() + " " + t.Lexeme + " " + strconv.Quote(t.Literal.(string))
	case Number:
		return t.Kind.String() + " " + t.Lexeme + " " +
			strconv.FormatFloat(t.Literal.(float64), 'g', -1, 64)
	default:
		return t.Kind.String() + " " + t.Lexeme
	}
}

// LogValue implements [slog.LogValuer].
func (t Token) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", t.Kind.String()),
		slog.String("lexeme", t.Lexeme),
		slog.Int("line", t.Line),
	)
}

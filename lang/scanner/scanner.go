// Package scanner converts lox source text into a flat token sequence.
package scanner

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/lox/lang/diag"
	"github.com/ardnew/lox/lang/token"
)

// Scan tokenizes source in a single left-to-right pass. The result always
// ends with exactly one [token.EOF] token. Lexical errors are reported to
// diags and scanning continues with the next character.
func Scan(source string, diags *diag.Collector) []token.Token {
	s := &scanner{
		src:   source,
		line:  1,
		diags: diags,
	}

	for !s.eof() {
		s.start = s.pos
		s.scanToken()
	}

	s.toks = append(s.toks, token.New(token.EOF, "", nil, s.line))

	return s.toks
}

// scanner holds the scanner state.
type scanner struct {
	diags *diag.Collector
	src   string
	toks  []token.Token
	start int
	pos   int
	line  int
}

func (s *scanner) scanToken() {
	c := s.advance()

	switch c {
	case '(':
		s.add(token.LeftParen)
	case ')':
		s.add(token.RightParen)
	case '{':
		s.add(token.LeftBrace)
	case '}':
		s.add(token.RightBrace)
	case ',':
		s.add(token.Comma)
	case '.':
		s.add(token.Dot)
	case '-':
		s.add(token.Minus)
	case '+':
		s.add(token.Plus)
	case ';':
		s.add(token.Semicolon)
	case '*':
		s.add(token.Star)

	case '!':
		s.addEither('=', token.BangEqual, token.Bang)
	case '=':
		s.addEither('=', token.EqualEqual, token.Equal)
	case '<':
		s.addEither('=', token.LessEqual, token.Less)
	case '>':
		s.addEither('=', token.GreaterEqual, token.Greater)

	case '/':
		if s.match('/') {
			for s.peek() != '\n' && !s.eof() {
				s.advance()
			}
		} else {
			s.add(token.Slash)
		}

	case ' ', '\r', '\t':

	case '\n':
		s.line++

	case '"':
		s.string()

	default:
		switch {
		case isDigit(c):
			s.number()
		case isIdentStart(c):
			s.identifier()
		default:
			s.diags.Report(diag.StageScan, s.line, "", "Unexpected character.")
		}
	}
}

func (s *scanner) string() {
	for s.peek() != '"' && !s.eof() {
		if s.peek() == '\n' {
			s.line++
		}

		s.advance()
	}

	if s.eof() {
		s.diags.Report(diag.StageScan, s.line, "", "Unterminated string.")

		return
	}

	s.advance() // closing quote

	s.addLiteral(token.String, s.src[s.start+1:s.pos-1])
}

func (s *scanner) number() {
	for isDigit(s.peek()) {
		s.advance()
	}

	// A trailing '.' is only part of the number when a digit follows it.
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()

		for isDigit(s.peek()) {
			s.advance()
		}
	}

	// The lexeme is digits with at most one interior '.', so it always parses.
	n, _ := strconv.ParseFloat(s.src[s.start:s.pos], 64)

	s.addLiteral(token.Number, n)
}

func (s *scanner) identifier() {
	for isIdentPart(s.peek()) {
		s.advance()
	}

	s.add(token.Lookup(s.src[s.start:s.pos]))
}

// advance consumes and returns the next rune.
func (s *scanner) advance() rune {
	r, size := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += size

	return r
}

// match consumes the next rune only if it equals want.
func (s *scanner) match(want rune) bool {
	if s.eof() || s.peek() != want {
		return false
	}

	s.advance()

	return true
}

func (s *scanner) peek() rune {
	if s.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(s.src[s.pos:])

	return r
}

func (s *scanner) peekNext() rune {
	if s.eof() {
		return 0
	}

	_, size := utf8.DecodeRuneInString(s.src[s.pos:])
	if s.pos+size >= len(s.src) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(s.src[s.pos+size:])

	return r
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) add(k token.Kind) { s.addLiteral(k, nil) }

func (s *scanner) addEither(next rune, matched, single token.Kind) {
	if s.match(next) {
		s.add(matched)
	} else {
		s.add(single)
	}
}

func (s *scanner) addLiteral(k token.Kind, literal any) {
	s.toks = append(s.toks, token.New(k, s.src[s.start:s.pos], literal, s.line))
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentPart(r rune) bool { return isIdentStart(r) || isDigit(r) }

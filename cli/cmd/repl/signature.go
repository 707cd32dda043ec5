package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/lox/lang"
)

// Signature hint styles.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // callee identifier
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// detectFunctionCall analyzes the input to determine if the cursor is inside
// the argument list of a call to a named function. Parentheses and commas
// inside string literals are ignored.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Record the open parenthesis of every call still unclosed at the
	// cursor, and the commas at each depth.
	var (
		opens  []int
		commas []int
		quoted bool
	)

	for i := 0; i < cursor; i++ {
		switch c := input[i]; {
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '(':
			opens = append(opens, i)
			commas = append(commas, 0)
		case c == ')' && len(opens) > 0:
			opens = opens[:len(opens)-1]
			commas = commas[:len(commas)-1]
		case c == ',' && len(commas) > 0:
			commas[len(commas)-1]++
		}
	}

	if quoted || len(opens) == 0 {
		return functionCall{}
	}

	open := opens[len(opens)-1]

	// Walk backward over the callee name, skipping space before '('.
	nameEnd := len(strings.TrimRight(input[:open], " \t"))
	nameStart := nameEnd

	for nameStart > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:nameStart])
		if !isIdentRune(r) {
			break
		}

		nameStart -= size
	}

	name := input[nameStart:nameEnd]
	if name == "" || ('0' <= name[0] && name[0] <= '9') {
		return functionCall{}
	}

	return functionCall{
		name:     name,
		argIndex: commas[len(commas)-1],
		inCall:   true,
	}
}

// getSignature returns the display signature and parameter names of the
// global function name, or "" if name is not a function.
func getSignature(s *lang.Session, name string) (signature string, params []string) {
	if s == nil {
		return "", nil
	}

	params, ok := s.Signature(name)
	if !ok {
		return "", nil
	}

	return formatSignature(name, params), params
}

// formatSignature formats a function signature with parameter names.
func formatSignature(name string, params []string) string {
	return name + "(" + strings.Join(params, ", ") + ")"
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted. An argument index past the last parameter
// highlights nothing, so an extra argument is visible as an arity error.
func renderSignatureHint(
	name string,
	params []string,
	currentArgIdx int,
) string {
	if name == "" {
		return ""
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == currentArgIdx {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}

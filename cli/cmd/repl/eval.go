package repl

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/lox/lang"
	"github.com/ardnew/lox/log"
)

// Config holds the settings shared by [Run] and [RunPlain].
type Config struct {
	History string        // history file; empty keeps history in memory
	Logger  log.Logger    // the zero Logger is silent
	Options []lang.Option // applied to the session before the REPL's own
	In      io.Reader
	Out     io.Writer
	Err     io.Writer
}

// evaluator feeds input lines to one session, joining lines until the
// brackets and strings of the pending text are closed.
type evaluator struct {
	session *lang.Session
	out     *bytes.Buffer // print output of the most recent run
	logger  log.Logger
	pending []string
}

func newEvaluator(ctx context.Context, cfg Config) (*evaluator, error) {
	out := new(bytes.Buffer)

	opts := append(cfg.Options[:len(cfg.Options):len(cfg.Options)],
		lang.WithLogger(cfg.Logger),
		lang.WithInteractive(true),
		lang.WithOutput(out),
	)

	s, err := lang.NewSession(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &evaluator{session: s, out: out, logger: cfg.Logger}, nil
}

// continuing reports whether earlier lines are waiting to be completed.
func (e *evaluator) continuing() bool { return len(e.pending) > 0 }

// reset discards any pending lines.
func (e *evaluator) reset() { e.pending = nil }

// feed adds line to the pending text. Once the text is complete it is run,
// and feed returns the printed output and the run's error with more false.
// Static and runtime errors abort only the text that caused them.
func (e *evaluator) feed(ctx context.Context, line string) (output string, more bool, err error) {
	e.pending = append(e.pending, line)
	source := strings.Join(e.pending, "\n")

	if needsMore(source) {
		return "", true, nil
	}

	e.pending = nil

	output, err = e.run(ctx, source)

	return output, false, err
}

// run executes source and returns what it printed.
func (e *evaluator) run(ctx context.Context, source string) (string, error) {
	e.out.Reset()

	err := e.session.Run(ctx, source)

	e.logger.TraceContext(ctx, "repl eval",
		slog.Int("source_bytes", len(source)),
		slog.Int("output_bytes", e.out.Len()),
		slog.Bool("error", err != nil))

	return e.out.String(), err
}

// needsMore reports whether source ends inside a string literal or with an
// unclosed parenthesis or brace. Line comments are skipped.
func needsMore(source string) bool {
	depth := 0
	quoted := false

	for i := 0; i < len(source); i++ {
		c := source[i]

		switch {
		case quoted:
			quoted = c != '"'
		case c == '"':
			quoted = true
		case c == '/' && i+1 < len(source) && source[i+1] == '/':
			for i < len(source) && source[i] != '\n' {
				i++
			}
		case c == '(' || c == '{':
			depth++
		case c == ')' || c == '}':
			depth--
		}
	}

	return quoted || depth > 0
}

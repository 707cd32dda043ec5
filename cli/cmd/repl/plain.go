package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/ardnew/lox/lang"
)

// RunPlain starts a line-oriented REPL. It needs no full-screen terminal
// and reads piped input when stdin is not a terminal.
func RunPlain(ctx context.Context, cfg Config) error {
	eval, err := newEvaluator(ctx, cfg)
	if err != nil {
		return err
	}

	history := NewHistory(cfg.History)
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history",
			slog.String("path", cfg.History),
			slog.String("error", err.Error()))
	}

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetWordCompleter(func(input string, pos int) (string, []string, string) {
		word, start, end := wordBounds(input, pos)
		if inString(input, start) {
			return input[:pos], nil, input[pos:]
		}

		matches := complete(word, candidates(eval.session))
		names := make([]string, len(matches))

		for i, match := range matches {
			names[i] = match.Str
		}

		return input[:start], names, input[end:]
	})

	_, _ = line.ReadHistory(strings.NewReader(strings.Join(history.Lines(modeEval), "\n")))

	prompt := func(p string) (string, error) {
		text, err := line.Prompt(p)
		if err == nil {
			line.AppendHistory(text)
		}

		return text, err
	}

	out, errOut := outputs(cfg)

	return plainLoop(ctx, eval, history, prompt, out, errOut)
}

// outputs returns the writers for results and errors, defaulting to the
// standard streams.
func outputs(cfg Config) (out, errOut io.Writer) {
	out, errOut = cfg.Out, cfg.Err

	if out == nil {
		out = os.Stdout
	}

	if errOut == nil {
		errOut = os.Stderr
	}

	return out, errOut
}

// plainLoop reads lines with prompt until end of input. An aborted prompt
// discards pending lines.
func plainLoop(
	ctx context.Context,
	eval *evaluator,
	history *History,
	prompt func(string) (string, error),
	out, errOut io.Writer,
) error {
	for ctx.Err() == nil {
		p := evalPrompt
		if eval.continuing() {
			p = contPrompt
		}

		text, err := prompt(p)

		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(out)

			return nil

		case errors.Is(err, liner.ErrPromptAborted):
			eval.reset()

			continue

		case err != nil:
			return err
		}

		_ = history.Write(text)

		output, _, err := eval.feed(ctx, text)
		if output != "" {
			fmt.Fprint(out, output)
		}

		if err != nil {
			fmt.Fprintln(errOut, lang.Report(err))
		}
	}

	return nil
}

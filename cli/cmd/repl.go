package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/lox/cli/cmd/repl"
	"github.com/ardnew/lox/log"
)

// Repl starts an interactive prompt. Globals and functions defined on one
// line remain visible to the next.
type Repl struct {
	Plain   bool   `help:"Use a plain line editor instead of the full-screen prompt." short:"P"`
	History string `default:"${history}"                                              help:"History file." type:"path"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	history := r.History
	if history == "" {
		if ktx := kongContextFrom(ctx); ktx != nil {
			history = ktx.Model.Vars()[HistoryIdentifier]
		}
	}

	streams := streamsFrom(ctx)
	logger := log.Default().With(slog.String("command", "repl"))

	cfg := repl.Config{
		History: history,
		Logger:  logger,
		Options: optionsFrom(ctx),
		In:      streams.In,
		Out:     streams.Out,
		Err:     streams.Err,
	}

	if r.Plain || !isTerminal(streams.In) {
		err = repl.RunPlain(ctx, cfg)
	} else {
		err = repl.Run(ctx, cfg)
	}

	if err != nil {
		return ErrREPL.Wrap(err)
	}

	return nil
}

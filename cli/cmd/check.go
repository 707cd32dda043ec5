package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ardnew/lox/lang"
	"github.com/ardnew/lox/log"
)

// Check reports the static errors in each source without running it.
type Check struct {
	Sources []string `arg:"" default:"-" help:"Source files or '-' for stdin. Duplicate paths are checked once." name:"source"`
}

// Run executes the check command. Every source is checked even after one
// fails; each failure is written to stderr.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	streams := streamsFrom(ctx)

	srcs, errs := openSources(c.Sources, streams.In)

	failed := 0

	for _, src := range srcs {
		if err := checkSource(ctx, src); err != nil {
			failed++

			fmt.Fprintln(streams.Err, lang.Report(err))

			if !errors.Is(err, lang.ErrStatic) {
				errs = append(errs, err)
			}
		}

		_ = src.Close()
	}

	log.DebugContext(ctx, "check complete",
		slog.Int("sources", len(srcs)),
		slog.Int("failed", failed))

	switch {
	case len(errs) > 0:
		return ErrCheck.Wrap(errors.Join(errs...))
	case failed > 0:
		return ErrCheck.
			With(slog.Int("failed", failed), slog.Int("sources", len(srcs))).
			Wrap(lang.ErrStatic)
	default:
		return nil
	}
}

func checkSource(ctx context.Context, src source) error {
	text, err := lang.ReadSource(src.r)
	if err != nil {
		return err
	}

	return lang.Check(ctx, text, optionsFrom(ctx, lang.WithName(src.name))...)
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ardnew/lox/cli"
	"github.com/ardnew/lox/lang"
	"github.com/ardnew/lox/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		log.Debug("run failed", slog.Any("error", err))
		fmt.Fprintln(os.Stderr, lang.Report(err))
		os.Exit(lang.ExitCode(err))
	}
}

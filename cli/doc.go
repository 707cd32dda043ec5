// Package cli contains the command line interface for lox.
//
// # Usage
//
//	lox [flags] [script]             run a script, or start the REPL
//	lox check [source ...]           report static errors
//	lox fmt [ast|tokens] [source]    print the syntax tree or tokens
//	lox repl                         start an interactive session
//	lox init                         write the configuration file
//
// A script named without a directory is searched for in each --include
// directory, then in each directory of $LOX_PATH, with and without the
// ".lox" extension.
//
// Globals can be bound before the program runs with --define NAME=EXPR.
// EXPR is a host expression, so it can read the environment:
//
//	lox -D 'home=env("HOME")' -D 'limit=10*3' script.lox
//
// # Exit Status
//
// A static error in the program exits with 65, a runtime error with 70 and
// a command line error with 64.
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the user
// configuration directory; values in the YAML file win. Nested YAML keys
// are joined with hyphens, and a mapping named after a command holds that
// command's flags:
//
//	log:
//	  level: debug
//	fmt:
//	  encoding: yaml
//
// The init command writes the current flag values to config.yaml.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --[no-]log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o lox .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli

// Package cmd implements the lox subcommands: run, check, fmt, init and
// repl.
//
// Commands receive everything they share through their context.Context:
// the parsed [kong.Context] ([WithContext]), interpreter options such as the
// logger and host definitions ([WithOptions]), the script search path
// ([WithSearchPath]) and the standard streams ([WithStreams]).
package cmd

var (
	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"

	// HistoryIdentifier is the kong variable identifier containing the path
	// to the REPL history file.
	HistoryIdentifier = "history"
)

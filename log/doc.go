// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// and output formats that are applied at logger creation time using
// functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Warn("script not found", slog.String("path", path))
//
// The zero [Logger] discards every message, so library code may accept one
// without requiring a caller to configure it.
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("Kitchen"),
//		log.WithCaller(true))
//
// The package-level functions ([Info], [DebugContext], and so on) write
// through a default logger that [Config] reconfigures in place.
//
// # Context-Aware Logging
//
// Each logging level has both a context-aware and context-unaware variant.
// Context-unaware functions use [DefaultContextProvider], which returns
// [context.TODO] by default.
//
// # Supported Levels
//
// The package supports five log levels: [LevelTrace], [LevelDebug],
// [LevelInfo], [LevelWarn], and [LevelError]. Messages below the configured
// level are discarded. Trace is used for per-stage interpreter events and is
// far noisier than Debug.
//
// # Output Formats
//
// Two output formats are supported: [FormatText] (default) and [FormatJSON].
// Text output is colorized unless [WithPretty] disables it.
package log

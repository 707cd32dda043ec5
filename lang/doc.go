// Package lang runs lox programs.
//
// A source text passes through four stages, each in its own package:
//
//	scanner   source text → tokens
//	parser    tokens → syntax tree
//	resolver  syntax tree → scope distance of every local reference
//	runtime   syntax tree → side effects
//
// Scan, parse and resolve errors are collected for the whole text and
// returned together as a [*StaticError]; a program with any static error is
// never executed. A runtime error stops execution at the failing operation
// and is returned wrapped in [ErrRuntime]. [ExitCode] maps either to the
// conventional process exit status.
//
// # Sessions
//
// A [Session] keeps one interpreter alive across calls to [Session.Run], so
// an interactive prompt can define a function on one line and call it on the
// next. With [WithInteractive], a line holding a bare expression prints its
// value:
//
//	s, _ := lang.NewSession(ctx, lang.WithInteractive(true))
//	_ = s.Run(ctx, "fun sq(x) { return x * x; }")
//	_ = s.Run(ctx, "sq(12)") // prints 144
//
// # Host definitions
//
// [WithDefines] seeds globals from NAME=EXPR strings evaluated by expr-lang
// before the program runs, e.g. 'DEBUG=env("DEBUG") != ""'.
//
// # Caching
//
// Parsed programs are cached process-wide by a hash of the source text, so a
// repeated text is scanned and parsed once. Resolution and execution always
// run again against the session that receives the program.
package lang

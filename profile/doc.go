// Package profile provides optional runtime profiling for the lox
// interpreter.
//
// This package integrates [github.com/pkg/profile]. Profiling must be enabled
// at build time using the "pprof" build tag; otherwise every operation is a
// no-op and [Modes] is empty.
//
//	go build -tags pprof -o lox .
//
// # Modes
//
// allocs, block, clock, cpu, goroutine, heap, mem, mutex, thread and trace.
// Use [Modes] to retrieve the list programmatically.
//
// # Usage
//
//	p := profile.Make(
//	    profile.WithMode("cpu"),
//	    profile.WithPath("/tmp/profiles"),
//	)
//	defer p.Start(ctx).Stop()
//
// From the command line, profile a script with:
//
//	lox --pprof-mode cpu run fib.lox
//	go tool pprof -http=: ./lox ~/.cache/lox/pprof/cpu.pprof
//
// The default output directory is the pprof directory under the user cache
// directory, e.g. $XDG_CACHE_HOME/lox/pprof.
//
// Building with the tag also imports [net/http/pprof], which registers its
// handlers on [net/http.DefaultServeMux] for programs that serve HTTP.
package profile

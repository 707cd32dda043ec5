package profile

import (
	"context"
	"log/slog"

	"github.com/ardnew/lox/log"
)

// Tag is the build tag that enables profiling. It also names the default
// output directory under the cache directory.
const Tag = "pprof"

// Config describes one profiling session.
type Config struct {
	Mode  string // one of [Modes]; empty disables profiling
	Path  string // output directory
	Quiet bool   // suppress the profiler's own log lines
}

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Start begins profiling and returns a [Stopper] that ends it.
//
// If the binary was built without the pprof tag, or Mode is empty or
// unknown, Start returns a no-op implementation.
// Both Start and Stop are always safely callable.
func (c Config) Start(ctx context.Context) Stopper {
	if c.Mode == "" || !Enabled {
		return ignore{}
	}

	log.DebugContext(ctx, "profile start",
		slog.String("mode", c.Mode),
		slog.String("path", c.Path))

	return start(c)
}

// WithMode returns a functional option for setting a profiler's mode.
func WithMode(mode string) func(Config) Config {
	return func(c Config) Config {
		c.Mode = mode

		return c
	}
}

// WithPath returns a functional option for setting a profiler's output path.
func WithPath(path string) func(Config) Config {
	return func(c Config) Config {
		c.Path = path

		return c
	}
}

// WithQuiet returns a functional option for setting a profiler's quiet flag.
func WithQuiet(quiet bool) func(Config) Config {
	return func(c Config) Config {
		c.Quiet = quiet

		return c
	}
}

// Make returns a Config with opts applied in order.
func Make(opts ...func(Config) Config) Config {
	var c Config

	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

type ignore struct{}

func (ignore) Stop() {}

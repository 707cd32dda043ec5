package lang

import (
	"io"
	"os"

	"github.com/ardnew/lox/lang/diag"
	"github.com/ardnew/lox/lang/runtime"
	"github.com/ardnew/lox/log"
)

// Option configures parsing and execution.
type Option func(*options)

type options struct {
	output  io.Writer
	sink    diag.Sink
	logger  log.Logger // structured logger (not part of the cache key)
	name    string
	defines []string
	natives []*runtime.Native
	bare    bool // part of the cache key
	nocache bool
}

func makeOptions(opts ...Option) options {
	o := options{output: os.Stdout}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithOutput sets the destination of print statements. The default is
// [os.Stdout].
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithSink forwards every static diagnostic to sink, in report order, in
// addition to returning them in a [StaticError].
func WithSink(sink diag.Sink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithName names the source text in error reports, e.g. with its file path.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithDefines binds host globals before any program runs. Each definition
// has the form NAME=EXPR, where EXPR is evaluated by the host expression
// engine (see [Session.DefineExpr]).
func WithDefines(defs ...string) Option {
	return func(o *options) {
		o.defines = append(o.defines, defs...)
	}
}

// WithNative registers an additional host function in the global scope.
func WithNative(n *runtime.Native) Option {
	return func(o *options) {
		o.natives = append(o.natives, n)
	}
}

// WithInteractive accepts a trailing expression without a terminating ';'
// and prints its value, as an interactive prompt does.
func WithInteractive(enable bool) Option {
	return func(o *options) {
		o.bare = enable
	}
}

// WithCache enables or disables the process-wide parse cache. It is
// enabled by default.
func WithCache(enable bool) Option {
	return func(o *options) {
		o.nocache = !enable
	}
}

package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strconv"

	"github.com/ardnew/lox/lang/diag"
	"github.com/ardnew/lox/lang/resolver"
	"github.com/ardnew/lox/lang/runtime"
	"github.com/ardnew/lox/lang/token"
)

// Session runs programs against one persistent interpreter, so globals and
// functions defined by one call remain visible to the next. An interactive
// prompt feeds each line to the same Session.
//
// A Session is not safe for concurrent use.
type Session struct {
	interp *runtime.Interpreter
	opts   options
}

// NewSession returns a Session with a fresh global scope. Host definitions
// given by [WithDefines] are evaluated and bound before it is returned.
func NewSession(ctx context.Context, opts ...Option) (*Session, error) {
	o := makeOptions(opts...)

	iopts := []runtime.Option{
		runtime.WithOutput(o.output),
		runtime.WithLogger(o.logger),
	}

	for _, n := range o.natives {
		iopts = append(iopts, runtime.WithNative(n))
	}

	s := &Session{interp: runtime.New(iopts...), opts: o}

	for _, def := range o.defines {
		if err := s.DefineExpr(ctx, def); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Run parses, resolves and executes source. Any static error aborts before
// execution begins and is returned as a [*StaticError]. A runtime error
// aborts execution and wraps a [*runtime.RuntimeError] in [ErrRuntime].
func (s *Session) Run(ctx context.Context, source string) error {
	prog, err := s.compile(ctx, source, s.interp)
	if err != nil {
		return err
	}

	s.opts.logger.DebugContext(ctx, "run", slog.Int("statements", len(prog.Stmts)))

	if err := s.interp.Interpret(ctx, prog.Stmts); err != nil {
		rerr := ErrRuntime.Wrap(err)

		var re *runtime.RuntimeError
		if errors.As(err, &re) {
			rerr = rerr.With(slog.Int("line", re.Line()))
		}

		return rerr
	}

	return nil
}

// RunReader reads all of r and runs it like [Session.Run].
func (s *Session) RunReader(ctx context.Context, r io.Reader) error {
	source, err := ReadSource(r)
	if err != nil {
		return err
	}

	return s.Run(ctx, source)
}

// Check parses and resolves source without executing it or changing the
// session's global scope.
func (s *Session) Check(ctx context.Context, source string) error {
	discard := resolver.BinderFunc(func(*token.Token, int) {})

	_, err := s.compile(ctx, source, discard)

	return err
}

// Globals returns the sorted names bound in the global scope.
func (s *Session) Globals() []string {
	names := s.interp.Globals().Names()
	slices.Sort(names)

	return names
}

// Lookup returns the display form of the global name.
func (s *Session) Lookup(name string) (string, bool) {
	v, ok := s.interp.Globals().Lookup(name)
	if !ok {
		return "", false
	}

	return runtime.Stringify(v), true
}

// Signature returns the parameter names of the global function name. Host
// functions have no declared names, so theirs are numbered: arg1, arg2, ...
func (s *Session) Signature(name string) ([]string, bool) {
	v, ok := s.interp.Globals().Lookup(name)
	if !ok {
		return nil, false
	}

	switch fn := v.(type) {
	case *runtime.Closure:
		return fn.Params(), true
	case runtime.Callable:
		params := make([]string, fn.Arity())
		for i := range params {
			params[i] = "arg" + strconv.Itoa(i+1)
		}

		return params, true
	default:
		return nil, false
	}
}

// compile parses source and resolves it into binder, returning every
// static diagnostic as a single error.
func (s *Session) compile(
	ctx context.Context,
	source string,
	binder resolver.Binder,
) (*Program, error) {
	prog := s.opts.program(ctx, source)

	// Resolution is skipped when the tree itself is broken.
	if len(prog.Diagnostics) > 0 {
		return nil, s.opts.staticError(prog.Diagnostics, source)
	}

	var diags diag.Collector

	bound := resolver.Resolve(prog.Stmts, binder, &diags)

	s.opts.logger.TraceContext(ctx, "resolved",
		slog.Int("bindings", bound),
		slog.Int("errors", diags.Len()))

	if diags.HadError() {
		return nil, s.opts.staticError(diags.Diagnostics(), source)
	}

	return prog, nil
}

// Run executes source in a new [Session].
func Run(ctx context.Context, source string, opts ...Option) error {
	s, err := NewSession(ctx, opts...)
	if err != nil {
		return err
	}

	return s.Run(ctx, source)
}

// Check reports the static errors in source without executing it.
func Check(ctx context.Context, source string, opts ...Option) error {
	s := &Session{opts: makeOptions(opts...)}

	return s.Check(ctx, source)
}

package lang

// Host definitions seed the global scope from outside the program. Each one
// is an expr-lang expression evaluated against a small environment of host
// facts and helpers:
//
//	os, arch      target platform (Go naming)
//	hostname      network host name
//	cwd           working directory
//	env(key)      process environment variable
//	file.exists   file.isDir
//	path.abs      path.cat   path.base   path.dir
//	mung.prefix   prefix items onto a path list
//
// For example, --define 'HOME=env("HOME")' or --define 'N=2**10'.

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"sync"

	"github.com/ardnew/mung"
	"github.com/expr-lang/expr"

	"github.com/ardnew/lox/lang/runtime"
	"github.com/ardnew/lox/lang/token"
)

//nolint:gochecknoglobals
var (
	hostEnvOnce sync.Once
	hostEnv     map[string]any
)

// makeHostEnv returns a clone of the lazily-initialized environment for host
// definition expressions. The returned map can be safely mutated.
func makeHostEnv() map[string]any {
	hostEnvOnce.Do(func() {
		hostEnv = map[string]any{
			"os":       goruntime.GOOS,
			"arch":     goruntime.GOARCH,
			"hostname": getHostname(),
			"cwd":      getCwd(),
			"env":      os.Getenv,
			"file": map[string]any{
				"exists": fileExists,
				"isDir":  fileIsDir,
			},
			"path": map[string]any{
				"abs":  pathAbs,
				"cat":  filepath.Join,
				"base": filepath.Base,
				"dir":  filepath.Dir,
			},
			"mung": map[string]any{
				"prefix": PrefixPathList,
			},
		}
	})

	return maps.Clone(hostEnv)
}

// HostEnvKeys returns the top-level names available to host definitions.
func HostEnvKeys() []string {
	return sortedKeys(makeHostEnv())
}

// DefineExpr evaluates a NAME=EXPR host definition and binds the result as
// a global. Numbers, strings, booleans and nil are accepted.
func (s *Session) DefineExpr(ctx context.Context, def string) error {
	name, source, ok := strings.Cut(def, "=")
	name = strings.TrimSpace(name)

	if !ok || !validName(name) {
		return ErrDefine.With(slog.String("definition", def))
	}

	env := makeHostEnv()

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return ErrDefine.Wrap(err).With(slog.String("name", name))
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return ErrDefine.Wrap(err).With(slog.String("name", name))
	}

	v, err := hostValue(out)
	if err != nil {
		return ErrDefine.Wrap(err).With(slog.String("name", name))
	}

	s.opts.logger.DebugContext(ctx, "define",
		slog.String("name", name),
		slog.String("type", runtime.TypeName(v)))

	s.interp.Globals().Define(name, v)

	return nil
}

// Define binds a Go value as a global. Numbers, strings, booleans and nil
// are accepted.
func (s *Session) Define(name string, value any) error {
	if !validName(name) {
		return ErrDefine.With(slog.String("name", name))
	}

	v, err := hostValue(value)
	if err != nil {
		return ErrDefine.Wrap(err).With(slog.String("name", name))
	}

	s.interp.Globals().Define(name, v)

	return nil
}

// validName reports whether name is a non-keyword identifier.
func validName(name string) bool {
	if name == "" || token.Lookup(name) != token.Identifier {
		return false
	}

	for i, r := range name {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && '0' <= r && r <= '9':
		default:
			return false
		}
	}

	return true
}

// hostValue converts a Go value to a runtime value.
func hostValue(v any) (runtime.Value, error) {
	switch v := v.(type) {
	case nil, bool, string, float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", resultTypeName(v))
	}
}

// PrefixPathList prefixes items onto the path list in subject, which uses
// the OS path list separator.
func PrefixPathList(subject string, items ...string) string {
	return mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(items...),
	).String()
}

// PrefixPathListIf is like [PrefixPathList] but keeps only the entries for
// which keep returns true.
func PrefixPathListIf(subject string, keep func(string) bool, items ...string) string {
	return mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(items...),
		mung.WithFilter(keep),
	).String()
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return ""
	}

	return hostname
}

func getCwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return pathAbs(".")
	}

	return cwd
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.IsDir()
}

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

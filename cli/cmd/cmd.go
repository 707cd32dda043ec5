package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lox/lang"
	"github.com/ardnew/lox/pkg"
)

type (
	contextKey    struct{}
	optionsKey    struct{}
	searchPathKey struct{}
	streamsKey    struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// WithOptions returns a new context.Context carrying interpreter options
// shared by every command, such as the logger and host definitions.
func WithOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, optionsKey{}, append(optionsFrom(ctx), opts...))
}

// optionsFrom returns a copy of the options stored by [WithOptions].
func optionsFrom(ctx context.Context, extra ...lang.Option) []lang.Option {
	opts, _ := ctx.Value(optionsKey{}).([]lang.Option)

	return append(opts[:len(opts):len(opts)], extra...)
}

// Streams are the standard streams a command reads and writes.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// WithStreams returns a new context.Context whose commands use s in place
// of the process's standard streams. Nil fields keep the default.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// SearchPath returns the directories searched for a script that is not
// named by an existing path: each of includes, in order, followed by the
// entries of the LOX_PATH environment variable. Entries that are not
// directories are dropped.
func SearchPath(includes ...string) []string {
	list := lang.PrefixPathListIf(os.Getenv(pkg.PathEnv), isDir, includes...)
	if list == "" {
		return nil
	}

	return strings.Split(list, string(os.PathListSeparator))
}

// WithSearchPath returns a new context.Context containing the script search
// directories.
func WithSearchPath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, dirs)
}

func searchPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(searchPathKey{}).([]string)

	return dirs
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is one named program text given on the command line.
type source struct {
	name string
	r    io.Reader
}

func (s source) Close() error {
	if c, ok := s.r.(io.Closer); ok && s.r != os.Stdin {
		return c.Close()
	}

	return nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens each of paths once, in order. All occurrences of "-"
// collapse to a single stdin source placed last, so it reads after every
// regular file. A path that cannot be opened yields an error in errs and is
// otherwise skipped.
func openSources(paths []string, stdin io.Reader) (srcs []source, errs []error) {
	seen := make(map[fileKey]struct{})
	hasStdin := false

	stdinKey, stdinOK := fileKey{}, false
	if f, ok := stdin.(*os.File); ok {
		if info, err := f.Stat(); err == nil {
			stdinKey, stdinOK = makeFileKey(info)
		}
	}

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		file, key, err := openUniqueFile(path, seen)
		if err != nil {
			errs = append(errs, lang.ErrReadInput.Wrap(err))

			continue
		}

		if file == nil {
			continue
		}

		// Stdin named by its device path, e.g. /dev/stdin.
		if stdinOK && key == stdinKey {
			file.Close()

			hasStdin = true

			continue
		}

		srcs = append(srcs, source{name: path, r: file})
	}

	if hasStdin {
		srcs = append(srcs, source{name: stdinSource, r: stdin})
	}

	return srcs, errs
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// A duplicate returns a nil file and nil error.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (*os.File, fileKey, error) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fileKey{}, err
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fileKey{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fileKey{}, err
	}

	key, ok := makeFileKey(info)
	if ok {
		if _, exists := seen[key]; exists {
			return nil, key, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, key, err
	}

	return file, key, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

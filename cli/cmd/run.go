package cmd

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/ardnew/lox/lang"
	"github.com/ardnew/lox/log"
)

// scriptExt is appended to a script name searched for in the search path.
const scriptExt = ".lox"

// Run executes a script. With no script it starts the interactive prompt,
// or runs standard input as a script when it is not a terminal.
type Run struct {
	Script string `arg:"" help:"Script file, a name searched in --include and $LOX_PATH, or '-' for stdin. Starts the REPL when omitted." name:"script" optional:""`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	streams := streamsFrom(ctx)

	script := r.Script
	if script == "" {
		if !isTerminal(streams.In) {
			script = stdinSource
		} else {
			return (&Repl{}).Run(ctx)
		}
	}

	path, err := findScript(script, searchPathFrom(ctx))
	if err != nil {
		return err
	}

	src, err := readScript(path, streams)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "run script",
		slog.String("path", path),
		slog.Int("bytes", len(src)))

	s, err := lang.NewSession(ctx, optionsFrom(ctx,
		lang.WithName(path),
		lang.WithOutput(streams.Out),
	)...)
	if err != nil {
		return err
	}

	return s.Run(ctx, src)
}

// findScript returns the path of the script named name. An existing file is
// used as given. Otherwise each directory in dirs is searched for name and
// then name with the ".lox" extension.
func findScript(name string, dirs []string) (string, error) {
	if name == stdinSource {
		return name, nil
	}

	if isFile(name) {
		return name, nil
	}

	// Names with a directory component are never searched.
	if !filepath.IsAbs(name) && filepath.Base(name) == name {
		for _, dir := range dirs {
			for _, candidate := range []string{name, name + scriptExt} {
				path := filepath.Join(dir, candidate)
				if isFile(path) {
					return path, nil
				}
			}
		}
	}

	return "", lang.ErrScriptNotFound.
		Wrap(&fs.PathError{Op: "find", Path: name, Err: fs.ErrNotExist}).
		With(slog.String("script", name), slog.Int("searched", len(dirs)))
}

// readScript reads the script at path, or stdin for "-".
func readScript(path string, streams Streams) (string, error) {
	if path == stdinSource {
		return lang.ReadSource(streams.In)
	}

	file, err := os.Open(path)
	if err != nil {
		return "", lang.ErrReadInput.Wrap(err).With(slog.String("path", path))
	}
	defer file.Close()

	return lang.ReadSource(file)
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}

// isTerminal reports whether r is a character device attached to a
// terminal.
func isTerminal(r any) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

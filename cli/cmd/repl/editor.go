package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/lox/lang"
	"github.com/ardnew/lox/log"
	"github.com/ardnew/lox/pkg"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-check-retry loop.
// It writes the scratch program to a temp file, opens the user's editor,
// and checks the result against the session. On a static error the user is
// prompted to re-edit; declining returns [ErrEditDeclined].
type editCommand struct {
	session *lang.Session
	ctxFunc func() context.Context
	logger  log.Logger
	source  string // scratch program; replaced by the accepted edit
	done    bool   // an edit was accepted
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-check-retry loop.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp(os.TempDir(), pkg.Name+"-repl-*.lox")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Close(); err != nil {
		return err
	}

	content := c.source

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		// An emptied file cancels the edit.
		if strings.TrimSpace(data) == "" {
			return nil
		}

		checkErr := c.session.Check(ctx, data)

		c.logger.TraceContext(ctx, "editor check attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", checkErr == nil))

		if checkErr == nil {
			c.source, c.done = data, true

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", lang.Report(checkErr))
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		content = data
	}
}

// runEditor launches the user's editor on the given file path and returns
// the edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) (string, error) {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}

	// The editor variable may carry arguments, e.g. "code --wait".
	args := strings.Fields(editor)
	if len(args) == 0 {
		args = []string{defaultEditor}
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

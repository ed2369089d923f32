package repl

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/flux/lang"
	"github.com/ardnew/flux/log"
	"github.com/ardnew/flux/pkg"
)

const defaultEditor = "vi"

// editHeader is prepended to every edit buffer. It is a comment, so it
// survives parsing without effect.
const editHeader = "# Statements saved here run in the REPL session.\n" +
	"# Save an empty buffer to cancel.\n"

// editCommand implements [tea.ExecCommand] for the edit-parse-retry loop.
// It writes the previous buffer to a temp file, opens the user's editor, and
// parses the result. On a syntax error the user is prompted to re-edit;
// declining returns [ErrEditDeclined].
type editCommand struct {
	ctxFunc func() context.Context
	logger  log.Logger
	source  string        // buffer content shown to the editor
	prog    *lang.Program // parsed result, nil if cancelled
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

// Run opens the editor until the buffer parses, is emptied, or the user
// declines to retry.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	path, err := tempSource()
	if err != nil {
		return err
	}
	defer os.Remove(path)

	content := editHeader + c.source

	for {
		data, err := c.edit(ctx, path, content)
		if err != nil {
			return err
		}

		source := strings.TrimPrefix(string(data), editHeader)
		if strings.TrimSpace(source) == "" {
			return nil
		}

		prog, parseErr := lang.ParseString(ctx, source, lang.WithLogger(c.logger))

		c.logger.TraceContext(ctx, "editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", parseErr == nil),
		)

		if parseErr == nil {
			c.source, c.prog = source, prog

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", describe(parseErr))

		if !c.confirm("Re-edit? [Y/n] ") {
			return ErrEditDeclined
		}

		content = string(data)
	}
}

// confirm asks a yes/no question that defaults to yes. EOF answers no.
func (c *editCommand) confirm(question string) bool {
	fmt.Fprint(c.stdout, question)

	scanner := bufio.NewScanner(c.stdin)
	if !scanner.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "n", "no":
		return false
	}

	return true
}

// edit writes content to path, runs $EDITOR (or vi) on it, and returns what
// the editor saved.
func (c *editCommand) edit(
	ctx context.Context,
	path, content string,
) ([]byte, error) {
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return nil, err
	}

	editor := cmp.Or(os.Getenv("EDITOR"), defaultEditor)

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = c.stdin, c.stdout, c.stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}

// tempSource creates an empty private source file for the editor.
func tempSource() (string, error) {
	f, err := os.CreateTemp("", pkg.Name+"-repl-*"+pkg.SourceExt)
	if err != nil {
		return "", err
	}

	path := f.Name()

	if err := errors.Join(f.Chmod(0o600), f.Close()); err != nil {
		os.Remove(path)

		return "", err
	}

	return path, nil
}

package repl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/flux/lang"
	"github.com/ardnew/flux/log"
)

const (
	banner      = "Flux REPL"
	bannerHint  = "Type 'exit' to quit."
	exitMessage = "Exiting REPL."
	plainPrompt = "> "
)

// session is one persistent interpreter shared by every line of a REPL run.
type session struct {
	interp *lang.Interpreter
	out    *bytes.Buffer // captured program output; nil in line mode
	logger log.Logger
	edited string // last buffer accepted by the editor
}

// eval scans, parses and interprets one line (or edited buffer) in the
// session. Lexical diagnostics are returned alongside any error; the line is
// not run if it fails to parse.
func (s *session) eval(
	ctx context.Context,
	source string,
) ([]*lang.SyntaxError, error) {
	prog, err := lang.ParseString(ctx, source, lang.WithLogger(s.logger))
	if err != nil {
		return prog.Warnings, err
	}

	return prog.Warnings, s.run(ctx, prog)
}

func (s *session) run(ctx context.Context, prog *lang.Program) error {
	err := s.interp.Run(ctx, prog)

	s.logger.TraceContext(ctx, "repl eval result",
		slog.Int("statements", len(prog.Statements)),
		slog.Bool("exited", s.interp.Exited()),
		slog.Bool("failed", err != nil),
	)

	return err
}

// drain returns and clears the captured program output without its final
// newline.
func (s *session) drain() string {
	if s.out == nil {
		return ""
	}

	text := strings.TrimSuffix(s.out.String(), "\n")
	s.out.Reset()

	return text
}

// describe renders an error raised by a program the way the REPL reports it.
func describe(err error) string {
	var syntaxErr *lang.SyntaxError

	if errors.As(err, &syntaxErr) {
		if snippet := syntaxErr.Snippet(); snippet != "" {
			return syntaxErr.Error() + "\n" + strings.TrimSuffix(snippet, "\n")
		}

		return syntaxErr.Error()
	}

	return err.Error()
}

// runPlain runs the line-oriented REPL used when the terminal is not
// interactive. Each line is evaluated in a single persistent interpreter;
// errors are reported and the loop continues until EOF or an exit statement.
func runPlain(ctx context.Context, cfg Config, history *History) error {
	interp, err := cfg.NewInterpreter(lang.WithOutput(cfg.Out))
	if err != nil {
		return err
	}

	s := &session{interp: interp, logger: cfg.Logger}

	fmt.Fprintln(cfg.Out, banner)
	fmt.Fprintln(cfg.Out, bannerHint)

	scanner := bufio.NewScanner(cfg.In)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(cfg.Out, plainPrompt)

		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := history.Add(line, modeEval); err != nil {
			cfg.Logger.DebugContext(ctx, "history write failed",
				slog.String("error", err.Error()),
			)
		}

		warnings, err := s.eval(ctx, line)
		for _, w := range warnings {
			fmt.Fprintln(cfg.Err, "warning: "+describe(w))
		}

		if err != nil {
			fmt.Fprintln(cfg.Err, describe(err))

			continue
		}

		if interp.Exited() {
			fmt.Fprintln(cfg.Out, exitMessage)

			return nil
		}
	}

	// Terminate the dangling prompt.
	fmt.Fprintln(cfg.Out)

	return scanner.Err()
}

package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/flux/lang"
	"github.com/ardnew/flux/log"
)

// Config configures a REPL run.
type Config struct {
	// NewInterpreter returns the session's interpreter. The options given
	// redirect its program output and must be applied last.
	NewInterpreter func(opts ...lang.Option) (*lang.Interpreter, error)

	In       io.Reader
	Out, Err io.Writer

	// CacheDir holds the history file. History is kept in memory if empty.
	CacheDir string

	// Plain forces the line-oriented mode even on a terminal.
	Plain bool

	Logger log.Logger
}

func (c *Config) defaults() {
	if c.In == nil {
		c.In = os.Stdin
	}

	if c.Out == nil {
		c.Out = os.Stdout
	}

	if c.Err == nil {
		c.Err = os.Stderr
	}
}

// Messages delivered to the model when background work finishes.
type (
	evalDoneMsg struct {
		output   string
		warnings []*lang.SyntaxError
		err      error
		exited   bool
	}

	// editDoneMsg carries an edited buffer that parsed.
	editDoneMsg      struct{ prog *lang.Program }
	editCancelledMsg struct{}
	editDeclinedMsg  struct{}
	editErrorMsg     struct{ err error }
)

// Run starts a REPL session. The interactive TUI is used when both In and
// Out are terminals and Plain is unset; otherwise lines are read from In
// until EOF or an exit statement.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if cfg.NewInterpreter == nil {
		return ErrNoSession
	}

	cfg.defaults()

	history := openHistory(cfg)

	plain := cfg.Plain || !isTerminal(cfg.In) || !isTerminal(cfg.Out)

	cfg.Logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cfg.CacheDir),
		slog.Bool("plain", plain),
		slog.Int("history_count", history.Len()),
	)

	if plain {
		return runPlain(ctx, cfg, history)
	}

	return runTUI(ctx, cfg, history)
}

// openHistory loads the history file in cfg.CacheDir. Failures are reported
// as warnings and leave an in-memory history.
func openHistory(cfg Config) *History {
	history := NewHistory("")

	if cfg.CacheDir != "" {
		if err := os.MkdirAll(cfg.CacheDir, 0o700); err != nil {
			fmt.Fprintf(cfg.Err, "warning: history disabled: %v\n", err)
		} else {
			history = NewHistory(filepath.Join(cfg.CacheDir, baseHistory))
		}
	}

	if err := history.Load(); err != nil {
		fmt.Fprintf(cfg.Err, "warning: could not load history: %v\n", err)
	}

	return history
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func runTUI(ctx context.Context, cfg Config, history *History) error {
	var out bytes.Buffer

	interp, err := cfg.NewInterpreter(lang.WithOutput(&out))
	if err != nil {
		return err
	}

	// Output of the preloaded sources precedes the banner.
	if out.Len() > 0 {
		_, _ = out.WriteTo(cfg.Out)
	}

	s := &session{interp: interp, out: &out, logger: cfg.Logger}

	fmt.Fprintln(cfg.Out, banner)
	fmt.Fprintln(cfg.Out, bannerHint)

	p := tea.NewProgram(newModel(ctx, s, history, cfg.Logger),
		tea.WithContext(ctx),
		tea.WithInput(cfg.In),
		tea.WithOutput(cfg.Out),
	)

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return context.Cause(ctx)
	}

	return err
}

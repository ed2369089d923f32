package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/flux/cli/cmd/repl"
	"github.com/ardnew/flux/lang"
	"github.com/ardnew/flux/log"
)

// Repl starts an interactive session with a persistent interpreter.
type Repl struct {
	MaxDepth int  `default:"${maxDepth}" help:"Maximum depth of nested calls."                 name:"max-depth"`
	Plain    bool `                      help:"Read plain lines even if stdin is a terminal."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	std := stdioFrom(ctx)

	log.DebugContext(ctx, "repl start", slog.Bool("plain", r.Plain))

	err = repl.Run(ctx, repl.Config{
		NewInterpreter: func(opts ...lang.Option) (*lang.Interpreter, error) {
			return newInterpreter(ctx,
				append([]lang.Option{lang.WithMaxCallDepth(r.MaxDepth)}, opts...)...)
		},
		In:       std.in,
		Out:      std.out,
		Err:      std.err,
		CacheDir: kongVar(ctx, CacheIdentifier),
		Plain:    r.Plain,
		Logger:   log.Default(),
	})

	return report(ctx, err)
}

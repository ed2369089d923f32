package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/flux/lang"
	"github.com/ardnew/flux/log"
)

// Run executes a Flux program.
type Run struct {
	MaxDepth int `default:"${maxDepth}" help:"Maximum depth of nested calls." name:"max-depth"`

	Source string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return execute(ctx, r.Source, lang.WithMaxCallDepth(r.MaxDepth))
}

// Trace executes a Flux program and writes one trace record per executed
// statement and evaluated expression to stderr.
type Trace struct {
	MaxDepth int    `default:"${maxDepth}" help:"Maximum depth of nested calls."          name:"max-depth"`
	Format   string `default:"text"        enum:"text,json"                               help:"Trace record format."`
	Pretty   bool   `default:"false"       help:"Enable colorized pretty printing."       negatable:""`
	Time     string `default:"none"        help:"Timestamp layout of each trace record."`

	Source string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`
}

// Run executes the trace command.
func (t *Trace) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	tracer := log.Make(stdioFrom(ctx).err,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.ParseFormat(t.Format)),
		log.WithTimeLayout(t.Time),
		log.WithPretty(t.Pretty),
		log.WithLevelTag(!t.Pretty),
	)

	return execute(ctx, t.Source,
		lang.WithMaxCallDepth(t.MaxDepth),
		lang.WithTrace(true),
		lang.WithLogger(tracer),
	)
}

// execute parses and runs the named source in a new interpreter.
func execute(ctx context.Context, source string, opts ...lang.Option) error {
	prog, err := parseSource(ctx, source)
	if err != nil {
		return report(ctx, err)
	}

	interp, err := newInterpreter(ctx, opts...)
	if err != nil {
		return report(ctx, err)
	}

	err = interp.Run(ctx, prog)
	if err != nil {
		return report(ctx, err)
	}

	log.DebugContext(ctx, "program finished",
		slog.String("source", source),
		slog.Bool("exited", interp.Exited()),
	)

	return nil
}

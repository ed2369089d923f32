package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/flux/log"
)

// Fmt parses a Flux program and writes it back in canonical layout.
type Fmt struct {
	Indent int  `default:"4" help:"Indent width, or 0 to write the program on one line." short:"i"`
	Write  bool `            help:"Overwrite the source file instead of writing to stdout." short:"w"`

	Source string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := parseSource(ctx, f.Source)
	if err != nil {
		return report(ctx, err)
	}

	if !f.Write || f.Source == stdinSource {
		return prog.Format(ctx, stdioFrom(ctx).out, f.Indent)
	}

	path, err := resolveSource(ctx, f.Source)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return ErrWriteSource.With(slog.String("file", path)).Wrap(err)
	}

	var buf bytes.Buffer

	err = prog.Format(ctx, &buf, f.Indent)
	if err != nil {
		return ErrWriteSource.With(slog.String("file", path)).Wrap(err)
	}

	err = os.WriteFile(path, buf.Bytes(), info.Mode().Perm())
	if err != nil {
		return ErrWriteSource.With(slog.String("file", path)).Wrap(err)
	}

	log.DebugContext(ctx, "formatted source", slog.String("path", path))

	return nil
}

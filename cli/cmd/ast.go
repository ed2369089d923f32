package cmd

import (
	"context"

	"github.com/ardnew/flux/pkg"
)

// AST parses a Flux program without executing it and writes its syntax tree.
type AST struct {
	Format string `default:"text" enum:"text,json,yaml" help:"Output format."                          short:"o"`
	Indent int    `default:"2"                          help:"Indent width for JSON and YAML output." short:"i"`

	Source string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := parseSource(ctx, a.Source)
	if err != nil {
		return report(ctx, err)
	}

	out := stdioFrom(ctx).out

	switch a.Format {
	case "", "text":
		return prog.Print(out)

	case "json":
		err = prog.FormatJSON(ctx, out, a.Indent)
		if err != nil {
			return pkg.ErrJSONMarshal.Wrap(err)
		}

	case "yaml":
		err = prog.FormatYAML(ctx, out, a.Indent)
		if err != nil {
			return pkg.ErrYAMLMarshal.Wrap(err)
		}

	default:
		return pkg.ErrInvalidFormat.Wrapf("%q (valid: text, json, yaml)", a.Format)
	}

	return nil
}

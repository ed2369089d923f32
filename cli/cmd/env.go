package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/flux/lang"
	"github.com/ardnew/flux/log"
	"github.com/ardnew/flux/pkg"
)

// Env executes a Flux program and then writes its global variables.
type Env struct {
	MaxDepth int    `default:"${maxDepth}" help:"Maximum depth of nested calls."              name:"max-depth"`
	Format   string `default:"text"        enum:"text,json,yaml"                              help:"Output format."                               short:"o"`
	Indent   int    `default:"2"           help:"Indent width for JSON and YAML output."      short:"i"`
	Builtins bool   `                      help:"Include the builtin functions."`
	Where    string `                      help:"Only include globals for which EXPR is true." placeholder:"EXPR"                               short:"w"`

	Source string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`
}

// binding is the environment of a --where expression. The expression sees
// the variable's name, its type as reported by the type builtin, its value
// converted to plain data, and its printed text.
type binding struct {
	Name  string `expr:"name"`
	Type  string `expr:"type"`
	Value any    `expr:"value"`
	Text  string `expr:"text"`
}

// Run executes the env command.
func (e *Env) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	filter, err := compileFilter(e.Where)
	if err != nil {
		return err
	}

	prog, err := parseSource(ctx, e.Source)
	if err != nil {
		return report(ctx, err)
	}

	interp, err := newInterpreter(ctx, lang.WithMaxCallDepth(e.MaxDepth))
	if err != nil {
		return report(ctx, err)
	}

	err = interp.Run(ctx, prog)
	if err != nil {
		return report(ctx, err)
	}

	out := stdioFrom(ctx).out

	if e.Format == "text" && filter == nil && !e.Builtins {
		return interp.Dump(out)
	}

	globals, err := e.collect(ctx, interp, filter)
	if err != nil {
		return err
	}

	return e.write(ctx, out, globals)
}

// collect returns the global bindings selected by filter, in name order.
func (e *Env) collect(
	ctx context.Context,
	interp *lang.Interpreter,
	filter *vm.Program,
) ([]binding, error) {
	var globals []binding

	for name, v := range interp.Bindings(e.Builtins) {
		b := binding{
			Name:  name,
			Type:  v.Kind(),
			Value: lang.ToNative(v),
			Text:  lang.Stringify(v),
		}

		if filter != nil {
			keep, err := expr.Run(filter, b)
			if err != nil {
				return nil, pkg.ErrInvalidFilter.Wrap(err)
			}

			if ok, _ := keep.(bool); !ok {
				continue
			}
		}

		globals = append(globals, b)
	}

	log.DebugContext(ctx, "collected globals",
		slog.Int("count", len(globals)),
		slog.String("where", e.Where),
	)

	return globals, nil
}

func (e *Env) write(ctx context.Context, w io.Writer, globals []binding) error {
	switch e.Format {
	case "", "text":
		var sb strings.Builder

		sb.WriteString("Environment:\n")

		for _, b := range globals {
			fmt.Fprintf(&sb, "%s = %s\n", b.Name, b.Text)
		}

		_, err := io.WriteString(w, sb.String())

		return err

	case "json":
		m := make(map[string]any, len(globals))
		for _, b := range globals {
			m[b.Name] = b.Value
		}

		var (
			data []byte
			err  error
		)

		if e.Indent > 0 {
			data, err = json.MarshalIndent(m, "", strings.Repeat(" ", e.Indent))
		} else {
			data, err = json.Marshal(m)
		}

		if err != nil {
			return pkg.ErrJSONMarshal.Wrap(err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err

	case "yaml":
		doc := make(yaml.MapSlice, 0, len(globals))
		for _, b := range globals {
			doc = append(doc, yaml.MapItem{Key: b.Name, Value: b.Value})
		}

		err := lang.EncodeYAML(ctx, w, doc, e.Indent)
		if err != nil {
			return pkg.ErrYAMLMarshal.Wrap(err)
		}

		return nil

	default:
		return pkg.ErrInvalidFormat.Wrapf("%q (valid: text, json, yaml)", e.Format)
	}
}

// compileFilter compiles a --where expression, or returns nil if where is
// empty.
func compileFilter(where string) (*vm.Program, error) {
	if strings.TrimSpace(where) == "" {
		return nil, nil
	}

	program, err := expr.Compile(where, expr.Env(binding{}), expr.AsBool())
	if err != nil {
		return nil, pkg.ErrInvalidFilter.Wrap(err)
	}

	return program, nil
}

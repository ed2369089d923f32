package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/flux/cli/cmd"
	"github.com/ardnew/flux/lang"
	"github.com/ardnew/flux/pkg"
)

// CLI is the top-level command-line interface for flux.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Path []string `help:"Directory searched for source files (repeatable)." placeholder:"DIR" short:"I" type:"existingdir"`
	Load []string `help:"Source file run before the program (repeatable)."  placeholder:"FILE" short:"l"`

	Run   cmd.Run   `cmd:"" default:"withargs" help:"Run a program."`
	Trace cmd.Trace `cmd:""                    help:"Run a program, tracing each statement and expression."`
	AST   cmd.AST   `cmd:""                    help:"Print the syntax tree of a program."                    name:"ast"`
	Env   cmd.Env   `cmd:""                    help:"Run a program, then print its global variables."`
	Repl  cmd.Repl  `cmd:""                    help:"Start an interactive session."`
	Fmt   cmd.Fmt   `cmd:""                    help:"Format a program."`
	Init  cmd.Init  `cmd:""                    help:"Initialize configuration file."`

	Version cmd.Version `cmd:"" help:"Print version."`
}

// Run executes the flux CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"maxDepth":           strconv.Itoa(lang.DefaultMaxCallDepth),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSearchPath(ctx, searchPath(cli.Path...))
	ctx = cmd.WithLoadFiles(ctx, cli.Load)

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

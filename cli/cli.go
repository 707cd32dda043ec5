package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lox/cli/cmd"
	"github.com/ardnew/lox/lang"
	"github.com/ardnew/lox/log"
	"github.com/ardnew/lox/pkg"
)

// Configuration file names under [pkg.ConfigDir]. Values in the YAML file
// override those in the JSON file.
const (
	configYAML = "config.yaml"
	configJSON = "config.json"
)

// CLI is the top-level command-line interface for lox.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit."`

	Define  []string `help:"Bind a global before the program runs, as NAME=EXPR." placeholder:"NAME=EXPR" sep:"none" short:"D"`
	Include []string `help:"Search directory for scripts named without a path; searched before $LOX_PATH." short:"I" type:"path"`

	Run   cmd.Run   `cmd:"" default:"withargs" help:"Run a script, or start the REPL (default)."`
	Check cmd.Check `cmd:""                    help:"Report static errors without running."`
	Fmt   cmd.Fmt   `cmd:""                    help:"Print the syntax tree or token stream."`
	Repl  cmd.Repl  `cmd:""                    help:"Start an interactive session."`
	Init  cmd.Init  `cmd:""                    help:"Write a configuration file from the current flags."`
}

// Run executes the lox CLI with the given context and arguments.
// The exit function is called by flags that end the process, like --help.
// Command-line errors are wrapped in [lang.ErrUsage].
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := pkg.MkdirAll(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	vars := kong.Vars{
		"version":             pkg.Version,
		cmd.ConfigIdentifier:  pkg.ConfigPath(configYAML),
		cmd.HistoryIdentifier: pkg.CachePath(cmd.HistoryIdentifier),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	// Logger flags take effect before parsing, wherever they appear.
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
		kong.Configuration(kong.JSON, pkg.ConfigPath(configJSON)),
		kong.Configuration(resolve(ctx), pkg.ConfigPath(configYAML)),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return lang.ErrUsage.Wrap(err)
	}

	// Apply logger flags that have no parse-time side effect.
	cli.Log.start(ctx)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithOptions(ctx,
		lang.WithLogger(log.Default()),
		lang.WithDefines(cli.Define...),
	)
	ctx = cmd.WithSearchPath(ctx, cmd.SearchPath(cli.Include...))

	return ktx.Run(ctx)
}

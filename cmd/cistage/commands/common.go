package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/cistage/internal/config"
	ferrors "git.home.luguber.info/inful/cistage/internal/foundation/errors"
	"git.home.luguber.info/inful/cistage/internal/pipeline"
	"git.home.luguber.info/inful/cistage/internal/version"
)

// Global carries process wide collaborators into commands.
type Global struct {
	Logger  *slog.Logger
	Stdout  io.Writer
	Stderr  io.Writer
	Verbose bool
	// Invoker overrides the runner binary; tests inject a recording invoker.
	Invoker pipeline.Invoker
}

// CLI definition & global flags.
type CLI struct {
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogLevel  string           `name:"log-level" env:"CISTAGE_LOG_LEVEL" default:"info" help:"Log level (debug|info|warn|error)"`
	LogFormat string           `name:"log-format" env:"CISTAGE_LOG_FORMAT" default:"text" help:"Log format (text|json)"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	CI CICmd `cmd:"" name:"ci" help:"Stage sources and libraries into a workspace, then initialize and build it"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	g.Verbose = c.Verbose
	g.Logger = config.NewLogger(g.stderr(), config.NormalizeLogLevel(c.LogLevel), config.NormalizeLogFormat(c.LogFormat), c.Verbose)
	slog.SetDefault(g.Logger)
	return nil
}

func (g *Global) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) stderr() io.Writer {
	if g.Stderr == nil {
		return os.Stderr
	}
	return g.Stderr
}

// Execute parses args and runs the selected command.
func Execute(ctx context.Context, args []string, g *Global) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("cistage"),
		kong.Description("Assemble an ephemeral PlatformIO workspace from scattered sources and build it."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Writers(g.stdout(), g.stderr()),
		kong.Bind(g),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err != nil {
		return ferrors.InternalError("build command line parser").WithCause(err).Build()
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return ferrors.ValidationError(err.Error()).Build()
	}
	return kctx.Run()
}

// NewErrorAdapter returns the CLI error adapter for g.
func NewErrorAdapter(g *Global) *ferrors.CLIErrorAdapter {
	return ferrors.NewCLIErrorAdapter(g.Verbose, g.Logger)
}

package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/eringen/pubsite"
)

// version is set at build time via ldflags.
var version = "dev"

// Global is shared state handed to every command.
type Global struct {
	Logger *slog.Logger
	Config pubsite.SiteConfig
}

// CLI definition and global flags.
type CLI struct {
	EnvFile string           `name:"env-file" help:"Load environment variables from this file if it exists" default:".env" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build        BuildCmd   `cmd:"" help:"Build the site into the output directory"`
	Rewrite      RewriteCmd `cmd:"" help:"Resolve path prefix placeholders in an existing output directory"`
	New          NewCmd     `cmd:"" help:"Create a new dated article"`
	Serve        ServeCmd   `cmd:"" help:"Build, serve and rebuild the site on changes"`
	PrintVersion VersionCmd `cmd:"" name:"version" help:"Print the pubsite version"`
}

// AfterApply runs after flag parsing: it loads the env file, then the
// configuration, and sets up logging once.
func (c *CLI) AfterApply(g *Global) error {
	if c.EnvFile != "" {
		if err := godotenv.Load(c.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	g.Config = pubsite.LoadConfig(os.LookupEnv)
	g.Logger = pubsite.NewLogger(os.Stderr, g.Config.LogLevel, g.Config.LogFormat, c.Verbose)
	slog.SetDefault(g.Logger)
	return nil
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newParser(cli *CLI, g *Global) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("pubsite"),
		kong.Description("A static blog builder with path prefix aware output."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		kong.Bind(g, cli),
	)
}

func main() {
	var cli CLI
	var g Global
	parser, err := newParser(&cli, &g)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}

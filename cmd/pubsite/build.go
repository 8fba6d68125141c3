package main

import (
	"fmt"
	"time"

	"github.com/eringen/pubsite"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output  string `short:"o" help:"Output directory (overrides ELEVENTY_OUTPUT_DIR)"`
	Input   string `short:"i" help:"Source directory (overrides ELEVENTY_INPUT_DIR)"`
	NoStore bool   `name:"no-store" help:"Do not record fingerprints or builds in the build store"`
}

func (b *BuildCmd) Run(g *Global, _ *CLI) error {
	cfg := g.Config
	if b.Output != "" {
		cfg.OutputDir = b.Output
	}
	if b.Input != "" {
		cfg.InputDir = b.Input
	}
	opts := []pubsite.Option{pubsite.WithLogger(g.Logger)}
	if b.NoStore {
		opts = append(opts, pubsite.WithoutStore())
	}
	app, err := pubsite.New(cfg, opts...)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := signalContext()
	defer cancel()
	report, err := app.Build(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Built %d pages and %d files into %s (%d rewritten, %d changed) in %s\n",
		report.Pages, report.Files, report.OutputDir, report.Rewritten, len(report.Changed), report.Duration.Round(time.Millisecond))
	return nil
}

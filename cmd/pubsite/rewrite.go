package main

import (
	"os"

	"github.com/eringen/pubsite/rewrite"
)

// RewriteCmd implements the 'rewrite' command, the standalone post-build
// step for output produced elsewhere.
type RewriteCmd struct {
	Dir string `arg:"" optional:"" help:"Output directory (default ELEVENTY_OUTPUT_DIR or _site)" type:"path"`
}

func (r *RewriteCmd) Run(g *Global, _ *CLI) error {
	cfg := rewrite.ConfigFromEnv(os.LookupEnv)
	if r.Dir != "" {
		cfg.Dir = r.Dir
	}
	res, err := rewrite.New(cfg, g.Logger).Run()
	if err != nil {
		return err
	}
	g.Logger.Info("Rewrite finished", "dir", cfg.Dir, "scanned", len(res.Scanned), "rewritten", len(res.Rewritten))
	return nil
}

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/eringen/pubsite/scaffold"
)

// NewCmd implements the 'new' command.
type NewCmd struct {
	Name  string `arg:"" help:"Article name, used for the title and the file slug"`
	Dir   string `short:"d" help:"Articles directory" default:"src/articles" type:"path"`
	Force bool   `help:"Overwrite an existing article"`
}

func (n *NewCmd) Run(g *Global, _ *CLI) error {
	p, err := scaffold.NewArticle(n.Dir, n.Name, time.Now(), n.Force)
	if errors.Is(err, scaffold.ErrArticleExists) {
		return fmt.Errorf("%w; run again with --force to overwrite", err)
	}
	if err != nil {
		return err
	}
	fmt.Printf("  created %s\n", p)
	return nil
}

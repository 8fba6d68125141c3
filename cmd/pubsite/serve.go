package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/eringen/pubsite"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr string `short:"a" help:"Listen address (overrides ADDR)"`
}

func (s *ServeCmd) Run(g *Global, _ *CLI) error {
	cfg := g.Config
	if s.Addr != "" {
		cfg.Addr = s.Addr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app, err := pubsite.New(cfg, pubsite.WithLogger(g.Logger), pubsite.WithMetrics(pubsite.NewRecorder(reg)))
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := signalContext()
	defer cancel()
	return app.Serve(ctx, reg)
}

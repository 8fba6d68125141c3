package pubsite

import (
	"context"
	"errors"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// Serve builds the site once, then serves the output directory on
// Config.Addr and rebuilds on source changes until ctx is canceled.
func (a *App) Serve(ctx context.Context, reg *prom.Registry) error {
	if _, err := a.Build(ctx); err != nil {
		return err
	}

	e := a.Handler(reg)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("Preview server listening", "addr", a.Config.Addr, "prefix", a.Config.PathPrefix)
		if err := e.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return a.Watch(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutting down preview server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

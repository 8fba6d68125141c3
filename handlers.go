package pubsite

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/eringen/pubsite/filters"
)

// Handler returns the preview server for the output directory. Request
// and build metrics are registered on reg and exposed at /metrics.
func (a *App) Handler(reg *prom.Registry) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a.setupMiddleware(e, reg)

	prefix := filters.NormalizePrefix(a.Config.PathPrefix)
	e.GET(metricsPath, echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg}))
	if prefix != "/" {
		e.GET("/", func(c echo.Context) error {
			return c.Redirect(http.StatusFound, prefix)
		})
		e.GET(strings.TrimSuffix(prefix, "/"), func(c echo.Context) error {
			return c.Redirect(http.StatusMovedPermanently, prefix)
		})
	}
	e.GET(prefix+"*", a.handleOutput)
	return e
}

// handleOutput serves a file from the output directory. Directory URLs
// resolve to their index.html.
func (a *App) handleOutput(c echo.Context) error {
	rel := path.Clean("/" + c.Param("*"))
	p := filepath.Join(a.Config.OutputDir, filepath.FromSlash(rel))

	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return echo.ErrNotFound
		}
		return err
	}
	if info.IsDir() {
		if !strings.HasSuffix(c.Request().URL.Path, "/") {
			return c.Redirect(http.StatusMovedPermanently, c.Request().URL.Path+"/")
		}
		p = filepath.Join(p, "index.html")
		if _, err := os.Stat(p); err != nil {
			return echo.ErrNotFound
		}
	}
	return c.File(p)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		if page, rerr := os.ReadFile(filepath.Join(a.Config.OutputDir, "404.html")); rerr == nil {
			_ = c.HTMLBlob(http.StatusNotFound, page)
			return
		}
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.logger.Error("server error", "path", c.Request().URL.Path, "error", err)
	}
	c.Echo().DefaultHTTPErrorHandler(err, c)
}

package pubsite

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// outputPath maps a site URL to the file that serves it: directory URLs
// get an index.html, anything else is written as-is.
func outputPath(outDir, url string) string {
	clean := path.Clean("/" + url)
	if strings.HasSuffix(url, "/") || clean == "/" {
		clean = path.Join(clean, "index.html")
	}
	return filepath.Join(outDir, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
}

// renderFile renders cmp into the file at p, creating parent directories.
func renderFile(ctx context.Context, p string, cmp templ.Component) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := cmp.Render(ctx, w); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", p, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}


package pubsite

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func newPreview(t *testing.T) (*App, http.Handler) {
	t.Helper()
	cfg := newSite(t)
	reg := prom.NewRegistry()
	app, err := New(cfg, WithoutStore(), WithMetrics(NewRecorder(reg)))
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	_, err = app.Build(context.Background())
	require.NoError(t, err)
	return app, app.Handler(reg)
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestPreviewServesPages(t *testing.T) {
	_, h := newPreview(t)

	rec := get(h, "/blog/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Test Blog")

	rec = get(h, "/blog/posts/first/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<h1>First</h1>")
	require.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
}

func TestPreviewRedirects(t *testing.T) {
	_, h := newPreview(t)

	rec := get(h, "/")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/blog/", rec.Header().Get("Location"))

	rec = get(h, "/blog/posts/first")
	require.Equal(t, http.StatusMovedPermanently, rec.Code)
	require.Equal(t, "/blog/posts/first/", rec.Header().Get("Location"))
}

func TestPreviewServiceWorkerHeaders(t *testing.T) {
	_, h := newPreview(t)

	rec := get(h, "/blog/sw.js")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "/blog/", rec.Header().Get("Service-Worker-Allowed"))
	require.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	require.Contains(t, rec.Body.String(), "'/blog/index.html'")

	rec = get(h, "/blog/feed.xml")
	require.Empty(t, rec.Header().Get("Service-Worker-Allowed"))
	require.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
}

func TestPreviewNotFound(t *testing.T) {
	app, h := newPreview(t)

	rec := get(h, "/blog/does-not-exist/")
	require.Equal(t, http.StatusNotFound, rec.Code)
	page, err := os.ReadFile(filepath.Join(app.Config.OutputDir, "404.html"))
	require.NoError(t, err)
	require.Equal(t, string(page), rec.Body.String())

	rec = get(h, "/elsewhere/")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPreviewMetrics(t *testing.T) {
	_, h := newPreview(t)
	get(h, "/blog/")

	rec := get(h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "pubsite_http_requests_total")
	require.Contains(t, body, "pubsite_build_duration_seconds")
	require.Contains(t, body, "pubsite_pages_rendered_total")
}

func TestIsMedia(t *testing.T) {
	require.True(t, isMedia("/blog/assets/images/logo-white-512.PNG"))
	require.False(t, isMedia("/blog/feed.xml"))
}

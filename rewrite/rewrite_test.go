package rewrite

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func envLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestConfigFromEnvDefaults(t *testing.T) {
	cfg := ConfigFromEnv(envLookup(nil))

	require.Equal(t, DefaultDir, cfg.Dir)
	require.Equal(t, DefaultExtensions, cfg.Extensions)
	require.Equal(t, DefaultPathPrefix, cfg.Tokens[TokenPathPrefix])
	require.Equal(t, DefaultSiteRoot, cfg.Tokens[TokenSiteRoot])
}

func TestConfigFromEnvOverrides(t *testing.T) {
	cfg := ConfigFromEnv(envLookup(map[string]string{
		EnvPathPrefix: "/blog/",
		EnvSiteRoot:   "https://example.com",
		EnvOutputDir:  "public",
		EnvExtensions: "js, webmanifest ,.TXT,",
	}))

	require.Equal(t, "public", cfg.Dir)
	require.Equal(t, []string{".js", ".webmanifest", ".txt"}, cfg.Extensions)
	require.Equal(t, "/blog/", cfg.Tokens[TokenPathPrefix])
	require.Equal(t, "https://example.com", cfg.Tokens[TokenSiteRoot])
}

func TestConfigFromEnvSitemapAlias(t *testing.T) {
	cfg := ConfigFromEnv(envLookup(map[string]string{
		EnvSitemapBaseURL: "https://legacy.example.com",
	}))
	require.Equal(t, "https://legacy.example.com", cfg.Tokens[TokenSiteRoot])

	cfg = ConfigFromEnv(envLookup(map[string]string{
		EnvSiteRoot:       "https://new.example.com",
		EnvSitemapBaseURL: "https://legacy.example.com",
	}))
	require.Equal(t, "https://new.example.com", cfg.Tokens[TokenSiteRoot])
}

func TestConfigFromEnvEmptyValuesFallBack(t *testing.T) {
	cfg := ConfigFromEnv(envLookup(map[string]string{
		EnvPathPrefix: "",
		EnvExtensions: " , ",
	}))

	require.Equal(t, DefaultPathPrefix, cfg.Tokens[TokenPathPrefix])
	require.Equal(t, DefaultExtensions, cfg.Extensions)
}

func TestRunManifestStartURL(t *testing.T) {
	dir := t.TempDir()
	manifest := writeFile(t, dir, "manifest.webmanifest", `{"start_url": "{{PATH_PREFIX}}"}`)

	cfg := ConfigFromEnv(envLookup(map[string]string{EnvPathPrefix: "/blog/"}))
	cfg.Dir = dir

	res, err := New(cfg, nil).Run()
	require.NoError(t, err)
	require.Equal(t, []string{manifest}, res.Rewritten)
	require.Equal(t, `{"start_url": "/blog/"}`, readFile(t, manifest))
}

func TestRunReplacesAllTokensAndKeepsOtherBytes(t *testing.T) {
	dir := t.TempDir()
	sw := writeFile(t, dir, "sw.js", "a {{PATH_PREFIX}}index.html\nb {{PATH_PREFIX}}x {{SITE_ROOT}}\n{{OTHER}}")
	robots := writeFile(t, dir, "robots.txt", "Sitemap: {{SITE_ROOT}}{{PATH_PREFIX}}sitemap.xml\n")

	cfg := Config{
		Dir:        dir,
		Extensions: DefaultExtensions,
		Tokens: map[string]string{
			TokenPathPrefix: "/p/",
			TokenSiteRoot:   "https://example.com",
		},
	}
	_, err := New(cfg, nil).Run()
	require.NoError(t, err)

	require.Equal(t, "a /p/index.html\nb /p/x https://example.com\n{{OTHER}}", readFile(t, sw))
	require.Equal(t, "Sitemap: https://example.com/p/sitemap.xml\n", readFile(t, robots))
}

func TestRunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sitemap.xml", "<loc>{{SITE_ROOT}}{{PATH_PREFIX}}</loc>")
	cfg := ConfigFromEnv(envLookup(map[string]string{EnvSiteRoot: "https://example.com"}))
	cfg.Dir = dir
	rw := New(cfg, nil)

	_, err := rw.Run()
	require.NoError(t, err)
	first := readFile(t, path)

	res, err := rw.Run()
	require.NoError(t, err)
	require.Empty(t, res.Rewritten)
	require.Equal(t, first, readFile(t, path))
}

func TestRunSkipsOtherExtensionsAndSubdirectories(t *testing.T) {
	dir := t.TempDir()
	html := writeFile(t, dir, "index.html", "{{PATH_PREFIX}}")
	sub := filepath.Join(dir, "assets")
	require.NoError(t, os.Mkdir(sub, 0o755))
	nested := writeFile(t, sub, "app.js", "{{PATH_PREFIX}}")

	cfg := ConfigFromEnv(envLookup(nil))
	cfg.Dir = dir
	res, err := New(cfg, nil).Run()
	require.NoError(t, err)

	require.Empty(t, res.Scanned)
	require.Equal(t, "{{PATH_PREFIX}}", readFile(t, html))
	require.Equal(t, "{{PATH_PREFIX}}", readFile(t, nested))
}

func TestRunMissingDirectory(t *testing.T) {
	cfg := ConfigFromEnv(envLookup(nil))
	cfg.Dir = filepath.Join(t.TempDir(), "missing")

	_, err := New(cfg, nil).Run()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrOutputDir))
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRewriteFileUnreadable(t *testing.T) {
	rw := New(ConfigFromEnv(envLookup(nil)), nil)

	_, err := rw.RewriteFile(filepath.Join(t.TempDir(), "gone.js"))
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestApplyTokenOrderIndependent(t *testing.T) {
	tokens := map[string]string{TokenPathPrefix: "/x/", TokenSiteRoot: "https://r"}
	rw := New(Config{Tokens: tokens}, nil)

	in := strings.Repeat("{{SITE_ROOT}}{{PATH_PREFIX}}", 3)
	require.Equal(t, strings.Repeat("https://r/x/", 3), rw.Apply(in))
}

func TestMatchesIsCaseInsensitive(t *testing.T) {
	rw := New(Config{Extensions: []string{"js", ".XML"}}, nil)

	require.True(t, rw.Matches("SW.JS"))
	require.True(t, rw.Matches("sitemap.xml"))
	require.False(t, rw.Matches("index.html"))
	require.False(t, rw.Matches("Makefile"))
}

package pubsite

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/eringen/pubsite/collections"
	"github.com/eringen/pubsite/filters"
	"github.com/eringen/pubsite/rewrite"
	"github.com/eringen/pubsite/views"
)

// SiteConfig holds all configuration for a pubsite build.
type SiteConfig struct {
	Name        string // Site name (default "Blog")
	URL         string // Site root used in absolute URLs (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for JSON-LD

	PathPrefix string // URL path the site is served under (default "/")
	InputDir   string // Source directory (default "src")
	OutputDir  string // Build output directory (default "_site")

	// RewriteExtensions are the top-level output files the placeholder
	// rewrite touches (default .js, .webmanifest, .txt, .xml).
	RewriteExtensions []string

	PageSize     int    // Items per tag page (default 5)
	LogoPath     string // Source logo, relative to InputDir (default "assets/logo.png")
	DatabasePath string // Build store SQLite path (default ".cache/pubsite.db")
	Addr         string // Preview server listen address (default ":3000")

	LogLevel  string // debug, info, warn, error (default info)
	LogFormat string // text or json (default text)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = rewrite.DefaultSiteRoot
	}
	if c.PathPrefix == "" {
		c.PathPrefix = rewrite.DefaultPathPrefix
	}
	if c.InputDir == "" {
		c.InputDir = "src"
	}
	if c.OutputDir == "" {
		c.OutputDir = rewrite.DefaultDir
	}
	if len(c.RewriteExtensions) == 0 {
		c.RewriteExtensions = append([]string(nil), rewrite.DefaultExtensions...)
	}
	if c.PageSize < 1 {
		c.PageSize = collections.DefaultPageSize
	}
	if c.LogoPath == "" {
		c.LogoPath = "assets/logo.png"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = ".cache/pubsite.db"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
}

// LoadConfig builds a SiteConfig from the environment. The rewrite
// settings share their variables with rewrite.ConfigFromEnv.
func LoadConfig(lookup rewrite.LookupFunc) SiteConfig {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}
	rw := rewrite.ConfigFromEnv(lookup)
	cfg := SiteConfig{
		Name:              get("SITE_NAME"),
		URL:               rw.Tokens[rewrite.TokenSiteRoot],
		Description:       get("SITE_DESCRIPTION"),
		Author:            get("SITE_AUTHOR"),
		PathPrefix:        rw.Tokens[rewrite.TokenPathPrefix],
		InputDir:          get("ELEVENTY_INPUT_DIR"),
		OutputDir:         rw.Dir,
		RewriteExtensions: rw.Extensions,
		LogoPath:          get("SITE_LOGO"),
		DatabasePath:      get("DATABASE_PATH"),
		Addr:              get("ADDR"),
		LogLevel:          get("LOG_LEVEL"),
		LogFormat:         get("LOG_FORMAT"),
	}
	if n, err := strconv.Atoi(get("PAGE_SIZE")); err == nil {
		cfg.PageSize = n
	}
	cfg.setDefaults()
	return cfg
}

// RewriteConfig is the placeholder rewrite run after every build. The site
// root loses any trailing slash because the path prefix supplies one.
func (c SiteConfig) RewriteConfig() rewrite.Config {
	return rewrite.Config{
		Dir:        c.OutputDir,
		Extensions: c.RewriteExtensions,
		Tokens: map[string]string{
			rewrite.TokenPathPrefix: c.PathPrefix,
			rewrite.TokenSiteRoot:   strings.TrimSuffix(c.URL, "/"),
		},
	}
}

func (c SiteConfig) viewConfig() views.SiteConfig {
	return views.SiteConfig{
		Name:        c.Name,
		URL:         strings.TrimSuffix(c.URL, "/"),
		Description: c.Description,
		Author:      c.Author,
		PathPrefix:  filters.NormalizePrefix(c.PathPrefix),
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithViews replaces the default page views.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}

// WithAfterBuild appends a hook that runs after the placeholder rewrite.
func WithAfterBuild(h Hook) Option {
	return func(a *App) {
		a.afterBuild = append(a.afterBuild, h)
	}
}

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithMetrics records build metrics on r.
func WithMetrics(r *Recorder) Option {
	return func(a *App) {
		a.metrics = r
	}
}

// WithoutStore disables the build store.
func WithoutStore() Option {
	return func(a *App) {
		a.noStore = true
	}
}

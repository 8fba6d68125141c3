// Package pubsite builds a static blog from a directory of Markdown files.
// It renders articles, paginated tag pages, a home page, a sitemap and a
// feed, copies static assets, and resolves the path-prefix placeholders
// in the generated output once everything is written.
//
// Pages are rendered through the ViewFuncs struct, so callers can replace
// any view with their own templ components.
package pubsite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"

	"github.com/eringen/pubsite/collections"
	"github.com/eringen/pubsite/content"
	"github.com/eringen/pubsite/filters"
	"github.com/eringen/pubsite/rewrite"
	"github.com/eringen/pubsite/views"
)

// App is the central pubsite application. It wires together the
// configuration, the views, the build store and the after-build hooks.
type App struct {
	Config SiteConfig
	Views  ViewFuncs
	Store  *Store

	logger     *slog.Logger
	metrics    *Recorder
	afterBuild []Hook
	noStore    bool

	mu sync.Mutex
}

// New creates an App for cfg. Views not supplied through WithViews fall
// back to the views package. The build store is opened here.
func New(cfg SiteConfig, opts ...Option) (*App, error) {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.Views.incomplete() {
		r, err := views.New(cfg.viewConfig(), filters.FuncMap(cfg.PathPrefix))
		if err != nil {
			return nil, fmt.Errorf("pubsite: init views: %w", err)
		}
		a.Views.fill(ViewFuncs{
			Home:     r.Home,
			Article:  r.Article,
			TagPage:  r.TagPage,
			TagIndex: r.TagIndex,
			NotFound: r.NotFound,
		})
	}

	// The placeholder rewrite always runs first.
	a.afterBuild = append([]Hook{RewriteHook(cfg.RewriteConfig(), a.logger)}, a.afterBuild...)

	if !a.noStore {
		store, err := NewStore(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("pubsite: init store: %w", err)
		}
		a.Store = store
	}
	return a, nil
}

func (v ViewFuncs) incomplete() bool {
	return v.Home == nil || v.Article == nil || v.TagPage == nil || v.TagIndex == nil || v.NotFound == nil
}

// fill sets every view v lacks from def.
func (v *ViewFuncs) fill(def ViewFuncs) {
	if v.Home == nil {
		v.Home = def.Home
	}
	if v.Article == nil {
		v.Article = def.Article
	}
	if v.TagPage == nil {
		v.TagPage = def.TagPage
	}
	if v.TagIndex == nil {
		v.TagIndex = def.TagIndex
	}
	if v.NotFound == nil {
		v.NotFound = def.NotFound
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// Build generates the whole site into Config.OutputDir and then runs the
// after-build hooks in order. Concurrent calls are serialized.
func (a *App) Build(ctx context.Context) (*BuildReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	report := &BuildReport{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		OutputDir: a.Config.OutputDir,
	}
	log := a.logger.With("build_id", report.ID)
	log.Info("Build started", "input", a.Config.InputDir, "output", a.Config.OutputDir)

	err := a.build(ctx, log, report)
	report.Duration = time.Since(report.StartedAt)
	a.metrics.observeBuild(report, err)
	if err != nil {
		log.Error("Build failed", "error", err)
		return nil, err
	}
	log.Info("Build finished",
		"pages", report.Pages,
		"files", report.Files,
		"rewritten", report.Rewritten,
		"changed", len(report.Changed),
		"duration", report.Duration)
	return report, nil
}

func (a *App) build(ctx context.Context, log *slog.Logger, report *BuildReport) error {
	stage := func(name string, fn func() error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		err := fn()
		a.metrics.observeStage(name, time.Since(start))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		log.Debug("Stage complete", "stage", name, "duration", time.Since(start))
		return nil
	}

	var docs []*content.Document
	var items []*collections.Item
	steps := []struct {
		name string
		fn   func() error
	}{
		{"load", func() (err error) {
			docs, err = content.Load(os.DirFS(a.Config.InputDir), log)
			items = content.Items(docs)
			return err
		}},
		{"collections", func() error {
			collections.Sort(items)
			report.TagList = collections.TagList(items)
			report.Categories = collections.Categories(items, a.Config.PageSize)
			return nil
		}},
		{"render", func() error { return a.renderPages(ctx, items, report) }},
		{"passthrough", func() error { return a.copyAssets(report) }},
		{"feeds", func() error { return a.writeFeeds(items, report) }},
		{"images", func() error {
			n, err := writeLogoVariants(filepath.Join(a.Config.InputDir, filepath.FromSlash(a.Config.LogoPath)), a.Config.OutputDir)
			report.Files += n
			return err
		}},
		{"store", func() error { return a.recordDocuments(docs, report) }},
		{"hooks", func() error {
			for _, h := range a.afterBuild {
				if err := h(ctx, report); err != nil {
					return err
				}
			}
			return nil
		}},
	}
	for _, s := range steps {
		if err := stage(s.name, s.fn); err != nil {
			return err
		}
	}

	if a.Store != nil {
		err := a.Store.RecordBuild(BuildRecord{
			ID:        report.ID,
			StartedAt: report.StartedAt,
			Duration:  time.Since(report.StartedAt),
			Pages:     report.Pages,
			Rewritten: report.Rewritten,
			Changed:   len(report.Changed),
		})
		if err != nil {
			return fmt.Errorf("record build: %w", err)
		}
	}
	return nil
}

// ErrPathConflict is returned when two pages would be written to the same
// output file.
var ErrPathConflict = errors.New("output path conflict")

// outputClaims records which source owns each rendered file.
type outputClaims map[string]string

func (c outputClaims) claim(p, owner string) error {
	if prev, ok := c[p]; ok {
		return fmt.Errorf("%w: %s is produced by both %s and %s", ErrPathConflict, p, prev, owner)
	}
	c[p] = owner
	return nil
}

func (a *App) renderPages(ctx context.Context, items []*collections.Item, report *BuildReport) error {
	out := a.Config.OutputDir
	posts := collections.ByTag(items, collections.ReservedTag)
	newest := make([]*collections.Item, len(posts))
	for i, p := range posts {
		newest[len(posts)-1-i] = p
	}

	type target struct {
		path  string
		owner string
		cmp   templ.Component
	}
	var targets []target
	for _, it := range items {
		targets = append(targets, target{outputPath(out, it.URL), it.Path, a.Views.Article(it)})
	}
	for _, p := range report.Categories {
		if p.TagName == collections.ReservedTag {
			continue
		}
		total := len(collections.PagesFor(report.Categories, p.TagName))
		targets = append(targets, target{
			outputPath(out, views.TagURL(p.TagName, p.PageNumber)),
			fmt.Sprintf("tag %q page %d", p.TagName, p.PageNumber+1),
			a.Views.TagPage(p, total),
		})
	}
	targets = append(targets,
		target{outputPath(out, "/"), "home page", a.Views.Home(newest, report.TagList)},
		target{outputPath(out, "/tags/"), "tag index", a.Views.TagIndex(report.TagList)},
		target{outputPath(out, "/404.html"), "not found page", a.Views.NotFound()},
	)

	// Check every target before writing so a conflict leaves no page
	// overwritten.
	claims := make(outputClaims, len(targets))
	for _, t := range targets {
		if err := claims.claim(t.path, t.owner); err != nil {
			return err
		}
	}
	for _, t := range targets {
		if err := renderFile(ctx, t.path, t.cmp); err != nil {
			return err
		}
		report.Pages++
	}
	return nil
}

// copyAssets copies the passthrough directories and then writes the
// embedded service worker and manifest for any the site does not ship in
// assets/public.
func (a *App) copyAssets(report *BuildReport) error {
	for _, p := range passthroughCopies {
		n, err := copyTree(
			filepath.Join(a.Config.InputDir, filepath.FromSlash(p.From)),
			filepath.Join(a.Config.OutputDir, filepath.FromSlash(p.To)),
		)
		if err != nil {
			return fmt.Errorf("copy %s: %w", p.From, err)
		}
		report.Files += n
	}

	name, err := json.Marshal(a.Config.Name)
	if err != nil {
		return err
	}
	// Drop the enclosing quotes only; escaped quotes inside must stay.
	siteName := string(name[1 : len(name)-1])
	if err := os.MkdirAll(a.Config.OutputDir, 0o755); err != nil {
		return err
	}
	return fs.WalkDir(EmbeddedAssets, "embedded", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := EmbeddedAssets.ReadFile(p)
		if err != nil {
			return err
		}
		own, err := fileExists(filepath.Join(a.Config.InputDir, "assets", "public", d.Name()))
		if err != nil || own {
			return err
		}
		data = []byte(strings.ReplaceAll(string(data), "{{SITE_NAME}}", siteName))
		if err := os.WriteFile(filepath.Join(a.Config.OutputDir, d.Name()), data, 0o644); err != nil {
			return err
		}
		report.Files++
		return nil
	})
}

func (a *App) writeFeeds(items []*collections.Item, report *BuildReport) error {
	writers := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"sitemap.xml", func(w io.Writer) error { return writeSitemap(w, items, report.Categories) }},
		{"feed.xml", func(w io.Writer) error {
			return writeRSS(w, a.Config, collections.ByTag(items, collections.ReservedTag))
		}},
		{"robots.txt", writeRobots},
	}
	if err := os.MkdirAll(a.Config.OutputDir, 0o755); err != nil {
		return err
	}
	for _, fw := range writers {
		f, err := os.Create(filepath.Join(a.Config.OutputDir, fw.name))
		if err != nil {
			return err
		}
		if err := fw.write(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", fw.name, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		report.Files++
	}
	return nil
}

func (a *App) recordDocuments(docs []*content.Document, report *BuildReport) error {
	if a.Store == nil {
		for _, d := range docs {
			report.Changed = append(report.Changed, d.Item.Path)
		}
		return nil
	}
	fps := make(map[string]string, len(docs))
	for _, d := range docs {
		fps[d.Item.Path] = d.Fingerprint
	}
	changed, err := a.Store.SyncDocuments(fps, report.StartedAt)
	if err != nil {
		return err
	}
	report.Changed = changed
	return nil
}

// RewriteHook returns the after-build hook that resolves placeholder
// tokens in the top-level output files.
func RewriteHook(cfg rewrite.Config, logger *slog.Logger) Hook {
	return func(ctx context.Context, report *BuildReport) error {
		if report.OutputDir != "" {
			cfg.Dir = report.OutputDir
		}
		res, err := rewrite.New(cfg, logger).Run()
		if err != nil {
			return err
		}
		report.Rewritten += len(res.Rewritten)
		return nil
	}
}

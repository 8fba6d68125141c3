// Package rewrite resolves placeholder tokens in generated output files
// once the site build has finished.
package rewrite

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrOutputDir is returned when the output directory cannot be listed.
var ErrOutputDir = errors.New("output directory unavailable")

// Result lists what a run touched. Paths are absolute or relative exactly
// as Config.Dir was given.
type Result struct {
	Scanned   []string
	Rewritten []string
}

// Rewriter substitutes Config.Tokens in the top-level files of Config.Dir.
type Rewriter struct {
	cfg      Config
	replacer *strings.Replacer
	exts     map[string]struct{}
	logger   *slog.Logger
}

// New builds a Rewriter for cfg. A nil logger discards output.
func New(cfg Config, logger *slog.Logger) *Rewriter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	tokens := make([]string, 0, len(cfg.Tokens))
	for tok := range cfg.Tokens {
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	sort.Strings(tokens)
	pairs := make([]string, 0, 2*len(tokens))
	for _, tok := range tokens {
		pairs = append(pairs, tok, cfg.Tokens[tok])
	}
	exts := make(map[string]struct{}, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		if ext = normalizeExt(ext); ext != "" {
			exts[ext] = struct{}{}
		}
	}
	return &Rewriter{
		cfg:      cfg,
		replacer: strings.NewReplacer(pairs...),
		exts:     exts,
		logger:   logger,
	}
}

// Run rewrites every matching file in the output directory, one at a time.
// The first read or write failure aborts the run.
func (r *Rewriter) Run() (Result, error) {
	var res Result
	entries, err := os.ReadDir(r.cfg.Dir)
	if err != nil {
		return res, fmt.Errorf("%w: %s: %w", ErrOutputDir, r.cfg.Dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !r.Matches(entry.Name()) {
			continue
		}
		path := filepath.Join(r.cfg.Dir, entry.Name())
		res.Scanned = append(res.Scanned, path)
		changed, err := r.RewriteFile(path)
		if err != nil {
			return res, err
		}
		if changed {
			res.Rewritten = append(res.Rewritten, path)
			r.logger.Debug("Rewrote placeholders", "path", path)
		}
	}
	r.logger.Info("Placeholder rewrite complete",
		"dir", r.cfg.Dir, "scanned", len(res.Scanned), "rewritten", len(res.Rewritten))
	return res, nil
}

// RewriteFile replaces the tokens in a single file. The file is only
// written when its contents change.
func (r *Rewriter) RewriteFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	out := r.Apply(string(data))
	if out == string(data) {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

// Apply returns s with every token replaced.
func (r *Rewriter) Apply(s string) string {
	return r.replacer.Replace(s)
}

// Matches reports whether a file name has one of the configured extensions.
func (r *Rewriter) Matches(name string) bool {
	_, ok := r.exts[strings.ToLower(filepath.Ext(name))]
	return ok
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

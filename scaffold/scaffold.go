// Package scaffold writes new Markdown articles from embedded templates.
package scaffold

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/eringen/pubsite/slug"
)

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed templates/*.tmpl
var Templates embed.FS

// ErrArticleExists is returned when the target file is already present
// and overwriting was not requested.
var ErrArticleExists = errors.New("article already exists")

const articleTemplate = "templates/article.md.tmpl"

// articleData holds the template variables for a new article.
type articleData struct {
	Title       string
	Description string
	Date        string
}

var funcs = template.FuncMap{
	"quote": func(s string) (string, error) {
		b, err := json.Marshal(s)
		return string(b), err
	},
}

// ArticlePath is the file NewArticle writes for name on the given day.
func ArticlePath(dir, name string, now time.Time) (string, error) {
	s := slug.Make(name)
	if s == "" {
		return "", fmt.Errorf("article name %q has no usable characters", name)
	}
	return filepath.Join(dir, now.Format("2006-01-02")+"-"+s+".md"), nil
}

// NewArticle writes <dir>/YYYY-MM-DD-<slug>.md for name and returns its
// path. An existing file is left untouched unless force is set.
func NewArticle(dir, name string, now time.Time, force bool) (string, error) {
	name = strings.TrimSpace(name)
	p, err := ArticlePath(dir, name, now)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(p); err == nil && !force {
		return p, fmt.Errorf("%w: %s", ErrArticleExists, p)
	}

	raw, err := Templates.ReadFile(articleTemplate)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(filepath.Base(articleTemplate)).Funcs(funcs).Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", articleTemplate, err)
	}
	var buf bytes.Buffer
	err = tmpl.Execute(&buf, articleData{
		Title:       name,
		Description: name,
		Date:        now.Format("2006-01-02"),
	})
	if err != nil {
		return "", fmt.Errorf("execute template %s: %w", articleTemplate, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("create %s: %w", p, err)
	}
	return p, nil
}

// Package content loads Markdown documents with YAML frontmatter into
// collection items.
package content

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/inful/mdfp"

	"github.com/eringen/pubsite/collections"
)

// Document is a parsed source file.
type Document struct {
	Item        *collections.Item
	Frontmatter []byte
	Fingerprint string
}

var reDatePrefix = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-`)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// skipDirs are never scanned for content.
var skipDirs = map[string]bool{
	"_includes":    true,
	"assets":       true,
	"node_modules": true,
}

// Load walks fsys and parses every Markdown file outside the layout,
// asset and hidden directories. Files that fail to parse abort the load.
func Load(fsys fs.FS, logger *slog.Logger) ([]*Document, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	var docs []*Document
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p != "." && (skipDirs[name] || strings.HasPrefix(name, ".")) {
				return fs.SkipDir
			}
			return nil
		}
		if path.Ext(name) != ".md" {
			return nil
		}
		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		var modTime time.Time
		if info, err := d.Info(); err == nil {
			modTime = info.ModTime()
		}
		doc, err := Parse(p, raw, modTime)
		if err != nil {
			return err
		}
		logger.Debug("Loaded document", "path", p, "tags", doc.Item.Tags)
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Items returns the collection items of docs, in the same order.
func Items(docs []*Document) []*collections.Item {
	items := make([]*collections.Item, len(docs))
	for i, d := range docs {
		items[i] = d.Item
	}
	return items
}

// Parse builds a Document from the raw bytes of the file at p (slash
// separated, relative to the content root).
func Parse(p string, raw []byte, modTime time.Time) (*Document, error) {
	fm, body, _, err := Split(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	fields, err := ParseYAML(fm)
	if err != nil {
		return nil, fmt.Errorf("%s: parse frontmatter: %w", p, err)
	}

	item := &collections.Item{
		Path:        p,
		URL:         permalink(p, fields),
		Title:       stringField(fields, "title"),
		Description: stringField(fields, "description"),
		Date:        itemDate(p, fields, modTime),
		Tags:        tagsField(fields),
		Body:        string(body),
		Data:        fields,
	}
	return &Document{
		Item:        item,
		Frontmatter: fm,
		Fingerprint: mdfp.CalculateFingerprintFromParts(string(fm), string(body)),
	}, nil
}

func permalink(p string, fields map[string]any) string {
	if v := stringField(fields, "permalink"); v != "" {
		if !strings.HasPrefix(v, "/") {
			v = "/" + v
		}
		return v
	}
	stem := strings.TrimSuffix(p, path.Ext(p))
	if path.Base(stem) == "index" {
		stem = path.Dir(stem)
	}
	if stem == "." || stem == "" {
		return "/"
	}
	return "/" + stem + "/"
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// tagsField returns nil only when the tags key is absent.
func tagsField(fields map[string]any) []string {
	raw, ok := fields["tags"]
	if !ok {
		return nil
	}
	tags := []string{}
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			tags = append(tags, s)
		}
	}
	switch v := raw.(type) {
	case string:
		add(v)
	case []any:
		for _, t := range v {
			if t != nil {
				add(fmt.Sprint(t))
			}
		}
	case []string:
		for _, t := range v {
			add(t)
		}
	}
	return tags
}

func itemDate(p string, fields map[string]any, modTime time.Time) time.Time {
	switch v := fields["date"].(type) {
	case time.Time:
		return v.UTC()
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
				return t.UTC()
			}
		}
	}
	if m := reDatePrefix.FindStringSubmatch(path.Base(p)); m != nil {
		if t, err := time.Parse("2006-01-02", m[1]); err == nil {
			return t
		}
	}
	return modTime.UTC()
}

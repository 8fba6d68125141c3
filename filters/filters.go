// Package filters holds the helper functions handed to page templates.
// Templates receive them through FuncMap; nothing is registered globally.
package filters

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"math"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// wordsPerMinute is the reading speed used by TimeToRead.
const wordsPerMinute = 200

// FuncMap returns the template helpers. pathPrefix is applied by the url
// helper to site-relative links.
func FuncMap(pathPrefix string) template.FuncMap {
	return template.FuncMap{
		"json":          JSON,
		"stripHtml":     StripHTML,
		"prettyDate":    PrettyDate,
		"dateToRfc3339": DateToRFC3339,
		"timeToRead":    TimeToRead,
		"url": func(p string) string {
			return URL(pathPrefix, p)
		},
	}
}

// JSON encodes v, returning "null" when it cannot be encoded.
func JSON(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return template.JS(b)
}

// StripHTML drops every tag from s, folds line breaks into spaces and trims
// the result.
func StripHTML(s string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				// Unparseable remainder is kept as text.
				b.Write(z.Raw())
			}
			out := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(b.String())
			return strings.TrimSpace(out)
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// PrettyDate formats a date as "Jan 2, 2006". Strings are parsed as
// RFC 3339 or YYYY-MM-DD; anything else is returned unchanged.
func PrettyDate(v any) string {
	t, ok := toTime(v)
	if !ok {
		return fmt.Sprint(v)
	}
	return t.Format("Jan 2, 2006")
}

// DateToRFC3339 formats a date for Atom and sitemap use.
func DateToRFC3339(v any) string {
	t, ok := toTime(v)
	if !ok {
		return fmt.Sprint(v)
	}
	return t.UTC().Format(time.RFC3339)
}

// TimeToRead estimates the reading time of text in the short style, e.g.
// "3 min". Markup is ignored.
func TimeToRead(text string) string {
	words := len(strings.Fields(StripHTML(text)))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min", minutes)
}

// URL prefixes a site-relative path with the path prefix. Absolute URLs
// and fragments pass through.
func URL(prefix, p string) string {
	if strings.Contains(p, "://") || strings.HasPrefix(p, "#") || strings.HasPrefix(p, "mailto:") {
		return p
	}
	prefix = NormalizePrefix(prefix)
	return prefix + strings.TrimPrefix(p, "/")
}

// NormalizePrefix returns prefix with exactly one leading and one trailing
// slash.
func NormalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return "/"
	}
	return "/" + prefix + "/"
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if parsed, err := time.Parse(layout, strings.TrimSpace(t)); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

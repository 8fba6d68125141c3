package pubsite

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/eringen/pubsite/collections"
	"github.com/eringen/pubsite/rewrite"
	"github.com/eringen/pubsite/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// tokenURL is an absolute URL for a site-relative path, left as
// placeholders for the post-build rewrite.
func tokenURL(p string) string {
	return rewrite.TokenSiteRoot + rewrite.TokenPathPrefix + strings.TrimPrefix(p, "/")
}

func writeSitemap(w io.Writer, items []*collections.Item, pages []collections.TagPage) error {
	urls := []sitemapURL{
		{Loc: tokenURL("/")},
	}
	for _, it := range items {
		u := sitemapURL{Loc: tokenURL(it.URL)}
		if !it.Date.IsZero() {
			u.LastMod = it.Date.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	for _, p := range pages {
		if p.TagName == collections.ReservedTag {
			continue
		}
		urls = append(urls, sitemapURL{Loc: tokenURL(views.TagURL(p.TagName, p.PageNumber))})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(sitemap)
}

func writeRobots(w io.Writer) error {
	_, err := fmt.Fprintf(w, "User-agent: *\nAllow: /\n\nSitemap: %s\n", tokenURL("sitemap.xml"))
	return err
}

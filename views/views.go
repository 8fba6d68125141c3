// Package views renders the site's pages as templ components backed by
// embedded html/template files. Template helpers are injected by the
// caller, never read from globals.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/pubsite/collections"
	"github.com/eringen/pubsite/markdown"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the page templates for one site configuration.
type Renderer struct {
	site SiteConfig
	tmpl *template.Template
}

// page is the data every template receives.
type page struct {
	Site       SiteConfig
	Meta       PageMeta
	JSONLD     template.JS
	Tags       []string
	Items      []*collections.Item
	Item       *collections.Item
	Content    template.HTML
	Page       collections.TagPage
	Pager      pager
}

// pager links a tag page to its neighbours. Tag pages run oldest first,
// so the previous page holds older items.
type pager struct {
	Number   int // 1-based
	Total    int
	OlderURL string
	NewerURL string
}

func newPager(tag string, pageNumber, totalPages int) pager {
	pg := pager{Number: pageNumber + 1, Total: totalPages}
	if pageNumber > 0 {
		pg.OlderURL = TagURL(tag, pageNumber-1)
	}
	if pageNumber+1 < totalPages {
		pg.NewerURL = TagURL(tag, pageNumber+1)
	}
	return pg
}

// New parses the embedded templates. funcs must provide the helpers the
// templates call (url, prettyDate, dateToRfc3339, timeToRead); tagURL is
// added here.
func New(site SiteConfig, funcs template.FuncMap) (*Renderer, error) {
	all := template.FuncMap{
		"tagURL": TagURL,
	}
	for name, fn := range funcs {
		all[name] = fn
	}
	tmpl, err := template.New("pages").Funcs(all).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{site: site, tmpl: tmpl}, nil
}

// Home lists items under the site header along with the public tags.
func (r *Renderer) Home(items []*collections.Item, tags []string) templ.Component {
	return r.component("home", page{
		Site:   r.site,
		Meta:   PageMeta{Description: r.site.Description, URL: r.absURL("/"), OGType: "website"},
		JSONLD: template.JS(WebsiteJsonLD(r.site)),
		Tags:   tags,
		Items:  items,
	})
}

// Article renders a single content item with its Markdown body.
func (r *Renderer) Article(item *collections.Item) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		body, err := markdown.RenderString(item.Body)
		if err != nil {
			return fmt.Errorf("render %s: %w", item.Path, err)
		}
		return r.execute(w, "article", page{
			Site: r.site,
			Meta: PageMeta{
				Title:       item.Title,
				Description: item.Description,
				URL:         r.absURL(item.URL),
				OGType:      "article",
			},
			JSONLD:  template.JS(BlogPostingJsonLD(r.site, item)),
			Item:    item,
			Content: template.HTML(body),
		})
	})
}

// TagPage renders one page of a tag's items.
func (r *Renderer) TagPage(p collections.TagPage, totalPages int) templ.Component {
	return r.component("tagpage", page{
		Site:  r.site,
		Meta:  PageMeta{Title: p.TagName, URL: r.absURL(TagURL(p.TagName, p.PageNumber)), OGType: "website"},
		Page:  p,
		Pager: newPager(p.TagName, p.PageNumber, totalPages),
	})
}

// TagIndex lists every public tag.
func (r *Renderer) TagIndex(tags []string) templ.Component {
	return r.component("tagindex", page{
		Site: r.site,
		Meta: PageMeta{Title: "Tags", URL: r.absURL("/tags/"), OGType: "website"},
		Tags: tags,
	})
}

// NotFound renders the 404 page.
func (r *Renderer) NotFound() templ.Component {
	return r.component("notfound", page{
		Site: r.site,
		Meta: PageMeta{Title: "Not found", URL: r.absURL("/404.html"), OGType: "website"},
	})
}

func (r *Renderer) component(name string, data page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return r.execute(w, name, data)
	})
}

func (r *Renderer) execute(w io.Writer, name string, data page) error {
	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("execute %s: %w", name, err)
	}
	return nil
}

func (r *Renderer) absURL(p string) string {
	return buildURL(r.site.URL, strings.TrimSuffix(r.site.PathPrefix, "/"), p)
}

package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/eringen/pubsite/collections"
	"github.com/eringen/pubsite/slug"
)

// buildURL joins path segments onto a base URL. Directory-style results get
// a trailing slash; file names such as feed.xml are left alone.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") && !strings.Contains(path.Base(u.Path), ".") {
		u.Path += "/"
	}
	return u.String()
}

// TagSlug is the path segment used for tag in URLs.
func TagSlug(tag string) string {
	if s := slug.Make(tag); s != "" {
		return s
	}
	return url.PathEscape(tag)
}

// TagURL is the site-relative URL of a tag page. Page 0 lives at
// /tags/<tag>/, later pages at /tags/<tag>/<n+1>/.
func TagURL(tag string, pageNumber int) string {
	u := "/tags/" + TagSlug(tag) + "/"
	if pageNumber > 0 {
		u += strconv.Itoa(pageNumber+1) + "/"
	}
	return u
}

// JoinTags formats a tag slice as a comma-separated string.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      buildURL(cfg.URL, cfg.PathPrefix),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for an item.
func BlogPostingJsonLD(cfg SiteConfig, item *collections.Item) string {
	itemURL := buildURL(cfg.URL, cfg.PathPrefix, item.URL)
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    item.Title,
		"description": item.Description,
		"url":         itemURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   itemURL,
		},
	}
	if !item.Date.IsZero() {
		data["datePublished"] = item.Date.Format("2006-01-02")
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	var keywords []string
	for _, t := range item.Tags {
		if t != collections.ReservedTag {
			keywords = append(keywords, t)
		}
	}
	if len(keywords) > 0 {
		data["keywords"] = JoinTags(keywords)
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

package views

// SiteConfig holds the site-wide settings every page template sees.
type SiteConfig struct {
	Name        string // SITE_NAME
	URL         string // site root, e.g. https://example.com
	Description string // SITE_DESCRIPTION
	Author      string // SITE_AUTHOR
	PathPrefix  string // normalized, always "/" or "/x/"
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

package rewrite

import "strings"

// Placeholder tokens written into generated templates.
const (
	TokenPathPrefix = "{{PATH_PREFIX}}"
	TokenSiteRoot   = "{{SITE_ROOT}}"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvPathPrefix     = "ELEVENTY_PATH_PREFIX"
	EnvSiteRoot       = "ELEVENTY_SITE_ROOT"
	EnvSitemapBaseURL = "ELEVENTY_SITEMAP_BASE_URL"
	EnvOutputDir      = "ELEVENTY_OUTPUT_DIR"
	EnvExtensions     = "ELEVENTY_REWRITE_EXTENSIONS"
)

// Defaults used when the environment leaves a setting empty.
const (
	DefaultPathPrefix = "/"
	DefaultSiteRoot   = "http://localhost:3000"
	DefaultDir        = "_site"
)

// DefaultExtensions covers the service worker, the web manifest and the
// robots/sitemap/feed artifacts.
var DefaultExtensions = []string{".js", ".webmanifest", ".txt", ".xml"}

// Config is everything a rewrite run needs. Tokens maps a literal
// placeholder to its replacement.
type Config struct {
	Dir        string
	Extensions []string
	Tokens     map[string]string
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ConfigFromEnv reads the rewrite settings through lookup, applying the
// defaults for anything unset or empty.
func ConfigFromEnv(lookup LookupFunc) Config {
	get := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				return v
			}
		}
		return ""
	}

	prefix := get(EnvPathPrefix)
	if prefix == "" {
		prefix = DefaultPathPrefix
	}
	root := get(EnvSiteRoot, EnvSitemapBaseURL)
	if root == "" {
		root = DefaultSiteRoot
	}
	dir := get(EnvOutputDir)
	if dir == "" {
		dir = DefaultDir
	}
	exts := ParseExtensions(get(EnvExtensions))
	if len(exts) == 0 {
		exts = append([]string(nil), DefaultExtensions...)
	}

	return Config{
		Dir:        dir,
		Extensions: exts,
		Tokens: map[string]string{
			TokenPathPrefix: prefix,
			TokenSiteRoot:   root,
		},
	}
}

// ParseExtensions splits a comma separated extension list, adding the
// leading dot where it is missing.
func ParseExtensions(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if ext := normalizeExt(part); ext != "" {
			out = append(out, ext)
		}
	}
	return out
}

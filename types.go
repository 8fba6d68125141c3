package pubsite

import (
	"context"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/pubsite/collections"
)

// ViewFuncs holds the templ components the build renders pages with.
// The default set comes from the views package; callers may swap any of
// them through WithViews.
type ViewFuncs struct {
	Home     func(items []*collections.Item, tags []string) templ.Component
	Article  func(item *collections.Item) templ.Component
	TagPage  func(p collections.TagPage, totalPages int) templ.Component
	TagIndex func(tags []string) templ.Component
	NotFound func() templ.Component
}

// Hook runs after the output directory is fully written.
type Hook func(ctx context.Context, report *BuildReport) error

// BuildReport summarizes one build.
type BuildReport struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	OutputDir string

	Pages     int      // HTML pages rendered
	Files     int      // non-page files written or copied
	Rewritten int      // files changed by the placeholder rewrite
	Changed   []string // documents new or changed since the previous build

	TagList    []string
	Categories []collections.TagPage
}

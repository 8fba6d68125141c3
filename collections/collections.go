// Package collections builds the tag-derived navigation data for a site:
// the public tag list and the paginated per-tag category pages with
// prev/next links between items that share a tag.
package collections

import (
	"sort"
	"time"
)

// ReservedTag groups every article and is never listed publicly.
const ReservedTag = "posts"

// DefaultPageSize is the number of items on one category page.
const DefaultPageSize = 5

// Item is a single content page. Tags is nil when the source had no tags
// field at all. Prev and Next are filled by Categories and keyed by tag.
type Item struct {
	Path        string
	URL         string
	Title       string
	Description string
	Date        time.Time
	Tags        []string
	Body        string
	Data        map[string]any

	Prev map[string]*Item
	Next map[string]*Item
}

// HasTag reports whether the item carries tag.
func (it *Item) HasTag(tag string) bool {
	for _, t := range it.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// TagPage is one chunk of a tag's item sequence.
type TagPage struct {
	TagName    string
	PageNumber int
	Items      []*Item
}

// Sort orders items by date, oldest first, then by source path.
func Sort(items []*Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.Before(items[j].Date)
		}
		return items[i].Path < items[j].Path
	})
}

// TagList returns every tag used by items except ReservedTag, each once,
// in order of first appearance.
func TagList(items []*Item) []string {
	var out []string
	for _, tag := range distinctTags(items) {
		if tag == ReservedTag {
			continue
		}
		out = append(out, tag)
	}
	return out
}

// ByTag returns the items carrying tag, keeping their order.
func ByTag(items []*Item, tag string) []*Item {
	var out []*Item
	for _, it := range items {
		if it.Tags != nil && it.HasTag(tag) {
			out = append(out, it)
		}
	}
	return out
}

// Categories links the items of every tag (ReservedTag included) with
// per-tag prev/next pointers and chunks each sequence into pages of
// pageSize. A pageSize below 1 falls back to DefaultPageSize.
func Categories(items []*Item, pageSize int) []TagPage {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	var pages []TagPage
	for _, tag := range distinctTags(items) {
		seq := ByTag(items, tag)
		link(seq, tag)
		for n, chunk := range chunks(seq, pageSize) {
			pages = append(pages, TagPage{TagName: tag, PageNumber: n, Items: chunk})
		}
	}
	return pages
}

// PagesFor returns the pages belonging to tag.
func PagesFor(pages []TagPage, tag string) []TagPage {
	var out []TagPage
	for _, p := range pages {
		if p.TagName == tag {
			out = append(out, p)
		}
	}
	return out
}

func link(seq []*Item, tag string) {
	for i, it := range seq {
		if it.Prev == nil {
			it.Prev = make(map[string]*Item)
		}
		if it.Next == nil {
			it.Next = make(map[string]*Item)
		}
		delete(it.Prev, tag)
		delete(it.Next, tag)
		if i > 0 {
			it.Prev[tag] = seq[i-1]
		}
		if i < len(seq)-1 {
			it.Next[tag] = seq[i+1]
		}
	}
}

func chunks(seq []*Item, size int) [][]*Item {
	var out [][]*Item
	for start := 0; start < len(seq); start += size {
		end := min(start+size, len(seq))
		out = append(out, seq[start:end:end])
	}
	return out
}

func distinctTags(items []*Item) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, it := range items {
		if it.Tags == nil {
			continue
		}
		for _, tag := range it.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}

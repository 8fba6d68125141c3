package collections

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func item(path string, tags ...string) *Item {
	return &Item{Path: path, Tags: tags}
}

func TestTagListScenario(t *testing.T) {
	items := []*Item{
		item("a", "posts", "go"),
		item("b", "go"),
		item("c", "rust"),
	}

	require.Equal(t, []string{"go", "rust"}, TagList(items))
}

func TestTagListSkipsItemsWithoutTags(t *testing.T) {
	items := []*Item{
		{Path: "about"},
		item("a", "go", "go"),
		item("b"),
		item("c", "posts"),
	}

	require.Equal(t, []string{"go"}, TagList(items))
}

func TestCategoriesScenario(t *testing.T) {
	a := item("a", "posts", "go")
	b := item("b", "go")
	c := item("c", "rust")

	pages := Categories([]*Item{a, b, c}, DefaultPageSize)

	goPages := PagesFor(pages, "go")
	require.Len(t, goPages, 1)
	require.Equal(t, 0, goPages[0].PageNumber)
	require.Equal(t, []*Item{a, b}, goPages[0].Items)

	require.Same(t, b, a.Next["go"])
	require.Same(t, a, b.Prev["go"])
	require.NotContains(t, a.Prev, "go")
	require.NotContains(t, b.Next, "go")
}

func TestCategoriesIncludesReservedTag(t *testing.T) {
	a := item("a", "posts", "go")
	b := item("b", "posts")

	pages := Categories([]*Item{a, b}, DefaultPageSize)

	posts := PagesFor(pages, ReservedTag)
	require.Len(t, posts, 1)
	require.Equal(t, []*Item{a, b}, posts[0].Items)
	require.Same(t, b, a.Next[ReservedTag])
}

func TestCategoriesSingleItemHasNoNeighbours(t *testing.T) {
	solo := item("solo", "rust")

	pages := Categories([]*Item{solo}, DefaultPageSize)

	require.Len(t, pages, 1)
	require.Equal(t, []*Item{solo}, pages[0].Items)
	require.NotContains(t, solo.Prev, "rust")
	require.NotContains(t, solo.Next, "rust")
}

func TestCategoriesPagination(t *testing.T) {
	for _, n := range []int{1, 4, 5, 6, 10, 11, 23} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			var items []*Item
			for i := range n {
				items = append(items, item(fmt.Sprintf("p%02d", i), "go"))
			}

			pages := Categories(items, DefaultPageSize)

			want := (n + DefaultPageSize - 1) / DefaultPageSize
			require.Len(t, pages, want)

			var joined []*Item
			for i, p := range pages {
				require.Equal(t, i, p.PageNumber)
				require.NotEmpty(t, p.Items)
				require.LessOrEqual(t, len(p.Items), DefaultPageSize)
				joined = append(joined, p.Items...)
			}
			require.Equal(t, items, joined)

			for i, it := range items {
				if i == 0 {
					require.NotContains(t, it.Prev, "go")
				} else {
					require.Same(t, items[i-1], it.Prev["go"])
				}
				if i == n-1 {
					require.NotContains(t, it.Next, "go")
				} else {
					require.Same(t, items[i+1], it.Next["go"])
				}
			}
		})
	}
}

func TestCategoriesLinksAreScopedPerTag(t *testing.T) {
	a := item("a", "go", "rust")
	b := item("b", "go")
	c := item("c", "rust")

	Categories([]*Item{a, b, c}, DefaultPageSize)

	require.Same(t, b, a.Next["go"])
	require.Same(t, c, a.Next["rust"])
	require.Same(t, a, c.Prev["rust"])
	require.NotContains(t, b.Next, "go")
	require.NotContains(t, b.Prev, "rust")
}

func TestCategoriesRebuildDropsStaleLinks(t *testing.T) {
	a := item("a", "go")
	b := item("b", "go")
	Categories([]*Item{a, b}, DefaultPageSize)

	Categories([]*Item{a}, DefaultPageSize)

	require.NotContains(t, a.Next, "go")
}

func TestCategoriesInvalidPageSizeUsesDefault(t *testing.T) {
	var items []*Item
	for i := range 6 {
		items = append(items, item(fmt.Sprintf("p%d", i), "go"))
	}

	require.Len(t, Categories(items, 0), 2)
}

func TestSortByDateThenPath(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	items := []*Item{
		{Path: "c", Date: day(2)},
		{Path: "b", Date: day(1)},
		{Path: "a", Date: day(2)},
	}

	Sort(items)

	require.Equal(t, "b", items[0].Path)
	require.Equal(t, "a", items[1].Path)
	require.Equal(t, "c", items[2].Path)
}

package pubsite

import (
	"encoding/xml"
	"io"
	"time"

	"github.com/eringen/pubsite/collections"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// writeRSS writes the feed for posts, newest first.
func writeRSS(w io.Writer, cfg SiteConfig, posts []*collections.Item) error {
	items := make([]rssItem, 0, len(posts))
	for i := len(posts) - 1; i >= 0; i-- {
		p := posts[i]
		pubDate := ""
		if !p.Date.IsZero() {
			pubDate = p.Date.Format(time.RFC1123Z)
		}
		link := tokenURL(p.URL)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        link,
			Description: p.Description,
			PubDate:     pubDate,
			GUID:        link,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       cfg.Name,
			Link:        tokenURL("/"),
			Description: cfg.Description,
			Items:       items,
		},
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(feed)
}

// Package markdown renders article bodies to HTML with goldmark and exposes
// them as templ components.
package markdown

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// AnchorClass is set on the "#" permalink placed before every heading.
const AnchorClass = "direct-link a-anchor m-navigation__link"

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
		parser.WithAttribute(),
		parser.WithASTTransformers(util.Prioritized(headingAnchors{}, 999)),
	),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// Markdown returns a templ.Component that renders content as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Render(w, content)
	})
}

// Render writes the HTML for content to w.
func Render(w io.Writer, content string) error {
	return md.Convert([]byte(content), w)
}

// RenderString returns the HTML for content.
func RenderString(content string) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, content); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// headingAnchors prepends a "#" self link to every heading that has an id.
type headingAnchors struct{}

func (headingAnchors) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	var headings []*ast.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering {
			headings = append(headings, h)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	for _, h := range headings {
		raw, ok := h.AttributeString("id")
		if !ok {
			continue
		}
		id, ok := raw.([]byte)
		if !ok || len(id) == 0 {
			continue
		}
		link := ast.NewLink()
		link.Destination = append([]byte("#"), id...)
		link.SetAttributeString("class", []byte(AnchorClass))
		link.AppendChild(link, ast.NewString([]byte("#")))
		if first := h.FirstChild(); first != nil {
			h.InsertBefore(h, first, link)
		} else {
			h.AppendChild(h, link)
		}
	}
}

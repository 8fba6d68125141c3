package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRenderInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<p><strong>bold</strong></p>\n"},
		{"*italic*", "<p><em>italic</em></p>\n"},
		{"`code`", "<p><code>code</code></p>\n"},
		{"[link](https://example.com)", "<p><a href=\"https://example.com\">link</a></p>\n"},
	}
	for _, tt := range tests {
		got, err := RenderString(tt.input)
		if err != nil {
			t.Fatalf("RenderString(%q) error: %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("RenderString(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderHeadingAnchor(t *testing.T) {
	got, err := RenderString("## Getting Started")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `<h2 id="getting-started">`) {
		t.Errorf("heading should carry an id: %q", got)
	}
	want := `<a href="#getting-started" class="` + AnchorClass + `">#</a>Getting Started</h2>`
	if !strings.Contains(got, want) {
		t.Errorf("heading should start with a permalink:\n  got:  %q\n  want: %q", got, want)
	}
}

func TestRenderHeadingAttributes(t *testing.T) {
	got, err := RenderString("## Setup {#custom .lead}")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `id="custom"`) || !strings.Contains(got, `class="lead"`) {
		t.Errorf("heading attributes not applied: %q", got)
	}
	if !strings.Contains(got, `href="#custom"`) {
		t.Errorf("permalink should use the explicit id: %q", got)
	}
}

func TestRenderCodeBlock(t *testing.T) {
	got, err := RenderString("```go\nfmt.Println(\"<hi>\")\n```")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `<code class="language-go">`) {
		t.Errorf("code block should have language class: %q", got)
	}
	if !strings.Contains(got, "&lt;hi&gt;") {
		t.Errorf("code content should be escaped: %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	got, err := RenderString("| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "<table>") || !strings.Contains(got, "<td>1</td>") {
		t.Errorf("GFM table not rendered: %q", got)
	}
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown("# Title").Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Title</h1>") {
		t.Errorf("component output missing heading: %q", buf.String())
	}
}

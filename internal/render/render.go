// Package render turns markdown content into HTML or styled terminal output.
package render

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/gerunddev/parsercache/internal/file"
	"github.com/gerunddev/parsercache/internal/parser"
)

// DefaultWidth is the word wrap used for terminal output when none is set
const DefaultWidth = 120

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Footnote,
	),
	goldmark.WithRendererOptions(
		html.WithXHTML(),
	),
)

// ToHTML converts markdown to HTML
func ToHTML(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// HTML is a parser that replaces markdown content with rendered HTML.
// Put it after the front-matter parser so the YAML block is not rendered.
func HTML(f *file.File, next parser.Next) {
	out, err := ToHTML(f.Content)
	if err != nil {
		next(parser.Fail(err))
		return
	}
	next(parser.Replace(out))
}

// Terminal renders markdown for display in a terminal
func Terminal(content string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := renderer.Render(content)
	if err != nil {
		return "", fmt.Errorf("failed to render: %w", err)
	}
	return out, nil
}

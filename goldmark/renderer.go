// Package goldmark renders markdown to HTML using the goldmark library.
package goldmark

import (
	"bytes"
	"context"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/AustinOrphan/docview"
)

// Ensure Renderer implements docview.Renderer at compile time.
var _ docview.Renderer = (*Renderer)(nil)

// Renderer converts markdown documents to HTML. It enables GitHub
// Flavored Markdown so tables, strikethrough, task lists and autolinks
// render the way they do on github.com.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a markdown renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
			),
		),
	}
}

// Render converts markdown to HTML.
func (r *Renderer) Render(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", docview.WrapErrorf(err, docview.EINTERNAL, "rendering cancelled")
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", docview.WrapErrorf(err, docview.EINTERNAL, "converting markdown to html")
	}
	return buf.String(), nil
}

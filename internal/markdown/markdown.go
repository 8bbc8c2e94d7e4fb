// Package markdown renders problem solution text into HTML using goldmark.
// Solutions are written in lightweight Markdown (headings, bold, inline
// code, fenced command blocks), so the renderer enables GFM plus syntax
// highlighting for the fenced blocks and hard line breaks to match how
// the articles are authored (one step per line).
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
		),
	),
	goldmark.WithRendererOptions(
		// Article bodies are written with plain newlines between steps.
		html.WithHardWraps(),
	),
)

// ToHTML converts Markdown source into HTML. Raw HTML in the source is
// escaped, not passed through; solution text is admin-authored but
// served to the public site.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

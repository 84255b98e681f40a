package render

import (
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/rohmanhakim/site-crawler/internal/extractor"
)

// RenderPreview renders the canonical markdown back to HTML, producing a
// browsable preview of what the markdown artifact contains rather than of
// the original page.
func RenderPreview(doc extractor.Document) string {
	md := RenderMarkdown(doc)
	if md == "" {
		return ""
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags,
	})

	return string(markdown.ToHTML([]byte(md), p, renderer))
}

package render

import (
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"

	"github.com/rohmanhakim/site-crawler/pkg/failure"
)

// RenderGFM converts the isolated main-content DOM into GitHub-flavored
// markdown. Unlike the canonical markdown format, which renders the
// structured Document, this is a direct HTML-to-markdown conversion and
// preserves tables and inline formatting.
func RenderGFM(contentNode *html.Node) (string, failure.ClassifiedError) {
	if contentNode == nil {
		return "", &RenderError{
			Message:   "no content node to convert",
			Retryable: true,
			Cause:     ErrCauseConversionFail,
		}
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)

	md, err := conv.ConvertNode(contentNode)
	if err != nil {
		return "", &RenderError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseConversionFail,
		}
	}
	return string(md), nil
}

package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rohmanhakim/site-crawler/internal/extractor"
)

func TestRenderMarkdownSingleHeadline(t *testing.T) {
	doc := extractor.Document{
		Sections: []extractor.Section{
			{Headline: "Hi"},
		},
	}

	assert.Equal(t, "# **Hi**\n", RenderMarkdown(doc))
}

func TestRenderMarkdownEmptyDocument(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown(extractor.Document{}))
}

func TestRenderMarkdownHeadlinePassthrough(t *testing.T) {
	// A headline that already carries a heading marker is emitted as-is
	doc := extractor.Document{
		Sections: []extractor.Section{
			{Headline: "## Already a heading"},
		},
	}

	assert.Equal(t, "## Already a heading\n", RenderMarkdown(doc))
}

func TestRenderMarkdownFullSection(t *testing.T) {
	doc := extractor.Document{
		Title: "Widget Store",
		Sections: []extractor.Section{
			{
				Headline:    "Getting Started",
				Description: "Install the thing.",
				Content:     "Getting Started Install the thing.",
				Links: []extractor.LinkRef{
					{Text: "guide", URL: "https://example.org/guide"},
					{Text: "local", URL: "/docs/local"},
				},
				Subsections: []extractor.Subsection{
					{
						Headline:    "Step One",
						Description: "Download it.",
					},
				},
			},
		},
	}

	expected := strings.Join([]string{
		"Widget Store",
		"",
		"# **Getting Started**",
		"",
		"Install the thing.",
		"",
		"Getting Started Install the thing.",
		"",
		"[Redirect to https://example.org/guide](https://example.org/guide)",
		"",
		"[local](/docs/local)",
		"",
		"## Step One",
		"",
		"Download it.",
		"",
	}, "\n")

	assert.Equal(t, expected, RenderMarkdown(doc))
}

func TestRenderMarkdownContentEqualToDescriptionOmitted(t *testing.T) {
	doc := extractor.Document{
		Sections: []extractor.Section{
			{Description: "Same line.", Content: "Same line."},
		},
	}

	assert.Equal(t, "Same line.\n", RenderMarkdown(doc))
}

func TestRenderMarkdownReviews(t *testing.T) {
	doc := extractor.Document{
		Reviews: []extractor.Review{
			{
				Author:   "Dana",
				Date:     "2024-03-01",
				Platform: "Amazon",
				Rating:   "5 stars",
				Text:     "Great product.",
				ReadMore: true,
			},
			{
				Platform: "Amazon",
				Text:     "Short note.",
			},
		},
	}

	expected := strings.Join([]string{
		"# **Why We're #1 on Amazon**",
		"",
		"Dana",
		"2024-03-01",
		"on Amazon",
		"5 stars",
		"Great product.",
		"Read more",
		"",
		"on Amazon",
		"Short note.",
		"",
	}, "\n")

	assert.Equal(t, expected, RenderMarkdown(doc))
}

func TestRenderMarkdownMetadataTrailer(t *testing.T) {
	doc := extractor.Document{
		Metadata: extractor.Metadata{
			"title":       extractor.ScalarValue("Widget Store"),
			"og:image":    extractor.ListValue("a.png", "b.png"),
			"viewport":    extractor.ScalarValue("width=device-width, initial-scale=1"),
			"robots":      extractor.ScalarValue("noindex"),
			"description": extractor.ScalarValue("All the widgets."),
		},
	}

	expected := strings.Join([]string{
		"---",
		"",
		"title: Widget Store",
		"",
		"description: All the widgets.",
		"",
		"og:image: a.png",
		"og:image: b.png",
		"",
		"viewport: width=device-width, initial-scale=1",
		"",
	}, "\n")

	// robots is not on the allow-list and must not appear
	assert.Equal(t, expected, RenderMarkdown(doc))
}

func TestRenderMarkdownDeterministic(t *testing.T) {
	doc := extractor.Document{
		Title: "Page",
		Metadata: extractor.Metadata{
			"title":       extractor.ScalarValue("Page"),
			"description": extractor.ScalarValue("Desc"),
			"language":    extractor.ScalarValue("en-US"),
		},
		Sections: []extractor.Section{
			{Headline: "A"},
			{Headline: "B"},
		},
	}

	first := RenderMarkdown(doc)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, RenderMarkdown(doc))
	}
}

func TestRenderLinksText(t *testing.T) {
	assert.Equal(t, "", RenderLinksText(nil))
	assert.Equal(t,
		"https://example.org/a\nhttps://example.org/b\n",
		RenderLinksText([]string{"https://example.org/a", "https://example.org/b"}),
	)
}

func TestRenderJSONRoundTrips(t *testing.T) {
	doc := extractor.Document{
		Title:      "Page",
		ScrapeID:   "id-1",
		SourceURL:  "https://example.org/",
		StatusCode: 200,
	}

	out, err := RenderJSON(doc)
	assert.Nil(t, err)
	assert.Contains(t, out, `"scrape_id": "id-1"`)
	assert.Contains(t, out, `"status_code": 200`)
}

func TestRenderPreviewWrapsHeadings(t *testing.T) {
	doc := extractor.Document{
		Sections: []extractor.Section{
			{Headline: "Hi"},
		},
	}

	out := RenderPreview(doc)
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<strong>Hi</strong>")
}

func TestValidateFormats(t *testing.T) {
	assert.Nil(t, ValidateFormats([]string{
		FormatMarkdown, FormatJSON, FormatHTML, FormatRawHTML,
		FormatScreenshot, FormatScreenshotFullPage, FormatLinks,
		FormatPreview, FormatGFM,
	}))

	err := ValidateFormats([]string{FormatMarkdown, "pdf"})
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "pdf")
}

func TestExtension(t *testing.T) {
	cases := map[string]string{
		FormatMarkdown:           ".md",
		FormatGFM:                ".md",
		FormatHTML:               ".html",
		FormatRawHTML:            ".html",
		FormatPreview:            ".html",
		FormatJSON:               ".json",
		FormatLinks:              ".txt",
		FormatScreenshot:         ".png",
		FormatScreenshotFullPage: ".png",
	}
	for format, want := range cases {
		ext, ok := Extension(format)
		assert.True(t, ok, format)
		assert.Equal(t, want, ext, format)
	}

	_, ok := Extension("pdf")
	assert.False(t, ok)
}

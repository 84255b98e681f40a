package render

/*
	Responsibilities:
	- Render a Document into its canonical markdown representation
	- Keep the emission order fixed so identical Documents always produce
	  byte-identical output

	Emission order: title, sections (headline, description, content,
	links, subsections), reviews under a fixed banner, then a metadata
	trailer restricted to an allow-list.
*/

import (
	"fmt"
	"strings"

	"github.com/rohmanhakim/site-crawler/internal/extractor"
)

// reviewsBanner is the fixed heading emitted above the review blocks.
const reviewsBanner = "# **Why We're #1 on Amazon**"

// metadataAllowList names the metadata fields emitted in the trailer, in
// this order. List-valued fields expand to one line per value.
var metadataAllowList = []string{
	"title",
	"description",
	"og:title",
	"og:description",
	"og:image",
	"twitter:image",
	"language",
	"viewport",
}

// RenderMarkdown produces the markdown representation of doc. The result
// is trimmed of trailing whitespace and carries exactly one trailing
// newline; a Document that renders nothing produces the empty string.
func RenderMarkdown(doc extractor.Document) string {
	var lines []string

	if doc.Title != "" {
		lines = append(lines, doc.Title, "")
	}

	for _, section := range doc.Sections {
		if section.Headline != "" {
			if strings.HasPrefix(section.Headline, "#") {
				lines = append(lines, section.Headline, "")
			} else {
				lines = append(lines, fmt.Sprintf("# **%s**", section.Headline), "")
			}
		}

		if section.Description != "" {
			lines = append(lines, section.Description, "")
		}

		if section.Content != "" && section.Content != section.Description {
			lines = append(lines, section.Content, "")
		}

		lines = appendLinkLines(lines, section.Links)

		for _, subsection := range section.Subsections {
			if subsection.Headline != "" {
				lines = append(lines, "## "+subsection.Headline, "")
			}
			if subsection.Description != "" {
				lines = append(lines, subsection.Description, "")
			}
			if subsection.Content != "" && subsection.Content != subsection.Description {
				lines = append(lines, subsection.Content, "")
			}
			lines = appendLinkLines(lines, subsection.Links)
		}
	}

	if len(doc.Reviews) > 0 {
		lines = append(lines, reviewsBanner, "")

		for _, review := range doc.Reviews {
			var parts []string
			if review.Author != "" {
				parts = append(parts, review.Author)
			}
			if review.Date != "" {
				parts = append(parts, review.Date)
			}
			if review.Platform != "" {
				parts = append(parts, "on "+review.Platform)
			}
			if review.Rating != "" {
				parts = append(parts, review.Rating)
			}
			if review.Text != "" {
				parts = append(parts, review.Text)
				if review.ReadMore {
					parts = append(parts, "Read more")
				}
			}
			if len(parts) > 0 {
				lines = append(lines, parts...)
				lines = append(lines, "")
			}
		}
	}

	if len(doc.Metadata) > 0 {
		lines = append(lines, "---", "")

		for _, field := range metadataAllowList {
			value, ok := doc.Metadata[field]
			if !ok {
				continue
			}
			emitted := false
			for _, v := range value.Values() {
				if v == "" {
					continue
				}
				lines = append(lines, fmt.Sprintf("%s: %s", field, v))
				emitted = true
			}
			if emitted {
				lines = append(lines, "")
			}
		}
	}

	out := strings.TrimRight(strings.Join(lines, "\n"), " \t\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

func appendLinkLines(lines []string, links []extractor.LinkRef) []string {
	for _, link := range links {
		if strings.HasPrefix(link.URL, "http://") || strings.HasPrefix(link.URL, "https://") {
			lines = append(lines, fmt.Sprintf("[Redirect to %s](%s)", link.URL, link.URL))
		} else {
			lines = append(lines, fmt.Sprintf("[%s](%s)", link.Text, link.URL))
		}
		lines = append(lines, "")
	}
	return lines
}

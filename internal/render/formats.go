package render

/*
	Responsibilities:
	- Name the supported output formats and their file extensions
	- Validate requested format lists before traversal begins
	- Define the value type carried from rendering to storage
*/

import "strings"

const (
	FormatMarkdown           = "markdown"
	FormatJSON               = "json"
	FormatHTML               = "html"
	FormatRawHTML            = "rawHtml"
	FormatScreenshot         = "screenshot"
	FormatScreenshotFullPage = "screenshot@fullPage"
	FormatLinks              = "links"
	FormatPreview            = "preview"
	FormatGFM                = "gfm"
)

var extensions = map[string]string{
	FormatMarkdown:           ".md",
	FormatJSON:               ".json",
	FormatHTML:               ".html",
	FormatRawHTML:            ".html",
	FormatScreenshot:         ".png",
	FormatScreenshotFullPage: ".png",
	FormatLinks:              ".txt",
	FormatPreview:            ".html",
	FormatGFM:                ".md",
}

// Extension returns the artifact file extension for a format name.
func Extension(format string) (string, bool) {
	ext, ok := extensions[format]
	return ext, ok
}

// ValidateFormats rejects unknown format names. Validation faults surface
// before any traversal begins and are never retried.
func ValidateFormats(formats []string) *RenderError {
	var unknown []string
	for _, format := range formats {
		if _, ok := extensions[format]; !ok {
			unknown = append(unknown, format)
		}
	}
	if len(unknown) > 0 {
		return &RenderError{
			Message:   "unsupported: " + strings.Join(unknown, ", "),
			Retryable: false,
			Cause:     ErrCauseUnknownFormat,
		}
	}
	return nil
}

// FormatValue is one rendered representation of a page. Text formats fill
// Text; raster formats fill Binary.
type FormatValue struct {
	Text   string
	Binary []byte
}

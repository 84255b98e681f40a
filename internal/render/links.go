package render

import (
	"encoding/json"
	"strings"

	"github.com/rohmanhakim/site-crawler/internal/extractor"
	"github.com/rohmanhakim/site-crawler/pkg/failure"
)

// RenderLinksText renders the page-wide canonical link set one URL per
// line. An empty set produces the empty string.
func RenderLinksText(links []string) string {
	if len(links) == 0 {
		return ""
	}
	return strings.Join(links, "\n") + "\n"
}

// RenderJSON renders the structured Document as indented JSON.
func RenderJSON(doc extractor.Document) (string, failure.ClassifiedError) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", &RenderError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseConversionFail,
		}
	}
	return string(out), nil
}

package extractor

/*
	Responsibilities:
	- Turn a rendered page snapshot into a structured Document
	- Isolate main content with a readability pass before sectioning
	- Apply the pluggable boilerplate and review heuristics
	- Degrade to empty fields on malformed DOM instead of failing the page

	The extraction order is fixed: metadata, main-content isolation,
	sections, reviews, structured data. Every pass works on normalized
	text (trimmed, whitespace runs collapsed to a single space).
*/

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/google/uuid"

	"github.com/rohmanhakim/site-crawler/internal/metadata"
	"github.com/rohmanhakim/site-crawler/pkg/failure"
	"github.com/rohmanhakim/site-crawler/pkg/urlutil"
)

// accumulatingMetaKeys collect one value per repeated tag instead of
// overwriting. Everything else is last-write-wins.
var accumulatingMetaKeys = map[string]bool{
	"og:title":       true,
	"og:url":         true,
	"og:description": true,
	"og:image":       true,
}

type DocExtractor struct {
	metadataSink metadata.MetadataSink
	boilerplate  BoilerplateFilter
	reviews      ReviewClassifier
}

func NewDocExtractor(metadataSink metadata.MetadataSink) *DocExtractor {
	return &DocExtractor{
		metadataSink: metadataSink,
		boilerplate:  NewSubstringBoilerplateFilter(),
		reviews:      NewSubstringReviewClassifier(),
	}
}

// NewDocExtractorWithStrategies injects alternative heuristics. The
// traversal and rendering layers stay untouched when a matcher is swapped.
func NewDocExtractorWithStrategies(
	metadataSink metadata.MetadataSink,
	boilerplate BoilerplateFilter,
	reviews ReviewClassifier,
) *DocExtractor {
	return &DocExtractor{
		metadataSink: metadataSink,
		boilerplate:  boilerplate,
		reviews:      reviews,
	}
}

func (e *DocExtractor) Extract(snap PageSnapshot) (Extraction, failure.ClassifiedError) {
	fullDoc, err := goquery.NewDocumentFromReader(strings.NewReader(snap.HTML))
	if err != nil {
		return Extraction{}, &ExtractionError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseParseFail,
		}
	}

	meta := e.extractMetadata(fullDoc, snap)
	mainDoc := e.isolateMainContent(fullDoc, snap)

	doc := Document{
		Title:          meta["title"].First(),
		Metadata:       meta,
		Sections:       e.extractSections(mainDoc, snap),
		Reviews:        e.extractReviews(mainDoc),
		StructuredData: extractStructuredData(fullDoc),
		ScrapeID:       uuid.NewString(),
		SourceURL:      snap.ResolvedURL.String(),
		StatusCode:     snap.StatusCode,
	}
	if doc.StatusCode == 0 {
		doc.StatusCode = 200
	}

	return Extraction{
		Doc:         doc,
		ContentNode: mainDoc.Nodes[0],
		Links:       extractPageLinks(fullDoc, snap),
	}, nil
}

// isolateMainContent runs the readability pass and re-parses its output.
// Any failure degrades to the full document so extraction still produces
// a Document, just a noisier one.
func (e *DocExtractor) isolateMainContent(fullDoc *goquery.Document, snap PageSnapshot) *goquery.Document {
	article, err := readability.FromReader(strings.NewReader(snap.HTML), snap.ResolvedURL)
	if err == nil {
		mainDoc, perr := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
		if perr == nil {
			return mainDoc
		}
		err = perr
	}

	e.metadataSink.RecordError(
		time.Now(),
		"extractor",
		"isolate_main_content",
		metadata.CauseContentInvalid,
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, snap.ResolvedURL.String()),
		},
	)
	return fullDoc
}

func (e *DocExtractor) extractMetadata(fullDoc *goquery.Document, snap PageSnapshot) Metadata {
	meta := Metadata{}

	meta["url"] = ScalarValue(snap.ResolvedURL.String())

	language := "en-US"
	if lang, ok := fullDoc.Find("html").Attr("lang"); ok && lang != "" {
		language = lang
	}
	meta["language"] = ScalarValue(language)

	fullDoc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		name, ok := sel.Attr("name")
		if !ok || name == "" {
			name, _ = sel.Attr("property")
		}
		content, _ := sel.Attr("content")
		if name == "" || content == "" {
			return
		}
		if accumulatingMetaKeys[name] {
			meta[name] = meta[name].Append(content)
			return
		}
		meta[name] = ScalarValue(content)
	})

	fullDoc.Find("link[rel]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		rel, _ := sel.Attr("rel")
		if !relIsIcon(rel) {
			return true
		}
		if href, ok := sel.Attr("href"); ok && href != "" {
			meta["favicon"] = ScalarValue(href)
			return false
		}
		return true
	})

	if title := normalizeText(fullDoc.Find("title").First().Text()); title != "" {
		meta["title"] = ScalarValue(title)
	}

	if _, ok := meta["og:site_name"]; !ok {
		if title, ok := meta["title"]; ok {
			meta["og:site_name"] = title
		}
	}
	if _, ok := meta["og:type"]; !ok {
		meta["og:type"] = ScalarValue("website")
	}
	if _, ok := meta["viewport"]; !ok {
		meta["viewport"] = ScalarValue("width=device-width, initial-scale=1")
	}

	return meta
}

func (e *DocExtractor) extractSections(mainDoc *goquery.Document, snap PageSnapshot) []Section {
	sections := []Section{}

	mainDoc.Find("section, div, article").Each(func(_ int, sel *goquery.Selection) {
		if e.boilerplate.Drop(classAndID(sel)) {
			return
		}

		section := Section{
			Links:       []LinkRef{},
			Subsections: []Subsection{},
		}
		section.Headline = normalizeText(sel.Find("h1, h2, h3, h4, h5, h6").First().Text())
		section.Description = normalizeText(sel.Find("p, span").First().Text())

		if content := normalizeText(sel.Text()); content != "" && content != section.Description {
			section.Content = content
		}

		section.Links = extractLinkRefs(sel, snap)

		sel.ChildrenFiltered("div, section").Each(func(_ int, sub *goquery.Selection) {
			subsection := buildSubsection(sub, snap)
			if !subsection.Empty() {
				section.Subsections = append(section.Subsections, subsection)
			}
		})

		if !section.Empty() {
			sections = append(sections, section)
		}
	})

	return sections
}

func buildSubsection(sel *goquery.Selection, snap PageSnapshot) Subsection {
	subsection := Subsection{
		Links: []LinkRef{},
	}
	subsection.Headline = normalizeText(sel.Find("h1, h2, h3, h4, h5, h6").First().Text())
	subsection.Description = normalizeText(sel.Find("p, span").First().Text())

	if content := normalizeText(sel.Text()); content != "" && content != subsection.Description {
		subsection.Content = content
	}

	subsection.Links = extractLinkRefs(sel, snap)
	return subsection
}

func extractLinkRefs(sel *goquery.Selection, snap PageSnapshot) []LinkRef {
	links := []LinkRef{}
	sel.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		text := normalizeText(a.Text())
		if href == "" || text == "" {
			return
		}
		links = append(links, LinkRef{
			Text: text,
			URL:  resolveHref(href, snap),
		})
	})
	return links
}

func (e *DocExtractor) extractReviews(mainDoc *goquery.Document) []Review {
	reviews := []Review{}

	mainDoc.Find("[class]").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		if !e.reviews.IsContainer(class) {
			return
		}

		review := Review{Platform: e.reviews.Platform()}
		review.Author = firstTextByClass(sel, e.reviews.IsAuthor)
		review.Date = firstTextByClass(sel, e.reviews.IsDate)
		review.Rating = firstTextByClass(sel, e.reviews.IsRating)
		review.Verified = hasElementByClass(sel, e.reviews.IsVerified)

		if text := normalizeText(sel.Text()); text != "" {
			review.ReadMore = hasElementByClass(sel, e.reviews.IsReadMore)
			review.Text = text
		}

		if !review.Empty() {
			reviews = append(reviews, review)
		}
	})

	return reviews
}

func extractStructuredData(fullDoc *goquery.Document) []json.RawMessage {
	var blocks []json.RawMessage
	fullDoc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" || !json.Valid([]byte(raw)) {
			return
		}
		blocks = append(blocks, json.RawMessage(raw))
	})
	return blocks
}

// extractPageLinks collects every canonicalizable anchor target on the
// page, deduplicated and sorted for a stable frontier feed.
func extractPageLinks(fullDoc *goquery.Document, snap PageSnapshot) []string {
	seen := map[string]bool{}
	links := []string{}
	fullDoc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		canonical, ok := urlutil.Canonicalize(href, snap.ResolvedURL)
		if !ok {
			return
		}
		key := canonical.String()
		if seen[key] {
			return
		}
		seen[key] = true
		links = append(links, key)
	})
	sort.Strings(links)
	return links
}

func firstTextByClass(sel *goquery.Selection, match func(string) bool) string {
	var found string
	sel.Find("[class]").EachWithBreak(func(_ int, child *goquery.Selection) bool {
		class, _ := child.Attr("class")
		if !match(class) {
			return true
		}
		found = normalizeText(child.Text())
		return false
	})
	return found
}

func hasElementByClass(sel *goquery.Selection, match func(string) bool) bool {
	var found bool
	sel.Find("[class]").EachWithBreak(func(_ int, child *goquery.Selection) bool {
		class, _ := child.Attr("class")
		if match(class) {
			found = true
			return false
		}
		return true
	})
	return found
}

// resolveHref keeps absolute URLs as-is and resolves everything else
// against the page's resolved URL. Link refs carry the raw target, not
// the canonical form; canonicalization happens at the frontier boundary.
func resolveHref(href string, snap PageSnapshot) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	resolved, err := snap.ResolvedURL.Parse(href)
	if err != nil {
		return href
	}
	return resolved.String()
}

// relIsIcon matches any icon-flavored rel value: "icon", "shortcut icon",
// "apple-touch-icon".
func relIsIcon(rel string) bool {
	return strings.Contains(strings.ToLower(rel), "icon")
}

func classAndID(sel *goquery.Selection) string {
	class, _ := sel.Attr("class")
	id, _ := sel.Attr("id")
	return class + " " + id
}

// normalizeText trims and collapses whitespace runs to a single space.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

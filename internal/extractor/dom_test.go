package extractor

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohmanhakim/site-crawler/internal/metadata"
)

func mustParse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func snapshotFor(t *testing.T, rawURL, html string) PageSnapshot {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return PageSnapshot{HTML: html, ResolvedURL: u}
}

func newTestExtractor() *DocExtractor {
	return NewDocExtractor(&metadata.NoopSink{})
}

func TestExtractMetadata(t *testing.T) {
	// GIVEN a head with repeated og:image tags, a lang attribute, a
	// favicon link, and a twitter card tag
	html := `<!DOCTYPE html>
<html lang="de">
<head>
	<title>  Widget   Store  </title>
	<link rel="icon" href="/favicon.ico">
	<meta property="og:image" content="https://img.example.org/a.png">
	<meta property="og:image" content="https://img.example.org/b.png">
	<meta property="og:title" content="Widgets">
	<meta name="twitter:image" content="https://img.example.org/card.png">
	<meta name="description" content="All the widgets.">
</head>
<body></body>
</html>`
	snap := snapshotFor(t, "https://example.org/shop", html)
	e := newTestExtractor()

	meta := e.extractMetadata(mustParse(t, html), snap)

	// Accumulating keys collect one value per tag, in document order
	require.True(t, meta["og:image"].IsList())
	assert.Equal(t, []string{
		"https://img.example.org/a.png",
		"https://img.example.org/b.png",
	}, meta["og:image"].Values())
	assert.Equal(t, []string{"Widgets"}, meta["og:title"].Values())

	// Scalar keys are last-write-wins
	assert.Equal(t, "All the widgets.", meta["description"].First())
	assert.False(t, meta["description"].IsList())

	// Derived fields
	assert.Equal(t, "Widget Store", meta["title"].First())
	assert.Equal(t, "/favicon.ico", meta["favicon"].First())
	assert.Equal(t, "de", meta["language"].First())
	assert.Equal(t, "https://example.org/shop", meta["url"].First())

	// Defaults fill only missing keys
	assert.Equal(t, "Widget Store", meta["og:site_name"].First())
	assert.Equal(t, "website", meta["og:type"].First())
	assert.Equal(t, "width=device-width, initial-scale=1", meta["viewport"].First())
}

func TestExtractMetadataDefaultsWithoutHead(t *testing.T) {
	html := `<html><body><p>bare page</p></body></html>`
	snap := snapshotFor(t, "https://example.org/", html)
	e := newTestExtractor()

	meta := e.extractMetadata(mustParse(t, html), snap)

	assert.Equal(t, "en-US", meta["language"].First())
	assert.Equal(t, "website", meta["og:type"].First())
	assert.Equal(t, "width=device-width, initial-scale=1", meta["viewport"].First())
	_, hasTitle := meta["title"]
	assert.False(t, hasTitle)
	_, hasSiteName := meta["og:site_name"]
	assert.False(t, hasSiteName)
}

func TestExtractSections(t *testing.T) {
	// GIVEN a content tree with a nav block, a real section, and a
	// direct-child subsection
	html := `<html><body>
<div class="navbar"><a href="/home">Home</a></div>
<section class="intro">
	<h2> Getting   Started </h2>
	<p>Install the thing.</p>
	<a href="/docs/install">install guide</a>
	<a href="https://example.com/external">external</a>
	<div class="step">
		<h3>Step One</h3>
		<span>Download it.</span>
	</div>
</section>
</body></html>`
	snap := snapshotFor(t, "https://example.org/docs", html)
	e := newTestExtractor()

	sections := e.extractSections(mustParse(t, html), snap)

	// THEN the nav block is dropped; the section and the nested div each
	// produce an entry (the pass walks every block container)
	require.Len(t, sections, 2)

	intro := sections[0]
	assert.Equal(t, "Getting Started", intro.Headline)
	assert.Equal(t, "Install the thing.", intro.Description)
	assert.Contains(t, intro.Content, "Getting Started")
	require.Len(t, intro.Links, 2)
	assert.Equal(t, LinkRef{Text: "install guide", URL: "https://example.org/docs/install"}, intro.Links[0])
	assert.Equal(t, LinkRef{Text: "external", URL: "https://example.com/external"}, intro.Links[1])

	require.Len(t, intro.Subsections, 1)
	sub := intro.Subsections[0]
	assert.Equal(t, "Step One", sub.Headline)
	assert.Equal(t, "Download it.", sub.Description)

	// The nested div also surfaces as its own top-level entry
	assert.Equal(t, "Step One", sections[1].Headline)
}

func TestExtractSectionsDropsEmpty(t *testing.T) {
	html := `<html><body><div></div><div><h1>Kept</h1></div></body></html>`
	snap := snapshotFor(t, "https://example.org/", html)
	e := newTestExtractor()

	sections := e.extractSections(mustParse(t, html), snap)

	require.Len(t, sections, 1)
	assert.Equal(t, "Kept", sections[0].Headline)
}

func TestExtractSectionContentDistinctFromDescription(t *testing.T) {
	// GIVEN a section whose whole text equals its description
	html := `<html><body><div><p>Only line.</p></div></body></html>`
	snap := snapshotFor(t, "https://example.org/", html)
	e := newTestExtractor()

	sections := e.extractSections(mustParse(t, html), snap)

	require.Len(t, sections, 1)
	assert.Equal(t, "Only line.", sections[0].Description)
	assert.Equal(t, "", sections[0].Content)
}

func TestExtractReviews(t *testing.T) {
	html := `<html><body>
<div class="review-card">
	<span class="author-name">Dana</span>
	<span class="posted-date">2024-03-01</span>
	<span class="star-rating">5 stars</span>
	<span class="verified-badge">Verified Purchase</span>
	<p>Great product, would buy again.</p>
	<a class="read-more-link" href="#">Read more</a>
</div>
<div class="comment">
	<p>Short note.</p>
</div>
<div class="review empty-review"></div>
</body></html>`
	e := newTestExtractor()

	reviews := e.extractReviews(mustParse(t, html))

	require.Len(t, reviews, 2)

	first := reviews[0]
	assert.Equal(t, "Dana", first.Author)
	assert.Equal(t, "2024-03-01", first.Date)
	assert.Equal(t, "5 stars", first.Rating)
	assert.True(t, first.Verified)
	assert.True(t, first.ReadMore)
	assert.Equal(t, "Amazon", first.Platform)
	assert.Contains(t, first.Text, "Great product")

	second := reviews[1]
	assert.Equal(t, "", second.Author)
	assert.Equal(t, "Short note.", second.Text)
	assert.False(t, second.ReadMore)
}

func TestExtractStructuredData(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">{"@type": "Product", "name": "Widget"}</script>
<script type="application/ld+json">{not valid json</script>
</head><body></body></html>`

	blocks := extractStructuredData(mustParse(t, html))

	require.Len(t, blocks, 1)
	assert.Contains(t, string(blocks[0]), `"Widget"`)
}

func TestExtractPageLinks(t *testing.T) {
	// GIVEN anchors with duplicates, fragments, and pseudo-schemes
	html := `<html><body>
<a href="/b">b</a>
<a href="/a">a</a>
<a href="/a#section">a again</a>
<a href="javascript:void(0)">js</a>
<a href="mailto:x@example.org">mail</a>
</body></html>`
	snap := snapshotFor(t, "https://example.org/", html)

	links := extractPageLinks(mustParse(t, html), snap)

	// THEN links are canonical, deduplicated, and sorted
	assert.Equal(t, []string{
		"https://example.org/a",
		"https://example.org/b",
	}, links)
}

func TestExtractDocumentLevelFields(t *testing.T) {
	html := `<html lang="en"><head><title>Page</title></head><body><p>hello</p></body></html>`
	snap := snapshotFor(t, "https://example.org/page", html)
	e := newTestExtractor()

	extraction, err := e.Extract(snap)
	require.Nil(t, err)

	doc := extraction.Doc
	assert.Equal(t, "Page", doc.Title)
	assert.Equal(t, "https://example.org/page", doc.SourceURL)
	assert.Equal(t, 200, doc.StatusCode)
	assert.NotEmpty(t, doc.ScrapeID)
	assert.NotNil(t, extraction.ContentNode)
}

func TestExtractKeepsSnapshotStatus(t *testing.T) {
	html := `<html><body></body></html>`
	snap := snapshotFor(t, "https://example.org/gone", html)
	snap.StatusCode = 404
	e := newTestExtractor()

	extraction, err := e.Extract(snap)
	require.Nil(t, err)
	assert.Equal(t, 404, extraction.Doc.StatusCode)
}

func TestMetaValueJSON(t *testing.T) {
	meta := Metadata{
		"og:image":    ListValue("a.png", "b.png"),
		"description": ScalarValue("plain"),
	}

	list, err := meta["og:image"].MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `["a.png","b.png"]`, string(list))

	scalar, err := meta["description"].MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"plain"`, string(scalar))
}

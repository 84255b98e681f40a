package extractor

import (
	"encoding/json"
	"net/url"

	"golang.org/x/net/html"
)

// PageSnapshot is the raw material extraction works from: the rendered
// outer HTML, the URL the browser actually landed on after redirects, and
// the HTTP status when the driver can supply one (0 means unknown).
type PageSnapshot struct {
	HTML        string
	ResolvedURL *url.URL
	StatusCode  int
}

// MetaValue holds either a single meta tag value or an ordered list of
// values for keys that accumulate across repeated tags (og:title, og:url,
// og:description, og:image). It marshals as a JSON string or array
// accordingly.
type MetaValue struct {
	values []string
	list   bool
}

func ScalarValue(v string) MetaValue {
	return MetaValue{values: []string{v}}
}

func ListValue(vs ...string) MetaValue {
	values := make([]string, len(vs))
	copy(values, vs)
	return MetaValue{values: values, list: true}
}

// Append adds a value. The receiver is returned list-marked, so repeated
// tags for an accumulating key grow the list in document order.
func (m MetaValue) Append(v string) MetaValue {
	return MetaValue{values: append(m.values, v), list: true}
}

func (m MetaValue) IsList() bool {
	return m.list
}

// Values returns every value in document order. Scalar values yield a
// single-element slice.
func (m MetaValue) Values() []string {
	values := make([]string, len(m.values))
	copy(values, m.values)
	return values
}

func (m MetaValue) First() string {
	if len(m.values) == 0 {
		return ""
	}
	return m.values[0]
}

func (m MetaValue) MarshalJSON() ([]byte, error) {
	if m.list {
		return json.Marshal(m.values)
	}
	return json.Marshal(m.First())
}

type Metadata map[string]MetaValue

type LinkRef struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

type Subsection struct {
	Headline    string    `json:"headline"`
	Description string    `json:"description"`
	Links       []LinkRef `json:"links"`
	Content     string    `json:"content"`
}

func (s Subsection) Empty() bool {
	return s.Headline == "" && s.Description == "" && s.Content == "" && len(s.Links) == 0
}

type Section struct {
	Headline    string       `json:"headline"`
	Description string       `json:"description"`
	Links       []LinkRef    `json:"links"`
	Content     string       `json:"content"`
	Subsections []Subsection `json:"subsections"`
}

func (s Section) Empty() bool {
	return s.Headline == "" && s.Description == "" && s.Content == "" &&
		len(s.Links) == 0 && len(s.Subsections) == 0
}

type Review struct {
	Author   string `json:"author"`
	Date     string `json:"date"`
	Text     string `json:"text"`
	Platform string `json:"platform"`
	Rating   string `json:"rating"`
	ReadMore bool   `json:"read_more"`
	Verified bool   `json:"verified"`
}

// Empty ignores the platform default, which is always present and would
// otherwise keep every matched container alive.
func (r Review) Empty() bool {
	return r.Author == "" && r.Date == "" && r.Rating == "" && r.Text == ""
}

// Document is the structured representation of one visited page,
// independent of any output format. Built fresh per page visit; immutable
// once returned by the extractor.
type Document struct {
	Title          string            `json:"title"`
	Metadata       Metadata          `json:"metadata"`
	Sections       []Section         `json:"sections"`
	Reviews        []Review          `json:"reviews"`
	StructuredData []json.RawMessage `json:"structured_data,omitempty"`
	ScrapeID       string            `json:"scrape_id"`
	SourceURL      string            `json:"source_url"`
	StatusCode     int               `json:"status_code"`
}

// Extraction bundles the Document with the artifacts later pipeline stages
// need: the main-content DOM root for HTML-to-markdown conversion and the
// canonical page-wide link set that feeds the frontier.
type Extraction struct {
	Doc         Document
	ContentNode *html.Node
	Links       []string
}

package urlutil

import (
	"net/url"
	"regexp"
	"strings"
)

// rejectedSchemes are pseudo-scheme prefixes that can never name a crawlable
// page. A raw href starting with any of these is rejected before resolution.
var rejectedSchemes = []string{"javascript:", "mailto:", "tel:", "data:"}

// Canonicalize applies a deterministic normalization to a raw href, producing
// the canonical form used as the dedup/equality key throughout traversal.
//
// Rules:
//   - Pseudo-schemes (javascript:, mailto:, tel:, data:) and bare fragments
//     ("#...") are rejected
//   - Relative references are resolved against base (the page's resolved URL)
//   - The fragment is stripped
//   - The query string is kept verbatim
//   - Scheme and host are lowercased; path and query case is preserved
//   - Only http and https survive canonicalization
//
// Properties:
//   - Pure: no state, no memory
//   - Deterministic: same input always produces same output
//   - Idempotent: Canonicalize(Canonicalize(u).String(), nil) == Canonicalize(u, base)
//   - Context-free: does not depend on crawl history
//
// Two URLs are the same frontier node iff their canonical forms are
// byte-identical.
func Canonicalize(raw string, base *url.URL) (*url.URL, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") {
		return nil, false
	}
	for _, scheme := range rejectedSchemes {
		if strings.HasPrefix(raw, scheme) {
			return nil, false
		}
	}

	var resolved *url.URL
	var err error
	if base != nil {
		resolved, err = base.Parse(raw)
	} else {
		resolved, err = url.Parse(raw)
	}
	if err != nil {
		return nil, false
	}

	// Copy before mutating: base.Parse may return an alias of base.
	canonical := *resolved

	canonical.Scheme = lowerASCII(canonical.Scheme)
	canonical.Host = lowerASCII(canonical.Host)

	if canonical.Scheme != "http" && canonical.Scheme != "https" {
		return nil, false
	}
	if canonical.Host == "" {
		return nil, false
	}

	canonical.Fragment = ""
	canonical.RawFragment = ""

	return &canonical, true
}

// SameHost reports whether the candidate host belongs to the seed's domain
// scope. Comparison is exact host equality; when followSubdomains is set,
// hosts ending in "."+seedHost also pass. Hosts are expected in canonical
// (lowercased) form.
func SameHost(seedHost, host string, followSubdomains bool) bool {
	if host == seedHost {
		return true
	}
	if followSubdomains {
		return strings.HasSuffix(host, "."+seedHost)
	}
	return false
}

// Filter is an optional caller-supplied pattern tested against the canonical
// URL string. URLs failing the pattern are excluded from traversal.
// The zero Filter matches everything.
type Filter struct {
	re *regexp.Regexp
}

// NewFilter compiles a filter pattern. An invalid pattern is a validation
// fault surfaced before any traversal begins.
func NewFilter(pattern string) (Filter, error) {
	if pattern == "" {
		return Filter{}, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Filter{}, err
	}
	return Filter{re: re}, nil
}

func (f Filter) Matches(canonical string) bool {
	if f.re == nil {
		return true
	}
	return f.re.MatchString(canonical)
}

// lowerASCII converts ASCII characters to lowercase without allocating
// when the input is already lowercase.
func lowerASCII(s string) string {
	var needsLower bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

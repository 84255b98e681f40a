package frontier

import (
	"net/url"

	"github.com/rohmanhakim/site-crawler/pkg/urlutil"
)

// Entry is one frontier node: a canonical URL and its hop distance from
// the seed.
type Entry struct {
	url   *url.URL
	depth int
}

func (e Entry) URL() *url.URL {
	return e.url
}

func (e Entry) Depth() int {
	return e.depth
}

// Policy gathers the admission rules applied when a discovered link is
// offered to the frontier. The frontier is the only component that
// evaluates them; callers offer raw hrefs and never pre-filter.
type Policy struct {
	maxDepth         int
	sameDomainOnly   bool
	followSubdomains bool
	seedHost         string
	filter           urlutil.Filter
}

func NewPolicy(
	maxDepth int,
	sameDomainOnly bool,
	followSubdomains bool,
	seedHost string,
	filter urlutil.Filter,
) Policy {
	return Policy{
		maxDepth:         maxDepth,
		sameDomainOnly:   sameDomainOnly,
		followSubdomains: followSubdomains,
		seedHost:         seedHost,
		filter:           filter,
	}
}

// admits evaluates depth, domain scope, and filter pattern for a
// canonical candidate. Dedup is not a policy concern; the frontier owns
// the visited set.
func (p Policy) admits(candidate *url.URL, depth int) bool {
	if depth > p.maxDepth {
		return false
	}
	if p.sameDomainOnly && !urlutil.SameHost(p.seedHost, candidate.Host, p.followSubdomains) {
		return false
	}
	return p.filter.Matches(candidate.String())
}

package frontier

/*
	Frontier Responsibilities
	- Maintain BFS ordering
	- Deduplicate URLs on admission, not on dequeue
	- Track crawl depth
	- Enforce depth, domain-scope, and filter admission policy
	- Pace dequeues through the shared rate gate
	- Knows nothing about:
		- rendering
		- extraction
		- markdown
		- storage

	It is a data structure + policy module, not a pipeline executor.
*/

import (
	"context"
	"net/url"
	"sync"

	"github.com/rohmanhakim/site-crawler/pkg/limiter"
	"github.com/rohmanhakim/site-crawler/pkg/urlutil"
)

type Frontier struct {
	mu      sync.Mutex
	queue   *FIFOQueue[Entry]
	visited Set[string]
	policy  Policy
	gate    limiter.RateLimiter
}

func NewFrontier(policy Policy, gate limiter.RateLimiter) *Frontier {
	return &Frontier{
		queue:   NewFIFOQueue[Entry](),
		visited: NewSet[string](),
		policy:  policy,
		gate:    gate,
	}
}

// Seed enqueues the starting URL at depth zero. The seed bypasses the
// admission policy; an invalid seed must be rejected by the caller's
// validation before the frontier exists.
func (f *Frontier) Seed(u *url.URL) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.visited.Add(u.String())
	f.queue.Enqueue(Entry{url: u, depth: 0})
}

// Offer canonicalizes a discovered href and admits it at fromDepth+1 if
// it passes depth, domain, filter, and dedup checks. URLs are marked
// visited on admission, so a URL can never be queued twice even before
// its first dequeue. Returns whether the URL was admitted.
func (f *Frontier) Offer(raw string, base *url.URL, fromDepth int) bool {
	canonical, ok := urlutil.Canonicalize(raw, base)
	if !ok {
		return false
	}

	depth := fromDepth + 1
	if !f.policy.admits(canonical, depth) {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	key := canonical.String()
	if f.visited.Contains(key) {
		return false
	}
	f.visited.Add(key)
	f.queue.Enqueue(Entry{url: canonical, depth: depth})
	return true
}

// Dequeue pops the next entry in strict FIFO order, waiting on the rate
// gate first. An empty frontier returns immediately with ok=false without
// touching the gate; emptiness is the normal terminal state, not an
// error.
func (f *Frontier) Dequeue(ctx context.Context) (Entry, bool) {
	f.mu.Lock()
	empty := f.queue.Size() == 0
	f.mu.Unlock()
	if empty {
		return Entry{}, false
	}

	if err := f.gate.Wait(ctx); err != nil {
		return Entry{}, false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Dequeue()
}

// VisitedCount reports how many distinct canonical URLs have been
// admitted, including those still queued.
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visited.Size()
}

// Pending reports how many admitted entries await dequeue.
func (f *Frontier) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Size()
}

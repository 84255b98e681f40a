package scheduler

import "github.com/rohmanhakim/site-crawler/internal/render"

// PageResult is the outcome of one page visit. A failed visit carries the
// failure message in Err and no formats; per-page failures are terminal
// outcomes, never raised to the crawl level.
type PageResult struct {
	Depth   int
	Formats map[string]render.FormatValue
	Err     string
}

// CrawlResult maps each visited canonical URL to its page outcome.
type CrawlResult struct {
	Pages map[string]PageResult
}

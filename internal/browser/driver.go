package browser

/*
	Responsibilities:
	- Define the boundary between the crawl pipeline and the rendering engine
	- Expose navigation, DOM export, scripting, scrolling, input, and
	  viewport capture as engine-agnostic operations
	- Report engine failures as classified errors so callers can decide
	  between skipping a page and aborting the crawl

	The pipeline never talks to a browser library directly. Everything above
	this interface can be tested against a fake driver.
*/

import (
	"context"
	"image"

	"github.com/rohmanhakim/site-crawler/pkg/failure"
)

type Driver interface {
	// Navigate loads the target URL and blocks until the page settles.
	Navigate(ctx context.Context, url string) failure.ClassifiedError

	// CurrentURL returns the resolved URL after redirects.
	CurrentURL(ctx context.Context) (string, failure.ClassifiedError)

	// Source exports the outer HTML of the rendered document.
	Source(ctx context.Context) (string, failure.ClassifiedError)

	// ExecuteScript evaluates js in the page and unmarshals the result
	// into out. Pass a nil out to discard the result.
	ExecuteScript(ctx context.Context, js string, out any) failure.ClassifiedError

	// ScrollTo scrolls the viewport to the vertical offset y and waits for
	// the page to settle before returning.
	ScrollTo(ctx context.Context, y int) failure.ClassifiedError

	// CaptureViewport screenshots the currently visible viewport.
	CaptureViewport(ctx context.Context) (image.Image, failure.ClassifiedError)

	Click(ctx context.Context, selector string) failure.ClassifiedError
	Write(ctx context.Context, selector string, text string) failure.ClassifiedError
	Press(ctx context.Context, key string) failure.ClassifiedError

	// WaitVisible blocks until the selector matches a visible element.
	WaitVisible(ctx context.Context, selector string) failure.ClassifiedError

	Close() failure.ClassifiedError
}

// PageMetrics are the dimensions the full-page compositor plans its
// scroll-and-capture passes from. They are measured once per page, before
// the first capture.
type PageMetrics struct {
	ScrollWidth    int
	ScrollHeight   int
	ViewportHeight int
}

const pageMetricsScript = `({
	scrollWidth: document.body.scrollWidth,
	scrollHeight: document.body.scrollHeight,
	viewportHeight: window.innerHeight,
})`

type pageMetricsResult struct {
	ScrollWidth    int `json:"scrollWidth"`
	ScrollHeight   int `json:"scrollHeight"`
	ViewportHeight int `json:"viewportHeight"`
}

// Metrics measures the rendered page via the driver's script channel.
func Metrics(ctx context.Context, d Driver) (PageMetrics, failure.ClassifiedError) {
	var result pageMetricsResult
	if err := d.ExecuteScript(ctx, pageMetricsScript, &result); err != nil {
		return PageMetrics{}, err
	}
	return PageMetrics{
		ScrollWidth:    result.ScrollWidth,
		ScrollHeight:   result.ScrollHeight,
		ViewportHeight: result.ViewportHeight,
	}, nil
}

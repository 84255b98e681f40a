package scheduler

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/url"
	"time"

	"github.com/rohmanhakim/site-crawler/internal/browser"
	"github.com/rohmanhakim/site-crawler/internal/config"
	"github.com/rohmanhakim/site-crawler/internal/extractor"
	"github.com/rohmanhakim/site-crawler/internal/frontier"
	"github.com/rohmanhakim/site-crawler/internal/metadata"
	"github.com/rohmanhakim/site-crawler/internal/render"
	"github.com/rohmanhakim/site-crawler/internal/stitch"
	"github.com/rohmanhakim/site-crawler/internal/storage"
	"github.com/rohmanhakim/site-crawler/pkg/failure"
	"github.com/rohmanhakim/site-crawler/pkg/limiter"
	"github.com/rohmanhakim/site-crawler/pkg/urlutil"
)

/*
 Scheduler is the sole control-plane authority of the crawl.

 Determinism and admission guarantees:
 - Scheduler is the ONLY component that offers URLs to the frontier.
 - The frontier owns admission policy (depth, domain scope, filter,
   dedup); the scheduler owns sequencing and abort decisions.
 - Pipeline stages may detect and classify failure, but must never decide
   retry, continuation, or abortion.
 - No retries anywhere: a failed page visit is recorded once and the
   crawl moves on.

 The browser driver is a single shared mutable resource, so the crawl
 loop is single-threaded with respect to driver use. The rate gate inside
 the frontier is the only intentional suspension point besides scripted
 wait actions.

 Metadata emission is observational only and MUST NOT influence
 scheduling or crawl termination.
*/

type Scheduler struct {
	metadataSink   metadata.MetadataSink
	crawlFinalizer metadata.CrawlFinalizer
	driver         browser.Driver
	docExtractor   *extractor.DocExtractor
	storageSink    storage.Sink
	cfg            config.Config
}

func NewScheduler(cfg config.Config) *Scheduler {
	recorder := metadata.NewRecorder("single-session-worker")
	session := browser.NewSession(browser.Options{
		Headless:     cfg.Headless(),
		UserAgent:    cfg.UserAgent(),
		WindowWidth:  cfg.WindowWidth(),
		WindowHeight: cfg.WindowHeight(),
		SettleDelay:  cfg.SettleDelay(),
	})

	var sink storage.Sink
	if !cfg.DryRun() {
		sink = storage.NewLocalSink(cfg.OutputDir(), recorder)
	}

	return &Scheduler{
		metadataSink:   recorder,
		crawlFinalizer: recorder,
		driver:         session,
		docExtractor:   extractor.NewDocExtractor(recorder),
		storageSink:    sink,
		cfg:            cfg,
	}
}

// NewSchedulerWithDeps creates a Scheduler with injected dependencies for
// testing. A nil storageSink keeps all results in memory.
func NewSchedulerWithDeps(
	cfg config.Config,
	driver browser.Driver,
	metadataSink metadata.MetadataSink,
	crawlFinalizer metadata.CrawlFinalizer,
	storageSink storage.Sink,
) *Scheduler {
	return &Scheduler{
		metadataSink:   metadataSink,
		crawlFinalizer: crawlFinalizer,
		driver:         driver,
		docExtractor:   extractor.NewDocExtractor(metadataSink),
		storageSink:    storageSink,
		cfg:            cfg,
	}
}

// Crawl runs the traversal to frontier exhaustion. Validation faults
// (invalid seed, filter pattern, or format name) surface before any page
// is visited. A fatal driver failure aborts the crawl; everything else is
// a per-URL outcome.
func (s *Scheduler) Crawl(ctx context.Context) (CrawlResult, error) {
	crawlStartTime := time.Now()

	result := CrawlResult{Pages: map[string]PageResult{}}
	var totalErrors int
	var totalArtifacts int
	var crawlFrontier *frontier.Frontier

	defer func() {
		totalPages := 0
		if crawlFrontier != nil {
			totalPages = crawlFrontier.VisitedCount()
		}
		s.crawlFinalizer.RecordFinalCrawlStats(
			totalPages,
			totalErrors,
			totalArtifacts,
			time.Since(crawlStartTime),
		)
	}()

	// 1. Validate requested formats
	if err := render.ValidateFormats(s.cfg.OutputFormats()); err != nil {
		s.recordValidationError("render.ValidateFormats", err.Error())
		return CrawlResult{}, err
	}

	// 2. Validate and canonicalize the seed URL
	seed, ok := urlutil.Canonicalize(s.cfg.SeedURL(), nil)
	if !ok {
		err := fmt.Errorf("invalid seed URL: %q", s.cfg.SeedURL())
		s.recordValidationError("seed validation", err.Error())
		return CrawlResult{}, err
	}

	// 3. Compile the traversal filter
	filter, ferr := urlutil.NewFilter(s.cfg.FilterPattern())
	if ferr != nil {
		err := fmt.Errorf("invalid filter pattern %q: %w", s.cfg.FilterPattern(), ferr)
		s.recordValidationError("filter validation", err.Error())
		return CrawlResult{}, err
	}

	// 4. Build the frontier and seed it
	policy := frontier.NewPolicy(
		s.cfg.MaxDepth(),
		s.cfg.SameDomainOnly(),
		s.cfg.FollowSubdomains(),
		seed.Host,
		filter,
	)
	crawlFrontier = frontier.NewFrontier(policy, limiter.NewIntervalLimiter(s.cfg.RateLimit()))
	crawlFrontier.Seed(seed)

	defer s.driver.Close()

	// While the frontier still has URLs to crawl...
	for {
		entry, ok := crawlFrontier.Dequeue(ctx)
		if !ok {
			break
		}

		pageResult, artifacts, fatal := s.visitPage(ctx, crawlFrontier, entry)
		result.Pages[entry.URL().String()] = pageResult
		totalArtifacts += artifacts
		if pageResult.Err != "" {
			totalErrors++
		}
		if fatal != nil {
			return result, fatal
		}
	}

	return result, nil
}

// visitPage runs the per-URL pipeline: navigate, scripted actions,
// snapshot, extract, render, offer links, persist. It returns the page
// outcome, the artifact count, and a non-nil error only when the crawl
// cannot continue.
func (s *Scheduler) visitPage(
	ctx context.Context,
	crawlFrontier *frontier.Frontier,
	entry frontier.Entry,
) (PageResult, int, error) {
	pageURL := entry.URL().String()
	fetchStart := time.Now()

	// 5. Navigate
	if err := s.driver.Navigate(ctx, pageURL); err != nil {
		return s.failPage(entry, "navigate", err)
	}

	// 6. Scripted interactions, if configured for this URL
	if actions := s.cfg.ActionsPerURL()[pageURL]; len(actions) > 0 {
		if err := browser.RunActions(ctx, s.driver, actions, s.metadataSink); err != nil {
			return s.failPage(entry, "run_actions", err)
		}
	}

	// 7. Snapshot the rendered page
	resolvedRaw, err := s.driver.CurrentURL(ctx)
	if err != nil {
		return s.failPage(entry, "resolve_url", err)
	}
	resolved, perr := url.Parse(resolvedRaw)
	if perr != nil || resolvedRaw == "" {
		resolved = entry.URL()
	}

	html, err := s.driver.Source(ctx)
	if err != nil {
		return s.failPage(entry, "snapshot", err)
	}

	s.metadataSink.RecordFetch(
		resolved.String(),
		0,
		time.Since(fetchStart),
		"text/html",
		entry.Depth(),
	)

	// 8. Extract the structured document
	extraction, err := s.docExtractor.Extract(extractor.PageSnapshot{
		HTML:        html,
		ResolvedURL: resolved,
	})
	if err != nil {
		return s.failPage(entry, "extract", err)
	}

	// 9. Offer discovered links back to the frontier
	for _, link := range extraction.Links {
		crawlFrontier.Offer(link, resolved, entry.Depth())
	}

	// 10. Render the requested formats
	pageResult := PageResult{
		Depth:   entry.Depth(),
		Formats: map[string]render.FormatValue{},
	}
	for _, format := range s.cfg.OutputFormats() {
		value, rerr := s.renderFormat(ctx, format, extraction, html)
		if rerr != nil {
			return s.failPage(entry, "render "+format, rerr)
		}
		pageResult.Formats[format] = value
	}

	// 11. Persist artifacts
	artifacts := 0
	if s.storageSink != nil {
		for format, value := range pageResult.Formats {
			if _, werr := s.storageSink.Write(pageURL, format, value); werr != nil {
				// recoverable → log already done by the sink → move on
				continue
			}
			artifacts++
		}
	}

	return pageResult, artifacts, nil
}

func (s *Scheduler) renderFormat(
	ctx context.Context,
	format string,
	extraction extractor.Extraction,
	html string,
) (render.FormatValue, failure.ClassifiedError) {
	switch format {
	case render.FormatMarkdown:
		return render.FormatValue{Text: render.RenderMarkdown(extraction.Doc)}, nil

	case render.FormatJSON:
		text, err := render.RenderJSON(extraction.Doc)
		if err != nil {
			return render.FormatValue{}, err
		}
		return render.FormatValue{Text: text}, nil

	case render.FormatHTML, render.FormatRawHTML:
		return render.FormatValue{Text: html}, nil

	case render.FormatLinks:
		return render.FormatValue{Text: render.RenderLinksText(extraction.Links)}, nil

	case render.FormatPreview:
		return render.FormatValue{Text: render.RenderPreview(extraction.Doc)}, nil

	case render.FormatGFM:
		text, err := render.RenderGFM(extraction.ContentNode)
		if err != nil {
			return render.FormatValue{}, err
		}
		return render.FormatValue{Text: text}, nil

	case render.FormatScreenshot:
		img, err := s.driver.CaptureViewport(ctx)
		if err != nil {
			return render.FormatValue{}, err
		}
		data, eerr := stitch.EncodePNG(img)
		if eerr != nil {
			return render.FormatValue{}, eerr
		}
		return render.FormatValue{Binary: data}, nil

	case render.FormatScreenshotFullPage:
		return s.renderFullPageScreenshot(ctx)

	default:
		return render.FormatValue{}, &render.RenderError{
			Message:   "unsupported: " + format,
			Retryable: false,
			Cause:     render.ErrCauseUnknownFormat,
		}
	}
}

// renderFullPageScreenshot measures the page once, then composites
// scroll-by-scroll captures into a canvas of exactly the measured size.
func (s *Scheduler) renderFullPageScreenshot(ctx context.Context) (render.FormatValue, failure.ClassifiedError) {
	metrics, err := browser.Metrics(ctx, s.driver)
	if err != nil {
		return render.FormatValue{}, err
	}

	capture := func(ctx context.Context, yOffset int) (image.Image, failure.ClassifiedError) {
		if err := s.driver.ScrollTo(ctx, yOffset); err != nil {
			return nil, err
		}
		return s.driver.CaptureViewport(ctx)
	}

	canvas, err := stitch.Stitch(
		ctx,
		capture,
		metrics.ScrollWidth,
		metrics.ScrollHeight,
		metrics.ViewportHeight,
	)
	if err != nil {
		return render.FormatValue{}, err
	}

	data, err := stitch.EncodePNG(canvas)
	if err != nil {
		return render.FormatValue{}, err
	}
	return render.FormatValue{Binary: data}, nil
}

// failPage converts a pipeline failure into a per-page outcome. Only a
// dead browser session additionally aborts the crawl, since no later page
// can succeed on it; every other failure stays contained to its URL.
func (s *Scheduler) failPage(
	entry frontier.Entry,
	action string,
	err failure.ClassifiedError,
) (PageResult, int, error) {
	s.recordPageError(entry, action, err)

	pageResult := PageResult{
		Depth: entry.Depth(),
		Err:   err.Error(),
	}
	if crawlFatal(err) {
		return pageResult, 0, err
	}
	return pageResult, 0, nil
}

// crawlFatal reports whether the failure killed the shared browser
// session. Extraction, rendering, and stitching failures are never crawl
// fatal, whatever their severity: non-retryable there means "do not
// retry this page", not "stop crawling".
func crawlFatal(err failure.ClassifiedError) bool {
	var driverErr *browser.DriverError
	if !errors.As(err, &driverErr) {
		return false
	}
	return driverErr.Severity() == failure.SeverityFatal
}

func (s *Scheduler) recordPageError(entry frontier.Entry, action string, err failure.ClassifiedError) {
	s.metadataSink.RecordError(
		time.Now(),
		"scheduler",
		action,
		metadata.CauseDriverFailure,
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, entry.URL().String()),
			metadata.NewAttr(metadata.AttrDepth, fmt.Sprintf("%d", entry.Depth())),
		},
	)
}

func (s *Scheduler) recordValidationError(action string, details string) {
	s.metadataSink.RecordError(
		time.Now(),
		"scheduler",
		action,
		metadata.CauseContentInvalid,
		details,
		[]metadata.Attribute{},
	)
}

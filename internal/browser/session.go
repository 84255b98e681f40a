package browser

/*
	Responsibilities:
	- Own the lifecycle of a single headless Chrome session
	- Lazily open the browser on first use, reuse it across pages
	- Translate chromedp failures into classified driver errors

	State machine:

	  StateClosed --ensureOpen--> StateOpen --Close--> StateClosed

	Every exported operation funnels through ensureOpen, so callers never
	observe a half-initialized session.
*/

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/rohmanhakim/site-crawler/pkg/failure"
)

type SessionState int

const (
	StateClosed SessionState = iota
	StateOpen
)

type Options struct {
	Headless     bool
	UserAgent    string
	WindowWidth  int
	WindowHeight int
	// SettleDelay is the pause after every scroll, so lazy-loaded content
	// and scroll-triggered rendering finish before capture.
	SettleDelay time.Duration
}

type Session struct {
	mu    sync.Mutex
	state SessionState
	opts  Options

	allocCancel context.CancelFunc
	browserCtx  context.Context
	ctxCancel   context.CancelFunc
}

func NewSession(opts Options) *Session {
	if opts.WindowWidth <= 0 {
		opts.WindowWidth = 1280
	}
	if opts.WindowHeight <= 0 {
		opts.WindowHeight = 800
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = 500 * time.Millisecond
	}
	return &Session{
		state: StateClosed,
		opts:  opts,
	}
}

// ensureOpen transitions the session to StateOpen, starting the browser
// process if needed. It is the single place the allocator is built.
func (s *Session) ensureOpen(ctx context.Context) (context.Context, failure.ClassifiedError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateOpen {
		return s.browserCtx, nil
	}

	execOpts := []chromedp.ExecAllocatorOption{
		chromedp.Flag("headless", s.opts.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(s.opts.WindowWidth, s.opts.WindowHeight),
	}
	if s.opts.UserAgent != "" {
		execOpts = append(execOpts, chromedp.UserAgent(s.opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), execOpts...)
	browserCtx, ctxCancel := chromedp.NewContext(allocCtx)

	// chromedp starts the browser on the first Run; probe with a no-op so
	// a missing binary surfaces here instead of mid-crawl.
	if err := chromedp.Run(browserCtx); err != nil {
		ctxCancel()
		allocCancel()
		return nil, &DriverError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseSessionOpenFail,
		}
	}

	s.allocCancel = allocCancel
	s.browserCtx = browserCtx
	s.ctxCancel = ctxCancel
	s.state = StateOpen

	return s.browserCtx, nil
}

func (s *Session) run(ctx context.Context, cause DriverErrorCause, retryable bool, actions ...chromedp.Action) failure.ClassifiedError {
	browserCtx, cerr := s.ensureOpen(ctx)
	if cerr != nil {
		return cerr
	}

	runCtx := browserCtx
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithDeadline(browserCtx, deadline)
		defer cancel()
	}

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if browserCtx.Err() != nil {
			return &DriverError{
				Message:   err.Error(),
				Retryable: false,
				Cause:     ErrCauseSessionLost,
			}
		}
		return &DriverError{
			Message:   err.Error(),
			Retryable: retryable,
			Cause:     cause,
		}
	}
	return nil
}

func (s *Session) Navigate(ctx context.Context, url string) failure.ClassifiedError {
	return s.run(ctx, ErrCauseNavigationFail, true,
		chromedp.Navigate(url),
	)
}

func (s *Session) CurrentURL(ctx context.Context) (string, failure.ClassifiedError) {
	var location string
	err := s.run(ctx, ErrCauseScriptFail, true,
		chromedp.Location(&location),
	)
	return location, err
}

func (s *Session) Source(ctx context.Context) (string, failure.ClassifiedError) {
	var html string
	err := s.run(ctx, ErrCauseScriptFail, true,
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	return html, err
}

func (s *Session) ExecuteScript(ctx context.Context, js string, out any) failure.ClassifiedError {
	return s.run(ctx, ErrCauseScriptFail, true,
		chromedp.Evaluate(js, out),
	)
}

func (s *Session) ScrollTo(ctx context.Context, y int) failure.ClassifiedError {
	return s.run(ctx, ErrCauseScriptFail, true,
		chromedp.Evaluate(fmt.Sprintf("window.scrollTo(0, %d)", y), nil),
		chromedp.Sleep(s.opts.SettleDelay),
	)
}

func (s *Session) CaptureViewport(ctx context.Context) (image.Image, failure.ClassifiedError) {
	var buf []byte
	if err := s.run(ctx, ErrCauseCaptureFail, true,
		chromedp.CaptureScreenshot(&buf),
	); err != nil {
		return nil, err
	}

	img, err := png.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, &DriverError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseCaptureFail,
		}
	}
	return img, nil
}

func (s *Session) Click(ctx context.Context, selector string) failure.ClassifiedError {
	return s.run(ctx, ErrCauseElementNotFound, true,
		chromedp.Click(selector, chromedp.ByQuery),
	)
}

func (s *Session) Write(ctx context.Context, selector string, text string) failure.ClassifiedError {
	return s.run(ctx, ErrCauseElementNotFound, true,
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, text, chromedp.ByQuery),
	)
}

func (s *Session) Press(ctx context.Context, key string) failure.ClassifiedError {
	return s.run(ctx, ErrCauseScriptFail, true,
		chromedp.KeyEvent(mapKey(key)),
	)
}

func (s *Session) WaitVisible(ctx context.Context, selector string) failure.ClassifiedError {
	return s.run(ctx, ErrCauseElementNotFound, true,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
	)
}

func (s *Session) Close() failure.ClassifiedError {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return nil
	}

	s.ctxCancel()
	s.allocCancel()
	s.browserCtx = nil
	s.ctxCancel = nil
	s.allocCancel = nil
	s.state = StateClosed
	return nil
}

// mapKey translates a symbolic key name from the action script into the
// key sequence chromedp's input layer expects. Unknown names are sent as
// literal character sequences.
func mapKey(key string) string {
	switch key {
	case "ENTER", "RETURN":
		return kb.Enter
	case "TAB":
		return kb.Tab
	case "ESCAPE", "ESC":
		return kb.Escape
	case "BACKSPACE":
		return kb.Backspace
	case "ARROW_DOWN", "DOWN":
		return kb.ArrowDown
	case "ARROW_UP", "UP":
		return kb.ArrowUp
	case "PAGE_DOWN":
		return kb.PageDown
	case "PAGE_UP":
		return kb.PageUp
	default:
		return key
	}
}

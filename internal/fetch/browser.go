package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/tcupmn/tcup-scrape/internal/logger"
)

const (
	maxScrolls  = 20
	scrollPause = 750 * time.Millisecond
)

const expandScript = `(text) => {
	let clicked = 0;
	for (const el of document.querySelectorAll('body *')) {
		const own = Array.from(el.childNodes).some(
			(n) => n.nodeType === Node.TEXT_NODE && n.textContent.includes(text));
		if (own) {
			el.click();
			clicked++;
		}
	}
	return clicked;
}`

// BrowserOptions configures Chrome.
type BrowserOptions struct {
	// Bin is the Chrome/Chromium binary. Empty lets rod find or download one.
	Bin string
	// ControlURL connects to an already running Chrome instead of launching.
	ControlURL string
	Headless   bool
}

// Browser renders pages in Chrome via go-rod. Chrome is started on first use.
type Browser struct {
	opts BrowserOptions

	mu      sync.Mutex
	browser *rod.Browser
	launch  *launcher.Launcher
}

// NewBrowser returns a Browser that has not yet launched Chrome.
func NewBrowser(opts BrowserOptions) *Browser {
	return &Browser{opts: opts}
}

func (b *Browser) connect(ctx context.Context) (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		return b.browser, nil
	}

	controlURL := b.opts.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(b.opts.Headless)
		if b.opts.Bin != "" {
			l = l.Bin(b.opts.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		b.launch = l
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	logger.Debug("Browser connected", logger.Fields{"control_url": controlURL})
	b.browser = browser
	return browser, nil
}

// Document loads req.URL in a fresh tab and returns the rendered HTML.
// A missing WaitFor or Click selector is logged and the page is parsed anyway.
func (b *Browser) Document(ctx context.Context, req Request) (*goquery.Document, error) {
	browser, err := b.connect(ctx)
	if err != nil {
		return nil, err
	}

	tab, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	defer tab.Close()

	page := tab.Context(ctx)
	timeout := req.timeout()

	if err := page.Timeout(timeout).Navigate(req.URL); err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", req.URL, err)
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		logger.Warn("Page load did not finish", logger.Fields{"url": req.URL, "error": err.Error()})
	}

	if req.Click != "" {
		if el, err := page.Timeout(timeout).Element(req.Click); err != nil {
			logger.Warn("Click target not found", logger.Fields{"url": req.URL, "selector": req.Click})
		} else if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			logger.Warn("Click failed", logger.Fields{"url": req.URL, "selector": req.Click, "error": err.Error()})
		}
	}

	if req.WaitFor != "" {
		if _, err := page.Timeout(timeout).Element(req.WaitFor); err != nil {
			logger.Warn("Timed out waiting for content, parsing anyway", logger.Fields{
				"url":      req.URL,
				"selector": req.WaitFor,
			})
		}
	}

	if req.ScrollToBottom {
		if err := scrollToBottom(ctx, page); err != nil {
			return nil, fmt.Errorf("scroll %s: %w", req.URL, err)
		}
	}

	if req.ExpandText != "" {
		res, err := page.Eval(expandScript, req.ExpandText)
		if err != nil {
			logger.Warn("Expanding hidden content failed", logger.Fields{"url": req.URL, "error": err.Error()})
		} else {
			logger.Debug("Expanded hidden content", logger.Fields{"url": req.URL, "clicked": res.Value.Int()})
		}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("read HTML of %s: %w", req.URL, err)
	}
	return parseHTML([]byte(html), req.URL)
}

// Bytes is not supported by the browser; use HTTP for feeds.
func (b *Browser) Bytes(ctx context.Context, location string) ([]byte, error) {
	return nil, fmt.Errorf("browser fetcher cannot download %s", location)
}

// Close shuts down Chrome if it was started.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.browser = nil
	if b.launch != nil {
		b.launch.Cleanup()
		b.launch = nil
	}
	return err
}

func scrollToBottom(ctx context.Context, page *rod.Page) error {
	last := -1
	for i := 0; i < maxScrolls; i++ {
		res, err := page.Eval(`() => { window.scrollTo(0, document.body.scrollHeight); return document.body.scrollHeight; }`)
		if err != nil {
			return err
		}
		height := res.Value.Int()
		if height == last {
			return nil
		}
		last = height

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(scrollPause):
		}
	}
	return nil
}

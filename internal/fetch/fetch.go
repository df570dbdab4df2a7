package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout bounds a single page load or wait-for selector.
const DefaultTimeout = 30 * time.Second

// ErrStatus is wrapped by errors for non-2xx responses.
var ErrStatus = errors.New("unexpected HTTP status")

// Request describes one page to retrieve.
type Request struct {
	URL string

	// Render loads the page in a browser so client-side content is present.
	Render bool
	// WaitFor is a CSS selector that signals the listing has rendered.
	WaitFor string
	// Click is a CSS selector clicked after load, e.g. a "see all events" link.
	Click string
	// ScrollToBottom scrolls until the page height stops growing.
	ScrollToBottom bool
	// ExpandText clicks every element whose own text contains this string.
	ExpandText string
	// Timeout overrides DefaultTimeout.
	Timeout time.Duration
}

// Get is shorthand for a plain HTTP request.
func Get(u string) Request {
	return Request{URL: u}
}

// Rendered is shorthand for a browser request that waits for a selector.
func Rendered(u, waitFor string) Request {
	return Request{URL: u, Render: true, WaitFor: waitFor}
}

func (r Request) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return DefaultTimeout
}

// Fetcher retrieves parsed documents and raw bytes.
type Fetcher interface {
	Document(ctx context.Context, req Request) (*goquery.Document, error)
	Bytes(ctx context.Context, location string) ([]byte, error)
}

// IsRemote reports whether location is an http(s) URL rather than a local path.
func IsRemote(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func parseHTML(body []byte, source string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", source, err)
	}
	return doc, nil
}

func localPath(location string) string {
	return strings.TrimPrefix(location, "file://")
}

package fetch

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// Router sends rendered requests to a browser and everything else to HTTP.
type Router struct {
	HTTP    *HTTP
	Browser *Browser
}

// NewRouter creates a Router. The browser is only launched when a source
// asks for a rendered page.
func NewRouter(h *HTTP, b *Browser) *Router {
	return &Router{HTTP: h, Browser: b}
}

// Document implements Fetcher.
func (r *Router) Document(ctx context.Context, req Request) (*goquery.Document, error) {
	if req.Render && r.Browser != nil {
		return r.Browser.Document(ctx, req)
	}
	return r.HTTP.Document(ctx, req)
}

// Bytes implements Fetcher.
func (r *Router) Bytes(ctx context.Context, location string) ([]byte, error) {
	return r.HTTP.Bytes(ctx, location)
}

// Close releases the browser, if any.
func (r *Router) Close() error {
	if r.Browser == nil {
		return nil
	}
	return r.Browser.Close()
}

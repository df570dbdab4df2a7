package fetch

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/tcupmn/tcup-scrape/internal/logger"
)

// HTTPOptions configures the plain HTTP fetcher.
type HTTPOptions struct {
	UserAgent string
	Timeout   time.Duration
	// Delay is the minimum spacing between consecutive requests.
	Delay time.Duration
}

// HTTP fetches pages with a single resty client. Requests are spaced by a
// rate limiter and are never retried.
type HTTP struct {
	client  *resty.Client
	limiter *rate.Limiter
}

// NewHTTP creates an HTTP fetcher.
func NewHTTP(opts HTTPOptions) *HTTP {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	limit := rate.Inf
	if opts.Delay > 0 {
		limit = rate.Every(opts.Delay)
	}
	limiter := rate.NewLimiter(limit, 1)

	client := resty.New()
	client.SetTimeout(timeout)
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	return &HTTP{client: client, limiter: limiter}
}

// Document GETs req.URL and parses the body. Browser-only fields are ignored.
func (h *HTTP) Document(ctx context.Context, req Request) (*goquery.Document, error) {
	body, err := h.get(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	return parseHTML(body, req.URL)
}

// Bytes returns the body at location, reading from disk when location is a
// local path or file:// URL.
func (h *HTTP) Bytes(ctx context.Context, location string) ([]byte, error) {
	if !IsRemote(location) {
		data, err := os.ReadFile(localPath(location))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", location, err)
		}
		return data, nil
	}
	return h.get(ctx, location)
}

func (h *HTTP) get(ctx context.Context, u string) ([]byte, error) {
	start := time.Now()
	resp, err := h.client.R().SetContext(ctx).Get(u)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", u, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w %d from %s", ErrStatus, resp.StatusCode(), u)
	}

	logger.Debug("Fetched page", logger.Fields{
		"url":         u,
		"status":      resp.StatusCode(),
		"bytes":       len(resp.Body()),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return resp.Body(), nil
}

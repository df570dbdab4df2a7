//go:build integration

package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

// Run with: go test -tags=integration ./internal/fetch/
func TestBrowser_Document_Integration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<div id="list"></div>
<a class="more" href="#" onclick="document.getElementById('list').innerHTML += '<p class=extra>later</p>'; return false;">more</a>
<span>...</span>
<script>
setTimeout(function () {
  document.getElementById('list').innerHTML = '<div class="event">Rendered</div>';
}, 200);
</script>
</body></html>`)
	}))
	defer server.Close()

	b := NewBrowser(BrowserOptions{Bin: os.Getenv("CHROME_BIN"), Headless: true})
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	doc, err := b.Document(ctx, Request{
		URL:            server.URL,
		Render:         true,
		WaitFor:        ".event",
		ScrollToBottom: true,
		ExpandText:     "...",
		Timeout:        10 * time.Second,
	})
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}

	if got := doc.Find(".event").Text(); got != "Rendered" {
		t.Errorf(".event = %q, want Rendered", got)
	}
}

func TestBrowser_MissingSelector_Integration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>static</p></body></html>`)
	}))
	defer server.Close()

	b := NewBrowser(BrowserOptions{Bin: os.Getenv("CHROME_BIN"), Headless: true})
	defer b.Close()

	doc, err := b.Document(context.Background(), Request{
		URL:     server.URL,
		Render:  true,
		WaitFor: ".never",
		Timeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("Document() error = %v, want page parsed anyway", err)
	}
	if got := doc.Find("p").Text(); got != "static" {
		t.Errorf("p = %q, want static", got)
	}
}

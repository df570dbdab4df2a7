// Package fetch retrieves venue pages and calendar feeds.
//
// Sources describe what they need with a Request: a plain HTTP GET, or a
// rendered page from a headless Chrome driven by go-rod, optionally after
// clicking a "more events" link, waiting for a selector, scrolling to the
// bottom, or expanding truncated text. A Router picks the right backend per
// request so sources depend only on the Fetcher interface.
package fetch

package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/tcupmn/tcup-scrape/internal/show"
)

// text returns the selection's text with whitespace normalized.
func text(sel *goquery.Selection) string {
	return show.NormalizeSpace(sel.Text())
}

// textLines returns each non-empty descendant text node, trimmed, in
// document order. <br> separated names become separate lines.
func textLines(sel *goquery.Selection) []string {
	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if line := show.NormalizeSpace(n.Data); line != "" {
				lines = append(lines, line)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return lines
}

// absURL resolves href against base. Empty and unparseable hrefs yield "".
func absURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return b.ResolveReference(ref).String()
}

// headlinerAndSupport splits a cleaned band list into the first act and
// the comma-joined rest.
func headlinerAndSupport(names []string) (string, string) {
	if len(names) == 0 {
		return "", ""
	}
	return names[0], strings.Join(names[1:], ", ")
}

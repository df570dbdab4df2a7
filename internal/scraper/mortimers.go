package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tcupmn/tcup-scrape/internal/fetch"
	"github.com/tcupmn/tcup-scrape/internal/logger"
	"github.com/tcupmn/tcup-scrape/internal/show"
)

const mortimersURL = "https://www.mortimerscalendar.com/"

// mortimers reads the Wix events list, then each event page for the title,
// full date and flyer.
type mortimers struct {
	base
}

func newMortimers(opts Options) *mortimers {
	return &mortimers{base{
		slug:  "mortimers",
		venue: show.Venue{Name: "Mortimer's", Location: "2001 Lyndale Ave S, Minneapolis, MN"},
		url:   mortimersURL,
		opts:  opts,
	}}
}

func (m *mortimers) Scrape(ctx context.Context, f fetch.Fetcher) ([]*show.Show, error) {
	doc, err := f.Document(ctx, fetch.Rendered(m.url, `li[data-hook="event-list-item"]`))
	if err != nil {
		return nil, fmt.Errorf("fetching mortimers listing: %w", err)
	}

	links := m.parseListing(doc)
	shows := make([]*show.Show, 0, len(links))
	for _, link := range links {
		page, err := f.Document(ctx, fetch.Rendered(link, `p[data-hook="event-full-date"]`))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("Mortimer's event page failed", logger.Fields{"url": link, "error": err.Error()})
			continue
		}
		shows = append(shows, m.parseEvent(page, link))
	}
	return shows, nil
}

func (m *mortimers) parseListing(doc *goquery.Document) []string {
	var links []string
	doc.Find(`li[data-hook="event-list-item"]`).Each(func(_ int, item *goquery.Selection) {
		href, ok := item.Find(`a[data-hook="ev-rsvp-button"]`).First().Attr("href")
		if !ok {
			return
		}
		if link := absURL(m.url, href); link != "" {
			links = append(links, link)
		}
	})
	return links
}

func (m *mortimers) parseEvent(doc *goquery.Document, link string) *show.Show {
	sh := m.newShow()
	sh.EventLink = link

	title := doc.Find("h1.lEpN4c").First()
	if title.Length() == 0 {
		title = doc.Find("h1").First()
	}
	billing := text(title)
	names := show.SplitBands(show.SplitSlash, billing)
	sh.Bands = show.BandsFromNames(names)
	sh.Headliner, sh.Support = headlinerAndSupport(names)
	if sh.Headliner == "" {
		sh.Headliner = billing
	}

	// "Nov 15, 2025, 8:00 PM – 11:30 PM"
	full := text(doc.Find(`p[data-hook="event-full-date"]`).First())
	if i := strings.Index(full, " – "); i >= 0 {
		full = full[:i]
	}
	if t, ok := show.ParseDate(full, "Jan 2, 2006, 3:04 PM", "January 2, 2006, 3:04 PM"); ok {
		sh.Start = t
	}

	sh.FlyerImage = m.flyer(doc)
	return sh
}

func (m *mortimers) flyer(doc *goquery.Document) string {
	box := doc.Find(`div[data-hook="event-image"]`).First()
	if box.Length() == 0 {
		return ""
	}
	if info, ok := box.Find("wow-image[data-image-info]").First().Attr("data-image-info"); ok {
		if u := wixImage(info); u != "" {
			return u
		}
	}
	if src, ok := box.Find("img[src]").First().Attr("src"); ok {
		return src
	}
	return ""
}

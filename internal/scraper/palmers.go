package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/tcupmn/tcup-scrape/internal/fetch"
	"github.com/tcupmn/tcup-scrape/internal/logger"
	"github.com/tcupmn/tcup-scrape/internal/show"
)

const palmersBase = "https://palmers-bar.com"

// palmers walks the Squarespace month calendar for this month and next, then
// reads each event page.
type palmers struct {
	base
	baseURL string
}

func newPalmers(opts Options) *palmers {
	return &palmers{
		base: base{
			slug:  "palmers",
			venue: show.Venue{Name: "Palmer's Bar", Location: "500 Cedar Ave S, Minneapolis, MN"},
			url:   palmersBase + "/",
			opts:  opts,
		},
		baseURL: palmersBase,
	}
}

// monthURL returns the calendar view for the month containing t.
func (p *palmers) monthURL(t time.Time) string {
	return fmt.Sprintf("%s?view=calendar&month=%02d-%d", p.url, int(t.Month()), t.Year())
}

func (p *palmers) Scrape(ctx context.Context, f fetch.Fetcher) ([]*show.Show, error) {
	now := p.now()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var (
		links []string
		seen  = map[string]bool{}
	)
	for _, month := range []time.Time{thisMonth, thisMonth.AddDate(0, 1, 0)} {
		u := p.monthURL(month)
		doc, err := f.Document(ctx, fetch.Rendered(u, "tr.yui3-calendar-row"))
		if err != nil {
			return nil, fmt.Errorf("fetching palmers calendar %s: %w", u, err)
		}
		for _, link := range p.parseCalendar(doc) {
			if !seen[link] {
				seen[link] = true
				links = append(links, link)
			}
		}
	}

	shows := make([]*show.Show, 0, len(links))
	for _, link := range links {
		doc, err := f.Document(ctx, fetch.Get(link))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("Palmer's event page failed", logger.Fields{"url": link, "error": err.Error()})
			continue
		}
		shows = append(shows, p.parseEvent(doc, link))
	}
	return shows, nil
}

// parseCalendar returns the event page links on days marked has-event.
func (p *palmers) parseCalendar(doc *goquery.Document) []string {
	var links []string
	doc.Find("tr.yui3-calendar-row td.has-event ul.itemlist li.item a.item-link").Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok {
			if link := absURL(p.baseURL, href); link != "" {
				links = append(links, link)
			}
		}
	})
	return links
}

func (p *palmers) parseEvent(doc *goquery.Document, link string) *show.Show {
	sh := p.newShow()
	sh.EventLink = link

	title := text(doc.Find("h1.eventitem-title").First())
	names := show.SplitBands(show.SplitComma, title)
	sh.Bands = show.BandsFromNames(names)
	sh.Headliner, sh.Support = headlinerAndSupport(names)
	if sh.Headliner == "" {
		sh.Headliner = title
	}

	meta := doc.Find(".eventitem-column-meta")
	if meta.Length() == 0 {
		meta = doc.Selection
	}
	dateText, _ := meta.Find("time.event-date").First().Attr("datetime")
	date, okDate := show.ParseDate(dateText, "2006-01-02")
	hour, minute, okClock := show.ParseClock(text(meta.Find("time.event-time-12hr-start").First()))
	if okDate && okClock {
		sh.Start = show.At(date, hour, minute)
	}

	sh.FlyerImage = imageSrc(doc.Find(".eventitem-column-content img, .sqs-image-shape-container-element img").First())
	return sh
}

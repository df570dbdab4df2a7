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

const (
	cedarURL  = "https://www.thecedar.org/events"
	cedarBase = "https://www.thecedar.org"
)

// Headings on Cedar event pages that are section titles, not acts.
var cedarSkipHeadings = map[string]bool{
	"listen":          true,
	"about this show": true,
}

type cedar struct {
	base
	baseURL string
}

func newCedar(opts Options) *cedar {
	return &cedar{
		base: base{
			slug:  "cedar",
			venue: show.Venue{Name: "The Cedar Cultural Center", Location: "416 Cedar Ave S, Minneapolis, MN"},
			url:   cedarURL,
			opts:  opts,
		},
		baseURL: cedarBase,
	}
}

func (c *cedar) Scrape(ctx context.Context, f fetch.Fetcher) ([]*show.Show, error) {
	doc, err := f.Document(ctx, fetch.Rendered(c.url, "article.eventlist-event"))
	if err != nil {
		return nil, fmt.Errorf("fetching cedar listing: %w", err)
	}

	shows := c.parseListing(doc)
	for _, sh := range shows {
		if sh.EventLink == "" {
			continue
		}
		if err := c.addBands(ctx, f, sh); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("Cedar event page failed", logger.Fields{"url": sh.EventLink, "error": err.Error()})
		}
	}
	return shows, nil
}

func (c *cedar) parseListing(doc *goquery.Document) []*show.Show {
	var shows []*show.Show
	doc.Find("article.eventlist-event").Each(func(_ int, card *goquery.Selection) {
		sh := c.newShow()
		sh.Headliner = text(card.Find(".eventlist-title").First())

		if href, ok := card.Find("a[href]").First().Attr("href"); ok {
			sh.EventLink = absURL(c.baseURL, href)
		}

		dateText, _ := card.Find("time.event-date").First().Attr("datetime")
		date, okDate := show.ParseDate(dateText, "2006-01-02")
		hour, minute, okClock := show.ParseClock(text(card.Find("time.event-time-localized-start").First()))
		if okDate && okClock {
			sh.Start = show.At(date, hour, minute)
		}

		if img := card.Find("img[data-src]").First(); img.Length() > 0 {
			sh.FlyerImage = imageSrc(img)
		}
		shows = append(shows, sh)
	})
	return shows
}

// addBands reads the act names from the event page's headings.
func (c *cedar) addBands(ctx context.Context, f fetch.Fetcher, sh *show.Show) error {
	doc, err := f.Document(ctx, fetch.Get(sh.EventLink))
	if err != nil {
		return err
	}

	var names []string
	doc.Find(`h4[style="white-space:pre-wrap;"]`).Each(func(_ int, h *goquery.Selection) {
		name := text(h)
		if !cedarSkipHeadings[strings.ToLower(name)] {
			names = append(names, name)
		}
	})

	names = show.CleanBands(names)
	if len(names) == 0 {
		return nil
	}
	sh.Bands = show.BandsFromNames(names)
	sh.Headliner, sh.Support = headlinerAndSupport(names)
	return nil
}

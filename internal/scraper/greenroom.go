package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tcupmn/tcup-scrape/internal/fetch"
	"github.com/tcupmn/tcup-scrape/internal/show"
)

const (
	greenRoomURL  = "https://www.greenroommn.com/events#/events"
	greenRoomBase = "https://www.greenroommn.com"
)

type greenRoom struct {
	base
	baseURL string
}

func newGreenRoom(opts Options) *greenRoom {
	return &greenRoom{
		base: base{
			slug:  "greenroom",
			venue: show.Venue{Name: "Green Room", Location: "2923 Girard Ave S, Minneapolis, MN"},
			url:   greenRoomURL,
			opts:  opts,
		},
		baseURL: greenRoomBase,
	}
}

func (g *greenRoom) Scrape(ctx context.Context, f fetch.Fetcher) ([]*show.Show, error) {
	doc, err := f.Document(ctx, fetch.Rendered(g.url, ".vp-event-card"))
	if err != nil {
		return nil, fmt.Errorf("fetching green room events: %w", err)
	}
	return g.parse(doc), nil
}

func (g *greenRoom) parse(doc *goquery.Document) []*show.Show {
	now := g.now()
	var shows []*show.Show

	doc.Find(".vp-event-card").Each(func(_ int, card *goquery.Selection) {
		sh := g.newShow()

		billing := text(card.Find(".vp-event-name").First())
		names := show.SplitBands(show.SplitWithWord, billing)
		sh.Bands = show.BandsFromNames(names)
		sh.Headliner, sh.Support = headlinerAndSupport(names)
		if sh.Headliner == "" {
			sh.Headliner = billing
		}

		// Cards show "Fri Nov 15" without a year. The weekday is not checked.
		dateText := text(card.Find(".vp-date").First())
		date, okDate := show.ParseDate(dateText+" 2000", "Mon Jan 2 2006", "Jan 2 2006", "Mon, Jan 2 2006")
		hour, minute, _, okClock := show.ExtractClock(text(card.Find(".vp-time").First()))
		if okDate && okClock {
			sh.Start = show.At(show.DateOf(date.Month(), date.Day(), now), hour, minute)
		}

		if href, ok := card.Find("a.vp-event-link[href]").First().Attr("href"); ok {
			if strings.HasPrefix(href, "#") {
				sh.EventLink = g.baseURL + href
			} else {
				sh.EventLink = absURL(g.baseURL, href)
			}
		}

		sh.FlyerImage = flyerOf(card.Find(".vp-cover-img").First())
		shows = append(shows, sh)
	})
	return shows
}

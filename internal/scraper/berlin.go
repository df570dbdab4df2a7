package scraper

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/tcupmn/tcup-scrape/internal/fetch"
	"github.com/tcupmn/tcup-scrape/internal/show"
)

const (
	berlinURL  = "https://www.berlinmpls.com/calendar"
	berlinBase = "https://www.berlinmpls.com"
)

// Berlin lists each show's full billing as a single title, which is stored
// as one band.
type berlin struct {
	base
	baseURL string
}

func newBerlin(opts Options) *berlin {
	return &berlin{
		base: base{
			slug:  "berlin",
			venue: show.Venue{Name: "Berlin", Location: "204 N 1st St, Minneapolis, MN"},
			url:   berlinURL,
			opts:  opts,
		},
		baseURL: berlinBase,
	}
}

func (b *berlin) Scrape(ctx context.Context, f fetch.Fetcher) ([]*show.Show, error) {
	doc, err := f.Document(ctx, fetch.Rendered(b.url, "article.eventlist-event"))
	if err != nil {
		return nil, fmt.Errorf("fetching berlin calendar: %w", err)
	}
	return b.parse(doc), nil
}

func (b *berlin) parse(doc *goquery.Document) []*show.Show {
	var shows []*show.Show
	doc.Find("article.eventlist-event").Each(func(_ int, card *goquery.Selection) {
		sh := b.newShow()

		title := card.Find("h1.eventlist-title").First()
		if a := title.Find("a[href]").First(); a.Length() > 0 {
			sh.Headliner = text(a)
			href, _ := a.Attr("href")
			sh.EventLink = absURL(b.baseURL, href)
		} else {
			sh.Headliner = text(title)
		}
		sh.Bands = show.BandsFromNames(show.CleanBands([]string{sh.Headliner}))

		dateText := text(card.Find("li.eventlist-meta-date").First())
		timeText := text(card.Find("li.eventlist-meta-time time.event-time-localized-start, time.event-time-localized-start").First())
		if t, ok := show.ParseDate(dateText+" "+timeText, "Monday, January 2, 2006 3:04 PM", "Monday, January 2, 2006 3:04PM"); ok {
			sh.Start = t
		}

		sh.FlyerImage = imageSrc(card.Find(".eventlist-column-thumbnail, a.eventlist-column-thumbnail").First())
		shows = append(shows, sh)
	})
	return shows
}

package scraper

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/tcupmn/tcup-scrape/internal/fetch"
	"github.com/tcupmn/tcup-scrape/internal/logger"
	"github.com/tcupmn/tcup-scrape/internal/show"
)

const (
	firstAveURL  = "https://first-avenue.com/shows"
	firstAveBase = "https://first-avenue.com"
)

// firstAve covers First Avenue's family of rooms. Each listing names its own
// room, so unknown rooms are registered on ingest.
type firstAve struct {
	base
	baseURL string
}

func newFirstAve(opts Options) *firstAve {
	return &firstAve{
		base: base{
			slug:  "firstave",
			venue: show.Venue{Name: "First Avenue", Location: "701 N 1st Ave, Minneapolis, MN"},
			url:   firstAveURL,
			opts:  opts,
		},
		baseURL: firstAveBase,
	}
}

// CreatesVenues reports that shows may name rooms other than First Avenue.
func (fa *firstAve) CreatesVenues() bool { return true }

// listing is one row of the shows page. The time of day is only on the
// event page.
type listing struct {
	show    *show.Show
	date    time.Time
	hasDate bool
}

func (fa *firstAve) Scrape(ctx context.Context, f fetch.Fetcher) ([]*show.Show, error) {
	doc, err := f.Document(ctx, fetch.Get(fa.url))
	if err != nil {
		return nil, fmt.Errorf("fetching first avenue shows: %w", err)
	}

	listings := fa.parseListing(doc)
	shows := make([]*show.Show, 0, len(listings))
	for _, l := range listings {
		shows = append(shows, l.show)
		if l.show.EventLink == "" {
			continue
		}

		page, err := f.Document(ctx, fetch.Get(l.show.EventLink))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("First Avenue event page failed", logger.Fields{"url": l.show.EventLink, "error": err.Error()})
			continue
		}

		at, hasClock := fa.parseEvent(page, l.show)
		if l.hasDate && hasClock {
			l.show.Start = show.At(l.date, at.hour, at.minute)
		}
	}
	return shows, nil
}

func (fa *firstAve) parseListing(doc *goquery.Document) []listing {
	now := fa.now()
	var listings []listing

	doc.Find(".show_list_item").Each(func(_ int, item *goquery.Selection) {
		l := listing{show: fa.newShow()}
		if room := text(item.Find(".venue_name").First()); room != "" {
			l.show.Venue = room
		}

		a := item.Find("a[href]").First()
		l.show.Headliner = text(a)
		if href, ok := a.Attr("href"); ok {
			l.show.EventLink = absURL(fa.baseURL, href)
		}

		dates := item.Find(".date_container").First()
		month, okMonth := show.MonthFromName(text(dates.Find(".month").First()))
		day, err := strconv.Atoi(text(dates.Find(".day").First()))
		if okMonth && err == nil && day >= 1 && day <= 31 {
			l.date, l.hasDate = show.DateOf(month, day, now), true
		}

		listings = append(listings, l)
	})
	return listings
}

// parseEvent fills the performers from the event page and returns the
// "Show Starts" time.
func (fa *firstAve) parseEvent(doc *goquery.Document, sh *show.Show) (clock, bool) {
	doc.Find("div.performer_list_item").Each(func(_ int, item *goquery.Selection) {
		name := text(item.Find(".performer_content_col h2").First())
		if !show.IsValidBandName(name) {
			return
		}
		sh.Bands = append(sh.Bands, show.Band{Name: name, SocialLinks: socialLinks(item)})
	})

	if names := sh.BandNames(); len(names) > 0 {
		sh.Headliner, sh.Support = headlinerAndSupport(names)
	}

	var (
		at clock
		ok bool
	)
	doc.Find("div.show_details div.col-6.col-md").EachWithBreak(func(_ int, col *goquery.Selection) bool {
		if !strings.Contains(text(col.Find("h6").First()), "Show Starts") {
			return true
		}
		at.hour, at.minute, ok = show.ParseClock(text(col.Find("h2").First()))
		return false
	})
	return at, ok
}

// socialLinks maps platform to URL from a performer's icon links. The
// platform comes from the link title, or the icon's zocial-* class.
func socialLinks(item *goquery.Selection) map[string]string {
	links := make(map[string]string)
	item.Find(".social_links_col a.social_icon").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" {
			return
		}
		platform, _ := a.Attr("title")
		if platform == "" {
			if class, ok := a.Find("i").First().Attr("class"); ok {
				if fields := strings.Fields(class); len(fields) > 0 {
					platform = fields[0]
				}
			}
		}
		platform = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(platform)), "zocial-")
		if platform != "" {
			links[platform] = href
		}
	})
	if len(links) == 0 {
		return nil
	}
	return links
}

package scraper

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/tcupmn/tcup-scrape/internal/fetch"
	"github.com/tcupmn/tcup-scrape/internal/logger"
	"github.com/tcupmn/tcup-scrape/internal/show"
)

const (
	club331URL = "https://331club.com/#calendar"
	zhoraURL   = "https://dice.fm/venue/zhora-darling-ql9y"
)

// clubListing scrapes the 331 Club style calendar: one .event card per day,
// each with a column per act line-up. Zhora Darling's listing uses the same
// markup.
type clubListing struct {
	base
}

func newClub331(opts Options) *clubListing {
	return &clubListing{base{
		slug:   "331club",
		venue:  show.Venue{Name: "331 Club", Location: "331 13th Ave NE, Minneapolis, MN"},
		url:    club331URL,
		dedupe: show.HeadlinerStart,
		opts:   opts,
	}}
}

func newZhora(opts Options) *clubListing {
	return &clubListing{base{
		slug:   "zhora",
		venue:  show.Venue{Name: "Zhora Darling", Location: "509 1st Ave NE, Minneapolis, MN"},
		url:    zhoraURL,
		dedupe: show.HeadlinerStart,
		opts:   opts,
	}}
}

func (c *clubListing) Scrape(ctx context.Context, f fetch.Fetcher) ([]*show.Show, error) {
	doc, err := f.Document(ctx, fetch.Request{
		URL:     c.url,
		Render:  true,
		Click:   ".more_events a",
		WaitFor: ".event",
		Timeout: 10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching %s listing: %w", c.slug, err)
	}
	return c.parse(doc), nil
}

func (c *clubListing) parse(doc *goquery.Document) []*show.Show {
	now := c.now()
	var shows []*show.Show

	doc.Find("div.event").Each(func(_ int, card *goquery.Selection) {
		date, hasDate := c.cardDate(card, now)

		columns := card.Find(".event-content .columns .column")
		if columns.Length() == 0 {
			columns = card
		}
		columns.Each(func(_ int, col *goquery.Selection) {
			p := col.Find("p").First()
			if p.Length() == 0 {
				return
			}
			sh, clock, hasClock := c.parseColumn(p)
			if sh == nil {
				return
			}
			if hasDate && hasClock {
				sh.Start = show.At(date, clock.hour, clock.minute)
			}
			shows = append(shows, sh)
		})
	})

	logger.Debug("Parsed club listing", logger.Fields{"source": c.slug, "shows": len(shows)})
	return shows
}

func (c *clubListing) cardDate(card *goquery.Selection, now time.Time) (time.Time, bool) {
	dateTag := card.Find("div.event-date")
	month, ok := show.MonthFromName(text(dateTag.Find("span.month")))
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(text(dateTag.Find("span.date")))
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return show.DateOf(month, day, now), true
}

// isActName reports whether text left on the clock line names an act rather
// than a cover charge or age limit such as "$10 21+".
func isActName(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0 && show.IsValidBandName(s)
}

type clock struct {
	hour, minute int
}

// parseColumn reads one line-up paragraph: headliner first, supporting acts
// after, and the door time on the last line.
func (c *clubListing) parseColumn(p *goquery.Selection) (*show.Show, clock, bool) {
	lines := textLines(p)
	if len(lines) == 0 {
		return nil, clock{}, false
	}

	var (
		at       clock
		hasClock bool
	)
	if hour, minute, rest, ok := show.ExtractClock(lines[len(lines)-1]); ok {
		at, hasClock = clock{hour, minute}, true
		if rest = strings.Trim(rest, " -–@,"); isActName(rest) {
			lines[len(lines)-1] = rest
		} else {
			lines = lines[:len(lines)-1]
		}
	}
	if len(lines) == 0 {
		return nil, clock{}, false
	}

	sh := c.newShow()
	sh.Headliner = lines[0]
	sh.Support = strings.Join(lines[1:], ", ")

	links := make(map[string]string)
	p.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		name := text(a)
		href, _ := a.Attr("href")
		if show.IsValidBandName(name) && strings.HasPrefix(href, "http") {
			links[strings.ToLower(name)] = href
		}
	})

	for _, name := range show.CleanBands(lines) {
		b := show.Band{Name: name}
		if href, ok := links[strings.ToLower(name)]; ok {
			b.SocialLinks = map[string]string{"url": href}
		}
		sh.Bands = append(sh.Bands, b)
	}
	return sh, at, hasClock
}

package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/tcupmn/tcup-scrape/internal/fetch"
	"github.com/tcupmn/tcup-scrape/internal/logger"
	"github.com/tcupmn/tcup-scrape/internal/show"
)

const pilllarURL = "https://www.pilllar.com/pages/events"

// Pilllar's listing carries no times; shows start at 6:30 PM.
const (
	pilllarHour   = 18
	pilllarMinute = 30
)

var (
	weekdayPrefix  = regexp.MustCompile(`\b(\w+)\.\s+`)
	dayNumber      = regexp.MustCompile(`\d{1,2}`)
	headlinerStyle = regexp.MustCompile(`font-size:\s*24px`)
)

// pilllar reads a page-builder layout where month headings and day rows are
// sibling blocks; the most recent month heading applies to following days.
type pilllar struct {
	base
}

func newPilllar(opts Options) *pilllar {
	return &pilllar{base{
		slug:   "pilllar",
		venue:  show.Venue{Name: "Pilllar", Location: "2300 E Franklin Ave, Minneapolis, MN"},
		url:    pilllarURL,
		dedupe: show.HeadlinerStart,
		opts:   opts,
	}}
}

func (p *pilllar) Scrape(ctx context.Context, f fetch.Fetcher) ([]*show.Show, error) {
	doc, err := f.Document(ctx, fetch.Request{
		URL:            p.url,
		Render:         true,
		ScrollToBottom: true,
		ExpandText:     "...",
	})
	if err != nil {
		return nil, fmt.Errorf("fetching pilllar events: %w", err)
	}
	return p.parse(doc), nil
}

func (p *pilllar) parse(doc *goquery.Document) []*show.Show {
	var (
		shows []*show.Show
		month time.Month
		now   = p.now()
	)

	doc.Find(".sse-row.sse-clearfix").Each(func(_ int, block *goquery.Selection) {
		if h := block.Find("h1.sse-size-42").First(); h.Length() > 0 {
			if m, ok := show.MonthFromName(text(h)); ok {
				month = m
			}
		}

		name := block.Find("span[style]").FilterFunction(func(_ int, s *goquery.Selection) bool {
			style, _ := s.Attr("style")
			return headlinerStyle.MatchString(style)
		}).First()
		if name.Length() == 0 {
			return
		}

		sh := p.newShow()
		sh.Headliner = text(name)
		if sh.Headliner == "" {
			return
		}
		sh.Support = nextParagraphText(block, name)

		names := append([]string{sh.Headliner}, show.SplitComma.Split(sh.Support)...)
		sh.Bands = show.BandsFromNames(show.CleanBands(names))

		if day, ok := p.day(block); ok && month != 0 {
			sh.Start = show.At(show.DateOf(month, day, now), pilllarHour, pilllarMinute)
		} else {
			logger.Debug("Pilllar show without date", logger.Fields{"headliner": sh.Headliner})
		}

		if href, ok := block.Find("a[href]").First().Attr("href"); ok {
			sh.EventLink = absURL(p.url, href)
		}
		sh.FlyerImage = imageSrc(block.Find("div.sse-column.sse-half.sse-center").First())

		shows = append(shows, sh)
	})
	return shows
}

// day reads "Fri. 15" style day headings.
func (p *pilllar) day(block *goquery.Selection) (int, bool) {
	h := block.Find("h1.sse-size-64").First()
	if h.Length() == 0 {
		return 0, false
	}
	cleaned := weekdayPrefix.ReplaceAllString(text(h), "")
	d, err := strconv.Atoi(dayNumber.FindString(cleaned))
	if err != nil || d < 1 || d > 31 {
		return 0, false
	}
	return d, true
}

// nextParagraphText returns the text of the first <p> in block that
// follows after in document order.
func nextParagraphText(block, after *goquery.Selection) string {
	target := after.Get(0)
	passed := false
	found := ""
	block.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Get(0) == target {
			passed = true
			return true
		}
		if passed && goquery.NodeName(s) == "p" {
			found = text(s)
			return false
		}
		return true
	})
	return found
}

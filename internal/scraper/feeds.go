package scraper

import (
	"bytes"
	"context"
	"fmt"

	"github.com/tcupmn/tcup-scrape/internal/calendar"
	"github.com/tcupmn/tcup-scrape/internal/fetch"
	"github.com/tcupmn/tcup-scrape/internal/logger"
	"github.com/tcupmn/tcup-scrape/internal/show"
)

const whiteSquirrelICS = "https://whitesquirrelbar.com/calendar/?ical=1"

// feed reads a venue's iCalendar export. The event summary is the billing
// line, split with the venue's own rule.
type feed struct {
	base
	splitter show.Splitter
}

func newWhiteSquirrel(opts Options) *feed {
	return &feed{
		base: base{
			slug:  "whitesquirrel",
			venue: show.Venue{Name: "White Squirrel", Location: "974 7th St W, St Paul, MN"},
			url:   whiteSquirrelICS,
			opts:  opts,
		},
		splitter: show.SplitWith,
	}
}

func newHookLadder(opts Options) *feed {
	u := opts.HookLadderICS
	if u == "" {
		u = "https://thehookmpls.com/events/?ical=1"
	}
	return &feed{
		base: base{
			slug:  "hookladder",
			venue: show.Venue{Name: "Hook & Ladder", Location: "3010 Minnehaha Ave, Minneapolis, MN"},
			url:   u,
			opts:  opts,
		},
		splitter: show.SplitCommaAnd,
	}
}

func (f *feed) Scrape(ctx context.Context, fetcher fetch.Fetcher) ([]*show.Show, error) {
	data, err := fetcher.Bytes(ctx, f.url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s feed: %w", f.slug, err)
	}

	entries, err := calendar.ParseFeed(bytes.NewReader(data), f.location())
	if err != nil {
		return nil, fmt.Errorf("parsing %s feed: %w", f.slug, err)
	}

	shows := make([]*show.Show, 0, len(entries))
	for _, e := range entries {
		sh := f.newShow()
		names := show.SplitBands(f.splitter, e.Summary)
		sh.Bands = show.BandsFromNames(names)
		sh.Headliner, sh.Support = headlinerAndSupport(names)
		if sh.Headliner == "" {
			sh.Headliner = show.NormalizeSpace(e.Summary)
		}
		sh.EventLink = e.URL
		sh.Start = e.Start
		shows = append(shows, sh)
	}

	logger.Debug("Parsed calendar feed", logger.Fields{"source": f.slug, "entries": len(entries)})
	return shows, nil
}

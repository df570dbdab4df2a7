package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/tcupmn/tcup-scrape/internal/show"
)

// Entry is one VEVENT from a venue feed.
type Entry struct {
	UID     string
	Summary string
	URL     string
	// Start is the naive wall-clock start in the venue's time zone.
	Start time.Time
}

var icsLayouts = []string{
	"20060102T150405Z",
	"20060102T150405",
	"20060102T1504",
	"20060102",
}

// ParseFeed reads every VEVENT in r. Start times are converted to loc and
// stored without zone. Events without a usable DTSTART are skipped.
func ParseFeed(r io.Reader, loc *time.Location) ([]Entry, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar: %w", err)
	}

	var entries []Entry
	for _, ev := range cal.Events() {
		start, ok := startOf(ev, loc)
		if !ok {
			continue
		}
		entries = append(entries, Entry{
			UID:     propValue(ev, ics.ComponentPropertyUniqueId),
			Summary: unescapeText(propValue(ev, ics.ComponentPropertySummary)),
			URL:     propValue(ev, ics.ComponentPropertyUrl),
			Start:   start,
		})
	}
	return entries, nil
}

func propValue(ev *ics.VEvent, p ics.ComponentProperty) string {
	prop := ev.GetProperty(p)
	if prop == nil {
		return ""
	}
	return strings.TrimSpace(prop.Value)
}

// startOf resolves DTSTART. UTC values and values with a TZID are converted
// to loc; floating values are already venue-local.
func startOf(ev *ics.VEvent, loc *time.Location) (time.Time, bool) {
	prop := ev.GetProperty(ics.ComponentPropertyDtStart)
	if prop == nil || prop.Value == "" {
		return time.Time{}, false
	}

	in := loc
	if tzids := prop.ICalParameters[string(ics.ParameterTzid)]; len(tzids) > 0 {
		if tz, err := time.LoadLocation(tzids[0]); err == nil {
			in = tz
		}
	}

	value := strings.TrimSpace(prop.Value)
	for _, layout := range icsLayouts {
		var (
			t   time.Time
			err error
		)
		if strings.HasSuffix(layout, "Z") {
			t, err = time.Parse(layout, value)
		} else {
			t, err = time.ParseInLocation(layout, value, in)
		}
		if err == nil {
			return show.Naive(t, loc), true
		}
	}
	return time.Time{}, false
}

func unescapeText(s string) string {
	r := strings.NewReplacer(`\\`, `\`, `\,`, `,`, `\;`, `;`, `\n`, "\n", `\N`, "\n")
	return r.Replace(s)
}

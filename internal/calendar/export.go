package calendar

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/tcupmn/tcup-scrape/internal/show"
)

// DefaultDuration is the assumed length of a show.
const DefaultDuration = 3 * time.Hour

// Export writes shows as an iCalendar. Start values are interpreted as wall
// clock in loc. Shows without a start are skipped.
func Export(w io.Writer, shows []*show.Show, loc *time.Location, now time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//tcup//tcup-scrape//EN")

	for _, s := range shows {
		if !s.HasStart() {
			continue
		}
		start := time.Date(s.Start.Year(), s.Start.Month(), s.Start.Day(),
			s.Start.Hour(), s.Start.Minute(), 0, 0, loc)

		ev := cal.AddEvent(s.Key() + "@tcup-scrape")
		ev.SetDtStampTime(now.UTC())
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(DefaultDuration))
		ev.SetSummary(fmt.Sprintf("%s @ %s", s.BandList(), s.Venue))
		ev.SetLocation(s.Venue)
		if s.EventLink != "" {
			ev.SetURL(s.EventLink)
		}
		ev.SetDescription(description(s))
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	return nil
}

func description(s *show.Show) string {
	d := s.Title()
	if s.Support != "" {
		d += "\nwith " + s.Support
	}
	if s.EventLink != "" {
		d += "\n" + s.EventLink
	}
	return d
}

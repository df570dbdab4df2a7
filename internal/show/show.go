package show

import (
	"crypto/sha1"
	"fmt"
	"strings"
	"time"
)

// Venue is a physical location hosting shows.
type Venue struct {
	Name     string `json:"venue"`
	Location string `json:"location,omitempty"`
}

// Band is a performer extracted from event text.
type Band struct {
	Name        string            `json:"band"`
	SocialLinks map[string]string `json:"social_links,omitempty"` // platform → URL
}

// Show is a single scheduled performance.
type Show struct {
	Venue      string    `json:"venue"`
	Headliner  string    `json:"headliner"`
	Support    string    `json:"support,omitempty"`
	Bands      []Band    `json:"bands"`
	Start      time.Time `json:"start"`
	EventLink  string    `json:"event_link,omitempty"`
	FlyerImage string    `json:"flyer_image,omitempty"`
}

// DedupeKey selects the natural key used to detect an already-stored show.
type DedupeKey int

const (
	// VenueStart treats two shows at the same venue and start as the same show.
	VenueStart DedupeKey = iota
	// HeadlinerStart additionally requires the headliner to match, for venues
	// that list more than one event at the same start time.
	HeadlinerStart
)

func (k DedupeKey) String() string {
	switch k {
	case HeadlinerStart:
		return "headliner+start"
	default:
		return "venue+start"
	}
}

// Key returns a deterministic identifier built from venue, start and headliner.
func (s *Show) Key() string {
	h := sha1.New()
	h.Write([]byte(strings.ToLower(s.Venue) + "|" + s.Start.Format("2006-01-02T15:04") + "|" + strings.ToLower(s.Headliner)))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// HasStart reports whether the start timestamp was parsed.
func (s *Show) HasStart() bool {
	return !s.Start.IsZero()
}

// BandNames returns the names of the show's bands in billing order.
func (s *Show) BandNames() []string {
	names := make([]string, 0, len(s.Bands))
	for _, b := range s.Bands {
		names = append(names, b.Name)
	}
	return names
}

// BandList returns the comma-joined band names stored in shows.bands.
// Falls back to the headliner when no bands were extracted.
func (s *Show) BandList() string {
	if len(s.Bands) == 0 {
		return s.Headliner
	}
	return strings.Join(s.BandNames(), ", ")
}

// Title is a human-readable one-line description used in output and notifications.
func (s *Show) Title() string {
	title := s.BandList()
	if title == "" {
		title = "(untitled)"
	}
	return title
}

// BandsFromNames wraps plain names as Bands without social links.
func BandsFromNames(names []string) []Band {
	bands := make([]Band, 0, len(names))
	for _, n := range names {
		bands = append(bands, Band{Name: n})
	}
	return bands
}

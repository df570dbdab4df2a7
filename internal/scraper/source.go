package scraper

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tcupmn/tcup-scrape/internal/fetch"
	"github.com/tcupmn/tcup-scrape/internal/show"
)

// ErrUnknownSource is returned by Lookup for a slug that is not registered.
var ErrUnknownSource = errors.New("unknown source")

// Source scrapes one venue's listing.
type Source interface {
	Slug() string
	Venue() show.Venue
	URL() string
	Dedupe() show.DedupeKey
	Scrape(ctx context.Context, f fetch.Fetcher) ([]*show.Show, error)
}

// venueCreator is implemented by sources whose shows name their own venue.
type venueCreator interface {
	CreatesVenues() bool
}

// Options carries settings shared by all sources.
type Options struct {
	// Location is the venues' time zone. Defaults to UTC.
	Location *time.Location
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// HookLadderICS is the Hook & Ladder feed URL or local file.
	HookLadderICS string
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

// now returns the current time in the venues' zone.
func (o Options) now() time.Time {
	n := time.Now
	if o.Now != nil {
		n = o.Now
	}
	return n().In(o.location())
}

type base struct {
	slug   string
	venue  show.Venue
	url    string
	dedupe show.DedupeKey
	opts   Options
}

func (b *base) Slug() string             { return b.slug }
func (b *base) Venue() show.Venue        { return b.venue }
func (b *base) URL() string              { return b.url }
func (b *base) Dedupe() show.DedupeKey   { return b.dedupe }
func (b *base) now() time.Time           { return b.opts.now() }
func (b *base) location() *time.Location { return b.opts.location() }

// newShow starts a show at this source's venue.
func (b *base) newShow() *show.Show {
	return &show.Show{Venue: b.venue.Name}
}

// Registry is the fixed list of venue sources.
type Registry struct {
	sources []Source
	bySlug  map[string]Source
}

// NewRegistry builds every source with opts.
func NewRegistry(opts Options) *Registry {
	sources := []Source{
		newClub331(opts),
		newZhora(opts),
		newCedar(opts),
		newPalmers(opts),
		newBerlin(opts),
		newWhiteSquirrel(opts),
		newHookLadder(opts),
		newMortimers(opts),
		newPilllar(opts),
		newGreenRoom(opts),
		newFirstAve(opts),
	}

	r := &Registry{sources: sources, bySlug: make(map[string]Source, len(sources))}
	for _, s := range sources {
		r.bySlug[s.Slug()] = s
	}
	return r
}

// All returns every source in registration order.
func (r *Registry) All() []Source {
	out := make([]Source, len(r.sources))
	copy(out, r.sources)
	return out
}

// Lookup returns the source with the given slug.
func (r *Registry) Lookup(slug string) (Source, error) {
	s, ok := r.bySlug[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, slug)
	}
	return s, nil
}

// Select resolves slugs in order, rejecting unknown ones.
func (r *Registry) Select(slugs ...string) ([]Source, error) {
	out := make([]Source, 0, len(slugs))
	for _, slug := range slugs {
		s, err := r.Lookup(slug)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Slugs returns the registered slugs sorted alphabetically.
func (r *Registry) Slugs() []string {
	slugs := make([]string, 0, len(r.bySlug))
	for slug := range r.bySlug {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

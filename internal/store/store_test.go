package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/tcupmn/tcup-scrape/internal/show"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), "sqlite://"+filepath.Join(t.TempDir(), "tcup.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func at(day, hour int) time.Time {
	return time.Date(2025, 12, day, hour, 0, 0, 0, time.UTC)
}

func TestOpen_DSN(t *testing.T) {
	tests := []struct {
		dsn     string
		wantErr error
	}{
		{"sqlite://" + filepath.Join(t.TempDir(), "a.db"), nil},
		{"sqlite:" + filepath.Join(t.TempDir(), "b.db"), nil},
		{filepath.Join(t.TempDir(), "c.sqlite"), nil},
		{":memory:", nil},
		{"mysql://root@localhost/tcup", ErrUnsupportedDSN},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			s, err := Open(context.Background(), tt.dsn)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Open(%q) error = %v, want %v", tt.dsn, err, tt.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}

func TestOpen_SchemaIsIdempotent(t *testing.T) {
	path := "sqlite://" + filepath.Join(t.TempDir(), "tcup.db")
	for i := 0; i < 2; i++ {
		s, err := Open(context.Background(), path)
		if err != nil {
			t.Fatalf("Open() #%d error = %v", i+1, err)
		}
		s.Close()
	}
}

func TestRebind(t *testing.T) {
	got := rebind(`SELECT id FROM shows WHERE venue_id = $1 AND start = $2 AND headliner = $12`)
	want := `SELECT id FROM shows WHERE venue_id = ?1 AND start = ?2 AND headliner = ?12`
	if got != want {
		t.Errorf("rebind() = %q, want %q", got, want)
	}
}

func TestRedact(t *testing.T) {
	got := redact("postgres://scraper:secret@db:5432/tcup")
	if got != "postgres://***@db:5432/tcup" {
		t.Errorf("redact() = %q", got)
	}
}

func TestVenues(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, err := s.VenueID(ctx, "The Cedar Cultural Center"); !errors.Is(err, ErrVenueNotFound) {
		t.Fatalf("VenueID() error = %v, want ErrVenueNotFound", err)
	}

	id, err := s.EnsureVenue(ctx, show.Venue{Name: "The Cedar Cultural Center"})
	if err != nil {
		t.Fatalf("EnsureVenue() error = %v", err)
	}
	again, err := s.EnsureVenue(ctx, show.Venue{Name: "The Cedar Cultural Center", Location: "416 Cedar Ave S"})
	if err != nil {
		t.Fatalf("EnsureVenue() second call error = %v", err)
	}
	if again != id {
		t.Errorf("EnsureVenue() ids differ: %d then %d", id, again)
	}

	got, err := s.VenueID(ctx, "The Cedar Cultural Center")
	if err != nil || got != id {
		t.Errorf("VenueID() = %d, %v; want %d", got, err, id)
	}

	venues, err := s.ListVenues(ctx)
	if err != nil {
		t.Fatalf("ListVenues() error = %v", err)
	}
	want := []VenueRecord{{ID: id, Name: "The Cedar Cultural Center", Location: "416 Cedar Ave S"}}
	if diff := cmp.Diff(want, venues); diff != "" {
		t.Errorf("ListVenues() mismatch (-want +got):\n%s", diff)
	}
}

func TestUpsertShow_VenueStart(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	venueID, _ := s.EnsureVenue(ctx, show.Venue{Name: "White Squirrel"})

	first := &show.Show{Venue: "White Squirrel", Headliner: "Hot Dish", Start: at(5, 18)}
	id, outcome, err := s.UpsertShow(ctx, venueID, first, show.VenueStart)
	if err != nil || outcome != Inserted {
		t.Fatalf("UpsertShow() = %v, %v; want Inserted", outcome, err)
	}

	// Same venue and start with a different headliner is still the same show.
	renamed := &show.Show{Venue: "White Squirrel", Headliner: "Hot Dish (early)", Start: at(5, 18)}
	id2, outcome, err := s.UpsertShow(ctx, venueID, renamed, show.VenueStart)
	if err != nil || outcome != Duplicate || id2 != id {
		t.Errorf("UpsertShow() = %d, %v, %v; want %d, Duplicate", id2, outcome, err, id)
	}

	// A missing flyer is back-filled once.
	withFlyer := &show.Show{Venue: "White Squirrel", Headliner: "Hot Dish", Start: at(5, 18), FlyerImage: "https://img/1.jpg"}
	if _, outcome, _ := s.UpsertShow(ctx, venueID, withFlyer, show.VenueStart); outcome != Updated {
		t.Errorf("UpsertShow() with flyer = %v, want Updated", outcome)
	}
	if _, outcome, _ := s.UpsertShow(ctx, venueID, withFlyer, show.VenueStart); outcome != Duplicate {
		t.Errorf("UpsertShow() repeat = %v, want Duplicate", outcome)
	}

	rec, err := s.GetShow(ctx, id)
	if err != nil {
		t.Fatalf("GetShow() error = %v", err)
	}
	if rec.FlyerImage != "https://img/1.jpg" || rec.Headliner != "Hot Dish" {
		t.Errorf("GetShow() = %+v", rec)
	}
}

func TestUpsertShow_HeadlinerStart(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	venueID, _ := s.EnsureVenue(ctx, show.Venue{Name: "331 Club"})

	early := &show.Show{Venue: "331 Club", Headliner: "Jazz Trio", Start: at(6, 21)}
	late := &show.Show{Venue: "331 Club", Headliner: "Punk Night", Start: at(6, 21)}

	if _, outcome, _ := s.UpsertShow(ctx, venueID, early, show.HeadlinerStart); outcome != Inserted {
		t.Errorf("first = %v, want Inserted", outcome)
	}
	if _, outcome, _ := s.UpsertShow(ctx, venueID, late, show.HeadlinerStart); outcome != Inserted {
		t.Errorf("second headliner = %v, want Inserted", outcome)
	}
	if _, outcome, _ := s.UpsertShow(ctx, venueID, early, show.HeadlinerStart); outcome != Duplicate {
		t.Errorf("repeat = %v, want Duplicate", outcome)
	}
}

func TestUpsertBand(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	id, created, err := s.UpsertBand(ctx, show.Band{Name: "Dessa"})
	if err != nil || !created {
		t.Fatalf("UpsertBand() = %v, %v; want created", created, err)
	}

	links := map[string]string{"instagram": "https://instagram.com/dessa"}
	id2, created, err := s.UpsertBand(ctx, show.Band{Name: "Dessa", SocialLinks: links})
	if err != nil || created || id2 != id {
		t.Fatalf("UpsertBand() again = %d, %v, %v; want %d, not created", id2, created, err, id)
	}

	band, err := s.GetBand(ctx, id)
	if err != nil {
		t.Fatalf("GetBand() error = %v", err)
	}
	if diff := cmp.Diff(links, band.SocialLinks); diff != "" {
		t.Errorf("social links not filled (-want +got):\n%s", diff)
	}

	if _, err := s.GetBand(ctx, id+100); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetBand(missing) error = %v, want ErrNotFound", err)
	}
}

func TestIngest(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	if _, err := s.EnsureVenue(ctx, show.Venue{Name: "Palmer's Bar"}); err != nil {
		t.Fatal(err)
	}

	shows := []*show.Show{
		{
			Venue:     "Palmer's Bar",
			Headliner: "Doomtree",
			Bands:     show.BandsFromNames([]string{"Doomtree", "Dessa"}),
			Start:     at(5, 20),
			EventLink: "https://palmers-bar.com/e/1",
		},
		{
			Venue:     "Palmer's Bar",
			Headliner: "Dessa",
			Bands:     show.BandsFromNames([]string{"Dessa"}),
			Start:     at(6, 20),
		},
		{Venue: "Palmer's Bar", Headliner: "No Date"},
		{Venue: "Unknown Room", Headliner: "Lost Band", Start: at(7, 20)},
	}

	rep, err := s.Ingest(ctx, shows, IngestOptions{})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	want := Report{
		Scraped:       4,
		Added:         2,
		MissingStart:  1,
		Failed:        1,
		BandsAdded:    2,
		BandsExisting: 1,
		New:           shows[:2],
	}
	if diff := cmp.Diff(want, rep); diff != "" {
		t.Errorf("Ingest() report mismatch (-want +got):\n%s", diff)
	}

	// The failed show's band must have been rolled back.
	bands, err := s.ListBands(ctx)
	if err != nil {
		t.Fatalf("ListBands() error = %v", err)
	}
	var names []string
	for _, b := range bands {
		names = append(names, b.Name)
	}
	if diff := cmp.Diff([]string{"Dessa", "Doomtree"}, names); diff != "" {
		t.Errorf("ListBands() names mismatch (-want +got):\n%s", diff)
	}

	// A second run finds only duplicates.
	rep, err = s.Ingest(ctx, shows[:2], IngestOptions{})
	if err != nil {
		t.Fatalf("Ingest() second run error = %v", err)
	}
	if rep.Added != 0 || rep.Duplicates != 2 || rep.BandsExisting != 3 {
		t.Errorf("second run report = %+v", rep)
	}
}

func TestIngest_CreateVenues(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	shows := []*show.Show{
		{Venue: "First Avenue", Headliner: "Atmosphere", Start: at(10, 19)},
		{Venue: "7th St Entry", Headliner: "Bad Bad Hats", Start: at(10, 19)},
	}
	rep, err := s.Ingest(ctx, shows, IngestOptions{
		CreateVenues: true,
		Venue:        show.Venue{Name: "First Avenue", Location: "701 N 1st Ave"},
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if rep.Added != 2 || rep.Failed != 0 {
		t.Errorf("report = %+v, want 2 added", rep)
	}

	venues, err := s.ListVenues(ctx)
	if err != nil {
		t.Fatalf("ListVenues() error = %v", err)
	}
	want := []VenueRecord{
		{Name: "7th St Entry", ShowCount: 1},
		{Name: "First Avenue", Location: "701 N 1st Ave", ShowCount: 1},
	}
	if diff := cmp.Diff(want, venues, cmpopts.IgnoreFields(VenueRecord{}, "ID")); diff != "" {
		t.Errorf("ListVenues() mismatch (-want +got):\n%s", diff)
	}
}

func TestIngest_CanceledContext(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Ingest(ctx, []*show.Show{{Venue: "x", Headliner: "y", Start: at(1, 1)}}, IngestOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Ingest() error = %v, want context.Canceled", err)
	}
}

func TestListShows(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	shows := []*show.Show{
		{Venue: "Berlin", Headliner: "Late", Start: at(9, 21), Bands: show.BandsFromNames([]string{"Late", "Opener"})},
		{Venue: "Berlin", Headliner: "Early", Start: at(3, 19)},
		{Venue: "Green Room", Headliner: "Other", Start: at(4, 20)},
	}
	if _, err := s.Ingest(ctx, shows, IngestOptions{CreateVenues: true}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		filter ShowFilter
		want   []string
	}{
		{"all by start", ShowFilter{}, []string{"Early", "Other", "Late"}},
		{"venue case-insensitive", ShowFilter{Venue: "berlin"}, []string{"Early", "Late"}},
		{"from", ShowFilter{From: at(4, 0)}, []string{"Other", "Late"}},
		{"limit", ShowFilter{Limit: 1}, []string{"Early"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := s.ListShows(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListShows() error = %v", err)
			}
			var got []string
			for _, r := range records {
				got = append(got, r.Headliner)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ListShows() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	records, err := s.ListShows(ctx, ShowFilter{Venue: "Berlin", From: at(9, 0)})
	if err != nil || len(records) != 1 {
		t.Fatalf("ListShows() = %v, %v", records, err)
	}
	r := records[0]
	if r.BandList != "Late, Opener" || len(r.Bands) != 2 || !r.Start.Equal(at(9, 21)) {
		t.Errorf("record = %+v", r)
	}

	sh := r.Show()
	if sh.Venue != "Berlin" || sh.Key() != shows[0].Key() {
		t.Errorf("Show() = %+v, key %s want %s", sh, sh.Key(), shows[0].Key())
	}

	if _, err := s.GetShow(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetShow(missing) error = %v, want ErrNotFound", err)
	}
}

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tcupmn/tcup-scrape/internal/show"
)

// BandRef is a band as listed on a show.
type BandRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ShowRecord is a stored show joined with its venue and bands.
type ShowRecord struct {
	ID         int64     `json:"show_id"`
	VenueID    int64     `json:"venue_id"`
	VenueName  string    `json:"venue_name"`
	Location   string    `json:"location,omitempty"`
	Headliner  string    `json:"headliner"`
	Support    string    `json:"support,omitempty"`
	BandList   string    `json:"band_list"`
	Start      time.Time `json:"start"`
	EventLink  string    `json:"event_link,omitempty"`
	FlyerImage string    `json:"flyer_image,omitempty"`
	Bands      []BandRef `json:"bands"`
}

// Show converts the record back to a domain show.
func (r ShowRecord) Show() *show.Show {
	sh := &show.Show{
		Venue:      r.VenueName,
		Headliner:  r.Headliner,
		Support:    r.Support,
		Start:      r.Start,
		EventLink:  r.EventLink,
		FlyerImage: r.FlyerImage,
	}
	for _, b := range r.Bands {
		sh.Bands = append(sh.Bands, show.Band{Name: b.Name})
	}
	return sh
}

// BandRecord is a stored band with the number of shows it is linked to.
type BandRecord struct {
	ID          int64             `json:"id"`
	Name        string            `json:"band"`
	SocialLinks map[string]string `json:"social_links,omitempty"`
	ShowCount   int64             `json:"show_count"`
	Shows       []ShowRecord      `json:"shows,omitempty"`
}

// VenueRecord is a stored venue with its show count.
type VenueRecord struct {
	ID        int64  `json:"id"`
	Name      string `json:"venue"`
	Location  string `json:"location,omitempty"`
	ShowCount int64  `json:"show_count"`
}

// ShowFilter narrows ListShows. Zero fields are ignored.
type ShowFilter struct {
	ID     int64
	Venue  string
	BandID int64
	// From keeps shows starting at or after this naive wall-clock time.
	From  time.Time
	Limit int
}

func (f ShowFilter) where() (string, []any) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if f.ID != 0 {
		add("s.id = $%d", f.ID)
	}
	if f.Venue != "" {
		add("LOWER(v.venue) = LOWER($%d)", f.Venue)
	}
	if f.BandID != 0 {
		add("s.id IN (SELECT show_id FROM show_bands WHERE band_id = $%d)", f.BandID)
	}
	if !f.From.IsZero() {
		add("s.start >= $%d", f.From)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// ListShows returns shows ordered by start time.
func (s *Store) ListShows(ctx context.Context, f ShowFilter) ([]ShowRecord, error) {
	where, args := f.where()

	q := `SELECT s.id, s.venue_id, v.venue, COALESCE(v.location, ''), COALESCE(s.headliner, ''),
		COALESCE(s.support, ''), COALESCE(s.bands, ''), s.start, COALESCE(s.event_link, ''),
		COALESCE(s.flyer_image, '')
		FROM shows s JOIN venues v ON v.id = s.venue_id` + where + ` ORDER BY s.start, s.id`
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rs, err := s.db.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shows: %w", err)
	}
	defer rs.Close()

	var (
		records []ShowRecord
		index   = map[int64]int{}
	)
	for rs.Next() {
		var r ShowRecord
		if err := rs.Scan(&r.ID, &r.VenueID, &r.VenueName, &r.Location, &r.Headliner,
			&r.Support, &r.BandList, &r.Start, &r.EventLink, &r.FlyerImage); err != nil {
			return nil, fmt.Errorf("failed to scan show: %w", err)
		}
		r.Start = show.Naive(r.Start, nil)
		r.Bands = []BandRef{}
		index[r.ID] = len(records)
		records = append(records, r)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("failed to list shows: %w", err)
	}
	rs.Close()

	if len(records) == 0 {
		return records, nil
	}
	if err := s.attachBands(ctx, where, args, records, index); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) attachBands(ctx context.Context, where string, args []any, records []ShowRecord, index map[int64]int) error {
	q := `SELECT sb.show_id, b.id, b.band
		FROM show_bands sb
		JOIN bands b ON b.id = sb.band_id
		JOIN shows s ON s.id = sb.show_id
		JOIN venues v ON v.id = s.venue_id` + where + ` ORDER BY sb.show_id, b.id`

	rs, err := s.db.query(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("failed to list show bands: %w", err)
	}
	defer rs.Close()

	for rs.Next() {
		var (
			showID int64
			b      BandRef
		)
		if err := rs.Scan(&showID, &b.ID, &b.Name); err != nil {
			return fmt.Errorf("failed to scan show band: %w", err)
		}
		if i, ok := index[showID]; ok {
			records[i].Bands = append(records[i].Bands, b)
		}
	}
	return rs.Err()
}

// GetShow returns one show by id.
func (s *Store) GetShow(ctx context.Context, id int64) (*ShowRecord, error) {
	records, err := s.ListShows(ctx, ShowFilter{ID: id})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("show %d: %w", id, ErrNotFound)
	}
	return &records[0], nil
}

// ListBands returns all bands ordered by name.
func (s *Store) ListBands(ctx context.Context) ([]BandRecord, error) {
	rs, err := s.db.query(ctx, `SELECT b.id, b.band, COALESCE(b.social_links, ''), COUNT(sb.show_id)
		FROM bands b LEFT JOIN show_bands sb ON sb.band_id = b.id
		GROUP BY b.id, b.band, b.social_links
		ORDER BY LOWER(b.band)`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bands: %w", err)
	}
	defer rs.Close()

	var bands []BandRecord
	for rs.Next() {
		var (
			b     BandRecord
			links string
		)
		if err := rs.Scan(&b.ID, &b.Name, &links, &b.ShowCount); err != nil {
			return nil, fmt.Errorf("failed to scan band: %w", err)
		}
		b.SocialLinks = decodeLinks(links)
		bands = append(bands, b)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("failed to list bands: %w", err)
	}
	return bands, nil
}

// GetBand returns one band by id together with its shows.
func (s *Store) GetBand(ctx context.Context, id int64) (*BandRecord, error) {
	var (
		b     = BandRecord{ID: id}
		links string
	)
	err := s.db.queryRow(ctx,
		`SELECT band, COALESCE(social_links, '') FROM bands WHERE id = $1`, id).Scan(&b.Name, &links)
	if isNoRows(err) {
		return nil, fmt.Errorf("band %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get band %d: %w", id, err)
	}
	b.SocialLinks = decodeLinks(links)

	b.Shows, err = s.ListShows(ctx, ShowFilter{BandID: id})
	if err != nil {
		return nil, err
	}
	b.ShowCount = int64(len(b.Shows))
	return &b, nil
}

// ListVenues returns all venues ordered by name.
func (s *Store) ListVenues(ctx context.Context) ([]VenueRecord, error) {
	rs, err := s.db.query(ctx, `SELECT v.id, v.venue, COALESCE(v.location, ''), COUNT(s.id)
		FROM venues v LEFT JOIN shows s ON s.venue_id = v.id
		GROUP BY v.id, v.venue, v.location
		ORDER BY v.venue`)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	defer rs.Close()

	var venues []VenueRecord
	for rs.Next() {
		var v VenueRecord
		if err := rs.Scan(&v.ID, &v.Name, &v.Location, &v.ShowCount); err != nil {
			return nil, fmt.Errorf("failed to scan venue: %w", err)
		}
		venues = append(venues, v)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	return venues, nil
}

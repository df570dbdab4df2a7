package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/tcupmn/tcup-scrape/internal/logger"
	"github.com/tcupmn/tcup-scrape/internal/show"
)

// Outcome is what UpsertShow did with a show.
type Outcome int

const (
	// Inserted means no stored show had the same natural key.
	Inserted Outcome = iota
	// Updated means a stored show had a missing flyer image or event link filled in.
	Updated
	// Duplicate means a stored show already had everything.
	Duplicate
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	default:
		return "duplicate"
	}
}

// UpsertShow stores sh under venueID unless a show with the same natural
// key exists. key selects the natural key.
func (s *Store) UpsertShow(ctx context.Context, venueID int64, sh *show.Show, key show.DedupeKey) (int64, Outcome, error) {
	return upsertShow(ctx, s.db, venueID, sh, key)
}

func upsertShow(ctx context.Context, q querier, venueID int64, sh *show.Show, key show.DedupeKey) (int64, Outcome, error) {
	var (
		id           int64
		flyer, link  string
		err          error
		lookupByName = key == show.HeadlinerStart
	)

	if lookupByName {
		err = q.queryRow(ctx,
			`SELECT id, COALESCE(flyer_image, ''), COALESCE(event_link, '') FROM shows
			 WHERE venue_id = $1 AND start = $2 AND headliner = $3`,
			venueID, sh.Start, sh.Headliner).Scan(&id, &flyer, &link)
	} else {
		err = q.queryRow(ctx,
			`SELECT id, COALESCE(flyer_image, ''), COALESCE(event_link, '') FROM shows
			 WHERE venue_id = $1 AND start = $2`,
			venueID, sh.Start).Scan(&id, &flyer, &link)
	}

	switch {
	case err == nil:
		return backfillShow(ctx, q, id, sh, flyer, link)
	case !isNoRows(err):
		return 0, 0, fmt.Errorf("failed to look up show: %w", err)
	}

	err = q.queryRow(ctx,
		`INSERT INTO shows (venue_id, headliner, support, bands, start, event_link, flyer_image)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		venueID, nullable(sh.Headliner), nullable(sh.Support), nullable(sh.BandList()),
		sh.Start, nullable(sh.EventLink), nullable(sh.FlyerImage)).Scan(&id)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to insert show: %w", err)
	}
	return id, Inserted, nil
}

func backfillShow(ctx context.Context, q querier, id int64, sh *show.Show, flyer, link string) (int64, Outcome, error) {
	newFlyer := flyer == "" && sh.FlyerImage != ""
	newLink := link == "" && sh.EventLink != ""
	if !newFlyer && !newLink {
		return id, Duplicate, nil
	}

	if newFlyer {
		flyer = sh.FlyerImage
	}
	if newLink {
		link = sh.EventLink
	}
	err := q.exec(ctx, `UPDATE shows SET flyer_image = $1, event_link = $2 WHERE id = $3`,
		nullable(flyer), nullable(link), id)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to update show %d: %w", id, err)
	}
	return id, Updated, nil
}

// IngestOptions controls Ingest.
type IngestOptions struct {
	// Dedupe selects the natural key for duplicate detection.
	Dedupe show.DedupeKey
	// CreateVenues registers unknown venues instead of failing their shows.
	CreateVenues bool
	// Venue is the scraped source's own venue. Its location is stored only
	// when a show at that venue creates it; other venues are created
	// without a location.
	Venue show.Venue
}

// locationFor returns the location to store for a venue created by sh.
func (o IngestOptions) locationFor(sh *show.Show) string {
	if o.Venue.Name != "" && sh.Venue == o.Venue.Name {
		return o.Venue.Location
	}
	return ""
}

// Report summarizes one Ingest call.
type Report struct {
	Scraped       int          `json:"scraped"`
	Added         int          `json:"added"`
	Updated       int          `json:"updated"`
	Duplicates    int          `json:"duplicates"`
	MissingStart  int          `json:"missing_start"`
	Failed        int          `json:"failed"`
	BandsAdded    int          `json:"bands_added"`
	BandsExisting int          `json:"bands_existing"`
	New           []*show.Show `json:"new,omitempty"`
}

// Merge adds other's counts to r.
func (r *Report) Merge(other Report) {
	r.Scraped += other.Scraped
	r.Added += other.Added
	r.Updated += other.Updated
	r.Duplicates += other.Duplicates
	r.MissingStart += other.MissingStart
	r.Failed += other.Failed
	r.BandsAdded += other.BandsAdded
	r.BandsExisting += other.BandsExisting
	r.New = append(r.New, other.New...)
}

// Ingest writes shows one transaction at a time. Shows without a start are
// skipped. A show that fails is rolled back, counted and logged, and the
// remaining shows are still written. The returned error is non-nil only when
// ctx is canceled.
func (s *Store) Ingest(ctx context.Context, shows []*show.Show, opts IngestOptions) (Report, error) {
	rep := Report{Scraped: len(shows)}

	for _, sh := range shows {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if !sh.HasStart() {
			rep.MissingStart++
			logger.Debug("Skipping show without start", logger.Fields{"venue": sh.Venue, "headliner": sh.Headliner})
			continue
		}

		res, err := s.ingestOne(ctx, sh, opts)
		if err != nil {
			rep.Failed++
			logger.Error("Failed to store show", logger.Fields{
				"venue":     sh.Venue,
				"headliner": sh.Headliner,
				"start":     sh.Start.Format("2006-01-02 15:04"),
			}, err)
			continue
		}

		switch res.outcome {
		case Inserted:
			rep.Added++
			rep.New = append(rep.New, sh)
		case Updated:
			rep.Updated++
		case Duplicate:
			rep.Duplicates++
		}
		rep.BandsAdded += res.bandsAdded
		rep.BandsExisting += res.bandsExisting

		logger.Debug("Stored show", logger.Fields{
			"venue":   sh.Venue,
			"show_id": res.showID,
			"outcome": res.outcome.String(),
			"key":     sh.Key(),
		})
	}
	return rep, nil
}

type ingestResult struct {
	showID        int64
	outcome       Outcome
	bandsAdded    int
	bandsExisting int
}

func (s *Store) ingestOne(ctx context.Context, sh *show.Show, opts IngestOptions) (res ingestResult, err error) {
	t, err := s.db.begin(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := t.rollback(ctx); rbErr != nil {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
		}
	}()

	var vid int64
	if opts.CreateVenues {
		vid, err = ensureVenue(ctx, t, show.Venue{Name: sh.Venue, Location: opts.locationFor(sh)})
	} else {
		vid, err = venueID(ctx, t, sh.Venue)
	}
	if err != nil {
		return res, err
	}

	res.showID, res.outcome, err = upsertShow(ctx, t, vid, sh, opts.Dedupe)
	if err != nil {
		return res, err
	}

	for _, b := range bandsOf(sh) {
		bandID, created, err := upsertBand(ctx, t, b)
		if err != nil {
			return res, err
		}
		if created {
			res.bandsAdded++
		} else {
			res.bandsExisting++
		}
		if err := linkBand(ctx, t, bandID, res.showID); err != nil {
			return res, err
		}
	}

	if err = t.commit(ctx); err != nil {
		return res, fmt.Errorf("failed to commit: %w", err)
	}
	return res, nil
}

// bandsOf returns the show's bands, or its headliner when none were extracted.
func bandsOf(sh *show.Show) []show.Band {
	if len(sh.Bands) > 0 {
		return sh.Bands
	}
	if show.IsValidBandName(sh.Headliner) {
		return []show.Band{{Name: sh.Headliner}}
	}
	return nil
}

package scraper

import (
	"context"
	"time"

	"github.com/tcupmn/tcup-scrape/internal/fetch"
	"github.com/tcupmn/tcup-scrape/internal/logger"
	"github.com/tcupmn/tcup-scrape/internal/show"
	"github.com/tcupmn/tcup-scrape/internal/store"
)

// Ingester stores scraped shows. *store.Store implements it.
type Ingester interface {
	Ingest(ctx context.Context, shows []*show.Show, opts store.IngestOptions) (store.Report, error)
}

// Result is the outcome of scraping one source.
type Result struct {
	Source   string        `json:"source"`
	Venue    string        `json:"venue"`
	Shows    []*show.Show  `json:"shows,omitempty"`
	Report   store.Report  `json:"report"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`

	Err error `json:"-"`
}

// Runner scrapes sources one after another and stores what they find.
type Runner struct {
	Fetcher fetch.Fetcher
	Store   Ingester
	// DryRun scrapes without storing.
	DryRun bool
	// CreateVenues registers venues that are not yet in the database.
	CreateVenues bool
}

// Run scrapes each source in order. A source that fails is logged and
// recorded in its Result; the run moves on to the next source. Run stops
// early only when ctx is canceled.
func (r *Runner) Run(ctx context.Context, sources []Source) []Result {
	results := make([]Result, 0, len(sources))
	for _, src := range sources {
		if ctx.Err() != nil {
			break
		}
		results = append(results, r.runOne(ctx, src))
	}
	return results
}

func (r *Runner) runOne(ctx context.Context, src Source) Result {
	start := time.Now()
	res := Result{Source: src.Slug(), Venue: src.Venue().Name}
	log := logger.Default().With(logger.Fields{"source": src.Slug()})

	log.Info("Scraping venue", logger.Fields{"url": src.URL()})
	shows, err := src.Scrape(ctx, r.Fetcher)
	if err != nil {
		return r.fail(log, res, start, err)
	}
	res.Shows = shows
	res.Report.Scraped = len(shows)

	if !r.DryRun && r.Store != nil {
		create := r.CreateVenues
		if vc, ok := src.(venueCreator); ok && vc.CreatesVenues() {
			create = true
		}
		rep, err := r.Store.Ingest(ctx, shows, store.IngestOptions{
			Dedupe:       src.Dedupe(),
			CreateVenues: create,
			Venue:        src.Venue(),
		})
		res.Report = rep
		if err != nil {
			return r.fail(log, res, start, err)
		}
	}

	res.Duration = time.Since(start)
	log.Info("Scraped venue", logger.Fields{
		"shows":         res.Report.Scraped,
		"added":         res.Report.Added,
		"updated":       res.Report.Updated,
		"duplicates":    res.Report.Duplicates,
		"missing_start": res.Report.MissingStart,
		"failed":        res.Report.Failed,
		"duration_ms":   res.Duration.Milliseconds(),
	})
	return res
}

func (r *Runner) fail(log *logger.Logger, res Result, start time.Time, err error) Result {
	res.Err = err
	res.Error = err.Error()
	res.Duration = time.Since(start)
	log.Error("Venue scrape failed", nil, err)
	return res
}

// Totals sums the reports of all results.
func Totals(results []Result) store.Report {
	var total store.Report
	for _, r := range results {
		total.Merge(r.Report)
	}
	return total
}

// Failed counts results whose source failed.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

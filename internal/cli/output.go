package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/tcupmn/tcup-scrape/internal/scraper"
	"github.com/tcupmn/tcup-scrape/internal/show"
	"github.com/tcupmn/tcup-scrape/internal/store"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

func parseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
}

// ScrapeSummary is the outcome of a scrape run.
type ScrapeSummary struct {
	CheckedAt     time.Time        `json:"checked_at"`
	DryRun        bool             `json:"dry_run,omitempty"`
	Sources       []scraper.Result `json:"sources"`
	Total         store.Report     `json:"total"`
	FailedSources int              `json:"failed_sources"`
}

func newScrapeSummary(now time.Time, dryRun bool, results []scraper.Result) *ScrapeSummary {
	return &ScrapeSummary{
		CheckedAt:     now.UTC(),
		DryRun:        dryRun,
		Sources:       results,
		Total:         scraper.Totals(results),
		FailedSources: scraper.Failed(results),
	}
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeScrape writes the per-source table followed by the new shows.
func writeScrape(w io.Writer, s *ScrapeSummary, format OutputFormat, verbose bool) error {
	if format == FormatJSON {
		return writeJSON(w, s)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Source", "Venue", "Scraped", "Added", "Updated", "Duplicates", "No start", "Failed", "Error"})
	for _, r := range s.Sources {
		t.AppendRow(table.Row{
			r.Source, r.Venue, r.Report.Scraped, r.Report.Added, r.Report.Updated,
			r.Report.Duplicates, r.Report.MissingStart, r.Report.Failed, r.Error,
		})
	}
	t.AppendFooter(table.Row{
		"Total", "", s.Total.Scraped, s.Total.Added, s.Total.Updated,
		s.Total.Duplicates, s.Total.MissingStart, s.Total.Failed, "",
	})
	t.Render()

	if s.DryRun {
		fmt.Fprintln(w, "\nDry run: nothing was written to the database.")
		if verbose {
			for _, r := range s.Sources {
				for _, sh := range r.Shows {
					fmt.Fprintf(w, "  %s\n", showLine(sh))
				}
			}
		}
		return nil
	}

	if len(s.Total.New) == 0 {
		fmt.Fprintln(w, "\nNo new shows found.")
		return nil
	}
	fmt.Fprintln(w)
	for _, sh := range s.Total.New {
		fmt.Fprintf(w, "NEW: %s\n", showLine(sh))
	}
	fmt.Fprintf(w, "\nTotal: %d new, %d new bands\n", s.Total.Added, s.Total.BandsAdded)
	return nil
}

func showLine(sh *show.Show) string {
	return fmt.Sprintf("%s | %s | %s", startText(sh.Start), sh.Venue, sh.Title())
}

func startText(t time.Time) string {
	if t.IsZero() {
		return "no date"
	}
	return t.Format("Mon Jan 2 2006 3:04 PM")
}

func writeShows(w io.Writer, records []store.ShowRecord, format OutputFormat) error {
	if format == FormatJSON {
		if records == nil {
			records = []store.ShowRecord{}
		}
		return writeJSON(w, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "No shows found.")
		return nil
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Date", "Venue", "Headliner", "Bands"})
	for _, r := range records {
		t.AppendRow(table.Row{r.ID, startText(r.Start), r.VenueName, r.Headliner, r.BandList})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", len(records)})
	t.Render()
	return nil
}

// sourceInfo describes a registered source.
type sourceInfo struct {
	Slug     string `json:"source"`
	Venue    string `json:"venue"`
	Location string `json:"location,omitempty"`
	Dedupe   string `json:"dedupe"`
	URL      string `json:"url"`
}

func writeSources(w io.Writer, sources []scraper.Source, format OutputFormat) error {
	infos := make([]sourceInfo, 0, len(sources))
	for _, s := range sources {
		infos = append(infos, sourceInfo{
			Slug:     s.Slug(),
			Venue:    s.Venue().Name,
			Location: s.Venue().Location,
			Dedupe:   s.Dedupe().String(),
			URL:      s.URL(),
		})
	}
	if format == FormatJSON {
		return writeJSON(w, infos)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Source", "Venue", "Location", "Dedupe", "URL"})
	for _, i := range infos {
		t.AppendRow(table.Row{i.Slug, i.Venue, i.Location, i.Dedupe, i.URL})
	}
	t.Render()
	return nil
}

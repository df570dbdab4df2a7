// Command tcup-announce posts the new shows from a `tcup-scrape scrape
// --format json` report, read from a file or stdin.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/tcupmn/tcup-scrape/internal/notifier"
	"github.com/tcupmn/tcup-scrape/internal/show"
)

var (
	reportFile  = flag.String("report-file", "", "Path to scrape report JSON (or read from stdin)")
	kind        = flag.String("notifier", notifier.KindTwitter, "Notifier: twitter, telegram or dry-run")
	dryRun      = flag.Bool("dry-run", false, "Print announcements without posting")
	maxPosts    = flag.Int("max-posts", 10, "Maximum number of shows to announce")
	venueFilter = flag.String("venue", "", "Only announce shows at this venue")
)

// report is the part of the scrape report this command reads.
type report struct {
	Total struct {
		New []*show.Show `json:"new"`
	} `json:"total"`
}

func main() {
	flag.Parse()
	if *maxPosts < 0 {
		fmt.Fprintf(os.Stderr, "Error: -max-posts must not be negative (got %d)\n", *maxPosts)
		os.Exit(1)
	}

	shows, err := readShows(*reportFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading report: %v\n", err)
		os.Exit(1)
	}

	shows = limit(filterByVenue(shows, *venueFilter), *maxPosts)
	if len(shows) == 0 {
		fmt.Println("No new shows to announce")
		os.Exit(0)
	}

	k := *kind
	if *dryRun {
		k = notifier.KindDryRun
		fmt.Printf("DRY RUN MODE - Would announce %d shows:\n\n", len(shows))
	}
	n, err := notifier.New(k, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing notifier: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := n.Notify(ctx, shows); err != nil {
		fmt.Fprintf(os.Stderr, "Error announcing shows: %v\n", err)
		os.Exit(1)
	}
	if !*dryRun {
		fmt.Printf("Successfully announced %d shows\n", len(shows))
	}
}

func readShows(path string) ([]*show.Show, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return decodeReport(r)
}

func decodeReport(r io.Reader) ([]*show.Show, error) {
	var rep report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return rep.Total.New, nil
}

func filterByVenue(shows []*show.Show, venue string) []*show.Show {
	if venue == "" {
		return shows
	}
	filtered := make([]*show.Show, 0, len(shows))
	for _, s := range shows {
		if strings.EqualFold(s.Venue, venue) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// limit keeps at most n shows. A negative n keeps none.
func limit(shows []*show.Show, n int) []*show.Show {
	if n < 0 {
		n = 0
	}
	if len(shows) > n {
		return shows[:n]
	}
	return shows
}

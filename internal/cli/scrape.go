package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tcupmn/tcup-scrape/internal/logger"
	"github.com/tcupmn/tcup-scrape/internal/notifier"
	"github.com/tcupmn/tcup-scrape/internal/scraper"
)

type scrapeOptions struct {
	all          bool
	dryRun       bool
	createVenues bool
	format       string
	notify       string
}

func (a *app) newScrapeCmd() *cobra.Command {
	var o scrapeOptions
	cmd := &cobra.Command{
		Use:   "scrape [source...]",
		Short: "Scrape venue calendars and store new shows",
		Long: `Scrape one or more venues by source name, or every venue with --all.
Sources run one after another; a failing source is reported and the run
continues. Exits 2 when new shows were added, 1 when a source failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScrape(cmd.Context(), args, o)
		},
	}

	cmd.Flags().BoolVar(&o.all, "all", false, "Scrape every registered source")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "Scrape without writing to the database")
	cmd.Flags().BoolVar(&o.createVenues, "create-venues", false, "Register venues missing from the database")
	cmd.Flags().StringVar(&o.format, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&o.notify, "notify", notifier.KindNone, "Announce new shows: none, dry-run, twitter or telegram")
	return cmd
}

func (a *app) selectSources(slugs []string, all bool) ([]scraper.Source, error) {
	reg := a.registry()
	switch {
	case all && len(slugs) > 0:
		return nil, errors.New("pass source names or --all, not both")
	case all:
		return reg.All(), nil
	case len(slugs) == 0:
		return nil, fmt.Errorf("name at least one source (%s) or pass --all", strings.Join(reg.Slugs(), ", "))
	default:
		return reg.Select(slugs...)
	}
}

func (a *app) runScrape(ctx context.Context, slugs []string, o scrapeOptions) error {
	format, err := parseFormat(o.format)
	if err != nil {
		return err
	}

	sources, err := a.selectSources(slugs, o.all)
	if err != nil {
		return err
	}

	// Keep JSON on stdout parseable.
	var notifyOut io.Writer = a.out
	if format == FormatJSON {
		notifyOut = a.errOut
	}
	n, err := notifier.New(o.notify, notifyOut)
	if err != nil {
		return err
	}

	runner := &scraper.Runner{DryRun: o.dryRun, CreateVenues: o.createVenues}
	if !o.dryRun {
		st, err := a.openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		runner.Store = st
	}

	f, closeFetcher := a.newFetcher(a.cfg)
	defer func() {
		if err := closeFetcher(); err != nil {
			logger.Warn("Closing fetcher failed", logger.Fields{"error": err.Error()})
		}
	}()
	runner.Fetcher = f

	results := runner.Run(ctx, sources)
	if err := ctx.Err(); err != nil {
		return err
	}

	summary := newScrapeSummary(a.now(), o.dryRun, results)
	if err := writeScrape(a.out, summary, format, a.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if err := n.Notify(ctx, summary.Total.New); err != nil {
		return fmt.Errorf("announcing new shows: %w", err)
	}

	return scrapeExit(summary)
}

// scrapeExit reports new shows first, then failed sources.
func scrapeExit(s *ScrapeSummary) error {
	switch {
	case s.Total.Added > 0:
		return exitCode(ExitNewShows)
	case s.FailedSources > 0:
		return exitCode(ExitError)
	default:
		return nil
	}
}

// Package cli implements the tcup-scrape command line.
//
// The root command loads configuration from .env and the environment, then
// dispatches to subcommands that scrape venue calendars into the database
// (scrape), list the registered sources (venues), query stored shows (shows),
// write an iCalendar file (export) and serve the read-only JSON API (serve).
//
// scrape exits with ExitNewShows when at least one show was added, so cron
// jobs and CI can react to new listings.
package cli

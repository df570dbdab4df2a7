package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tcupmn/tcup-scrape/internal/config"
	"github.com/tcupmn/tcup-scrape/internal/fetch"
	"github.com/tcupmn/tcup-scrape/internal/logger"
	"github.com/tcupmn/tcup-scrape/internal/scraper"
	"github.com/tcupmn/tcup-scrape/internal/store"
)

const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitNewShows = 2
)

// exitCode ends a command with a status but no error message.
type exitCode int

func (c exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(c))
}

// app is the state shared by all subcommands.
type app struct {
	out    io.Writer
	errOut io.Writer

	envFile string
	dsn     string
	verbose bool

	cfg *config.Config
	now func() time.Time
	// newFetcher builds the page fetcher and its cleanup.
	newFetcher func(cfg *config.Config) (fetch.Fetcher, func() error)
}

// NewRootCmd creates the root command writing to out and errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	return newRootCmd(&app{
		out:        out,
		errOut:     errOut,
		now:        time.Now,
		newFetcher: defaultFetcher,
	})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tcup-scrape",
		Short: "Scrape Twin Cities venue calendars into a show database",
		Long: `tcup-scrape reads the event listings of Twin Cities music venues,
normalizes them into shows and bands, and stores them in PostgreSQL or SQLite.
Shows already stored are detected and skipped, so runs can be repeated.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)

	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "Path to an optional .env file")
	cmd.PersistentFlags().StringVar(&a.dsn, "db", "", "Database DSN (overrides DATABASE_URL and DB_*)")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		a.newScrapeCmd(),
		a.newVenuesCmd(),
		a.newShowsCmd(),
		a.newExportCmd(),
		a.newServeCmd(),
	)
	return cmd
}

// setup loads configuration and configures the default logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	a.cfg = cfg

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	l := logger.New(level, a.errOut)
	if a.verbose {
		l.SetLevel(logger.LevelDebug)
	}
	logger.SetDefault(l)
	return nil
}

func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	dsn := a.dsn
	if dsn == "" {
		var err error
		if dsn, err = a.cfg.DSN(); err != nil {
			return nil, err
		}
	}
	st, err := store.Open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return st, nil
}

func (a *app) registry() *scraper.Registry {
	return scraper.NewRegistry(scraper.Options{
		Location:      a.cfg.Location,
		Now:           a.now,
		HookLadderICS: a.cfg.HookLadderICS,
	})
}

// defaultFetcher routes plain requests over HTTP and rendered ones to Chrome.
func defaultFetcher(cfg *config.Config) (fetch.Fetcher, func() error) {
	router := fetch.NewRouter(
		fetch.NewHTTP(fetch.HTTPOptions{
			UserAgent: cfg.UserAgent,
			Delay:     cfg.RequestDelay,
		}),
		fetch.NewBrowser(fetch.BrowserOptions{
			Bin:        cfg.ChromeBin,
			ControlURL: cfg.ChromeDebuggerURL,
			Headless:   cfg.Headless,
		}),
	)
	return router, router.Close
}

// Execute runs the CLI and returns the process exit status.
func Execute(ctx context.Context) int {
	err := NewRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)

	var code exitCode
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &code):
		return int(code)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
}

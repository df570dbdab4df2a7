package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tcupmn/tcup-scrape/internal/calendar"
	"github.com/tcupmn/tcup-scrape/internal/show"
	"github.com/tcupmn/tcup-scrape/internal/store"
)

type showsOptions struct {
	venue    string
	upcoming bool
	sort     string
	format   string
	limit    int
}

func (a *app) newShowsCmd() *cobra.Command {
	var o showsOptions
	cmd := &cobra.Command{
		Use:   "shows",
		Short: "List stored shows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShows(cmd.Context(), o)
		},
	}
	cmd.Flags().StringVar(&o.venue, "venue", "", "Only shows at this venue")
	cmd.Flags().BoolVar(&o.upcoming, "upcoming", false, "Only shows starting from now")
	cmd.Flags().StringVar(&o.sort, "sort", string(SortByDate), "Sort by: date, venue or headliner")
	cmd.Flags().StringVar(&o.format, "format", "text", "Output format: text or json")
	cmd.Flags().IntVar(&o.limit, "limit", 0, "Maximum number of shows (0 for no limit)")
	return cmd
}

func (a *app) runShows(ctx context.Context, o showsOptions) error {
	format, err := parseFormat(o.format)
	if err != nil {
		return err
	}
	order, err := parseSort(o.sort)
	if err != nil {
		return err
	}

	records, err := a.listShows(ctx, o.venue, o.upcoming, o.limit)
	if err != nil {
		return err
	}
	sortShows(records, order)
	return writeShows(a.out, records, format)
}

func (a *app) listShows(ctx context.Context, venue string, upcoming bool, limit int) ([]store.ShowRecord, error) {
	st, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	f := store.ShowFilter{Venue: venue, Limit: limit}
	if upcoming {
		f.From = show.Naive(a.now(), a.cfg.Location)
	}
	records, err := st.ListShows(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listing shows: %w", err)
	}
	return records, nil
}

type exportOptions struct {
	out   string
	venue string
	past  bool
}

func (a *app) newExportCmd() *cobra.Command {
	var o exportOptions
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write stored shows as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExport(cmd.Context(), o)
		},
	}
	cmd.Flags().StringVar(&o.out, "out", "-", "Output file, or - for stdout")
	cmd.Flags().StringVar(&o.venue, "venue", "", "Only shows at this venue")
	cmd.Flags().BoolVar(&o.past, "past", false, "Include shows that already started")
	return cmd
}

func (a *app) runExport(ctx context.Context, o exportOptions) (err error) {
	records, err := a.listShows(ctx, o.venue, false, 0)
	if err != nil {
		return err
	}
	sortShows(records, SortByDate)

	now := a.now()
	shows := make([]*show.Show, 0, len(records))
	for _, r := range records {
		sh := r.Show()
		if !o.past && !sh.IsUpcoming(now, a.cfg.Location) {
			continue
		}
		shows = append(shows, sh)
	}

	var w io.Writer = a.out
	if o.out != "-" {
		var f *os.File
		if f, err = os.Create(o.out); err != nil {
			return fmt.Errorf("creating %s: %w", o.out, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing %s: %w", o.out, cerr)
			}
		}()
		w = f
	}

	if err := calendar.Export(w, shows, a.cfg.Location, now); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	if o.out != "-" {
		fmt.Fprintf(a.errOut, "Wrote %d shows to %s\n", len(shows), o.out)
	}
	return nil
}

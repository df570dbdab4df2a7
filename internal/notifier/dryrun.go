package notifier

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/tcupmn/tcup-scrape/internal/show"
)

// DryRunNotifier prints what would be posted without posting it.
type DryRunNotifier struct {
	w io.Writer
}

// NewDryRunNotifier creates a dry-run notifier writing to w.
func NewDryRunNotifier(w io.Writer) *DryRunNotifier {
	return &DryRunNotifier{w: w}
}

// Notify prints each message.
func (n *DryRunNotifier) Notify(ctx context.Context, shows []*show.Show) error {
	for i, s := range shows {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := FormatMessage(s)
		fmt.Fprintf(n.w, "--- Announcement %d/%d ---\n", i+1, len(shows))
		fmt.Fprintln(n.w, msg)
		fmt.Fprintf(n.w, "\n(Length: %d characters)\n\n", utf8.RuneCountInString(msg))
	}
	return nil
}

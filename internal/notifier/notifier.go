package notifier

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/tcupmn/tcup-scrape/internal/show"
)

// MaxLength is the longest message any notifier sends.
const MaxLength = 280

// Notifier announces shows.
type Notifier interface {
	// Notify posts one announcement per show.
	Notify(ctx context.Context, shows []*show.Show) error
}

// Notifier kinds accepted by New.
const (
	KindNone     = "none"
	KindDryRun   = "dry-run"
	KindTwitter  = "twitter"
	KindTelegram = "telegram"
)

// New returns the notifier for kind. Dry-run output goes to w.
func New(kind string, w io.Writer) (Notifier, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindNone:
		return None{}, nil
	case KindDryRun:
		return NewDryRunNotifier(w), nil
	case KindTwitter:
		n, err := NewTwitterNotifier()
		if err != nil {
			return nil, err
		}
		return n, nil
	case KindTelegram:
		n, err := NewTelegramNotifier()
		if err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unknown notifier %q (want %s, %s, %s or %s)", kind, KindNone, KindDryRun, KindTwitter, KindTelegram)
	}
}

// None discards announcements.
type None struct{}

// Notify does nothing.
func (None) Notify(context.Context, []*show.Show) error { return nil }

// FormatMessage renders a show as a short announcement.
func FormatMessage(s *show.Show) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎸 New show at %s\n\n", s.Venue)
	b.WriteString(s.Title())
	b.WriteString("\n")
	if s.HasStart() {
		fmt.Fprintf(&b, "📅 %s\n", s.Start.Format("Mon Jan 2, 3:04 PM"))
	}
	if s.EventLink != "" {
		fmt.Fprintf(&b, "\n🔗 %s", s.EventLink)
	}
	return truncate(strings.TrimRight(b.String(), "\n"), MaxLength)
}

// truncate shortens s to at most n runes, ending with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

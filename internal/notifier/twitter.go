package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"

	"github.com/tcupmn/tcup-scrape/internal/logger"
	"github.com/tcupmn/tcup-scrape/internal/show"
)

// DefaultPause is the wait between consecutive posts.
const DefaultPause = 2 * time.Second

// ErrMissingCredentials is returned when a Twitter credential variable is unset.
var ErrMissingCredentials = errors.New("missing required Twitter credentials in environment variables")

// statusUpdater is the part of the Twitter API the notifier uses.
type statusUpdater interface {
	Update(status string, params *twitter.StatusUpdateParams) (*twitter.Tweet, *http.Response, error)
}

// TwitterNotifier posts shows to Twitter.
type TwitterNotifier struct {
	statuses statusUpdater
	pause    time.Duration
}

// NewTwitterNotifier creates a Twitter notifier from environment variables:
// TWITTER_API_KEY, TWITTER_API_SECRET, TWITTER_ACCESS_TOKEN and
// TWITTER_ACCESS_SECRET.
func NewTwitterNotifier() (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, ErrMissingCredentials
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)
	client := twitter.NewClient(httpClient)

	return &TwitterNotifier{statuses: client.Statuses, pause: DefaultPause}, nil
}

// Notify posts one status per show, pausing between posts. It stops at the
// first failure.
func (n *TwitterNotifier) Notify(ctx context.Context, shows []*show.Show) error {
	for i, s := range shows {
		msg := FormatMessage(s)
		if _, _, err := n.statuses.Update(msg, nil); err != nil {
			return fmt.Errorf("failed to post show %q at %s: %w", s.Headliner, s.Venue, err)
		}
		logger.Debug("Posted show", logger.Fields{"venue": s.Venue, "headliner": s.Headliner})

		if i < len(shows)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.pause):
			}
		}
	}
	return nil
}

package notifier

import (
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"

	"github.com/tcupmn/tcup-scrape/internal/show"
)

const (
	telegramAPI     = "https://api.telegram.org/bot"
	telegramTimeout = 10 * time.Second
	// Telegram rejects messages longer than this.
	telegramMaxLength = 4096
)

// ErrMissingTelegramConfig is returned when TELEGRAM_BOT_TOKEN or
// TELEGRAM_CHAT_ID is unset.
var ErrMissingTelegramConfig = errors.New("missing TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID")

// TelegramNotifier sends a digest of new shows to one chat.
type TelegramNotifier struct {
	client  *resty.Client
	baseURL string
	token   string
	chatID  string
}

// NewTelegramNotifier creates a Telegram notifier from TELEGRAM_BOT_TOKEN
// and TELEGRAM_CHAT_ID.
func NewTelegramNotifier() (*TelegramNotifier, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	chatID := os.Getenv("TELEGRAM_CHAT_ID")
	if token == "" || chatID == "" {
		return nil, ErrMissingTelegramConfig
	}
	return newTelegram(telegramAPI, token, chatID), nil
}

func newTelegram(baseURL, token, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		client:  resty.New().SetTimeout(telegramTimeout),
		baseURL: baseURL,
		token:   token,
		chatID:  chatID,
	}
}

// Notify sends the digest, split across messages when it is too long.
func (n *TelegramNotifier) Notify(ctx context.Context, shows []*show.Show) error {
	if len(shows) == 0 {
		return nil
	}
	for _, msg := range splitMessage(FormatDigest(shows), telegramMaxLength) {
		if err := n.send(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (n *TelegramNotifier) send(ctx context.Context, text string) error {
	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"chat_id":                  n.chatID,
			"text":                     text,
			"parse_mode":               "HTML",
			"disable_web_page_preview": true,
		}).
		SetResult(&result).
		SetError(&result).
		Post(n.baseURL + n.token + "/sendMessage")
	if err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	if !resp.IsSuccess() || !result.OK {
		return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode(), result.Description)
	}
	return nil
}

// FormatDigest renders shows as one HTML message grouped by venue.
func FormatDigest(shows []*show.Show) string {
	var (
		b      strings.Builder
		venues []string
		byName = make(map[string][]*show.Show)
	)
	for _, s := range shows {
		if _, ok := byName[s.Venue]; !ok {
			venues = append(venues, s.Venue)
		}
		byName[s.Venue] = append(byName[s.Venue], s)
	}

	fmt.Fprintf(&b, "🎸 <b>%d new show", len(shows))
	if len(shows) != 1 {
		b.WriteString("s")
	}
	b.WriteString("</b>\n")

	for _, v := range venues {
		fmt.Fprintf(&b, "\n<b>%s</b>\n", html.EscapeString(v))
		for _, s := range byName[v] {
			line := html.EscapeString(s.Title())
			if s.EventLink != "" {
				line = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(s.EventLink), line)
			}
			when := "date TBA"
			if s.HasStart() {
				when = s.Start.Format("Mon Jan 2, 3:04 PM")
			}
			fmt.Fprintf(&b, "• %s: %s\n", when, line)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// splitMessage breaks text on line boundaries into chunks of at most max
// bytes. A single longer line is cut.
func splitMessage(text string, max int) []string {
	var (
		chunks  []string
		current strings.Builder
	)
	for _, line := range strings.Split(text, "\n") {
		for len(line) > max {
			if current.Len() > 0 {
				chunks = append(chunks, current.String())
				current.Reset()
			}
			cut := max
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		if current.Len() > 0 && current.Len()+1+len(line) > max {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/tcupmn/tcup-scrape/internal/show"
)

func TestTelegramNotifier_Notify(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/bottest-token/sendMessage" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"message_id":1}}`))
	}))
	defer server.Close()

	n := newTelegram(server.URL+"/bot", "test-token", "12345")
	if err := n.Notify(context.Background(), []*show.Show{testShow()}); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if got["chat_id"] != "12345" || got["parse_mode"] != "HTML" {
		t.Errorf("payload = %v", got)
	}
	if text, _ := got["text"].(string); !strings.Contains(text, "First Band, Second Band") {
		t.Errorf("text = %q", text)
	}
}

func TestTelegramNotifier_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer server.Close()

	n := newTelegram(server.URL+"/bot", "test-token", "12345")
	err := n.Notify(context.Background(), []*show.Show{testShow()})
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("Notify() error = %v, want API description", err)
	}
}

func TestTelegramNotifier_NoShows(t *testing.T) {
	n := newTelegram("http://127.0.0.1:1/bot", "t", "c")
	if err := n.Notify(context.Background(), nil); err != nil {
		t.Errorf("Notify(nil) error = %v", err)
	}
}

func TestNewTelegramNotifier(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "1")
	if _, err := NewTelegramNotifier(); !errors.Is(err, ErrMissingTelegramConfig) {
		t.Errorf("error = %v, want ErrMissingTelegramConfig", err)
	}
}

func TestFormatDigest(t *testing.T) {
	other := &show.Show{Venue: "Palmer's Bar", Headliner: "Gamma <live>"}
	got := FormatDigest([]*show.Show{testShow(), other, testShow()})

	for _, want := range []string{
		"<b>3 new shows</b>",
		"<b>331 Club</b>",
		"<b>Palmer&#39;s Bar</b>",
		`<a href="https://331club.com/#calendar">First Band, Second Band</a>`,
		"date TBA: Gamma &lt;live&gt;",
		"Sat Nov 15, 9:00 PM",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("digest missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "<b>331 Club</b>") != 1 {
		t.Errorf("venue heading repeated:\n%s", got)
	}

	if got := FormatDigest([]*show.Show{testShow()}); !strings.Contains(got, "<b>1 new show</b>") {
		t.Errorf("singular digest = %q", got)
	}
}

func TestSplitMessage(t *testing.T) {
	text := strings.Repeat("line of text\n", 10) + strings.Repeat("é", 30)
	chunks := splitMessage(text, 40)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want several", len(chunks))
	}
	for _, c := range chunks {
		if len(c) > 40 {
			t.Errorf("chunk of %d bytes exceeds limit", len(c))
		}
	}
	if !strings.Contains(strings.Join(chunks, ""), "éé") {
		t.Error("multi-byte text lost")
	}
	for _, c := range chunks {
		if !utf8.ValidString(c) {
			t.Errorf("chunk splits a rune: %q", c)
		}
	}
}

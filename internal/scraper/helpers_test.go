package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
)

func fragment(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fragment: %v", err)
	}
	return doc
}

func TestTextLines(t *testing.T) {
	doc := fragment(t, `<p> <a href="#">One&nbsp;Band</a><br>Two   Band<br> <br>8pm </p>`)
	got := textLines(doc.Find("p"))
	want := []string{"One Band", "Two Band", "8pm"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("textLines() mismatch (-want +got):\n%s", diff)
	}
}

func TestAbsURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		href string
		want string
	}{
		{"absolute", "https://a.example", "https://b.example/x", "https://b.example/x"},
		{"root relative", "https://a.example/events", "/e/1", "https://a.example/e/1"},
		{"relative", "https://a.example/events/", "e/1", "https://a.example/events/e/1"},
		{"empty", "https://a.example", "  ", ""},
		{"bad href", "https://a.example", "http://[::1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := absURL(tt.base, tt.href); got != tt.want {
				t.Errorf("absURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
			}
		})
	}
}

func TestHeadlinerAndSupport(t *testing.T) {
	tests := []struct {
		names     []string
		headliner string
		support   string
	}{
		{nil, "", ""},
		{[]string{"Solo"}, "Solo", ""},
		{[]string{"A", "B", "C"}, "A", "B, C"},
	}
	for _, tt := range tests {
		h, s := headlinerAndSupport(tt.names)
		if h != tt.headliner || s != tt.support {
			t.Errorf("headlinerAndSupport(%v) = %q, %q; want %q, %q", tt.names, h, s, tt.headliner, tt.support)
		}
	}
}

func TestBackgroundURL(t *testing.T) {
	tests := []struct {
		style string
		want  string
	}{
		{`background-image: url('https://img.example/a.jpg')`, "https://img.example/a.jpg"},
		{`background-image:url("https://img.example/b.jpg");`, "https://img.example/b.jpg"},
		{`background: url(https://img.example/c.jpg) no-repeat`, "https://img.example/c.jpg"},
		{`color: red`, ""},
		{``, ""},
	}
	for _, tt := range tests {
		if got := backgroundURL(tt.style); got != tt.want {
			t.Errorf("backgroundURL(%q) = %q, want %q", tt.style, got, tt.want)
		}
	}
}

func TestWixImage(t *testing.T) {
	tests := []struct {
		name string
		info string
		want string
	}{
		{"uri", `{"imageData":{"uri":"abc_123.jpg"}}`, "https://static.wixstatic.com/media/abc_123.jpg"},
		{"no uri", `{"imageData":{}}`, ""},
		{"not json", `{imageData`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wixImage(tt.info); got != tt.want {
				t.Errorf("wixImage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFlyerOf(t *testing.T) {
	doc := fragment(t, `
		<div id="lazy"><img data-src="https://img.example/lazy.jpg" src="placeholder.gif"></div>
		<div id="plain"><img src="https://img.example/plain.jpg"></div>
		<div id="bg" style="background-image: url(https://img.example/bg.jpg)"></div>
		<div id="none"></div>`)

	tests := map[string]string{
		"#lazy":  "https://img.example/lazy.jpg",
		"#plain": "https://img.example/plain.jpg",
		"#bg":    "https://img.example/bg.jpg",
		"#none":  "",
	}
	for sel, want := range tests {
		if got := flyerOf(doc.Find(sel)); got != want {
			t.Errorf("flyerOf(%s) = %q, want %q", sel, got, want)
		}
	}
}

func TestNextParagraphText(t *testing.T) {
	doc := fragment(t, `<div><p><span id="h">Head</span></p><div><p>Support One, Two</p></div><p>Later</p></div>`)
	block := doc.Find("div").First()
	if got := nextParagraphText(block, doc.Find("#h")); got != "Support One, Two" {
		t.Errorf("nextParagraphText() = %q", got)
	}
}

func TestClubColumn_ClockLineLeftovers(t *testing.T) {
	c := newClub331(testOptions())

	tests := []struct {
		name      string
		html      string
		wantBands []string
		wantAt    clock
	}{
		{"cover and age", `<p>Alpha<br>Beta<br>$10 21+ 9pm</p>`, []string{"Alpha", "Beta"}, clock{21, 0}},
		{"price only", `<p>Alpha<br>9:30pm - $5</p>`, []string{"Alpha"}, clock{21, 30}},
		{"act on clock line", `<p>Alpha<br>Gamma Ray 10pm</p>`, []string{"Alpha", "Gamma Ray"}, clock{22, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := fragment(t, tt.html)
			sh, at, ok := c.parseColumn(doc.Find("p"))
			if !ok {
				t.Fatal("parseColumn() found no show")
			}
			if diff := cmp.Diff(tt.wantBands, sh.BandNames()); diff != "" {
				t.Errorf("bands mismatch (-want +got):\n%s", diff)
			}
			if at != tt.wantAt {
				t.Errorf("clock = %+v, want %+v", at, tt.wantAt)
			}
		})
	}
}

func TestIsActName(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"$10 21+", false},
		{"$5", false},
		{"", false},
		{"TBA", false},
		{"Gamma Ray", true},
	}
	for _, tt := range tests {
		if got := isActName(tt.in); got != tt.want {
			t.Errorf("isActName(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

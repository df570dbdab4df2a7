package main

import (
	"strings"
	"testing"

	"github.com/tcupmn/tcup-scrape/internal/show"
)

func TestDecodeReport(t *testing.T) {
	input := `{
		"checked_at": "2025-11-01T12:00:00Z",
		"sources": [],
		"total": {
			"scraped": 3,
			"added": 2,
			"new": [
				{"venue": "331 Club", "headliner": "First Band", "bands": [{"band": "First Band"}], "start": "2025-11-15T21:00:00Z"},
				{"venue": "Berlin", "headliner": "Epsilon", "bands": [], "start": "2025-11-14T20:00:00Z"}
			]
		},
		"failed_sources": 0
	}`

	shows, err := decodeReport(strings.NewReader(input))
	if err != nil {
		t.Fatalf("decodeReport() error = %v", err)
	}
	if len(shows) != 2 {
		t.Fatalf("got %d shows, want 2", len(shows))
	}
	if shows[0].Venue != "331 Club" || shows[0].Start.Hour() != 21 {
		t.Errorf("first show = %+v", shows[0])
	}

	if _, err := decodeReport(strings.NewReader("not json")); err == nil {
		t.Error("decodeReport() should fail on invalid JSON")
	}
}

func TestFilterByVenue(t *testing.T) {
	shows := []*show.Show{
		{Venue: "331 Club", Headliner: "A"},
		{Venue: "Berlin", Headliner: "B"},
		{Venue: "331 club", Headliner: "C"},
	}

	tests := []struct {
		venue string
		want  int
	}{
		{"", 3},
		{"331 CLUB", 2},
		{"Berlin", 1},
		{"Nowhere", 0},
	}
	for _, tt := range tests {
		t.Run(tt.venue, func(t *testing.T) {
			if got := filterByVenue(shows, tt.venue); len(got) != tt.want {
				t.Errorf("filterByVenue(%q) returned %d shows, want %d", tt.venue, len(got), tt.want)
			}
		})
	}
}

func TestLimit(t *testing.T) {
	shows := []*show.Show{{Headliner: "A"}, {Headliner: "B"}, {Headliner: "C"}}

	tests := []struct {
		n    int
		want int
	}{
		{10, 3},
		{3, 3},
		{2, 2},
		{0, 0},
		{-1, 0},
	}
	for _, tt := range tests {
		if got := limit(shows, tt.n); len(got) != tt.want {
			t.Errorf("limit(%d) returned %d shows, want %d", tt.n, len(got), tt.want)
		}
	}
}

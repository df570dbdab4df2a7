package show

import (
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	start := time.Date(2025, 1, 10, 20, 0, 0, 0, time.UTC)
	a := &Show{Venue: "Berlin", Headliner: "Quartet", Start: start}
	b := &Show{Venue: "berlin", Headliner: "QUARTET", Start: start}
	c := &Show{Venue: "Berlin", Headliner: "Quartet", Start: start.Add(time.Hour)}

	if a.Key() == "" {
		t.Fatal("Key() returned empty string")
	}
	if a.Key() != b.Key() {
		t.Errorf("Key() should ignore case: %s != %s", a.Key(), b.Key())
	}
	if a.Key() == c.Key() {
		t.Error("Key() should differ for different start times")
	}
}

func TestBandList(t *testing.T) {
	tests := []struct {
		name string
		show Show
		want string
	}{
		{
			name: "bands joined",
			show: Show{Headliner: "A", Bands: BandsFromNames([]string{"A", "B", "C"})},
			want: "A, B, C",
		},
		{
			name: "falls back to headliner",
			show: Show{Headliner: "Solo Set"},
			want: "Solo Set",
		},
		{
			name: "empty",
			show: Show{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.show.BandList(); got != tt.want {
				t.Errorf("BandList() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsUpcoming(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	past := &Show{Start: time.Date(2025, 4, 30, 20, 0, 0, 0, time.UTC)}
	future := &Show{Start: time.Date(2025, 5, 2, 20, 0, 0, 0, time.UTC)}
	unknown := &Show{}

	if past.IsUpcoming(now, time.UTC) {
		t.Error("past show reported as upcoming")
	}
	if !future.IsUpcoming(now, time.UTC) {
		t.Error("future show not reported as upcoming")
	}
	if !unknown.IsUpcoming(now, time.UTC) {
		t.Error("show without start should be kept as upcoming")
	}
}

package show

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in       string
		wantHour int
		wantMin  int
		wantOK   bool
	}{
		{"7pm", 19, 0, true},
		{"7 PM", 19, 0, true},
		{"7:30pm", 19, 30, true},
		{"7:30 p.m.", 19, 30, true},
		{"9:00 PM", 21, 0, true},
		{"12am", 0, 0, true},
		{"12:15 pm", 12, 15, true},
		{"19:00", 19, 0, true},
		{"18:30", 18, 30, true},
		{"13pm", 0, 0, false},
		{"25:00", 0, 0, false},
		{"doors at 7pm", 0, 0, false},
		{"", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h, m, ok := ParseClock(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParseClock(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && (h != tt.wantHour || m != tt.wantMin) {
				t.Errorf("ParseClock(%q) = %02d:%02d, want %02d:%02d", tt.in, h, m, tt.wantHour, tt.wantMin)
			}
		})
	}
}

func TestExtractClock(t *testing.T) {
	tests := []struct {
		line     string
		wantHour int
		wantMin  int
		wantRest string
		wantOK   bool
	}{
		{"Salad Boyz 9pm", 21, 0, "Salad Boyz", true},
		{"9:30 p.m.", 21, 30, "", true},
		{"Doors 8:00PM / all ages", 20, 0, "Doors / all ages", true},
		{"No clock here", 0, 0, "No clock here", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			h, m, rest, ok := ExtractClock(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("ExtractClock(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if rest != tt.wantRest {
				t.Errorf("ExtractClock(%q) rest = %q, want %q", tt.line, rest, tt.wantRest)
			}
			if ok && (h != tt.wantHour || m != tt.wantMin) {
				t.Errorf("ExtractClock(%q) = %02d:%02d, want %02d:%02d", tt.line, h, m, tt.wantHour, tt.wantMin)
			}
		})
	}
}

func TestMonthFromName(t *testing.T) {
	tests := []struct {
		in     string
		want   time.Month
		wantOK bool
	}{
		{"Jan", time.January, true},
		{"jan.", time.January, true},
		{"Sept", time.September, true},
		{"December", time.December, true},
		{"Junk", 0, false},
		{"Ja", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := MonthFromName(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("MonthFromName(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestInferYear(t *testing.T) {
	now := time.Date(2025, time.November, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		month time.Month
		day   int
		want  int
	}{
		{"later this year", time.December, 5, 2025},
		{"earlier this month", time.November, 2, 2025},
		{"just inside the window", time.October, 22, 2025},
		{"early next year", time.January, 10, 2026},
		{"spring", time.March, 1, 2026},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferYear(tt.month, tt.day, now); got != tt.want {
				t.Errorf("InferYear(%v, %d) = %d, want %d", tt.month, tt.day, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	layouts := []string{"Monday, January 2, 2006", "2006-01-02", "Jan 2, 2006"}

	tests := []struct {
		text   string
		want   time.Time
		wantOK bool
	}{
		{"Friday, November 15, 2024", time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC), true},
		{"2025-02-01", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), true},
		{"Mar 7, 2025", time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), true},
		{"next tuesday", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ParseDate(tt.text, layouts...)
			if ok != tt.wantOK || !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, %v; want %v, %v", tt.text, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNaive(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	in := time.Date(2025, 3, 14, 2, 30, 45, 0, time.UTC)
	got := Naive(in, chicago)
	want := time.Date(2025, 3, 13, 21, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Naive() = %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Errorf("Naive() location = %v, want UTC", got.Location())
	}
}

func TestAt(t *testing.T) {
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	got := At(date, 18, 30)
	want := time.Date(2025, 6, 1, 18, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("At() = %v, want %v", got, want)
	}
}

package show

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// pastWindow is how far in the past a year-less listing date may fall before
// it is assumed to belong to next year.
const pastWindow = 30 * 24 * time.Hour

var (
	clockPattern   = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s?([ap])\.?\s?m\b\.?`)
	clock24Pattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	spaceReplacer  = strings.NewReplacer("\u202f", " ", "\u00a0", " ", "\u2009", " ")
	monthsByPrefix = map[string]time.Month{}
)

func init() {
	for m := time.January; m <= time.December; m++ {
		monthsByPrefix[strings.ToLower(m.String()[:3])] = m
	}
}

// NormalizeSpace replaces the non-breaking and narrow spaces venue sites like
// to put between a time and its AM/PM marker, then collapses runs of whitespace.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(spaceReplacer.Replace(s)), " ")
}

// ParseClock parses a time of day such as "7pm", "7:30 PM", "7:30 p.m." or "19:00".
func ParseClock(s string) (hour, minute int, ok bool) {
	s = strings.TrimSpace(NormalizeSpace(s))
	if s == "" {
		return 0, 0, false
	}

	if m := clockPattern.FindStringSubmatch(s); m != nil && len(m[0]) == len(s) {
		return clockFromMatch(m)
	}

	if m := clock24Pattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		if h > 23 || min > 59 {
			return 0, 0, false
		}
		return h, min, true
	}

	return 0, 0, false
}

// ExtractClock finds the first 12-hour clock in a line of text. It returns the
// parsed time and the line with the clock removed.
func ExtractClock(line string) (hour, minute int, rest string, ok bool) {
	line = NormalizeSpace(line)
	loc := clockPattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return 0, 0, line, false
	}

	m := make([]string, 4)
	for i := 0; i < 4; i++ {
		if loc[2*i] >= 0 {
			m[i] = line[loc[2*i]:loc[2*i+1]]
		}
	}

	hour, minute, ok = clockFromMatch(m)
	if !ok {
		return 0, 0, line, false
	}
	rest = strings.TrimSpace(NormalizeSpace(line[:loc[0]] + " " + line[loc[1]:]))
	return hour, minute, rest, true
}

func clockFromMatch(m []string) (int, int, bool) {
	h, err := strconv.Atoi(m[1])
	if err != nil || h < 1 || h > 12 {
		return 0, 0, false
	}
	min := 0
	if m[2] != "" {
		min, _ = strconv.Atoi(m[2])
		if min > 59 {
			return 0, 0, false
		}
	}
	h %= 12
	if strings.EqualFold(m[3], "p") {
		h += 12
	}
	return h, min, true
}

// MonthFromName resolves "Jan", "Jan.", "Sept" or "January" to a month.
func MonthFromName(s string) (time.Month, bool) {
	s = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(s), "."))
	if len(s) < 3 {
		return 0, false
	}
	m, ok := monthsByPrefix[s[:3]]
	if !ok {
		return 0, false
	}
	// "Junk" must not resolve to June.
	if !strings.HasPrefix(strings.ToLower(m.String()), s) {
		return 0, false
	}
	return m, true
}

// InferYear picks the year for a listing date that omits it. Listings show
// upcoming events, so a date more than a month in the past is taken to be
// next year's.
func InferYear(month time.Month, day int, now time.Time) int {
	candidate := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
	if candidate.Before(now.Add(-pastWindow)) {
		return now.Year() + 1
	}
	return now.Year()
}

// DateOf builds a year-less listing date using InferYear.
func DateOf(month time.Month, day int, now time.Time) time.Time {
	return time.Date(InferYear(month, day, now), month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate tries each layout in order and returns the first successful parse.
func ParseDate(text string, layouts ...string) (time.Time, bool) {
	text = NormalizeSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// At combines a calendar date with a clock into a naive wall-clock timestamp.
func At(date time.Time, hour, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC)
}

// Naive converts t to the venue's location and drops the zone, keeping the
// wall-clock reading truncated to the minute.
func Naive(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}

// IsUpcoming reports whether the show starts at or after now's wall clock in loc.
func (s *Show) IsUpcoming(now time.Time, loc *time.Location) bool {
	if !s.HasStart() {
		return true
	}
	return !s.Start.Before(Naive(now, loc))
}

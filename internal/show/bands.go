package show

import (
	"regexp"
	"strings"
)

// Splitter breaks a billing line such as "Headliner w/ Opener, Other" into
// individual band names. Venues format their billing differently, so each
// venue picks the preset that matches its site.
type Splitter struct {
	pattern *regexp.Regexp
}

// NewSplitter compiles a separator pattern.
func NewSplitter(separator string) Splitter {
	return Splitter{pattern: regexp.MustCompile(separator)}
}

var (
	// SplitComma splits on commas only.
	SplitComma = NewSplitter(`,`)
	// SplitCommaAnd splits on commas, "and", "with", "w/", "&" and "+".
	SplitCommaAnd = NewSplitter(`(?i),|\s+and\s+|\s+with\s+|w/|&|\+`)
	// SplitWith splits on a standalone "w" or "w." and on commas.
	SplitWith = NewSplitter(`\s+w\.?\s+|,`)
	// SplitSlash splits on commas, "w/", "&" and "+".
	SplitSlash = NewSplitter(`\s*(?:,|w/|&|\+)\s*`)
	// SplitWithWord splits on commas, "&" and the word "with".
	SplitWithWord = NewSplitter(`(?i),|&|\bwith\b`)
)

// Split returns the trimmed, non-empty parts of s.
func (sp Splitter) Split(s string) []string {
	s = NormalizeSpace(s)
	if s == "" {
		return nil
	}
	parts := sp.pattern.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var (
	placeholderNames = map[string]bool{"tba": true, "tbd": true, "unknown": true, "n/a": true, "none": true}
	numericPattern   = regexp.MustCompile(`^\d+$`)
	quoteTrimset     = "\"'“”‘’"
)

// IsValidBandName rejects placeholders, single characters and bare numbers.
func IsValidBandName(name string) bool {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < 2 {
		return false
	}
	lower := strings.ToLower(name)
	if placeholderNames[lower] {
		return false
	}
	if numericPattern.MatchString(name) {
		return false
	}
	if _, _, ok := ParseClock(name); ok {
		return false
	}
	return true
}

// CleanBands strips quotes, drops invalid names and removes case-insensitive
// duplicates, keeping the first occurrence.
func CleanBands(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(strings.Trim(NormalizeSpace(n), quoteTrimset))
		if !IsValidBandName(n) {
			continue
		}
		key := strings.ToLower(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

// SplitBands splits each line with sp and cleans the combined result.
func SplitBands(sp Splitter, lines ...string) []string {
	var names []string
	for _, l := range lines {
		names = append(names, sp.Split(l)...)
	}
	return CleanBands(names)
}

package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tcupmn/tcup-scrape/internal/store"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate      SortOrder = "date"
	SortByVenue     SortOrder = "venue"
	SortByHeadliner SortOrder = "headliner"
)

func parseSort(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortByDate, SortByVenue, SortByHeadliner:
		return o, nil
	default:
		return "", fmt.Errorf("invalid sort: %s (must be 'date', 'venue' or 'headliner')", s)
	}
}

// sortShows sorts records in place. Ties fall back to date order.
func sortShows(records []store.ShowRecord, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(records, func(i, j int) bool {
			return compareByDate(records[i], records[j])
		})
	case SortByVenue:
		sort.SliceStable(records, func(i, j int) bool {
			vi, vj := strings.ToLower(records[i].VenueName), strings.ToLower(records[j].VenueName)
			if vi != vj {
				return vi < vj
			}
			return compareByDate(records[i], records[j])
		})
	case SortByHeadliner:
		sort.SliceStable(records, func(i, j int) bool {
			hi, hj := strings.ToLower(records[i].Headliner), strings.ToLower(records[j].Headliner)
			if hi != hj {
				return hi < hj
			}
			return compareByDate(records[i], records[j])
		})
	}
}

// compareByDate reports whether i starts before j. Shows without a start
// sort last, ordered by venue.
func compareByDate(i, j store.ShowRecord) bool {
	zi, zj := i.Start.IsZero(), j.Start.IsZero()
	switch {
	case !zi && !zj && !i.Start.Equal(j.Start):
		return i.Start.Before(j.Start)
	case zi != zj:
		return !zi
	}
	return strings.ToLower(i.VenueName) < strings.ToLower(j.VenueName)
}

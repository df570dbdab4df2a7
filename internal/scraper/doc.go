// Package scraper holds one Source per venue and the Runner that scrapes
// them and hands the results to the store.
//
// Every venue publishes its calendar differently, so each source keeps its
// own page-specific selectors and band-splitting rule. The shared pieces
// (date and clock parsing, band cleanup, flyer extraction) live in the show
// package and in flyer.go so that sources only describe where things are on
// the page.
package scraper

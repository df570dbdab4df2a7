// Package show provides the domain types shared by every venue scraper.
//
// A Show is one scheduled performance at a venue. Its Start is a naive
// wall-clock timestamp in the venue's local time, matching the TIMESTAMP
// (without time zone) column it is stored in. The package also holds the
// normalization helpers the scrapers lean on: clock and date parsing, year
// inference for listings that omit the year, and band-name splitting.
package show

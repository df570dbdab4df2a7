// Package store persists scraped shows in the shared relational schema.
//
// Tables are venues, shows, bands and show_bands. A show is written at most
// once per natural key: the store first looks for an existing row with the
// same venue and start (and headliner, for venues that need it) and only
// inserts when none is found. An existing row may have a missing flyer image
// or event link filled in. Bands are unique by name and linked to shows
// through show_bands.
//
// Two backends share the same SQL: PostgreSQL through a pgx connection pool,
// and SQLite through modernc.org/sqlite for local runs and tests.
package store

package store

import "fmt"

// schemaFor returns the CREATE statements with the backend's id column type.
// Tables are created if missing; existing tables are never altered.
func schemaFor(idColumn string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS venues (
	id %s,
	venue TEXT NOT NULL UNIQUE,
	location TEXT
)`, idColumn),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS shows (
	id %s,
	venue_id INTEGER NOT NULL REFERENCES venues(id),
	headliner TEXT,
	support TEXT,
	bands TEXT,
	start TIMESTAMP NOT NULL,
	event_link TEXT,
	flyer_image TEXT,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`, idColumn),
		`CREATE INDEX IF NOT EXISTS shows_venue_start_idx ON shows (venue_id, start)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS bands (
	id %s,
	band TEXT NOT NULL UNIQUE,
	social_links TEXT
)`, idColumn),
		`CREATE TABLE IF NOT EXISTS show_bands (
	band_id INTEGER NOT NULL REFERENCES bands(id),
	show_id INTEGER NOT NULL REFERENCES shows(id) ON DELETE CASCADE,
	PRIMARY KEY (band_id, show_id)
)`,
	}
}

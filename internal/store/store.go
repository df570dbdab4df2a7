package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tcupmn/tcup-scrape/internal/logger"
	"github.com/tcupmn/tcup-scrape/internal/show"
)

var (
	// ErrVenueNotFound is returned when a venue has not been registered.
	ErrVenueNotFound = errors.New("venue not found")
	// ErrNotFound is returned by lookups of a show or band id that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnsupportedDSN is returned by Open for an unrecognized connection string.
	ErrUnsupportedDSN = errors.New("unsupported database DSN")
)

// Store reads and writes shows.
type Store struct {
	db backend
}

// Open connects to the database named by dsn and creates missing tables.
//
// postgres:// and postgresql:// URLs use PostgreSQL. sqlite://PATH,
// sqlite:PATH, file: URIs, :memory: and paths ending in .db or .sqlite use
// SQLite.
func Open(ctx context.Context, dsn string) (*Store, error) {
	var (
		db  backend
		err error
	)

	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		db, err = openPostgres(ctx, dsn)
	default:
		path, ok := sqlitePath(dsn)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedDSN, redact(dsn))
		}
		db, err = openSQLite(ctx, path)
	}
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.createSchema(ctx); err != nil {
		db.close()
		return nil, err
	}
	logger.Debug("Database ready", logger.Fields{"backend": db.name()})
	return s, nil
}

func sqlitePath(dsn string) (string, bool) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return strings.TrimPrefix(dsn, "sqlite://"), true
	case strings.HasPrefix(dsn, "sqlite:"):
		return strings.TrimPrefix(dsn, "sqlite:"), true
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return dsn, true
	}
	for _, ext := range []string{".db", ".sqlite", ".sqlite3"} {
		if strings.HasSuffix(dsn, ext) {
			return dsn, true
		}
	}
	return "", false
}

// redact hides anything that looks like a password in a DSN.
func redact(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	return dsn[:scheme+3] + "***" + dsn[at:]
}

func (s *Store) createSchema(ctx context.Context) error {
	for _, stmt := range s.db.schema() {
		if err := s.db.exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Close releases the underlying connections.
func (s *Store) Close() {
	s.db.close()
}

// VenueID returns the id of the venue with the given name.
func (s *Store) VenueID(ctx context.Context, name string) (int64, error) {
	return venueID(ctx, s.db, name)
}

func venueID(ctx context.Context, q querier, name string) (int64, error) {
	var id int64
	err := q.queryRow(ctx, `SELECT id FROM venues WHERE venue = $1`, name).Scan(&id)
	if isNoRows(err) {
		return 0, fmt.Errorf("%w: %s", ErrVenueNotFound, name)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up venue %s: %w", name, err)
	}
	return id, nil
}

// EnsureVenue returns the venue's id, creating the row if needed. A stored
// venue without a location gets v.Location filled in.
func (s *Store) EnsureVenue(ctx context.Context, v show.Venue) (int64, error) {
	return ensureVenue(ctx, s.db, v)
}

func ensureVenue(ctx context.Context, q querier, v show.Venue) (int64, error) {
	var id int64
	err := q.queryRow(ctx,
		`INSERT INTO venues (venue, location) VALUES ($1, $2) ON CONFLICT (venue) DO NOTHING RETURNING id`,
		v.Name, nullable(v.Location)).Scan(&id)
	if err == nil {
		logger.Debug("Venue created", logger.Fields{"venue": v.Name, "id": id})
		return id, nil
	}
	if !isNoRows(err) {
		return 0, fmt.Errorf("failed to insert venue %s: %w", v.Name, err)
	}

	id, err = venueID(ctx, q, v.Name)
	if err != nil {
		return 0, err
	}
	if v.Location != "" {
		err := q.exec(ctx,
			`UPDATE venues SET location = $1 WHERE id = $2 AND (location IS NULL OR location = '')`,
			v.Location, id)
		if err != nil {
			return 0, fmt.Errorf("failed to update venue %s: %w", v.Name, err)
		}
	}
	return id, nil
}

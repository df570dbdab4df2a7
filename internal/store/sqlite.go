package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "modernc.org/sqlite"
)

var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

// rebind rewrites $N placeholders as SQLite's numbered ?N form.
func rebind(query string) string {
	return placeholderPattern.ReplaceAllString(query, "?$1")
}

type sqliteBackend struct {
	db *sql.DB
}

func openSQLite(ctx context.Context, path string) (*sqliteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	// One connection keeps transactions and :memory: databases coherent.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return &sqliteBackend{db: db}, nil
}

func (b *sqliteBackend) exec(ctx context.Context, query string, args ...any) error {
	_, err := b.db.ExecContext(ctx, rebind(query), args...)
	return err
}

func (b *sqliteBackend) queryRow(ctx context.Context, query string, args ...any) row {
	return b.db.QueryRowContext(ctx, rebind(query), args...)
}

func (b *sqliteBackend) query(ctx context.Context, query string, args ...any) (rows, error) {
	r, err := b.db.QueryContext(ctx, rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{r}, nil
}

func (b *sqliteBackend) begin(ctx context.Context) (tx, error) {
	t, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return sqlTx{t}, nil
}

func (b *sqliteBackend) schema() []string { return schemaFor("INTEGER PRIMARY KEY AUTOINCREMENT") }

func (b *sqliteBackend) name() string { return "sqlite" }

func (b *sqliteBackend) close() { b.db.Close() }

type sqlRows struct {
	*sql.Rows
}

func (r sqlRows) Close() { _ = r.Rows.Close() }

type sqlTx struct {
	tx *sql.Tx
}

func (t sqlTx) exec(ctx context.Context, query string, args ...any) error {
	_, err := t.tx.ExecContext(ctx, rebind(query), args...)
	return err
}

func (t sqlTx) queryRow(ctx context.Context, query string, args ...any) row {
	return t.tx.QueryRowContext(ctx, rebind(query), args...)
}

func (t sqlTx) query(ctx context.Context, query string, args ...any) (rows, error) {
	r, err := t.tx.QueryContext(ctx, rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{r}, nil
}

func (t sqlTx) commit(ctx context.Context) error { return t.tx.Commit() }

func (t sqlTx) rollback(ctx context.Context) error { return t.tx.Rollback() }

package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgBackend struct {
	pool *pgxpool.Pool
}

func openPostgres(ctx context.Context, dsn string) (*pgBackend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return &pgBackend{pool: pool}, nil
}

func (p *pgBackend) exec(ctx context.Context, query string, args ...any) error {
	_, err := p.pool.Exec(ctx, query, args...)
	return err
}

func (p *pgBackend) queryRow(ctx context.Context, query string, args ...any) row {
	return p.pool.QueryRow(ctx, query, args...)
}

func (p *pgBackend) query(ctx context.Context, query string, args ...any) (rows, error) {
	return p.pool.Query(ctx, query, args...)
}

func (p *pgBackend) begin(ctx context.Context) (tx, error) {
	t, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return pgTx{t}, nil
}

func (p *pgBackend) schema() []string { return schemaFor("SERIAL PRIMARY KEY") }

func (p *pgBackend) name() string { return "postgres" }

func (p *pgBackend) close() { p.pool.Close() }

type pgTx struct {
	tx pgx.Tx
}

func (t pgTx) exec(ctx context.Context, query string, args ...any) error {
	_, err := t.tx.Exec(ctx, query, args...)
	return err
}

func (t pgTx) queryRow(ctx context.Context, query string, args ...any) row {
	return t.tx.QueryRow(ctx, query, args...)
}

func (t pgTx) query(ctx context.Context, query string, args ...any) (rows, error) {
	return t.tx.Query(ctx, query, args...)
}

func (t pgTx) commit(ctx context.Context) error { return t.tx.Commit(ctx) }

func (t pgTx) rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

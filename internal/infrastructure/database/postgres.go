package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id             TEXT PRIMARY KEY,
	total_cents    BIGINT NOT NULL CHECK (total_cents > 0),
	status         TEXT NOT NULL,
	payment_status TEXT NOT NULL,
	paid_at        TIMESTAMPTZ,
	version        BIGINT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS payments (
	id              TEXT PRIMARY KEY,
	order_id        TEXT NOT NULL REFERENCES orders(id),
	amount_cents    BIGINT NOT NULL CHECK (amount_cents > 0),
	payment_method  TEXT NOT NULL,
	status          TEXT NOT NULL,
	transaction_id  TEXT,
	payment_details JSONB,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL,
	refunded_at     TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS payments_order_id_created_at_idx ON payments (order_id, created_at, id);
`

// ConnectPostgres opens a pgx pool for DATABASE_URI and makes sure the
// schema exists.
func ConnectPostgres(ctx context.Context, uri string) (*pgxpool.Pool, error) {
	if uri == "" {
		return nil, fmt.Errorf("missing DATABASE_URI")
	}

	pool, err := pgxpool.New(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}
	if err := InitSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	log.Printf("[database][postgres] connected")
	return pool, nil
}

func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

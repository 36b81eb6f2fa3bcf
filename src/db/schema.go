package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            uuid PRIMARY KEY,
		email         text NOT NULL UNIQUE,
		username      text NOT NULL UNIQUE,
		password_hash text NOT NULL,
		created_at    timestamptz NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id         uuid PRIMARY KEY,
		owner_id   uuid NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		title      text NOT NULL DEFAULT '',
		amount     numeric(14, 2) NOT NULL CHECK (amount > 0),
		type       text NOT NULL CHECK (type IN ('income', 'expense')),
		category   text NOT NULL,
		note       text NOT NULL DEFAULT '',
		date       timestamptz NOT NULL DEFAULT NOW(),
		created_at timestamptz NOT NULL DEFAULT NOW(),
		updated_at timestamptz NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_owner_created_idx
		ON transactions (owner_id, created_at DESC)`,
}

// Migrate creates the tables the server needs. It is safe to run repeatedly.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is applied at startup. CREATE IF NOT EXISTS keeps restarts cheap;
// anything structural beyond this goes through a real migration.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'USER',
	enabled       BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS items (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id),
	name       TEXT NOT NULL,
	sku        TEXT NOT NULL,
	quantity   INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
	price      NUMERIC(14,2) NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (user_id, sku)
);

CREATE TABLE IF NOT EXISTS transactions (
	id               TEXT PRIMARY KEY,
	item_id          TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
	user_id          TEXT NOT NULL REFERENCES users(id),
	kind             TEXT NOT NULL,
	status           TEXT NOT NULL,
	quantity         INTEGER NOT NULL CHECK (quantity > 0),
	price_per_unit   NUMERIC(14,2) NOT NULL,
	total_amount     NUMERIC(14,2) NOT NULL,
	inventory_before INTEGER NOT NULL,
	inventory_after  INTEGER NOT NULL,
	notes            TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_user ON items(user_id);
CREATE INDEX IF NOT EXISTS idx_tx_user_date ON transactions(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_tx_item_date ON transactions(item_id, created_at DESC);
`

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}

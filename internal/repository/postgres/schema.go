package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied at startup. Totals default to 0 so documents created
// before the denormalized-total column existed read as zero, and transactions
// have no UPDATE or DELETE statements anywhere in this package: the ledger is
// append-only.
const schema = `
CREATE TABLE IF NOT EXISTS categories (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	collection  TEXT NOT NULL,
	name        TEXT NOT NULL,
	kind        TEXT NOT NULL DEFAULT 'personalizada',
	icon        TEXT,
	total       NUMERIC(14,2) NOT NULL DEFAULT 0,
	hints       TEXT[] NOT NULL DEFAULT '{}',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_categories_collection ON categories(collection);

CREATE TABLE IF NOT EXISTS subcategories (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	collection   TEXT NOT NULL,
	category_id  UUID NOT NULL REFERENCES categories(id),
	name         TEXT NOT NULL,
	icon         TEXT NOT NULL DEFAULT '',
	goal_amount  NUMERIC(14,2) NOT NULL DEFAULT 0,
	saved_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
	total        NUMERIC(14,2) NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_subcategories_category ON subcategories(category_id);

CREATE TABLE IF NOT EXISTS transactions (
	id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	collection     TEXT NOT NULL,
	category_id    UUID NOT NULL,
	subcategory_id UUID NOT NULL REFERENCES subcategories(id),
	type           TEXT NOT NULL CHECK (type IN ('entrada', 'saida')),
	amount         NUMERIC(14,2) NOT NULL CHECK (amount > 0),
	date           DATE NOT NULL,
	title          TEXT NOT NULL,
	category_label TEXT NOT NULL DEFAULT '',
	message        TEXT,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_transactions_subcategory ON transactions(subcategory_id);
CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category_id);

CREATE TABLE IF NOT EXISTS profiles (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	auth_id    TEXT NOT NULL UNIQUE,
	name       TEXT,
	email      TEXT NOT NULL,
	phone      TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	deleted_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS reports (
	id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	collection     TEXT NOT NULL,
	category_id    UUID NOT NULL,
	subcategory_id UUID NOT NULL,
	object_key     TEXT NOT NULL,
	row_count      INT NOT NULL DEFAULT 0,
	uploaded       BOOLEAN NOT NULL DEFAULT false,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

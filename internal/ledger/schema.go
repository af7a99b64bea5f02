package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// migrations are applied in order at startup. Statements are idempotent so a
// restart never fails on an already-migrated database.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS wallet (
        id UUID PRIMARY KEY,
        owner_id UUID NOT NULL UNIQUE,
        parent_pin_hash BYTEA,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS wallet_transaction (
        id BIGSERIAL PRIMARY KEY,
        wallet_id UUID NOT NULL REFERENCES wallet(id),
        amount NUMERIC(12, 2) NOT NULL,
        kind TEXT NOT NULL,
        source TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        gift_card_id TEXT,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS idx_wallet_transaction_wallet
        ON wallet_transaction (wallet_id, created_at, id)`,
}

// Migrate applies the ledger schema.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

package main

import (
	"database/sql"
	"fmt"
)

// The transactions table keeps the sheet's 7-column row schema (date,
// month_name, year, category, description, amount, kind) and adds the batch
// columns that make installment appends atomic and retry-safe.
const schemaSQL = `
	CREATE TABLE IF NOT EXISTS transactions (
		id SERIAL PRIMARY KEY,
		date DATE NOT NULL,
		month_name VARCHAR(20) NOT NULL,
		year INTEGER NOT NULL,
		category VARCHAR(100) NOT NULL,
		description VARCHAR(255) NOT NULL,
		amount DECIMAL(12,2) NOT NULL CHECK (amount > 0),
		kind VARCHAR(20) NOT NULL,
		batch_id UUID NOT NULL,
		batch_seq INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Replaying a batch insert must not duplicate rows.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_batch
		ON transactions(batch_id, batch_seq);

	CREATE INDEX IF NOT EXISTS idx_transactions_year_month
		ON transactions(year, month_name);

	CREATE TABLE IF NOT EXISTS price_snapshot (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		gram_gold DECIMAL(12,2) NOT NULL DEFAULT 0,
		gram_silver DECIMAL(12,2) NOT NULL DEFAULT 0,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	INSERT INTO price_snapshot (id) VALUES (1) ON CONFLICT DO NOTHING;
`

func ensureSchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

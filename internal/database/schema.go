package database

import (
	"database/sql"
	"fmt"
)

// Schema statements for the tracker. Counters on cards are only ever
// mutated through relative increments, so used_total and balance need no
// version column.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password TEXT NOT NULL,
		session TEXT NOT NULL DEFAULT '',
		last_login TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS cards (
		id SERIAL PRIMARY KEY,
		card_id TEXT NOT NULL UNIQUE,
		user_id INTEGER NOT NULL REFERENCES users(id),
		name TEXT NOT NULL,
		number TEXT NOT NULL UNIQUE,
		cvv TEXT NOT NULL,
		exp TEXT NOT NULL,
		card_type TEXT NOT NULL,
		image TEXT NOT NULL DEFAULT '',
		start_balance BIGINT NOT NULL,
		used_total BIGINT NOT NULL DEFAULT 0,
		balance BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS records (
		id SERIAL PRIMARY KEY,
		record_id TEXT NOT NULL UNIQUE,
		user_id INTEGER NOT NULL REFERENCES users(id),
		card_id TEXT NOT NULL,
		mode TEXT NOT NULL,
		category TEXT NOT NULL,
		value BIGINT NOT NULL CHECK (value >= 0),
		datetime TIMESTAMPTZ NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		picture TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_records_user ON records(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_records_card ON records(card_id)`,
	`CREATE INDEX IF NOT EXISTS idx_records_user_mode_category ON records(user_id, mode, category)`,
}

// EnsureSchema creates the tables and indexes the services expect.
func EnsureSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema migration failed: %w", err)
		}
	}
	return nil
}

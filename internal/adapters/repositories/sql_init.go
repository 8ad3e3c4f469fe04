package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the postgres schema for server-backed deployments.
// Mirrors the SQLite schema with BIGSERIAL identities.
func InitSchemaPostgres(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`
		CREATE TABLE IF NOT EXISTS coordinate (
			id BIGSERIAL PRIMARY KEY,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS place_record (
			id BIGSERIAL PRIMARY KEY,
			coordinate_id BIGINT NOT NULL,
			road TEXT NOT NULL DEFAULT '',
			district TEXT NOT NULL DEFAULT '',
			locality TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			county TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT '',
			formatted_address TEXT NOT NULL DEFAULT '',
			currency_name TEXT NOT NULL DEFAULT '',
			currency_code TEXT NOT NULL DEFAULT '',
			flag_glyph TEXT NOT NULL DEFAULT '',
			photo_reference TEXT
		);
		`,
		`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_place_record_coordinate_id
		ON place_record(coordinate_id);
		`,
		`
		CREATE TABLE IF NOT EXISTS currency_rate (
			id BIGSERIAL PRIMARY KEY,
			base_currency TEXT NOT NULL,
			compare_currency TEXT NOT NULL,
			rate DOUBLE PRECISION NOT NULL,
			fetched_at BIGINT NOT NULL
		);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_currency_rate_pair
		ON currency_rate(base_currency, compare_currency, fetched_at DESC);
		`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite database schema.
//
// place_record.coordinate_id carries a unique index so the
// one-record-per-coordinate invariant is enforced by storage, not caller
// discipline. currency_rate is append-only and indexed for
// most-recent-per-pair lookups.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createCoordinateQuery := `
	CREATE TABLE IF NOT EXISTS coordinate (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL
	);
	`

	createPlaceRecordQuery := `
	CREATE TABLE IF NOT EXISTS place_record (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		coordinate_id INTEGER NOT NULL,
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
	`

	createPlaceRecordIndexQuery := `
	CREATE UNIQUE INDEX IF NOT EXISTS idx_place_record_coordinate_id
	ON place_record(coordinate_id);
	`

	createCurrencyRateQuery := `
	CREATE TABLE IF NOT EXISTS currency_rate (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		base_currency TEXT NOT NULL,
		compare_currency TEXT NOT NULL,
		rate REAL NOT NULL,
		fetched_at INTEGER NOT NULL
	);
	`

	createCurrencyRateIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_currency_rate_pair
	ON currency_rate(base_currency, compare_currency, fetched_at DESC);
	`

	statements := []string{
		createCoordinateQuery,
		createPlaceRecordQuery,
		createPlaceRecordIndexQuery,
		createCurrencyRateQuery,
		createCurrencyRateIndexQuery,
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

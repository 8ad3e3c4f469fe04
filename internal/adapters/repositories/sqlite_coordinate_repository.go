package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"travel-companion-service/internal/domain"
)

// SQLite-backed implementation of the CoordinateStore port.
type SqliteCoordinateRepository struct{ DB *sql.DB }

func NewSqliteCoordinateRepository(db *sql.DB) *SqliteCoordinateRepository {
	return &SqliteCoordinateRepository{DB: db}
}

// Persist the coordinate unless the caller already holds a canonical identity
// or the components are missing. Dedup of fresh values is the caller's job
// (FindByPosition before creating); Upsert itself never scans for duplicates.
func (s *SqliteCoordinateRepository) Upsert(ctx context.Context, c domain.Coordinate) (domain.Coordinate, domain.PersistStatus, error) {
	if s.DB == nil {
		return c, domain.PersistStatusRejected, errors.New("coordinate repository: DB is nil")
	}

	if c.HasIdentity() {
		return c, domain.PersistStatusNoop, nil
	}

	if c.IsZero() {
		return c, domain.PersistStatusRejected, fmt.Errorf(
			"upsert coordinate: missing latitude/longitude: %w", domain.ErrValidation,
		)
	}

	query := `
	INSERT INTO coordinate (latitude, longitude)
	VALUES (?, ?);
	`
	res, err := s.DB.ExecContext(ctx, query, c.Latitude, c.Longitude)
	if err != nil {
		return c, domain.PersistStatusRejected, fmt.Errorf("upsert coordinate: insert: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil || id < 1 {
		return c, domain.PersistStatusRejected, fmt.Errorf(
			"upsert coordinate: no identity assigned: %w", domain.ErrPersistence,
		)
	}

	c.ID = id
	return c, domain.PersistStatusPersisted, nil
}

// Return the stored coordinate at the exact position. When a pre-dedup
// database holds duplicates, the oldest row is the canonical one.
func (s *SqliteCoordinateRepository) FindByPosition(ctx context.Context, latitude, longitude float64) (domain.Coordinate, error) {
	if s.DB == nil {
		return domain.Coordinate{}, errors.New("coordinate repository: DB is nil")
	}

	query := `
	SELECT id, latitude, longitude
	FROM coordinate
	WHERE latitude = ? AND longitude = ?
	ORDER BY id
	LIMIT 1;
	`
	var out domain.Coordinate
	err := s.DB.QueryRowContext(ctx, query, latitude, longitude).Scan(&out.ID, &out.Latitude, &out.Longitude)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinate{}, fmt.Errorf("find coordinate (%f, %f): %w", latitude, longitude, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("find coordinate (%f, %f): query: %w", latitude, longitude, err)
	}

	return out, nil
}

// Return the single coordinate with the given identity.
func (s *SqliteCoordinateRepository) GetByID(ctx context.Context, id int64) (domain.Coordinate, error) {
	if s.DB == nil {
		return domain.Coordinate{}, errors.New("coordinate repository: DB is nil")
	}

	query := `
	SELECT id, latitude, longitude
	FROM coordinate
	WHERE id = ?;
	`
	rows, err := s.DB.QueryContext(ctx, query, id)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("get coordinate id=%d: query: %w", id, err)
	}
	defer rows.Close()

	var (
		out   domain.Coordinate
		count int
	)
	for rows.Next() {
		count++
		// Identities are unique by construction; a second row means the
		// table is corrupt and is surfaced below, not silently resolved.
		if count == 1 {
			if err := rows.Scan(&out.ID, &out.Latitude, &out.Longitude); err != nil {
				return domain.Coordinate{}, fmt.Errorf("get coordinate id=%d: scan row: %w", id, err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Coordinate{}, fmt.Errorf("get coordinate id=%d: row iteration: %w", id, err)
	}

	switch {
	case count == 0:
		return domain.Coordinate{}, fmt.Errorf("get coordinate id=%d: %w", id, domain.ErrNotFound)
	case count > 1:
		return domain.Coordinate{}, fmt.Errorf("get coordinate id=%d: %d rows: %w", id, count, domain.ErrAmbiguous)
	}

	return out, nil
}

// Return the most recently stored coordinate (the last-known fix).
func (s *SqliteCoordinateRepository) Latest(ctx context.Context) (domain.Coordinate, error) {
	if s.DB == nil {
		return domain.Coordinate{}, errors.New("coordinate repository: DB is nil")
	}

	query := `
	SELECT id, latitude, longitude
	FROM coordinate
	ORDER BY id DESC
	LIMIT 1;
	`
	var out domain.Coordinate
	err := s.DB.QueryRowContext(ctx, query).Scan(&out.ID, &out.Latitude, &out.Longitude)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinate{}, fmt.Errorf("latest coordinate: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("latest coordinate: query: %w", err)
	}

	return out, nil
}

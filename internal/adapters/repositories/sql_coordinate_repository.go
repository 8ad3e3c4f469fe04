package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"travel-companion-service/internal/domain"
	"travel-companion-service/internal/platform/obs"
)

// Postgres-backed implementation of the CoordinateStore port.
type SQLCoordinateRepository struct{ DB *sql.DB }

func NewSQLCoordinateRepository(db *sql.DB) *SQLCoordinateRepository {
	return &SQLCoordinateRepository{DB: db}
}

func (s *SQLCoordinateRepository) Upsert(ctx context.Context, c domain.Coordinate) (_ domain.Coordinate, _ domain.PersistStatus, err error) {
	defer obs.Time(ctx, "coordinate.Upsert")(&err)

	if s.DB == nil {
		return c, domain.PersistStatusRejected, errors.New("coordinate repository: db is nil")
	}

	if c.HasIdentity() {
		return c, domain.PersistStatusNoop, nil
	}

	if c.IsZero() {
		return c, domain.PersistStatusRejected, fmt.Errorf(
			"upsert coordinate: missing latitude/longitude: %w", domain.ErrValidation,
		)
	}

	q := `
	INSERT INTO coordinate (latitude, longitude)
	VALUES ($1, $2)
	RETURNING id;
	`
	var id int64
	if err := s.DB.QueryRowContext(ctx, q, c.Latitude, c.Longitude).Scan(&id); err != nil {
		return c, domain.PersistStatusRejected, fmt.Errorf("upsert coordinate: insert: %w", err)
	}
	if id < 1 {
		return c, domain.PersistStatusRejected, fmt.Errorf(
			"upsert coordinate: no identity assigned: %w", domain.ErrPersistence,
		)
	}

	c.ID = id
	return c, domain.PersistStatusPersisted, nil
}

func (s *SQLCoordinateRepository) FindByPosition(ctx context.Context, latitude, longitude float64) (_ domain.Coordinate, err error) {
	defer obs.Time(ctx, "coordinate.FindByPosition")(&err)

	if s.DB == nil {
		return domain.Coordinate{}, errors.New("coordinate repository: db is nil")
	}

	q := `
	SELECT id, latitude, longitude
	FROM coordinate
	WHERE latitude = $1 AND longitude = $2
	ORDER BY id
	LIMIT 1;
	`
	var out domain.Coordinate
	scanErr := s.DB.QueryRowContext(ctx, q, latitude, longitude).Scan(&out.ID, &out.Latitude, &out.Longitude)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return domain.Coordinate{}, fmt.Errorf("find coordinate (%f, %f): %w", latitude, longitude, domain.ErrNotFound)
	}
	if scanErr != nil {
		return domain.Coordinate{}, fmt.Errorf("find coordinate (%f, %f): query: %w", latitude, longitude, scanErr)
	}

	return out, nil
}

func (s *SQLCoordinateRepository) GetByID(ctx context.Context, id int64) (_ domain.Coordinate, err error) {
	defer obs.Time(ctx, "coordinate.GetByID")(&err)

	if s.DB == nil {
		return domain.Coordinate{}, errors.New("coordinate repository: db is nil")
	}

	q := `
	SELECT id, latitude, longitude
	FROM coordinate
	WHERE id = $1;
	`
	rows, err := s.DB.QueryContext(ctx, q, id)
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

func (s *SQLCoordinateRepository) Latest(ctx context.Context) (_ domain.Coordinate, err error) {
	defer obs.Time(ctx, "coordinate.Latest")(&err)

	if s.DB == nil {
		return domain.Coordinate{}, errors.New("coordinate repository: db is nil")
	}

	q := `
	SELECT id, latitude, longitude
	FROM coordinate
	ORDER BY id DESC
	LIMIT 1;
	`
	var out domain.Coordinate
	scanErr := s.DB.QueryRowContext(ctx, q).Scan(&out.ID, &out.Latitude, &out.Longitude)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return domain.Coordinate{}, fmt.Errorf("latest coordinate: %w", domain.ErrNotFound)
	}
	if scanErr != nil {
		return domain.Coordinate{}, fmt.Errorf("latest coordinate: query: %w", scanErr)
	}

	return out, nil
}

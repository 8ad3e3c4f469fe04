package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"travel-companion-service/internal/domain"
	"travel-companion-service/internal/platform/obs"
)

// Postgres-backed implementation of the PlaceStore port.
type SQLPlaceRepository struct{ DB *sql.DB }

func NewSQLPlaceRepository(db *sql.DB) *SQLPlaceRepository {
	return &SQLPlaceRepository{DB: db}
}

func (s *SQLPlaceRepository) GetByCoordinateID(ctx context.Context, coordinateID int64) (_ domain.PlaceRecord, err error) {
	defer obs.Time(ctx, "place.GetByCoordinateID")(&err)

	if s.DB == nil {
		return domain.PlaceRecord{}, errors.New("place repository: db is nil")
	}

	q := `
	SELECT ` + placeColumns + `
	FROM place_record
	WHERE coordinate_id = $1;
	`
	rows, err := s.DB.QueryContext(ctx, q, coordinateID)
	if err != nil {
		return domain.PlaceRecord{}, fmt.Errorf("get place coordinate_id=%d: query: %w", coordinateID, err)
	}
	defer rows.Close()

	var (
		out   domain.PlaceRecord
		count int
	)
	for rows.Next() {
		count++
		if count == 1 {
			if out, err = scanPlace(rows); err != nil {
				return domain.PlaceRecord{}, fmt.Errorf("get place coordinate_id=%d: scan row: %w", coordinateID, err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return domain.PlaceRecord{}, fmt.Errorf("get place coordinate_id=%d: row iteration: %w", coordinateID, err)
	}

	switch {
	case count == 0:
		return domain.PlaceRecord{}, fmt.Errorf("get place coordinate_id=%d: %w", coordinateID, domain.ErrNotFound)
	case count > 1:
		return domain.PlaceRecord{}, fmt.Errorf("get place coordinate_id=%d: %d rows: %w", coordinateID, count, domain.ErrAmbiguous)
	}

	return out, nil
}

func (s *SQLPlaceRepository) ListAll(ctx context.Context) (_ []domain.PlaceRecord, err error) {
	defer obs.Time(ctx, "place.ListAll")(&err)

	if s.DB == nil {
		return nil, errors.New("place repository: db is nil")
	}

	q := `
	SELECT ` + placeColumns + `
	FROM place_record
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list places: query: %w", err)
	}
	defer rows.Close()

	records := make([]domain.PlaceRecord, 0, 16)
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("list places: scan row: %w", err)
		}
		records = append(records, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list places: row iteration: %w", err)
	}

	return records, nil
}

func (s *SQLPlaceRepository) Create(ctx context.Context, record domain.PlaceRecord) (_ domain.PlaceRecord, _ domain.PersistStatus, err error) {
	defer obs.Time(ctx, "place.Create")(&err)

	if s.DB == nil {
		return record, domain.PersistStatusRejected, errors.New("place repository: db is nil")
	}

	if record.HasIdentity() {
		return record, domain.PersistStatusNoop, nil
	}

	if record.CoordinateID < 1 {
		return record, domain.PersistStatusRejected, fmt.Errorf(
			"create place: missing coordinate id: %w", domain.ErrValidation,
		)
	}

	q := `
	INSERT INTO place_record (
		coordinate_id, road, district, locality, city, county, country,
		formatted_address, currency_name, currency_code, flag_glyph, photo_reference
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING id;
	`
	var photo any
	if record.PhotoReference != "" {
		photo = record.PhotoReference
	}

	var id int64
	if err := s.DB.QueryRowContext(ctx, q,
		record.CoordinateID, record.Road, record.District, record.Locality,
		record.City, record.County, record.Country, record.FormattedAddress,
		record.CurrencyName, record.CurrencyCode, record.FlagGlyph, photo,
	).Scan(&id); err != nil {
		return record, domain.PersistStatusRejected, fmt.Errorf("create place: insert: %w", err)
	}
	if id < 1 {
		return record, domain.PersistStatusRejected, fmt.Errorf(
			"create place: no identity assigned: %w", domain.ErrPersistence,
		)
	}

	record.ID = id
	return record, domain.PersistStatusPersisted, nil
}

func (s *SQLPlaceRepository) DeleteByID(ctx context.Context, id int64) (_ bool, err error) {
	defer obs.Time(ctx, "place.DeleteByID")(&err)

	if s.DB == nil {
		return false, errors.New("place repository: db is nil")
	}

	if id < 1 {
		return false, nil
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM place_record WHERE id = $1;`, id)
	if err != nil {
		return false, fmt.Errorf("delete place id=%d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete place id=%d: rows affected: %w", id, err)
	}

	return affected > 0, nil
}

func (s *SQLPlaceRepository) UpdatePhotoReference(ctx context.Context, photoURI string, id int64) (_ bool, err error) {
	defer obs.Time(ctx, "place.UpdatePhotoReference")(&err)

	if s.DB == nil {
		return false, errors.New("place repository: db is nil")
	}

	if strings.TrimSpace(photoURI) == "" || id < 1 {
		return false, nil
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE place_record SET photo_reference = $1 WHERE id = $2;`, photoURI, id,
	)
	if err != nil {
		return false, fmt.Errorf("update place photo id=%d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update place photo id=%d: rows affected: %w", id, err)
	}

	return affected > 0, nil
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"travel-companion-service/internal/domain"
)

// SQLite-backed implementation of the PlaceStore port.
type SqlitePlaceRepository struct{ DB *sql.DB }

func NewSqlitePlaceRepository(db *sql.DB) *SqlitePlaceRepository {
	return &SqlitePlaceRepository{DB: db}
}

const placeColumns = `
	id, coordinate_id, road, district, locality, city, county, country,
	formatted_address, currency_name, currency_code, flag_glyph, photo_reference
`

func scanPlace(rows *sql.Rows) (domain.PlaceRecord, error) {
	var (
		p     domain.PlaceRecord
		photo sql.NullString
	)
	err := rows.Scan(
		&p.ID, &p.CoordinateID, &p.Road, &p.District, &p.Locality, &p.City,
		&p.County, &p.Country, &p.FormattedAddress, &p.CurrencyName,
		&p.CurrencyCode, &p.FlagGlyph, &photo,
	)
	if err != nil {
		return domain.PlaceRecord{}, err
	}
	p.PhotoReference = photo.String
	return p, nil
}

// Return the single record for the coordinate identity.
func (s *SqlitePlaceRepository) GetByCoordinateID(ctx context.Context, coordinateID int64) (domain.PlaceRecord, error) {
	if s.DB == nil {
		return domain.PlaceRecord{}, errors.New("place repository: DB is nil")
	}

	query := `
	SELECT ` + placeColumns + `
	FROM place_record
	WHERE coordinate_id = ?;
	`
	rows, err := s.DB.QueryContext(ctx, query, coordinateID)
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
		// More than one row breaks the one-record-per-coordinate invariant;
		// surfaced below rather than picking the first.
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

// Return every stored record ordered by identity ascending. Embedded
// coordinates stay zero-valued; the caller resolves them when needed.
func (s *SqlitePlaceRepository) ListAll(ctx context.Context) ([]domain.PlaceRecord, error) {
	if s.DB == nil {
		return nil, errors.New("place repository: DB is nil")
	}

	query := `
	SELECT ` + placeColumns + `
	FROM place_record
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
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

// Insert the record unless it already carries an identity (guard against
// duplicate-insert races from double submission).
func (s *SqlitePlaceRepository) Create(ctx context.Context, record domain.PlaceRecord) (domain.PlaceRecord, domain.PersistStatus, error) {
	if s.DB == nil {
		return record, domain.PersistStatusRejected, errors.New("place repository: DB is nil")
	}

	if record.HasIdentity() {
		return record, domain.PersistStatusNoop, nil
	}

	if record.CoordinateID < 1 {
		return record, domain.PersistStatusRejected, fmt.Errorf(
			"create place: missing coordinate id: %w", domain.ErrValidation,
		)
	}

	query := `
	INSERT INTO place_record (
		coordinate_id, road, district, locality, city, county, country,
		formatted_address, currency_name, currency_code, flag_glyph, photo_reference
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	var photo any
	if record.PhotoReference != "" {
		photo = record.PhotoReference
	}

	res, err := s.DB.ExecContext(ctx, query,
		record.CoordinateID, record.Road, record.District, record.Locality,
		record.City, record.County, record.Country, record.FormattedAddress,
		record.CurrencyName, record.CurrencyCode, record.FlagGlyph, photo,
	)
	if err != nil {
		return record, domain.PersistStatusRejected, fmt.Errorf("create place: insert: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil || id < 1 {
		return record, domain.PersistStatusRejected, fmt.Errorf(
			"create place: no identity assigned: %w", domain.ErrPersistence,
		)
	}

	record.ID = id
	return record, domain.PersistStatusPersisted, nil
}

// Delete by identity. Coordinates are never cascade-deleted.
func (s *SqlitePlaceRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	if s.DB == nil {
		return false, errors.New("place repository: DB is nil")
	}

	if id < 1 {
		return false, nil
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM place_record WHERE id = ?;`, id)
	if err != nil {
		return false, fmt.Errorf("delete place id=%d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete place id=%d: rows affected: %w", id, err)
	}

	return affected > 0, nil
}

// Set the photo reference for an existing record.
func (s *SqlitePlaceRepository) UpdatePhotoReference(ctx context.Context, photoURI string, id int64) (bool, error) {
	if s.DB == nil {
		return false, errors.New("place repository: DB is nil")
	}

	if strings.TrimSpace(photoURI) == "" || id < 1 {
		return false, nil
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE place_record SET photo_reference = ? WHERE id = ?;`, photoURI, id,
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

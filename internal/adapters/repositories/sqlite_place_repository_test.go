package repositories

import (
	"context"
	"errors"
	"testing"

	"travel-companion-service/internal/domain"
)

func seedCoordinate(t *testing.T, coords *SqliteCoordinateRepository, lat, lon float64) domain.Coordinate {
	t.Helper()

	c, _, err := coords.Upsert(context.Background(), domain.Coordinate{Latitude: lat, Longitude: lon})
	if err != nil {
		t.Fatalf("seed coordinate: %v", err)
	}
	return c
}

func samplePlace(coordinateID int64) domain.PlaceRecord {
	return domain.PlaceRecord{
		CoordinateID:     coordinateID,
		Road:             "Unter den Linden",
		District:         "Mitte",
		Locality:         "Berlin",
		City:             "Berlin",
		County:           "Berlin",
		Country:          "Germany",
		FormattedAddress: "Unter den Linden, 10117 Berlin, Germany",
		CurrencyName:     "Euro",
		CurrencyCode:     "EUR",
		FlagGlyph:        "\U0001F1E9\U0001F1EA",
	}
}

func TestPlaceCreateAndGetByCoordinateID(t *testing.T) {
	db := openTestDB(t)
	coords := NewSqliteCoordinateRepository(db)
	places := NewSqlitePlaceRepository(db)
	ctx := context.Background()

	c := seedCoordinate(t, coords, 52.52, 13.405)

	created, status, err := places.Create(ctx, samplePlace(c.ID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != domain.PersistStatusPersisted {
		t.Fatalf("status = %v, want persisted", status)
	}
	if created.ID != 1 {
		t.Fatalf("id = %d, want 1", created.ID)
	}

	got, err := places.GetByCoordinateID(ctx, c.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != created {
		t.Fatalf("got %+v, want %+v", got, created)
	}

	if _, err := places.GetByCoordinateID(ctx, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestPlaceCreateNoopWithIdentity(t *testing.T) {
	db := openTestDB(t)
	places := NewSqlitePlaceRepository(db)

	record := samplePlace(1)
	record.ID = 7

	got, status, err := places.Create(context.Background(), record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != domain.PersistStatusNoop {
		t.Fatalf("status = %v, want noop", status)
	}
	if got != record {
		t.Fatalf("record changed on noop create: %+v", got)
	}

	rows, err := places.ListAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("row count = %d, want 0", len(rows))
	}
}

func TestPlaceCreateRejectsMissingCoordinate(t *testing.T) {
	places := NewSqlitePlaceRepository(openTestDB(t))

	_, status, err := places.Create(context.Background(), samplePlace(0))
	if status != domain.PersistStatusRejected {
		t.Fatalf("status = %v, want rejected", status)
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestPlaceCreateEnforcesOnePerCoordinate(t *testing.T) {
	db := openTestDB(t)
	coords := NewSqliteCoordinateRepository(db)
	places := NewSqlitePlaceRepository(db)
	ctx := context.Background()

	c := seedCoordinate(t, coords, 48.8566, 2.3522)

	if _, _, err := places.Create(ctx, samplePlace(c.ID)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Second record for the same coordinate violates the unique index.
	_, status, err := places.Create(ctx, samplePlace(c.ID))
	if err == nil {
		t.Fatal("expected unique constraint violation")
	}
	if status != domain.PersistStatusRejected {
		t.Fatalf("status = %v, want rejected", status)
	}
}

func TestPlaceListAllOrder(t *testing.T) {
	db := openTestDB(t)
	coords := NewSqliteCoordinateRepository(db)
	places := NewSqlitePlaceRepository(db)
	ctx := context.Background()

	first := seedCoordinate(t, coords, 1, 1)
	second := seedCoordinate(t, coords, 2, 2)

	a := samplePlace(first.ID)
	b := samplePlace(second.ID)
	b.City = "Paris"

	if _, _, err := places.Create(ctx, a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := places.Create(ctx, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := places.ListAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("row count = %d, want 2", len(rows))
	}
	if rows[0].ID != 1 || rows[1].ID != 2 {
		t.Fatalf("order = [%d %d], want [1 2]", rows[0].ID, rows[1].ID)
	}
	if rows[1].City != "Paris" {
		t.Fatalf("city = %q, want Paris", rows[1].City)
	}
}

func TestPlaceDeleteByID(t *testing.T) {
	db := openTestDB(t)
	coords := NewSqliteCoordinateRepository(db)
	places := NewSqlitePlaceRepository(db)
	ctx := context.Background()

	c := seedCoordinate(t, coords, 10, 20)
	created, _, err := places.Create(ctx, samplePlace(c.ID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Identity zero is not an error, just nothing to delete.
	deleted, err := places.DeleteByID(ctx, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted {
		t.Fatal("delete of id 0 reported success")
	}

	deleted, err = places.DeleteByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Fatal("delete of existing record reported no-op")
	}

	if _, err := places.GetByCoordinateID(ctx, c.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want not found after delete", err)
	}

	// The coordinate row survives the place deletion.
	if _, err := coords.GetByID(ctx, c.ID); err != nil {
		t.Fatalf("coordinate lost after place delete: %v", err)
	}
}

func TestPlaceUpdatePhotoReference(t *testing.T) {
	db := openTestDB(t)
	coords := NewSqliteCoordinateRepository(db)
	places := NewSqlitePlaceRepository(db)
	ctx := context.Background()

	c := seedCoordinate(t, coords, 35.68, 139.69)
	created, _, err := places.Create(ctx, samplePlace(c.ID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Empty URI is refused without touching the row.
	updated, err := places.UpdatePhotoReference(ctx, "", created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated {
		t.Fatal("empty photo URI reported as applied")
	}

	updated, err = places.UpdatePhotoReference(ctx, "file:///photos/berlin.jpg", created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated {
		t.Fatal("photo update reported no-op")
	}

	got, err := places.GetByCoordinateID(ctx, c.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PhotoReference != "file:///photos/berlin.jpg" {
		t.Fatalf("photo = %q, want file:///photos/berlin.jpg", got.PhotoReference)
	}

	updated, err = places.UpdatePhotoReference(ctx, "file:///photos/other.jpg", 999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated {
		t.Fatal("update of missing record reported success")
	}
}

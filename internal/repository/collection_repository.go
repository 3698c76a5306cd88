package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/wasteops-portal/internal/model"
)

type CollectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// Insert appends one collection event. A duplicate idempotency key is a
// no-op and returns the row written by the first submit.
func (r *CollectionRepository) Insert(ctx context.Context, collection model.Collection) (*model.Collection, error) {
	var saved model.Collection
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO collections (picker_id, picker_name, bin_id, ward, location, waste_type, success, idempotency_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (idempotency_key) DO NOTHING
		RETURNING id, picker_id, picker_name, bin_id, ward, location, waste_type, success, idempotency_key, created_at
	`,
		collection.PickerID,
		collection.PickerName,
		collection.BinID,
		collection.Ward,
		collection.Location,
		collection.WasteType,
		collection.Success,
		collection.IdempotencyKey,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	if saved.ID != uuid.Nil {
		return &saved, nil
	}

	// Conflict path: RETURNING yields no row, fetch the original.
	err = r.db.WithContext(ctx).Raw(`
		SELECT id, picker_id, picker_name, bin_id, ward, location, waste_type, success, idempotency_key, created_at
		FROM collections
		WHERE idempotency_key = ?
		LIMIT 1
	`, collection.IdempotencyKey).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	if saved.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &saved, nil
}

func (r *CollectionRepository) ListForPickerBetween(
	ctx context.Context,
	pickerID uuid.UUID,
	from, to time.Time,
) ([]model.Collection, error) {
	var collections []model.Collection
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, picker_id, picker_name, bin_id, ward, location, waste_type, success, idempotency_key, created_at
		FROM collections
		WHERE picker_id = ?
			AND created_at >= ?
			AND created_at < ?
		ORDER BY created_at ASC
	`, pickerID, from, to).Scan(&collections).Error
	if err != nil {
		return nil, err
	}
	return collections, nil
}

func (r *CollectionRepository) ListBetween(ctx context.Context, from, to time.Time) ([]model.Collection, error) {
	var collections []model.Collection
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, picker_id, picker_name, bin_id, ward, location, waste_type, success, idempotency_key, created_at
		FROM collections
		WHERE created_at >= ?
			AND created_at < ?
		ORDER BY created_at ASC
	`, from, to).Scan(&collections).Error
	if err != nil {
		return nil, err
	}
	return collections, nil
}

// WasteTypeCounts groups the window's events by lowercased waste type.
func (r *CollectionRepository) WasteTypeCounts(ctx context.Context, from, to time.Time) (map[string]int64, error) {
	var rows []struct {
		WasteType string
		Count     int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT LOWER(waste_type) AS waste_type, COUNT(*) AS count
		FROM collections
		WHERE created_at >= ?
			AND created_at < ?
		GROUP BY LOWER(waste_type)
	`, from, to).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.WasteType] = row.Count
	}
	return counts, nil
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nurpe/wasteops-portal/internal/model"
)

type CitizenRepository struct {
	db *gorm.DB
}

func NewCitizenRepository(db *gorm.DB) *CitizenRepository {
	return &CitizenRepository{db: db}
}

// UpsertByEmail keeps exactly one citizens row per email; a repeated
// submit refreshes the stored full name.
func (r *CitizenRepository) UpsertByEmail(ctx context.Context, fullName, email string) (*model.Citizen, error) {
	var saved model.Citizen
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO citizens (full_name, email)
		VALUES (?, ?)
		ON CONFLICT (email) DO UPDATE SET full_name = EXCLUDED.full_name
		RETURNING id, full_name, email, created_at
	`, fullName, email).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
